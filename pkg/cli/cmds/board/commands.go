package board

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/m0soc/pkg/cli/sh"
	"github.com/robotalks/m0soc/pkg/monitor"
)

func parseHex16(c *ishell.Context, what string) (uint16, bool) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("%s required", what))
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(c.Args[0], "0x"), 16, 16)
	if err != nil {
		c.Err(fmt.Errorf("Invalid %s: %v", what, err))
		return 0, false
	}
	return uint16(v), true
}

var (
	// TypeCmd types a line on the console.
	TypeCmd = ishell.Cmd{
		Name:    "type",
		Aliases: []string{"t"},
		Help:    "TEXT... (terminated by CR)",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if err := s.Sim.Board.Type(strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
				return
			}
			c.Print(s.Output(monitor.Prompt))
		}),
	}

	// RawCmd sends bytes on the console without a terminator.
	RawCmd = ishell.Cmd{
		Name:    "raw",
		Aliases: []string{"r"},
		Help:    "HEX...",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			data, err := hex.DecodeString(strings.Join(c.Args, ""))
			if err != nil {
				c.Err(fmt.Errorf("Invalid HEX: %v", err))
				return
			}
			s := sh.ShellFrom(c)
			if err := s.Sim.Board.UART.Inject(data); err != nil {
				c.Err(err)
			}
		}),
	}

	// SwitchesCmd sets the switches.
	SwitchesCmd = ishell.Cmd{
		Name:    "switches",
		Aliases: []string{"sw"},
		Help:    "HEX",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if v, ok := parseHex16(c, "HEX"); ok {
				sh.ShellFrom(c).Sim.Board.Pins.SetSwitches(v)
			}
		}),
	}

	// ButtonsCmd sets the pressed buttons.
	ButtonsCmd = ishell.Cmd{
		Name:    "buttons",
		Aliases: []string{"btn"},
		Help:    "HEX",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if v, ok := parseHex16(c, "HEX"); ok {
				sh.ShellFrom(c).Sim.Board.Pins.SetButtons(v)
			}
		}),
	}

	// LEDsCmd shows the LEDs.
	LEDsCmd = ishell.Cmd{
		Name:    "leds",
		Aliases: []string{"led"},
		Help:    "",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			v := sh.ShellFrom(c).Sim.Board.Pins.LEDs()
			var w strings.Builder
			for n := 15; n >= 0; n-- {
				if v&(1<<uint(n)) != 0 {
					w.WriteByte('*')
				} else {
					w.WriteByte('.')
				}
			}
			c.Printf("%04x %s\n", v, w.String())
		}),
	}

	// StatsCmd shows receiver and bus counters.
	StatsCmd = ishell.Cmd{
		Name:    "stats",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			s := sh.ShellFrom(c).Sim
			st := s.Monitor.Receiver.Stats()
			c.Printf("bytes=%d lines=%d truncated=%d overruns=%d delivered=%d frames=%d iterations=%d\n",
				st.Bytes, st.Lines, st.Truncated, st.Overruns,
				s.Board.IRQ.Delivered(), s.Monitor.Accel.Driver.Frames(), s.Loop.Iterations())
		}),
	}
)

func init() {
	sh.AddCmds(
		&TypeCmd,
		&RawCmd,
		&SwitchesCmd,
		&ButtonsCmd,
		&LEDsCmd,
		&StatsCmd,
	)
}
