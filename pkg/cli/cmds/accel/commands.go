package accel

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/m0soc/pkg/cli/sh"
)

var (
	// AxesCmd sets the acceleration the device reports.
	AxesCmd = ishell.Cmd{
		Name:    "accel",
		Aliases: []string{"a"},
		Help:    "X Y Z (raw, -128..127)",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("X Y Z required"))
				return
			}
			var axes [3]int8
			for n := range axes {
				v, err := strconv.ParseInt(c.Args[n], 0, 8)
				if err != nil {
					c.Err(fmt.Errorf("Invalid axis %d: %v", n, err))
					return
				}
				axes[n] = int8(v)
			}
			sh.ShellFrom(c).Sim.Board.Accel.SetAxes(axes[0], axes[1], axes[2])
		}),
	}

	// TempCmd sets the raw temperature.
	TempCmd = ishell.Cmd{
		Name:    "temp",
		Aliases: []string{},
		Help:    "RAW (12-bit signed)",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("RAW required"))
				return
			}
			v, err := strconv.ParseInt(c.Args[0], 0, 12)
			if err != nil {
				c.Err(fmt.Errorf("Invalid RAW: %v", err))
				return
			}
			sh.ShellFrom(c).Sim.Board.Accel.SetTemperature(int16(v))
		}),
	}

	// StallCmd stops or resumes transfer completion.
	StallCmd = ishell.Cmd{
		Name:    "stall",
		Aliases: []string{},
		Help:    "on|off",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("on|off required"))
				return
			}
			switch c.Args[0] {
			case "on":
				sh.ShellFrom(c).Sim.Board.Accel.Stall(true)
			case "off":
				sh.ShellFrom(c).Sim.Board.Accel.Stall(false)
			default:
				c.Err(fmt.Errorf("on|off required"))
			}
		}),
	}

	// EventsCmd prints and clears the recorded bus events.
	EventsCmd = ishell.Cmd{
		Name:    "events",
		Aliases: []string{"ev"},
		Help:    "",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			for _, ev := range sh.ShellFrom(c).Sim.Board.Accel.Events() {
				c.Print(ev.String(), " ")
			}
			c.Println()
		}),
	}

	// RegCmd reads a register of the device directly.
	RegCmd = ishell.Cmd{
		Name:    "reg",
		Aliases: []string{},
		Help:    "ADDR",
		Func: sh.MustBeRunning(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ADDR required"))
				return
			}
			addr, err := strconv.ParseUint(c.Args[0], 0, 8)
			if err != nil {
				c.Err(fmt.Errorf("Invalid ADDR: %v", err))
				return
			}
			c.Printf("%02x\n", sh.ShellFrom(c).Sim.Board.Accel.Register(byte(addr)))
		}),
	}
)

func init() {
	sh.AddCmds(
		&AxesCmd,
		&TempCmd,
		&StallCmd,
		&EventsCmd,
		&RegCmd,
	)
}
