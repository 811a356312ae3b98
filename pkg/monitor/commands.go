package monitor

import (
	"sort"
	"strconv"
	"strings"

	"github.com/robotalks/m0soc/pkg/adxl362"
	"github.com/robotalks/m0soc/pkg/spi"
)

type command struct {
	usage string
	run   func(m *Monitor, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":  {"list commands", (*Monitor).cmdHelp},
		"accel": {"show range and status", (*Monitor).cmdAccel},
		"temp":  {"read temperature", (*Monitor).cmdTemp},
		"leds":  {"[HEX] show HEX on the LEDs, switches if omitted", (*Monitor).cmdLEDs},
		"sw":    {"show switches and buttons", (*Monitor).cmdSwitches},
		"stats": {"show counters", (*Monitor).cmdStats},
		"reset": {"soft reset and reconfigure the accelerometer", (*Monitor).cmdReset},
	}
}

func (m *Monitor) command(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return &CommandError{Command: line, Err: ErrUnrecognizedCommand}
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return &CommandError{Command: args[0], Err: ErrUnrecognizedCommand}
	}
	if err := cmd.run(m, args[1:]); err != nil {
		return &CommandError{Command: args[0], Err: err}
	}
	return nil
}

func (m *Monitor) cmdHelp([]string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.printf("%s%-6s %s\r\n", CommandPrefix, name, commands[name].usage)
	}
	return nil
}

func (m *Monitor) cmdAccel([]string) error {
	var status byte
	err := spi.Retry(func() (err error) {
		status, err = m.Accel.Driver.ReadRegister(adxl362.Status)
		return
	})
	if err != nil {
		return err
	}
	m.printf("range : |%g| g\r\nstatus : |%02x|\r\n", m.Accel.Range(), status)
	return nil
}

func (m *Monitor) cmdTemp([]string) error {
	var raw int16
	err := spi.Retry(func() (err error) {
		raw, err = m.Accel.ReadTemperature()
		return
	})
	if err != nil {
		return err
	}
	m.printf("temp : |%d| (%.1f C)\r\n", raw, adxl362.Celsius(raw))
	return nil
}

func (m *Monitor) cmdLEDs(args []string) error {
	if len(args) == 0 {
		m.fixedLED = false
		return nil
	}
	v, err := strconv.ParseUint(args[0], 16, 16)
	if err != nil {
		return err
	}
	m.leds, m.fixedLED = uint16(v), true
	return nil
}

func (m *Monitor) cmdSwitches([]string) error {
	gpio := m.Board.GPIO()
	m.printf("switches : |%04x|\r\nbuttons : |%04x|\r\n", gpio.Switches(), gpio.Buttons())
	return nil
}

func (m *Monitor) cmdStats([]string) error {
	st := m.Receiver.Stats()
	m.printf("bytes : |%d|\r\nlines : |%d|\r\ntruncated : |%d|\r\noverruns : |%d|\r\nframes : |%d|\r\n",
		st.Bytes, st.Lines, st.Truncated, st.Overruns, m.Accel.Driver.Frames())
	return nil
}

func (m *Monitor) cmdReset([]string) error {
	if err := spi.Retry(m.Accel.Reset); err != nil {
		return err
	}
	return spi.Retry(func() error {
		return m.Accel.Configure(m.Settings)
	})
}
