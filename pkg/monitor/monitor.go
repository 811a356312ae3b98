// Package monitor is the main loop of the accelerometer demo: it prompts
// on the console, waits for a line from the receive interrupt, samples
// the accelerometer and answers the line.
package monitor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/m0soc/pkg/adxl362"
	"github.com/robotalks/m0soc/pkg/board"
	"github.com/robotalks/m0soc/pkg/framework"
	"github.com/robotalks/m0soc/pkg/linerx"
	"github.com/robotalks/m0soc/pkg/spi"
	"github.com/robotalks/m0soc/pkg/telemetry"
)

// Console messages.
const (
	Banner = "\r\nWelcome to Cortex-M0 SoC Accelerometer On Demand\r\n"
	Prompt = "\r\nType some characters: "
)

// CommandPrefix starts a command line.
const CommandPrefix = "!"

const (
	caseBit   = 0x20
	blinkMask = 0x00ff
)

// Monitor implements framework.Controller.
type Monitor struct {
	Board     board.Board
	Accel     *adxl362.Device
	Receiver  *linerx.Receiver
	Settings  []spi.Setting
	Publisher telemetry.Publisher
	DeviceID  string
	Blink     time.Duration

	sample   adxl362.Sample
	seq      uint64
	leds     uint16
	fixedLED bool
}

// New creates a Monitor with a receive buffer of rxSize bytes and wires
// the receiver to the board's console and receive interrupt.
func New(b board.Board, rxSize int) *Monitor {
	rx := linerx.NewReceiver(rxSize)
	rx.Echo = b.Console()
	rx.Gate = b.RxIRQ()
	b.RxIRQ().Handler = rx
	return &Monitor{
		Board:    b,
		Accel:    adxl362.New(b.SPI()),
		Receiver: rx,
		Settings: adxl362.DefaultSettings,
	}
}

// AddToLoop implements framework.LoopAdder.
func (m *Monitor) AddToLoop(l *framework.Loop) {
	m.Receiver.Notifier = l
	l.AddController(framework.PrLvControl, m)
	l.AddRunnable(framework.NamedRun("rx-irq", m.Board.RxIRQ()))
	// telemetry is optional: its end never stops the monitor.
	if r, ok := m.Publisher.(framework.Runnable); ok {
		l.AddRunnable(framework.Background("telemetry", r))
	}
}

// Init checks and configures the accelerometer, unmasks the receive
// interrupt and shows the first prompt.
func (m *Monitor) Init() error {
	if err := spi.Retry(m.Accel.Identify); err != nil {
		return &ConfigError{Err: err}
	}
	err := spi.Retry(func() error {
		return m.Accel.Configure(m.Settings)
	})
	if err != nil {
		return &ConfigError{Err: err}
	}
	m.Board.RxIRQ().Enable()
	m.print(Banner)
	m.idle()
	return nil
}

// Control implements framework.Controller.
func (m *Monitor) Control(framework.ControlContext) error {
	line, ok := m.Receiver.TryTakeLine()
	if !ok {
		if c, ok := m.Receiver.LastByte(); ok {
			m.Board.GPIO().SetLEDs(uint16(c))
		}
		return nil
	}
	err := m.HandleLine(line)
	m.idle()
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		glog.Warning(err)
		return nil
	}
	return err
}

// HandleLine samples the accelerometer and answers a received line.
func (m *Monitor) HandleLine(line linerx.Line) error {
	m.readAxes()
	m.printf("\r\nx : |%d|\r\ny : |%d|\r\nz : |%d|\r\n", m.sample.X, m.sample.Y, m.sample.Z)
	gx, gy, gz := m.sample.G(m.Accel.Range())
	m.printf("g : |%.3f| |%.3f| |%.3f|\r\n", gx, gy, gz)

	var err error
	if text := line.String(); strings.HasPrefix(text, CommandPrefix) {
		if err = m.command(strings.TrimPrefix(text, CommandPrefix)); err != nil {
			m.printf("%v\r\n", err)
		}
	} else {
		m.printf("\r\n:--> |%s|\n Number of characters : |%d|\r\n", InvertCase(line.Data), len(line.Data))
	}
	m.publish(line)
	return err
}

// InvertCase flips the case bit of every byte from 'A' up.
func InvertCase(data []byte) []byte {
	out := make([]byte, len(data))
	for n, c := range data {
		if c >= 'A' {
			c ^= caseBit
		}
		out[n] = c
	}
	return out
}

// readAxes keeps the previous sample if the device doesn't answer.
func (m *Monitor) readAxes() {
	err := spi.Retry(func() error {
		s, err := m.Accel.ReadAxes()
		if err == nil {
			m.sample = s
		}
		return err
	})
	if err != nil {
		glog.Errorf("read axes: %v", err)
		m.printf("\r\naccelerometer: %v\r\n", err)
	}
}

func (m *Monitor) idle() {
	gpio := m.Board.GPIO()
	if m.fixedLED {
		gpio.SetLEDs(m.leds)
	} else {
		gpio.SetLEDs(gpio.Switches())
	}
	m.pause()
	gpio.ToggleLEDs(blinkMask)
	m.pause()
	gpio.ToggleLEDs(blinkMask)
	m.pause()
	m.print(Prompt)
}

func (m *Monitor) pause() {
	if m.Blink > 0 {
		time.Sleep(m.Blink)
	}
}

func (m *Monitor) publish(line linerx.Line) {
	if m.Publisher == nil {
		return
	}
	m.seq++
	gx, gy, gz := m.sample.G(m.Accel.Range())
	s := &telemetry.Sample{
		DeviceId:  m.DeviceID,
		Seq:       m.seq,
		X:         int32(m.sample.X),
		Y:         int32(m.sample.Y),
		Z:         int32(m.sample.Z),
		Gx:        gx,
		Gy:        gy,
		Gz:        gz,
		Line:      line.String(),
		Truncated: line.Truncated,
		Timestamp: time.Now().UnixNano(),
	}
	if err := m.Publisher.Publish(s); err != nil {
		glog.Warningf("publish sample %d: %v", s.Seq, err)
	}
}

func (m *Monitor) print(s string) {
	m.Board.Console().Write([]byte(s))
}

func (m *Monitor) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.Board.Console(), format, args...)
}
