package host

import (
	"io"

	"github.com/golang/glog"
	tty "github.com/mattn/go-tty"
	"github.com/tarm/serial"
)

// Interrupt is the byte a raw terminal delivers for Ctrl-C.
const Interrupt = 0x03

// Console is a console on a host device.
type Console struct {
	io.Reader
	io.Writer

	closer func() error
}

// WriteByte implements io.ByteWriter.
func (c *Console) WriteByte(b byte) error {
	_, err := c.Write([]byte{b})
	return err
}

// Close implements io.Closer.
func (c *Console) Close() error {
	if c.closer != nil {
		return c.closer()
	}
	return nil
}

// OpenConsole opens the serial port if configured, otherwise the terminal.
func (c *Config) OpenConsole() (*Console, error) {
	if c.Port != "" {
		return OpenSerial(c.Port, c.Baud)
	}
	return OpenTTY(c.TTY)
}

// OpenSerial opens a serial port as the console.
func OpenSerial(name string, baud int) (*Console, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, err
	}
	glog.Infof("console on %s at %d baud", name, baud)
	return &Console{Reader: port, Writer: port, closer: port.Close}, nil
}

// OpenTTY opens a terminal in raw mode as the console. Ctrl-C ends the
// input as the terminal no longer raises a signal for it.
func OpenTTY(device string) (*Console, error) {
	var t *tty.TTY
	var err error
	if device == "" {
		t, err = tty.Open()
	} else {
		t, err = tty.OpenDevice(device)
	}
	if err != nil {
		return nil, err
	}
	restore, err := t.Raw()
	if err != nil {
		t.Close()
		return nil, err
	}
	return &Console{
		Reader: &BreakReader{Reader: t.Input(), Break: Interrupt},
		Writer: t.Output(),
		closer: func() error {
			restore()
			return t.Close()
		},
	}, nil
}

// BreakReader reports io.EOF once the Break byte is read.
type BreakReader struct {
	Reader io.Reader
	Break  byte

	broken bool
}

// Read implements io.Reader.
func (r *BreakReader) Read(p []byte) (int, error) {
	if r.broken {
		return 0, io.EOF
	}
	n, err := r.Reader.Read(p)
	for i := 0; i < n; i++ {
		if p[i] == r.Break {
			r.broken = true
			if i == 0 {
				return 0, io.EOF
			}
			return i, nil
		}
	}
	return n, err
}
