package sim

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// DefaultFIFOSize is the receive FIFO depth.
const DefaultFIFOSize = 256

// UART is an in-memory console UART. Bytes injected on the receive side
// are read back by the interrupt line, bytes written are collected.
type UART struct {
	// Tee, if set, also receives every transmitted byte.
	Tee io.Writer

	rxCh      chan byte
	closed    chan struct{}
	closeOnce sync.Once

	txLock   sync.Mutex
	tx       bytes.Buffer
	txNotify chan struct{}
}

// NewUART creates a UART with a receive FIFO of fifoSize bytes.
func NewUART(fifoSize int) *UART {
	if fifoSize <= 0 {
		fifoSize = DefaultFIFOSize
	}
	return &UART{
		rxCh:     make(chan byte, fifoSize),
		closed:   make(chan struct{}),
		txNotify: make(chan struct{}, 1),
	}
}

// Inject queues bytes on the receive side, blocking while the FIFO is full.
func (u *UART) Inject(p []byte) error {
	for _, b := range p {
		select {
		case u.rxCh <- b:
		case <-u.closed:
			return io.ErrClosedPipe
		}
	}
	return nil
}

// Read implements io.Reader. It blocks until at least one byte is
// available and returns io.EOF once closed and drained.
func (u *UART) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	select {
	case p[0] = <-u.rxCh:
	case <-u.closed:
		select {
		case p[0] = <-u.rxCh:
		default:
			return 0, io.EOF
		}
	}
	n := 1
	for n < len(p) {
		select {
		case p[n] = <-u.rxCh:
			n++
		default:
			return n, nil
		}
	}
	return n, nil
}

// Close stops the receive side.
func (u *UART) Close() error {
	u.closeOnce.Do(func() { close(u.closed) })
	return nil
}

// Write implements io.Writer.
func (u *UART) Write(p []byte) (int, error) {
	u.txLock.Lock()
	u.tx.Write(p)
	tee := u.Tee
	u.txLock.Unlock()
	if tee != nil {
		tee.Write(p)
	}
	select {
	case u.txNotify <- struct{}{}:
	default:
	}
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (u *UART) WriteByte(c byte) error {
	_, err := u.Write([]byte{c})
	return err
}

// Output returns everything transmitted since the last Drain.
func (u *UART) Output() string {
	u.txLock.Lock()
	defer u.txLock.Unlock()
	return u.tx.String()
}

// Drain returns and discards the transmitted output.
func (u *UART) Drain() string {
	u.txLock.Lock()
	defer u.txLock.Unlock()
	s := u.tx.String()
	u.tx.Reset()
	return s
}

// WaitOutput blocks until the output contains s.
func (u *UART) WaitOutput(ctx context.Context, s string) error {
	for {
		u.txLock.Lock()
		found := bytes.Contains(u.tx.Bytes(), []byte(s))
		u.txLock.Unlock()
		if found {
			return nil
		}
		select {
		case <-u.txNotify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
