// Package irq models a receive-data-available interrupt on a host.
//
// A Line owns one goroutine that reads the receive channel a byte at a
// time and delivers each byte to its Handler. Deliveries never overlap.
// While the line is disabled the pending byte stays where it is, like
// data waiting in a hardware FIFO, and is delivered once the line is
// enabled again.
package irq

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/golang/glog"
)

// Handler receives bytes in interrupt context.
type Handler interface {
	OnByteReceived(byte)
}

// HandlerFunc is the func form of Handler.
type HandlerFunc func(byte)

// OnByteReceived implements Handler.
func (f HandlerFunc) OnByteReceived(b byte) {
	f(b)
}

// Line is a maskable byte interrupt source.
type Line struct {
	Reader  io.Reader
	Handler Handler

	enabled   atomic.Bool
	enableCh  chan struct{}
	delivered atomic.Uint64
}

// NewLine creates a disabled Line reading from r.
func NewLine(r io.Reader) *Line {
	return &Line{
		Reader:   r,
		enableCh: make(chan struct{}, 1),
	}
}

// Enable unmasks delivery.
func (l *Line) Enable() {
	l.enabled.Store(true)
	select {
	case l.enableCh <- struct{}{}:
	default:
	}
}

// Disable masks delivery. A byte already being delivered is not affected.
func (l *Line) Disable() {
	l.enabled.Store(false)
}

// Enabled reports whether delivery is unmasked.
func (l *Line) Enabled() bool {
	return l.enabled.Load()
}

// Delivered returns the number of bytes handed to Handler.
func (l *Line) Delivered() uint64 {
	return l.delivered.Load()
}

// Run implements Runnable. It returns nil when Reader reaches io.EOF.
func (l *Line) Run(ctx context.Context) error {
	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, byteCh, errCh)
	for {
		select {
		case b := <-byteCh:
			if err := l.waitEnabled(ctx); err != nil {
				return err
			}
			glog.V(4).Infof("irq: %02x", b)
			l.delivered.Add(1)
			if h := l.Handler; h != nil {
				h.OnByteReceived(b)
			}
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Line) waitEnabled(ctx context.Context) error {
	for !l.enabled.Load() {
		select {
		case <-l.enableCh:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (l *Line) readLoop(ctx context.Context, byteCh chan byte, errCh chan error) {
	buf := make([]byte, 1)
	for {
		n, err := l.Reader.Read(buf)
		if n > 0 {
			select {
			case byteCh <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
