package linerx

import (
	"io"
	"sync/atomic"

	"github.com/golang/glog"
)

const (
	// DefaultSize is the default buffer capacity, terminator slot included.
	DefaultSize = 100
	// Terminator ends a line.
	Terminator byte = '\r'
)

// Gate controls delivery of the receive interrupt.
type Gate interface {
	Enable()
	Disable()
}

// Notifier is woken whenever the receiver state changes.
type Notifier interface {
	Wake()
}

// Line is a completed line handed to the consumer.
type Line struct {
	Data []byte
	// Truncated is set when the line was terminated by capacity
	// rather than by Terminator.
	Truncated bool
}

// String implements fmt.Stringer.
func (l Line) String() string {
	return string(l.Data)
}

// Stats are the receiver counters.
type Stats struct {
	Bytes     uint32
	Lines     uint32
	Truncated uint32
	Overruns  uint32
}

// Receiver is the line buffer shared between the interrupt context and
// the main loop.
type Receiver struct {
	// Echo receives every byte passed to OnByteReceived.
	Echo io.ByteWriter
	// Gate is disabled when a line completes and enabled once it is taken.
	Gate Gate
	// Notifier is woken after every byte. The consumer sleeps until
	// woken instead of polling Ready.
	Notifier Notifier

	buf       []byte
	cursor    int
	truncated bool
	ready     atomic.Bool

	last atomic.Uint32

	bytes     atomic.Uint32
	lines     atomic.Uint32
	truncates atomic.Uint32
	overruns  atomic.Uint32
}

// NewReceiver creates a Receiver with a buffer of size bytes, the last of
// which is reserved for the terminator.
func NewReceiver(size int) *Receiver {
	if size < 2 {
		size = 2
	}
	return &Receiver{buf: make([]byte, size)}
}

// Size returns the buffer capacity.
func (r *Receiver) Size() int {
	return len(r.buf)
}

// OnByteReceived is called from the interrupt context for every byte.
// It never blocks other than for the echo and never fails.
func (r *Receiver) OnByteReceived(c byte) {
	if r.Echo != nil {
		r.Echo.WriteByte(c)
	}
	r.bytes.Add(1)
	r.last.Store(uint32(c) | 0x100)
	if r.ready.Load() {
		// consumer still owns the buffer.
		r.overruns.Add(1)
		r.wake()
		return
	}

	r.buf[r.cursor] = c
	r.cursor++
	if full := r.cursor == len(r.buf)-1; full || c == Terminator {
		r.cursor--
		r.buf[r.cursor] = 0
		r.truncated = c != Terminator
		if r.Gate != nil {
			r.Gate.Disable()
		}
		r.ready.Store(true)
	}
	r.wake()
}

func (r *Receiver) wake() {
	if n := r.Notifier; n != nil {
		n.Wake()
	}
}

// Ready reports whether a complete line is waiting.
func (r *Receiver) Ready() bool {
	return r.ready.Load()
}

// TryTakeLine returns the completed line, or false if none is ready.
// The line is copied out before the buffer is released to the producer.
func (r *Receiver) TryTakeLine() (Line, bool) {
	if !r.ready.Load() {
		return Line{}, false
	}
	line := Line{
		Data:      append([]byte(nil), r.buf[:r.cursor]...),
		Truncated: r.truncated,
	}
	r.cursor, r.truncated = 0, false
	r.ready.Store(false)
	if r.Gate != nil {
		r.Gate.Enable()
	}

	r.lines.Add(1)
	if line.Truncated {
		r.truncates.Add(1)
		glog.Warningf("line truncated at %d bytes", len(line.Data))
	}
	glog.V(2).Infof("line taken: %q", line.Data)
	return line, true
}

// LastByte returns the most recently received byte, if any.
func (r *Receiver) LastByte() (byte, bool) {
	v := r.last.Load()
	return byte(v), v&0x100 != 0
}

// Stats returns a snapshot of the counters.
func (r *Receiver) Stats() Stats {
	return Stats{
		Bytes:     r.bytes.Load(),
		Lines:     r.lines.Load(),
		Truncated: r.truncates.Load(),
		Overruns:  r.overruns.Load(),
	}
}
