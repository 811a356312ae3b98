package spi

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/golang/glog"
)

// DefaultSpinLimit bounds the number of completion polls per byte.
const DefaultSpinLimit = 10000

// State is the state of the frame machine.
type State int32

// Frame states.
const (
	StateIdle State = iota
	StateByteInFlight
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == StateByteInFlight {
		return "byte-in-flight"
	}
	return "idle"
}

// Driver issues frames over a Bus.
type Driver struct {
	Bus          Bus
	Instructions Instructions
	// SpinLimit is the maximum number of TransferComplete polls per byte,
	// DefaultSpinLimit if zero or negative.
	SpinLimit int

	state  atomic.Int32
	frames atomic.Uint64
}

// NewDriver creates a Driver using DefaultInstructions.
func NewDriver(bus Bus) *Driver {
	return &Driver{
		Bus:          bus,
		Instructions: DefaultInstructions,
		SpinLimit:    DefaultSpinLimit,
	}
}

// State returns the current frame state.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Frames returns the number of frames started.
func (d *Driver) Frames() uint64 {
	return d.frames.Load()
}

func (d *Driver) spinLimit() int {
	if d.SpinLimit > 0 {
		return d.SpinLimit
	}
	return DefaultSpinLimit
}

// SendByte writes b to the data register and waits for the transfer to
// complete, then clears the completion flag. The flag is also cleared
// before the write so a completion left over from a timed out byte
// can't stand for this one.
func (d *Driver) SendByte(b byte) error {
	d.Bus.ClearTransferComplete()
	d.Bus.WriteData(b)
	limit := d.spinLimit()
	for n := 0; n < limit; n++ {
		if d.Bus.TransferComplete() {
			d.Bus.ClearTransferComplete()
			return nil
		}
		runtime.Gosched()
	}
	return &TimeoutError{Byte: b, Spins: limit}
}

// SendFrame clocks instruction, address and data in that order with
// chip-select asserted around the three bytes. Chip-select is always
// deasserted on return.
func (d *Driver) SendFrame(instruction, address, data byte) (err error) {
	if !d.state.CompareAndSwap(int32(StateIdle), int32(StateByteInFlight)) {
		return ErrBusy
	}
	d.frames.Add(1)
	glog.V(3).Infof("frame %02x %02x %02x", instruction, address, data)
	d.Bus.SetChipSelect(true)
	defer func() {
		d.Bus.SetChipSelect(false)
		d.state.Store(int32(StateIdle))
	}()
	for _, b := range [3]byte{instruction, address, data} {
		if err = d.SendByte(b); err != nil {
			return err
		}
	}
	return nil
}

// ReadRegister reads one register. The response is the byte latched in
// the data register after the frame completes.
func (d *Driver) ReadRegister(address byte) (byte, error) {
	if err := d.SendFrame(d.Instructions.Read, address, 0x00); err != nil {
		return 0, err
	}
	v := d.Bus.ReadData()
	glog.V(3).Infof("read %02x = %02x", address, v)
	return v, nil
}

// WriteRegister writes one register.
func (d *Driver) WriteRegister(address, value byte) error {
	return d.SendFrame(d.Instructions.Write, address, value)
}

// Configure writes settings in the given order and stops at the first failure.
func (d *Driver) Configure(settings []Setting) error {
	for n, s := range settings {
		if err := d.WriteRegister(s.Address, s.Value); err != nil {
			return &SettingError{Index: n, Setting: s, Err: err}
		}
	}
	return nil
}

// Retry runs op and runs it once more if it failed with ErrPeripheralTimeout.
func Retry(op func() error) error {
	err := op()
	if errors.Is(err, ErrPeripheralTimeout) {
		glog.Warningf("retrying after %v", err)
		err = op()
	}
	return err
}
