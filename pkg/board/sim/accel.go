package sim

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/m0soc/pkg/adxl362"
)

// BusEventKind is the kind of a recorded bus event.
type BusEventKind int

// Bus event kinds.
const (
	EventSelect BusEventKind = iota
	EventDeselect
	EventByte
)

// BusEvent is a recorded chip-select edge or data byte.
type BusEvent struct {
	Kind  BusEventKind
	Value byte
}

// String implements fmt.Stringer.
func (e BusEvent) String() string {
	switch e.Kind {
	case EventSelect:
		return "CS+"
	case EventDeselect:
		return "CS-"
	}
	return fmt.Sprintf("%02x", e.Value)
}

// Accelerometer simulates an ADXL362 register file behind the SPI
// controller registers, implementing spi.Bus.
//
// Within a selected frame the first byte is the instruction, the second
// the register address and the third is written to the register for a
// write instruction. For a read the register value is latched into the
// data register when the third byte completes.
type Accelerometer struct {
	lock     sync.Mutex
	regs     [64]byte
	selected bool
	phase    int
	instr    byte
	addr     byte
	data     byte
	complete bool
	stalled  bool
	events   []BusEvent
}

// NewAccelerometer creates a powered-up device at rest.
func NewAccelerometer() *Accelerometer {
	a := &Accelerometer{}
	a.reset()
	return a
}

func (a *Accelerometer) reset() {
	a.regs = [64]byte{}
	a.regs[adxl362.DevIDAD] = adxl362.DevIDADValue
	a.regs[adxl362.DevIDMST] = 0x1D
	a.regs[adxl362.PartID] = adxl362.PartIDValue
}

// SetChipSelect implements spi.Bus.
func (a *Accelerometer) SetChipSelect(asserted bool) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if asserted {
		a.events = append(a.events, BusEvent{Kind: EventSelect})
	} else {
		a.events = append(a.events, BusEvent{Kind: EventDeselect})
	}
	a.selected, a.phase = asserted, 0
}

// WriteData implements spi.Bus.
func (a *Accelerometer) WriteData(b byte) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.events = append(a.events, BusEvent{Kind: EventByte, Value: b})
	if a.stalled {
		return
	}
	a.data = 0
	if a.selected {
		switch a.phase {
		case 0:
			a.instr = b
		case 1:
			a.addr = b & 0x3f
		case 2:
			a.transact(b)
		}
		a.phase++
	}
	a.complete = true
}

func (a *Accelerometer) transact(b byte) {
	switch a.instr {
	case adxl362.ReadInstruction:
		a.data = a.regs[a.addr]
	case adxl362.WriteInstruction:
		if a.addr == adxl362.SoftReset && b == adxl362.SoftResetCode {
			a.reset()
			return
		}
		a.regs[a.addr] = b
	default:
		glog.Warningf("sim: unknown instruction %02x", a.instr)
	}
}

// ReadData implements spi.Bus.
func (a *Accelerometer) ReadData() byte {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.data
}

// TransferComplete implements spi.Bus.
func (a *Accelerometer) TransferComplete() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.complete
}

// ClearTransferComplete implements spi.Bus.
func (a *Accelerometer) ClearTransferComplete() {
	a.lock.Lock()
	a.complete = false
	a.lock.Unlock()
}

// Stall makes the device stop completing transfers.
func (a *Accelerometer) Stall(stalled bool) {
	a.lock.Lock()
	a.stalled = stalled
	a.lock.Unlock()
}

// SetAxes sets the 8-bit axis registers.
func (a *Accelerometer) SetAxes(x, y, z int8) {
	a.lock.Lock()
	a.regs[adxl362.XData], a.regs[adxl362.YData], a.regs[adxl362.ZData] = byte(x), byte(y), byte(z)
	a.lock.Unlock()
}

// SetTemperature sets the 12-bit temperature registers.
func (a *Accelerometer) SetTemperature(raw int16) {
	a.lock.Lock()
	a.regs[adxl362.TempL], a.regs[adxl362.TempH] = byte(raw), byte(raw>>8)&0x0f
	a.lock.Unlock()
}

// Register returns a register value.
func (a *Accelerometer) Register(addr byte) byte {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.regs[addr&0x3f]
}

// Selected reports whether chip-select is asserted.
func (a *Accelerometer) Selected() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.selected
}

// Events returns and clears the recorded bus events.
func (a *Accelerometer) Events() []BusEvent {
	a.lock.Lock()
	defer a.lock.Unlock()
	events := a.events
	a.events = nil
	return events
}
