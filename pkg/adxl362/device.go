package adxl362

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/m0soc/pkg/spi"
)

// DefaultSettings puts the device in measurement mode at ±2g and the
// lowest output data rate. The filter is set before the power mode.
var DefaultSettings = []spi.Setting{
	{Address: FilterCtl, Value: Range2G | ODR12_5Hz},
	{Address: PowerCtl, Value: PowerMeasure},
}

// Sample is one raw reading of the three axes.
type Sample struct {
	X, Y, Z int8
}

// G converts the sample to g at the given full-scale range.
func (s Sample) G(fullScale float64) (x, y, z float64) {
	return spi.RawToPhysical(s.X, fullScale),
		spi.RawToPhysical(s.Y, fullScale),
		spi.RawToPhysical(s.Z, fullScale)
}

// String implements fmt.Stringer.
func (s Sample) String() string {
	return fmt.Sprintf("x=%d y=%d z=%d", s.X, s.Y, s.Z)
}

// Device is an ADXL362 on a frame driver.
type Device struct {
	Driver *spi.Driver

	filterCtl byte
}

// New creates a Device on bus.
func New(bus spi.Bus) *Device {
	d := spi.NewDriver(bus)
	d.Instructions = spi.Instructions{Read: ReadInstruction, Write: WriteInstruction}
	return &Device{Driver: d}
}

// Configure writes settings in order and remembers the range selected
// through FilterCtl.
func (d *Device) Configure(settings []spi.Setting) error {
	if err := d.Driver.Configure(settings); err != nil {
		return err
	}
	for _, s := range settings {
		if s.Address == FilterCtl {
			d.filterCtl = s.Value
		}
	}
	glog.Infof("accelerometer configured, range ±%gg", d.Range())
	return nil
}

// Range returns the configured full-scale range in g.
func (d *Device) Range() float64 {
	switch d.filterCtl & rangeMask {
	case Range2G:
		return 2
	case Range4G:
		return 4
	default:
		return 8
	}
}

// Identify checks the device and part identifiers.
func (d *Device) Identify() error {
	id, err := d.Driver.ReadRegister(DevIDAD)
	if err != nil {
		return err
	}
	part, err := d.Driver.ReadRegister(PartID)
	if err != nil {
		return err
	}
	if id != DevIDADValue || part != PartIDValue {
		return fmt.Errorf("%w: device id %02x, part id %02x", ErrUnknownDevice, id, part)
	}
	return nil
}

// Reset issues a soft reset.
func (d *Device) Reset() error {
	d.filterCtl = 0
	return d.Driver.WriteRegister(SoftReset, SoftResetCode)
}

// ReadAxes reads X, Y and Z in that order.
func (d *Device) ReadAxes() (s Sample, err error) {
	var raw [3]byte
	for n, reg := range [3]byte{XData, YData, ZData} {
		if raw[n], err = d.Driver.ReadRegister(reg); err != nil {
			return
		}
	}
	s = Sample{X: int8(raw[0]), Y: int8(raw[1]), Z: int8(raw[2])}
	glog.V(2).Infof("axes %s", s)
	return
}

// ReadTemperature returns the signed 12-bit temperature reading.
func (d *Device) ReadTemperature() (int16, error) {
	lo, err := d.Driver.ReadRegister(TempL)
	if err != nil {
		return 0, err
	}
	hi, err := d.Driver.ReadRegister(TempH)
	if err != nil {
		return 0, err
	}
	v := int16(uint16(hi&0x0f)<<8 | uint16(lo))
	return v << 4 >> 4, nil
}

// Celsius converts a raw temperature reading.
func Celsius(raw int16) float64 {
	// 0.065 °C/LSB, 350 LSB at 25 °C.
	return float64(raw-350)*0.065 + 25
}
