// Package adxl362 talks to an ADXL362 accelerometer through the spi
// frame driver, using the 8-bit axis registers only.
package adxl362

// Register addresses.
const (
	DevIDAD   byte = 0x00
	DevIDMST  byte = 0x01
	PartID    byte = 0x02
	XData     byte = 0x08
	YData     byte = 0x09
	ZData     byte = 0x0A
	Status    byte = 0x0B
	TempL     byte = 0x14
	TempH     byte = 0x15
	SoftReset byte = 0x1F
	FilterCtl byte = 0x2C
	PowerCtl  byte = 0x2D
)

// Register values.
const (
	DevIDADValue  byte = 0xAD
	PartIDValue   byte = 0xF2
	SoftResetCode byte = 0x52
)

// FilterCtl bits 7:6 select the range, the low bits the output data rate.
const (
	Range2G   byte = 0x00
	Range4G   byte = 0x40
	Range8G   byte = 0x80
	rangeMask byte = 0xC0

	ODR12_5Hz byte = 0x00
	ODR100Hz  byte = 0x03
	ODR400Hz  byte = 0x05
)

// PowerCtl measurement modes.
const (
	PowerStandby byte = 0x00
	PowerMeasure byte = 0x02
)

// Instructions.
const (
	ReadInstruction  byte = 0x0B
	WriteInstruction byte = 0x0A
)
