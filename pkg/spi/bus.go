package spi

// Bus exposes the registers of a synchronous serial controller.
//
// Polarity is fixed for all implementations: SetChipSelect(true) asserts
// the select line for the whole frame, and TransferComplete reports true
// once the byte written by WriteData has been fully clocked.
type Bus interface {
	SetChipSelect(asserted bool)
	WriteData(b byte)
	ReadData() byte
	TransferComplete() bool
	ClearTransferComplete()
}

// Instructions are the instruction bytes understood by the device.
type Instructions struct {
	Read  byte
	Write byte
}

// DefaultInstructions are the ADXL362 read/write instructions.
var DefaultInstructions = Instructions{Read: 0x0B, Write: 0x0A}

// Setting is a single register write used to configure the device.
type Setting struct {
	Address byte `yaml:"address"`
	Value   byte `yaml:"value"`
}
