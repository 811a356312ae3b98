// Package board defines the peripherals the monitor runs against.
package board

import (
	"io"

	"github.com/robotalks/m0soc/pkg/irq"
	"github.com/robotalks/m0soc/pkg/spi"
)

// Console is the character output channel. Writes block while the
// transmitter is full.
type Console interface {
	io.Writer
	io.ByteWriter
}

// GPIO is the digital I/O bank: 16 LEDs, switches and buttons.
type GPIO interface {
	LEDs() uint16
	SetLEDs(v uint16)
	// ToggleLEDs inverts the LEDs selected by mask.
	ToggleLEDs(mask uint16)
	Switches() uint16
	Buttons() uint16
}

// Board aggregates the peripherals.
type Board interface {
	Console() Console
	GPIO() GPIO
	SPI() spi.Bus
	// RxIRQ is the receive-data-available interrupt of the console UART.
	RxIRQ() *irq.Line
}
