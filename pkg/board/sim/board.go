// Package sim provides an in-memory board: console UART, GPIO bank,
// receive interrupt and an ADXL362 on the SPI bus.
package sim

import (
	"github.com/robotalks/m0soc/pkg/board"
	"github.com/robotalks/m0soc/pkg/irq"
	"github.com/robotalks/m0soc/pkg/spi"
)

// Board implements board.Board.
type Board struct {
	UART  *UART
	Pins  *GPIO
	Accel *Accelerometer
	IRQ   *irq.Line
}

// NewBoard creates a Board with every peripheral simulated.
func NewBoard() *Board {
	uart := NewUART(DefaultFIFOSize)
	return &Board{
		UART:  uart,
		Pins:  &GPIO{},
		Accel: NewAccelerometer(),
		IRQ:   irq.NewLine(uart),
	}
}

// Type injects s followed by a carriage return, as typed on a terminal.
func (b *Board) Type(s string) error {
	return b.UART.Inject([]byte(s + "\r"))
}

// Console implements board.Board.
func (b *Board) Console() board.Console { return b.UART }

// GPIO implements board.Board.
func (b *Board) GPIO() board.GPIO { return b.Pins }

// SPI implements board.Board.
func (b *Board) SPI() spi.Bus { return b.Accel }

// RxIRQ implements board.Board.
func (b *Board) RxIRQ() *irq.Line { return b.IRQ }
