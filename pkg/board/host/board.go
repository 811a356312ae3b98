// Package host runs the board on a workstation: the console is a raw
// terminal or a serial port, the receive interrupt is fed from it, and
// the GPIO bank and accelerometer are simulated.
package host

import (
	"log"

	"github.com/robotalks/m0soc/pkg/board"
	"github.com/robotalks/m0soc/pkg/board/sim"
	"github.com/robotalks/m0soc/pkg/irq"
	"github.com/robotalks/m0soc/pkg/spi"
)

// Board implements board.Board on host devices.
type Board struct {
	Port  *Console
	Pins  *sim.GPIO
	Accel *sim.Accelerometer
	IRQ   *irq.Line
}

// NewBoard creates a Board around an opened console.
func NewBoard(console *Console) *Board {
	return &Board{
		Port:  console,
		Pins:  &sim.GPIO{},
		Accel: sim.NewAccelerometer(),
		IRQ:   irq.NewLine(console),
	}
}

// NewBoard opens the console and creates a Board.
func (c *Config) NewBoard() (*Board, error) {
	console, err := c.OpenConsole()
	if err != nil {
		return nil, err
	}
	return NewBoard(console), nil
}

// MustNewBoard is NewBoard but fails the program on error.
func (c *Config) MustNewBoard() *Board {
	b, err := c.NewBoard()
	if err != nil {
		log.Fatalln(err)
	}
	return b
}

// Close releases the console.
func (b *Board) Close() error {
	return b.Port.Close()
}

// Console implements board.Board.
func (b *Board) Console() board.Console { return b.Port }

// GPIO implements board.Board.
func (b *Board) GPIO() board.GPIO { return b.Pins }

// SPI implements board.Board.
func (b *Board) SPI() spi.Bus { return b.Accel }

// RxIRQ implements board.Board.
func (b *Board) RxIRQ() *irq.Line { return b.IRQ }
