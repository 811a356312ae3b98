package sim

import "sync/atomic"

// GPIO is an in-memory GPIO bank.
type GPIO struct {
	leds     atomic.Uint32
	switches atomic.Uint32
	buttons  atomic.Uint32
}

// LEDs implements board.GPIO.
func (g *GPIO) LEDs() uint16 { return uint16(g.leds.Load()) }

// SetLEDs implements board.GPIO.
func (g *GPIO) SetLEDs(v uint16) { g.leds.Store(uint32(v)) }

// ToggleLEDs implements board.GPIO.
func (g *GPIO) ToggleLEDs(mask uint16) {
	for {
		old := g.leds.Load()
		if g.leds.CompareAndSwap(old, (old^uint32(mask))&0xffff) {
			return
		}
	}
}

// Switches implements board.GPIO.
func (g *GPIO) Switches() uint16 { return uint16(g.switches.Load()) }

// Buttons implements board.GPIO.
func (g *GPIO) Buttons() uint16 { return uint16(g.buttons.Load()) }

// SetSwitches sets the switch positions.
func (g *GPIO) SetSwitches(v uint16) { g.switches.Store(uint32(v)) }

// SetButtons sets the pressed buttons.
func (g *GPIO) SetButtons(v uint16) { g.buttons.Store(uint32(v)) }
