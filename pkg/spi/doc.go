// Package spi drives a register-addressed peripheral over a synchronous
// serial bus.
//
// A transaction is one frame of exactly three bytes clocked out while
// chip-select is held asserted: instruction, register address, data.
// For a read the data byte is a don't-care and the response is whatever
// the data register holds once the third byte has completed.
//
// The bus is polled for completion with a bounded number of spins
// instead of looping forever, so an unresponsive device surfaces as
// ErrPeripheralTimeout.
package spi
