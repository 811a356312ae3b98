package spi

import (
	"errors"
	"fmt"
)

var (
	// ErrPeripheralTimeout indicates the transfer-complete flag never asserted.
	ErrPeripheralTimeout = errors.New("peripheral timeout")
	// ErrBusy indicates a frame was started while another is in flight.
	ErrBusy = errors.New("frame in flight")
)

// TimeoutError reports the byte whose transfer never completed.
type TimeoutError struct {
	Byte  byte
	Spins int
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("peripheral timeout sending 0x%02x after %d polls", e.Byte, e.Spins)
}

// Is matches ErrPeripheralTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrPeripheralTimeout
}

// SettingError wraps the failure of one configuration write.
type SettingError struct {
	Index   int
	Setting Setting
	Err     error
}

// Error implements error.
func (e *SettingError) Error() string {
	return fmt.Sprintf("setting[%d] 0x%02x=0x%02x: %v", e.Index, e.Setting.Address, e.Setting.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *SettingError) Unwrap() error {
	return e.Err
}
