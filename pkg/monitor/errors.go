package monitor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedCommand indicates a line starting with the command
	// prefix names no known command.
	ErrUnrecognizedCommand = errors.New("unrecognized command")
)

// ConfigError is returned when the accelerometer can't be configured.
type ConfigError struct {
	Err error
}

// Error implements error.
func (e *ConfigError) Error() string {
	return "configure accelerometer: " + e.Err.Error()
}

// Unwrap returns the cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CommandError reports a command which failed. It is shown on the
// console and never stops the monitor.
type CommandError struct {
	Command string
	Err     error
}

// Error implements error.
func (e *CommandError) Error() string {
	if e.Err == ErrUnrecognizedCommand {
		return fmt.Sprintf("unrecognized command: %q", e.Command)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Unwrap returns the cause.
func (e *CommandError) Unwrap() error {
	return e.Err
}
