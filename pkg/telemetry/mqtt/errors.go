package mqtt

import "errors"

var (
	// ErrPublishTimeout indicates the broker did not acknowledge in time.
	ErrPublishTimeout = errors.New("publish timeout")
)
