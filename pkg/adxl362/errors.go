package adxl362

import "errors"

var (
	// ErrUnknownDevice indicates the identification registers don't read
	// as an ADXL362.
	ErrUnknownDevice = errors.New("not an ADXL362")
)
