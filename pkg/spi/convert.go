package spi

// RawToPhysical scales a signed 8-bit reading against the full-scale range.
// 127 is just below +fullScale and -128 is exactly -fullScale.
func RawToPhysical(raw int8, fullScale float64) float64 {
	return float64(raw) / 128.0 * fullScale
}
