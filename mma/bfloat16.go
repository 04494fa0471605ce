package mma

import (
	"math"
)

// BFloat16 represents a 16-bit brain floating point number.
// Format: 1 sign bit, 8 exponent bits, 7 mantissa bits.
type BFloat16 uint16

// ToBFloat16 converts float32 to BFloat16, rounding to nearest even.
func ToBFloat16(f float32) BFloat16 {
	bits := math.Float32bits(f)
	if bits&0x7FFFFFFF > 0x7F800000 {
		// NaN: keep it quiet
		return BFloat16((bits >> 16) | 0x0040)
	}
	bits += 0x7FFF + ((bits >> 16) & 1)
	return BFloat16(bits >> 16)
}

// ToFloat32 converts BFloat16 to float32. The conversion is exact.
func (b BFloat16) ToFloat32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Bits returns the raw bfloat16 encoding.
func (b BFloat16) Bits() uint16 {
	return uint16(b)
}
