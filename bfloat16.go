package weft

import (
	"github.com/jacquardml/weft/mma"
)

// BFloat16 represents a 16-bit brain floating point number.
// Format: 1 sign bit, 8 exponent bits, 7 mantissa bits.
type BFloat16 = mma.BFloat16

// ToBFloat16 converts float32 to BFloat16, rounding to nearest even.
func ToBFloat16(f float32) BFloat16 {
	return mma.ToBFloat16(f)
}

// BFloat16Slice wraps a byte slice as BFloat16 values
type BFloat16Slice struct {
	data []byte
}

// NewBFloat16Slice creates a BFloat16 slice from a byte slice
func NewBFloat16Slice(data []byte) BFloat16Slice {
	return BFloat16Slice{data: data}
}

// Len returns the number of BFloat16 elements
func (s BFloat16Slice) Len() int {
	return len(s.data) / 2
}

// Get returns the BFloat16 at index i
func (s BFloat16Slice) Get(i int) BFloat16 {
	return BFloat16(uint16(s.data[i*2]) | (uint16(s.data[i*2+1]) << 8))
}

// Set sets the BFloat16 at index i
func (s BFloat16Slice) Set(i int, val BFloat16) {
	s.data[i*2] = byte(val)
	s.data[i*2+1] = byte(val >> 8)
}

// GetFloat32 returns the value at index i as float32
func (s BFloat16Slice) GetFloat32(i int) float32 {
	return s.Get(i).ToFloat32()
}

// SetFloat32 sets the value at index i from float32
func (s BFloat16Slice) SetFloat32(i int, val float32) {
	s.Set(i, ToBFloat16(val))
}

// Ptr methods for BFloat16

// BFloat16 returns a BFloat16 slice view of the memory
func (p Ptr) BFloat16() BFloat16Slice {
	if p.IsNil() {
		return BFloat16Slice{}
	}
	return NewBFloat16Slice(p.Byte())
}
