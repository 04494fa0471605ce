package weft

import (
	"github.com/jacquardml/weft/mma"
)

// Float16 represents an IEEE 754 binary16 value.
type Float16 = mma.Float16

// FromFloat32 converts float32 to Float16, rounding to nearest even.
func FromFloat32(f float32) Float16 {
	return mma.FromFloat32(f)
}

// Float16Slice wraps a byte slice as Float16 values
type Float16Slice struct {
	data []byte
}

// NewFloat16Slice creates a Float16 slice from a byte slice
func NewFloat16Slice(data []byte) Float16Slice {
	return Float16Slice{data: data}
}

// Len returns the number of Float16 elements
func (s Float16Slice) Len() int {
	return len(s.data) / 2
}

// Get returns the Float16 at index i
func (s Float16Slice) Get(i int) Float16 {
	return Float16(uint16(s.data[i*2]) | (uint16(s.data[i*2+1]) << 8))
}

// Set sets the Float16 at index i
func (s Float16Slice) Set(i int, val Float16) {
	s.data[i*2] = byte(val)
	s.data[i*2+1] = byte(val >> 8)
}

// GetFloat32 returns the value at index i as float32
func (s Float16Slice) GetFloat32(i int) float32 {
	return s.Get(i).ToFloat32()
}

// SetFloat32 sets the value at index i from float32
func (s Float16Slice) SetFloat32(i int, val float32) {
	s.Set(i, FromFloat32(val))
}

// Ptr methods for Float16

// Float16 returns a Float16 slice view of the memory
func (p Ptr) Float16() Float16Slice {
	if p.IsNil() {
		return Float16Slice{}
	}
	return NewFloat16Slice(p.Byte())
}
