package weft

import (
	"math"
)

// RoundToTF32 rounds a float32 to TensorFloat-32 precision: the full
// binary32 exponent with the mantissa cut to 10 bits. The result is an
// ordinary float32 whose low 13 mantissa bits are zero, ready to feed
// hardware paths that consume TF32 operands. Rounding is to nearest
// with the tie going upward.
func RoundToTF32(x float32) float32 {
	bits := math.Float32bits(x)
	bits += 0x1000
	bits &^= 0x1FFF
	return math.Float32frombits(bits)
}

// RoundToTF32Slice rounds a float32 slice to TF32 precision in place.
func RoundToTF32Slice(xs []float32) {
	for i, x := range xs {
		xs[i] = RoundToTF32(x)
	}
}
