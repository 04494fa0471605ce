package mma

import (
	"encoding/binary"
	"math"
)

// Element codecs over raw register and memory bytes. Multi-byte
// elements are little endian, so packed narrow elements sit at
// ascending byte offsets within their 32-bit word.

// ElemFloat decodes the floating-point element of type t at the front
// of b.
func ElemFloat(t DType, b []byte) float64 {
	switch t {
	case F16:
		return float64(Float16(binary.LittleEndian.Uint16(b)).ToFloat32())
	case BF16:
		return float64(BFloat16(binary.LittleEndian.Uint16(b)).ToFloat32())
	case F32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case F64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		return 0
	}
}

// PutElemFloat encodes v as a floating-point element of type t at the
// front of b. Narrow types round via float32.
func PutElemFloat(t DType, b []byte, v float64) {
	switch t {
	case F16:
		binary.LittleEndian.PutUint16(b, uint16(FromFloat32(float32(v))))
	case BF16:
		binary.LittleEndian.PutUint16(b, uint16(ToBFloat16(float32(v))))
	case F32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case F64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

// ElemInt decodes the integer element of type t at the front of b.
// S8 sign extends, U8 zero extends.
func ElemInt(t DType, b []byte) int32 {
	switch t {
	case S8:
		return int32(int8(b[0]))
	case U8:
		return int32(b[0])
	case S32:
		return int32(binary.LittleEndian.Uint32(b))
	default:
		return 0
	}
}

// PutElemInt encodes v as an integer element of type t at the front of
// b, wrapping modulo the type width.
func PutElemInt(t DType, b []byte, v int32) {
	switch t {
	case S8, U8:
		b[0] = byte(v)
	case S32:
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
}
