package weft

import (
	"github.com/jacquardml/weft/mma"
)

// DType identifies a tile element type.
type DType = mma.DType

// Element types usable in tile descriptors. F16, BF16, F64, S8 and U8
// appear in operand tiles; F16, F32, F64 and S32 in accumulators.
const (
	F16  = mma.F16
	BF16 = mma.BF16
	F32  = mma.F32
	F64  = mma.F64
	S8   = mma.S8
	U8   = mma.U8
	S32  = mma.S32
)

// RegClass identifies the machine register class backing a fragment.
// Narrow element types pack into RegU32 words.
type RegClass = mma.RegClass

const (
	RegU32 = mma.RegU32
	RegI32 = mma.RegI32
	RegF32 = mma.RegF32
	RegF64 = mma.RegF64
)
