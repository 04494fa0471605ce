package mma

// DType identifies an element type that can appear in a matrix tile.
type DType int

const (
	// F16 is IEEE 754 binary16
	F16 DType = iota
	// BF16 is bfloat16 (truncated binary32)
	BF16
	// F32 is IEEE 754 binary32
	F32
	// F64 is IEEE 754 binary64
	F64
	// S8 is signed 8-bit integer
	S8
	// U8 is unsigned 8-bit integer
	U8
	// S32 is signed 32-bit integer
	S32
)

// Size returns the element size in bytes.
func (t DType) Size() int {
	switch t {
	case F16, BF16:
		return 2
	case F32, S32:
		return 4
	case F64:
		return 8
	case S8, U8:
		return 1
	default:
		return 0
	}
}

// PackFactor returns how many elements of this type share one 32-bit
// register word. Wide types occupy a full word (or a full 64-bit word
// for F64) and report 1.
func (t DType) PackFactor() int {
	switch t {
	case F16, BF16:
		return 2
	case S8, U8:
		return 4
	case F32, S32, F64:
		return 1
	default:
		return 0
	}
}

// Integer reports whether the type is an integer type.
func (t DType) Integer() bool {
	return t == S8 || t == U8 || t == S32
}

func (t DType) String() string {
	switch t {
	case F16:
		return "f16"
	case BF16:
		return "bf16"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case S8:
		return "s8"
	case U8:
		return "u8"
	case S32:
		return "s32"
	default:
		return "invalid"
	}
}

// RegClass identifies the machine register class a fragment occupies.
// Narrow element types are packed into 32-bit words.
type RegClass int

const (
	// RegU32 holds packed narrow elements (two F16/BF16 or four S8/U8)
	RegU32 RegClass = iota
	// RegI32 holds one signed 32-bit integer
	RegI32
	// RegF32 holds one binary32
	RegF32
	// RegF64 holds one binary64
	RegF64
)

// Size returns the register width in bytes.
func (c RegClass) Size() int {
	if c == RegF64 {
		return 8
	}
	return 4
}

func (c RegClass) String() string {
	switch c {
	case RegU32:
		return "u32"
	case RegI32:
		return "i32"
	case RegF32:
		return "f32"
	case RegF64:
		return "f64"
	default:
		return "invalid"
	}
}

// Use identifies which matrix role a fragment plays in D = A*B + C.
type Use int

const (
	// UseA is the left operand, shape M x K
	UseA Use = iota
	// UseB is the right operand, shape K x N
	UseB
	// UseAccumulator is the C and D role, shape M x N
	UseAccumulator
)

func (u Use) String() string {
	switch u {
	case UseA:
		return "a"
	case UseB:
		return "b"
	case UseAccumulator:
		return "accumulator"
	default:
		return "invalid"
	}
}

// Layout describes how a tile is ordered in memory. Dynamic defers the
// choice until load or store time and is only meaningful for
// accumulator fragments.
type Layout int

const (
	RowMajor Layout = iota
	ColMajor
	Dynamic
)

// Concrete reports whether the layout names an actual memory order.
func (l Layout) Concrete() bool {
	return l == RowMajor || l == ColMajor
}

func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "row_major"
	case ColMajor:
		return "col_major"
	case Dynamic:
		return "dynamic"
	default:
		return "invalid"
	}
}

// Code returns the hardware layout selector: 0 for row major, 1 for
// column major. Dynamic has no selector and reports false.
func (l Layout) Code() (int, bool) {
	switch l {
	case RowMajor:
		return 0, true
	case ColMajor:
		return 1, true
	default:
		return 0, false
	}
}

// PairCode returns the combined selector for an (A layout, B layout)
// pair: row/row 0, row/col 1, col/row 2, col/col 3. Both layouts must
// be concrete.
func PairCode(a, b Layout) (int, bool) {
	ca, ok := a.Code()
	if !ok {
		return 0, false
	}
	cb, ok := b.Code()
	if !ok {
		return 0, false
	}
	return ca*2 + cb, true
}
