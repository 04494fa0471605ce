package weft

import (
	"fmt"

	"github.com/jacquardml/weft/mma"
)

// Role identifies which matrix a fragment holds in D = A*B + C.
type Role = mma.Use

const (
	RoleA           = mma.UseA
	RoleB           = mma.UseB
	RoleAccumulator = mma.UseAccumulator
)

// TileDesc describes one matrix tile: element type, role, shape and
// memory layout. Descriptors are plain values; NewFragment validates
// them against the closed fragment table.
type TileDesc struct {
	Type   DType
	Role   Role
	Rows   int
	Cols   int
	Layout Layout
}

func (d TileDesc) String() string {
	return fmt.Sprintf("%s.%s.%dx%d.%s", d.Type, d.Role, d.Rows, d.Cols, d.Layout)
}

// fragKey maps the descriptor onto the instruction-set key space.
func (d TileDesc) fragKey() mma.FragKey {
	return mma.FragKey{Type: d.Type, Use: d.Role, Rows: d.Rows, Cols: d.Cols}
}

// Validate checks the descriptor against the closed fragment table and
// the layout rules.
func (d TileDesc) Validate() error {
	if d.Rows <= 0 || d.Cols <= 0 {
		return NewInvalidArgError("TileDesc",
			fmt.Sprintf("shape %dx%d is not positive", d.Rows, d.Cols))
	}
	if _, ok := mma.ResolveFragment(d.fragKey()); !ok {
		return NewDescriptorError("TileDesc",
			fmt.Sprintf("no fragment for %s %s %dx%d", d.Type, d.Role, d.Rows, d.Cols))
	}
	switch d.Layout {
	case RowMajor, ColMajor:
	case Dynamic:
		if d.Role != RoleAccumulator {
			return NewDescriptorError("TileDesc",
				"dynamic layout is only legal on accumulator tiles")
		}
	default:
		return NewInvalidArgError("TileDesc",
			fmt.Sprintf("unknown layout %d", int(d.Layout)))
	}
	return nil
}
