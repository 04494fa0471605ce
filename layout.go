package weft

import (
	"github.com/jacquardml/weft/mma"
)

// Layout describes how a tile is ordered in memory. Dynamic defers
// the choice to load or store time and is only legal on accumulator
// descriptors.
type Layout = mma.Layout

const (
	RowMajor = mma.RowMajor
	ColMajor = mma.ColMajor
	Dynamic  = mma.Dynamic
)

// LayoutCode returns the hardware selector for a concrete layout:
// 0 for row major, 1 for column major.
func LayoutCode(l Layout) (int, error) {
	code, ok := l.Code()
	if !ok {
		return 0, NewInvalidArgError("LayoutCode", "layout "+l.String()+" has no selector")
	}
	return code, nil
}

// LayoutPairCode returns the combined selector for an A/B layout pair:
// row/row 0, row/col 1, col/row 2, col/col 3.
func LayoutPairCode(a, b Layout) (int, error) {
	code, ok := mma.PairCode(a, b)
	if !ok {
		return 0, NewInvalidArgError("LayoutPairCode",
			"layout pair "+a.String()+"/"+b.String()+" has no selector")
	}
	return code, nil
}

// ParseLayout converts a layout name to a Layout value. Accepted names
// match Layout.String.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "row_major":
		return RowMajor, nil
	case "col_major":
		return ColMajor, nil
	case "dynamic":
		return Dynamic, nil
	default:
		return RowMajor, NewInvalidArgError("ParseLayout", "unknown layout "+s)
	}
}
