package weft

import (
	"fmt"
	"math"

	"github.com/jacquardml/weft/mma"
)

// Fill sets every element of a fragment to a single value. Floating
// types round the value to their precision; integer types reject
// values that are not whole or out of range. The splat covers every
// register word, replicas included, so the result never depends on how
// the fragment is distributed.
func (g *Group) Fill(f *Fragment, v float64) error {
	const op = "Fill"
	if f == nil {
		return NewInvalidArgError(op, "nil fragment")
	}
	t := f.desc.Type
	es := t.Size()

	if t.Integer() {
		iv := int64(v)
		if float64(iv) != v {
			return NewInvalidArgError(op,
				fmt.Sprintf("value %v is not an integer", v))
		}
		var lo, hi int64
		switch t {
		case S8:
			lo, hi = math.MinInt8, math.MaxInt8
		case U8:
			lo, hi = 0, math.MaxUint8
		default:
			lo, hi = math.MinInt32, math.MaxInt32
		}
		if iv < lo || iv > hi {
			return NewInvalidArgError(op,
				fmt.Sprintf("value %v out of range for %s", v, t))
		}
		for off := 0; off < len(f.data); off += es {
			mma.PutElemInt(t, f.data[off:], int32(iv))
		}
		return nil
	}

	for off := 0; off < len(f.data); off += es {
		mma.PutElemFloat(t, f.data[off:], v)
	}
	return nil
}
