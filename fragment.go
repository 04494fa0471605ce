package weft

import (
	"fmt"

	"github.com/jacquardml/weft/mma"
)

// Resolve is the fragment layout table: it maps element type, matrix
// role and tile shape to the per-lane register footprint. It is a pure
// lookup over a closed set. Keys outside the set return a descriptor
// error; nothing is ever inferred for them.
func Resolve(t DType, r Role, rows, cols int) (RegClass, int, error) {
	spec, ok := mma.ResolveFragment(mma.FragKey{Type: t, Use: r, Rows: rows, Cols: cols})
	if !ok {
		return 0, 0, NewDescriptorError("Resolve",
			fmt.Sprintf("no fragment for %s %s %dx%d", t, r, rows, cols))
	}
	return spec.Class, spec.Count, nil
}

// Fragment holds one tile's register state, distributed across a
// 32-lane cooperative group: LaneCount blocks of Count registers, lane
// major. Construct fragments with NewFragment; the zero value is not
// usable.
//
// No single lane owns the tile. The value models the whole group's
// registers because collective operations execute over the whole group
// at once.
type Fragment struct {
	desc  TileDesc
	class RegClass
	count int
	data  []byte
}

// NewFragment validates the descriptor against the closed fragment
// table and allocates a zeroed register file for it.
func NewFragment(desc TileDesc) (*Fragment, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	class, count, err := Resolve(desc.Type, desc.Role, desc.Rows, desc.Cols)
	if err != nil {
		return nil, err
	}
	return &Fragment{
		desc:  desc,
		class: class,
		count: count,
		data:  make([]byte, LaneCount*count*class.Size()),
	}, nil
}

// Desc returns the tile descriptor.
func (f *Fragment) Desc() TileDesc {
	return f.desc
}

// Class returns the register class backing the fragment.
func (f *Fragment) Class() RegClass {
	return f.class
}

// Count returns the per-lane register count.
func (f *Fragment) Count() int {
	return f.count
}

// Bytes returns the live register file. Mutating the slice mutates the
// fragment.
func (f *Fragment) Bytes() []byte {
	return f.data
}

// Clone returns a deep copy of the fragment.
func (f *Fragment) Clone() *Fragment {
	if f == nil {
		return nil
	}
	c := *f
	c.data = append([]byte(nil), f.data...)
	return &c
}

func (f *Fragment) String() string {
	return fmt.Sprintf("Fragment(%s, %dx%s per lane)", f.desc, f.count, f.class)
}
