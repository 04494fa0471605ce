package weft

import (
	"fmt"

	"github.com/jacquardml/weft/mma"
)

// Mad computes D = A*B + C and returns D as a new fragment. A and B
// must share one element type, the shapes must contract, and the
// combined shape/type key must name an instruction in the closed set.
// C is never written; calling Mad twice with the same inputs yields
// bit-identical results.
//
// D inherits C's descriptor, including a Dynamic layout.
func (g *Group) Mad(a, b, c *Fragment) (*Fragment, error) {
	const op = "Mad"
	if a == nil || b == nil || c == nil {
		return nil, NewInvalidArgError(op, "nil fragment")
	}
	if a.desc.Role != RoleA || b.desc.Role != RoleB || c.desc.Role != RoleAccumulator {
		return nil, NewInvalidArgError(op,
			fmt.Sprintf("role mismatch: got %s, %s, %s",
				a.desc.Role, b.desc.Role, c.desc.Role))
	}
	if a.desc.Type != b.desc.Type {
		return nil, NewInvalidArgError(op,
			fmt.Sprintf("mixed operand types %s and %s", a.desc.Type, b.desc.Type))
	}
	if a.desc.Cols != b.desc.Rows {
		return nil, NewInvalidArgError(op,
			fmt.Sprintf("contraction mismatch: a is %dx%d, b is %dx%d",
				a.desc.Rows, a.desc.Cols, b.desc.Rows, b.desc.Cols))
	}
	if c.desc.Rows != a.desc.Rows || c.desc.Cols != b.desc.Cols {
		return nil, NewInvalidArgError(op,
			fmt.Sprintf("accumulator is %dx%d, want %dx%d",
				c.desc.Rows, c.desc.Cols, a.desc.Rows, b.desc.Cols))
	}
	pair, ok := mma.PairCode(a.desc.Layout, b.desc.Layout)
	if !ok {
		// Operand layouts are concrete by construction
		return nil, NewInvalidArgError(op, "operand layouts must be concrete")
	}

	key := mma.MadKey{
		M:   a.desc.Rows,
		N:   b.desc.Cols,
		K:   a.desc.Cols,
		In:  a.desc.Type,
		Acc: c.desc.Type,
	}
	if !mma.ValidMad(key) {
		return nil, NewDescriptorError(op,
			fmt.Sprintf("no instruction for %v", key))
	}
	fn := g.dev.isa.Mad(key)
	if fn == nil {
		return nil, NewUnsupportedError(op)
	}

	d, err := NewFragment(c.desc)
	if err != nil {
		return nil, err
	}
	if err := fn(d.data, a.data, b.data, c.data, pair); err != nil {
		return nil, NewExecutionError(op, "mad micro-op failed", err)
	}
	return d, nil
}
