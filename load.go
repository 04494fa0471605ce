package weft

import (
	"fmt"
)

// Load fills a fragment from a strided tile in memory. The stride is
// in elements of the fragment's type and must be at least the leading
// dimension of the tile under the fragment's declared layout.
// Fragments declared Dynamic must use LoadWithLayout instead.
func (g *Group) Load(f *Fragment, src Ptr, stride int) error {
	const op = "Load"
	if f == nil {
		return NewInvalidArgError(op, "nil fragment")
	}
	lo := f.desc.Layout
	if !lo.Concrete() {
		return NewInvalidArgError(op, "dynamic layout tile needs LoadWithLayout")
	}
	return g.load(op, f, src, stride, lo)
}

// LoadWithLayout fills an accumulator fragment declared Dynamic,
// choosing the memory order at call time. This is the only call-time
// layout selection; fragments with a concrete declared layout must use
// Load.
func (g *Group) LoadWithLayout(f *Fragment, src Ptr, stride int, lo Layout) error {
	const op = "LoadWithLayout"
	if f == nil {
		return NewInvalidArgError(op, "nil fragment")
	}
	if f.desc.Layout != Dynamic {
		return NewInvalidArgError(op, "fragment layout is not dynamic")
	}
	if !lo.Concrete() {
		return NewInvalidArgError(op, "layout argument must be concrete")
	}
	return g.load(op, f, src, stride, lo)
}

func (g *Group) load(op string, f *Fragment, src Ptr, stride int, lo Layout) error {
	if src.IsNil() {
		return NewInvalidArgError(op, "nil source pointer")
	}
	if err := checkWindow(op, f.desc, src, stride, lo); err != nil {
		return err
	}
	fn := g.dev.isa.Load(f.desc.fragKey())
	if fn == nil {
		return NewUnsupportedError(op)
	}
	if err := fn(f.data, src.Byte(), stride, lo); err != nil {
		return NewExecutionError(op, "load micro-op failed", err)
	}
	return nil
}

// checkWindow validates the strided tile window against the pointer's
// extent. The window spans (outer-1)*stride+inner elements, where the
// layout decides which dimension is which.
func checkWindow(op string, desc TileDesc, p Ptr, stride int, lo Layout) error {
	outer, inner := desc.Rows, desc.Cols
	if lo == ColMajor {
		outer, inner = desc.Cols, desc.Rows
	}
	if stride < inner {
		return NewInvalidArgError(op,
			fmt.Sprintf("stride %d below leading dimension %d", stride, inner))
	}
	need := ((outer-1)*stride + inner) * desc.Type.Size()
	if p.Size() < need {
		return NewInvalidArgError(op,
			fmt.Sprintf("buffer is %d bytes, tile window needs %d", p.Size(), need))
	}
	return nil
}
