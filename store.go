package weft

// Store writes an accumulator fragment to a strided tile in memory.
// Only accumulator fragments can be stored; operand fragments are
// load-only. Fragments declared Dynamic must use StoreWithLayout.
func (g *Group) Store(f *Fragment, dst Ptr, stride int) error {
	const op = "Store"
	if f == nil {
		return NewInvalidArgError(op, "nil fragment")
	}
	if f.desc.Role != RoleAccumulator {
		return NewInvalidArgError(op, "store is accumulator-only")
	}
	lo := f.desc.Layout
	if !lo.Concrete() {
		return NewInvalidArgError(op, "dynamic layout tile needs StoreWithLayout")
	}
	return g.store(op, f, dst, stride, lo)
}

// StoreWithLayout writes an accumulator fragment declared Dynamic,
// choosing the memory order at call time.
func (g *Group) StoreWithLayout(f *Fragment, dst Ptr, stride int, lo Layout) error {
	const op = "StoreWithLayout"
	if f == nil {
		return NewInvalidArgError(op, "nil fragment")
	}
	if f.desc.Role != RoleAccumulator {
		return NewInvalidArgError(op, "store is accumulator-only")
	}
	if f.desc.Layout != Dynamic {
		return NewInvalidArgError(op, "fragment layout is not dynamic")
	}
	if !lo.Concrete() {
		return NewInvalidArgError(op, "layout argument must be concrete")
	}
	return g.store(op, f, dst, stride, lo)
}

func (g *Group) store(op string, f *Fragment, dst Ptr, stride int, lo Layout) error {
	if dst.IsNil() {
		return NewInvalidArgError(op, "nil destination pointer")
	}
	if err := checkWindow(op, f.desc, dst, stride, lo); err != nil {
		return err
	}
	fn := g.dev.isa.Store(f.desc.fragKey())
	if fn == nil {
		return NewUnsupportedError(op)
	}
	if err := fn(f.data, dst.Byte(), stride, lo); err != nil {
		return NewExecutionError(op, "store micro-op failed", err)
	}
	return nil
}
