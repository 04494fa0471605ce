package warp

import (
	"fmt"

	"github.com/jacquardml/weft/mma"
)

// codec holds the distribution geometry for one fragment kind.
type codec struct {
	key      mma.FragKey
	spec     mma.FragSpec
	elemSize int // bytes per element
	pack     int // elements per register word
	perLane  int // distinct words per lane
	rep      int // replication factor, spec.Count / perLane
}

func newCodec(k mma.FragKey) codec {
	spec, ok := mma.ResolveFragment(k)
	if !ok {
		panic(fmt.Sprintf("warp: fragment key %v outside closed table", k))
	}
	pack := k.Type.PackFactor()
	words := k.Rows * k.Cols / pack
	perLane := words / mma.Lanes
	return codec{
		key:      k,
		spec:     spec,
		elemSize: k.Type.Size(),
		pack:     pack,
		perLane:  perLane,
		rep:      spec.Count / perLane,
	}
}

// regBytes returns the expected register file size for this fragment.
func (c codec) regBytes() int {
	return mma.Lanes * c.spec.Count * c.spec.Class.Size()
}

// elemOffset returns the byte offset of logical element e inside the
// register file: word e/pack lives in lane (e/pack)%Lanes at slot
// (e/pack)/Lanes, and packed elements sit at ascending byte offsets
// within their word.
func (c codec) elemOffset(e int) int {
	w := e / c.pack
	lane := w % mma.Lanes
	slot := w / mma.Lanes
	word := (lane*c.spec.Count + slot) * c.spec.Class.Size()
	return word + (e%c.pack)*c.elemSize
}

// replicate copies each lane's distinct word block into its remaining
// register slots. Only replicated operand fragments have rep > 1.
func (c codec) replicate(regs []byte) {
	if c.rep == 1 {
		return
	}
	classSize := c.spec.Class.Size()
	laneBytes := c.spec.Count * classSize
	block := c.perLane * classSize
	for lane := 0; lane < mma.Lanes; lane++ {
		base := lane * laneBytes
		src := regs[base : base+block]
		for j := 1; j < c.rep; j++ {
			copy(regs[base+j*block:base+(j+1)*block], src)
		}
	}
}

// memBytes returns the size of the memory window a strided access
// touches, in bytes. Stride is in elements.
func (c codec) memBytes(stride int, lo mma.Layout) int {
	outer, inner := c.key.Rows, c.key.Cols
	if lo == mma.ColMajor {
		outer, inner = c.key.Cols, c.key.Rows
	}
	return ((outer-1)*stride + inner) * c.elemSize
}

func (c codec) check(regs, mem []byte, stride int, lo mma.Layout) error {
	if !lo.Concrete() {
		return fmt.Errorf("warp: %v: layout %v is not concrete", c.key, lo)
	}
	inner := c.key.Cols
	if lo == mma.ColMajor {
		inner = c.key.Rows
	}
	if stride < inner {
		return fmt.Errorf("warp: %v: stride %d below leading dimension %d", c.key, stride, inner)
	}
	if len(regs) != c.regBytes() {
		return fmt.Errorf("warp: %v: register file is %d bytes, want %d", c.key, len(regs), c.regBytes())
	}
	if need := c.memBytes(stride, lo); len(mem) < need {
		return fmt.Errorf("warp: %v: memory window is %d bytes, need %d", c.key, len(mem), need)
	}
	return nil
}

// load copies a strided tile from memory into the register file.
// Operand fragments take register content in the traversal order of
// the selected layout. Accumulator fragments always take canonical
// row order, with the layout steering addressing only.
func (c codec) load(regs, mem []byte, stride int, lo mma.Layout) error {
	if err := c.check(regs, mem, stride, lo); err != nil {
		return err
	}
	rows, cols, es := c.key.Rows, c.key.Cols, c.elemSize
	n := 0
	switch {
	case lo == mma.RowMajor:
		for r := 0; r < rows; r++ {
			for col := 0; col < cols; col++ {
				off := c.elemOffset(n)
				src := (r*stride + col) * es
				copy(regs[off:off+es], mem[src:src+es])
				n++
			}
		}
	case c.key.Use == mma.UseAccumulator:
		// Column-major addressing, canonical register order
		for r := 0; r < rows; r++ {
			for col := 0; col < cols; col++ {
				off := c.elemOffset(n)
				src := (col*stride + r) * es
				copy(regs[off:off+es], mem[src:src+es])
				n++
			}
		}
	default:
		// Column-major traversal for operand fragments
		for col := 0; col < cols; col++ {
			for r := 0; r < rows; r++ {
				off := c.elemOffset(n)
				src := (col*stride + r) * es
				copy(regs[off:off+es], mem[src:src+es])
				n++
			}
		}
	}
	c.replicate(regs)
	return nil
}

// store copies an accumulator register file back to a strided tile.
// Register content is canonical row order; the layout selects the
// memory addressing.
func (c codec) store(regs, mem []byte, stride int, lo mma.Layout) error {
	if err := c.check(regs, mem, stride, lo); err != nil {
		return err
	}
	rows, cols, es := c.key.Rows, c.key.Cols, c.elemSize
	n := 0
	for r := 0; r < rows; r++ {
		for col := 0; col < cols; col++ {
			off := c.elemOffset(n)
			dst := (r*stride + col) * es
			if lo == mma.ColMajor {
				dst = (col*stride + r) * es
			}
			copy(mem[dst:dst+es], regs[off:off+es])
			n++
		}
	}
	return nil
}

// floatAt decodes logical element e as float64.
func (c codec) floatAt(regs []byte, e int) float64 {
	return mma.ElemFloat(c.key.Type, regs[c.elemOffset(e):])
}

// intAt decodes logical element e as int32.
func (c codec) intAt(regs []byte, e int) int32 {
	return mma.ElemInt(c.key.Type, regs[c.elemOffset(e):])
}

// putFloat encodes v into logical element e.
func (c codec) putFloat(regs []byte, e int, v float64) {
	mma.PutElemFloat(c.key.Type, regs[c.elemOffset(e):], v)
}

// putInt encodes v into logical element e.
func (c codec) putInt(regs []byte, e int, v int32) {
	mma.PutElemInt(c.key.Type, regs[c.elemOffset(e):], v)
}

// denseFloat unpacks operand registers into a canonical row-major
// dense tile, undoing a column-major traversal when the pair selector
// says the operand was loaded that way.
func (c codec) denseFloat(regs []byte, colMajor bool) []float64 {
	rows, cols := c.key.Rows, c.key.Cols
	out := make([]float64, rows*cols)
	if !colMajor {
		for e := range out {
			out[e] = c.floatAt(regs, e)
		}
		return out
	}
	for t := 0; t < rows*cols; t++ {
		col := t / rows
		r := t % rows
		out[r*cols+col] = c.floatAt(regs, t)
	}
	return out
}

// denseInt is denseFloat for integer operand fragments.
func (c codec) denseInt(regs []byte, colMajor bool) []int32 {
	rows, cols := c.key.Rows, c.key.Cols
	out := make([]int32, rows*cols)
	if !colMajor {
		for e := range out {
			out[e] = c.intAt(regs, e)
		}
		return out
	}
	for t := 0; t < rows*cols; t++ {
		col := t / rows
		r := t % rows
		out[r*cols+col] = c.intAt(regs, t)
	}
	return out
}
