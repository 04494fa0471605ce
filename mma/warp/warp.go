// Package warp is the software warp engine: a pure Go mma unit that
// implements the entire closed instruction set. It is always available
// and serves as the fallback when no native matrix hardware exists.
//
// Register distribution follows a fixed convention. A fragment's
// logical elements are numbered in traversal order: the memory order
// of the selected layout for A and B operands, canonical row order for
// accumulators. Packing groups consecutive logical elements into
// 32-bit words (two halves or four bytes per word, little endian), and
// word w lands in lane w%32 at register slot w/32. F16 operand
// fragments declare more register words than the tile needs; the
// distinct words repeat block-wise through the remaining slots, so
// slot s always holds distinct word s modulo the per-lane word count.
//
// Accumulator register content never depends on the store layout. A
// column-major load or store of an accumulator re-addresses memory
// while the registers keep canonical row order, which is why the
// multiply-accumulate selector only covers the A and B layouts.
//
// Numeric semantics per instruction family: every variant starts from
// the C operand and accumulates k in ascending order. F16 and BF16
// products are formed exactly in float32 and accumulated in float32;
// an F16 accumulator rounds to half precision once, when D is written.
// F64 steps fuse multiply and add with a single rounding (math.FMA).
// S8 and U8 products accumulate into int32 with two's complement
// wraparound.
package warp

import (
	"fmt"

	"github.com/jacquardml/weft/mma"
)

// Unit implements the mma.Unit interface in pure Go.
type Unit struct {
	isa *mma.InstructionSet
}

// New creates the software warp unit with the full instruction set.
func New() *Unit {
	isa := mma.NewInstructionSet()
	for _, k := range mma.FragKeys() {
		c := newCodec(k)
		if err := isa.RegisterLoad(k, c.load); err != nil {
			panic(fmt.Sprintf("warp: %v", err))
		}
		if k.Use == mma.UseAccumulator {
			if err := isa.RegisterStore(k, c.store); err != nil {
				panic(fmt.Sprintf("warp: %v", err))
			}
		}
	}
	for _, k := range mma.MadKeys() {
		if err := isa.RegisterMad(k, madFunc(k)); err != nil {
			panic(fmt.Sprintf("warp: %v", err))
		}
	}
	return &Unit{isa: isa}
}

// Name returns the unit name
func (u *Unit) Name() string {
	return "warp"
}

// Kind returns the unit kind
func (u *Unit) Kind() mma.UnitKind {
	return mma.UnitKindSoftware
}

// Available always reports true
func (u *Unit) Available() bool {
	return true
}

// Capability covers the entire closed instruction set
func (u *Unit) Capability() mma.Capability {
	return mma.Capability{
		Lanes:   mma.Lanes,
		MadKeys: u.isa.SupportedMads(),
	}
}

// Instructions returns the unit's micro-op set
func (u *Unit) Instructions() *mma.InstructionSet {
	return u.isa
}
