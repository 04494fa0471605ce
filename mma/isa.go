package mma

import (
	"fmt"
	"sort"
)

// FragKey identifies one fragment kind: element type, matrix role, and
// tile shape. The set of valid keys is closed and enumerated in the
// fragment table below.
type FragKey struct {
	Type DType
	Use  Use
	Rows int
	Cols int
}

func (k FragKey) String() string {
	return fmt.Sprintf("%s.%s.%dx%d", k.Type, k.Use, k.Rows, k.Cols)
}

// FragSpec describes the per-lane register footprint of a fragment.
type FragSpec struct {
	Class RegClass
	Count int
}

// MadKey identifies one multiply-accumulate instruction: the tile
// shapes M x N x K plus the operand and accumulator element types.
type MadKey struct {
	M, N, K int
	In      DType
	Acc     DType
}

func (k MadKey) String() string {
	return fmt.Sprintf("m%dn%dk%d.%s.%s", k.M, k.N, k.K, k.In, k.Acc)
}

// fragTable is the closed fragment layout table. Counts are packed
// 32-bit register words per lane (64-bit words for F64). F16 operand
// fragments carry replicated words; every other entry packs exactly
// rows*cols/lanes/packfactor words.
var fragTable = map[FragKey]FragSpec{
	// F16 operands, eight packed words regardless of shape
	{F16, UseA, 16, 16}: {RegU32, 8},
	{F16, UseA, 8, 16}:  {RegU32, 8},
	{F16, UseA, 32, 16}: {RegU32, 8},
	{F16, UseB, 16, 16}: {RegU32, 8},
	{F16, UseB, 16, 32}: {RegU32, 8},
	{F16, UseB, 16, 8}:  {RegU32, 8},

	// F16 accumulators
	{F16, UseAccumulator, 16, 16}: {RegU32, 4},
	{F16, UseAccumulator, 8, 32}:  {RegU32, 4},
	{F16, UseAccumulator, 32, 8}:  {RegU32, 4},

	// BF16 operands
	{BF16, UseA, 16, 16}: {RegU32, 4},
	{BF16, UseA, 8, 16}:  {RegU32, 2},
	{BF16, UseA, 32, 16}: {RegU32, 8},
	{BF16, UseB, 16, 16}: {RegU32, 4},
	{BF16, UseB, 16, 32}: {RegU32, 8},
	{BF16, UseB, 16, 8}:  {RegU32, 2},

	// S8 operands
	{S8, UseA, 16, 16}: {RegU32, 2},
	{S8, UseA, 8, 16}:  {RegU32, 1},
	{S8, UseA, 32, 16}: {RegU32, 4},
	{S8, UseB, 16, 16}: {RegU32, 2},
	{S8, UseB, 16, 32}: {RegU32, 4},
	{S8, UseB, 16, 8}:  {RegU32, 1},

	// U8 operands
	{U8, UseA, 16, 16}: {RegU32, 2},
	{U8, UseA, 8, 16}:  {RegU32, 1},
	{U8, UseA, 32, 16}: {RegU32, 4},
	{U8, UseB, 16, 16}: {RegU32, 2},
	{U8, UseB, 16, 32}: {RegU32, 4},
	{U8, UseB, 16, 8}:  {RegU32, 1},

	// S32 accumulators
	{S32, UseAccumulator, 16, 16}: {RegI32, 8},
	{S32, UseAccumulator, 8, 32}:  {RegI32, 8},
	{S32, UseAccumulator, 32, 8}:  {RegI32, 8},

	// F32 accumulators
	{F32, UseAccumulator, 16, 16}: {RegF32, 8},
	{F32, UseAccumulator, 8, 32}:  {RegF32, 8},
	{F32, UseAccumulator, 32, 8}:  {RegF32, 8},

	// F64, one shape per role
	{F64, UseA, 8, 4}:           {RegF64, 1},
	{F64, UseB, 4, 8}:           {RegF64, 1},
	{F64, UseAccumulator, 8, 8}: {RegF64, 2},
}

// madTable is the closed multiply-accumulate instruction set.
var madTable = map[MadKey]struct{}{
	{16, 16, 16, S8, S32}:   {},
	{16, 16, 16, U8, S32}:   {},
	{16, 16, 16, F16, F32}:  {},
	{16, 16, 16, F16, F16}:  {},
	{16, 16, 16, BF16, F32}: {},

	{8, 32, 16, S8, S32}:   {},
	{8, 32, 16, U8, S32}:   {},
	{8, 32, 16, F16, F32}:  {},
	{8, 32, 16, F16, F16}:  {},
	{8, 32, 16, BF16, F32}: {},

	{32, 8, 16, S8, S32}:   {},
	{32, 8, 16, U8, S32}:   {},
	{32, 8, 16, F16, F32}:  {},
	{32, 8, 16, F16, F16}:  {},
	{32, 8, 16, BF16, F32}: {},

	{8, 8, 4, F64, F64}: {},
}

// ResolveFragment looks up the register footprint for a fragment key.
// It reports false for any key outside the closed table.
func ResolveFragment(k FragKey) (FragSpec, bool) {
	spec, ok := fragTable[k]
	return spec, ok
}

// ValidMad reports whether the key names an instruction in the closed
// multiply-accumulate set.
func ValidMad(k MadKey) bool {
	_, ok := madTable[k]
	return ok
}

// FragKeys returns every key in the fragment table in a stable order.
func FragKeys() []FragKey {
	keys := make([]FragKey, 0, len(fragTable))
	for k := range fragTable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Use != b.Use {
			return a.Use < b.Use
		}
		if a.Rows != b.Rows {
			return a.Rows < b.Rows
		}
		return a.Cols < b.Cols
	})
	return keys
}

// MadKeys returns every key in the multiply-accumulate table in a
// stable order.
func MadKeys() []MadKey {
	keys := make([]MadKey, 0, len(madTable))
	for k := range madTable {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.M != b.M {
			return a.M < b.M
		}
		if a.N != b.N {
			return a.N < b.N
		}
		if a.K != b.K {
			return a.K < b.K
		}
		if a.In != b.In {
			return a.In < b.In
		}
		return a.Acc < b.Acc
	})
	return keys
}

// StoreKeys returns the fragment keys whose tiles may be stored back to
// memory. Stores are restricted to accumulator fragments.
func StoreKeys() []FragKey {
	var keys []FragKey
	for _, k := range FragKeys() {
		if k.Use == UseAccumulator {
			keys = append(keys, k)
		}
	}
	return keys
}

// LoadFunc copies a tile from memory into group register state. The
// regs slice is the whole group's register file for one fragment, mem
// is the source window, stride is in elements, and lo selects the
// memory traversal order. lo is always concrete by the time a LoadFunc
// runs.
type LoadFunc func(regs, mem []byte, stride int, lo Layout) error

// StoreFunc copies an accumulator tile from group register state back
// to memory. Arguments mirror LoadFunc.
type StoreFunc func(regs, mem []byte, stride int, lo Layout) error

// MadFunc computes D = A*B + C over register state. pair is the
// combined A/B layout selector from PairCode. d must not alias c.
type MadFunc func(d, a, b, c []byte, pair int) error

// InstructionSet holds the micro-ops one unit implements, keyed by the
// closed fragment and multiply-accumulate tables. Sets are populated
// when a unit is constructed and must not change afterwards.
type InstructionSet struct {
	loads  map[FragKey]LoadFunc
	stores map[FragKey]StoreFunc
	mads   map[MadKey]MadFunc
}

// NewInstructionSet returns an empty instruction set.
func NewInstructionSet() *InstructionSet {
	return &InstructionSet{
		loads:  make(map[FragKey]LoadFunc),
		stores: make(map[FragKey]StoreFunc),
		mads:   make(map[MadKey]MadFunc),
	}
}

// RegisterLoad adds a load micro-op. The key must be in the fragment
// table and not yet registered.
func (s *InstructionSet) RegisterLoad(k FragKey, fn LoadFunc) error {
	if _, ok := fragTable[k]; !ok {
		return fmt.Errorf("mma: load key %v outside fragment table", k)
	}
	if _, dup := s.loads[k]; dup {
		return fmt.Errorf("mma: load %v already registered", k)
	}
	s.loads[k] = fn
	return nil
}

// RegisterStore adds a store micro-op. The key must be an accumulator
// key in the fragment table and not yet registered.
func (s *InstructionSet) RegisterStore(k FragKey, fn StoreFunc) error {
	if _, ok := fragTable[k]; !ok || k.Use != UseAccumulator {
		return fmt.Errorf("mma: store key %v is not a valid accumulator key", k)
	}
	if _, dup := s.stores[k]; dup {
		return fmt.Errorf("mma: store %v already registered", k)
	}
	s.stores[k] = fn
	return nil
}

// RegisterMad adds a multiply-accumulate micro-op. The key must be in
// the closed set and not yet registered.
func (s *InstructionSet) RegisterMad(k MadKey, fn MadFunc) error {
	if !ValidMad(k) {
		return fmt.Errorf("mma: mad key %v outside instruction table", k)
	}
	if _, dup := s.mads[k]; dup {
		return fmt.Errorf("mma: mad %v already registered", k)
	}
	s.mads[k] = fn
	return nil
}

// Load returns the load micro-op for k, or nil if the unit lacks it.
func (s *InstructionSet) Load(k FragKey) LoadFunc {
	return s.loads[k]
}

// Store returns the store micro-op for k, or nil if the unit lacks it.
func (s *InstructionSet) Store(k FragKey) StoreFunc {
	return s.stores[k]
}

// Mad returns the multiply-accumulate micro-op for k, or nil if the
// unit lacks it.
func (s *InstructionSet) Mad(k MadKey) MadFunc {
	return s.mads[k]
}

// SupportedMads returns the mad keys this set implements, in the stable
// table order.
func (s *InstructionSet) SupportedMads() []MadKey {
	var keys []MadKey
	for _, k := range MadKeys() {
		if _, ok := s.mads[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Complete reports whether the set implements the entire closed tables:
// every fragment load, every accumulator store, and every mad key.
func (s *InstructionSet) Complete() bool {
	for k := range fragTable {
		if s.loads[k] == nil {
			return false
		}
		if k.Use == UseAccumulator && s.stores[k] == nil {
			return false
		}
	}
	for k := range madTable {
		if s.mads[k] == nil {
			return false
		}
	}
	return true
}
