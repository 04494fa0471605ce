package warp

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/jacquardml/weft/mma"
)

// loadOperandFloat builds a register file from a row-major tile of
// values, going through the unit's own load path.
func loadOperandFloat(t *testing.T, k mma.FragKey, vals []float64) []byte {
	t.Helper()
	c := newCodec(k)
	mem := make([]byte, len(vals)*c.elemSize)
	for i, v := range vals {
		mma.PutElemFloat(k.Type, mem[i*c.elemSize:], v)
	}
	regs := make([]byte, c.regBytes())
	if err := c.load(regs, mem, k.Cols, mma.RowMajor); err != nil {
		t.Fatalf("%v: load failed: %v", k, err)
	}
	return regs
}

func loadOperandInt(t *testing.T, k mma.FragKey, vals []int32) []byte {
	t.Helper()
	c := newCodec(k)
	mem := make([]byte, len(vals)*c.elemSize)
	for i, v := range vals {
		mma.PutElemInt(k.Type, mem[i*c.elemSize:], v)
	}
	regs := make([]byte, c.regBytes())
	if err := c.load(regs, mem, k.Cols, mma.RowMajor); err != nil {
		t.Fatalf("%v: load failed: %v", k, err)
	}
	return regs
}

// halfGrid returns rows*cols values on a 0.5 grid in [-4, 4), all exact
// in binary16 and bfloat16.
func halfGrid(rng *rand.Rand, n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(rng.Intn(16)-8) / 2
	}
	return vals
}

func TestMadF16IntoF32(t *testing.T) {
	key := mma.MadKey{M: 16, N: 16, K: 16, In: mma.F16, Acc: mma.F32}
	fn := New().Instructions().Mad(key)
	if fn == nil {
		t.Fatal("missing mad micro-op")
	}

	rng := rand.New(rand.NewSource(42))
	av := halfGrid(rng, 16*16)
	bv := halfGrid(rng, 16*16)
	cv := halfGrid(rng, 16*16)

	a := loadOperandFloat(t, mma.FragKey{Type: mma.F16, Use: mma.UseA, Rows: 16, Cols: 16}, av)
	b := loadOperandFloat(t, mma.FragKey{Type: mma.F16, Use: mma.UseB, Rows: 16, Cols: 16}, bv)
	accKey := mma.FragKey{Type: mma.F32, Use: mma.UseAccumulator, Rows: 16, Cols: 16}
	c := loadOperandFloat(t, accKey, cv)

	cCopy := append([]byte(nil), c...)
	d := make([]byte, len(c))
	if err := fn(d, a, b, c, 0); err != nil {
		t.Fatalf("mad failed: %v", err)
	}

	// Same operation order as the unit: float32 products accumulated
	// in float32, k ascending.
	cc := newCodec(accKey)
	for m := 0; m < 16; m++ {
		for n := 0; n < 16; n++ {
			want := float32(cv[m*16+n])
			for k := 0; k < 16; k++ {
				want += float32(av[m*16+k]) * float32(bv[k*16+n])
			}
			if got := float32(cc.floatAt(d, m*16+n)); got != want {
				t.Fatalf("d[%d][%d] = %g, want %g", m, n, got, want)
			}
		}
	}

	if !bytes.Equal(c, cCopy) {
		t.Error("mad modified the c register file")
	}

	// Deterministic: a second run produces identical bytes
	d2 := make([]byte, len(d))
	if err := fn(d2, a, b, c, 0); err != nil {
		t.Fatalf("second mad failed: %v", err)
	}
	if !bytes.Equal(d, d2) {
		t.Error("mad is not deterministic")
	}
}

func TestMadF16IntoF16RoundsOnce(t *testing.T) {
	key := mma.MadKey{M: 16, N: 16, K: 16, In: mma.F16, Acc: mma.F16}
	fn := New().Instructions().Mad(key)

	rng := rand.New(rand.NewSource(17))
	av := halfGrid(rng, 16*16)
	bv := halfGrid(rng, 16*16)
	cv := halfGrid(rng, 16*16)

	a := loadOperandFloat(t, mma.FragKey{Type: mma.F16, Use: mma.UseA, Rows: 16, Cols: 16}, av)
	b := loadOperandFloat(t, mma.FragKey{Type: mma.F16, Use: mma.UseB, Rows: 16, Cols: 16}, bv)
	accKey := mma.FragKey{Type: mma.F16, Use: mma.UseAccumulator, Rows: 16, Cols: 16}
	c := loadOperandFloat(t, accKey, cv)

	d := make([]byte, len(c))
	if err := fn(d, a, b, c, 0); err != nil {
		t.Fatalf("mad failed: %v", err)
	}

	// The chain runs in float32 and rounds to binary16 once at the end
	cc := newCodec(accKey)
	for m := 0; m < 16; m++ {
		for n := 0; n < 16; n++ {
			chain := float32(cv[m*16+n])
			for k := 0; k < 16; k++ {
				chain += float32(av[m*16+k]) * float32(bv[k*16+n])
			}
			want := float64(mma.FromFloat32(chain).ToFloat32())
			if got := cc.floatAt(d, m*16+n); got != want {
				t.Fatalf("d[%d][%d] = %g, want %g", m, n, got, want)
			}
		}
	}
}

func TestMadF16AccumulatorKeepsSmallSteps(t *testing.T) {
	// Each step adds 0.5 to 2048. Rounding every step to binary16
	// would drop all of them; the float32 chain keeps the sum and
	// rounds once.
	key := mma.MadKey{M: 16, N: 16, K: 16, In: mma.F16, Acc: mma.F16}
	fn := New().Instructions().Mad(key)

	av := make([]float64, 16*16)
	bv := make([]float64, 16*16)
	cv := make([]float64, 16*16)
	for k := 0; k < 16; k++ {
		av[k] = 0.5  // row 0 of a
		bv[k*16] = 1 // column 0 of b
	}
	cv[0] = 2048

	a := loadOperandFloat(t, mma.FragKey{Type: mma.F16, Use: mma.UseA, Rows: 16, Cols: 16}, av)
	b := loadOperandFloat(t, mma.FragKey{Type: mma.F16, Use: mma.UseB, Rows: 16, Cols: 16}, bv)
	accKey := mma.FragKey{Type: mma.F16, Use: mma.UseAccumulator, Rows: 16, Cols: 16}
	c := loadOperandFloat(t, accKey, cv)

	d := make([]byte, len(c))
	if err := fn(d, a, b, c, 0); err != nil {
		t.Fatalf("mad failed: %v", err)
	}

	cc := newCodec(accKey)
	if got := cc.floatAt(d, 0); got != 2056 {
		t.Errorf("d[0][0] = %g, want 2056", got)
	}
}

func TestMadBF16(t *testing.T) {
	key := mma.MadKey{M: 8, N: 32, K: 16, In: mma.BF16, Acc: mma.F32}
	fn := New().Instructions().Mad(key)

	rng := rand.New(rand.NewSource(5))
	av := halfGrid(rng, 8*16)
	bv := halfGrid(rng, 16*32)
	cv := halfGrid(rng, 8*32)

	a := loadOperandFloat(t, mma.FragKey{Type: mma.BF16, Use: mma.UseA, Rows: 8, Cols: 16}, av)
	b := loadOperandFloat(t, mma.FragKey{Type: mma.BF16, Use: mma.UseB, Rows: 16, Cols: 32}, bv)
	accKey := mma.FragKey{Type: mma.F32, Use: mma.UseAccumulator, Rows: 8, Cols: 32}
	c := loadOperandFloat(t, accKey, cv)

	d := make([]byte, len(c))
	if err := fn(d, a, b, c, 0); err != nil {
		t.Fatalf("mad failed: %v", err)
	}

	cc := newCodec(accKey)
	for m := 0; m < 8; m++ {
		for n := 0; n < 32; n++ {
			want := float32(cv[m*32+n])
			for k := 0; k < 16; k++ {
				want += float32(av[m*16+k]) * float32(bv[k*32+n])
			}
			if got := float32(cc.floatAt(d, m*32+n)); got != want {
				t.Fatalf("d[%d][%d] = %g, want %g", m, n, got, want)
			}
		}
	}
}

func TestMadS8Wraparound(t *testing.T) {
	key := mma.MadKey{M: 16, N: 16, K: 16, In: mma.S8, Acc: mma.S32}
	fn := New().Instructions().Mad(key)

	av := make([]int32, 16*16)
	bv := make([]int32, 16*16)
	cv := make([]int32, 16*16)
	for i := range av {
		av[i] = 127
		bv[i] = 127
	}
	for i := range cv {
		cv[i] = math.MaxInt32 - 100000
	}

	a := loadOperandInt(t, mma.FragKey{Type: mma.S8, Use: mma.UseA, Rows: 16, Cols: 16}, av)
	b := loadOperandInt(t, mma.FragKey{Type: mma.S8, Use: mma.UseB, Rows: 16, Cols: 16}, bv)
	accKey := mma.FragKey{Type: mma.S32, Use: mma.UseAccumulator, Rows: 16, Cols: 16}
	c := loadOperandInt(t, accKey, cv)

	d := make([]byte, len(c))
	if err := fn(d, a, b, c, 0); err != nil {
		t.Fatalf("mad failed: %v", err)
	}

	// 16 * 127 * 127 on top of MaxInt32-100000 wraps negative
	want := int32(math.MaxInt32 - 100000)
	for k := 0; k < 16; k++ {
		want += 127 * 127
	}
	if want >= 0 {
		t.Fatal("test values should wrap")
	}
	cc := newCodec(accKey)
	for e := 0; e < 16*16; e++ {
		if got := cc.intAt(d, e); got != want {
			t.Fatalf("d[%d] = %d, want %d", e, got, want)
		}
	}
}

func TestMadU8(t *testing.T) {
	key := mma.MadKey{M: 32, N: 8, K: 16, In: mma.U8, Acc: mma.S32}
	fn := New().Instructions().Mad(key)

	rng := rand.New(rand.NewSource(11))
	av := make([]int32, 32*16)
	bv := make([]int32, 16*8)
	cv := make([]int32, 32*8)
	for i := range av {
		av[i] = int32(rng.Intn(256))
	}
	for i := range bv {
		bv[i] = int32(rng.Intn(256))
	}
	for i := range cv {
		cv[i] = int32(rng.Intn(1000)) - 500
	}

	a := loadOperandInt(t, mma.FragKey{Type: mma.U8, Use: mma.UseA, Rows: 32, Cols: 16}, av)
	b := loadOperandInt(t, mma.FragKey{Type: mma.U8, Use: mma.UseB, Rows: 16, Cols: 8}, bv)
	accKey := mma.FragKey{Type: mma.S32, Use: mma.UseAccumulator, Rows: 32, Cols: 8}
	c := loadOperandInt(t, accKey, cv)

	d := make([]byte, len(c))
	if err := fn(d, a, b, c, 0); err != nil {
		t.Fatalf("mad failed: %v", err)
	}

	cc := newCodec(accKey)
	for m := 0; m < 32; m++ {
		for n := 0; n < 8; n++ {
			want := cv[m*8+n]
			for k := 0; k < 16; k++ {
				want += av[m*16+k] * bv[k*8+n]
			}
			if got := cc.intAt(d, m*8+n); got != want {
				t.Fatalf("d[%d][%d] = %d, want %d", m, n, got, want)
			}
		}
	}
}

func TestMadF64UsesFMA(t *testing.T) {
	key := mma.MadKey{M: 8, N: 8, K: 4, In: mma.F64, Acc: mma.F64}
	fn := New().Instructions().Mad(key)

	rng := rand.New(rand.NewSource(23))
	av := make([]float64, 8*4)
	bv := make([]float64, 4*8)
	cv := make([]float64, 8*8)
	for i := range av {
		av[i] = rng.NormFloat64()
	}
	for i := range bv {
		bv[i] = rng.NormFloat64()
	}
	for i := range cv {
		cv[i] = rng.NormFloat64()
	}

	a := loadOperandFloat(t, mma.FragKey{Type: mma.F64, Use: mma.UseA, Rows: 8, Cols: 4}, av)
	b := loadOperandFloat(t, mma.FragKey{Type: mma.F64, Use: mma.UseB, Rows: 4, Cols: 8}, bv)
	accKey := mma.FragKey{Type: mma.F64, Use: mma.UseAccumulator, Rows: 8, Cols: 8}
	c := loadOperandFloat(t, accKey, cv)

	d := make([]byte, len(c))
	if err := fn(d, a, b, c, 0); err != nil {
		t.Fatalf("mad failed: %v", err)
	}

	cc := newCodec(accKey)
	for m := 0; m < 8; m++ {
		for n := 0; n < 8; n++ {
			want := cv[m*8+n]
			for k := 0; k < 4; k++ {
				want = math.FMA(av[m*4+k], bv[k*8+n], want)
			}
			if got := cc.floatAt(d, m*8+n); got != want {
				t.Fatalf("d[%d][%d] = %g, want %g", m, n, got, want)
			}
		}
	}
}

func TestMadPairSelectors(t *testing.T) {
	key := mma.MadKey{M: 16, N: 16, K: 16, In: mma.F16, Acc: mma.F32}
	fn := New().Instructions().Mad(key)

	rng := rand.New(rand.NewSource(31))
	av := halfGrid(rng, 16*16)
	bv := halfGrid(rng, 16*16)
	cv := halfGrid(rng, 16*16)

	aKey := mma.FragKey{Type: mma.F16, Use: mma.UseA, Rows: 16, Cols: 16}
	bKey := mma.FragKey{Type: mma.F16, Use: mma.UseB, Rows: 16, Cols: 16}
	accKey := mma.FragKey{Type: mma.F32, Use: mma.UseAccumulator, Rows: 16, Cols: 16}

	aRow := loadOperandFloat(t, aKey, av)
	bRow := loadOperandFloat(t, bKey, bv)
	c := loadOperandFloat(t, accKey, cv)

	// Column-major register files for the same logical matrices
	ac := newCodec(aKey)
	aColMem := make([]byte, 16*16*2)
	for r := 0; r < 16; r++ {
		for col := 0; col < 16; col++ {
			mma.PutElemFloat(mma.F16, aColMem[(col*16+r)*2:], av[r*16+col])
		}
	}
	aCol := make([]byte, ac.regBytes())
	if err := ac.load(aCol, aColMem, 16, mma.ColMajor); err != nil {
		t.Fatalf("col-major a load failed: %v", err)
	}

	bc := newCodec(bKey)
	bColMem := make([]byte, 16*16*2)
	for r := 0; r < 16; r++ {
		for col := 0; col < 16; col++ {
			mma.PutElemFloat(mma.F16, bColMem[(col*16+r)*2:], bv[r*16+col])
		}
	}
	bCol := make([]byte, bc.regBytes())
	if err := bc.load(bCol, bColMem, 16, mma.ColMajor); err != nil {
		t.Fatalf("col-major b load failed: %v", err)
	}

	base := make([]byte, len(c))
	if err := fn(base, aRow, bRow, c, 0); err != nil {
		t.Fatalf("pair 0 failed: %v", err)
	}

	variants := []struct {
		pair int
		a, b []byte
	}{
		{1, aRow, bCol},
		{2, aCol, bRow},
		{3, aCol, bCol},
	}
	for _, v := range variants {
		d := make([]byte, len(c))
		if err := fn(d, v.a, v.b, c, v.pair); err != nil {
			t.Fatalf("pair %d failed: %v", v.pair, err)
		}
		if !bytes.Equal(d, base) {
			t.Errorf("pair %d result differs from row/row baseline", v.pair)
		}
	}
}

func TestMadArgumentChecks(t *testing.T) {
	key := mma.MadKey{M: 16, N: 16, K: 16, In: mma.F16, Acc: mma.F32}
	fn := New().Instructions().Mad(key)

	ac := newCodec(mma.FragKey{Type: mma.F16, Use: mma.UseA, Rows: 16, Cols: 16})
	cc := newCodec(mma.FragKey{Type: mma.F32, Use: mma.UseAccumulator, Rows: 16, Cols: 16})
	a := make([]byte, ac.regBytes())
	b := make([]byte, ac.regBytes())
	c := make([]byte, cc.regBytes())
	d := make([]byte, cc.regBytes())

	if err := fn(d, a, b, c, 4); err == nil {
		t.Error("expected out-of-range pair selector to fail")
	}
	if err := fn(d, a, b, c, -1); err == nil {
		t.Error("expected negative pair selector to fail")
	}
	if err := fn(d, a[:10], b, c, 0); err == nil {
		t.Error("expected short a register file to fail")
	}
	if err := fn(d, a, b[:10], c, 0); err == nil {
		t.Error("expected short b register file to fail")
	}
	if err := fn(d, a, b, c[:10], 0); err == nil {
		t.Error("expected short c register file to fail")
	}
	if err := fn(d[:10], a, b, c, 0); err == nil {
		t.Error("expected short d register file to fail")
	}
}
