package warp

import (
	"fmt"
	"math"

	"github.com/jacquardml/weft/mma"
)

func checkMadArgs(ac, bc, cc codec, d, a, b, c []byte, pair int) error {
	if pair < 0 || pair > 3 {
		return fmt.Errorf("warp: layout pair selector %d out of range", pair)
	}
	if len(a) != ac.regBytes() {
		return fmt.Errorf("warp: %v: a register file is %d bytes, want %d", ac.key, len(a), ac.regBytes())
	}
	if len(b) != bc.regBytes() {
		return fmt.Errorf("warp: %v: b register file is %d bytes, want %d", bc.key, len(b), bc.regBytes())
	}
	if len(c) != cc.regBytes() {
		return fmt.Errorf("warp: %v: c register file is %d bytes, want %d", cc.key, len(c), cc.regBytes())
	}
	if len(d) != cc.regBytes() {
		return fmt.Errorf("warp: %v: d register file is %d bytes, want %d", cc.key, len(d), cc.regBytes())
	}
	return nil
}

// madFunc builds the multiply-accumulate micro-op for one instruction.
// All variants start from C and walk k in ascending order.
func madFunc(k mma.MadKey) mma.MadFunc {
	ac := newCodec(mma.FragKey{Type: k.In, Use: mma.UseA, Rows: k.M, Cols: k.K})
	bc := newCodec(mma.FragKey{Type: k.In, Use: mma.UseB, Rows: k.K, Cols: k.N})
	cc := newCodec(mma.FragKey{Type: k.Acc, Use: mma.UseAccumulator, Rows: k.M, Cols: k.N})
	M, N, K := k.M, k.N, k.K

	switch {
	case k.In.Integer():
		// S8/U8 into S32, two's complement wraparound
		return func(d, a, b, c []byte, pair int) error {
			if err := checkMadArgs(ac, bc, cc, d, a, b, c, pair); err != nil {
				return err
			}
			ad := ac.denseInt(a, pair >= 2)
			bd := bc.denseInt(b, pair%2 == 1)
			for m := 0; m < M; m++ {
				for n := 0; n < N; n++ {
					acc := cc.intAt(c, m*N+n)
					for kk := 0; kk < K; kk++ {
						acc += ad[m*K+kk] * bd[kk*N+n]
					}
					cc.putInt(d, m*N+n, acc)
				}
			}
			return nil
		}
	case k.In == mma.F64:
		// Each step is a fused multiply-add with a single rounding
		return func(d, a, b, c []byte, pair int) error {
			if err := checkMadArgs(ac, bc, cc, d, a, b, c, pair); err != nil {
				return err
			}
			ad := ac.denseFloat(a, pair >= 2)
			bd := bc.denseFloat(b, pair%2 == 1)
			for m := 0; m < M; m++ {
				for n := 0; n < N; n++ {
					acc := cc.floatAt(c, m*N+n)
					for kk := 0; kk < K; kk++ {
						acc = math.FMA(ad[m*K+kk], bd[kk*N+n], acc)
					}
					cc.putFloat(d, m*N+n, acc)
				}
			}
			return nil
		}
	default:
		// F16/BF16 operands: products are exact in float32, the
		// accumulator chain runs in float32. A half accumulator
		// rounds once when D is written.
		return func(d, a, b, c []byte, pair int) error {
			if err := checkMadArgs(ac, bc, cc, d, a, b, c, pair); err != nil {
				return err
			}
			ad := ac.denseFloat(a, pair >= 2)
			bd := bc.denseFloat(b, pair%2 == 1)
			for m := 0; m < M; m++ {
				for n := 0; n < N; n++ {
					acc := float32(cc.floatAt(c, m*N+n))
					for kk := 0; kk < K; kk++ {
						acc += float32(ad[m*K+kk]) * float32(bd[kk*N+n])
					}
					cc.putFloat(d, m*N+n, float64(acc))
				}
			}
			return nil
		}
	}
}
