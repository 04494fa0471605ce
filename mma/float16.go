package mma

import (
	"math"
)

// Float16 represents an IEEE 754 binary16 value.
type Float16 uint16

// Float16 conversion constants
const (
	float16SignMask     = 0x8000
	float16ExponentMask = 0x7C00
	float16MantissaMask = 0x03FF
	float16ExponentBias = 15
	float16MantissaBits = 10
)

// ToFloat32 converts Float16 to float32. The conversion is exact.
func (f Float16) ToFloat32() float32 {
	sign := uint32(f&float16SignMask) << 16
	exponent := (f & float16ExponentMask) >> float16MantissaBits
	mantissa := f & float16MantissaMask

	if exponent == 0 {
		// Subnormal or zero
		if mantissa == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal - normalize it
		exp := uint32(0)
		for mantissa&0x400 == 0 {
			mantissa <<= 1
			exp++
		}
		mantissa &= float16MantissaMask
		exponentBits := uint32(127-float16ExponentBias+1) - exp
		return math.Float32frombits(sign | (exponentBits << 23) | (uint32(mantissa) << 13))
	} else if exponent == 0x1F {
		// Infinity or NaN
		if mantissa == 0 {
			return math.Float32frombits(sign | 0x7F800000)
		}
		return math.Float32frombits(sign | 0x7FC00000 | (uint32(mantissa) << 13))
	}

	// Normal number
	return math.Float32frombits(sign | ((uint32(exponent) + 127 - 15) << 23) | (uint32(mantissa) << 13))
}

// FromFloat32 converts float32 to Float16, rounding to nearest even.
// Values below the subnormal range flush to signed zero, values above
// the finite range saturate to infinity.
func FromFloat32(f float32) Float16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & float16SignMask)
	exponent := (bits >> 23) & 0xFF
	mantissa := bits & 0x7FFFFF

	if exponent == 0xFF {
		// Infinity or NaN
		if mantissa == 0 {
			return Float16(sign | float16ExponentMask)
		}
		nan := uint16(mantissa >> 13)
		if nan == 0 {
			nan = 1
		}
		return Float16(sign | float16ExponentMask | nan)
	}

	exp := int(exponent) - 127 + float16ExponentBias

	if exp >= 0x1F {
		// Overflow to infinity
		return Float16(sign | float16ExponentMask)
	}

	if exp <= 0 {
		// Subnormal range
		if exp < -10 {
			// Too small even for a subnormal
			return Float16(sign)
		}
		sig := mantissa | 0x800000
		shift := uint(14 - exp)
		half := uint32(1) << (shift - 1)
		m16 := sig >> shift
		if sig&half != 0 && (sig&(half-1) != 0 || m16&1 == 1) {
			m16++
		}
		return Float16(sign | uint16(m16))
	}

	// Normal number
	m16 := mantissa >> 13
	rem := mantissa & 0x1FFF
	if rem > 0x1000 || (rem == 0x1000 && m16&1 == 1) {
		m16++
		if m16 == 0x400 {
			// Mantissa carry bumps the exponent
			m16 = 0
			exp++
			if exp >= 0x1F {
				return Float16(sign | float16ExponentMask)
			}
		}
	}
	return Float16(sign | (uint16(exp) << float16MantissaBits) | uint16(m16))
}

// Bits returns the raw binary16 encoding.
func (f Float16) Bits() uint16 {
	return uint16(f)
}
