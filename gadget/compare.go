package gadget

import (
	"math/big"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// Lt implements spec §4.3's lt(x,y) at bit-width n: decomposes
// (2^n - 1 - x + y) into n+1 bits; the top bit is the result.
func Lt(cs constraint.System, x, y scalar.Scalar, n int) scalar.Scalar {
	if bothConstant(x, y) {
		return scalar.Const(field.FromBool(x.GetConstant().BigInt().Cmp(y.GetConstant().BigInt()) < 0), types.Boolean{})
	}
	bound := field.BigIntToField(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(n)), big.NewInt(1)))
	lhs := Add(cs, Sub(cs, scalar.Const(bound, types.Field{}), x, types.Field{}), y, types.Field{})
	bits := ToBits(cs, lhs, n+1, false)
	return bits[0] // big-endian: index 0 is the top bit
}

func Le(cs constraint.System, x, y scalar.Scalar, n int) scalar.Scalar {
	return BooleanNot(cs, Lt(cs, y, x, n))
}

func Gt(cs constraint.System, x, y scalar.Scalar, n int) scalar.Scalar {
	return Lt(cs, y, x, n)
}

func Ge(cs constraint.System, x, y scalar.Scalar, n int) scalar.Scalar {
	return BooleanNot(cs, Lt(cs, x, y, n))
}

// LtField implements spec §4.3's "lt for full-field: split into lower/
// upper halves, combine". bitlength is the full modulus bit count; the
// value is decomposed in two n/2-sized halves and recombined via the
// bitwidth comparator above, avoiding a single (modulus-bits+1)-wide
// decomposition.
func LtField(cs constraint.System, x, y scalar.Scalar, modulusBits int) scalar.Scalar {
	half := modulusBits / 2
	xBits := ToBits(cs, x, modulusBits, false)
	yBits := ToBits(cs, y, modulusBits, false)
	xHi := FromBitsUnsigned(cs, xBits[:modulusBits-half], modulusBits-half)
	xLo := FromBitsUnsigned(cs, xBits[modulusBits-half:], half)
	yHi := FromBitsUnsigned(cs, yBits[:modulusBits-half], modulusBits-half)
	yLo := FromBitsUnsigned(cs, yBits[modulusBits-half:], half)

	hiLt := Lt(cs, xHi, yHi, modulusBits-half)
	hiEq := Eq(cs, xHi, yHi)
	loLt := Lt(cs, xLo, yLo, half)
	return BooleanOr(cs, hiLt, BooleanAnd(cs, hiEq, loLt))
}
