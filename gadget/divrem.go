package gadget

import (
	"math/big"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// DivRem implements spec §4.3's div_rem(n,d) with enforced d != 0: returns
// (q, r) with n = q*d + r, 0 <= r < |d|, and the sign of q taken from
// truncated division (Go's big.Int.QuoRem matches this convention
// directly). bits is the bit-width used to range-check r against |d|.
func DivRem(cs constraint.System, n, d scalar.Scalar, signed bool, bits int) (q, r scalar.Scalar, err error) {
	resultType := types.Type(types.Uint{Bits: bits})
	if signed {
		resultType = types.Int{Bits: bits}
	}

	if bothConstant(n, d) {
		dv := d.GetConstant()
		if dv.IsZero() {
			return scalar.Scalar{}, scalar.Scalar{}, ErrDivisionByZero
		}
		nBig := fieldToBig(n.GetConstant(), signed)
		dBig := fieldToBig(dv, signed)
		qBig, rBig := new(big.Int).QuoRem(nBig, dBig, new(big.Int))
		return scalar.Const(field.BigIntToField(qBig), resultType),
			scalar.Const(field.BigIntToField(rBig), resultType), nil
	}

	dv, ok := d.Value()
	if ok && dv.IsZero() {
		return scalar.Scalar{}, scalar.Scalar{}, ErrDivisionByZero
	}
	nv, _ := n.Value()

	var qBig, rBig *big.Int
	if ok {
		nBig := fieldToBig(nv, signed)
		dBig := fieldToBig(dv, signed)
		qBig, rBig = new(big.Int).QuoRem(nBig, dBig, new(big.Int))
	}

	qs := allocResult(cs, "div_rem.quotient", resultType, func() field.Element {
		return field.BigIntToField(qBig)
	})
	rs := allocResult(cs, "div_rem.remainder", resultType, func() field.Element {
		return field.BigIntToField(rBig)
	})

	// n = q*d + r
	qd := Mul(cs, qs, d, types.Field{})
	recomposed := Add(cs, qd, rs, types.Field{})
	cs.Enforce("div_rem.identity", n.ToLinearCombination(), constraint.Const(field.One()), recomposed.ToLinearCombination())

	// range-check 0 <= r < |d| via the bit-width comparator; the absolute
	// value of d is used so the check is meaningful for signed divisors.
	absD := d
	if signed {
		isNeg := Lt(cs, d, scalar.Const(field.Zero(), types.Field{}), bits+1)
		negD := Neg(cs, d, types.Field{})
		absD = ConditionalSelect(cs, isNeg, negD, d, types.Field{})
	}
	inRange := Lt(cs, rs, absD, bits+1)
	if err := Assert(cs, inRange, "division remainder out of range"); err != nil {
		return scalar.Scalar{}, scalar.Scalar{}, err
	}

	return qs, rs, nil
}

func fieldToBig(v field.Element, signed bool) *big.Int {
	if signed {
		return field.FieldToSignedBigInt(v)
	}
	return v.BigInt()
}
