package gadget

import (
	"math/big"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// ToBits decomposes x into n big-endian boolean scalars (spec §4.3 stdlib:
// "bit-decomposition into big-endian boolean scalars; integer width uses
// its declared bitlength, field uses full modulus bits, signed integers
// use two-complement with a sign-extension step"). signed integers are
// decomposed after adding 2^(n-1), the same "add then check n+1 bits"
// encoding spec §3 describes for Integer{n,true} scalars.
func ToBits(cs constraint.System, x scalar.Scalar, n int, signed bool) []scalar.Scalar {
	shifted := x
	if signed {
		offset := scalar.Const(field.BigIntToField(new(big.Int).Lsh(big.NewInt(1), uint(n-1))), types.Field{})
		shifted = Add(cs, x, offset, types.Field{})
	}
	if shifted.IsConstant() {
		v := shifted.GetConstant().BigInt()
		bits := make([]scalar.Scalar, n)
		for i := 0; i < n; i++ {
			bits[n-1-i] = scalar.Const(field.FromBool(v.Bit(i) != 0), types.Boolean{})
		}
		return bits
	}

	sv, _ := shifted.Value()
	bits := make([]scalar.Scalar, n)
	acc := constraint.LinearCombination{}
	for i := 0; i < n; i++ {
		idx := i
		b := allocResult(cs, "to_bits.bit", types.Boolean{}, func() field.Element {
			v, _ := shifted.Value()
			return field.FromBool(v.BigInt().Bit(idx) != 0)
		})
		// boolean-ness constraint: b*(1-b) = 0
		oneMinusB := constraint.LinearCombination{Terms: []constraint.Term{{Coeff: field.One(), Constant: true}}}
		oneMinusB.Terms = append(oneMinusB.Terms, negateLC(b.ToLinearCombination()).Terms...)
		cs.Enforce("to_bits.boolean", b.ToLinearCombination(), oneMinusB, constraint.Const(field.Zero()))

		weight := field.BigIntToField(new(big.Int).Lsh(big.NewInt(1), uint(i)))
		acc.Terms = append(acc.Terms, constraint.Term{Coeff: weight, Handle: b.Handle()})
		bits[n-1-i] = b
	}
	_ = sv
	cs.Enforce("to_bits.recompose", acc, constraint.Const(field.One()), shifted.ToLinearCombination())
	return bits
}

// addWeightedBit appends weight*b to acc, reading b through its linear
// combination rather than Handle() directly since a Constant scalar has no
// handle to weigh - this lets a recompose sum mix Constant and Variable
// bits, which happens whenever some of the bits being reconstructed are
// known at compile time (e.g. padding) and others are not.
func addWeightedBit(acc *constraint.LinearCombination, weight field.Element, b scalar.Scalar) {
	term := b.ToLinearCombination().Terms[0]
	acc.Terms = append(acc.Terms, constraint.Term{
		Coeff:    weight.Mul(term.Coeff),
		Handle:   term.Handle,
		Constant: term.Constant,
	})
}

func bitsToUnsignedField(bits []scalar.Scalar) field.Element {
	v := field.Zero()
	for _, b := range bits {
		bv, _ := b.Value()
		v = v.Add(v).Add(bv)
	}
	return v
}

// FromBitsUnsigned reconstructs an n-bit unsigned scalar from its
// big-endian boolean decomposition (spec §4.3 stdlib).
func FromBitsUnsigned(cs constraint.System, bits []scalar.Scalar, n int) scalar.Scalar {
	allConst := true
	for _, b := range bits {
		if !b.IsConstant() {
			allConst = false
			break
		}
	}
	t := types.Uint{Bits: n}
	if allConst {
		return scalar.Const(bitsToUnsignedField(bits), t)
	}
	r := allocResult(cs, "from_bits_unsigned", t, func() field.Element { return bitsToUnsignedField(bits) })
	acc := constraint.LinearCombination{}
	for i, b := range bits {
		weight := field.BigIntToField(new(big.Int).Lsh(big.NewInt(1), uint(len(bits)-1-i)))
		addWeightedBit(&acc, weight, b)
	}
	cs.Enforce("from_bits_unsigned.recompose", acc, constraint.Const(field.One()), r.ToLinearCombination())
	return r
}

// FromBitsSigned reconstructs an n-bit signed scalar, inverting ToBits'
// add-2^(n-1) encoding.
func FromBitsSigned(cs constraint.System, bits []scalar.Scalar, n int) scalar.Scalar {
	unsigned := FromBitsUnsigned(cs, bits, n)
	offset := scalar.Const(field.BigIntToField(new(big.Int).Lsh(big.NewInt(1), uint(n-1))), types.Field{})
	return Sub(cs, unsigned, offset, types.Int{Bits: n})
}

// FromBitsField reconstructs a full-field scalar from its boolean
// decomposition (no signedness offset).
func FromBitsField(cs constraint.System, bits []scalar.Scalar) scalar.Scalar {
	allConst := true
	for _, b := range bits {
		if !b.IsConstant() {
			allConst = false
			break
		}
	}
	if allConst {
		return scalar.Const(bitsToUnsignedField(bits), types.Field{})
	}
	r := allocResult(cs, "from_bits_field", types.Field{}, func() field.Element { return bitsToUnsignedField(bits) })
	acc := constraint.LinearCombination{}
	for i, b := range bits {
		weight := field.BigIntToField(new(big.Int).Lsh(big.NewInt(1), uint(len(bits)-1-i)))
		addWeightedBit(&acc, weight, b)
	}
	cs.Enforce("from_bits_field.recompose", acc, constraint.Const(field.One()), r.ToLinearCombination())
	return r
}

// FieldInverse wraps Inverse (spec §4.3 stdlib: "field_inverse(x) - wraps
// the inverse gadget").
func FieldInverse(cs constraint.System, x scalar.Scalar) (scalar.Scalar, error) {
	return Inverse(cs, x, types.Field{})
}

// TypeCheck implements spec §4.3's type_check(s, tau) under mask c: if
// c=1, enforce s fits in tau by bit-decomposing s+offset into
// bitlength(tau) bits; if c=0, short-circuits to zero so inactive branches
// can never fail a check.
func TypeCheck(cs constraint.System, s scalar.Scalar, mask scalar.Scalar, t types.Type) (scalar.Scalar, error) {
	n, isNum := types.Bitlength(t)
	if !isNum {
		// Field and non-scalar types carry no range restriction.
		return s, nil
	}
	signed := types.IsSigned(t)

	if s.IsConstant() {
		v := s.GetConstant()
		var n2 *big.Int
		if signed {
			n2 = field.FieldToSignedBigInt(v)
		} else {
			n2 = v.BigInt()
		}
		if signed {
			bound := new(big.Int).Lsh(big.NewInt(1), uint(n-1))
			lower := new(big.Int).Neg(bound)
			if n2.Cmp(lower) < 0 || n2.Cmp(bound) >= 0 {
				return scalar.Scalar{}, ErrValueOverflow
			}
		} else {
			bound := new(big.Int).Lsh(big.NewInt(1), uint(n))
			if n2.Sign() < 0 || n2.Cmp(bound) >= 0 {
				return scalar.Scalar{}, ErrValueOverflow
			}
		}
		return scalar.Const(v, t), nil
	}

	masked := ConditionalSelect(cs, mask, s, scalar.Const(field.Zero(), s.Type), s.Type)
	// The boolean decomposition itself is the check: ToBits fails structurally
	// only via its recompose constraint, which can only be satisfied if the
	// witness value genuinely fits in n (signed-adjusted) bits.
	bits := ToBits(cs, masked, n, signed)
	_ = bits
	if mv, ok := masked.Value(); ok {
		var n2 *big.Int
		if signed {
			n2 = field.FieldToSignedBigInt(mv)
		} else {
			n2 = mv.BigInt()
		}
		if signed {
			bound := new(big.Int).Lsh(big.NewInt(1), uint(n-1))
			lower := new(big.Int).Neg(bound)
			if n2.Cmp(lower) < 0 || n2.Cmp(bound) >= 0 {
				if mb, ok2 := mask.Value(); ok2 && !mb.IsZero() {
					return scalar.Scalar{}, ErrValueOverflow
				}
			}
		} else {
			bound := new(big.Int).Lsh(big.NewInt(1), uint(n))
			if n2.Sign() < 0 || n2.Cmp(bound) >= 0 {
				if mb, ok2 := mask.Value(); ok2 && !mb.IsZero() {
					return scalar.Scalar{}, ErrValueOverflow
				}
			}
		}
	}
	return s, nil
}
