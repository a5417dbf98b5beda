package vm

import (
	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/gadget"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// package gadget has no generic bit_and/bit_or/bit_xor/bit_not/shift
// gadgets of its own (only the boolean and SHA-256's fixed-32-bit-word
// versions); the VM builds them from gadget's decompose/recompose
// primitives the same way gadget/sha256.go builds its own word ops, since
// Zinc's `&`/`|`/`^`/`~`/`<<`/`>>` operators work over arbitrary-width
// Int/Uint operands rather than SHA-256's fixed 32-bit word.

func (m *Machine) decompose(x scalar.Scalar) []scalar.Scalar {
	n, _ := types.Bitlength(x.Type)
	return gadget.ToBits(m.cs, x, n, types.IsSigned(x.Type))
}

func (m *Machine) recompose(bits []scalar.Scalar, t types.Type) scalar.Scalar {
	if types.IsSigned(t) {
		n, _ := types.Bitlength(t)
		return gadget.FromBitsSigned(m.cs, bits, n)
	}
	n, _ := types.Bitlength(t)
	return gadget.FromBitsUnsigned(m.cs, bits, n)
}

// bitwiseOp applies perBit (one of gadget.BooleanAnd/Or/Xor) to each
// aligned pair of bits of x and y and recomposes the result at opType's
// width.
func (m *Machine) bitwiseOp(x, y scalar.Scalar, opType types.Type, perBit func(cs constraint.System, a, b scalar.Scalar) scalar.Scalar) (scalar.Scalar, error) {
	xBits := m.decompose(x)
	yBits := m.decompose(y)
	out := make([]scalar.Scalar, len(xBits))
	for i := range xBits {
		out[i] = perBit(m.cs, xBits[i], yBits[i])
	}
	return m.recompose(out, opType), nil
}

func (m *Machine) bitwiseNot(x scalar.Scalar) (scalar.Scalar, error) {
	bits := m.decompose(x)
	out := make([]scalar.Scalar, len(bits))
	for i, b := range bits {
		out[i] = gadget.BooleanNot(m.cs, b)
	}
	return m.recompose(out, x.Type), nil
}

// bitShift implements `<<`/`>>`: the shift amount must be a compile-time
// constant (a dynamic shift amount would require a barrel shifter
// synthesized as a sum over every possible amount, which the language
// does not expose - the analyzer only ever folds `y` here from a literal
// or const expression).
func (m *Machine) bitShift(x, y scalar.Scalar, opType types.Type, left bool) (scalar.Scalar, error) {
	if !y.IsConstant() {
		return scalar.Scalar{}, gadget.ErrWitnessArrayIndex
	}
	shift := int(y.GetConstantUsize())
	bits := m.decompose(x)
	n := len(bits)
	out := make([]scalar.Scalar, n)
	zero := scalar.Const(field.Zero(), types.Boolean{})
	for i := 0; i < n; i++ {
		var src int
		if left {
			src = i + shift
		} else {
			src = i - shift
		}
		if src < 0 || src >= n {
			out[i] = zero
		} else {
			out[i] = bits[src]
		}
	}
	return m.recompose(out, opType), nil
}
