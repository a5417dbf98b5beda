package vm

import (
	"fmt"

	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/gadget"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// fieldModulusBits is the bn254 scalar field's modulus bit length, the
// width used for comparisons and bit-decomposition of Field-typed operands
// (spec §4.3's "field uses full modulus bits").
var fieldModulusBits = field.Modulus.BitLen()

// binOp implements every two-operand opcode of spec §4.4 groups 2-3. These
// opcodes carry no bytecode operand of their own: the operand/result type
// is read directly off the popped scalars, since the generator only ever
// emits them once both operands have already been checked to agree.
func (m *Machine) binOp(op compiler.Op) (scalar.Scalar, error) {
	y := m.pop()
	x := m.pop()
	opType := x.Type

	switch op {
	case compiler.Add:
		return gadget.Add(m.cs, x, y, opType), nil
	case compiler.Sub:
		return gadget.Sub(m.cs, x, y, opType), nil
	case compiler.Mul:
		return gadget.Mul(m.cs, x, y, opType), nil
	case compiler.Div:
		q, _, err := gadget.DivRem(m.cs, x, y, types.IsSigned(opType), bitwidthOf(opType))
		return q, err
	case compiler.Rem:
		_, r, err := gadget.DivRem(m.cs, x, y, types.IsSigned(opType), bitwidthOf(opType))
		return r, err
	case compiler.And:
		return gadget.BooleanAnd(m.cs, x, y), nil
	case compiler.Or:
		return gadget.BooleanOr(m.cs, x, y), nil
	case compiler.Xor:
		return gadget.BooleanXor(m.cs, x, y), nil
	case compiler.BitAnd:
		return m.bitwiseOp(x, y, opType, gadget.BooleanAnd)
	case compiler.BitOr:
		return m.bitwiseOp(x, y, opType, gadget.BooleanOr)
	case compiler.BitXor:
		return m.bitwiseOp(x, y, opType, gadget.BooleanXor)
	case compiler.BitShiftLeft:
		return m.bitShift(x, y, opType, true)
	case compiler.BitShiftRight:
		return m.bitShift(x, y, opType, false)
	case compiler.Lt:
		return m.compare(x, y, opType, false, false), nil
	case compiler.Le:
		return m.compare(x, y, opType, true, false), nil
	case compiler.Gt:
		return m.compare(x, y, opType, false, true), nil
	case compiler.Ge:
		return m.compare(x, y, opType, true, true), nil
	case compiler.Eq:
		return gadget.Eq(m.cs, x, y), nil
	case compiler.Ne:
		return gadget.Ne(m.cs, x, y), nil
	}
	return scalar.Scalar{}, fmt.Errorf("vm: unreachable binary opcode %s", op)
}

// compare dispatches the appropriate gadget comparator: Int/Uint operands
// use the bitwidth comparator at their declared width, Field operands use
// the two-half LtField path (the opcode alone can't distinguish a Field
// comparison from an Int/Uint one, so the VM branches on the runtime
// operand type the same way binOp does everywhere else).
func (m *Machine) compare(x, y scalar.Scalar, opType types.Type, orEqual, swapped bool) scalar.Scalar {
	lt := func(a, b scalar.Scalar) scalar.Scalar {
		if _, isNum := types.Bitlength(opType); isNum {
			return gadget.Lt(m.cs, a, b, bitwidthOf(opType))
		}
		return gadget.LtField(m.cs, a, b, fieldModulusBits)
	}
	a, b := x, y
	if swapped {
		a, b = y, x
	}
	if orEqual {
		return gadget.BooleanNot(m.cs, lt(b, a))
	}
	return lt(a, b)
}

// unOp implements the three one-operand opcodes that aren't comparisons.
func (m *Machine) unOp(op compiler.Op) (scalar.Scalar, error) {
	x := m.pop()
	switch op {
	case compiler.Neg:
		return gadget.Neg(m.cs, x, x.Type), nil
	case compiler.Not:
		return gadget.BooleanNot(m.cs, x), nil
	case compiler.BitNot:
		return m.bitwiseNot(x)
	}
	return scalar.Scalar{}, fmt.Errorf("vm: unreachable unary opcode %s", op)
}

// bitwidthOf returns the bitlength an arithmetic/comparison opcode should
// use for an Int/Uint/Boolean operand type.
func bitwidthOf(t types.Type) int {
	if n, ok := types.Bitlength(t); ok {
		return n
	}
	return fieldModulusBits
}
