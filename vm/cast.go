package vm

import (
	"github.com/zinclang/zinc/gadget"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// cast implements the Cast opcode: spec §3's "as" conversions between
// Boolean/Integer/Field. A constant operand with a constant (statically
// known) target range was already overflow-checked by the analyzer at
// compile time (spec §4.6's Casting error kind), so here the VM only
// needs to range-check a genuinely dynamic value, via the same
// type_check gadget array/struct indexing already leans on, guarded by
// the current execution mask so a cast inside a dead branch never fails.
func (m *Machine) cast(v scalar.Scalar, target types.Type) (scalar.Scalar, error) {
	if v.Type.Equal(target) {
		return v, nil
	}

	checked, err := gadget.TypeCheck(m.cs, v, m.mask, target)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return relabel(checked, target), nil
}

// relabel returns a scalar identical to s but carrying t as its type: a
// cast never changes the underlying field value (Integer/Boolean/Field
// all share the same field-element representation), only its declared
// range, which gadget.TypeCheck already validated.
func relabel(s scalar.Scalar, t types.Type) scalar.Scalar {
	if s.IsConstant() {
		return scalar.Const(s.GetConstant(), t)
	}
	v, ok := s.Value()
	return scalar.Variable(s.Handle(), v, ok, t)
}
