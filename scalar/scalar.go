// Package scalar implements the scalar value model of spec §3: a scalar is
// (variant, type) where variant is either a Constant field element or a
// Variable (an optional known value plus an opaque constraint Handle), and
// type is one of Boolean, Integer{bitlength,signed} or Field. This is the
// value every gadget (package gadget) and VM instruction (package vm)
// operates on.
package scalar

import (
	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/types"
)

// Scalar is one value flowing through the evaluation/data stacks.
type Scalar struct {
	Type types.Type

	isConstant bool
	constVal   field.Element

	handle   constraint.Handle
	hasValue bool
	value    field.Element
}

// Const builds a Constant scalar of the given type (spec §3: "A Constant
// scalar carries a known value and emits NO constraints when operated
// upon").
func Const(v field.Element, t types.Type) Scalar {
	return Scalar{Type: t, isConstant: true, constVal: v}
}

// Variable builds a Variable scalar backed by h, with an optionally-known
// witness value (known during run/debug/prove, unknown during setup's
// CountingCS pass).
func Variable(h constraint.Handle, value field.Element, hasValue bool, t types.Type) Scalar {
	return Scalar{Type: t, handle: h, hasValue: hasValue, value: value}
}

// IsConstant reports whether s is a Constant scalar.
func (s Scalar) IsConstant() bool { return s.isConstant }

// GetConstant returns s's constant value, per spec §4.2's `.get_constant()`.
// It panics if s is not constant - callers must check IsConstant first,
// mirroring the source's contract that this accessor is only ever called
// after the auto-const check.
func (s Scalar) GetConstant() field.Element {
	if !s.isConstant {
		panic("scalar: GetConstant on a Variable scalar")
	}
	return s.constVal
}

// GetConstantUsize returns s's constant value reduced to a uint64, for use
// as a compile-time array index (spec §4.2's `.get_constant_usize()`).
func (s Scalar) GetConstantUsize() uint64 {
	return s.GetConstant().Uint64()
}

// Handle returns the constraint-system handle backing a Variable scalar. It
// panics if s is Constant.
func (s Scalar) Handle() constraint.Handle {
	if s.isConstant {
		panic("scalar: Handle on a Constant scalar")
	}
	return s.handle
}

// Value returns s's known witness value and whether one is available. A
// Constant scalar always has a known value; a Variable scalar's value is
// known only under CS variants that track values (DebugCS, ProvingCS).
func (s Scalar) Value() (field.Element, bool) {
	if s.isConstant {
		return s.constVal, true
	}
	return s.value, s.hasValue
}

// ToLinearCombination yields (value)*1 for a Constant or 1*handle for a
// Variable (spec §4.2's `.to_linear_combination()`).
func (s Scalar) ToLinearCombination() constraint.LinearCombination {
	if s.isConstant {
		return constraint.Const(s.constVal)
	}
	return constraint.Var(s.handle)
}

// Bool extracts a known 0/1-valued scalar as a Go bool; it panics if no
// value is known, which callers must only do under a CS variant that
// tracks values.
func (s Scalar) Bool() bool {
	v, ok := s.Value()
	if !ok {
		panic("scalar: Bool on a valueless scalar")
	}
	return !v.IsZero()
}
