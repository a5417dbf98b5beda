// Package gadget implements the reusable circuit fragments of spec §4.3
// (component C): every gadget is polymorphic over a constraint.System and
// obeys the auto-const rule - if every operand is a Constant scalar, the
// result is computed in plain field arithmetic and returned as a Constant,
// emitting no constraints; otherwise the result is allocated as a witness
// and the gadget's defining constraints are enforced.
package gadget

import (
	"errors"
	"fmt"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// Runtime error sentinels, wrapped with source location by the VM dispatch
// loop (spec §4.5.2: "an execution error fails with RuntimeError carrying
// the source location").
var (
	ErrDivisionByZero     = errors.New("division by zero")
	ErrValueOverflow      = errors.New("value overflow")
	ErrWitnessArrayIndex  = errors.New("array index must be a compile-time constant")
	ErrIndexOutOfBounds   = errors.New("index out of bounds")
	ErrAssertionFailed    = errors.New("assertion failed")
)

// AssertionError carries the optional user message for a failed assert!
// (spec §4.3's assert gadget contract).
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	if e.Message == "" {
		return ErrAssertionFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrAssertionFailed, e.Message)
}

func (e *AssertionError) Unwrap() error { return ErrAssertionFailed }

func bothConstant(x, y scalar.Scalar) bool { return x.IsConstant() && y.IsConstant() }

// allocResult allocates a witness for a binary gadget's result, with value
// computed eagerly from x and y's known values when available (so DebugCS/
// ProvingCS record a concrete witness; under CountingCS no value function
// is ever invoked).
func allocResult(cs constraint.System, name string, t types.Type, compute func() field.Element) scalar.Scalar {
	h := cs.AllocateWitness(name, func() field.Element { return compute() })
	v, ok := field.Element{}, false
	if dbg, isVal := cs.(constraint.Valuer); isVal {
		v, ok = dbg.Value(h)
	}
	return scalar.Variable(h, v, ok, t)
}

// Add implements spec §4.3's add(x,y): result = x+y, 1 constraint in the
// non-constant case.
func Add(cs constraint.System, x, y scalar.Scalar, resultType types.Type) scalar.Scalar {
	if bothConstant(x, y) {
		return scalar.Const(x.GetConstant().Add(y.GetConstant()), resultType)
	}
	xv, _ := x.Value()
	yv, _ := y.Value()
	r := allocResult(cs, "add", resultType, func() field.Element { return xv.Add(yv) })
	cs.Enforce("add", addLC(x, y), constraint.Const(field.One()), r.ToLinearCombination())
	return r
}

// addLC builds the linear combination x+y.
func addLC(x, y scalar.Scalar) constraint.LinearCombination {
	lc := constraint.LinearCombination{}
	lc.Terms = append(lc.Terms, x.ToLinearCombination().Terms...)
	lc.Terms = append(lc.Terms, y.ToLinearCombination().Terms...)
	return lc
}

// Sub implements spec §4.3's sub(x,y): result = x-y.
func Sub(cs constraint.System, x, y scalar.Scalar, resultType types.Type) scalar.Scalar {
	if bothConstant(x, y) {
		return scalar.Const(x.GetConstant().Sub(y.GetConstant()), resultType)
	}
	xv, _ := x.Value()
	yv, _ := y.Value()
	r := allocResult(cs, "sub", resultType, func() field.Element { return xv.Sub(yv) })
	negY := negateLC(y.ToLinearCombination())
	lc := constraint.LinearCombination{}
	lc.Terms = append(lc.Terms, x.ToLinearCombination().Terms...)
	lc.Terms = append(lc.Terms, negY.Terms...)
	cs.Enforce("sub", lc, constraint.Const(field.One()), r.ToLinearCombination())
	return r
}

func negateLC(lc constraint.LinearCombination) constraint.LinearCombination {
	out := constraint.LinearCombination{Terms: make([]constraint.Term, len(lc.Terms))}
	for i, t := range lc.Terms {
		out.Terms[i] = constraint.Term{Coeff: t.Coeff.Neg(), Handle: t.Handle, Constant: t.Constant}
	}
	return out
}

// Mul implements spec §4.3's mul(x,y): result = x*y.
func Mul(cs constraint.System, x, y scalar.Scalar, resultType types.Type) scalar.Scalar {
	if bothConstant(x, y) {
		return scalar.Const(x.GetConstant().Mul(y.GetConstant()), resultType)
	}
	xv, _ := x.Value()
	yv, _ := y.Value()
	r := allocResult(cs, "mul", resultType, func() field.Element { return xv.Mul(yv) })
	cs.Enforce("mul", x.ToLinearCombination(), y.ToLinearCombination(), r.ToLinearCombination())
	return r
}

// Neg implements spec §4.3's neg(x): result = -x.
func Neg(cs constraint.System, x scalar.Scalar, resultType types.Type) scalar.Scalar {
	if x.IsConstant() {
		return scalar.Const(x.GetConstant().Neg(), resultType)
	}
	xv, _ := x.Value()
	r := allocResult(cs, "neg", resultType, func() field.Element { return xv.Neg() })
	cs.Enforce("neg", negateLC(x.ToLinearCombination()), constraint.Const(field.One()), r.ToLinearCombination())
	return r
}

// Inverse implements spec §4.3's inverse(x): fails if x=0; else 1=x*result.
func Inverse(cs constraint.System, x scalar.Scalar, resultType types.Type) (scalar.Scalar, error) {
	if x.IsConstant() {
		inv, ok := x.GetConstant().Inverse()
		if !ok {
			return scalar.Scalar{}, ErrDivisionByZero
		}
		return scalar.Const(inv, resultType), nil
	}
	xv, ok := x.Value()
	if ok && xv.IsZero() {
		return scalar.Scalar{}, ErrDivisionByZero
	}
	r := allocResult(cs, "inverse", resultType, func() field.Element {
		inv, _ := xv.Inverse()
		return inv
	})
	cs.Enforce("inverse", x.ToLinearCombination(), r.ToLinearCombination(), constraint.Const(field.One()))
	return r, nil
}

// ConditionalSelect implements spec §4.3's conditional_select(c,a,b): c in
// {0,1}; returns a if c=1 else b, encoded as (a-b)*c = result-b.
func ConditionalSelect(cs constraint.System, c, a, b scalar.Scalar, resultType types.Type) scalar.Scalar {
	if c.IsConstant() {
		if !c.GetConstant().IsZero() {
			return a
		}
		return b
	}
	cv, _ := c.Value()
	av, _ := a.Value()
	bv, _ := b.Value()
	r := allocResult(cs, "conditional_select", resultType, func() field.Element {
		if !cv.IsZero() {
			return av
		}
		return bv
	})
	diff := constraint.LinearCombination{}
	diff.Terms = append(diff.Terms, a.ToLinearCombination().Terms...)
	diff.Terms = append(diff.Terms, negateLC(b.ToLinearCombination()).Terms...)
	rhs := constraint.LinearCombination{}
	rhs.Terms = append(rhs.Terms, r.ToLinearCombination().Terms...)
	rhs.Terms = append(rhs.Terms, negateLC(b.ToLinearCombination()).Terms...)
	cs.Enforce("conditional_select", diff, c.ToLinearCombination(), rhs)
	return r
}

// BooleanAnd/Or/Xor/Not implement spec §4.3's field identities on {0,1}.
func BooleanAnd(cs constraint.System, x, y scalar.Scalar) scalar.Scalar {
	return Mul(cs, x, y, types.Boolean{})
}

func BooleanOr(cs constraint.System, x, y scalar.Scalar) scalar.Scalar {
	// x+y-x*y
	sum := Add(cs, x, y, types.Boolean{})
	prod := Mul(cs, x, y, types.Boolean{})
	return Sub(cs, sum, prod, types.Boolean{})
}

func BooleanXor(cs constraint.System, x, y scalar.Scalar) scalar.Scalar {
	// x+y-2*x*y
	sum := Add(cs, x, y, types.Boolean{})
	prod := Mul(cs, x, y, types.Boolean{})
	two := scalar.Const(field.FromUint64(2), types.Boolean{})
	twoProd := Mul(cs, two, prod, types.Boolean{})
	return Sub(cs, sum, twoProd, types.Boolean{})
}

func BooleanNot(cs constraint.System, x scalar.Scalar) scalar.Scalar {
	one := scalar.Const(field.One(), types.Boolean{})
	return Sub(cs, one, x, types.Boolean{})
}

// Eq implements spec §4.3's eq(x,y): returns 1 if x=y else 0, via
// auxiliary inverse witness w and constraints (x-y)*w = 1-r, (x-y)*r = 0.
func Eq(cs constraint.System, x, y scalar.Scalar) scalar.Scalar {
	if bothConstant(x, y) {
		return scalar.Const(field.FromBool(x.GetConstant().Equal(y.GetConstant())), types.Boolean{})
	}
	xv, _ := x.Value()
	yv, _ := y.Value()
	diff := xv.Sub(yv)

	r := allocResult(cs, "eq.result", types.Boolean{}, func() field.Element {
		return field.FromBool(diff.IsZero())
	})
	w := allocResult(cs, "eq.inverse_witness", types.Field{}, func() field.Element {
		if diff.IsZero() {
			return field.Zero()
		}
		inv, _ := diff.Inverse()
		return inv
	})

	diffLC := constraint.LinearCombination{}
	diffLC.Terms = append(diffLC.Terms, x.ToLinearCombination().Terms...)
	diffLC.Terms = append(diffLC.Terms, negateLC(y.ToLinearCombination()).Terms...)

	oneMinusR := constraint.LinearCombination{Terms: []constraint.Term{{Coeff: field.One(), Constant: true}}}
	oneMinusR.Terms = append(oneMinusR.Terms, negateLC(r.ToLinearCombination()).Terms...)
	cs.Enforce("eq.witness", diffLC, w.ToLinearCombination(), oneMinusR)
	cs.Enforce("eq.vanish", diffLC, r.ToLinearCombination(), constraint.Const(field.Zero()))
	return r
}

func Ne(cs constraint.System, x, y scalar.Scalar) scalar.Scalar {
	return BooleanNot(cs, Eq(cs, x, y))
}

// Assert implements spec §4.3's assert(s, msg): enforces inv*s=1 (s != 0);
// the effective constraint the VM installs also ORs in the negated
// execution mask (spec §4.5.3) so the assertion never fails on an inactive
// branch - that OR is applied by the caller (package vm), not here.
func Assert(cs constraint.System, s scalar.Scalar, msg string) error {
	if s.IsConstant() {
		if s.GetConstant().IsZero() {
			return &AssertionError{Message: msg}
		}
		return nil
	}
	sv, ok := s.Value()
	if ok && sv.IsZero() {
		return &AssertionError{Message: msg}
	}
	inv := allocResult(cs, "assert.inverse", types.Field{}, func() field.Element {
		v, _ := sv.Inverse()
		return v
	})
	cs.Enforce("assert", inv.ToLinearCombination(), s.ToLinearCombination(), constraint.Const(field.One()))
	return nil
}
