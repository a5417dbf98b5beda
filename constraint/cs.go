// Package constraint implements the constraint-system abstraction of spec
// §4.1 (component B): a small capability interface - allocate witness,
// allocate input, enforce A*B=C, namespace push/pop - implemented by four
// sealed variants (ProvingCS, CoalescingCS, DebugCS, CountingCS), per the
// spec §9 design note that models CS polymorphism as "a single sealed
// interface with the four variants; gadgets take the capability as a
// parameter" rather than an open trait hierarchy.
package constraint

import "github.com/zinclang/zinc/field"

// Handle is an opaque reference to one allocated variable. The constraint
// system owns the variable; a Handle is cheap to copy and carries no value
// of its own (spec §3: "scalars hold opaque handles").
type Handle struct {
	id int
}

// Term is one coefficient*handle (or coefficient*1 for the constant term,
// signaled by Handle being the zero value and Constant set) addend of a
// LinearCombination.
type Term struct {
	Coeff    field.Element
	Handle   Handle
	Constant bool // true if this term is Coeff*1 rather than Coeff*Handle
}

// LinearCombination is a sum of Terms, the operand shape Enforce's A, B, C
// take (spec §4.1: "each of A, B, C is a linear combination over handles +
// the constant-1 handle").
type LinearCombination struct {
	Terms []Term
}

// Const returns the one-term linear combination equal to the given constant.
func Const(v field.Element) LinearCombination {
	return LinearCombination{Terms: []Term{{Coeff: v, Constant: true}}}
}

// Var returns the one-term linear combination 1*h.
func Var(h Handle) LinearCombination {
	return LinearCombination{Terms: []Term{{Coeff: field.One(), Handle: h}}}
}

// Add appends a coeff*h term (or coeff*1 if asConstant) in place and
// returns the receiver, to support fluent construction in gadgets.
func (lc LinearCombination) Add(coeff field.Element, h Handle, asConstant bool) LinearCombination {
	lc.Terms = append(lc.Terms, Term{Coeff: coeff, Handle: h, Constant: asConstant})
	return lc
}

// ValueFn supplies the witness value for a newly allocated variable; it is
// invoked only by CS variants that actually track values (DebugCS,
// ProvingCS), never by CountingCS.
type ValueFn func() field.Element

// System is the capability bag every gadget in package gadget is
// parameterized over (spec §4.1).
type System interface {
	// AllocateWitness introduces an unconstrained variable whose value the
	// prover alone knows.
	AllocateWitness(name string, value ValueFn) Handle
	// AllocateInput introduces a variable whose value must be supplied as
	// public input to the verifier.
	AllocateInput(name string, value ValueFn) Handle
	// Enforce records the constraint A*B=C under the given diagnostic name.
	Enforce(name string, a, b, c LinearCombination)
	// PushNamespace/PopNamespace are scoping hints with no semantic effect,
	// used only to qualify constraint names for diagnostics.
	PushNamespace(tag string)
	PopNamespace()
}

// Valuer is implemented by CS variants that can report back the concrete
// field value behind a Handle (DebugCS, ProvingCS), used by gadgets that
// need to branch on a value already computed earlier in the same witness
// (e.g. div_rem's remainder sign).
type Valuer interface {
	Value(h Handle) (field.Element, bool)
}

func joinNamespace(stack []string, name string) string {
	if len(stack) == 0 {
		return name
	}
	out := stack[0]
	for _, s := range stack[1:] {
		out = out + "/" + s
	}
	return out + "/" + name
}
