package semantic

import "github.com/zinclang/zinc/lang/types"

// Element is the analyzer's representation of one expression's analyzed
// result: its type, plus - when the expression folds to a compile-time
// constant - the folded value itself. A non-constant Element denotes a
// value that exists only at VM run time (on the data/evaluation stack);
// the analyzer never materializes an actual scalar.Scalar or touches a
// constraint.System, since those are runtime concepts the generated
// bytecode's opcodes (executed by package vm) operate on, not values the
// analyzer itself carries (spec §4.6's separation of analysis/generation
// from execution).
type Element struct {
	Type  types.Type
	Const *Const // nil if Value is only known at VM run time
}

// FromConst wraps a fully evaluated compile-time value as an Element.
func FromConst(c Const) Element {
	return Element{Type: c.Type, Const: &c}
}

// Dynamic returns a non-constant Element of type t, for expressions whose
// value the generator must emit bytecode to compute.
func Dynamic(t types.Type) Element {
	return Element{Type: t}
}

// IsConstant reports whether e folded to a compile-time value.
func (e Element) IsConstant() bool { return e.Const != nil }
