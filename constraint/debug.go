package constraint

import (
	"fmt"

	"github.com/zinclang/zinc/field"
)

// Violation records one constraint that failed to hold at witness time.
type Violation struct {
	Name    string
	A, B, C field.Element
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s * %s != %s", v.Name, v.A, v.B, v.C)
}

// DebugCS evaluates every Enforce at witness time and records which ones
// were violated (spec §4.1: "used by run and debug entry points to surface
// logic errors before proving"). It always needs concrete values, so every
// AllocateWitness/AllocateInput call must supply a ValueFn.
type DebugCS struct {
	nextHandle int
	values     []field.Element
	namespace  []string
	violations []Violation
}

// NewDebugCS creates an empty DebugCS.
func NewDebugCS() *DebugCS { return &DebugCS{} }

func (cs *DebugCS) alloc(value ValueFn) Handle {
	h := Handle{id: cs.nextHandle}
	cs.nextHandle++
	var v field.Element
	if value != nil {
		v = value()
	}
	cs.values = append(cs.values, v)
	return h
}

func (cs *DebugCS) AllocateWitness(name string, value ValueFn) Handle {
	return cs.alloc(value)
}

func (cs *DebugCS) AllocateInput(name string, value ValueFn) Handle {
	return cs.alloc(value)
}

func (cs *DebugCS) Value(h Handle) (field.Element, bool) {
	if h.id < 0 || h.id >= len(cs.values) {
		return field.Element{}, false
	}
	return cs.values[h.id], true
}

func (cs *DebugCS) evalLC(lc LinearCombination) field.Element {
	sum := field.Zero()
	for _, t := range lc.Terms {
		if t.Constant {
			sum = sum.Add(t.Coeff)
			continue
		}
		v, _ := cs.Value(t.Handle)
		sum = sum.Add(t.Coeff.Mul(v))
	}
	return sum
}

func (cs *DebugCS) Enforce(name string, a, b, c LinearCombination) {
	av, bv, cv := cs.evalLC(a), cs.evalLC(b), cs.evalLC(c)
	if !av.Mul(bv).Equal(cv) {
		cs.violations = append(cs.violations, Violation{
			Name: joinNamespace(cs.namespace, name), A: av, B: bv, C: cv,
		})
	}
}

func (cs *DebugCS) PushNamespace(tag string) { cs.namespace = append(cs.namespace, tag) }
func (cs *DebugCS) PopNamespace() {
	if len(cs.namespace) > 0 {
		cs.namespace = cs.namespace[:len(cs.namespace)-1]
	}
}

// Satisfied reports whether every Enforce call observed so far held.
func (cs *DebugCS) Satisfied() bool { return len(cs.violations) == 0 }

// Violations returns every constraint violation recorded, in the order
// Enforce was called.
func (cs *DebugCS) Violations() []Violation { return cs.violations }

var _ System = (*DebugCS)(nil)
var _ Valuer = (*DebugCS)(nil)
