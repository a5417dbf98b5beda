package facade

import "github.com/zinclang/zinc/constraint"

// trackingCS wraps a *constraint.DebugCS to additionally record which
// allocated handles were ever referenced by an Enforce call, so Debug can
// report variables the program computed but never constrained (spec §6.2's
// debug entry point: "additionally reports unconstrained variables").
type trackingCS struct {
	*constraint.DebugCS
	allocated []constraint.Handle
	used      map[constraint.Handle]bool
}

func newTrackingCS() *trackingCS {
	return &trackingCS{DebugCS: constraint.NewDebugCS(), used: make(map[constraint.Handle]bool)}
}

func (cs *trackingCS) AllocateWitness(name string, value constraint.ValueFn) constraint.Handle {
	h := cs.DebugCS.AllocateWitness(name, value)
	cs.allocated = append(cs.allocated, h)
	return h
}

func (cs *trackingCS) AllocateInput(name string, value constraint.ValueFn) constraint.Handle {
	h := cs.DebugCS.AllocateInput(name, value)
	cs.allocated = append(cs.allocated, h)
	return h
}

func (cs *trackingCS) Enforce(name string, a, b, c constraint.LinearCombination) {
	cs.DebugCS.Enforce(name, a, b, c)
	for _, lc := range [...]constraint.LinearCombination{a, b, c} {
		for _, t := range lc.Terms {
			if !t.Constant {
				cs.used[t.Handle] = true
			}
		}
	}
}

// Unconstrained returns every allocated handle that no Enforce call ever
// referenced, in allocation order.
func (cs *trackingCS) Unconstrained() []constraint.Handle {
	var out []constraint.Handle
	for _, h := range cs.allocated {
		if !cs.used[h] {
			out = append(out, h)
		}
	}
	return out
}

var _ constraint.System = (*trackingCS)(nil)
var _ constraint.Valuer = (*trackingCS)(nil)
