package constraint

import "github.com/zinclang/zinc/field"

// CoalescingCS wraps another System and, before forwarding Enforce,
// collapses duplicate-handle terms in each linear combination by summing
// their coefficients and dropping any that cancel to zero (spec §4.1:
// "required because gadgets produce many (1*v) + (-1*v) terms during
// branch merges"). Allocation and namespacing pass straight through.
type CoalescingCS struct {
	inner System
}

// NewCoalescingCS wraps inner.
func NewCoalescingCS(inner System) *CoalescingCS { return &CoalescingCS{inner: inner} }

func (cs *CoalescingCS) AllocateWitness(name string, value ValueFn) Handle {
	return cs.inner.AllocateWitness(name, value)
}

func (cs *CoalescingCS) AllocateInput(name string, value ValueFn) Handle {
	return cs.inner.AllocateInput(name, value)
}

func coalesce(lc LinearCombination) LinearCombination {
	// Constant terms accumulate into a single slot; handle terms accumulate
	// by handle id, preserving first-seen order so Enforce's output stays
	// deterministic across runs (spec §8 property 4: constraint determinism).
	var constSum field.Element
	haveConst := false
	order := make([]Handle, 0, len(lc.Terms))
	sums := make(map[Handle]field.Element, len(lc.Terms))
	for _, t := range lc.Terms {
		if t.Constant {
			constSum = constSum.Add(t.Coeff)
			haveConst = true
			continue
		}
		if _, ok := sums[t.Handle]; !ok {
			order = append(order, t.Handle)
		}
		sums[t.Handle] = sums[t.Handle].Add(t.Coeff)
	}
	out := LinearCombination{}
	if haveConst && !constSum.IsZero() {
		out.Terms = append(out.Terms, Term{Coeff: constSum, Constant: true})
	}
	for _, h := range order {
		if c := sums[h]; !c.IsZero() {
			out.Terms = append(out.Terms, Term{Coeff: c, Handle: h})
		}
	}
	return out
}

func (cs *CoalescingCS) Enforce(name string, a, b, c LinearCombination) {
	cs.inner.Enforce(name, coalesce(a), coalesce(b), coalesce(c))
}

func (cs *CoalescingCS) PushNamespace(tag string) { cs.inner.PushNamespace(tag) }
func (cs *CoalescingCS) PopNamespace()             { cs.inner.PopNamespace() }

// Value delegates to the wrapped System if it implements Valuer.
func (cs *CoalescingCS) Value(h Handle) (field.Element, bool) {
	if v, ok := cs.inner.(Valuer); ok {
		return v.Value(h)
	}
	return field.Element{}, false
}

var _ System = (*CoalescingCS)(nil)
