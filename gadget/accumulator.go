package gadget

import (
	"math/big"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
)

// fieldCapacityBits is the usable bit budget per flush: the bn254 scalar
// field has a ~254-bit modulus, and multi-equality sums of n-bit terms
// stay sound as long as the accumulated weighted sum cannot wrap the
// field, so a conservative margin below the modulus size is used.
const fieldCapacityBits = 250

// MultiEqualityAccumulator batches many `lhs = rhs` equalities that each
// consume a known, small number of bits into a single `A*1=B` constraint,
// per spec §4.3.1: "accumulating their LHS and RHS into two running linear
// combinations scaled by powers of 2^bits_used; when the total bit budget
// would exceed the field capacity, it flushes a single constraint." SHA-256
// uses this to batch the many 32-bit modular additions its compression
// function performs.
type MultiEqualityAccumulator struct {
	cs        constraint.System
	lhs, rhs  constraint.LinearCombination
	bitsUsed  int
}

// NewMultiEqualityAccumulator creates an accumulator bound to cs.
func NewMultiEqualityAccumulator(cs constraint.System) *MultiEqualityAccumulator {
	return &MultiEqualityAccumulator{cs: cs}
}

// Push queues lhs=rhs (each an n-bit-valued linear combination) into the
// running sums, flushing first if the addition would exceed the field's
// bit capacity.
func (m *MultiEqualityAccumulator) Push(lhs, rhs constraint.LinearCombination, bits int) {
	if m.bitsUsed+bits > fieldCapacityBits {
		m.Flush()
	}
	weight := field.BigIntToField(new(big.Int).Lsh(big.NewInt(1), uint(m.bitsUsed)))
	m.lhs.Terms = append(m.lhs.Terms, scaleTerms(lhs, weight)...)
	m.rhs.Terms = append(m.rhs.Terms, scaleTerms(rhs, weight)...)
	m.bitsUsed += bits
}

func scaleTerms(lc constraint.LinearCombination, weight field.Element) []constraint.Term {
	out := make([]constraint.Term, len(lc.Terms))
	for i, t := range lc.Terms {
		out[i] = constraint.Term{Coeff: t.Coeff.Mul(weight), Handle: t.Handle, Constant: t.Constant}
	}
	return out
}

// Flush emits the single accumulated A*1=B constraint, if anything has
// been queued, and resets the accumulator.
func (m *MultiEqualityAccumulator) Flush() {
	if m.bitsUsed == 0 {
		return
	}
	m.cs.Enforce("multi_equality", m.lhs, constraint.Const(field.One()), m.rhs)
	m.lhs = constraint.LinearCombination{}
	m.rhs = constraint.LinearCombination{}
	m.bitsUsed = 0
}

// Close is the scope-exit hook spec §4.3.1 requires ("gadgets that use it
// drop it via a scope-exit hook that flushes any residual equation"). It is
// meant to be called via `defer acc.Close()` at the end of the gadget that
// owns the accumulator.
func (m *MultiEqualityAccumulator) Close() { m.Flush() }
