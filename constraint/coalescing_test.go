package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
)

func TestCoalescingCSMergesDuplicateHandleTerms(t *testing.T) {
	inner := constraint.NewProvingCS()
	cs := constraint.NewCoalescingCS(inner)

	x := cs.AllocateWitness("x", func() field.Element { return field.FromUint64(3) })

	// (1*x + 1*x) * 1 = 2*x, built deliberately with duplicate terms the way
	// a branch-merge gadget would produce them.
	a := constraint.Var(x).Add(field.One(), x, false)
	cs.Enforce("double", a, constraint.Const(field.One()), constraint.Var(x).Add(field.One(), x, false))

	cons := inner.Constraints()
	require.Len(t, cons, 1)
	require.Len(t, cons[0].A.Terms, 1)
	require.True(t, cons[0].A.Terms[0].Coeff.Equal(field.FromUint64(2)))
	require.Len(t, cons[0].C.Terms, 1)
	require.True(t, cons[0].C.Terms[0].Coeff.Equal(field.FromUint64(2)))
}

func TestCoalescingCSDropsCancelingTerms(t *testing.T) {
	inner := constraint.NewProvingCS()
	cs := constraint.NewCoalescingCS(inner)

	x := cs.AllocateWitness("x", func() field.Element { return field.FromUint64(5) })

	// 1*x + (-1)*x cancels to nothing.
	a := constraint.Var(x).Add(field.One().Neg(), x, false)
	cs.Enforce("cancel", a, constraint.Const(field.One()), constraint.Const(field.Zero()))

	cons := inner.Constraints()
	require.Empty(t, cons[0].A.Terms)
}

func TestCoalescingCSPreservesConstantTerm(t *testing.T) {
	inner := constraint.NewProvingCS()
	cs := constraint.NewCoalescingCS(inner)

	a := constraint.Const(field.FromUint64(2)).Add(field.FromUint64(3), constraint.Handle{}, true)
	cs.Enforce("sum", a, constraint.Const(field.One()), constraint.Const(field.FromUint64(5)))

	cons := inner.Constraints()
	require.Len(t, cons[0].A.Terms, 1)
	require.True(t, cons[0].A.Terms[0].Constant)
	require.True(t, cons[0].A.Terms[0].Coeff.Equal(field.FromUint64(5)))
}

func TestCoalescingCSDelegatesAllocationAndNamespace(t *testing.T) {
	inner := constraint.NewProvingCS()
	cs := constraint.NewCoalescingCS(inner)

	h := cs.AllocateInput("pub", func() field.Element { return field.FromUint64(7) })
	require.Equal(t, constraint.RoleInput, inner.Role(h))

	v, ok := cs.Value(h)
	require.True(t, ok)
	require.True(t, v.Equal(field.FromUint64(7)))

	cs.PushNamespace("ns")
	cs.Enforce("named", constraint.Var(h), constraint.Const(field.One()), constraint.Var(h))
	cs.PopNamespace()
	require.Equal(t, "ns/named", inner.Constraints()[0].Name)
}
