package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
)

func TestConstAndVar(t *testing.T) {
	lc := constraint.Const(field.FromUint64(5))
	require.Len(t, lc.Terms, 1)
	require.True(t, lc.Terms[0].Constant)
	require.True(t, lc.Terms[0].Coeff.Equal(field.FromUint64(5)))

	cs := constraint.NewProvingCS()
	h := cs.AllocateWitness("x", func() field.Element { return field.FromUint64(1) })
	v := constraint.Var(h)
	require.Len(t, v.Terms, 1)
	require.False(t, v.Terms[0].Constant)
	require.Equal(t, h, v.Terms[0].Handle)
}

func TestLinearCombinationAdd(t *testing.T) {
	lc := constraint.Const(field.FromUint64(1)).Add(field.FromUint64(2), constraint.Handle{}, false)
	require.Len(t, lc.Terms, 2)
}
