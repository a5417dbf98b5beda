package gadget_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/gadget"
)

func TestLtConstantFolds(t *testing.T) {
	cs := constraint.NewDebugCS()
	require.True(t, gadget.Lt(cs, cv(3), cv(5), 8).GetConstant().Equal(field.One()))
	require.True(t, gadget.Lt(cs, cv(5), cv(3), 8).GetConstant().IsZero())
	require.True(t, gadget.Lt(cs, cv(3), cv(3), 8).GetConstant().IsZero())
}

func TestLtWitness(t *testing.T) {
	cs := constraint.NewDebugCS()
	r := gadget.Lt(cs, wv(cs, 3), wv(cs, 5), 8)
	require.True(t, r.Bool())
	require.True(t, cs.Satisfied())

	r = gadget.Lt(cs, wv(cs, 5), wv(cs, 3), 8)
	require.False(t, r.Bool())
	require.True(t, cs.Satisfied())
}

func TestLeGtGe(t *testing.T) {
	cs := constraint.NewDebugCS()

	require.True(t, gadget.Le(cs, wv(cs, 3), wv(cs, 3), 8).Bool())
	require.False(t, gadget.Le(cs, wv(cs, 4), wv(cs, 3), 8).Bool())

	require.True(t, gadget.Gt(cs, wv(cs, 5), wv(cs, 3), 8).Bool())
	require.False(t, gadget.Gt(cs, wv(cs, 3), wv(cs, 5), 8).Bool())

	require.True(t, gadget.Ge(cs, wv(cs, 3), wv(cs, 3), 8).Bool())
	require.False(t, gadget.Ge(cs, wv(cs, 2), wv(cs, 3), 8).Bool())

	require.True(t, cs.Satisfied())
}

func TestLtField(t *testing.T) {
	cs := constraint.NewDebugCS()
	r := gadget.LtField(cs, wv(cs, 100), wv(cs, 200), field.Modulus.BitLen())
	require.True(t, r.Bool())
	require.True(t, cs.Satisfied())

	r = gadget.LtField(cs, wv(cs, 200), wv(cs, 100), field.Modulus.BitLen())
	require.False(t, r.Bool())
	require.True(t, cs.Satisfied())
}
