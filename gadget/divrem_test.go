package gadget_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/gadget"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

func uv(cs constraint.System, n uint64, bits int) scalar.Scalar {
	v := field.FromUint64(n)
	h := cs.AllocateWitness("v", func() field.Element { return v })
	return scalar.Variable(h, v, true, types.Uint{Bits: bits})
}

func TestDivRemConstantFolds(t *testing.T) {
	cs := constraint.NewDebugCS()
	n := scalar.Const(field.FromUint64(17), types.Uint{Bits: 8})
	d := scalar.Const(field.FromUint64(5), types.Uint{Bits: 8})

	q, r, err := gadget.DivRem(cs, n, d, false, 8)
	require.NoError(t, err)
	require.True(t, q.GetConstant().Equal(field.FromUint64(3)))
	require.True(t, r.GetConstant().Equal(field.FromUint64(2)))
}

func TestDivRemWitness(t *testing.T) {
	cs := constraint.NewDebugCS()
	n := uv(cs, 17, 8)
	d := uv(cs, 5, 8)

	q, r, err := gadget.DivRem(cs, n, d, false, 8)
	require.NoError(t, err)
	qv, _ := q.Value()
	rv, _ := r.Value()
	require.True(t, qv.Equal(field.FromUint64(3)))
	require.True(t, rv.Equal(field.FromUint64(2)))
	require.True(t, cs.Satisfied())
}

func TestDivRemByZeroFails(t *testing.T) {
	cs := constraint.NewDebugCS()
	n := scalar.Const(field.FromUint64(17), types.Uint{Bits: 8})
	d := scalar.Const(field.Zero(), types.Uint{Bits: 8})
	_, _, err := gadget.DivRem(cs, n, d, false, 8)
	require.ErrorIs(t, err, gadget.ErrDivisionByZero)

	d2 := uv(cs, 0, 8)
	_, _, err = gadget.DivRem(cs, uv(cs, 17, 8), d2, false, 8)
	require.ErrorIs(t, err, gadget.ErrDivisionByZero)
}
