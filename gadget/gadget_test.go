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

func cv(n uint64) scalar.Scalar {
	return scalar.Const(field.FromUint64(n), types.Field{})
}

func wv(cs constraint.System, n uint64) scalar.Scalar {
	v := field.FromUint64(n)
	h := cs.AllocateWitness("v", func() field.Element { return v })
	return scalar.Variable(h, v, true, types.Field{})
}

func TestAddConstantFolds(t *testing.T) {
	cs := constraint.NewDebugCS()
	r := gadget.Add(cs, cv(2), cv(3), types.Field{})
	require.True(t, r.IsConstant())
	require.True(t, r.GetConstant().Equal(field.FromUint64(5)))
	require.True(t, cs.Satisfied())
}

func TestAddWitness(t *testing.T) {
	cs := constraint.NewDebugCS()
	r := gadget.Add(cs, wv(cs, 2), wv(cs, 3), types.Field{})
	require.False(t, r.IsConstant())
	v, ok := r.Value()
	require.True(t, ok)
	require.True(t, v.Equal(field.FromUint64(5)))
	require.True(t, cs.Satisfied())
}

func TestSub(t *testing.T) {
	cs := constraint.NewDebugCS()
	r := gadget.Sub(cs, wv(cs, 5), wv(cs, 3), types.Field{})
	v, _ := r.Value()
	require.True(t, v.Equal(field.FromUint64(2)))
	require.True(t, cs.Satisfied())
}

func TestMul(t *testing.T) {
	cs := constraint.NewDebugCS()
	r := gadget.Mul(cs, wv(cs, 5), wv(cs, 3), types.Field{})
	v, _ := r.Value()
	require.True(t, v.Equal(field.FromUint64(15)))
	require.True(t, cs.Satisfied())
}

func TestNeg(t *testing.T) {
	cs := constraint.NewDebugCS()
	r := gadget.Neg(cs, wv(cs, 5), types.Field{})
	v, _ := r.Value()
	require.True(t, v.Equal(field.FromUint64(5).Neg()))
	require.True(t, cs.Satisfied())
}

func TestInverse(t *testing.T) {
	cs := constraint.NewDebugCS()
	r, err := gadget.Inverse(cs, wv(cs, 7), types.Field{})
	require.NoError(t, err)
	v, _ := r.Value()
	inv, _ := field.FromUint64(7).Inverse()
	require.True(t, v.Equal(inv))
	require.True(t, cs.Satisfied())
}

func TestInverseOfZeroFails(t *testing.T) {
	cs := constraint.NewDebugCS()
	_, err := gadget.Inverse(cs, cv(0), types.Field{})
	require.ErrorIs(t, err, gadget.ErrDivisionByZero)

	_, err = gadget.Inverse(cs, wv(cs, 0), types.Field{})
	require.ErrorIs(t, err, gadget.ErrDivisionByZero)
}

func TestConditionalSelect(t *testing.T) {
	cs := constraint.NewDebugCS()
	trueScalar := scalar.Const(field.One(), types.Boolean{})
	falseScalar := scalar.Const(field.Zero(), types.Boolean{})

	a, b := wv(cs, 10), wv(cs, 20)

	got := gadget.ConditionalSelect(cs, trueScalar, a, b, types.Field{})
	require.False(t, got.IsConstant())
	v, _ := got.Value()
	require.True(t, v.Equal(field.FromUint64(10)))

	got = gadget.ConditionalSelect(cs, falseScalar, a, b, types.Field{})
	v, _ = got.Value()
	require.True(t, v.Equal(field.FromUint64(20)))

	require.True(t, cs.Satisfied())
}

func TestConditionalSelectWitnessCondition(t *testing.T) {
	cs := constraint.NewDebugCS()
	cond := wv(cs, 1)
	cond.Type = types.Boolean{}
	a, b := wv(cs, 10), wv(cs, 20)

	got := gadget.ConditionalSelect(cs, cond, a, b, types.Field{})
	v, _ := got.Value()
	require.True(t, v.Equal(field.FromUint64(10)))
	require.True(t, cs.Satisfied())
}

func TestBooleanOps(t *testing.T) {
	cs := constraint.NewDebugCS()
	T := scalar.Const(field.One(), types.Boolean{})
	F := scalar.Const(field.Zero(), types.Boolean{})

	require.True(t, gadget.BooleanAnd(cs, T, T).GetConstant().Equal(field.One()))
	require.True(t, gadget.BooleanAnd(cs, T, F).GetConstant().IsZero())
	require.True(t, gadget.BooleanOr(cs, F, F).GetConstant().IsZero())
	require.True(t, gadget.BooleanOr(cs, T, F).GetConstant().Equal(field.One()))
	require.True(t, gadget.BooleanXor(cs, T, T).GetConstant().IsZero())
	require.True(t, gadget.BooleanXor(cs, T, F).GetConstant().Equal(field.One()))
	require.True(t, gadget.BooleanNot(cs, T).GetConstant().IsZero())
	require.True(t, gadget.BooleanNot(cs, F).GetConstant().Equal(field.One()))
	require.True(t, cs.Satisfied())
}

func TestEqAndNe(t *testing.T) {
	cs := constraint.NewDebugCS()

	eq := gadget.Eq(cs, wv(cs, 4), wv(cs, 4))
	v, _ := eq.Value()
	require.True(t, v.Equal(field.One()))

	neq := gadget.Eq(cs, wv(cs, 4), wv(cs, 5))
	v, _ = neq.Value()
	require.True(t, v.IsZero())

	ne := gadget.Ne(cs, wv(cs, 4), wv(cs, 5))
	v, _ = ne.Value()
	require.True(t, v.Equal(field.One()))

	require.True(t, cs.Satisfied())
}

func TestEqConstantFolds(t *testing.T) {
	cs := constraint.NewDebugCS()
	require.True(t, gadget.Eq(cs, cv(3), cv(3)).GetConstant().Equal(field.One()))
	require.True(t, gadget.Eq(cs, cv(3), cv(4)).GetConstant().IsZero())
}

func TestAssert(t *testing.T) {
	cs := constraint.NewDebugCS()
	require.NoError(t, gadget.Assert(cs, wv(cs, 1), ""))
	require.True(t, cs.Satisfied())
}

func TestAssertFailsOnZero(t *testing.T) {
	cs := constraint.NewDebugCS()
	err := gadget.Assert(cs, wv(cs, 0), "must be nonzero")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be nonzero")
}

func TestAssertConstantFailsImmediately(t *testing.T) {
	cs := constraint.NewDebugCS()
	err := gadget.Assert(cs, cv(0), "")
	require.ErrorIs(t, err, gadget.ErrAssertionFailed)
}
