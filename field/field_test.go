package field_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/field"
)

func TestZeroOne(t *testing.T) {
	require.True(t, field.Zero().IsZero())
	require.False(t, field.One().IsZero())
	require.True(t, field.One().Equal(field.FromUint64(1)))
}

func TestArithmetic(t *testing.T) {
	two := field.FromUint64(2)
	three := field.FromUint64(3)

	require.True(t, two.Add(three).Equal(field.FromUint64(5)))
	require.True(t, three.Sub(two).Equal(field.One()))
	require.True(t, two.Mul(three).Equal(field.FromUint64(6)))
	require.True(t, two.Neg().Add(two).IsZero())
}

func TestInverse(t *testing.T) {
	five := field.FromUint64(5)
	inv, ok := five.Inverse()
	require.True(t, ok)
	require.True(t, five.Mul(inv).Equal(field.One()))

	_, ok = field.Zero().Inverse()
	require.False(t, ok)
}

func TestBigIntRoundtrip(t *testing.T) {
	n := big.NewInt(12345)
	fe := field.BigIntToField(n)
	require.Equal(t, n, fe.BigInt())
}

func TestBigIntToFieldNegative(t *testing.T) {
	n := big.NewInt(-1)
	fe := field.BigIntToField(n)
	want := new(big.Int).Sub(field.Modulus, big.NewInt(1))
	require.Equal(t, want, fe.BigInt())
}

func TestFieldToSignedBigInt(t *testing.T) {
	require.Equal(t, big.NewInt(5), field.FieldToSignedBigInt(field.FromUint64(5)))

	neg := field.BigIntToField(big.NewInt(-5))
	require.Equal(t, big.NewInt(-5), field.FieldToSignedBigInt(neg))
}

func TestUint64(t *testing.T) {
	require.Equal(t, uint64(42), field.FromUint64(42).Uint64())
}

func TestFromBool(t *testing.T) {
	require.True(t, field.FromBool(true).Equal(field.One()))
	require.True(t, field.FromBool(false).Equal(field.Zero()))
}

func TestBit(t *testing.T) {
	e := field.FromUint64(0b1010)
	require.EqualValues(t, 0, e.Bit(0))
	require.EqualValues(t, 1, e.Bit(1))
	require.EqualValues(t, 0, e.Bit(2))
	require.EqualValues(t, 1, e.Bit(3))
}
