package facade

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/types"
)

func TestDecodeJSONScalar(t *testing.T) {
	tag := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Uint{Bits: 8}}
	out, err := DecodeJSON(tag, []byte(`"42"`))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, out[0].Value.Equal(field.FromUint64(42)))
}

func TestDecodeJSONBoolean(t *testing.T) {
	tag := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Boolean{}}
	out, err := DecodeJSON(tag, []byte(`true`))
	require.NoError(t, err)
	require.True(t, out[0].Value.Equal(field.FromBool(true)))
}

func TestDecodeJSONSignedNegative(t *testing.T) {
	tag := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Int{Bits: 8}}
	out, err := DecodeJSON(tag, []byte(`"-3"`))
	require.NoError(t, err)
	require.True(t, out[0].Value.Equal(field.BigIntToField(big.NewInt(-3))))
}

func TestDecodeJSONArray(t *testing.T) {
	elem := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Uint{Bits: 8}}
	tag := compiler.TypeTag{Kind: compiler.TagArray, Elem: &elem, Len: 3}
	out, err := DecodeJSON(tag, []byte(`["1","2","3"]`))
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.True(t, out[2].Value.Equal(field.FromUint64(3)))
}

func TestDecodeJSONArrayLengthMismatch(t *testing.T) {
	elem := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Uint{Bits: 8}}
	tag := compiler.TypeTag{Kind: compiler.TagArray, Elem: &elem, Len: 3}
	_, err := DecodeJSON(tag, []byte(`["1","2"]`))
	require.Error(t, err)
}

func TestDecodeJSONStruct(t *testing.T) {
	tag := compiler.TypeTag{
		Kind:   compiler.TagStruct,
		Fields: []compiler.TypeTag{{Kind: compiler.TagScalar, Scalar: types.Uint{Bits: 8}}, {Kind: compiler.TagScalar, Scalar: types.Boolean{}}},
		Names:  []string{"x", "flag"},
	}
	out, err := DecodeJSON(tag, []byte(`{"x":"7","flag":true}`))
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.True(t, out[0].Value.Equal(field.FromUint64(7)))
	require.True(t, out[1].Value.Equal(field.FromBool(true)))
}

func TestDecodeJSONStructMissingField(t *testing.T) {
	tag := compiler.TypeTag{
		Kind:   compiler.TagStruct,
		Fields: []compiler.TypeTag{{Kind: compiler.TagScalar, Scalar: types.Uint{Bits: 8}}},
		Names:  []string{"x"},
	}
	_, err := DecodeJSON(tag, []byte(`{}`))
	require.Error(t, err)
}

func TestDecodeJSONTuple(t *testing.T) {
	tag := compiler.TypeTag{
		Kind:   compiler.TagTuple,
		Fields: []compiler.TypeTag{{Kind: compiler.TagScalar, Scalar: types.Boolean{}}, {Kind: compiler.TagScalar, Scalar: types.Uint{Bits: 8}}},
	}
	out, err := DecodeJSON(tag, []byte(`[false,"9"]`))
	require.NoError(t, err)
	require.True(t, out[0].Value.Equal(field.FromBool(false)))
	require.True(t, out[1].Value.Equal(field.FromUint64(9)))
}

func TestDecodeJSONUnit(t *testing.T) {
	tag := compiler.TypeTag{Kind: compiler.TagUnit}
	out, err := DecodeJSON(tag, []byte(`null`))
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestEncodeJSONRoundtripArray(t *testing.T) {
	elem := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Uint{Bits: 8}}
	tag := compiler.TypeTag{Kind: compiler.TagArray, Elem: &elem, Len: 2}
	raw, err := EncodeJSON(tag, []field.Element{field.FromUint64(5), field.FromUint64(6)})
	require.NoError(t, err)
	require.JSONEq(t, `["5","6"]`, string(raw))
}

func TestEncodeJSONBoolean(t *testing.T) {
	tag := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Boolean{}}
	raw, err := EncodeJSON(tag, []field.Element{field.FromBool(true)})
	require.NoError(t, err)
	require.JSONEq(t, `true`, string(raw))
}

func TestEncodeJSONUnconsumedValues(t *testing.T) {
	tag := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Uint{Bits: 8}}
	_, err := EncodeJSON(tag, []field.Element{field.FromUint64(1), field.FromUint64(2)})
	require.Error(t, err)
}

func TestEncodeJSONSigned(t *testing.T) {
	tag := compiler.TypeTag{Kind: compiler.TagScalar, Scalar: types.Int{Bits: 8}}
	neg := field.BigIntToField(big.NewInt(-5))
	raw, err := EncodeJSON(tag, []field.Element{neg})
	require.NoError(t, err)
	require.JSONEq(t, `"-5"`, string(raw))
}
