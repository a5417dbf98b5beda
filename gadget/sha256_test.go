package gadget_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/gadget"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// messageBits converts msg's bytes into big-endian boolean witness scalars,
// the shape gadget.Sha256 expects as its input.
func messageBits(cs constraint.System, msg []byte) []scalar.Scalar {
	var out []scalar.Scalar
	for _, b := range msg {
		for i := 7; i >= 0; i-- {
			bit := (b >> uint(i)) & 1
			v := field.FromBool(bit != 0)
			h := cs.AllocateWitness("bit", func() field.Element { return v })
			out = append(out, scalar.Variable(h, v, true, types.Boolean{}))
		}
	}
	return out
}

func bitsToHex(t *testing.T, bits []scalar.Scalar) string {
	t.Helper()
	require.Len(t, bits, 256)
	out := make([]byte, 32)
	for i := 0; i < 32; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			v, ok := bits[i*8+j].Value()
			require.True(t, ok)
			b <<= 1
			if !v.IsZero() {
				b |= 1
			}
		}
		out[i] = b
	}
	return hex.EncodeToString(out)
}

func TestSha256EmptyMessage(t *testing.T) {
	cs := constraint.NewDebugCS()
	digest, err := gadget.Sha256(cs, messageBits(cs, nil))
	require.NoError(t, err)
	require.True(t, cs.Satisfied())
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"[:64], bitsToHex(t, digest))
}

func TestSha256Abc(t *testing.T) {
	cs := constraint.NewDebugCS()
	digest, err := gadget.Sha256(cs, messageBits(cs, []byte("abc")))
	require.NoError(t, err)
	require.True(t, cs.Satisfied())
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", bitsToHex(t, digest))
}

func TestSha256RejectsNonByteAlignedInput(t *testing.T) {
	cs := constraint.NewDebugCS()
	bits := messageBits(cs, []byte("a"))[:7]
	_, err := gadget.Sha256(cs, bits)
	require.ErrorIs(t, err, gadget.ErrWitnessArrayIndex)
}
