package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEqual(t, "", tok.String())
	}
	require.Equal(t, "<unknown token>", Token(maxToken+1).String())
}

func TestIsComparison(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		want := tok >= LT && tok <= NEQ
		require.Equal(t, want, tok.IsComparison(), tok.String())
	}
}

func TestIsArithmetic(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		want := tok >= PLUS && tok <= PERCENT
		require.Equal(t, want, tok.IsArithmetic(), tok.String())
	}
}

func TestIsBitwiseBinary(t *testing.T) {
	bitwise := map[Token]bool{AMPERSAND: true, PIPE: true, CIRCUMFLEX: true, LTLT: true, GTGT: true}
	for tok := Token(0); tok < maxToken; tok++ {
		require.Equal(t, bitwise[tok], tok.IsBitwiseBinary(), tok.String())
	}
}
