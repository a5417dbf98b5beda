package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
)

func TestCountingCS(t *testing.T) {
	cs := constraint.NewCountingCS()

	a := cs.AllocateWitness("a", nil)
	b := cs.AllocateInput("b", nil)
	require.NotEqual(t, a, b)

	cs.PushNamespace("scope")
	cs.Enforce("mul", constraint.Var(a), constraint.Var(b), constraint.Var(a))
	cs.PopNamespace()

	require.Equal(t, 1, cs.NumWitness())
	require.Equal(t, 1, cs.NumInput())
	require.Equal(t, 1, cs.NumConstraints())
}

func TestCountingCSPopEmptyNamespace(t *testing.T) {
	cs := constraint.NewCountingCS()
	require.NotPanics(t, func() { cs.PopNamespace() })
}

var _ constraint.System = constraint.NewCountingCS()

func TestCountingCSAllocationsAreSequentialAndUnique(t *testing.T) {
	cs := constraint.NewCountingCS()
	seen := map[constraint.Handle]bool{}
	for i := 0; i < 5; i++ {
		h := cs.AllocateWitness("v", func() field.Element { return field.Zero() })
		require.False(t, seen[h])
		seen[h] = true
	}
	require.Equal(t, 5, cs.NumWitness())
}
