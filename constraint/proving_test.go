package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
)

func TestProvingCSRolesAndValues(t *testing.T) {
	cs := constraint.NewProvingCS()
	w := cs.AllocateWitness("w", func() field.Element { return field.FromUint64(3) })
	in := cs.AllocateInput("out", func() field.Element { return field.FromUint64(9) })

	require.Equal(t, constraint.RoleWitness, cs.Role(w))
	require.Equal(t, constraint.RoleInput, cs.Role(in))

	v, ok := cs.Value(in)
	require.True(t, ok)
	require.True(t, v.Equal(field.FromUint64(9)))

	require.Equal(t, 2, cs.NumVars())
}

func TestProvingCSHandleAt(t *testing.T) {
	cs := constraint.NewProvingCS()
	h0 := cs.AllocateWitness("a", func() field.Element { return field.Zero() })
	h1 := cs.AllocateInput("b", func() field.Element { return field.One() })

	require.Equal(t, h0, cs.HandleAt(0))
	require.Equal(t, h1, cs.HandleAt(1))
}

func TestProvingCSConstraintsRecorded(t *testing.T) {
	cs := constraint.NewProvingCS()
	x := cs.AllocateWitness("x", func() field.Element { return field.FromUint64(2) })

	cs.PushNamespace("square")
	cs.Enforce("mul", constraint.Var(x), constraint.Var(x), constraint.Const(field.FromUint64(4)))
	cs.PopNamespace()

	cons := cs.Constraints()
	require.Len(t, cons, 1)
	require.Equal(t, "square/mul", cons[0].Name)
}
