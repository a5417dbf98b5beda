package facade

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/zinclang/zinc/constraint"
)

// replayCircuit is a gnark frontend.Circuit that re-synthesizes, under
// gnark's own builder, every constraint a *constraint.ProvingCS recorded
// while running a program through package vm. Witness holds every
// constraint.RoleWitness variable; Public holds every constraint.RoleInput
// one (spec §6's only public inputs are a program's declared outputs, via
// vm's finalize). Both slices are sized at construction time, since gnark
// circuit structs must declare their variables before Define runs.
type replayCircuit struct {
	Witness []frontend.Variable
	Public  []frontend.Variable `gnark:",public"`

	cs    *constraint.ProvingCS
	index map[constraint.Handle]int
}

// newReplayCircuit sizes Witness/Public from cs's allocation order and
// records, per handle, the slot it was given in whichever of the two
// slices its role belongs to.
func newReplayCircuit(cs *constraint.ProvingCS) *replayCircuit {
	c := &replayCircuit{cs: cs, index: make(map[constraint.Handle]int, cs.NumVars())}
	for i := 0; i < cs.NumVars(); i++ {
		h := cs.HandleAt(i)
		switch cs.Role(h) {
		case constraint.RoleWitness:
			c.index[h] = len(c.Witness)
			c.Witness = append(c.Witness, nil)
		case constraint.RoleInput:
			c.index[h] = len(c.Public)
			c.Public = append(c.Public, nil)
		}
	}
	return c
}

// newAssignment builds the same sized circuit as newReplayCircuit, filled
// with cs's recorded witness values, for use as the assignment passed to
// frontend.NewWitness.
func newAssignment(cs *constraint.ProvingCS) *replayCircuit {
	c := newReplayCircuit(cs)
	for i := 0; i < cs.NumVars(); i++ {
		h := cs.HandleAt(i)
		v, _ := cs.Value(h)
		slot := c.index[h]
		switch cs.Role(h) {
		case constraint.RoleWitness:
			c.Witness[slot] = v.BigInt()
		case constraint.RoleInput:
			c.Public[slot] = v.BigInt()
		}
	}
	return c
}

// variableFor resolves one constraint.Handle to the frontend.Variable the
// replay circuit allocated for it.
func (c *replayCircuit) variableFor(h constraint.Handle) frontend.Variable {
	slot := c.index[h]
	if c.cs.Role(h) == constraint.RoleWitness {
		return c.Witness[slot]
	}
	return c.Public[slot]
}

// toGnarkVariable folds a constraint.LinearCombination into a single gnark
// frontend.Variable via repeated api.Add, matching how vm's own gadgets
// build up an A/B/C operand: sum of coeff*term (or bare coeff for the
// constant-1 term).
func (c *replayCircuit) toGnarkVariable(api frontend.API, lc constraint.LinearCombination) frontend.Variable {
	var acc frontend.Variable = 0
	first := true
	for _, t := range lc.Terms {
		var term frontend.Variable
		if t.Constant {
			term = api.Mul(t.Coeff.BigInt(), 1)
		} else {
			term = api.Mul(t.Coeff.BigInt(), c.variableFor(t.Handle))
		}
		if first {
			acc = term
			first = false
		} else {
			acc = api.Add(acc, term)
		}
	}
	return acc
}

// Define replays every recorded A*B=C triple under gnark's own builder.
func (c *replayCircuit) Define(api frontend.API) error {
	if c.cs == nil {
		return fmt.Errorf("facade: replay circuit built without a source constraint system")
	}
	for _, cons := range c.cs.Constraints() {
		a := c.toGnarkVariable(api, cons.A)
		b := c.toGnarkVariable(api, cons.B)
		lhs := api.Mul(a, b)
		rhs := c.toGnarkVariable(api, cons.C)
		api.AssertIsEqual(lhs, rhs)
	}
	return nil
}
