package maincmd

import (
	"context"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"

	"github.com/mna/mainer"

	"github.com/zinclang/zinc/facade"
)

// Prove implements the `prove` command: compile the program at args[0],
// load the proving key at args[1], run the program against the witness
// JSON at args[2] (or stdin), and write the resulting proof to args[3],
// printing the program's declared outputs (the public input the verifier
// will need) to stdout (spec §6.2's prove entry point).
func (c *Cmd) Prove(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) < 4 {
		return printCompileError(stdio, fmt.Errorf("prove: usage: prove <program> <pk> <witness.json|-> <proof-out>"))
	}
	prog, err := compileSource(args[0])
	if err != nil {
		return printCompileError(stdio, err)
	}

	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFrom(args[1], pk); err != nil {
		return printCompileError(stdio, err)
	}

	witness, err := readInputJSON(stdio, args, 2)
	if err != nil {
		return printCompileError(stdio, err)
	}

	log := newLogger(loadRuntimeConfig())
	log.WithField("program", args[0]).Info("proving")
	proof, outJSON, err := facade.Prove(prog, pk, witness)
	if err != nil {
		return printCompileError(stdio, err)
	}
	if err := writeTo(args[3], proof); err != nil {
		return printCompileError(stdio, err)
	}
	fmt.Fprintln(stdio.Stdout, string(outJSON))
	return nil
}
