package maincmd

import (
	"context"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"

	"github.com/mna/mainer"

	"github.com/zinclang/zinc/facade"
)

// Verify implements the `verify` command: compile the program at args[0],
// load the verifying key at args[1] and the proof at args[2], and check it
// against the declared-output JSON at args[3] (or stdin), printing "ok" or
// "invalid" (spec §6.2's verify entry point).
func (c *Cmd) Verify(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) < 3 {
		return printCompileError(stdio, fmt.Errorf("verify: usage: verify <program> <vk> <proof> <public.json|->"))
	}
	prog, err := compileSource(args[0])
	if err != nil {
		return printCompileError(stdio, err)
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFrom(args[1], vk); err != nil {
		return printCompileError(stdio, err)
	}
	proof := groth16.NewProof(ecc.BN254)
	if err := readFrom(args[2], proof); err != nil {
		return printCompileError(stdio, err)
	}

	outJSON, err := readInputJSON(stdio, args, 3)
	if err != nil {
		return printCompileError(stdio, err)
	}

	log := newLogger(loadRuntimeConfig())
	log.WithField("program", args[0]).Info("verifying proof")
	ok, err := facade.Verify(prog, vk, proof, outJSON)
	if err != nil {
		return printCompileError(stdio, err)
	}
	if !ok {
		fmt.Fprintln(stdio.Stdout, "invalid")
		return fmt.Errorf("verify: proof does not verify")
	}
	fmt.Fprintln(stdio.Stdout, "ok")
	return nil
}
