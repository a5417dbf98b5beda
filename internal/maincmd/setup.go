package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/zinclang/zinc/facade"
)

// Setup implements the `setup` command: compile the program at args[0] and
// write its groth16 proving key to args[1] and verifying key to args[2]
// (spec §6.2's setup entry point).
func (c *Cmd) Setup(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) < 3 {
		return printCompileError(stdio, fmt.Errorf("setup: usage: setup <program> <pk-out> <vk-out>"))
	}
	prog, err := compileSource(args[0])
	if err != nil {
		return printCompileError(stdio, err)
	}
	log := newLogger(loadRuntimeConfig())
	log.WithField("program", args[0]).Info("running groth16 setup")
	keys, err := facade.Setup(prog)
	if err != nil {
		return printCompileError(stdio, err)
	}
	if err := writeTo(args[1], keys.ProvingKey); err != nil {
		return printCompileError(stdio, err)
	}
	if err := writeTo(args[2], keys.VerifyingKey); err != nil {
		return printCompileError(stdio, err)
	}
	return nil
}

// writeTo persists v (a groth16 proving/verifying key or proof, all of
// which implement io.WriterTo over gnark's own binary encoding) to path.
func writeTo(path string, v io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()
	if _, err := v.WriteTo(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// readFrom loads v (see writeTo) from path.
func readFrom(path string, v io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()
	if _, err := v.ReadFrom(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
