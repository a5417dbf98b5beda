package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/zinclang/zinc/facade"
)

// readInputJSON returns the contents of args[idx] if present, or stdin
// otherwise (also if args[idx] is "-"), the convention the teacher's own
// file-or-stdin commands use.
func readInputJSON(stdio mainer.Stdio, args []string, idx int) ([]byte, error) {
	if idx >= len(args) || args[idx] == "-" {
		return io.ReadAll(stdio.Stdin)
	}
	return os.ReadFile(args[idx])
}

// Run implements the `run` command: compile the program at args[0] and
// execute it against the JSON input at args[1] (or stdin), printing its
// flattened JSON output (spec §6.2's run entry point).
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return printCompileError(stdio, fmt.Errorf("run: a program file must be provided"))
	}
	log := newLogger(loadRuntimeConfig())
	log.WithField("program", args[0]).Debug("compiling")
	prog, err := compileSource(args[0])
	if err != nil {
		return printCompileError(stdio, err)
	}
	input, err := readInputJSON(stdio, args, 1)
	if err != nil {
		return printCompileError(stdio, err)
	}
	log.WithField("program", args[0]).Info("running")
	out, err := facade.Run(prog, input)
	if err != nil {
		return printCompileError(stdio, err)
	}
	fmt.Fprintln(stdio.Stdout, string(out))
	return nil
}
