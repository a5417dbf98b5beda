package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/parser"
	"github.com/zinclang/zinc/lang/semantic"
	"github.com/zinclang/zinc/lang/token"
	"github.com/zinclang/zinc/lang/types"
)

// compileSource reads path, scans+parses+analyzes it, and returns the
// resulting bytecode Program. Every command below recompiles from source
// on each invocation rather than reading a persisted Program: compilation
// is cheap and fully deterministic (spec §8 property 4), so there is no
// need for a second on-disk bytecode format alongside the source text.
func compileSource(path string) (*compiler.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fset := token.NewFileSet()
	file := fset.AddFile(path, src)

	chunk, err := parser.Parse(file, src)
	if err != nil {
		return nil, err
	}

	analyzer := semantic.NewAnalyzer(file, types.NewInterner())
	analyzer.SetMaxLoopUnroll(loadRuntimeConfig().MaxLoopUnroll)
	prog, err := analyzer.Analyze(chunk)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func printCompileError(stdio mainer.Stdio, err error) error {
	fmt.Fprintln(stdio.Stderr, err)
	return err
}

// Compile executes the scan/parse/analyze pipeline and prints a disassembly
// of the resulting bytecode, the way the teacher's `parse`/`resolve`
// commands print their own intermediate representation.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return printCompileError(stdio, fmt.Errorf("compile: at least one file must be provided"))
	}
	log := newLogger(loadRuntimeConfig())
	for _, path := range args {
		log.WithField("program", path).Debug("compiling")
		prog, err := compileSource(path)
		if err != nil {
			return printCompileError(stdio, err)
		}
		log.WithField("program", path).WithField("functions", len(prog.Functions)).Debug("compiled")
		fmt.Fprintf(stdio.Stdout, "; %s\n", path)
		disassemble(stdio, prog)
	}
	return nil
}

// disassemble prints every instruction in prog's code stream, annotated
// with its byte offset, following the same one-instruction-per-line shape
// the teacher's AST printer uses for one-node-per-line.
func disassemble(stdio mainer.Stdio, prog *compiler.Program) {
	for _, fn := range prog.Functions {
		fmt.Fprintf(stdio.Stdout, "fn %s @%d:\n", fn.Name, fn.Addr)
	}
	for pc := 0; pc < len(prog.Code); {
		instr := compiler.Decode(prog.Code, pc)
		fmt.Fprintf(stdio.Stdout, "%6d  %-16s %v\n", pc, instr.Op, instr.Operands)
		pc += instr.Size
	}
}
