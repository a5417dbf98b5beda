package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/sirupsen/logrus"

	"github.com/zinclang/zinc/facade"
)

// Debug implements the `debug` command: as Run, but streams dbg! output as
// it happens and, on completion, reports every violated constraint and
// every variable the program computed but never constrained (spec §6.2's
// debug entry point).
func (c *Cmd) Debug(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return printCompileError(stdio, fmt.Errorf("debug: a program file must be provided"))
	}
	prog, err := compileSource(args[0])
	if err != nil {
		return printCompileError(stdio, err)
	}
	input, err := readInputJSON(stdio, args, 1)
	if err != nil {
		return printCompileError(stdio, err)
	}

	log := newLogger(loadRuntimeConfig())
	log.WithField("program", args[0]).Info("running in debug mode")

	dbgOut := func(line string) { fmt.Fprintln(stdio.Stdout, line) }
	out, report, err := facade.Debug(prog, input, dbgOut)

	log.WithFields(logrus.Fields{
		"violations":    len(report.Violations),
		"unconstrained": len(report.Unconstrained),
	}).Debug("debug run finished")
	for _, v := range report.Violations {
		fmt.Fprintf(stdio.Stderr, "constraint violated: %s\n", v)
	}
	if len(report.Unconstrained) > 0 {
		fmt.Fprintf(stdio.Stderr, "%d unconstrained variable(s)\n", len(report.Unconstrained))
	}
	if err != nil {
		return printCompileError(stdio, err)
	}
	if len(report.Violations) > 0 {
		return fmt.Errorf("debug: %d constraint violation(s)", len(report.Violations))
	}
	fmt.Fprintln(stdio.Stdout, string(out))
	return nil
}
