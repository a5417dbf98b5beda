// Package errors implements the layered diagnostic taxonomy described by
// spec §7: Kind-tagged *Diagnostic values, collected in a List and
// reported in the order they were added. go/scanner's Error/ErrorList are
// re-exported as aliases for callers that use them.
package errors

import (
	"fmt"
	"go/scanner"
	"strings"

	"github.com/zinclang/zinc/lang/token"
)

type (
	// Error is a single positioned diagnostic.
	Error = scanner.Error
	// ErrorList accumulates Errors across an entire compilation phase.
	ErrorList = scanner.ErrorList
)

// Kind is the top-level taxonomy spec §7 groups diagnostics into.
type Kind uint8

const (
	Lexical Kind = iota
	Syntax
	Semantic
	Element
	Constant
	Integer
	Casting
	Scope
	Runtime
	File
	Verification
)

var kindNames = [...]string{
	Lexical:      "lexical error",
	Syntax:       "syntax error",
	Semantic:     "semantic error",
	Element:      "element error",
	Constant:     "constant error",
	Integer:      "integer error",
	Casting:      "casting error",
	Scope:        "scope error",
	Runtime:      "runtime error",
	File:         "file error",
	Verification: "verification error",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return "error"
	}
	return kindNames[k]
}

// Diagnostic is a single Kind-tagged, positioned error with a source line
// for caret rendering (spec §7: "<file>:<line>:<col>: <kind>: <detail>"
// followed by the annotated source line and a caret).
type Diagnostic struct {
	Kind Kind
	Pos  token.Position
	Msg  string
	Line string // the full source line the diagnostic points into, or ""
}

// Error satisfies the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Pos.Filename, d.Pos.Line, d.Pos.Col, d.Kind, d.Msg)
}

// Report renders the full multi-line diagnostic: the one-line message
// followed by the source line and a caret under the offending column.
func (d *Diagnostic) Report() string {
	var b strings.Builder
	b.WriteString(d.Error())
	if d.Line != "" {
		b.WriteByte('\n')
		b.WriteString(d.Line)
		b.WriteByte('\n')
		col := d.Pos.Col
		if col < 1 {
			col = 1
		}
		b.WriteString(strings.Repeat(" ", col-1))
		b.WriteByte('^')
	}
	return b.String()
}

// New constructs a Diagnostic against the given file (the file the current
// analysis phase is positioned on - phases track this the way the
// resolver's "r.file" field does, one file at a time, rather than
// resolving a global file-containing-this-position lookup).
func New(file *token.File, kind Kind, pos token.Pos, format string, args ...interface{}) *Diagnostic {
	d := &Diagnostic{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	if file != nil {
		d.Pos = file.Position(pos)
		d.Line = file.Line(d.Pos.Line)
	}
	return d
}

// List accumulates Diagnostics across a single analysis phase in insertion
// order (it does not sort them), mirroring the teacher's use of
// scanner.ErrorList across its scanner/parser/resolver phases.
type List struct {
	diags []*Diagnostic
}

// Add appends a Diagnostic to the list.
func (l *List) Add(d *Diagnostic) { l.diags = append(l.diags, d) }

// Addf constructs and appends a Diagnostic in one step.
func (l *List) Addf(file *token.File, kind Kind, pos token.Pos, format string, args ...interface{}) {
	l.Add(New(file, kind, pos, format, args...))
}

// Len reports how many diagnostics have been recorded.
func (l *List) Len() int { return len(l.diags) }

// Diagnostics returns the recorded diagnostics in insertion order.
func (l *List) Diagnostics() []*Diagnostic { return l.diags }

// Err returns nil if the list is empty, the sole error if it has exactly
// one diagnostic, or the list itself (as an error) otherwise - matching
// scanner.ErrorList.Err's convention so callers can propagate a phase's
// result as a single error value.
func (l *List) Err() error {
	switch len(l.diags) {
	case 0:
		return nil
	case 1:
		return l.diags[0]
	default:
		lines := make([]string, len(l.diags))
		for i, d := range l.diags {
			lines[i] = d.Report()
		}
		return fmt.Errorf("%d errors:\n%s", len(l.diags), strings.Join(lines, "\n"))
	}
}
