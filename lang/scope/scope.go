// Package scope implements the name-resolution scope tree used by
// lang/semantic. The source system links scopes with parent pointers and
// shared ownership, which in Go would form a reference cycle with no single
// owner; per spec §9's design note we instead allocate every scope in a
// slice owned by a Tree and reference parents by index, so "walk up to the
// enclosing scope" is a loop over integers rather than pointer chasing, and
// the whole tree's lifetime is bounded to the analyzer that owns the Tree.
package scope

import (
	"github.com/dolthub/swiss"

	"github.com/zinclang/zinc/lang/ast"
)

// Kind classifies what introduced a Binding, mirroring the resolver's
// Scope enum but specialized to Zinc's declaration forms (no closures: spec
// Non-goals exclude first-class functions, so there is no Cell/Free split).
type Kind uint8

const (
	Undefined Kind = iota
	Local          // let/const binding, function parameter, or loop variable
	Function       // fn declaration
	Struct         // struct declaration
	Enum           // enum declaration
	Module         // mod declaration
	Predeclared    // builtin (std::crypto::sha256, primitive type names)
)

var kindNames = [...]string{
	Undefined:   "undefined",
	Local:       "local",
	Function:    "function",
	Struct:      "struct",
	Enum:        "enum",
	Module:      "module",
	Predeclared: "predeclared",
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Binding ties a name to the declaration that introduced it, the scope it
// lives in, and (for Local bindings) the data-stack slot the generator
// assigns it.
type Binding struct {
	Name  string
	Kind  Kind
	Decl  ast.Stmt // nil for Predeclared bindings
	Scope int      // index of the owning Scope in the Tree

	// Slot is the data-stack cell index assigned by lang/semantic for Local
	// bindings; -1 until assigned.
	Slot int

	// Mutable records whether the binding accepts AssignStmt targets
	// (spec §4.6.4: `let mut` vs `let`/`const`).
	Mutable bool
}

// scopeNameCapacity is the initial size hint passed to swiss.NewMap for a
// fresh scope's name table: most blocks bind a handful of locals, so this
// avoids the table's first few grow-and-rehash cycles without oversizing
// the common case.
const scopeNameCapacity = 8

// Scope is one lexical scope: a function body, a block, a for-loop body, or
// the module root. Parent is an index into the owning Tree's scopes slice,
// or -1 for the root. Names uses the same swiss-table map the source
// system's own Map value type is built on, for the same reason: open
// addressing over a small, short-lived table beats Go's bucketed map for
// this access pattern (repeated Declare/Lookup churn per scope, discarded
// once the enclosing block's analysis finishes).
type Scope struct {
	Parent   int
	Names    *swiss.Map[string, *Binding]
	Children []int
}

// Tree owns every Scope allocated during one analysis pass. The zero value
// is not usable; construct with New.
type Tree struct {
	scopes []*Scope
}

// New creates a Tree containing a single root scope (index 0).
func New() *Tree {
	t := &Tree{}
	t.scopes = append(t.scopes, &Scope{Parent: -1, Names: swiss.NewMap[string, *Binding](scopeNameCapacity)})
	return t
}

// Root returns the index of the tree's root scope.
func (t *Tree) Root() int { return 0 }

// Push allocates a new child scope of parent and returns its index.
func (t *Tree) Push(parent int) int {
	idx := len(t.scopes)
	t.scopes = append(t.scopes, &Scope{Parent: parent, Names: swiss.NewMap[string, *Binding](scopeNameCapacity)})
	t.scopes[parent].Children = append(t.scopes[parent].Children, idx)
	return idx
}

// Declare records a new binding in the scope at index idx, returning false
// if the name already has a binding in that exact scope (shadowing across
// scopes is allowed; redeclaration within one scope is not, per spec §4.6.1
// duplicate-definition rules).
func (t *Tree) Declare(idx int, b *Binding) bool {
	s := t.scopes[idx]
	if _, exists := s.Names.Get(b.Name); exists {
		return false
	}
	b.Scope = idx
	s.Names.Put(b.Name, b)
	return true
}

// Lookup walks from idx up through enclosing scopes (a loop over parent
// indices, never pointers) looking for name, returning the nearest binding
// and whether one was found.
func (t *Tree) Lookup(idx int, name string) (*Binding, bool) {
	for idx >= 0 {
		s := t.scopes[idx]
		if b, ok := s.Names.Get(name); ok {
			return b, true
		}
		idx = s.Parent
	}
	return nil, false
}

// LookupLocal looks up name only within the scope at idx, without walking
// to enclosing scopes. Used to check for redeclaration.
func (t *Tree) LookupLocal(idx int, name string) (*Binding, bool) {
	return t.scopes[idx].Names.Get(name)
}
