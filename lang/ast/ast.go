// Package ast defines the shape of the syntax tree the (external) parser
// hands to the semantic analyzer (spec §1 Out of scope: "lexer/parser
// surface ... assumed available"). It is the narrow interface between that
// component and lang/semantic.
package ast

import "github.com/zinclang/zinc/lang/token"

// Node is implemented by every node of the tree.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmt()
}

// TypeExpr is implemented by every type-annotation node (the syntax a
// `let x: T = ...` or `fn f() -> T` writes for T, before the analyzer
// resolves it to a types.Type).
type TypeExpr interface {
	Node
	typeExpr()
}

// Chunk is the root of one compiled source file.
type Chunk struct {
	Name  string
	Block *Block
	EOF   token.Pos
}

func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}

// Block is a brace-delimited sequence of statements, optionally ending in a
// tail expression (the statement-as-last-expression rule common to
// expression-oriented languages: `fn main() { a * b + 1 }`).
type Block struct {
	Start, End token.Pos
	Stmts      []Stmt
	// Tail, if non-nil, is the block's trailing expression with no
	// terminating semicolon - its value is the block's value.
	Tail Expr
}

func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
