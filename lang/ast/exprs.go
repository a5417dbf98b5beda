package ast

import "github.com/zinclang/zinc/lang/token"

// IdentExpr is a bare identifier, either a value reference or (in
// PathExpression position, spec §4.6.2) a path segment.
type IdentExpr struct {
	Start token.Pos
	Lit   string

	// Binding is filled in by lang/semantic during name resolution; it is
	// nil until then.
	Binding interface{}
}

func (n *IdentExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Lit))
}
func (*IdentExpr) expr() {}

// LiteralKind distinguishes the concrete Go type carried by LiteralExpr.Value.
type LiteralKind uint8

const (
	LitInteger LiteralKind = iota
	LitBoolean
	LitString
)

// LiteralExpr is an integer, boolean or string literal.
type LiteralExpr struct {
	Start token.Pos
	End   token.Pos
	Kind  LiteralKind
	Value interface{} // int64, bool, or string depending on Kind
}

func (n *LiteralExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*LiteralExpr) expr()                          {}

// BinOpExpr is a binary operator expression.
type BinOpExpr struct {
	Left  Expr
	Op    token.Token
	OpPos token.Pos
	Right Expr
}

func (n *BinOpExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (*BinOpExpr) expr() {}

// UnaryOpExpr is a unary operator expression (-x, !x, ~x).
type UnaryOpExpr struct {
	OpPos token.Pos
	Op    token.Token
	Right Expr
}

func (n *UnaryOpExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.OpPos, end
}
func (*UnaryOpExpr) expr() {}

// CallExpr is a function or method call. Fn is typically an IdentExpr or a
// PathExpr (Type::method); the source language has no first-class function
// values (spec Non-goals: no dynamic dispatch).
type CallExpr struct {
	Fn     Expr
	Args   []Expr
	RParen token.Pos
}

func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Fn.Span()
	return start, n.RParen + 1
}
func (*CallExpr) expr() {}

// PathExpr is a `Segment::Segment::...` path, used to reference items
// inside a module or an impl block (Type::method, mod::CONST).
type PathExpr struct {
	Segments []*IdentExpr
}

func (n *PathExpr) Span() (start, end token.Pos) {
	start, _ = n.Segments[0].Span()
	_, end = n.Segments[len(n.Segments)-1].Span()
	return start, end
}
func (*PathExpr) expr() {}

// FieldExpr is a `.name` field access (struct field or tuple index `.0`).
type FieldExpr struct {
	Left  Expr
	Name  string
	DotAt token.Pos
	End   token.Pos
}

func (n *FieldExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	return start, n.End
}
func (*FieldExpr) expr() {}

// IndexExpr is an `a[i]` array/slice index expression.
type IndexExpr struct {
	Left    Expr
	Index   Expr
	RBrack  token.Pos
}

func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	return start, n.RBrack + 1
}
func (*IndexExpr) expr() {}

// SliceExpr is an `a[lo..hi]` slice expression; the bounds must fold to
// compile-time constants (spec §4.5.3 on LoadSequenceByIndex/Slice).
type SliceExpr struct {
	Left      Expr
	Lo, Hi    Expr
	Inclusive bool
	RBrack    token.Pos
}

func (n *SliceExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	return start, n.RBrack + 1
}
func (*SliceExpr) expr() {}

// ArrayExpr is an array literal `[a, b, c]` or repeat form `[v; n]`.
type ArrayExpr struct {
	Start, End token.Pos
	Items      []Expr
	// Repeat, if non-nil, makes this a `[Items[0]; Repeat]` repeat literal.
	Repeat Expr
}

func (n *ArrayExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*ArrayExpr) expr()                          {}

// TupleExpr is a tuple literal `(a, b, c)`.
type TupleExpr struct {
	Start, End token.Pos
	Items      []Expr
}

func (n *TupleExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*TupleExpr) expr()                          {}

// StructFieldInit is one `name: value` initializer in a StructExpr.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructExpr is a struct literal `Name { field: value, ... }`.
type StructExpr struct {
	Start, End token.Pos
	Name       *IdentExpr
	Fields     []StructFieldInit
}

func (n *StructExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*StructExpr) expr()                          {}

// RangeExpr is a `lo..hi` or `lo..=hi` range expression.
type RangeExpr struct {
	Lo, Hi    Expr
	Inclusive bool
}

func (n *RangeExpr) Span() (start, end token.Pos) {
	start, _ = n.Lo.Span()
	_, end = n.Hi.Span()
	return start, end
}
func (*RangeExpr) expr() {}

// CastExpr is a `value as T` cast expression.
type CastExpr struct {
	Value Expr
	Type  TypeExpr
}

func (n *CastExpr) Span() (start, end token.Pos) {
	start, _ = n.Value.Span()
	_, end = n.Type.Span()
	return start, end
}
func (*CastExpr) expr() {}

// ParenExpr is a parenthesized expression, kept distinct from its inner
// expression only to preserve accurate spans for diagnostics.
type ParenExpr struct {
	Start, End token.Pos
	Inner      Expr
}

func (n *ParenExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*ParenExpr) expr()                          {}

// BlockExpr wraps a Block used in expression position (e.g. an `if`
// expression's arms, or a bare `{ ... }` block expression).
type BlockExpr struct {
	Block *Block
}

func (n *BlockExpr) Span() (start, end token.Pos) { return n.Block.Span() }
func (*BlockExpr) expr()                          {}

// IfExpr is an `if cond { ... } else { ... }` conditional. Unlike a
// statement form, an IfExpr's arms are values: both arms must agree on
// type.
type IfExpr struct {
	Start     token.Pos
	Cond      Expr
	Then      *Block
	Else      *Block // nil if there is no else clause
	ElseIf    *IfExpr
	End       token.Pos
}

func (n *IfExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*IfExpr) expr()                          {}

// MatchArm is one `pattern => expr` arm of a MatchExpr.
type MatchArm struct {
	// Pattern is nil for a wildcard arm ('_').
	Pattern Expr
	Body    Expr
}

// MatchExpr lowers (per spec §4.6.9) to a chain of equality tests and
// conditional branches.
type MatchExpr struct {
	Start, End token.Pos
	Scrutinee  Expr
	Arms       []MatchArm
}

func (n *MatchExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*MatchExpr) expr()                          {}
