package ast

import "github.com/zinclang/zinc/lang/token"

// NamedTypeExpr is a bare type name: a primitive (bool, u8, i32, field,
// str) or a reference to a declared struct/enum/type-alias.
type NamedTypeExpr struct {
	Start token.Pos
	Name  string
}

func (n *NamedTypeExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Name))
}
func (*NamedTypeExpr) typeExpr() {}

// ArrayTypeExpr is `[T; n]`, where n must fold to a compile-time constant.
type ArrayTypeExpr struct {
	Start, End token.Pos
	Elem       TypeExpr
	Len        Expr
}

func (n *ArrayTypeExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*ArrayTypeExpr) typeExpr()                      {}

// TupleTypeExpr is `(T1, T2, ...)`.
type TupleTypeExpr struct {
	Start, End token.Pos
	Elems      []TypeExpr
}

func (n *TupleTypeExpr) Span() (start, end token.Pos) { return n.Start, n.End }
func (*TupleTypeExpr) typeExpr()                      {}
