package ast

import "github.com/zinclang/zinc/lang/token"

// LetStmt is `let [mut] name[: T] = expr;` or `const name[: T] = expr;`
// (spec §4.6.4). IsConst distinguishes the two; a const RHS must fold to a
// Constant element at analysis time.
type LetStmt struct {
	Start    token.Pos
	Name     *IdentExpr
	Mutable  bool
	IsConst  bool
	Type     TypeExpr // nil if no annotation
	Value    Expr
	End      token.Pos
}

func (n *LetStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*LetStmt) stmt()                          {}

// AssignStmt is `lhs = rhs;` where lhs must resolve to a mutable Variable.
type AssignStmt struct {
	Left  Expr
	Right Expr
	End   token.Pos
}

func (n *AssignStmt) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	return start, n.End
}
func (*AssignStmt) stmt() {}

// ExprStmt is an expression used as a statement (its value, if any, is
// discarded unless it is the block's Tail expression).
type ExprStmt struct {
	Expr Expr
	End  token.Pos
}

func (n *ExprStmt) Span() (start, end token.Pos) {
	start, _ = n.Expr.Span()
	return start, n.End
}
func (*ExprStmt) stmt() {}

// Param is one formal parameter of a function signature.
type Param struct {
	Name *IdentExpr
	Type TypeExpr
}

// FuncSignature is the `(params) -> ReturnType` part of a function
// declaration.
type FuncSignature struct {
	Params []Param
	Return TypeExpr // nil means Unit
}

// FnStmt is `fn name(params) -> T { body }` (spec §4.6.6).
type FnStmt struct {
	Start token.Pos
	Name  *IdentExpr
	Sig   *FuncSignature
	Body  *Block
	End   token.Pos

	// FuncID is assigned by lang/semantic; used by the generator to patch
	// forward-referenced Call addresses after the whole module is analyzed
	// (spec §4.6.10).
	FuncID int
}

func (n *FnStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*FnStmt) stmt()                          {}

// StructFieldDecl is one field of a struct declaration.
type StructFieldDecl struct {
	Name *IdentExpr
	Type TypeExpr
}

// StructStmt is `struct Name { field: T, ... }` (spec §4.6.8).
type StructStmt struct {
	Start, End token.Pos
	Name       *IdentExpr
	Fields     []StructFieldDecl
}

func (n *StructStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*StructStmt) stmt()                          {}

// EnumVariantDecl is one variant of an enum declaration, with an optional
// explicit discriminant (`Name = 3`); variants without one are numbered
// sequentially from the previous variant's value (or 0).
type EnumVariantDecl struct {
	Name  *IdentExpr
	Value Expr // nil if implicit
}

// EnumStmt is `enum Name { Variant[ = N], ... }` (spec §4.6.8).
type EnumStmt struct {
	Start, End token.Pos
	Name       *IdentExpr
	Variants   []EnumVariantDecl
}

func (n *EnumStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*EnumStmt) stmt()                          {}

// ImplStmt is `impl Name { const/fn items... }` (spec §4.6.7): items
// declared inside are callable as `Name::item`.
type ImplStmt struct {
	Start, End token.Pos
	Target     *IdentExpr
	Items      []Stmt // *LetStmt (IsConst) or *FnStmt
}

func (n *ImplStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*ImplStmt) stmt()                          {}

// TypeAliasStmt is `type Name = T;`.
type TypeAliasStmt struct {
	Start, End token.Pos
	Name       *IdentExpr
	Type       TypeExpr
}

func (n *TypeAliasStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*TypeAliasStmt) stmt()                          {}

// ModStmt is `mod name { items... }`, a nested module scope.
type ModStmt struct {
	Start, End token.Pos
	Name       *IdentExpr
	Items      []Stmt
}

func (n *ModStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*ModStmt) stmt()                          {}

// UseStmt is `use a::b::c;`: copies the item named by the path into the
// current scope under the last path segment.
type UseStmt struct {
	Start, End token.Pos
	Path       *PathExpr
}

func (n *UseStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*UseStmt) stmt()                          {}

// ForStmt is `for name in range { body } [while cond]` (spec §4.6.5). Range
// must fold to a Constant(Range|RangeInclusive); While, if present, wraps
// the body in an `if cond { body }`.
type ForStmt struct {
	Start token.Pos
	Var   *IdentExpr
	Range Expr
	While Expr // nil if no while clause
	Body  *Block
	End   token.Pos
}

func (n *ForStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*ForStmt) stmt()                          {}

// IfStmt is the statement form of a conditional (its value, if any, is
// discarded). See IfExpr for the value-producing form.
type IfStmt struct {
	Start  token.Pos
	Cond   Expr
	Then   *Block
	Else   *Block
	ElseIf *IfStmt
	End    token.Pos
}

func (n *IfStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*IfStmt) stmt()                          {}

// ReturnStmt is `return [expr];`. In the root (entry-point) function, a
// return is ill-formed; Exit is used instead (spec §4.5.3).
type ReturnStmt struct {
	Start token.Pos
	Value Expr // nil for a bare `return;`
	End   token.Pos
}

func (n *ReturnStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*ReturnStmt) stmt()                          {}

// AssertStmt is `assert!(cond[, "message"]);`.
type AssertStmt struct {
	Start   token.Pos
	Cond    Expr
	Message string // "" if no message literal was given
	End     token.Pos
}

func (n *AssertStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*AssertStmt) stmt()                          {}

// DbgStmt is `dbg!("fmt", args...)`, lowered to the Dbg opcode (spec
// §4.5.3); it never affects constraints.
type DbgStmt struct {
	Start  token.Pos
	Format string
	Args   []Expr
	End    token.Pos
}

func (n *DbgStmt) Span() (start, end token.Pos) { return n.Start, n.End }
func (*DbgStmt) stmt()                          {}
