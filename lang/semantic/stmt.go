package semantic

import (
	"github.com/zinclang/zinc/lang/ast"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/errors"
	"github.com/zinclang/zinc/lang/types"
)

// analyzeStmt dispatches on every statement kind spec §4.6 names. Nested
// item declarations (fn/struct/enum/impl/type/mod/use) are legal only at
// module top level in this analyzer; encountering one nested is reported,
// matching the teacher's own shallow nesting rules for item statements.
func (a *Analyzer) analyzeStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return a.analyzeLet(s)
	case *ast.AssignStmt:
		return a.analyzeAssign(s)
	case *ast.ExprStmt:
		elem, err := a.analyzeExpr(s.Expr, hintValue)
		if err != nil {
			return err
		}
		// A non-tail expression statement's value is discarded: if it
		// turned out dynamic, pop the cells it left on the evaluation
		// stack so they do not leak into the next statement's view of the
		// stack (mirrors the teacher's Pop-after-ExprStmt discipline).
		if !elem.IsConstant() {
			if n := flatLen(elem.Type); n > 0 {
				a.builder.Emit(compiler.Pop, uint32(n))
			}
		}
		return nil
	case *ast.ForStmt:
		return a.analyzeFor(s)
	case *ast.IfStmt:
		return a.analyzeIfStmt(s)
	case *ast.ReturnStmt:
		return a.analyzeReturn(s)
	case *ast.AssertStmt:
		return a.analyzeAssert(s)
	case *ast.DbgStmt:
		return a.analyzeDbg(s)
	case *ast.StructStmt, *ast.EnumStmt, *ast.ImplStmt, *ast.TypeAliasStmt, *ast.ModStmt, *ast.UseStmt, *ast.FnStmt:
		start, _ := stmt.Span()
		return a.errorf(errors.Semantic, start, "item declarations are only allowed at module top level")
	default:
		start, _ := stmt.Span()
		return a.errorf(errors.Semantic, start, "unsupported statement form %T", stmt)
	}
}

func (a *Analyzer) analyzeLet(s *ast.LetStmt) error {
	val, err := a.analyzeExpr(s.Value, hintValue)
	if err != nil {
		return err
	}
	declType := val.Type
	if s.Type != nil {
		declType = a.resolveTypeExpr(s.Type)
		if val.IsConstant() {
			if folded, ok := foldCast(*val.Const, declType); ok {
				val = FromConst(folded)
			}
		}
	}
	if s.IsConst && !val.IsConstant() {
		return a.errorf(errors.Semantic, s.Start, "const %q requires a compile-time constant initializer", s.Name.Lit)
	}

	// A constant `let`/`const` never reaches the data stack: later
	// references substitute its folded value directly (spec §4.6 item 3's
	// constant propagation), so no Store is emitted here, though
	// declareLocal still reserves a slot that a later assignment to a
	// `mut` binding stores into. Otherwise the value analyzeExpr already left on the
	// evaluation stack is persisted with a Store into a fresh slot.
	b := a.declareLocal(s.Name.Lit, s, declType, s.Mutable)
	if val.IsConstant() {
		a.constBindings[b] = *val.Const
	} else {
		a.emitStore(declType, b.Slot)
	}
	s.Name.Binding = b
	return nil
}

func (a *Analyzer) analyzeAssign(s *ast.AssignStmt) error {
	ident, ok := s.Left.(*ast.IdentExpr)
	if !ok {
		start, _ := s.Span()
		return a.errorf(errors.Semantic, start, "assignment target must be a mutable variable")
	}
	b, ok := a.scopes.Lookup(a.cur, ident.Lit)
	if !ok {
		return a.errorf(errors.Scope, ident.Start, "undefined name %q", ident.Lit)
	}
	if !b.Mutable {
		return a.errorf(errors.Semantic, ident.Start, "cannot assign to immutable binding %q", ident.Lit)
	}
	val, err := a.analyzeExpr(s.Right, hintValue)
	if err != nil {
		return err
	}
	t := a.bindingType(b)
	if val.IsConstant() {
		a.pushConst(*val.Const)
		delete(a.constBindings, b)
	} else {
		delete(a.constBindings, b)
	}
	a.emitStore(t, b.Slot)
	return nil
}

// analyzeFor unrolls a `for i in range { body }` loop at compile time
// (spec §4.6 item 5: the range must fold to a constant, so the generator
// can emit the body once per iteration with `i` bound to each successive
// constant - there is no runtime loop counter). LoopBegin/LoopEnd still
// bracket the unrolled body so the VM's frame stack can attribute
// constraints to the right iteration for diagnostics, even though control
// never actually branches at run time.
func (a *Analyzer) analyzeFor(s *ast.ForStmt) error {
	rangeElem, err := a.analyzeExpr(s.Range, hintValue)
	if err != nil {
		return err
	}
	if !rangeElem.IsConstant() || (rangeElem.Const.Kind != ConstRange && rangeElem.Const.Kind != ConstRangeInclusive) {
		return a.errorf(errors.Semantic, s.Start, "for loop range must be a compile-time constant range")
	}
	iters := rangeElem.Const.Iterate()
	if a.MaxLoopUnroll > 0 {
		a.loopUnrolled += len(iters)
		if a.loopUnrolled > a.MaxLoopUnroll {
			return a.errorf(errors.Semantic, s.Start, "for loop unrolling exceeds the configured limit of %d iterations", a.MaxLoopUnroll)
		}
	}
	a.builder.Emit(compiler.LoopBegin, uint32(len(iters)))
	parent := a.cur
	for _, i := range iters {
		a.cur = a.scopes.Push(parent)
		b := a.declareLocal(s.Var.Lit, s, types.Field{}, false)
		a.constBindings[b] = Const{Kind: ConstInt, Type: types.Field{}, Int: i}
		s.Var.Binding = b
		if s.While != nil {
			cond, err := a.analyzeExpr(s.While, hintValue)
			if err != nil {
				a.cur = parent
				return err
			}
			if cond.IsConstant() && !cond.Const.Bool {
				a.cur = parent
				continue
			}
		}
		if err := a.analyzeStmtsInBlock(s.Body); err != nil {
			a.cur = parent
			return err
		}
		a.cur = parent
	}
	a.builder.Emit(compiler.LoopEnd)
	return nil
}

func (a *Analyzer) analyzeStmtsInBlock(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if err := a.analyzeStmt(stmt); err != nil {
			return err
		}
	}
	if b.Tail != nil {
		elem, err := a.analyzeExpr(b.Tail, hintValue)
		if err != nil {
			return err
		}
		if !elem.IsConstant() {
			if n := flatLen(elem.Type); n > 0 {
				a.builder.Emit(compiler.Pop, uint32(n))
			}
		}
	}
	return nil
}

func (a *Analyzer) analyzeIfStmt(s *ast.IfStmt) error {
	cond, err := a.analyzeExpr(s.Cond, hintValue)
	if err != nil {
		return err
	}
	if cond.IsConstant() {
		if cond.Const.Bool {
			return a.analyzeStmtsInBlock(s.Then)
		}
		if s.Else != nil {
			return a.analyzeStmtsInBlock(s.Else)
		}
		if s.ElseIf != nil {
			return a.analyzeIfStmt(s.ElseIf)
		}
		return nil
	}
	a.builder.Emit(compiler.If)
	if err := a.analyzeStmtsInBlock(s.Then); err != nil {
		return err
	}
	a.builder.Emit(compiler.Else)
	switch {
	case s.Else != nil:
		err = a.analyzeStmtsInBlock(s.Else)
	case s.ElseIf != nil:
		err = a.analyzeIfStmt(s.ElseIf)
	}
	if err != nil {
		return err
	}
	a.builder.Emit(compiler.EndIf)
	return nil
}

func (a *Analyzer) analyzeReturn(s *ast.ReturnStmt) error {
	if s.Value == nil {
		a.builder.Emit(compiler.Return, 0)
		return nil
	}
	val, err := a.analyzeExpr(s.Value, hintValue)
	if err != nil {
		return err
	}
	if val.IsConstant() {
		a.pushConst(*val.Const)
	}
	a.builder.Emit(compiler.Return, uint32(flatLen(val.Type)))
	return nil
}

func (a *Analyzer) analyzeAssert(s *ast.AssertStmt) error {
	cond, err := a.analyzeExpr(s.Cond, hintValue)
	if err != nil {
		return err
	}
	var msgIdx uint32
	if s.Message != "" {
		msgIdx = a.prog.AddMessage(s.Message)
	}
	if cond.IsConstant() {
		if !cond.Const.Bool {
			return a.errorf(errors.Semantic, s.Start, "assertion on a compile-time-false constant always fails")
		}
		return nil
	}
	a.builder.Emit(compiler.Assert, msgIdx)
	return nil
}

func (a *Analyzer) analyzeDbg(s *ast.DbgStmt) error {
	fmtIdx := a.prog.AddMessage(s.Format)
	for _, arg := range s.Args {
		elem, err := a.analyzeExpr(arg, hintValue)
		if err != nil {
			return err
		}
		if elem.IsConstant() {
			a.pushConst(*elem.Const)
		}
	}
	a.builder.Emit(compiler.Dbg, fmtIdx, uint32(len(s.Args)))
	return nil
}
