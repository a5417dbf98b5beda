package semantic

import (
	"math/big"

	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/ast"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/errors"
	"github.com/zinclang/zinc/lang/scope"
	"github.com/zinclang/zinc/lang/token"
	"github.com/zinclang/zinc/lang/types"
)

// analyzeExpr analyzes e, returning its type and - when the whole
// expression folds to a compile-time value - that value. When the result
// is not constant, bytecode is emitted (as a side effect of this call)
// that leaves flatLen(result.Type) scalars on the evaluation stack. h
// distinguishes the rare PathExpression position (the left side of an
// assignment, or an array/field access used as an assignment target) from
// ordinary ValueExpression position (spec §4.6 item 2).
func (a *Analyzer) analyzeExpr(e ast.Expr, h hint) (Element, error) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return a.analyzeLiteral(n)
	case *ast.IdentExpr:
		return a.analyzeIdent(n)
	case *ast.ParenExpr:
		return a.analyzeExpr(n.Inner, h)
	case *ast.UnaryOpExpr:
		return a.analyzeUnary(n)
	case *ast.BinOpExpr:
		return a.analyzeBinOp(n)
	case *ast.CastExpr:
		return a.analyzeCast(n)
	case *ast.RangeExpr:
		return a.analyzeRange(n)
	case *ast.IfExpr:
		return a.analyzeIfExpr(n)
	case *ast.BlockExpr:
		return a.analyzeBlock(n.Block)
	case *ast.CallExpr:
		return a.analyzeCall(n)
	case *ast.ArrayExpr:
		return a.analyzeArray(n)
	case *ast.TupleExpr:
		return a.analyzeTuple(n)
	case *ast.FieldExpr:
		return a.analyzeField(n)
	case *ast.IndexExpr:
		return a.analyzeIndex(n)
	case *ast.SliceExpr:
		return a.analyzeSlice(n)
	case *ast.MatchExpr:
		return a.analyzeMatch(n)
	case *ast.StructExpr:
		return a.analyzeStruct(n)
	case *ast.PathExpr:
		return a.analyzePath(n)
	default:
		start, _ := e.Span()
		return Element{}, a.errorf(errors.Semantic, start, "unsupported expression form %T", e)
	}
}

func (a *Analyzer) analyzeLiteral(n *ast.LiteralExpr) (Element, error) {
	switch n.Kind {
	case ast.LitBoolean:
		return FromConst(Const{Kind: ConstBool, Type: types.Boolean{}, Bool: n.Value.(bool)}), nil
	case ast.LitInteger:
		v := big.NewInt(n.Value.(int64))
		return FromConst(Const{Kind: ConstInt, Type: types.Field{}, Int: v}), nil
	case ast.LitString:
		return FromConst(Const{Kind: ConstString, Type: types.String{}, Str: n.Value.(string)}), nil
	default:
		return Element{}, a.errorf(errors.Semantic, n.Start, "unknown literal kind")
	}
}

func (a *Analyzer) analyzeIdent(n *ast.IdentExpr) (Element, error) {
	b, ok := a.scopes.Lookup(a.cur, n.Lit)
	if !ok {
		return Element{}, a.errorf(errors.Scope, n.Start, "undefined name %q", n.Lit)
	}
	n.Binding = b
	if b.Kind != scope.Local {
		return Element{}, a.errorf(errors.Scope, n.Start, "%q does not name a value", n.Lit)
	}
	t := a.bindingType(b)
	if c, ok := a.constBindings[b]; ok {
		return FromConst(c), nil
	}
	a.emitLoad(t, b.Slot)
	return Dynamic(t), nil
}

// constBindings records Const values bound by `const`/`let` to an
// expression that folded entirely at compile time, so later references can
// be substituted without ever touching the data stack (spec §4.6 item 3's
// "Constant element" propagation).
//
// emitLoad/emitStore centralize the Load/LoadSequence vs Store/
// StoreSequence choice based on how many cells t flattens to.
func (a *Analyzer) emitLoad(t types.Type, addr int) {
	n := flatLen(t)
	if n == 1 {
		a.builder.Emit(compiler.Load, uint32(addr))
	} else if n > 1 {
		a.builder.Emit(compiler.LoadSequence, uint32(addr), uint32(n))
	}
}

func (a *Analyzer) emitStore(t types.Type, addr int) {
	n := flatLen(t)
	if n == 1 {
		a.builder.Emit(compiler.Store, uint32(addr))
	} else if n > 1 {
		a.builder.Emit(compiler.StoreSequence, uint32(addr), uint32(n))
	}
}

// pushConst emits the instructions that push a constant's scalar
// representation onto the evaluation stack (used only when a constant
// value must flow into a mixed constant/non-constant computation; a fully
// constant expression never reaches here, since analyzeBinOp/analyzeCast
// fold it directly instead of emitting bytecode).
func (a *Analyzer) pushConst(c Const) {
	idx := a.prog.AddConstant(c.Field(), c.Type)
	a.builder.Emit(compiler.PushConst, idx)
}

var binOpcode = map[token.Token]compiler.Op{
	token.PLUS: compiler.Add, token.MINUS: compiler.Sub, token.STAR: compiler.Mul,
	token.SLASH: compiler.Div, token.PERCENT: compiler.Rem,
	token.AMPERSAND: compiler.BitAnd, token.PIPE: compiler.BitOr, token.CIRCUMFLEX: compiler.BitXor,
	token.LTLT: compiler.BitShiftLeft, token.GTGT: compiler.BitShiftRight,
	token.AMPAMP: compiler.And, token.PIPEPIPE: compiler.Or,
	token.LT: compiler.Lt, token.LE: compiler.Le, token.GT: compiler.Gt, token.GE: compiler.Ge,
	token.EQ: compiler.Eq, token.NEQ: compiler.Ne,
}

func (a *Analyzer) analyzeBinOp(n *ast.BinOpExpr) (Element, error) {
	l, err := a.analyzeExpr(n.Left, hintValue)
	if err != nil {
		return Element{}, err
	}
	r, err := a.analyzeExpr(n.Right, hintValue)
	if err != nil {
		return Element{}, err
	}
	resultType := l.Type
	if n.Op.IsComparison() || n.Op == token.AMPAMP || n.Op == token.PIPEPIPE {
		resultType = types.Boolean{}
	}
	if l.IsConstant() && r.IsConstant() {
		folded, ok := foldBinOp(n.Op, *l.Const, *r.Const)
		if ok {
			return FromConst(folded), nil
		}
	}
	// At least one operand is dynamic: whichever side folded to a constant
	// must be pushed onto the evaluation stack explicitly, since the
	// operand that was dynamic already left its value there via
	// analyzeExpr's side effect. Evaluation order is left-to-right, so if
	// only the left was constant we push it now (after the right already
	// ran) and then swap, matching the source order the opcode expects.
	if l.IsConstant() && !r.IsConstant() {
		a.pushConst(*l.Const)
		a.builder.Emit(compiler.Swap)
	} else if r.IsConstant() {
		a.pushConst(*r.Const)
	}
	op, ok := binOpcode[n.Op]
	if !ok {
		return Element{}, a.errorf(errors.Semantic, n.OpPos, "unsupported binary operator")
	}
	a.builder.Emit(op)
	return Dynamic(resultType), nil
}

func foldBinOp(op token.Token, l, r Const) (Const, bool) {
	switch {
	case op.IsArithmetic() || op == token.AMPERSAND || op == token.PIPE || op == token.CIRCUMFLEX || op == token.LTLT || op == token.GTGT:
		if l.Kind != ConstInt || r.Kind != ConstInt {
			return Const{}, false
		}
		x, y := l.Int, r.Int
		out := new(big.Int)
		switch op {
		case token.PLUS:
			out.Add(x, y)
		case token.MINUS:
			out.Sub(x, y)
		case token.STAR:
			out.Mul(x, y)
		case token.SLASH:
			if y.Sign() == 0 {
				return Const{}, false
			}
			out.Quo(x, y)
		case token.PERCENT:
			if y.Sign() == 0 {
				return Const{}, false
			}
			out.Rem(x, y)
		case token.AMPERSAND:
			out.And(x, y)
		case token.PIPE:
			out.Or(x, y)
		case token.CIRCUMFLEX:
			out.Xor(x, y)
		case token.LTLT:
			out.Lsh(x, uint(y.Int64()))
		case token.GTGT:
			out.Rsh(x, uint(y.Int64()))
		}
		return Const{Kind: ConstInt, Type: l.Type, Int: out}, true
	case op.IsComparison():
		if l.Kind != ConstInt || r.Kind != ConstInt {
			return Const{}, false
		}
		cmp := l.Int.Cmp(r.Int)
		var b bool
		switch op {
		case token.LT:
			b = cmp < 0
		case token.LE:
			b = cmp <= 0
		case token.GT:
			b = cmp > 0
		case token.GE:
			b = cmp >= 0
		case token.EQ:
			b = cmp == 0
		case token.NEQ:
			b = cmp != 0
		}
		return Const{Kind: ConstBool, Type: types.Boolean{}, Bool: b}, true
	case op == token.AMPAMP || op == token.PIPEPIPE:
		if l.Kind != ConstBool || r.Kind != ConstBool {
			return Const{}, false
		}
		var b bool
		if op == token.AMPAMP {
			b = l.Bool && r.Bool
		} else {
			b = l.Bool || r.Bool
		}
		return Const{Kind: ConstBool, Type: types.Boolean{}, Bool: b}, true
	}
	return Const{}, false
}

func (a *Analyzer) analyzeUnary(n *ast.UnaryOpExpr) (Element, error) {
	v, err := a.analyzeExpr(n.Right, hintValue)
	if err != nil {
		return Element{}, err
	}
	if v.IsConstant() {
		c := *v.Const
		switch n.Op {
		case token.MINUS:
			if c.Kind == ConstInt {
				return FromConst(Const{Kind: ConstInt, Type: c.Type, Int: new(big.Int).Neg(c.Int)}), nil
			}
		case token.BANG:
			if c.Kind == ConstBool {
				return FromConst(Const{Kind: ConstBool, Type: types.Boolean{}, Bool: !c.Bool}), nil
			}
		case token.TILDE:
			if c.Kind == ConstInt {
				return FromConst(Const{Kind: ConstInt, Type: c.Type, Int: new(big.Int).Not(c.Int)}), nil
			}
		}
		return Element{}, a.errorf(errors.Semantic, n.OpPos, "unary operator does not apply to this constant")
	}
	switch n.Op {
	case token.MINUS:
		a.builder.Emit(compiler.Neg)
	case token.BANG:
		a.builder.Emit(compiler.Not)
	case token.TILDE:
		a.builder.Emit(compiler.BitNot)
	default:
		return Element{}, a.errorf(errors.Semantic, n.OpPos, "unsupported unary operator")
	}
	return Dynamic(v.Type), nil
}

func (a *Analyzer) analyzeCast(n *ast.CastExpr) (Element, error) {
	v, err := a.analyzeExpr(n.Value, hintValue)
	if err != nil {
		return Element{}, err
	}
	target := a.resolveTypeExpr(n.Type)
	if v.IsConstant() {
		folded, ok := foldCast(*v.Const, target)
		if ok {
			return FromConst(folded), nil
		}
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Casting, start, "constant %v does not fit in %s", v.Const.Int, target.String())
	}
	idx := a.typePoolIndex(target)
	a.builder.Emit(compiler.Cast, idx)
	return Dynamic(target), nil
}

// foldCast implements compile-time casting with overflow detection (spec
// §4.6's overflow-detection scenario): a constant integer that does not fit
// in the target Int/Uint bitlength is a Casting error, caught here instead
// of silently wrapping.
func foldCast(c Const, target types.Type) (Const, bool) {
	if c.Kind != ConstInt {
		return Const{}, false
	}
	bits, ok := types.Bitlength(target)
	if !ok {
		return Const{}, false
	}
	if _, isBool := target.(types.Boolean); isBool {
		return Const{Kind: ConstBool, Type: target, Bool: c.Int.Sign() != 0}, true
	}
	signed := types.IsSigned(target)
	lo, hi := integerBounds(bits, signed)
	if c.Int.Cmp(lo) < 0 || c.Int.Cmp(hi) > 0 {
		return Const{}, false
	}
	return Const{Kind: ConstInt, Type: target, Int: new(big.Int).Set(c.Int)}, true
}

func integerBounds(bits int, signed bool) (lo, hi *big.Int) {
	if !signed {
		return big.NewInt(0), new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
	}
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	return new(big.Int).Neg(half), new(big.Int).Sub(half, big.NewInt(1))
}

// typePoolIndex appends a new constant-pool entry for t on every call and
// returns the index Cast's operand reaches it through, reusing
// Program.Constants so the generator does not need a second pool array in
// the bytecode format (spec §6.1 describes only one pool of typed
// constants; a Cast target is encoded as a zero-valued ConstEntry of the
// target type).
func (a *Analyzer) typePoolIndex(t types.Type) uint32 {
	return a.prog.AddConstant(field.Zero(), t)
}

func (a *Analyzer) analyzeRange(n *ast.RangeExpr) (Element, error) {
	lo, err := a.analyzeExpr(n.Lo, hintValue)
	if err != nil {
		return Element{}, err
	}
	hi, err := a.analyzeExpr(n.Hi, hintValue)
	if err != nil {
		return Element{}, err
	}
	if !lo.IsConstant() || !hi.IsConstant() {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "range bounds must be compile-time constants")
	}
	kind := ConstRange
	if n.Inclusive {
		kind = ConstRangeInclusive
	}
	var t types.Type = types.Range{Bound: types.Field{}}
	if n.Inclusive {
		t = types.RangeInclusive{Bound: types.Field{}}
	}
	return FromConst(Const{Kind: kind, Type: t, Lo: lo.Const.Int, Hi: hi.Const.Int}), nil
}
