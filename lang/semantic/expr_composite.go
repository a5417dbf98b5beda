package semantic

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/zinclang/zinc/lang/ast"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/errors"
	"github.com/zinclang/zinc/lang/types"
)

// analyzeIfExpr analyzes an if-expression. When the condition folds to a
// compile-time constant, only the taken arm is analyzed at all - neither
// the untaken arm's bytecode nor its constraints ever exist, matching the
// teacher's dead-branch elimination behavior for constant conditions. When
// the condition is dynamic, both arms are generated and wrapped in
// If/Else/EndIf so the VM's execution mask (spec §4.5.3) covers them.
func (a *Analyzer) analyzeIfExpr(n *ast.IfExpr) (Element, error) {
	cond, err := a.analyzeExpr(n.Cond, hintValue)
	if err != nil {
		return Element{}, err
	}
	if cond.IsConstant() {
		if cond.Const.Bool {
			return a.analyzeBlock(n.Then)
		}
		if n.Else != nil {
			return a.analyzeBlock(n.Else)
		}
		if n.ElseIf != nil {
			return a.analyzeIfExpr(n.ElseIf)
		}
		return FromConst(Const{Kind: ConstUnit, Type: types.Unit{}}), nil
	}
	a.builder.Emit(compiler.If)
	thenElem, err := a.analyzeBlock(n.Then)
	if err != nil {
		return Element{}, err
	}
	a.builder.Emit(compiler.Else)
	var elseElem Element
	switch {
	case n.Else != nil:
		elseElem, err = a.analyzeBlock(n.Else)
	case n.ElseIf != nil:
		elseElem, err = a.analyzeIfExpr(n.ElseIf)
	default:
		elseElem = FromConst(Const{Kind: ConstUnit, Type: types.Unit{}})
	}
	if err != nil {
		return Element{}, err
	}
	a.builder.Emit(compiler.EndIf)
	if flatLen(thenElem.Type) != flatLen(elseElem.Type) {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "if and else arms produce differently sized values (%s vs %s)", thenElem.Type, elseElem.Type)
	}
	return Dynamic(thenElem.Type), nil
}

// analyzeBlock analyzes a block's statements in a fresh child scope,
// returning the tail expression's Element (or Unit if there is none).
func (a *Analyzer) analyzeBlock(b *ast.Block) (Element, error) {
	parent := a.cur
	a.cur = a.scopes.Push(parent)
	defer func() { a.cur = parent }()

	for _, stmt := range b.Stmts {
		if err := a.analyzeStmt(stmt); err != nil {
			return Element{}, err
		}
	}
	if b.Tail != nil {
		return a.analyzeExpr(b.Tail, hintValue)
	}
	return FromConst(Const{Kind: ConstUnit, Type: types.Unit{}}), nil
}

// analyzeCall resolves a direct function call (spec Non-goals: no
// first-class functions, so Fn is always an IdentExpr or a builtin path)
// and either emits Call (user function) or CallBuiltin (stdlib gadget
// entry point, spec §4.4 group 6).
func (a *Analyzer) analyzeCall(n *ast.CallExpr) (Element, error) {
	if builtin, ok := builtinCallName(n.Fn); ok {
		return a.analyzeBuiltinCall(builtin, n)
	}
	ident, ok := n.Fn.(*ast.IdentExpr)
	if !ok {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "call target must be a function name")
	}
	fi, ok := a.funcs[ident.Lit]
	if !ok {
		return Element{}, a.errorf(errors.Scope, ident.Start, "undefined function %q", ident.Lit)
	}
	if len(n.Args) != len(fi.sig.Params) {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "function %q expects %d arguments, got %d", ident.Lit, len(fi.sig.Params), len(n.Args))
	}
	for _, arg := range n.Args {
		elem, err := a.analyzeExpr(arg, hintValue)
		if err != nil {
			return Element{}, err
		}
		if elem.IsConstant() {
			a.pushConst(*elem.Const)
		}
	}
	if fi.addrSet {
		a.builder.EmitCall(fi.id, fi.addr, uint32(len(n.Args)), false)
	} else {
		a.builder.EmitCall(fi.id, 0, uint32(len(n.Args)), true)
	}
	return Dynamic(fi.sig.Return), nil
}

func builtinCallName(fn ast.Expr) (string, bool) {
	path, ok := fn.(*ast.PathExpr)
	if !ok || len(path.Segments) == 0 {
		return "", false
	}
	last := path.Segments[len(path.Segments)-1]
	return last.Lit, true
}

var builtinIDs = map[string]compiler.BuiltinID{
	"sha256":             compiler.CryptoSha256,
	"field_inverse":       compiler.FieldInverse,
	"to_bits":             compiler.ToBits,
	"unsigned_from_bits":  compiler.UnsignedFromBits,
	"signed_from_bits":    compiler.SignedFromBits,
	"field_from_bits":     compiler.FieldFromBits,
	"array_reverse":       compiler.ArrayReverse,
	"array_truncate":      compiler.ArrayTruncate,
	"array_pad":           compiler.ArrayPad,
}

func (a *Analyzer) analyzeBuiltinCall(name string, n *ast.CallExpr) (Element, error) {
	id, ok := builtinIDs[name]
	if !ok {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "unknown builtin %q", name)
	}
	var resultType types.Type = types.Unit{}
	for _, arg := range n.Args {
		elem, err := a.analyzeExpr(arg, hintValue)
		if err != nil {
			return Element{}, err
		}
		if elem.IsConstant() {
			a.pushConst(*elem.Const)
		}
		resultType = elem.Type
	}
	switch id {
	case compiler.CryptoSha256:
		resultType = types.Array{Elem: types.Boolean{}, Len: 256}
	case compiler.ToBits:
		if arr, ok := resultType.(types.Array); ok {
			resultType = arr
		}
	}
	a.builder.Emit(compiler.CallBuiltin, uint32(id), uint32(len(n.Args)))
	return Dynamic(resultType), nil
}

func (a *Analyzer) analyzeArray(n *ast.ArrayExpr) (Element, error) {
	if n.Repeat != nil {
		item, err := a.analyzeExpr(n.Items[0], hintValue)
		if err != nil {
			return Element{}, err
		}
		count, err := a.constArrayLen(n.Repeat)
		if err != nil {
			return Element{}, err
		}
		if item.IsConstant() {
			for i := 0; i < count; i++ {
				a.pushConst(*item.Const)
			}
		} else {
			for i := 1; i < count; i++ {
				if _, err := a.analyzeExpr(n.Items[0], hintValue); err != nil {
					return Element{}, err
				}
			}
		}
		return Dynamic(types.Array{Elem: item.Type, Len: count}), nil
	}
	var elemType types.Type = types.Unit{}
	for i, it := range n.Items {
		elem, err := a.analyzeExpr(it, hintValue)
		if err != nil {
			return Element{}, err
		}
		if i == 0 {
			elemType = elem.Type
		}
		if elem.IsConstant() {
			a.pushConst(*elem.Const)
		}
	}
	// Every item above left its value on the evaluation stack - constant
	// items via the pushConst just emitted, dynamic items via their own
	// analyzeExpr. An array literal therefore always has bytecode backing
	// it, unlike a scalar constant expression, so it is never itself
	// reported as constant (there is no Const representation for a whole
	// array's values); a later Store still needs to run to persist it.
	return Dynamic(types.Array{Elem: elemType, Len: len(n.Items)}), nil
}

func (a *Analyzer) analyzeTuple(n *ast.TupleExpr) (Element, error) {
	elemTypes := make([]types.Type, len(n.Items))
	for i, it := range n.Items {
		elem, err := a.analyzeExpr(it, hintValue)
		if err != nil {
			return Element{}, err
		}
		elemTypes[i] = elem.Type
		if elem.IsConstant() {
			a.pushConst(*elem.Const)
		}
	}
	// Same reasoning as analyzeArray: every element's value is already on
	// the evaluation stack, so the tuple as a whole is always dynamic.
	return Dynamic(types.Tuple{Elems: elemTypes}), nil
}

func (a *Analyzer) analyzeField(n *ast.FieldExpr) (Element, error) {
	left, err := a.analyzeExpr(n.Left, hintValue)
	if err != nil {
		return Element{}, err
	}
	switch t := left.Type.(type) {
	case types.Tuple:
		idx, err := fieldIndexOf(n.Name, len(t.Elems))
		if err != nil {
			return Element{}, a.errorf(errors.Semantic, n.DotAt, "%v", err)
		}
		return Dynamic(t.Elems[idx]), nil
	case types.Struct:
		f, ok := t.FieldByName(n.Name)
		if !ok {
			return Element{}, a.errorf(errors.Semantic, n.DotAt, "struct %s has no field %q", t.Name, n.Name)
		}
		return Dynamic(f.Type), nil
	default:
		return Element{}, a.errorf(errors.Semantic, n.DotAt, "field access on non-struct/tuple type %s", left.Type.String())
	}
}

func fieldIndexOf(name string, n int) (int, error) {
	idx, err := strconv.Atoi(name)
	if err != nil || idx < 0 || idx >= n {
		return 0, fmt.Errorf("invalid tuple index %q", name)
	}
	return idx, nil
}

// analyzeIndex only supports indexing a named array binding directly
// (arr[i]), the form every Zinc array access takes in practice since
// arrays are never themselves returned by a further subexpression without
// first being bound (spec Non-goals: no expression-position array
// literals survive past a `let`). Indexing through an arbitrary
// subexpression would require a general lvalue-address model the
// generator does not otherwise need.
func (a *Analyzer) analyzeIndex(n *ast.IndexExpr) (Element, error) {
	ident, ok := n.Left.(*ast.IdentExpr)
	if !ok {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "index target must be a named array variable")
	}
	b, ok := a.scopes.Lookup(a.cur, ident.Lit)
	if !ok {
		return Element{}, a.errorf(errors.Scope, ident.Start, "undefined name %q", ident.Lit)
	}
	arrType := a.bindingType(b)
	arr, ok := arrType.(types.Array)
	if !ok {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "index operator applied to non-array type %s", arrType.String())
	}
	idx, err := a.analyzeExpr(n.Index, hintValue)
	if err != nil {
		return Element{}, err
	}
	if idx.IsConstant() {
		a.pushConst(*idx.Const)
	}
	elemLen := flatLen(arr.Elem)
	if elemLen == 1 {
		a.builder.Emit(compiler.LoadByIndex, uint32(b.Slot), uint32(arr.Len))
	} else {
		a.builder.Emit(compiler.LoadSequenceByIndex, uint32(b.Slot), uint32(arr.Len), uint32(elemLen))
	}
	return Dynamic(arr.Elem), nil
}

// analyzeSlice lowers `arr[lo..hi]`/`arr[lo..=hi]` against a named array
// binding, the same restriction analyzeIndex applies. Both bounds must be
// compile-time constants (spec §4.6's range-expression rule already
// requires this of any RangeExpr), so the slice is just a direct,
// statically-addressed LoadSequence/Load over the binding's existing
// data-stack slot - there is no need for the Slice opcode's own
// whole-array-then-truncate shape, which only ever supports a zero lo.
func (a *Analyzer) analyzeSlice(n *ast.SliceExpr) (Element, error) {
	ident, ok := n.Left.(*ast.IdentExpr)
	if !ok {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "slice target must be a named array variable")
	}
	b, ok := a.scopes.Lookup(a.cur, ident.Lit)
	if !ok {
		return Element{}, a.errorf(errors.Scope, ident.Start, "undefined name %q", ident.Lit)
	}
	arrType := a.bindingType(b)
	arr, ok := arrType.(types.Array)
	if !ok {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "slice operator applied to non-array type %s", arrType.String())
	}

	lo, err := a.constArrayLen(n.Lo)
	if err != nil {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "slice lower bound must be a compile-time constant: %v", err)
	}
	hi, err := a.constArrayLen(n.Hi)
	if err != nil {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "slice upper bound must be a compile-time constant: %v", err)
	}
	if n.Inclusive {
		hi++
	}

	if lo < 0 || lo > arr.Len || hi > arr.Len || lo > hi {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "slice bounds [%d:%d] out of range for array of length %d", lo, hi, arr.Len)
	}

	elemLen := flatLen(arr.Elem)
	base := b.Slot + lo*elemLen
	width := (hi - lo) * elemLen
	if width == elemLen {
		a.builder.Emit(compiler.Load, uint32(base))
	} else {
		a.builder.Emit(compiler.LoadSequence, uint32(base), uint32(width))
	}
	return Dynamic(types.Array{Elem: arr.Elem, Len: hi - lo}), nil
}

func (a *Analyzer) analyzeMatch(n *ast.MatchExpr) (Element, error) {
	if err := a.checkMatchArmsReachable(n); err != nil {
		return Element{}, err
	}
	if len(n.Arms) == 0 {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "match expression has no arms")
	}

	// Lowered per spec §4.6 item 9 to a chain of equality tests against the
	// scrutinee: this mirrors the teacher's own approach of compiling
	// pattern matches as if/else chains rather than a jump table, since
	// Zinc's patterns are always scalar-equality tests (spec Non-goals
	// exclude structural/destructuring patterns).
	scrut, err := a.analyzeExpr(n.Scrutinee, hintValue)
	if err != nil {
		return Element{}, err
	}
	if scrut.IsConstant() {
		for _, arm := range n.Arms {
			if arm.Pattern == nil {
				return a.analyzeExpr(arm.Body, hintValue)
			}
			pat, err := a.analyzeExpr(arm.Pattern, hintValue)
			if err != nil {
				return Element{}, err
			}
			if pat.IsConstant() && pat.Const.Int != nil && scrut.Const.Int != nil && pat.Const.Int.Cmp(scrut.Const.Int) == 0 {
				return a.analyzeExpr(arm.Body, hintValue)
			}
		}
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "no match arm matched the constant scrutinee")
	}

	start, _ := n.Span()
	if n.Arms[len(n.Arms)-1].Pattern != nil {
		return Element{}, a.errorf(errors.Semantic, start, "match over a non-constant scrutinee must end with a wildcard arm")
	}

	// The scrutinee's value is already on the evaluation stack from the
	// analyzeExpr call above; it needs one live copy per comparison, so it
	// is stored into a fresh slot here and reloaded for each arm instead of
	// re-evaluating the scrutinee expression repeatedly.
	slot := a.dataTop
	a.dataTop += flatLen(scrut.Type)
	a.emitStore(scrut.Type, slot)

	return a.analyzeMatchArms(n.Arms, scrut.Type, slot)
}

// checkMatchArmsReachable reports MatchBranchUnreachable for any arm that
// follows a wildcard arm (spec §4.6 item 9): a wildcard matches every
// scrutinee value, so nothing placed after one can ever be taken.
func (a *Analyzer) checkMatchArmsReachable(n *ast.MatchExpr) error {
	seenWildcard := false
	for _, arm := range n.Arms {
		if seenWildcard {
			pos := n.Start
			if arm.Pattern != nil {
				pos, _ = arm.Pattern.Span()
			} else {
				pos, _ = arm.Body.Span()
			}
			return a.errorf(errors.Semantic, pos, "MatchBranchUnreachable: match arm is unreachable after a preceding wildcard arm")
		}
		if arm.Pattern == nil {
			seenWildcard = true
		}
	}
	return nil
}

// analyzeMatchArms lowers the remaining arms of a non-constant match into a
// nested If/Else/EndIf chain, one level per arm, terminating at the
// wildcard arm checkMatchArmsReachable/analyzeMatch already guarantee sits
// last. Each comparison reloads the scrutinee from slot, since only one
// live copy of it exists on the evaluation stack at a time.
func (a *Analyzer) analyzeMatchArms(arms []ast.MatchArm, scrutType types.Type, slot int) (Element, error) {
	arm := arms[0]
	if arm.Pattern == nil {
		return a.analyzeExpr(arm.Body, hintValue)
	}
	pat, err := a.analyzeExpr(arm.Pattern, hintValue)
	if err != nil {
		return Element{}, err
	}
	if !pat.IsConstant() {
		start, _ := arm.Pattern.Span()
		return Element{}, a.errorf(errors.Semantic, start, "match pattern must be a compile-time constant")
	}

	a.emitLoad(scrutType, slot)
	a.pushConst(*pat.Const)
	a.builder.Emit(compiler.Eq)

	a.builder.Emit(compiler.If)
	thenElem, err := a.analyzeExpr(arm.Body, hintValue)
	if err != nil {
		return Element{}, err
	}
	a.builder.Emit(compiler.Else)
	if _, err := a.analyzeMatchArms(arms[1:], scrutType, slot); err != nil {
		return Element{}, err
	}
	a.builder.Emit(compiler.EndIf)
	return Dynamic(thenElem.Type), nil
}

// analyzeStruct lowers a struct literal by evaluating every field
// initializer in the struct declaration's field order (not the literal's
// written order), so the flattened value on the evaluation stack matches
// the layout the rest of the analyzer assumes for a types.Struct value
// (spec §4.6 item 8).
func (a *Analyzer) analyzeStruct(n *ast.StructExpr) (Element, error) {
	st, ok := a.structs[n.Name.Lit]
	if !ok {
		return Element{}, a.errorf(errors.Scope, n.Name.Start, "undefined struct %q", n.Name.Lit)
	}
	if len(n.Fields) != len(st.Fields) {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "struct %s literal has %d fields, expected %d", st.Name, len(n.Fields), len(st.Fields))
	}

	values := make(map[string]ast.Expr, len(n.Fields))
	for _, f := range n.Fields {
		if _, dup := values[f.Name]; dup {
			start, _ := n.Span()
			return Element{}, a.errorf(errors.Semantic, start, "StructureDuplicateField: struct %s literal initializes field %q more than once", st.Name, f.Name)
		}
		values[f.Name] = f.Value
	}

	for _, sf := range st.Fields {
		val, ok := values[sf.Name]
		if !ok {
			start, _ := n.Span()
			return Element{}, a.errorf(errors.Semantic, start, "struct %s literal is missing field %q", st.Name, sf.Name)
		}
		elem, err := a.analyzeExpr(val, hintValue)
		if err != nil {
			return Element{}, err
		}
		if elem.IsConstant() {
			a.pushConst(*elem.Const)
		}
	}
	return Dynamic(st), nil
}

// analyzePath resolves a `Name::Variant` path to the field-valued constant
// an enum variant denotes (spec §4.6 item 8). No other path form reaches
// here: `Type::method` calls are intercepted by analyzeCall/
// builtinCallName before analyzeExpr ever sees the path as a value.
func (a *Analyzer) analyzePath(n *ast.PathExpr) (Element, error) {
	if len(n.Segments) != 2 {
		start, _ := n.Span()
		return Element{}, a.errorf(errors.Semantic, start, "unsupported path expression")
	}
	typeName, variantName := n.Segments[0], n.Segments[1]
	en, ok := a.enums[typeName.Lit]
	if !ok {
		return Element{}, a.errorf(errors.Scope, typeName.Start, "undefined enum %q", typeName.Lit)
	}
	variant, ok := en.VariantByName(variantName.Lit)
	if !ok {
		return Element{}, a.errorf(errors.Semantic, variantName.Start, "enum %q has no variant %q", typeName.Lit, variantName.Lit)
	}
	return FromConst(Const{Kind: ConstInt, Type: en, Int: big.NewInt(variant.Value)}), nil
}
