package semantic

import (
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/types"
)

// generateFunction emits one function's body at the builder's current
// position, records its resolved address, patches every Call that
// forward-referenced it, and (for the `main` entry point only) fills in
// the Program's InputType/OutputType descriptors from its signature (spec
// §6.1).
func (a *Analyzer) generateFunction(fi *funcInfo) {
	fi.addr = a.builder.Pos()
	fi.addrSet = true
	a.builder.PatchCall(fi.id, fi.addr)

	parent := a.cur
	a.cur = a.scopes.Push(parent)
	savedTop := a.dataTop
	a.dataTop = 0

	isEntry := fi.decl.Name.Lit == "main"
	var paramTypes []types.Type
	for _, p := range fi.decl.Sig.Params {
		t := a.resolveTypeExpr(p.Type)
		paramTypes = append(paramTypes, t)
		b := a.declareLocal(p.Name.Lit, fi.decl, t, false)
		p.Name.Binding = b
	}

	if isEntry {
		a.prog.InputType = toTypeTag(tupleOrSingle(paramTypes))
	}

	tail, err := a.analyzeBlock(fi.decl.Body)
	if err != nil {
		a.cur = parent
		a.dataTop = savedTop
		return
	}

	if isEntry {
		a.prog.OutputType = toTypeTag(tail.Type)
		if tail.IsConstant() {
			a.pushConst(*tail.Const)
		}
		a.builder.Emit(compiler.Exit, uint32(flatLen(tail.Type)))
	} else {
		if tail.IsConstant() {
			a.pushConst(*tail.Const)
		}
		a.builder.Emit(compiler.Return, uint32(flatLen(tail.Type)))
	}

	a.cur = parent
	a.dataTop = savedTop
}

func tupleOrSingle(ts []types.Type) types.Type {
	if len(ts) == 1 {
		return ts[0]
	}
	return types.Tuple{Elems: ts}
}

// toTypeTag projects a types.Type into the serializable TypeTag shape the
// bytecode format carries (spec §6.1).
func toTypeTag(t types.Type) compiler.TypeTag {
	switch tt := t.(type) {
	case types.Unit:
		return compiler.TypeTag{Kind: compiler.TagUnit}
	case types.Array:
		elem := toTypeTag(tt.Elem)
		return compiler.TypeTag{Kind: compiler.TagArray, Elem: &elem, Len: tt.Len}
	case types.Tuple:
		fields := make([]compiler.TypeTag, len(tt.Elems))
		for i, e := range tt.Elems {
			fields[i] = toTypeTag(e)
		}
		return compiler.TypeTag{Kind: compiler.TagTuple, Fields: fields}
	case types.Struct:
		fields := make([]compiler.TypeTag, len(tt.Fields))
		names := make([]string, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = toTypeTag(f.Type)
			names[i] = f.Name
		}
		return compiler.TypeTag{Kind: compiler.TagStruct, Fields: fields, Names: names}
	default:
		return compiler.TypeTag{Kind: compiler.TagScalar, Scalar: t}
	}
}
