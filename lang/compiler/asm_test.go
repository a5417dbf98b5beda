package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/compiler"
)

func TestBuilderEmitAndDecode(t *testing.T) {
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	require.EqualValues(t, 0, b.Pos())
	b.Emit(compiler.PushConst, 3)
	pushConstEnd := b.Pos()
	b.Emit(compiler.Add)
	b.Emit(compiler.Return, 1)

	code := b.Finish()

	instr := compiler.Decode(code, 0)
	require.Equal(t, compiler.PushConst, instr.Op)
	require.Equal(t, []uint32{3}, instr.Operands)
	require.EqualValues(t, pushConstEnd, instr.Size)

	instr = compiler.Decode(code, int(pushConstEnd))
	require.Equal(t, compiler.Add, instr.Op)
	require.Empty(t, instr.Operands)
	require.Equal(t, 1, instr.Size)

	instr = compiler.Decode(code, int(pushConstEnd)+1)
	require.Equal(t, compiler.Return, instr.Op)
	require.Equal(t, []uint32{1}, instr.Operands)
}

func TestBuilderEmitCallAndPatch(t *testing.T) {
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	// forward reference: the callee's address isn't known yet.
	b.EmitCall(1, 0, 2, true)
	b.Emit(compiler.Return, 0)
	calleeAddr := b.Pos()
	b.Emit(compiler.NOP)

	b.PatchCall(1, calleeAddr)

	code := b.Finish()
	instr := compiler.Decode(code, 0)
	require.Equal(t, compiler.Call, instr.Op)
	require.Equal(t, []uint32{calleeAddr, 2}, instr.Operands)
}

func TestBuilderEmitCallKnownAddress(t *testing.T) {
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	b.EmitCall(0, 42, 3, false)
	code := b.Finish()

	instr := compiler.Decode(code, 0)
	require.Equal(t, compiler.Call, instr.Op)
	require.Equal(t, []uint32{42, 3}, instr.Operands)
}

func TestOpOperandCount(t *testing.T) {
	require.Equal(t, 0, compiler.NOP.OperandCount())
	require.Equal(t, 1, compiler.PushConst.OperandCount())
	require.Equal(t, 2, compiler.Call.OperandCount())
	require.Equal(t, 2, compiler.LoadByIndexGlobal.OperandCount())
}

func TestOpString(t *testing.T) {
	require.Equal(t, "push_const", compiler.PushConst.String())
	require.Equal(t, "call", compiler.Call.String())
	require.Contains(t, compiler.Op(255).String(), "illegal op")
}

func TestProgramAddConstant(t *testing.T) {
	prog := &compiler.Program{}
	idx0 := prog.AddConstant(field.Zero(), nil)
	idx1 := prog.AddConstant(field.One(), nil)
	require.EqualValues(t, 0, idx0)
	require.EqualValues(t, 1, idx1)
	require.Len(t, prog.Constants, 2)
}

func TestProgramAddMessage(t *testing.T) {
	prog := &compiler.Program{}
	idx := prog.AddMessage("overflow")
	// index 0 is reserved for "no message"
	require.EqualValues(t, 1, idx)
	require.Equal(t, []string{"", "overflow"}, prog.Messages)

	idx2 := prog.AddMessage("other")
	require.EqualValues(t, 2, idx2)
}
