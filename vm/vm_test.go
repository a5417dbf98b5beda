package vm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
	"github.com/zinclang/zinc/vm"
)

func witness(cs constraint.System, n uint64, t types.Type) scalar.Scalar {
	v := field.FromUint64(n)
	h := cs.AllocateWitness("v", func() field.Element { return v })
	return scalar.Variable(h, v, true, t)
}

// outputValue reads back the value a Run() handle was allocated with by
// asking the valuer the VM's constraint.System implements.
func outputValue(t *testing.T, cs constraint.Valuer, h constraint.Handle) field.Element {
	t.Helper()
	v, ok := cs.Value(h)
	require.True(t, ok)
	return v
}

func TestRunArithmetic(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	c2 := prog.AddConstant(field.FromUint64(2), types.Uint{Bits: 8})
	c3 := prog.AddConstant(field.FromUint64(3), types.Uint{Bits: 8})

	b.Emit(compiler.PushConst, c2)
	b.Emit(compiler.PushConst, c3)
	b.Emit(compiler.Add)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	handles, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.Len(t, handles, 1)
	require.True(t, cs.Satisfied())
	require.Equal(t, field.FromUint64(5), outputValue(t, cs, handles[0]))
}

func TestRunStoreLoad(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	c7 := prog.AddConstant(field.FromUint64(7), types.Uint{Bits: 8})
	b.Emit(compiler.PushConst, c7)
	b.Emit(compiler.Store, 0)
	b.Emit(compiler.Load, 0)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	handles, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.Equal(t, field.FromUint64(7), outputValue(t, cs, handles[0]))
}

func TestRunIfElseConstantTrue(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	cTrue := prog.AddConstant(field.One(), types.Boolean{})
	c1 := prog.AddConstant(field.FromUint64(1), types.Uint{Bits: 8})
	c2 := prog.AddConstant(field.FromUint64(2), types.Uint{Bits: 8})

	b.Emit(compiler.PushConst, cTrue)
	b.Emit(compiler.If)
	b.Emit(compiler.PushConst, c1)
	b.Emit(compiler.Store, 0)
	b.Emit(compiler.Else)
	b.Emit(compiler.PushConst, c2)
	b.Emit(compiler.Store, 0)
	b.Emit(compiler.EndIf)
	b.Emit(compiler.Load, 0)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	handles, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.Equal(t, field.FromUint64(1), outputValue(t, cs, handles[0]))
}

func TestRunIfElseWitnessCondition(t *testing.T) {
	cs := constraint.NewDebugCS()
	cond := witness(cs, 0, types.Boolean{})

	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)
	c1 := prog.AddConstant(field.FromUint64(1), types.Uint{Bits: 8})
	c2 := prog.AddConstant(field.FromUint64(2), types.Uint{Bits: 8})

	b.Emit(compiler.Load, 0) // condition, stored at input slot 0
	b.Emit(compiler.If)
	b.Emit(compiler.PushConst, c1)
	b.Emit(compiler.Store, 1)
	b.Emit(compiler.Else)
	b.Emit(compiler.PushConst, c2)
	b.Emit(compiler.Store, 1)
	b.Emit(compiler.EndIf)
	b.Emit(compiler.Load, 1)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	handles, err := vm.Run(cs, prog, []scalar.Scalar{cond}, nil)
	require.NoError(t, err)
	require.True(t, cs.Satisfied())
	require.Equal(t, field.FromUint64(2), outputValue(t, cs, handles[0]))
}

func TestRunCallReturn(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	// main: push 4, call double(addr forward-referenced), exit.
	c4 := prog.AddConstant(field.FromUint64(4), types.Uint{Bits: 8})
	b.Emit(compiler.PushConst, c4)
	b.EmitCall(0, 0, 1, true)
	b.Emit(compiler.Exit, 1)

	// double(x) = x + x
	doubleAddr := b.Pos()
	b.Emit(compiler.Load, 0)
	b.Emit(compiler.Load, 0)
	b.Emit(compiler.Add)
	b.Emit(compiler.Return, 1)

	b.PatchCall(0, doubleAddr)
	prog.Code = b.Finish()

	handles, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.Equal(t, field.FromUint64(8), outputValue(t, cs, handles[0]))
}

func TestRunLoop(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	zero := prog.AddConstant(field.Zero(), types.Uint{Bits: 32})
	one := prog.AddConstant(field.FromUint64(1), types.Uint{Bits: 32})

	b.Emit(compiler.PushConst, zero)
	b.Emit(compiler.Store, 0) // sum = 0
	b.Emit(compiler.LoopBegin, 5)
	b.Emit(compiler.Load, 0)
	b.Emit(compiler.PushConst, one)
	b.Emit(compiler.Add)
	b.Emit(compiler.Store, 0)
	b.Emit(compiler.LoopEnd)
	b.Emit(compiler.Load, 0)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	// the VM's LoopBegin/LoopEnd don't themselves iterate (the generator
	// unrolls loop bodies at compile time); this exercises the frame
	// stack bookkeeping around a single pass.
	handles, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.Equal(t, field.FromUint64(1), outputValue(t, cs, handles[0]))
}

func TestRunAssertPasses(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	cTrue := prog.AddConstant(field.One(), types.Boolean{})
	msg := prog.AddMessage("should hold")
	b.Emit(compiler.PushConst, cTrue)
	b.Emit(compiler.Assert, msg)
	b.Emit(compiler.PushConst, cTrue)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	_, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.True(t, cs.Satisfied())
}

func TestRunAssertFails(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	cFalse := prog.AddConstant(field.Zero(), types.Boolean{})
	msg := prog.AddMessage("must not happen")
	b.Emit(compiler.PushConst, cFalse)
	b.Emit(compiler.Assert, msg)
	b.Emit(compiler.PushConst, cFalse)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	_, err := vm.Run(cs, prog, nil, nil)
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestRunDivisionByZeroReportsRuntimeError(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	n := prog.AddConstant(field.FromUint64(10), types.Uint{Bits: 8})
	zero := prog.AddConstant(field.Zero(), types.Uint{Bits: 8})
	b.Emit(compiler.PushConst, n)
	b.Emit(compiler.PushConst, zero)
	b.Emit(compiler.Div)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	_, err := vm.Run(cs, prog, nil, nil)
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestRunBitwiseAnd(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	c6 := prog.AddConstant(field.FromUint64(6), types.Uint{Bits: 8}) // 0b0110
	c3 := prog.AddConstant(field.FromUint64(3), types.Uint{Bits: 8}) // 0b0011
	b.Emit(compiler.PushConst, c6)
	b.Emit(compiler.PushConst, c3)
	b.Emit(compiler.BitAnd)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	handles, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.True(t, cs.Satisfied())
	require.Equal(t, field.FromUint64(2), outputValue(t, cs, handles[0])) // 0b0010
}

func TestRunCast(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	c5 := prog.AddConstant(field.FromUint64(5), types.Uint{Bits: 8})
	target := prog.AddConstant(field.Zero(), types.Uint{Bits: 16})
	b.Emit(compiler.PushConst, c5)
	b.Emit(compiler.Cast, target)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	handles, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.Equal(t, field.FromUint64(5), outputValue(t, cs, handles[0]))
}

func TestRunCallBuiltinArrayReverse(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	c1 := prog.AddConstant(field.FromUint64(1), types.Uint{Bits: 8})
	c2 := prog.AddConstant(field.FromUint64(2), types.Uint{Bits: 8})
	c3 := prog.AddConstant(field.FromUint64(3), types.Uint{Bits: 8})
	b.Emit(compiler.PushConst, c1)
	b.Emit(compiler.PushConst, c2)
	b.Emit(compiler.PushConst, c3)
	b.Emit(compiler.CallBuiltin, uint32(compiler.ArrayReverse), 3)
	b.Emit(compiler.Exit, 3)
	prog.Code = b.Finish()

	handles, err := vm.Run(cs, prog, nil, nil)
	require.NoError(t, err)
	require.Len(t, handles, 3)
	require.Equal(t, field.FromUint64(3), outputValue(t, cs, handles[0]))
	require.Equal(t, field.FromUint64(2), outputValue(t, cs, handles[1]))
	require.Equal(t, field.FromUint64(1), outputValue(t, cs, handles[2]))
}

func TestRunDbgCallback(t *testing.T) {
	cs := constraint.NewDebugCS()
	prog := &compiler.Program{}
	b := compiler.NewBuilder(prog)

	c1 := prog.AddConstant(field.FromUint64(9), types.Uint{Bits: 8})
	fmtIdx := prog.AddMessage("x=%s")
	b.Emit(compiler.PushConst, c1)
	b.Emit(compiler.Dbg, fmtIdx, 1)
	b.Emit(compiler.PushConst, c1)
	b.Emit(compiler.Exit, 1)
	prog.Code = b.Finish()

	var lines []string
	_, err := vm.Run(cs, prog, nil, func(line string) { lines = append(lines, line) })
	require.NoError(t, err)
	require.Equal(t, []string{"x=9"}, lines)
}
