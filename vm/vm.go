// Package vm implements the bytecode interpreter of spec §4.5 (component
// E): it drives a compiler.Program one instruction at a time over an
// evaluation stack and a flat, frame-relative data stack, synthesizing
// constraints into a constraint.System through package gadget as it goes.
// Unlike a conventional interpreter it never "skips" the untaken side of a
// dynamic branch: both arms of a non-constant if/else are executed so that
// both sets of constraints exist in the circuit, with an execution mask
// (the conjunction of every enclosing branch's condition) steering which
// side effects actually stick, exactly as spec §4.5.3 describes.
package vm

import (
	"fmt"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/gadget"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// DbgFunc receives one rendered dbg! line; it has no effect on constraints.
type DbgFunc func(line string)

// frameKind distinguishes the two block shapes the VM's frame stack tracks.
type frameKind uint8

const (
	frameIf frameKind = iota
	frameLoop
)

// blockFrame is one entry of the If/Loop block stack (spec §4.5.3's
// "frames_stack"). For an if-frame, savedMask is the mask to restore at
// EndIf and cond is the branch condition Else needs to negate.
type blockFrame struct {
	kind      frameKind
	savedMask scalar.Scalar
	cond      scalar.Scalar
}

// callFrame is one entry of the VM's call stack: the return address, the
// data-stack base the callee's Load/Store addresses are relative to, and
// the mask active at the call site (restored on Return, since a masked
// call still returns into the caller's own mask).
type callFrame struct {
	returnPC  int
	dataBase  int
	savedMask scalar.Scalar
}

// location is the VM's current position, updated by the marker opcodes for
// diagnostics only - it never affects constraint synthesis.
type location struct {
	File, Function string
	Line, Col      int
}

// Machine is one execution of a single Program against one constraint
// System. Machines are not reused across runs.
type Machine struct {
	cs   constraint.System
	prog *compiler.Program
	code []byte

	pc int

	eval []scalar.Scalar // the evaluation stack
	data []scalar.Scalar // the flat, frame-relative data stack

	frames []blockFrame
	calls  []callFrame

	mask scalar.Scalar // conjunction of every enclosing branch condition
	loc  location

	dbg DbgFunc
}

// RuntimeError wraps an execution failure (division by zero, a failed
// assert!, an out-of-range cast, ...) with the source location active when
// it fired (spec §4.5.2: "fails with RuntimeError carrying the source
// location").
type RuntimeError struct {
	Location location
	Err      error
}

func (e *RuntimeError) Error() string {
	loc := e.Location
	if loc.File == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s:%d:%d: in %s: %v", loc.File, loc.Line, loc.Col, loc.Function, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Run executes prog's `main` entry point (address 0) with the given
// already-flattened input scalars, returning the allocated public-input
// handles for its outputs (spec §4.5.4) in output order.
func Run(cs constraint.System, prog *compiler.Program, inputs []scalar.Scalar, dbg DbgFunc) ([]constraint.Handle, error) {
	m := &Machine{
		cs:   cs,
		prog: prog,
		code: prog.Code,
		data: append([]scalar.Scalar(nil), inputs...),
		mask: scalar.Const(field.One(), types.Boolean{}),
		dbg:  dbg,
	}
	return m.run()
}

func (m *Machine) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return &RuntimeError{Location: m.loc, Err: err}
}

func (m *Machine) dataBase() int {
	if len(m.calls) == 0 {
		return 0
	}
	return m.calls[len(m.calls)-1].dataBase
}

func (m *Machine) ensureData(upto int) {
	for len(m.data) <= upto {
		m.data = append(m.data, scalar.Scalar{})
	}
}

func (m *Machine) push(s scalar.Scalar) { m.eval = append(m.eval, s) }

func (m *Machine) pop() scalar.Scalar {
	n := len(m.eval) - 1
	s := m.eval[n]
	m.eval = m.eval[:n]
	return s
}

// popN pops n scalars, returned in their original (bottom-to-top) order.
func (m *Machine) popN(n int) []scalar.Scalar {
	out := make([]scalar.Scalar, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = m.pop()
	}
	return out
}

// maskedStore writes v into the current data slot, honoring the active
// execution mask: under an inactive branch (mask constant-false is never
// observed dynamically, so this always resolves through
// ConditionalSelect), the previous value is kept instead (spec §4.5.3: "an
// assignment under a false mask must not stick").
func (m *Machine) maskedStore(addr int, v scalar.Scalar) {
	if m.mask.IsConstant() && !m.mask.GetConstant().IsZero() {
		m.data[addr] = v
		return
	}
	prev := m.data[addr]
	m.data[addr] = gadget.ConditionalSelect(m.cs, m.mask, v, prev, v.Type)
}

func (m *Machine) run() ([]constraint.Handle, error) {
	for {
		instr := compiler.Decode(m.code, m.pc)
		next := m.pc + instr.Size
		jumped := false

		switch instr.Op {
		case compiler.NOP:

		case compiler.FileMarker, compiler.FunctionMarker, compiler.LineMarker, compiler.ColumnMarker:
			m.applyMarker(instr)

		case compiler.PushConst:
			e := m.prog.Constants[instr.Operands[0]]
			m.push(scalar.Const(e.Value, e.Type))

		case compiler.Pop:
			m.popN(int(instr.Operands[0]))

		case compiler.Swap:
			n := len(m.eval)
			m.eval[n-1], m.eval[n-2] = m.eval[n-2], m.eval[n-1]

		case compiler.Tee:
			m.push(m.eval[len(m.eval)-1])

		case compiler.Load:
			addr := m.dataBase() + int(instr.Operands[0])
			m.push(m.data[addr])

		case compiler.Store:
			addr := m.dataBase() + int(instr.Operands[0])
			m.ensureData(addr)
			m.maskedStore(addr, m.pop())

		case compiler.LoadSequence:
			base := m.dataBase() + int(instr.Operands[0])
			n := int(instr.Operands[1])
			for i := 0; i < n; i++ {
				m.push(m.data[base+i])
			}

		case compiler.StoreSequence:
			base := m.dataBase() + int(instr.Operands[0])
			n := int(instr.Operands[1])
			m.ensureData(base + n - 1)
			vals := m.popN(n)
			for i, v := range vals {
				m.maskedStore(base+i, v)
			}

		case compiler.LoadByIndex:
			base := m.dataBase() + int(instr.Operands[0])
			arrLen := int(instr.Operands[1])
			idx := m.pop()
			v, err := gadget.ArrayGet(m.data[base:base+arrLen], idx)
			if err != nil {
				return nil, m.wrapErr(err)
			}
			m.push(v)

		case compiler.StoreByIndex:
			base := m.dataBase() + int(instr.Operands[0])
			arrLen := int(instr.Operands[1])
			idx := m.pop()
			v := m.pop()
			arr, err := gadget.ArraySet(m.data[base:base+arrLen], idx, v)
			if err != nil {
				return nil, m.wrapErr(err)
			}
			copy(m.data[base:base+arrLen], arr)

		case compiler.LoadSequenceByIndex:
			base := m.dataBase() + int(instr.Operands[0])
			valLen := int(instr.Operands[2])
			idx := m.pop()
			if !idx.IsConstant() {
				return nil, m.wrapErr(gadget.ErrWitnessArrayIndex)
			}
			elemBase := base + int(idx.GetConstantUsize())*valLen
			for i := 0; i < valLen; i++ {
				m.push(m.data[elemBase+i])
			}

		case compiler.StoreSequenceByIndex:
			base := m.dataBase() + int(instr.Operands[0])
			valLen := int(instr.Operands[2])
			idx := m.pop()
			vals := m.popN(valLen)
			if !idx.IsConstant() {
				return nil, m.wrapErr(gadget.ErrWitnessArrayIndex)
			}
			elemBase := base + int(idx.GetConstantUsize())*valLen
			m.ensureData(elemBase + valLen - 1)
			for i, v := range vals {
				m.maskedStore(elemBase+i, v)
			}

		case compiler.LoadGlobal:
			m.push(m.data[instr.Operands[0]])
		case compiler.StoreGlobal:
			addr := int(instr.Operands[0])
			m.ensureData(addr)
			m.maskedStore(addr, m.pop())
		case compiler.LoadSequenceGlobal:
			base, n := int(instr.Operands[0]), int(instr.Operands[1])
			for i := 0; i < n; i++ {
				m.push(m.data[base+i])
			}
		case compiler.StoreSequenceGlobal:
			base, n := int(instr.Operands[0]), int(instr.Operands[1])
			m.ensureData(base + n - 1)
			vals := m.popN(n)
			for i, v := range vals {
				m.maskedStore(base+i, v)
			}
		case compiler.LoadByIndexGlobal, compiler.StoreByIndexGlobal,
			compiler.LoadSequenceByIndexGlobal, compiler.StoreSequenceByIndexGlobal:
			return nil, m.wrapErr(fmt.Errorf("vm: global array indexing is not used by any emitted program"))

		case compiler.Slice:
			arrayLen := int(instr.Operands[0])
			sliceLen := int(instr.Operands[1])
			all := m.popN(arrayLen)
			for _, v := range all[:sliceLen] {
				m.push(v)
			}

		case compiler.Add, compiler.Sub, compiler.Mul, compiler.Div, compiler.Rem,
			compiler.BitAnd, compiler.BitOr, compiler.BitXor,
			compiler.BitShiftLeft, compiler.BitShiftRight,
			compiler.And, compiler.Or, compiler.Xor,
			compiler.Lt, compiler.Le, compiler.Gt, compiler.Ge, compiler.Eq, compiler.Ne:
			r, err := m.binOp(instr.Op)
			if err != nil {
				return nil, m.wrapErr(err)
			}
			m.push(r)

		case compiler.Neg, compiler.Not, compiler.BitNot:
			r, err := m.unOp(instr.Op)
			if err != nil {
				return nil, m.wrapErr(err)
			}
			m.push(r)

		case compiler.If:
			cond := m.pop()
			m.frames = append(m.frames, blockFrame{kind: frameIf, savedMask: m.mask, cond: cond})
			m.mask = gadget.BooleanAnd(m.cs, m.mask, cond)

		case compiler.Else:
			f := &m.frames[len(m.frames)-1]
			m.mask = gadget.BooleanAnd(m.cs, f.savedMask, gadget.BooleanNot(m.cs, f.cond))

		case compiler.EndIf:
			f := m.frames[len(m.frames)-1]
			m.frames = m.frames[:len(m.frames)-1]
			m.mask = f.savedMask

		case compiler.LoopBegin:
			m.frames = append(m.frames, blockFrame{kind: frameLoop})
		case compiler.LoopEnd:
			m.frames = m.frames[:len(m.frames)-1]

		case compiler.Call:
			addr := int(instr.Operands[0])
			nArgs := int(instr.Operands[1])
			args := m.popN(nArgs)
			base := len(m.data)
			m.data = append(m.data, args...)
			m.calls = append(m.calls, callFrame{returnPC: next, dataBase: base, savedMask: m.mask})
			m.pc = addr
			jumped = true

		case compiler.Return:
			nResults := int(instr.Operands[0])
			results := m.popN(nResults)
			f := m.calls[len(m.calls)-1]
			m.calls = m.calls[:len(m.calls)-1]
			m.data = m.data[:f.dataBase]
			m.mask = f.savedMask
			for _, r := range results {
				m.push(r)
			}
			m.pc = f.returnPC
			jumped = true

		case compiler.Exit:
			nOutputs := int(instr.Operands[0])
			results := m.popN(nOutputs)
			handles, err := m.finalize(results)
			if err != nil {
				return nil, m.wrapErr(err)
			}
			return handles, nil

		case compiler.Assert:
			msgIdx := instr.Operands[0]
			cond := m.pop()
			guarded := gadget.BooleanOr(m.cs, cond, gadget.BooleanNot(m.cs, m.mask))
			msg := ""
			if msgIdx > 0 && int(msgIdx) < len(m.prog.Messages) {
				msg = m.prog.Messages[msgIdx]
			}
			if err := gadget.Assert(m.cs, guarded, msg); err != nil {
				return nil, m.wrapErr(err)
			}

		case compiler.Dbg:
			fmtIdx := instr.Operands[0]
			nArgs := int(instr.Operands[1])
			args := m.popN(nArgs)
			if m.dbg != nil {
				m.dbg(renderDbg(m.prog.Messages[fmtIdx], args))
			}

		case compiler.Cast:
			t := m.prog.Constants[instr.Operands[0]].Type
			v := m.pop()
			r, err := m.cast(v, t)
			if err != nil {
				return nil, m.wrapErr(err)
			}
			m.push(r)

		case compiler.CallBuiltin:
			builtin := compiler.BuiltinID(instr.Operands[0])
			nArgs := int(instr.Operands[1])
			args := m.popN(nArgs)
			results, err := m.callBuiltin(builtin, args)
			if err != nil {
				return nil, m.wrapErr(err)
			}
			for _, r := range results {
				m.push(r)
			}

		default:
			return nil, m.wrapErr(fmt.Errorf("vm: unhandled opcode %s", instr.Op))
		}

		if !jumped {
			m.pc = next
		}
	}
}

func (m *Machine) applyMarker(instr compiler.Instruction) {
	switch instr.Op {
	case compiler.FileMarker:
		if int(instr.Operands[0]) < len(m.prog.Messages) {
			m.loc.File = m.prog.Messages[instr.Operands[0]]
		}
	case compiler.FunctionMarker:
		if int(instr.Operands[0]) < len(m.prog.Messages) {
			m.loc.Function = m.prog.Messages[instr.Operands[0]]
		}
	case compiler.LineMarker:
		m.loc.Line = int(instr.Operands[0])
	case compiler.ColumnMarker:
		m.loc.Col = int(instr.Operands[0])
	}
}

func renderDbg(format string, args []scalar.Scalar) string {
	vals := make([]interface{}, len(args))
	for i, a := range args {
		if v, ok := a.Value(); ok {
			vals[i] = v.String()
		} else {
			vals[i] = "?"
		}
	}
	return fmt.Sprintf(format, vals...)
}

// finalize allocates a public-input handle for every output scalar (spec
// §4.5.4): a Constant output is allocated with its known value directly; a
// Variable output is allocated fresh and constrained equal to the witness
// value already computed for it, so the proof's public inputs are always
// freshly-allocated handles rather than aliases into the witness-only
// allocation a gadget made internally.
func (m *Machine) finalize(results []scalar.Scalar) ([]constraint.Handle, error) {
	handles := make([]constraint.Handle, len(results))
	for i, r := range results {
		if r.IsConstant() {
			v := r.GetConstant()
			h := m.cs.AllocateInput(fmt.Sprintf("output.%d", i), func() field.Element { return v })
			handles[i] = h
			continue
		}
		rv, _ := r.Value()
		h := m.cs.AllocateInput(fmt.Sprintf("output.%d", i), func() field.Element { return rv })
		m.cs.Enforce("output.equality", r.ToLinearCombination(), constraint.Const(field.One()), constraint.Var(h))
		handles[i] = h
	}
	return handles, nil
}
