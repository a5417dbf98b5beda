package compiler

import "encoding/binary"

// This file implements the bytecode assembler: a linear byte-emitting
// Builder the generator (package lang/semantic) drives one instruction at a
// time, and the decoder the VM (package vm) drives one instruction at a
// time in the other direction. Unlike the teacher's block-graph assembler
// (which threads jmp/cjmp successors between basic blocks and patches jump
// targets after layout), Zinc's control flow needs no compile-time address
// patching for If/Else/EndIf or LoopBegin/LoopEnd: the VM resolves those
// structurally via its block stack at run time (spec §4.5.3), using
// whatever program counter value it observes when it executes them. The
// ONLY forward reference that survives to patch time is Call's target
// function address (spec §4.6 item 10), because a function may be called
// before it is compiled.

// callAddrWidth is the fixed width Call's address operand is always
// encoded at, regardless of its numeric value, so that patching a
// forward-referenced function's address after the fact can never change
// the size (and therefore the addresses) of any other instruction -
// mirroring the teacher's fixed 4-byte jump operand encoding.
const callAddrWidth = 4

// Builder accumulates one Program's instruction stream.
type Builder struct {
	prog    *Program
	code    []byte
	patches []callPatch
}

type callPatch struct {
	offset   int // byte offset of the 4-byte address operand
	funcID   int
}

// NewBuilder creates a Builder targeting prog.
func NewBuilder(prog *Program) *Builder {
	return &Builder{prog: prog}
}

// Pos returns the current byte offset, the address the next-emitted
// instruction will be assigned.
func (b *Builder) Pos() uint32 { return uint32(len(b.code)) }

// Emit appends an instruction with the given already-resolved operands. Op
// must not be Call (use EmitCall for that, since its first operand may
// need later patching).
func (b *Builder) Emit(op Op, operands ...uint32) {
	b.code = append(b.code, byte(op))
	for _, o := range operands {
		b.code = addUint32(b.code, o)
	}
}

// EmitCall emits a Call instruction. If addr is already known (a backward
// or intra-pass reference), pass it directly and placeholder=false. If the
// callee's address is not yet known (a forward reference), pass
// placeholder=true: the address is reserved at its fixed width and
// recorded in funcID-keyed patch list, to be resolved by PatchCall once
// every function's address is known (spec §4.6 item 10's two-pass
// approach).
func (b *Builder) EmitCall(funcID int, addr uint32, nArgs uint32, placeholder bool) {
	b.code = append(b.code, byte(Call))
	offset := len(b.code)
	b.code = addFixedUint32(b.code, addr, callAddrWidth)
	if placeholder {
		b.patches = append(b.patches, callPatch{offset: offset, funcID: funcID})
	}
	b.code = addUint32(b.code, nArgs)
}

// PatchCall resolves every previously-placeholdered Call targeting funcID
// to addr, in place, without touching the surrounding bytes.
func (b *Builder) PatchCall(funcID int, addr uint32) {
	for _, p := range b.patches {
		if p.funcID == funcID {
			putFixedUint32(b.code, p.offset, addr, callAddrWidth)
		}
	}
}

// Finish returns the assembled code; the patch list is left as is
// (callers must have resolved every forward reference first).
func (b *Builder) Finish() []byte {
	return b.code
}

// addFixedUint32 encodes x as a little-endian varint padded with
// continuation-marked zero bytes to exactly width bytes, so its encoded
// size never depends on its value.
func addFixedUint32(code []byte, x uint32, width int) []byte {
	start := len(code)
	code = addUint32(code, x)
	for len(code)-start < width {
		// pad with continuation bytes carrying zero, keeping the varint
		// well-formed: a zero continuation byte followed by the eventual
		// terminator is read as an extra zero-valued higher digit.
		code[len(code)-1] |= 0x80
		code = append(code, 0)
	}
	return code
}

func putFixedUint32(code []byte, offset int, x uint32, width int) {
	tmp := addFixedUint32(nil, x, width)
	copy(code[offset:offset+width], tmp)
}

// Instruction is one decoded bytecode instruction.
type Instruction struct {
	Op       Op
	Operands []uint32
	Size     int // total encoded size in bytes, including the opcode byte
}

// Decode reads the instruction at code[pc:].
func Decode(code []byte, pc int) Instruction {
	op := Op(code[pc])
	n := op.OperandCount()
	if n == 0 {
		return Instruction{Op: op, Size: 1}
	}
	operands := make([]uint32, n)
	offset := pc + 1
	for i := 0; i < n; i++ {
		v, size := binary.Uvarint(code[offset:])
		operands[i] = uint32(v)
		offset += size
	}
	return Instruction{Op: op, Operands: operands, Size: offset - pc}
}
