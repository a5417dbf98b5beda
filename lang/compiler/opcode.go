// Package compiler implements the bytecode instruction set (spec §4.4,
// component D) and the Builder/Decode assembler the generator in
// lang/semantic emits it through. The opcode table and VLQ operand encoding
// follow the teacher's lang/compiler/opcode.go and asm.go layout and
// addUint32 encoding, generalized from the teacher's stack-machine op set
// to Zinc's arithmetic/constraint-oriented one.
package compiler

import "fmt"

// Version is bumped whenever the encoding changes incompatibly, forcing
// recompilation of saved bytecode images.
const Version = 0

// Op is one bytecode opcode.
type Op uint8

const (
	NOP Op = iota

	// stack / memory (spec §4.4 group 1)
	PushConst // operand: constant-pool index
	Pop       // operand: n
	Swap
	Tee
	Load                 // operand: addr
	Store                // operand: addr
	LoadSequence         // operands: addr, len
	StoreSequence        // operands: addr, len
	LoadByIndex          // operands: addr, len
	StoreByIndex         // operands: addr, len
	LoadSequenceByIndex  // operands: addr, arrLen, valLen
	StoreSequenceByIndex // operands: addr, arrLen, valLen
	LoadGlobal
	StoreGlobal
	LoadSequenceGlobal
	StoreSequenceGlobal
	LoadByIndexGlobal
	StoreByIndexGlobal
	LoadSequenceByIndexGlobal
	StoreSequenceByIndexGlobal
	Slice // operands: arrayLen, sliceLen

	// arithmetic / logic (spec §4.4 group 2)
	Add
	Sub
	Mul
	Div
	Rem
	Neg
	And
	Or
	Xor
	Not
	BitAnd
	BitOr
	BitXor
	BitNot
	BitShiftLeft
	BitShiftRight

	// comparison (spec §4.4 group 3) - order deliberately mirrors
	// token.Token's comparison group (LT..NEQ); the generator maps a
	// BinOpExpr's token to its opcode through lang/semantic's binOpcode table.
	Lt
	Le
	Gt
	Ge
	Eq
	Ne

	// control (spec §4.4 group 4)
	If // operand: none (pops bool)
	Else
	EndIf
	LoopBegin // operand: iters
	LoopEnd
	Call   // operands: addr, nArgs
	Return // operand: nResults
	Exit   // operand: nOutputs
	Assert // operand: message-pool index (0 = no message)
	Dbg    // operands: format-pool index, nArgs

	// type (spec §4.4 group 5)
	Cast // operand: type-pool index

	// builtins (spec §4.4 group 6)
	CallBuiltin // operands: builtinID, nArgs

	// markers (spec §4.4 group 7) - no stack effect, update VM location
	// state for diagnostics only.
	FileMarker     // operand: file id
	FunctionMarker // operand: function id
	LineMarker     // operand: line
	ColumnMarker   // operand: col

	opMax
)

// BuiltinID enumerates the CallBuiltin targets of spec §4.4.
type BuiltinID uint8

const (
	CryptoSha256 BuiltinID = iota
	FieldInverse
	ToBits
	UnsignedFromBits
	SignedFromBits
	FieldFromBits
	ArrayReverse
	ArrayTruncate
	ArrayPad
)

// numOperands gives the fixed operand count for each opcode; opcodes not
// listed take zero operands.
var numOperands = [...]int{
	PushConst:                  1,
	Pop:                        1,
	Load:                       1,
	Store:                      1,
	LoadSequence:               2,
	StoreSequence:              2,
	LoadByIndex:                2,
	StoreByIndex:               2,
	LoadSequenceByIndex:        3,
	StoreSequenceByIndex:       3,
	LoadGlobal:                 1,
	StoreGlobal:                1,
	LoadSequenceGlobal:         2,
	StoreSequenceGlobal:        2,
	LoadByIndexGlobal:          2,
	StoreByIndexGlobal:         2,
	LoadSequenceByIndexGlobal:  3,
	StoreSequenceByIndexGlobal: 3,
	Slice:                      2,
	LoopBegin:                  1,
	Call:                       2,
	Return:                     1,
	Exit:                       1,
	Assert:                     1,
	Dbg:                        2,
	Cast:                       1,
	CallBuiltin:                2,
	FileMarker:                 1,
	FunctionMarker:             1,
	LineMarker:                 1,
	ColumnMarker:               1,
}

// OperandCount returns how many VLQ-encoded operands op carries.
func (op Op) OperandCount() int {
	if int(op) < len(numOperands) {
		return numOperands[op]
	}
	return 0
}

var opNames = [...]string{
	NOP: "nop", PushConst: "push_const", Pop: "pop", Swap: "swap", Tee: "tee",
	Load: "load", Store: "store", LoadSequence: "load_sequence", StoreSequence: "store_sequence",
	LoadByIndex: "load_by_index", StoreByIndex: "store_by_index",
	LoadSequenceByIndex: "load_sequence_by_index", StoreSequenceByIndex: "store_sequence_by_index",
	LoadGlobal: "load_global", StoreGlobal: "store_global",
	LoadSequenceGlobal: "load_sequence_global", StoreSequenceGlobal: "store_sequence_global",
	LoadByIndexGlobal: "load_by_index_global", StoreByIndexGlobal: "store_by_index_global",
	LoadSequenceByIndexGlobal: "load_sequence_by_index_global", StoreSequenceByIndexGlobal: "store_sequence_by_index_global",
	Slice: "slice",
	Add:   "add", Sub: "sub", Mul: "mul", Div: "div", Rem: "rem", Neg: "neg",
	And: "and", Or: "or", Xor: "xor", Not: "not",
	BitAnd: "bit_and", BitOr: "bit_or", BitXor: "bit_xor", BitNot: "bit_not",
	BitShiftLeft: "bit_shl", BitShiftRight: "bit_shr",
	Lt: "lt", Le: "le", Gt: "gt", Ge: "ge", Eq: "eq", Ne: "ne",
	If: "if", Else: "else", EndIf: "end_if", LoopBegin: "loop_begin", LoopEnd: "loop_end",
	Call: "call", Return: "return", Exit: "exit", Assert: "assert", Dbg: "dbg",
	Cast: "cast", CallBuiltin: "call_builtin",
	FileMarker: "file_marker", FunctionMarker: "function_marker",
	LineMarker: "line_marker", ColumnMarker: "column_marker",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// varArgLen returns the number of bytes required to VLQ-encode x.
func varArgLen(x uint32) int {
	n := 1
	for x >= 0x80 {
		n++
		x >>= 7
	}
	return n
}

// addUint32 appends x to code as a 7-bit little-endian varint (the high
// bit of each byte signals continuation), matching the teacher's
// addUint32 encoding.
func addUint32(code []byte, x uint32) []byte {
	for x >= 0x80 {
		code = append(code, byte(x)|0x80)
		x >>= 7
	}
	return append(code, byte(x))
}
