package compiler

import (
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/types"
)

// TypeTag is the recursive type-descriptor shape of spec §6.1:
// `Unit | Scalar(type) | Struct([(name,type)]) | Tuple([type]) | Array(type, len)`.
// There is no separate Enum kind: an enum value is a TagScalar whose
// Scalar is the types.Enum type. It is the serializable projection of a types.Type the bytecode format
// carries alongside the instruction stream, since types.Type values
// (particularly nominal Struct/Enum) are not self-contained outside the
// analyzer's Interner.
type TypeTag struct {
	Kind   TypeTagKind
	Scalar types.Type // valid when Kind == TagScalar
	Elem   *TypeTag    // valid when Kind == TagArray
	Len    int         // valid when Kind == TagArray
	Fields []TypeTag   // valid when Kind == TagStruct or TagTuple
	Names  []string    // field names, parallel to Fields, when Kind == TagStruct
}

// TypeTagKind discriminates a TypeTag's shape.
type TypeTagKind uint8

const (
	TagUnit TypeTagKind = iota
	TagScalar
	TagStruct
	TagTuple
	TagArray
)

// ConstEntry is one entry of a Program's constant pool: a field value
// tagged with the scalar type it was folded at (spec §4.2: constants carry
// their type so the generator can re-derive a Constant scalar from a
// PushConst operand without re-deriving the type).
type ConstEntry struct {
	Value field.Element
	Type  types.Type
}

// FuncEntry records one function's resolved entry address, used only by
// the disassembler/debugger - the VM itself only ever sees the patched
// Call operand (spec §4.6 item 10: "the generator patches Call(placeholder_id, n)
// into Call(addr, n)").
type FuncEntry struct {
	Name string
	Addr uint32
}

// Program is the bytecode image of spec §6.1: an (input_type, output_type)
// descriptor pair followed by the flattened instruction stream for every
// function in the module (the entry point's body starts at address 0;
// every other function is reachable only via a patched Call).
type Program struct {
	InputType  TypeTag
	OutputType TypeTag

	Code      []byte
	Constants []ConstEntry
	Messages  []string // assert!/dbg! string pool

	Functions []FuncEntry // debug/disassembly aid only
}

// AddConstant interns v/t into the constant pool, returning its index.
func (p *Program) AddConstant(v field.Element, t types.Type) uint32 {
	p.Constants = append(p.Constants, ConstEntry{Value: v, Type: t})
	return uint32(len(p.Constants) - 1)
}

// AddMessage interns s into the message pool, returning its index. Index 0
// is reserved for "no message" (spec §4.4: Assert's operand is a
// "message-pool index (0 = no message)"), so the first real message is
// always added at index 1.
func (p *Program) AddMessage(s string) uint32 {
	if len(p.Messages) == 0 {
		p.Messages = append(p.Messages, "")
	}
	p.Messages = append(p.Messages, s)
	return uint32(len(p.Messages) - 1)
}
