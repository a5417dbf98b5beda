package semantic

import (
	"math/big"

	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/types"
)

// ConstKind discriminates the shape of a compile-time Const value (spec
// §4.6 item 3: "a Constant element carries a fully evaluated value (Unit |
// Boolean | Integer | String | Range | RangeInclusive)").
type ConstKind uint8

const (
	ConstUnit ConstKind = iota
	ConstBool
	ConstInt
	ConstString
	ConstRange
	ConstRangeInclusive
)

// Const is a fully compile-time-evaluated value produced by constant
// folding.
type Const struct {
	Kind ConstKind
	Type types.Type

	Bool bool
	Int  *big.Int
	Str  string
	Lo   *big.Int // Kind == ConstRange/ConstRangeInclusive
	Hi   *big.Int
}

// Field converts an Int/Bool Const to its field representation (needed to
// seed a scalar.Const when the value flows into an expression position).
func (c Const) Field() field.Element {
	switch c.Kind {
	case ConstBool:
		return field.FromBool(c.Bool)
	case ConstInt:
		return field.BigIntToField(c.Int)
	default:
		return field.Zero()
	}
}

// Iterate returns the sequence of big.Int values a Range/RangeInclusive
// Const denotes, for `for i in range` unrolling (spec §4.6 item 5).
func (c Const) Iterate() []*big.Int {
	if c.Kind != ConstRange && c.Kind != ConstRangeInclusive {
		return nil
	}
	hi := new(big.Int).Set(c.Hi)
	if c.Kind == ConstRangeInclusive {
		hi.Add(hi, big.NewInt(1))
	}
	var out []*big.Int
	for i := new(big.Int).Set(c.Lo); i.Cmp(hi) < 0; i.Add(i, big.NewInt(1)) {
		out = append(out, new(big.Int).Set(i))
	}
	return out
}
