package vm

import (
	"fmt"

	"github.com/zinclang/zinc/gadget"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// callBuiltin dispatches CallBuiltin to the corresponding gadget stdlib
// function (spec §4.3 stdlib). Builtins that return a composite value
// (an array of bits, a reshaped array) push every element back onto the
// evaluation stack in order, matching how the generator flattens any
// other multi-cell value.
func (m *Machine) callBuiltin(id compiler.BuiltinID, args []scalar.Scalar) ([]scalar.Scalar, error) {
	switch id {
	case compiler.CryptoSha256:
		return gadget.Sha256(m.cs, args)

	case compiler.FieldInverse:
		r, err := gadget.FieldInverse(m.cs, args[0])
		if err != nil {
			return nil, err
		}
		return []scalar.Scalar{r}, nil

	case compiler.ToBits:
		n, _ := types.Bitlength(args[0].Type)
		return gadget.ToBits(m.cs, args[0], n, types.IsSigned(args[0].Type)), nil

	case compiler.UnsignedFromBits:
		return []scalar.Scalar{gadget.FromBitsUnsigned(m.cs, args, len(args))}, nil

	case compiler.SignedFromBits:
		return []scalar.Scalar{gadget.FromBitsSigned(m.cs, args, len(args))}, nil

	case compiler.FieldFromBits:
		return []scalar.Scalar{gadget.FromBitsField(m.cs, args)}, nil

	case compiler.ArrayReverse:
		return gadget.ArrayReverse(args), nil

	case compiler.ArrayTruncate:
		n := int(args[len(args)-1].GetConstantUsize())
		return gadget.ArrayTruncate(args[:len(args)-1], n), nil

	case compiler.ArrayPad:
		fill := args[len(args)-2]
		n := int(args[len(args)-1].GetConstantUsize())
		return gadget.ArrayPad(args[:len(args)-2], n, fill), nil
	}
	return nil, fmt.Errorf("vm: unknown builtin id %d", id)
}
