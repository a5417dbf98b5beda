// Package facade implements the run/debug/setup/prove/verify entry points
// of spec §6.2 (component I; compile lives in internal/maincmd), each
// wiring the right constraint.System variant to package vm, and
// setup/prove/verify further
// down to gnark's groth16/bn254 backend. JSON encoding of inputs/outputs
// follows spec §6.3: unit -> null, booleans -> bool, integers -> decimal
// string, arrays -> JSON arrays, structs -> objects by field name, tuples
// -> arrays, enums -> integer values; flattening order is depth-first,
// field order as declared.
package facade

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/compiler"
	"github.com/zinclang/zinc/lang/types"
)

// flattenedValue is one depth-first leaf of a decoded JSON value: its
// field-element encoding plus the scalar type the program's TypeTag
// declared for that position.
type flattenedValue struct {
	Value field.Element
	Type  types.Type
}

// DecodeJSON parses raw JSON per tag's shape and flattens it depth-first
// into the leaf scalar values the VM's data stack expects as its initial
// frame.
func DecodeJSON(tag compiler.TypeTag, raw []byte) ([]flattenedValue, error) {
	var v interface{}
	if len(raw) == 0 {
		raw = []byte("null")
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("facade: invalid JSON input: %w", err)
	}
	var out []flattenedValue
	if err := flatten(tag, v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(tag compiler.TypeTag, v interface{}, out *[]flattenedValue) error {
	switch tag.Kind {
	case compiler.TagUnit:
		return nil

	case compiler.TagScalar:
		fv, err := scalarFromJSON(tag.Scalar, v)
		if err != nil {
			return err
		}
		*out = append(*out, flattenedValue{Value: fv, Type: tag.Scalar})
		return nil

	case compiler.TagArray:
		items, ok := v.([]interface{})
		if !ok {
			return fmt.Errorf("facade: expected a JSON array for %s", tag.Elem.Scalar)
		}
		if len(items) != tag.Len {
			return fmt.Errorf("facade: array length mismatch: want %d, got %d", tag.Len, len(items))
		}
		for _, item := range items {
			if err := flatten(*tag.Elem, item, out); err != nil {
				return err
			}
		}
		return nil

	case compiler.TagTuple:
		items, ok := v.([]interface{})
		if !ok || len(items) != len(tag.Fields) {
			return fmt.Errorf("facade: expected a %d-element JSON array for tuple", len(tag.Fields))
		}
		for i, f := range tag.Fields {
			if err := flatten(f, items[i], out); err != nil {
				return err
			}
		}
		return nil

	case compiler.TagStruct:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return fmt.Errorf("facade: expected a JSON object for struct")
		}
		for i, f := range tag.Fields {
			name := tag.Names[i]
			fv, present := obj[name]
			if !present {
				return fmt.Errorf("facade: missing struct field %q", name)
			}
			if err := flatten(f, fv, out); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("facade: unknown type tag kind %d", tag.Kind)
}

func scalarFromJSON(t types.Type, v interface{}) (field.Element, error) {
	switch t.(type) {
	case types.Boolean:
		b, ok := v.(bool)
		if !ok {
			return field.Element{}, fmt.Errorf("facade: expected a JSON boolean")
		}
		return field.FromBool(b), nil
	default:
		s, ok := v.(string)
		if !ok {
			if n, isNum := v.(float64); isNum {
				s = big.NewFloat(n).Text('f', 0)
			} else {
				return field.Element{}, fmt.Errorf("facade: expected a decimal string")
			}
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return field.Element{}, fmt.Errorf("facade: invalid decimal integer %q", s)
		}
		if types.IsSigned(t) && n.Sign() < 0 {
			mod := new(big.Int).Set(field.Modulus)
			n = new(big.Int).Mod(n, mod)
		}
		return field.BigIntToField(n), nil
	}
}

// EncodeJSON reconstructs a JSON value from the flat, depth-first list of
// output leaf values per tag's shape (the inverse of DecodeJSON).
func EncodeJSON(tag compiler.TypeTag, values []field.Element) ([]byte, error) {
	v, rest, err := rebuild(tag, values)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("facade: %d unconsumed output values", len(rest))
	}
	return json.Marshal(v)
}

func rebuild(tag compiler.TypeTag, values []field.Element) (interface{}, []field.Element, error) {
	switch tag.Kind {
	case compiler.TagUnit:
		return nil, values, nil

	case compiler.TagScalar:
		if len(values) == 0 {
			return nil, nil, fmt.Errorf("facade: not enough output values")
		}
		return scalarToJSON(tag.Scalar, values[0]), values[1:], nil

	case compiler.TagArray:
		items := make([]interface{}, tag.Len)
		rest := values
		for i := 0; i < tag.Len; i++ {
			var v interface{}
			var err error
			v, rest, err = rebuild(*tag.Elem, rest)
			if err != nil {
				return nil, nil, err
			}
			items[i] = v
		}
		return items, rest, nil

	case compiler.TagTuple:
		items := make([]interface{}, len(tag.Fields))
		rest := values
		for i, f := range tag.Fields {
			var v interface{}
			var err error
			v, rest, err = rebuild(f, rest)
			if err != nil {
				return nil, nil, err
			}
			items[i] = v
		}
		return items, rest, nil

	case compiler.TagStruct:
		obj := make(map[string]interface{}, len(tag.Fields))
		rest := values
		for i, f := range tag.Fields {
			var v interface{}
			var err error
			v, rest, err = rebuild(f, rest)
			if err != nil {
				return nil, nil, err
			}
			obj[tag.Names[i]] = v
		}
		return obj, rest, nil
	}
	return nil, nil, fmt.Errorf("facade: unknown type tag kind %d", tag.Kind)
}

func scalarToJSON(t types.Type, v field.Element) interface{} {
	if _, ok := t.(types.Boolean); ok {
		return !v.IsZero()
	}
	if _, ok := t.(types.Enum); ok {
		return json.Number(v.BigInt().String())
	}
	if types.IsSigned(t) {
		return field.FieldToSignedBigInt(v).String()
	}
	return v.BigInt().String()
}
