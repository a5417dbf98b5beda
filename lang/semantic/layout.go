package semantic

import "github.com/zinclang/zinc/lang/types"

// flatLen returns the number of consecutive data-stack cells a value of
// type t occupies once flattened (spec §6.3's depth-first, declared-field-
// order flattening). Scalars occupy exactly one cell; Unit/String/Range/
// RangeInclusive occupy zero, since they never reach the data stack (they
// exist only as compile-time Const values).
func flatLen(t types.Type) int {
	switch tt := t.(type) {
	case types.Unit, types.String, types.Range, types.RangeInclusive:
		return 0
	case types.Array:
		return flatLen(tt.Elem) * tt.Len
	case types.Tuple:
		n := 0
		for _, e := range tt.Elems {
			n += flatLen(e)
		}
		return n
	case types.Struct:
		n := 0
		for _, f := range tt.Fields {
			n += flatLen(f.Type)
		}
		return n
	default:
		// Boolean, Field, Int, Uint
		return 1
	}
}

// fieldOffset returns the flattened cell offset of field index i within a
// Struct/Tuple type's layout, for FieldExpr generation.
func fieldOffset(t types.Type, i int) int {
	off := 0
	switch tt := t.(type) {
	case types.Tuple:
		for j := 0; j < i; j++ {
			off += flatLen(tt.Elems[j])
		}
	case types.Struct:
		for j := 0; j < i; j++ {
			off += flatLen(tt.Fields[j].Type)
		}
	}
	return off
}
