package gadget

import "github.com/zinclang/zinc/scalar"

// ArrayGet implements spec §4.3's array_get(arr, i): i MUST be a Constant
// scalar; returns arr[i], else fails with ErrWitnessArrayIndex.
func ArrayGet(arr []scalar.Scalar, i scalar.Scalar) (scalar.Scalar, error) {
	if !i.IsConstant() {
		return scalar.Scalar{}, ErrWitnessArrayIndex
	}
	idx := i.GetConstantUsize()
	if idx >= uint64(len(arr)) {
		return scalar.Scalar{}, ErrIndexOutOfBounds
	}
	return arr[idx], nil
}

// ArraySet implements spec §4.3's array_set(arr, i, v): i MUST be a
// Constant scalar; returns a new array with index i replaced by v.
func ArraySet(arr []scalar.Scalar, i scalar.Scalar, v scalar.Scalar) ([]scalar.Scalar, error) {
	if !i.IsConstant() {
		return nil, ErrWitnessArrayIndex
	}
	idx := i.GetConstantUsize()
	if idx >= uint64(len(arr)) {
		return nil, ErrIndexOutOfBounds
	}
	out := make([]scalar.Scalar, len(arr))
	copy(out, arr)
	out[idx] = v
	return out, nil
}

// ArrayReverse implements spec §4.3 stdlib's array_reverse: a compile-time
// array shape manipulation, length must be constant (it always is - array
// length is part of the static type, not a runtime value).
func ArrayReverse(arr []scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, len(arr))
	for i, v := range arr {
		out[len(arr)-1-i] = v
	}
	return out
}

// ArrayTruncate implements spec §4.3 stdlib's array_truncate: keeps the
// first n elements.
func ArrayTruncate(arr []scalar.Scalar, n int) []scalar.Scalar {
	if n > len(arr) {
		n = len(arr)
	}
	out := make([]scalar.Scalar, n)
	copy(out, arr[:n])
	return out
}

// ArrayPad implements spec §4.3 stdlib's array_pad: appends copies of fill
// until the array reaches length n.
func ArrayPad(arr []scalar.Scalar, n int, fill scalar.Scalar) []scalar.Scalar {
	if n <= len(arr) {
		out := make([]scalar.Scalar, len(arr))
		copy(out, arr)
		return out
	}
	out := make([]scalar.Scalar, n)
	copy(out, arr)
	for i := len(arr); i < n; i++ {
		out[i] = fill
	}
	return out
}
