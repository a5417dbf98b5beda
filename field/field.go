// Package field implements the scalar/field arithmetic wrapper described by
// spec §4.2 (component A): big-integer <-> field-element conversion and the
// (bitlength, signed, boolean, field) tagging that every scalar carries.
// Element wraps gnark-crypto's bn254 scalar field, the same engine the
// default groth16/bn254 proving system (wired in package facade) uses, so a
// constant folded at analysis time and a witness value produced by the
// prover live in the same field without any cross-engine conversion step.
package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Modulus is the bn254 scalar field's prime modulus.
var Modulus = fr.Modulus()

// Element is one value of the scalar field, the concrete payload behind
// every Constant scalar and every Variable scalar's witness assignment.
type Element struct {
	v fr.Element
}

// Zero and One are the additive and multiplicative identities.
func Zero() Element { return Element{} }
func One() Element {
	var e Element
	e.v.SetOne()
	return e
}

// BigIntToField returns the field element congruent to n mod p, following
// spec §4.2's signed-value convention: negative n map to p+n mod p (gnark's
// SetBigInt already reduces mod p for any sign of n, so this never fails -
// unlike a fixed-bitlength representation there is no "doesn't fit" case
// for a value already reduced into the field).
func BigIntToField(n *big.Int) Element {
	var e Element
	e.v.SetBigInt(n)
	return e
}

// FieldToSignedBigInt interprets fe using spec §4.2's convention: values in
// the upper half of the field (>= p/2) are taken as negative, i.e. as
// fe - p.
func FieldToSignedBigInt(fe Element) *big.Int {
	n := new(big.Int)
	fe.v.BigInt(n)
	half := new(big.Int).Rsh(Modulus, 1)
	if n.Cmp(half) >= 0 {
		n.Sub(n, Modulus)
	}
	return n
}

// Uint64 returns fe reduced to a uint64, for index-time (get_constant_usize)
// use; callers must first establish the value actually fits.
func (e Element) Uint64() uint64 {
	var n big.Int
	e.v.BigInt(&n)
	return n.Uint64()
}

// BigInt returns the unsigned representative of e in [0, p).
func (e Element) BigInt() *big.Int {
	var n big.Int
	e.v.BigInt(&n)
	return &n
}

func (e Element) Add(o Element) Element { var r Element; r.v.Add(&e.v, &o.v); return r }
func (e Element) Sub(o Element) Element { var r Element; r.v.Sub(&e.v, &o.v); return r }
func (e Element) Mul(o Element) Element { var r Element; r.v.Mul(&e.v, &o.v); return r }
func (e Element) Neg() Element          { var r Element; r.v.Neg(&e.v); return r }

// Inverse returns (1/e, true), or (zero, false) if e is zero (spec §4.3's
// inverse gadget contract: "fails if x=0").
func (e Element) Inverse() (Element, bool) {
	if e.v.IsZero() {
		return Element{}, false
	}
	var r Element
	r.v.Inverse(&e.v)
	return r, true
}

func (e Element) IsZero() bool       { return e.v.IsZero() }
func (e Element) Equal(o Element) bool { return e.v.Equal(&o.v) }
func (e Element) String() string     { return e.v.String() }

// Bit returns the i'th bit (0 = least significant) of e's unsigned [0, p)
// representative.
func (e Element) Bit(i int) uint {
	return uint(e.BigInt().Bit(i))
}

// FromBool encodes a Go bool as the field element 0 or 1.
func FromBool(b bool) Element {
	if b {
		return One()
	}
	return Zero()
}

// FromUint64 lifts a Go uint64 into the field.
func FromUint64(n uint64) Element {
	var e Element
	e.v.SetUint64(n)
	return e
}
