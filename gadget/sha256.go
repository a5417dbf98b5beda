package gadget

import (
	mathbits "math/bits"

	"github.com/zinclang/zinc/constraint"
	"github.com/zinclang/zinc/field"
	"github.com/zinclang/zinc/lang/types"
	"github.com/zinclang/zinc/scalar"
)

// sha256K are the 64 round constants of FIPS-180-4 section 4.2.2.
var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

var sha256H0 = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a, 0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// word is a 32-bit value carried as its big-endian boolean decomposition,
// the representation that makes rotation/shift/xor free (index
// permutation / per-bit boolean ops) at the cost of reconstructing a field
// element whenever an addition needs one.
type word [32]scalar.Scalar

func wordFromBits(bits []scalar.Scalar) word {
	var w word
	copy(w[:], bits)
	return w
}

func constWord(v uint32) word {
	var w word
	for i := 0; i < 32; i++ {
		bit := (v >> uint(31-i)) & 1
		w[i] = scalar.Const(field.FromBool(bit != 0), types.Boolean{})
	}
	return w
}

func rotr(w word, n int) word {
	var out word
	for i := 0; i < 32; i++ {
		out[i] = w[(i-n+32*4)%32]
	}
	return out
}

func shr(cs constraint.System, w word, n int) word {
	var out word
	zero := scalar.Const(field.Zero(), types.Boolean{})
	for i := 0; i < n; i++ {
		out[i] = zero
	}
	for i := n; i < 32; i++ {
		out[i] = w[i-n]
	}
	return out
}

func xorWords(cs constraint.System, a, b word) word {
	var out word
	for i := range a {
		out[i] = BooleanXor(cs, a[i], b[i])
	}
	return out
}

func xor3Words(cs constraint.System, a, b, c word) word {
	return xorWords(cs, xorWords(cs, a, b), c)
}

// majority implements FIPS-180-4's Maj(x,y,z) = (x&y) xor (x&z) xor (y&z).
func majority(cs constraint.System, x, y, z word) word {
	var out word
	for i := range x {
		xy := BooleanAnd(cs, x[i], y[i])
		xz := BooleanAnd(cs, x[i], z[i])
		yz := BooleanAnd(cs, y[i], z[i])
		out[i] = BooleanXor(cs, BooleanXor(cs, xy, xz), yz)
	}
	return out
}

// choose implements FIPS-180-4's Ch(x,y,z) = (x&y) xor (~x&z).
func choose(cs constraint.System, x, y, z word) word {
	var out word
	for i := range x {
		xy := BooleanAnd(cs, x[i], y[i])
		notX := BooleanNot(cs, x[i])
		notXZ := BooleanAnd(cs, notX, z[i])
		out[i] = BooleanXor(cs, xy, notXZ)
	}
	return out
}

func bigSigma0(cs constraint.System, w word) word {
	return xor3Words(cs, rotr(w, 2), rotr(w, 13), rotr(w, 22))
}

func bigSigma1(cs constraint.System, w word) word {
	return xor3Words(cs, rotr(w, 6), rotr(w, 11), rotr(w, 25))
}

func smallSigma0(cs constraint.System, w word) word {
	return xor3Words(cs, rotr(w, 7), rotr(w, 18), shr(cs, w, 3))
}

func smallSigma1(cs constraint.System, w word) word {
	return xor3Words(cs, rotr(w, 17), rotr(w, 19), shr(cs, w, 10))
}

// addMod32 adds the given words modulo 2^32 and records the defining
// identity (sum of field values = recomposed value, low 32 bits kept) in
// acc rather than emitting its own constraint immediately, letting the
// caller batch several additions' equalities into one multi-equality flush
// (spec §4.3.1) - this is exactly the "maj/ch/sigma helpers share
// sub-additions via a multi-equality deferred-addition accumulator"
// behavior spec §4.3 calls out.
func addMod32(cs constraint.System, acc *MultiEqualityAccumulator, words ...word) word {
	sum := FromBitsField(cs, fieldBitsOf(words[0]))
	for _, w := range words[1:] {
		sum = Add(cs, sum, FromBitsField(cs, fieldBitsOf(w)), types.Field{})
	}
	// Summing n 32-bit words before truncation can carry up to n-1 into bit
	// 32 and above, so the decomposition needs ceil(log2(n)) extra high bits
	// on top of the 32 low bits being recovered; t1's 5-operand sum is the
	// widest case the compression function performs.
	carryBits := carryBitsFor(len(words))
	total := 32 + carryBits
	bits := ToBits(cs, sum, total, false)
	low32 := bits[carryBits:]
	acc.Push(sum.ToLinearCombination(), recomposeLC(bits, total), total)
	return wordFromBits(low32)
}

func fieldBitsOf(w word) []scalar.Scalar { return w[:] }

// carryBitsFor returns how many bits above the low 32 a sum of n 32-bit
// words can carry into, i.e. ceil(log2(n)) with a floor of 1.
func carryBitsFor(n int) int {
	if n <= 1 {
		return 1
	}
	return mathbits.Len(uint(n - 1))
}

// recomposeLC rebuilds the linear combination represented by allBits (a
// big-endian boolean decomposition of width totalBits), so addMod32's
// deferred equality reads "full sum = the value ToBits already decomposed
// it into", matching what ToBits's own recompose constraint enforced; this
// lets the accumulator batch the high-level identity across many additions
// while ToBits still certifies bit-validity per call.
func recomposeLC(allBits []scalar.Scalar, totalBits int) constraint.LinearCombination {
	lc := constraint.LinearCombination{}
	for i, b := range allBits {
		weight := field.FromUint64(uint64(1) << uint(totalBits-1-i))
		lc.Terms = append(lc.Terms, scaleTerms(b.ToLinearCombination(), weight)...)
	}
	return lc
}

// Sha256 implements spec §4.3 stdlib's sha256(bits): input length must be
// a multiple of 8; message padding per FIPS-180-4 is part of the gadget;
// output is 256 big-endian boolean scalars.
func Sha256(cs constraint.System, message []scalar.Scalar) ([]scalar.Scalar, error) {
	if len(message)%8 != 0 {
		return nil, ErrWitnessArrayIndex
	}
	padded := padMessage(message)

	h := make([]word, 8)
	for i, v := range sha256H0 {
		h[i] = constWord(v)
	}

	acc := NewMultiEqualityAccumulator(cs)
	defer acc.Close()

	for block := 0; block+512 <= len(padded); block += 512 {
		chunk := padded[block : block+512]
		w := make([]word, 64)
		for i := 0; i < 16; i++ {
			w[i] = wordFromBits(chunk[i*32 : i*32+32])
		}
		for i := 16; i < 64; i++ {
			s0 := smallSigma0(cs, w[i-15])
			s1 := smallSigma1(cs, w[i-2])
			w[i] = addMod32(cs, acc, w[i-16], s0, w[i-7], s1)
		}

		a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
		for i := 0; i < 64; i++ {
			t1 := addMod32(cs, acc, hh, bigSigma1(cs, e), choose(cs, e, f, g), constWord(sha256K[i]), w[i])
			t2 := addMod32(cs, acc, bigSigma0(cs, a), majority(cs, a, b, c))
			hh = g
			g = f
			f = e
			e = addMod32(cs, acc, d, t1)
			d = c
			c = b
			b = a
			a = addMod32(cs, acc, t1, t2)
		}

		h[0] = addMod32(cs, acc, h[0], a)
		h[1] = addMod32(cs, acc, h[1], b)
		h[2] = addMod32(cs, acc, h[2], c)
		h[3] = addMod32(cs, acc, h[3], d)
		h[4] = addMod32(cs, acc, h[4], e)
		h[5] = addMod32(cs, acc, h[5], f)
		h[6] = addMod32(cs, acc, h[6], g)
		h[7] = addMod32(cs, acc, h[7], hh)
	}

	out := make([]scalar.Scalar, 0, 256)
	for _, hw := range h {
		out = append(out, hw[:]...)
	}
	return out, nil
}

// padMessage applies FIPS-180-4's bit padding: append a 1 bit, zero bits
// until length is congruent to 448 mod 512, then the 64-bit big-endian
// message length.
func padMessage(message []scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, len(message))
	copy(out, message)
	out = append(out, scalar.Const(field.One(), types.Boolean{}))
	for (len(out)+64)%512 != 0 {
		out = append(out, scalar.Const(field.Zero(), types.Boolean{}))
	}
	length := uint64(len(message))
	for i := 63; i >= 0; i-- {
		bit := (length >> uint(i)) & 1
		out = append(out, scalar.Const(field.FromBool(bit != 0), types.Boolean{}))
	}
	return out
}
