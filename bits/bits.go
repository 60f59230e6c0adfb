// Package bits provides the fixed-width bit vectors and bit matrices used
// by OT extension, and the expand-transpose kernel that stretches a square
// matrix of base-OT keys into a tall matrix of correlated rows.
//
// Widths are a parameter rather than a constant. Kappa is the width used
// in production; tests may use smaller widths.
package bits

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Kappa is the computational security parameter in bits.
const Kappa Width = 128

var (
	// ErrWidth is returned when operands have different widths or a
	// buffer has the wrong size for a width.
	ErrWidth = errors.New("bits: width mismatch")

	// ErrHeight is returned when matrices have different heights.
	ErrHeight = errors.New("bits: height mismatch")

	// ErrNotSquare is returned when a matrix does not have exactly as many
	// rows as its width.
	ErrNotSquare = errors.New("bits: matrix is not square")
)

// Width is the number of bits in a vector.
type Width int

// Words returns the number of 64-bit words holding w bits.
func (w Width) Words() int {
	return (int(w) + 63) / 64
}

// Bytes returns the number of bytes holding w bits.
func (w Width) Bytes() int {
	return (int(w) + 7) / 8
}

// topMask is the mask of valid bits in the last word.
func (w Width) topMask() uint64 {
	if r := int(w) % 64; r != 0 {
		return 1<<r - 1
	}
	return ^uint64(0)
}

// Zero returns the all-zero vector of width w.
func (w Width) Zero() BitVector {
	return BitVector{width: w, words: make([]uint64, w.Words())}
}

// Random returns a uniformly random vector of width w read from r.
func (w Width) Random(r io.Reader) (BitVector, error) {
	buf := make([]byte, w.Words()*8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return BitVector{}, err
	}
	v := w.Zero()
	for i := range v.words {
		v.words[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	v.words[len(v.words)-1] &= w.topMask()
	return v, nil
}

// FromBytes decodes a vector from exactly w.Bytes() bytes, as little-endian
// 64-bit words. Bits beyond the width must be zero.
func (w Width) FromBytes(b []byte) (BitVector, error) {
	if len(b) != w.Bytes() {
		return BitVector{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrWidth, w.Bytes(), len(b))
	}
	buf := make([]byte, w.Words()*8)
	copy(buf, b)
	v := w.Zero()
	for i := range v.words {
		v.words[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	if v.words[len(v.words)-1]&^w.topMask() != 0 {
		return BitVector{}, fmt.Errorf("%w: bits set beyond width %d", ErrWidth, w)
	}
	return v, nil
}

// BitVector is a vector of Width bits stored in 64-bit words, bit i in
// word i/64 at position i%64. Operations never mutate their receiver.
type BitVector struct {
	width Width
	words []uint64
}

// Width returns the number of bits in v.
func (v BitVector) Width() Width {
	return v.width
}

// Bytes returns the little-endian encoding of v, v.Width().Bytes() long.
func (v BitVector) Bytes() []byte {
	buf := make([]byte, 0, len(v.words)*8)
	for _, u := range v.words {
		buf = binary.LittleEndian.AppendUint64(buf, u)
	}
	return buf[:v.width.Bytes()]
}

// Bit returns bit i as 0 or 1.
func (v BitVector) Bit(i int) int {
	return int(v.words[i/64] >> (i % 64) & 1)
}

// Bits iterates over the bits of v from low to high, yielding 0 or 1 for
// each. The values are computed with shifts and masks only, so they can
// feed ConditionalSelect without a data-dependent branch.
func (v BitVector) Bits() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range int(v.width) {
			if !yield(int(v.words[i/64] >> (i % 64) & 1)) {
				return
			}
		}
	}
}

// Xor returns v XOR o. Both must have the same width.
func (v BitVector) Xor(o BitVector) BitVector {
	out := v.width.Zero()
	for i := range out.words {
		out.words[i] = v.words[i] ^ o.words[i]
	}
	return out
}

// And returns v AND o. Both must have the same width.
func (v BitVector) And(o BitVector) BitVector {
	out := v.width.Zero()
	for i := range out.words {
		out.words[i] = v.words[i] & o.words[i]
	}
	return out
}

// Equal reports whether v and o hold the same bits, in time independent
// of where they differ.
func (v BitVector) Equal(o BitVector) bool {
	if v.width != o.width {
		return false
	}
	var diff uint64
	for i := range v.words {
		diff |= v.words[i] ^ o.words[i]
	}
	return diff == 0
}

// ConditionalSelect returns a when choice is 0 and b when choice is 1,
// without branching on choice. Only the low bit of choice is used.
func ConditionalSelect(a, b BitVector, choice int) BitVector {
	mask := -uint64(choice & 1)
	out := a.width.Zero()
	for i := range out.words {
		out.words[i] = a.words[i] ^ (mask & (a.words[i] ^ b.words[i]))
	}
	return out
}
