package bits

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"

	"golang.org/x/crypto/sha3"

	"github.com/f3rmion/thresh/codec"
)

// prgContext is the cSHAKE customization string of the expansion PRG.
const prgContext = "thresh correlated OT PRG"

// BitMatrix is an ordered collection of rows of equal width.
type BitMatrix struct {
	width Width
	rows  []BitVector
}

// NewMatrix returns a matrix of the given rows, all of which must have
// width w.
func NewMatrix(w Width, rows ...BitVector) (BitMatrix, error) {
	m := BitMatrix{width: w, rows: make([]BitVector, len(rows))}
	for i, r := range rows {
		if r.width != w {
			return BitMatrix{}, fmt.Errorf("%w: row %d has width %d, want %d", ErrWidth, i, r.width, w)
		}
		m.rows[i] = r
	}
	return m, nil
}

// RandomMatrix returns a matrix of height uniformly random rows of width w.
func (w Width) RandomMatrix(r io.Reader, height int) (BitMatrix, error) {
	m := BitMatrix{width: w, rows: make([]BitVector, height)}
	for i := range m.rows {
		v, err := w.Random(r)
		if err != nil {
			return BitMatrix{}, err
		}
		m.rows[i] = v
	}
	return m, nil
}

// Width returns the width of every row.
func (m BitMatrix) Width() Width {
	return m.width
}

// Height returns the number of rows.
func (m BitMatrix) Height() int {
	return len(m.rows)
}

// Row returns row i.
func (m BitMatrix) Row(i int) BitVector {
	return m.rows[i]
}

// Rows iterates over the rows in order.
func (m BitMatrix) Rows() iter.Seq[BitVector] {
	return func(yield func(BitVector) bool) {
		for _, r := range m.rows {
			if !yield(r) {
				return
			}
		}
	}
}

func (m BitMatrix) check(o BitMatrix) error {
	if m.width != o.width {
		return fmt.Errorf("%w: %d and %d", ErrWidth, m.width, o.width)
	}
	if len(m.rows) != len(o.rows) {
		return fmt.Errorf("%w: %d and %d", ErrHeight, len(m.rows), len(o.rows))
	}
	return nil
}

// Xor returns the row-wise XOR of m and o.
func (m BitMatrix) Xor(o BitMatrix) (BitMatrix, error) {
	if err := m.check(o); err != nil {
		return BitMatrix{}, err
	}
	out := BitMatrix{width: m.width, rows: make([]BitVector, len(m.rows))}
	for i := range m.rows {
		out.rows[i] = m.rows[i].Xor(o.rows[i])
	}
	return out, nil
}

// AndVector returns m with every row ANDed with v.
func (m BitMatrix) AndVector(v BitVector) (BitMatrix, error) {
	if v.width != m.width {
		return BitMatrix{}, fmt.Errorf("%w: %d and %d", ErrWidth, m.width, v.width)
	}
	out := BitMatrix{width: m.width, rows: make([]BitVector, len(m.rows))}
	for i := range m.rows {
		out.rows[i] = m.rows[i].And(v)
	}
	return out, nil
}

// Equal reports whether m and o have the same shape and bits.
func (m BitMatrix) Equal(o BitMatrix) bool {
	if m.check(o) != nil {
		return false
	}
	eq := true
	for i := range m.rows {
		eq = m.rows[i].Equal(o.rows[i]) && eq
	}
	return eq
}

// Bytes returns the canonical encoding of m.
func (m BitMatrix) Bytes() []byte {
	rows := make([][]byte, len(m.rows))
	for i, r := range m.rows {
		rows[i] = r.Bytes()
	}
	return codec.Repeated(rows)
}

// DecodeMatrix parses a matrix of width w encoded by Bytes.
func DecodeMatrix(w Width, b []byte) (BitMatrix, error) {
	rows, err := codec.DecodeRepeated(b)
	if err != nil {
		return BitMatrix{}, err
	}
	m := BitMatrix{width: w, rows: make([]BitVector, len(rows))}
	for i, r := range rows {
		v, err := w.FromBytes(r)
		if err != nil {
			return BitMatrix{}, fmt.Errorf("row %d: %w", i, err)
		}
		m.rows[i] = v
	}
	return m, nil
}

// SquareBitMatrix is a BitMatrix with exactly as many rows as its width.
type SquareBitMatrix struct {
	m BitMatrix
}

// Square checks that m has exactly w rows of width w.
func (w Width) Square(m BitMatrix) (SquareBitMatrix, error) {
	if m.width != w {
		return SquareBitMatrix{}, fmt.Errorf("%w: %d, want %d", ErrWidth, m.width, w)
	}
	if len(m.rows) != int(w) {
		return SquareBitMatrix{}, fmt.Errorf("%w: %d rows, want %d", ErrNotSquare, len(m.rows), w)
	}
	return SquareBitMatrix{m: m}, nil
}

// Matrix returns the underlying matrix.
func (s SquareBitMatrix) Matrix() BitMatrix {
	return s.m
}

func absorbFramed(h sha3.ShakeHash, data []byte) {
	h.Write(binary.LittleEndian.AppendUint64(nil, uint64(len(data))))
	h.Write(data)
}

// ExpandTranspose stretches every row of s to rows pseudorandom bits and
// returns the transpose: a matrix of rows rows and s.Width() columns in
// which bit j of row i is bit i of the expansion of input row j.
//
// Each expansion is cSHAKE128 keyed with sid and the input row, so the
// output is a deterministic function of (s, sid, rows). Two parties
// holding the same row derive the same column.
func (s SquareBitMatrix) ExpandTranspose(sid []byte, rows int) BitMatrix {
	w := s.m.width
	base := sha3.NewCShake128(nil, []byte(prgContext))
	absorbFramed(base, []byte("sid"))
	absorbFramed(base, sid)

	out := BitMatrix{width: w, rows: make([]BitVector, rows)}
	for i := range out.rows {
		out.rows[i] = w.Zero()
	}

	row8 := (rows + 7) / 8
	expanded := make([]byte, row8)
	for j, row := range s.m.rows {
		prf := base.Clone()
		absorbFramed(prf, []byte("row"))
		for _, u := range row.words {
			prf.Write(binary.LittleEndian.AppendUint64(nil, u))
		}
		prf.Read(expanded)

		for i := range rows {
			bit := uint64(expanded[i/8]>>(i%8)) & 1
			out.rows[i].words[j/64] |= bit << (j % 64)
		}
	}
	return out
}
