// Package cot implements correlated oblivious transfer extension between
// two parties on top of the protocol substrate.
//
// Both parties start from the result of Width base OTs, where the receiver
// knows two keys per base OT and the sender knows one of them, selected
// by the bits of its secret correlation Delta. Each side expands its keys
// with bits.SquareBitMatrix.ExpandTranspose; the receiver sends one
// matrix, and the outputs satisfy
//
//	Q_i = T_i XOR (X_i AND Delta)
//
// where X is the receiver's choice matrix, T its output and Q the sender's.
package cot

import (
	"github.com/f3rmion/thresh/bits"
	"github.com/f3rmion/thresh/protocol"
)

const roundU uint64 = 0

// Params are the public parameters both parties agree on.
type Params struct {
	// Width is the number of base OTs and the width of every row.
	Width bits.Width
	// Batch is the number of correlated rows produced.
	Batch int
	// SID separates the expansions of different runs that reuse keys.
	SID []byte
}

func (p Params) validate() error {
	if p.Width < 1 {
		return protocol.BadParameters("width must be positive")
	}
	if p.Batch < 1 {
		return protocol.BadParameters("batch must be positive, found: %d", p.Batch)
	}
	return nil
}

func (p Params) checkKeys(keys ...bits.SquareBitMatrix) error {
	for _, k := range keys {
		if k.Matrix().Width() != p.Width {
			return protocol.BadParameters("key width %d does not match %d", k.Matrix().Width(), p.Width)
		}
	}
	return nil
}

// DeltaKeys returns the sender's keys: row j is row j of k1 where bit j of
// delta is set and row j of k0 otherwise. The selection is constant time.
// It stands in for what the sender learns from the base OTs.
func DeltaKeys(w bits.Width, delta bits.BitVector, k0, k1 bits.SquareBitMatrix) (bits.SquareBitMatrix, error) {
	if delta.Width() != w {
		return bits.SquareBitMatrix{}, protocol.BadParameters("delta width %d does not match %d", delta.Width(), w)
	}
	if err := (Params{Width: w}).checkKeys(k0, k1); err != nil {
		return bits.SquareBitMatrix{}, err
	}
	rows := make([]bits.BitVector, 0, int(w))
	j := 0
	for b := range delta.Bits() {
		rows = append(rows, bits.ConditionalSelect(k0.Matrix().Row(j), k1.Matrix().Row(j), b))
		j++
	}
	m, err := bits.NewMatrix(w, rows...)
	if err != nil {
		return bits.SquareBitMatrix{}, err
	}
	return w.Square(m)
}

// Sender returns the sender's protocol. Its output is Q.
func Sender(params Params, delta bits.BitVector, kDelta bits.SquareBitMatrix) (protocol.Protocol[bits.BitMatrix], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if err := params.checkKeys(kDelta); err != nil {
		return nil, err
	}
	if delta.Width() != params.Width {
		return nil, protocol.BadParameters("delta width %d does not match %d", delta.Width(), params.Width)
	}

	return protocol.New(func(c *protocol.Comms) (bits.BitMatrix, error) {
		t := kDelta.ExpandTranspose(params.SID, params.Batch)

		from, msg, err := c.Recv(roundU)
		if err != nil {
			return bits.BitMatrix{}, err
		}
		u, err := bits.DecodeMatrix(params.Width, msg)
		if err != nil {
			return bits.BitMatrix{}, protocol.Malformed(from, "correlation matrix", err)
		}
		if u.Height() != params.Batch {
			return bits.BitMatrix{}, protocol.AssertionFailed(from, "expected %d rows, found %d", params.Batch, u.Height())
		}

		masked, err := u.AndVector(delta)
		if err != nil {
			return bits.BitMatrix{}, err
		}
		return t.Xor(masked)
	}), nil
}

// Receiver returns the receiver's protocol for choice matrix x, which must
// have Batch rows. Its output is T.
func Receiver(params Params, k0, k1 bits.SquareBitMatrix, x bits.BitMatrix) (protocol.Protocol[bits.BitMatrix], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if err := params.checkKeys(k0, k1); err != nil {
		return nil, err
	}
	if x.Height() != params.Batch || x.Width() != params.Width {
		return nil, protocol.BadParameters("choice matrix must be %d rows of width %d", params.Batch, params.Width)
	}

	return protocol.New(func(c *protocol.Comms) (bits.BitMatrix, error) {
		t0 := k0.ExpandTranspose(params.SID, params.Batch)
		t1 := k1.ExpandTranspose(params.SID, params.Batch)

		u, err := t0.Xor(t1)
		if err != nil {
			return bits.BitMatrix{}, err
		}
		if u, err = u.Xor(x); err != nil {
			return bits.BitMatrix{}, err
		}
		c.SendMany(roundU, u.Bytes())
		return t0, nil
	}), nil
}

// Correlated reports whether q, t and x satisfy Q_i = T_i XOR (X_i AND
// delta) for every row.
func Correlated(q, t, x bits.BitMatrix, delta bits.BitVector) bool {
	masked, err := x.AndVector(delta)
	if err != nil {
		return false
	}
	want, err := t.Xor(masked)
	if err != nil {
		return false
	}
	return q.Equal(want)
}
