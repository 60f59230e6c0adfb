// Package dlog implements a non-interactive Schnorr proof of knowledge of
// a discrete logarithm, made non-interactive with a Fiat-Shamir transcript.
//
// The caller supplies the transcript. Binding a proof to one party is done
// by forking the shared transcript with that party's identity before
// proving and before verifying.
package dlog

import (
	"io"

	"github.com/f3rmion/thresh/codec"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/transcript"
)

// Proof shows knowledge of x such that X = x*G.
type Proof struct {
	E group.Scalar // challenge
	S group.Scalar // response
}

func challenge(g group.Group, t *transcript.Transcript, statement, commitment group.Point) (group.Scalar, error) {
	t.Message("dlog statement", statement.Bytes())
	t.Message("dlog commitment", commitment.Bytes())
	return t.Challenge("dlog challenge", g)
}

// Prove produces a proof for the statement x*G.
func Prove(g group.Group, r io.Reader, t *transcript.Transcript, x group.Scalar) (*Proof, error) {
	k, err := g.RandomScalar(r)
	if err != nil {
		return nil, err
	}
	big := g.NewPoint().ScalarMult(k, g.Generator())
	statement := g.NewPoint().ScalarMult(x, g.Generator())

	e, err := challenge(g, t, statement, big)
	if err != nil {
		return nil, err
	}

	// s = k + e*x
	s := g.NewScalar().Add(k, g.NewScalar().Mul(e, x))
	return &Proof{E: e, S: s}, nil
}

// Verify reports whether p proves knowledge of the discrete log of
// statement under transcript t.
func Verify(g group.Group, t *transcript.Transcript, statement group.Point, p *Proof) bool {
	// R = s*G - e*X
	sG := g.NewPoint().ScalarMult(p.S, g.Generator())
	eX := g.NewPoint().ScalarMult(p.E, statement)
	big := g.NewPoint().Sub(sG, eX)

	e, err := challenge(g, t, statement, big)
	if err != nil {
		return false
	}
	return e.Equal(p.E)
}

// Bytes returns the canonical encoding of p.
func (p *Proof) Bytes() []byte {
	return new(codec.Encoder).Scalar(1, p.E).Scalar(2, p.S).Encode()
}

// Decode parses a proof encoded by Bytes.
func Decode(g group.Group, b []byte) (*Proof, error) {
	d := codec.NewDecoder(b)
	p := &Proof{
		E: d.Scalar(1, g),
		S: d.Scalar(2, g),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}
