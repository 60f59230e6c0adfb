// Package transcript implements a domain-separated Fiat-Shamir transcript
// over cSHAKE256.
//
// A Transcript absorbs labelled messages in order. Fork derives an
// independent child transcript, which is how one party's proof is kept
// from being replayed as another's. Challenge squeezes a scalar from the
// current state without disturbing the ability to keep absorbing.
package transcript

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/f3rmion/thresh/group"
)

const (
	opMessage   byte = 'M'
	opFork      byte = 'F'
	opChallenge byte = 'C'
)

// challengeSize is the number of bytes squeezed before reduction, twice
// the size of the largest supported scalar to keep the bias negligible.
const challengeSize = 64

// Transcript is a running Fiat-Shamir transcript. It is not safe for
// concurrent use.
type Transcript struct {
	state sha3.ShakeHash
}

// New returns an empty transcript bound to context.
func New(context string) *Transcript {
	return &Transcript{state: sha3.NewCShake256(nil, []byte(context))}
}

func (t *Transcript) absorb(op byte, label string, data []byte) {
	var n [8]byte
	t.state.Write([]byte{op})
	binary.BigEndian.PutUint64(n[:], uint64(len(label)))
	t.state.Write(n[:])
	t.state.Write([]byte(label))
	binary.BigEndian.PutUint64(n[:], uint64(len(data)))
	t.state.Write(n[:])
	t.state.Write(data)
}

// Message absorbs data under label.
func (t *Transcript) Message(label string, data []byte) {
	t.absorb(opMessage, label, data)
}

// Fork returns a child transcript that shares everything absorbed so far
// and is separated from the parent and its siblings by label and data.
func (t *Transcript) Fork(label string, data []byte) *Transcript {
	child := &Transcript{state: t.state.Clone()}
	child.absorb(opFork, label, data)
	return child
}

// Challenge derives a scalar of g from the transcript state. The output is
// absorbed back, so two challenges with the same label differ.
func (t *Transcript) Challenge(label string, g group.Group) (group.Scalar, error) {
	reader := t.state.Clone()
	var n [8]byte
	reader.Write([]byte{opChallenge})
	binary.BigEndian.PutUint64(n[:], uint64(len(label)))
	reader.Write(n[:])
	reader.Write([]byte(label))

	out := make([]byte, challengeSize)
	if _, err := reader.Read(out); err != nil {
		return nil, err
	}
	t.absorb(opChallenge, label, out)
	return g.HashToScalar(out)
}
