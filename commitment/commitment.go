// Package commitment provides the hash commitments that bind a party to a
// value before it is revealed, and the digest parties use to confirm they
// all saw the same set of commitments.
package commitment

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Size is the length of a commitment in bytes.
const Size = 32

const defaultPrefix = "thresh commitment v1"

// Commitment is a 32-byte hash commitment. Commitments compare with ==.
type Commitment [Size]byte

// Hasher computes domain-separated commitments. Different implementations
// can provide different hash functions.
type Hasher interface {
	// Commit hashes the tagged inputs. Every input is length-prefixed, so
	// splitting the same bytes differently gives a different commitment.
	Commit(tag string, data ...[]byte) Commitment
}

func sum(h hash.Hash, prefix, tag string, data [][]byte) Commitment {
	var n [8]byte
	write := func(b []byte) {
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}
	write([]byte(prefix))
	write([]byte(tag))
	for _, d := range data {
		write(d)
	}
	var c Commitment
	copy(c[:], h.Sum(nil))
	return c
}

// Blake2bHasher implements Hasher using BLAKE2b-256 with a domain
// separation prefix.
type Blake2bHasher struct {
	// Prefix is the domain separation prefix.
	// Default: "thresh commitment v1"
	Prefix string
}

// NewBlake2bHasher creates a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{Prefix: defaultPrefix}
}

// Commit implements Hasher.Commit.
func (h *Blake2bHasher) Commit(tag string, data ...[]byte) Commitment {
	hasher, _ := blake2b.New256(nil)
	return sum(hasher, h.Prefix, tag, data)
}

// SHA256Hasher implements Hasher using SHA-256 with a domain separation
// prefix.
type SHA256Hasher struct {
	// Prefix is the domain separation prefix.
	// Default: "thresh commitment v1"
	Prefix string
}

// NewSHA256Hasher creates a SHA256Hasher with the default prefix.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{Prefix: defaultPrefix}
}

// Commit implements Hasher.Commit.
func (h *SHA256Hasher) Commit(tag string, data ...[]byte) Commitment {
	return sum(sha256.New(), h.Prefix, tag, data)
}

// Default returns the hasher used when none is configured.
func Default() Hasher {
	return NewBlake2bHasher()
}
