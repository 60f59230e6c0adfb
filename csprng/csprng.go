// Package csprng provides a seeded, deterministic source of pseudo-random
// bytes for reproducible protocol runs. It is a ChaCha20 keystream keyed by
// a hash of the seed. Production code passes crypto/rand.Reader instead.
package csprng

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

// Reader is an io.Reader over a ChaCha20 keystream. It is safe for
// concurrent use.
type Reader struct {
	mu     sync.Mutex
	stream *chacha20.Cipher
}

// New returns a Reader keyed by the given seed parts. Parts are
// length-prefixed before hashing, so New(a, b) and New(ab) differ.
func New(seed ...[]byte) *Reader {
	h, _ := blake2b.New256([]byte("thresh csprng v1"))
	var n [8]byte
	for _, s := range seed {
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write(s)
	}
	key := h.Sum(nil)
	nonce := make([]byte, chacha20.NonceSize)
	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(err)
	}
	return &Reader{stream: stream}
}

// Read fills p with keystream bytes. It never fails.
func (r *Reader) Read(p []byte) (int, error) {
	clear(p)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stream.XORKeyStream(p, p)
	return len(p), nil
}
