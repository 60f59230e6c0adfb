// Package ed25519 provides the prime-order edwards25519 group as a
// [group.Group], backed by filippo.io/edwards25519.
//
// Scalars use the 32-byte little-endian encoding of RFC 8032 and must be
// canonical. Points use the standard 32-byte compressed encoding. Decoding
// rejects points of small order; callers needing strict prime-order
// membership for points received from untrusted parties should combine the
// group with a subgroup check of their own.
package ed25519
