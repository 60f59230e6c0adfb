// Package secp256k1 provides a secp256k1 implementation of the
// [group.Group] interface, backed by btcec.
//
// Scalars are encoded as 32-byte big-endian integers below the group
// order. Points use the 33-byte SEC1 compressed encoding; the identity,
// which has no SEC1 encoding, is written as 33 zero bytes.
//
// Arithmetic on points uses btcec's variable-time Jacobian routines.
// They are adequate for the public values exchanged during key generation;
// callers that multiply secrets by attacker-chosen points should keep that
// in mind.
package secp256k1
