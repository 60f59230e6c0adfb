// Package group defines abstract interfaces for the prime-order groups
// that key generation, resharing and the discrete-log proofs run over.
//
// This package provides three core interfaces that abstract over the
// mathematical operations needed by the threshold protocols:
//
//   - [Scalar]: Elements of the scalar field (integers modulo the group order)
//   - [Point]: Elements of the group (points on an elliptic curve)
//   - [Group]: Factory and utility methods for creating scalars and points
//
// # Design Philosophy
//
// The interfaces use a mutable receiver pattern for efficiency. Operations
// like Add, Mul, and ScalarMult set the receiver to the result and return it,
// allowing method chaining while minimizing allocations:
//
//	// Compute a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// All operations that can fail return errors rather than panicking, making
// error handling explicit and predictable.
//
// # Implementations
//
// Three implementations ship with this module:
//
//   - bjj: Baby Jubjub, backed by gnark-crypto
//   - secp256k1: the Bitcoin curve, backed by btcec
//   - ed25519: the prime-order edwards25519 group, backed by filippo.io/edwards25519
//
// # Security Considerations
//
// Implementations must ensure:
//
//   - Scalar arithmetic is performed modulo the group order
//   - Point operations are constant-time where possible
//   - Random scalars are generated from cryptographically secure sources
//   - Invalid curve points are rejected in SetBytes
package group
