// Package dkg implements distributed key generation, resharing and share
// refresh for threshold Schnorr-style keys.
//
// # Protocol
//
// Every party samples a secret polynomial of degree threshold-1 and runs
// four rounds:
//
//  0. Broadcast a hash commitment to the committed polynomial F = f*G.
//  1. Once all commitments are in, broadcast a confirmation digest over
//     them. Every party must have seen exactly the same set.
//  2. Reveal F together with a proof of knowledge of its constant term.
//     The proof transcript is forked with the prover's identity, so a
//     proof cannot be replayed under another name.
//  3. Privately send each other party its evaluation f(j).
//
// Each party sums the evaluations it received into its private share and
// the revealed polynomials into the joint committed polynomial, then checks
// that the joint polynomial evaluated at its own point equals share*G. The
// group public key is the joint constant term.
//
// # Resharing
//
// Reshare moves an existing key to a new participant set and threshold
// without changing the public key. Parties holding an old share contribute
// their Lagrange-weighted share as the constant term of their polynomial;
// new parties contribute zero. Refresh is a reshare onto the same set.
//
// # Usage
//
//	p, err := dkg.Keygen(g, rand.Reader, []participants.Participant{0, 1, 2}, me, 2)
//	if err != nil {
//	    return err
//	}
//	// drive p with protocol.Run, protocol.RunRoundRobin or transport.Drive
//
// All protocol failures are terminal and wrap protocol.ErrAssertionFailed;
// invalid parameters are reported before the protocol starts and wrap
// protocol.ErrBadParameters.
package dkg
