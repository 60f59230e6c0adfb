// Package session provides a high-level, per-party API over the key
// generation, resharing and correlated OT protocols. It wraps the
// protocols in the [dkg] and [cot] packages with a simpler interface that
// keeps custody of the key share and prevents common mistakes like
// overwriting a share or completing a run twice.
//
// # Key generation
//
// Each participant runs the same code independently:
//
//	p := session.New(group, myID, session.WithLogger(log))
//
//	run, err := p.Keygen([]participants.Participant{0, 1, 2}, 2)
//	if err != nil {
//		return err
//	}
//
//	// Drive run.Keyshare over a transport; Execute does this and stores
//	// the resulting share.
//	out, err := p.Execute(ctx, run, endpoint)
//
// # Resharing
//
// A participant holding a share calls Reshare or Refresh. A participant
// joining the new set without a share calls Join with the old set, old
// threshold and public key.
//
// # Runs
//
// Every run carries a random ID and a Kind. Runs of key share kinds hold a
// protocol producing a dkg.KeygenOutput; correlated OT runs hold one
// producing a bit matrix, and use their ID as the expansion session ID, so
// both sides must start their run with the same ID.
//
// # Transport agnostic
//
// Participants do not open connections. Execute and ExecuteOT accept any
// transport.Transport; run.Keyshare and run.OT can also be driven by hand
// or by the local drivers in package protocol.
package session
