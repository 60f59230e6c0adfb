package dkg

import (
	"io"

	"github.com/f3rmion/thresh/codec"
	"github.com/f3rmion/thresh/commitment"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/polynomial"
	"github.com/f3rmion/thresh/proof/dlog"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/transcript"
)

// Rounds of the key share protocol.
const (
	roundCommit uint64 = iota
	roundConfirm
	roundReveal
	roundShare
)

// keyshare is the round engine shared by key generation and resharing.
type keyshare struct {
	g         group.Group
	rng       io.Reader
	hasher    commitment.Hasher
	comms     *protocol.Comms
	list      *participants.List
	me        participants.Participant
	threshold int
	t         *transcript.Transcript

	// secret fixes the constant term of our polynomial; nil samples it.
	secret group.Scalar
	// expected, if set, is the public key the joint polynomial must have.
	expected group.Point
}

func (ks *keyshare) commit(big *polynomial.Committed) commitment.Commitment {
	return ks.hasher.Commit("polynomial", big.Bytes())
}

func (ks *keyshare) confirm(all *participants.Map[commitment.Commitment]) commitment.Commitment {
	data := make([][]byte, 0, ks.list.Len())
	for _, c := range all.Values() {
		data = append(data, c[:])
	}
	return ks.hasher.Commit("confirmation", data...)
}

func decodeCommitment(from participants.Participant, b []byte) (commitment.Commitment, error) {
	var c commitment.Commitment
	if len(b) != commitment.Size {
		return c, protocol.Malformed(from, "commitment", nil)
	}
	copy(c[:], b)
	return c, nil
}

func (ks *keyshare) run() (*KeygenOutput, error) {
	g := ks.g

	f, err := polynomial.Random(g, ks.rng, ks.secret, ks.threshold-1)
	if err != nil {
		return nil, err
	}
	bigF := f.Commit()
	myCommitment := ks.commit(bigF)
	ks.comms.SendMany(roundCommit, myCommitment[:])

	all := participants.NewMap[commitment.Commitment](ks.list)
	all.Put(ks.me, myCommitment)
	for !all.Full() {
		from, msg, err := ks.comms.Recv(roundCommit)
		if err != nil {
			return nil, err
		}
		if all.Contains(from) {
			continue
		}
		c, err := decodeCommitment(from, msg)
		if err != nil {
			return nil, err
		}
		all.Put(from, c)
	}

	myConfirmation := ks.confirm(all)
	ks.t.Message("confirmation", myConfirmation[:])
	ks.comms.SendMany(roundConfirm, myConfirmation[:])

	proof, err := dlog.Prove(g, ks.rng, ks.t.Fork("dlog0", ks.me.Bytes()), f.Constant())
	if err != nil {
		return nil, err
	}
	reveal := new(codec.Encoder).Bytes(1, bigF.Bytes()).Bytes(2, proof.Bytes()).Encode()
	ks.comms.SendMany(roundReveal, reveal)

	for p := range ks.list.Others(ks.me) {
		ks.comms.SendPrivate(roundShare, p, f.Evaluate(p.Scalar(g)).Bytes())
	}
	share := f.Evaluate(ks.me.Scalar(g))

	confirmed := participants.NewMap[struct{}](ks.list)
	confirmed.Put(ks.me, struct{}{})
	for !confirmed.Full() {
		from, msg, err := ks.comms.Recv(roundConfirm)
		if err != nil {
			return nil, err
		}
		if confirmed.Contains(from) {
			continue
		}
		c, err := decodeCommitment(from, msg)
		if err != nil {
			return nil, err
		}
		if c != myConfirmation {
			return nil, protocol.AssertionFailed(from, "confirmation did not match expectation")
		}
		confirmed.Put(from, struct{}{})
	}

	revealed := participants.NewMap[struct{}](ks.list)
	revealed.Put(ks.me, struct{}{})
	for !revealed.Full() {
		from, msg, err := ks.comms.Recv(roundReveal)
		if err != nil {
			return nil, err
		}
		if revealed.Contains(from) {
			continue
		}
		revealed.Put(from, struct{}{})

		theirF, theirProof, err := ks.decodeReveal(from, msg)
		if err != nil {
			return nil, err
		}
		if want, _ := all.Get(from); ks.commit(theirF) != want {
			return nil, protocol.AssertionFailed(from, "commitment did not match revealed polynomial")
		}
		if !dlog.Verify(g, ks.t.Fork("dlog0", from.Bytes()), theirF.Constant(), theirProof) {
			return nil, protocol.AssertionFailed(from, "proof of knowledge failed to verify")
		}
		if bigF, err = bigF.Add(theirF); err != nil {
			return nil, err
		}
	}

	received := participants.NewMap[struct{}](ks.list)
	received.Put(ks.me, struct{}{})
	for !received.Full() {
		from, msg, err := ks.comms.Recv(roundShare)
		if err != nil {
			return nil, err
		}
		if received.Contains(from) {
			continue
		}
		received.Put(from, struct{}{})

		s, err := g.NewScalar().SetBytes(msg)
		if err != nil {
			return nil, protocol.Malformed(from, "private share", err)
		}
		share = g.NewScalar().Add(share, s)
	}

	if !bigF.Evaluate(ks.me.Scalar(g)).Equal(g.NewPoint().ScalarMult(share, g.Generator())) {
		return nil, protocol.Failed("received bad private share")
	}

	publicKey := bigF.Constant()
	if ks.expected != nil && !publicKey.Equal(ks.expected) {
		return nil, protocol.Failed("new public key does not match old")
	}

	return &KeygenOutput{
		PrivateShare: share,
		PublicKey:    publicKey,
	}, nil
}

func (ks *keyshare) decodeReveal(from participants.Participant, msg []byte) (*polynomial.Committed, *dlog.Proof, error) {
	d := codec.NewDecoder(msg)
	fBytes := d.Bytes(1)
	proofBytes := d.Bytes(2)
	if err := d.Finish(); err != nil {
		return nil, nil, protocol.Malformed(from, "reveal", err)
	}
	big, err := polynomial.DecodeCommitted(ks.g, fBytes, ks.threshold-1)
	if err != nil {
		return nil, nil, protocol.Malformed(from, "committed polynomial", err)
	}
	proof, err := dlog.Decode(ks.g, proofBytes)
	if err != nil {
		return nil, nil, protocol.Malformed(from, "proof", err)
	}
	return big, proof, nil
}
