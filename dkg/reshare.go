package dkg

import (
	"io"

	"github.com/f3rmion/thresh/codec"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/polynomial"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/transcript"
)

// Reshare returns the protocol that moves the key with the given public key
// from the old participant set and threshold to the new ones. Every party
// in newPs runs it; myShare is nil for parties that hold no share of the
// old key. Parties that are only in the old set do not take part; enough
// old shareholders must also be in the new set to reach oldThreshold.
func Reshare(
	g group.Group,
	rng io.Reader,
	oldPs []participants.Participant,
	oldThreshold int,
	newPs []participants.Participant,
	newThreshold int,
	me participants.Participant,
	myShare group.Scalar,
	publicKey group.Point,
	opts ...Option,
) (protocol.Protocol[*KeygenOutput], error) {
	newList, err := checkSet(newPs, newThreshold)
	if err != nil {
		return nil, err
	}
	oldList, ok := participants.New(oldPs)
	if !ok {
		return nil, protocol.BadParameters("old participant list cannot contain duplicates")
	}
	if oldThreshold < 1 || oldThreshold > oldList.Len() {
		return nil, protocol.BadParameters("old threshold must be between 1 and the old participant count")
	}
	if publicKey == nil {
		return nil, protocol.BadParameters("public key is required")
	}
	if !newList.Contains(me) {
		return nil, protocol.BadParameters("new participant list must contain this participant")
	}
	shared := oldList.Intersection(newList)
	if shared.Len() < oldThreshold {
		return nil, protocol.BadParameters(
			"not enough old participants to reconstruct private key for resharing: %d < %d",
			shared.Len(), oldThreshold)
	}

	var secret group.Scalar
	if shared.Contains(me) {
		if myShare == nil {
			return nil, protocol.BadParameters("party %d is present in the old participant list but provided no share", me)
		}
		lambda, err := polynomial.Lagrange(g, shared, me)
		if err != nil {
			return nil, protocol.BadParameters("%v", err)
		}
		secret = g.NewScalar().Mul(lambda, myShare)
	} else {
		secret = g.NewScalar()
	}
	cfg := buildConfig(opts)

	return protocol.New(func(c *protocol.Comms) (*KeygenOutput, error) {
		t := transcript.New("thresh reshare v1")
		t.Message("old participants", codec.Participants(oldList))
		t.Message("old threshold", thresholdBytes(oldThreshold))
		t.Message("participants", codec.Participants(newList))
		t.Message("threshold", thresholdBytes(newThreshold))
		t.Message("public key", publicKey.Bytes())

		ks := &keyshare{
			g:         g,
			rng:       rng,
			hasher:    cfg.hasher,
			comms:     c,
			list:      newList,
			me:        me,
			threshold: newThreshold,
			t:         t,
			secret:    secret,
			expected:  publicKey,
		}
		return ks.run()
	}), nil
}

// Refresh re-randomizes the shares of an existing key among the same
// participants and threshold. Every party must hold a share.
func Refresh(
	g group.Group,
	rng io.Reader,
	ps []participants.Participant,
	threshold int,
	me participants.Participant,
	myShare group.Scalar,
	publicKey group.Point,
	opts ...Option,
) (protocol.Protocol[*KeygenOutput], error) {
	if myShare == nil {
		return nil, protocol.BadParameters("refresh requires a share")
	}
	return Reshare(g, rng, ps, threshold, ps, threshold, me, myShare, publicKey, opts...)
}
