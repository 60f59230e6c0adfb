package dkg

import (
	"encoding/binary"
	"io"

	"github.com/f3rmion/thresh/codec"
	"github.com/f3rmion/thresh/commitment"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/transcript"
)

// KeygenOutput is a party's result of key generation or resharing.
type KeygenOutput struct {
	PrivateShare group.Scalar
	PublicKey    group.Point
}

// PublicShare returns PrivateShare*G, which other parties can check
// against the joint committed polynomial.
func (o *KeygenOutput) PublicShare(g group.Group) group.Point {
	return g.NewPoint().ScalarMult(o.PrivateShare, g.Generator())
}

// Option configures a key generation protocol.
type Option func(*config)

type config struct {
	hasher commitment.Hasher
}

// WithHasher sets the hasher used for commitments and confirmations. All
// parties of a run must use the same hasher.
func WithHasher(h commitment.Hasher) Option {
	return func(c *config) {
		c.hasher = h
	}
}

func buildConfig(opts []Option) config {
	c := config{hasher: commitment.Default()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func thresholdBytes(t int) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(t))
}

// checkSet validates a participant set and threshold, returning the list.
func checkSet(ps []participants.Participant, threshold int) (*participants.List, error) {
	if len(ps) < 2 {
		return nil, protocol.BadParameters("participant count cannot be < 2, found: %d", len(ps))
	}
	if threshold < 1 {
		return nil, protocol.BadParameters("threshold must be at least 1, found: %d", threshold)
	}
	if threshold > len(ps) {
		return nil, protocol.BadParameters("threshold must be <= participant count")
	}
	list, ok := participants.New(ps)
	if !ok {
		return nil, protocol.BadParameters("participant list cannot contain duplicates")
	}
	return list, nil
}

// Keygen returns the key generation protocol for party me. The group
// public key is only known once every party has finished.
func Keygen(
	g group.Group,
	rng io.Reader,
	ps []participants.Participant,
	me participants.Participant,
	threshold int,
	opts ...Option,
) (protocol.Protocol[*KeygenOutput], error) {
	list, err := checkSet(ps, threshold)
	if err != nil {
		return nil, err
	}
	if !list.Contains(me) {
		return nil, protocol.BadParameters("participant list must contain this participant")
	}
	cfg := buildConfig(opts)

	return protocol.New(func(c *protocol.Comms) (*KeygenOutput, error) {
		t := transcript.New("thresh keygen v1")
		t.Message("participants", codec.Participants(list))
		t.Message("threshold", thresholdBytes(threshold))

		ks := &keyshare{
			g:         g,
			rng:       rng,
			hasher:    cfg.hasher,
			comms:     c,
			list:      list,
			me:        me,
			threshold: threshold,
			t:         t,
		}
		return ks.run()
	}), nil
}
