package session

import (
	"context"
	"crypto/rand"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/f3rmion/thresh/bits"
	"github.com/f3rmion/thresh/commitment"
	"github.com/f3rmion/thresh/cot"
	"github.com/f3rmion/thresh/dkg"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/logging"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/transport"
)

var (
	// ErrNoKeyShare is returned by operations that need a key share when
	// the participant has none.
	ErrNoKeyShare = errors.New("session: no key share")

	// ErrKeyShareSet is returned when a key share would be overwritten by
	// a fresh key generation or a restore.
	ErrKeyShareSet = errors.New("session: key share already set")

	// ErrWrongKind is returned when a run is used for an operation of a
	// different kind.
	ErrWrongKind = errors.New("session: wrong run kind")

	// ErrRunConsumed is returned when a run is completed twice.
	ErrRunConsumed = errors.New("session: run already completed")
)

// KeyShare is a participant's long-lived share of a threshold key,
// together with the set and threshold it was generated for.
type KeyShare struct {
	Participants []participants.Participant
	Threshold    int
	PrivateShare group.Scalar
	PublicKey    group.Point
}

// Participant manages a single party's key share across key generation,
// resharing, refresh and correlated OT runs. Create instances using [New].
type Participant struct {
	mu       sync.Mutex
	id       participants.Participant
	group    group.Group
	rng      io.Reader
	log      zerolog.Logger
	hasher   commitment.Hasher
	keyShare *KeyShare
}

// Option configures a Participant.
type Option func(*Participant)

// WithRand sets the randomness source. The default is crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(p *Participant) {
		p.rng = r
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Participant) {
		p.log = log
	}
}

// WithHasher sets the commitment hasher used for key share runs. All
// parties must use the same one.
func WithHasher(h commitment.Hasher) Option {
	return func(p *Participant) {
		p.hasher = h
	}
}

// New creates a participant with identity me operating over g.
func New(g group.Group, me participants.Participant, opts ...Option) *Participant {
	p := &Participant{
		id:     me,
		group:  g,
		rng:    rand.Reader,
		log:    logging.Nop(),
		hasher: commitment.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With().Uint32("participant", uint32(me)).Str("group", g.Name()).Logger()
	return p
}

// ID returns this participant's identity.
func (p *Participant) ID() participants.Participant {
	return p.id
}

// KeyShare returns the current key share, or nil before key generation.
func (p *Participant) KeyShare() *KeyShare {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keyShare
}

// SetKeyShare restores a previously saved key share. It refuses to
// overwrite an existing one.
func (p *Participant) SetKeyShare(ks *KeyShare) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.keyShare != nil {
		return ErrKeyShareSet
	}
	p.keyShare = ks
	return nil
}

func (p *Participant) start(kind Kind, id uuid.UUID, ps []participants.Participant, threshold int) *Run {
	list, _ := participants.New(ps)
	p.log.Info().
		Stringer("run", id).
		Stringer("kind", kind).
		Int("participants", len(ps)).
		Int("threshold", threshold).
		Msg("run started")
	return &Run{
		ID:        id,
		Kind:      kind,
		list:      list,
		ps:        list.Slice(),
		threshold: threshold,
	}
}

func (p *Participant) dkgOptions() []dkg.Option {
	return []dkg.Option{dkg.WithHasher(p.hasher)}
}

// Keygen starts a key generation run among ps. It fails with
// ErrKeyShareSet if this participant already holds a share.
func (p *Participant) Keygen(ps []participants.Participant, threshold int) (*Run, error) {
	if p.KeyShare() != nil {
		return nil, ErrKeyShareSet
	}
	proto, err := dkg.Keygen(p.group, p.rng, ps, p.id, threshold, p.dkgOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "keygen")
	}
	run := p.start(KindKeygen, uuid.New(), ps, threshold)
	run.Keyshare = proto
	return run, nil
}

// Reshare starts a run moving the current key share to newPs with
// newThreshold.
func (p *Participant) Reshare(newPs []participants.Participant, newThreshold int) (*Run, error) {
	ks := p.KeyShare()
	if ks == nil {
		return nil, ErrNoKeyShare
	}
	proto, err := dkg.Reshare(p.group, p.rng, ks.Participants, ks.Threshold, newPs, newThreshold,
		p.id, ks.PrivateShare, ks.PublicKey, p.dkgOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "reshare")
	}
	run := p.start(KindReshare, uuid.New(), newPs, newThreshold)
	run.Keyshare = proto
	return run, nil
}

// Join starts a reshare run for a participant that holds no share of the
// key being reshared. The old set, threshold and public key must match
// what the shareholders use.
func (p *Participant) Join(
	oldPs []participants.Participant,
	oldThreshold int,
	publicKey group.Point,
	newPs []participants.Participant,
	newThreshold int,
) (*Run, error) {
	if p.KeyShare() != nil {
		return nil, ErrKeyShareSet
	}
	proto, err := dkg.Reshare(p.group, p.rng, oldPs, oldThreshold, newPs, newThreshold,
		p.id, nil, publicKey, p.dkgOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "join")
	}
	run := p.start(KindReshare, uuid.New(), newPs, newThreshold)
	run.Keyshare = proto
	return run, nil
}

// Refresh starts a run that re-randomizes the current key share without
// changing the set, threshold or public key.
func (p *Participant) Refresh() (*Run, error) {
	ks := p.KeyShare()
	if ks == nil {
		return nil, ErrNoKeyShare
	}
	proto, err := dkg.Refresh(p.group, p.rng, ks.Participants, ks.Threshold,
		p.id, ks.PrivateShare, ks.PublicKey, p.dkgOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "refresh")
	}
	run := p.start(KindRefresh, uuid.New(), ks.Participants, ks.Threshold)
	run.Keyshare = proto
	return run, nil
}

// Complete records the output of a finished key share run as this
// participant's key share. Each run can be completed once.
func (p *Participant) Complete(run *Run, out *dkg.KeygenOutput) error {
	if !run.Kind.keyshare() {
		return errors.Wrapf(ErrWrongKind, "complete %s run", run.Kind)
	}
	if err := run.consume(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if run.Kind == KindKeygen && p.keyShare != nil {
		return ErrKeyShareSet
	}
	p.keyShare = &KeyShare{
		Participants: run.ps,
		Threshold:    run.threshold,
		PrivateShare: out.PrivateShare,
		PublicKey:    out.PublicKey,
	}
	logging.Secret(p.log.Info(), "private_share").
		Stringer("run", run.ID).
		Stringer("kind", run.Kind).
		Hex("public_key", out.PublicKey.Bytes()).
		Msg("key share stored")
	return nil
}

// CorrelatedOTSender starts the sender side of a correlated OT extension.
// Both sides must use the same id, which keys the expansion.
func (p *Participant) CorrelatedOTSender(
	id uuid.UUID,
	peer participants.Participant,
	batch int,
	delta bits.BitVector,
	kDelta bits.SquareBitMatrix,
) (*Run, error) {
	if peer == p.id {
		return nil, protocol.BadParameters("peer must differ from this participant")
	}
	params := cot.Params{Width: delta.Width(), Batch: batch, SID: id[:]}
	proto, err := cot.Sender(params, delta, kDelta)
	if err != nil {
		return nil, errors.Wrap(err, "correlated ot sender")
	}
	run := p.start(KindCorrelatedOT, id, []participants.Participant{p.id, peer}, 0)
	run.OT = proto
	return run, nil
}

// CorrelatedOTReceiver starts the receiver side of a correlated OT
// extension with choice matrix x.
func (p *Participant) CorrelatedOTReceiver(
	id uuid.UUID,
	peer participants.Participant,
	k0, k1 bits.SquareBitMatrix,
	x bits.BitMatrix,
) (*Run, error) {
	if peer == p.id {
		return nil, protocol.BadParameters("peer must differ from this participant")
	}
	params := cot.Params{Width: x.Width(), Batch: x.Height(), SID: id[:]}
	proto, err := cot.Receiver(params, k0, k1, x)
	if err != nil {
		return nil, errors.Wrap(err, "correlated ot receiver")
	}
	run := p.start(KindCorrelatedOT, id, []participants.Participant{peer, p.id}, 0)
	run.OT = proto
	return run, nil
}

// Execute drives a key share run over t and stores the resulting share.
func (p *Participant) Execute(ctx context.Context, run *Run, t transport.Transport) (*dkg.KeygenOutput, error) {
	if !run.Kind.keyshare() {
		return nil, errors.Wrapf(ErrWrongKind, "execute %s run", run.Kind)
	}
	out, err := transport.Drive(ctx, p.id, run.list, run.Keyshare, t, transport.WithLogger(p.log))
	if err != nil {
		return nil, err
	}
	if err := p.Complete(run, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteOT drives a correlated OT run over t and returns its output.
func (p *Participant) ExecuteOT(ctx context.Context, run *Run, t transport.Transport) (bits.BitMatrix, error) {
	if run.Kind != KindCorrelatedOT {
		return bits.BitMatrix{}, errors.Wrapf(ErrWrongKind, "execute %s run", run.Kind)
	}
	if err := run.consume(); err != nil {
		return bits.BitMatrix{}, err
	}
	return transport.Drive(ctx, p.id, run.list, run.OT, t, transport.WithLogger(p.log))
}
