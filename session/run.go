package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/f3rmion/thresh/bits"
	"github.com/f3rmion/thresh/dkg"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/protocol"
)

// Kind enumerates the protocols a session runs.
type Kind int

const (
	// KindKeygen generates a fresh key share.
	KindKeygen Kind = iota + 1
	// KindReshare moves a key to a new set or threshold, or joins one.
	KindReshare
	// KindRefresh re-randomizes shares without changing the key.
	KindRefresh
	// KindCorrelatedOT runs one side of a correlated OT extension.
	KindCorrelatedOT
)

// String returns the name used in logs.
func (k Kind) String() string {
	switch k {
	case KindKeygen:
		return "keygen"
	case KindReshare:
		return "reshare"
	case KindRefresh:
		return "refresh"
	case KindCorrelatedOT:
		return "correlated_ot"
	default:
		return "unknown"
	}
}

func (k Kind) keyshare() bool {
	return k == KindKeygen || k == KindReshare || k == KindRefresh
}

// Run is one protocol run started by a Participant. Exactly one of the
// protocol fields is set, according to Kind.
type Run struct {
	ID   uuid.UUID
	Kind Kind

	// Keyshare is set for KindKeygen, KindReshare and KindRefresh.
	Keyshare protocol.Protocol[*dkg.KeygenOutput]
	// OT is set for KindCorrelatedOT.
	OT protocol.Protocol[bits.BitMatrix]

	list      *participants.List
	ps        []participants.Participant
	threshold int

	mu       sync.Mutex
	consumed bool
}

// Participants returns the parties taking part in the run.
func (r *Run) Participants() []participants.Participant {
	return r.ps
}

// Close abandons the run.
func (r *Run) Close() {
	switch {
	case r.Keyshare != nil:
		protocol.Close(r.Keyshare)
	case r.OT != nil:
		protocol.Close(r.OT)
	}
}

func (r *Run) consume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.consumed {
		return ErrRunConsumed
	}
	r.consumed = true
	return nil
}
