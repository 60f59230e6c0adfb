package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/f3rmion/thresh/bits"
	"github.com/f3rmion/thresh/bjj"
	"github.com/f3rmion/thresh/cot"
	"github.com/f3rmion/thresh/csprng"
	"github.com/f3rmion/thresh/dkg"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/secp256k1"
	"github.com/f3rmion/thresh/transport"
)

func newParticipants(g group.Group, ids []participants.Participant, seed string) []*Participant {
	out := make([]*Participant, len(ids))
	for i, id := range ids {
		out[i] = New(g, id, WithRand(csprng.New([]byte(seed), id.Bytes())))
	}
	return out
}

// executeAll runs each participant's run on its own goroutine over a
// shared in-memory network.
func executeAll(t *testing.T, ps []*Participant, runs []*Run) []*dkg.KeygenOutput {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	net := transport.NewNetwork()
	defer net.Close()
	endpoints := make([]*transport.Endpoint, len(ps))
	for i, p := range ps {
		endpoints[i] = net.Endpoint(p.ID())
	}

	outs := make([]*dkg.KeygenOutput, len(ps))
	errs := make([]error, len(ps))
	var wg sync.WaitGroup
	for i, p := range ps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outs[i], errs[i] = p.Execute(ctx, runs[i], endpoints[i])
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("participant %d failed: %v", ps[i].ID(), err)
		}
	}
	return outs
}

func keygen(t *testing.T, g group.Group, ps []*Participant, threshold int) []*dkg.KeygenOutput {
	t.Helper()
	ids := make([]participants.Participant, len(ps))
	for i, p := range ps {
		ids[i] = p.ID()
	}
	runs := make([]*Run, len(ps))
	for i, p := range ps {
		run, err := p.Keygen(ids, threshold)
		if err != nil {
			t.Fatalf("participant %d failed to start keygen: %v", p.ID(), err)
		}
		if run.Kind != KindKeygen {
			t.Fatalf("unexpected run kind %s", run.Kind)
		}
		if got := run.Participants(); len(got) != len(ids) || got[0] != ids[0] {
			t.Fatalf("run participants %v, want %v", got, ids)
		}
		runs[i] = run
	}
	return executeAll(t, ps, runs)
}

func TestKeygenAndReshare(t *testing.T) {
	g := &bjj.BJJ{}
	ps := newParticipants(g, []participants.Participant{0, 1, 2}, "session")
	outs := keygen(t, g, ps, 2)

	pk := outs[0].PublicKey
	for i, p := range ps {
		if !outs[i].PublicKey.Equal(pk) {
			t.Error("participants have different group keys")
		}
		ks := p.KeyShare()
		if ks == nil {
			t.Fatalf("participant %d has no key share", p.ID())
		}
		if ks.Threshold != 2 || len(ks.Participants) != 3 {
			t.Errorf("participant %d stored wrong parameters", p.ID())
		}
	}

	if _, err := ps[0].Keygen([]participants.Participant{0, 1, 2}, 2); !errors.Is(err, ErrKeyShareSet) {
		t.Errorf("second keygen should fail with ErrKeyShareSet, got %v", err)
	}

	t.Run("Reshare", func(t *testing.T) {
		newIDs := []participants.Participant{0, 1, 2, 3}
		joiner := New(g, 3, WithRand(csprng.New([]byte("joiner"))))
		all := append(append([]*Participant(nil), ps...), joiner)

		runs := make([]*Run, len(all))
		for i, p := range ps {
			run, err := p.Reshare(newIDs, 3)
			if err != nil {
				t.Fatalf("participant %d failed to start reshare: %v", p.ID(), err)
			}
			runs[i] = run
		}
		run, err := joiner.Join([]participants.Participant{0, 1, 2}, 2, pk, newIDs, 3)
		if err != nil {
			t.Fatalf("joiner failed to start: %v", err)
		}
		runs[3] = run

		reshared := executeAll(t, all, runs)
		for i, out := range reshared {
			if !out.PublicKey.Equal(pk) {
				t.Errorf("participant %d public key changed", all[i].ID())
			}
			if out.PrivateShare.IsZero() {
				t.Errorf("participant %d has zero share", all[i].ID())
			}
		}
		if ks := joiner.KeyShare(); ks == nil || ks.Threshold != 3 {
			t.Error("joiner did not store its key share")
		}
	})
}

func TestRefresh(t *testing.T) {
	g := secp256k1.New()
	ps := newParticipants(g, []participants.Participant{4, 7, 9}, "refresh")
	outs := keygen(t, g, ps, 3)

	runs := make([]*Run, len(ps))
	for i, p := range ps {
		run, err := p.Refresh()
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
		if run.Kind != KindRefresh {
			t.Fatalf("unexpected run kind %s", run.Kind)
		}
		runs[i] = run
	}
	refreshed := executeAll(t, ps, runs)
	for i := range ps {
		if !refreshed[i].PublicKey.Equal(outs[i].PublicKey) {
			t.Error("refresh changed the public key")
		}
		if refreshed[i].PrivateShare.Equal(outs[i].PrivateShare) {
			t.Error("refresh did not change the share")
		}
		if !ps[i].KeyShare().PrivateShare.Equal(refreshed[i].PrivateShare) {
			t.Error("refreshed share not stored")
		}
	}
}

func TestOperationsWithoutKeyShare(t *testing.T) {
	p := New(secp256k1.New(), 0)
	if _, err := p.Reshare([]participants.Participant{0, 1}, 2); !errors.Is(err, ErrNoKeyShare) {
		t.Errorf("reshare without share: got %v", err)
	}
	if _, err := p.Refresh(); !errors.Is(err, ErrNoKeyShare) {
		t.Errorf("refresh without share: got %v", err)
	}
}

func TestSetKeyShare(t *testing.T) {
	g := secp256k1.New()
	p := New(g, 1)
	ks := &KeyShare{
		Participants: []participants.Participant{0, 1},
		Threshold:    2,
		PrivateShare: g.ScalarFromUint64(3),
		PublicKey:    g.Generator(),
	}
	if err := p.SetKeyShare(ks); err != nil {
		t.Fatal(err)
	}
	if p.KeyShare() != ks {
		t.Error("key share not restored")
	}
	if err := p.SetKeyShare(ks); !errors.Is(err, ErrKeyShareSet) {
		t.Errorf("overwrite should fail, got %v", err)
	}
}

func TestBadParametersSurface(t *testing.T) {
	p := New(secp256k1.New(), 5)
	_, err := p.Keygen([]participants.Participant{0, 1, 2}, 2)
	if !errors.Is(err, protocol.ErrBadParameters) {
		t.Errorf("expected bad parameters, got %v", err)
	}
}

func TestLocalDriveAndCompleteOnce(t *testing.T) {
	g := secp256k1.New()
	ps := newParticipants(g, []participants.Participant{0, 1}, "local")
	ids := []participants.Participant{0, 1}

	runs := make([]*Run, len(ps))
	entries := make([]protocol.Entry[*dkg.KeygenOutput], len(ps))
	for i, p := range ps {
		run, err := p.Keygen(ids, 2)
		if err != nil {
			t.Fatal(err)
		}
		runs[i] = run
		entries[i] = protocol.Entry[*dkg.KeygenOutput]{Participant: p.ID(), Protocol: run.Keyshare}
	}
	results, err := protocol.Run(entries)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		i := int(r.Participant)
		if err := ps[i].Complete(runs[i], r.Output); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if err := ps[i].Complete(runs[i], r.Output); !errors.Is(err, ErrRunConsumed) {
			t.Errorf("second complete should fail, got %v", err)
		}
	}
}

func TestCorrelatedOT(t *testing.T) {
	g := secp256k1.New()
	w := bits.Width(64)
	rng := csprng.New([]byte("session ot"))
	square := func() bits.SquareBitMatrix {
		m, err := w.RandomMatrix(rng, int(w))
		if err != nil {
			t.Fatal(err)
		}
		s, err := w.Square(m)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	k0, k1 := square(), square()
	delta, err := w.Random(rng)
	if err != nil {
		t.Fatal(err)
	}
	x, err := w.RandomMatrix(rng, 20)
	if err != nil {
		t.Fatal(err)
	}
	kDelta, err := cot.DeltaKeys(w, delta, k0, k1)
	if err != nil {
		t.Fatal(err)
	}

	sender, receiver := New(g, 0), New(g, 1)
	id := uuid.New()
	sRun, err := sender.CorrelatedOTSender(id, 1, 20, delta, kDelta)
	if err != nil {
		t.Fatal(err)
	}
	rRun, err := receiver.CorrelatedOTReceiver(id, 0, k0, k1, x)
	if err != nil {
		t.Fatal(err)
	}

	net := transport.NewNetwork()
	defer net.Close()
	se, re := net.Endpoint(0), net.Endpoint(1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var q, tt bits.BitMatrix
	var sErr, rErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		q, sErr = sender.ExecuteOT(ctx, sRun, se)
	}()
	go func() {
		defer wg.Done()
		tt, rErr = receiver.ExecuteOT(ctx, rRun, re)
	}()
	wg.Wait()
	if sErr != nil || rErr != nil {
		t.Fatalf("sender: %v, receiver: %v", sErr, rErr)
	}
	if !cot.Correlated(q, tt, x, delta) {
		t.Error("outputs are not correlated")
	}

	if _, err := sender.Execute(ctx, sRun, se); !errors.Is(err, ErrWrongKind) {
		t.Errorf("expected ErrWrongKind, got %v", err)
	}
	if _, err := sender.CorrelatedOTSender(id, 0, 20, delta, kDelta); !errors.Is(err, protocol.ErrBadParameters) {
		t.Errorf("expected bad parameters for self peer, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindKeygen:       "keygen",
		KindReshare:      "reshare",
		KindRefresh:      "refresh",
		KindCorrelatedOT: "correlated_ot",
		Kind(0):          "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
