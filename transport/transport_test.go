package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/thresh/csprng"
	"github.com/f3rmion/thresh/dkg"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/protocol"
	"github.com/f3rmion/thresh/secp256k1"
)

func TestNetworkDelivery(t *testing.T) {
	net := NewNetwork()
	a := net.Endpoint(0)
	b := net.Endpoint(1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	payload := []byte("hello")
	require.NoError(t, a.Send(ctx, 1, payload))
	payload[0] = 'j'
	require.NoError(t, a.Send(ctx, 1, []byte("again")))

	m, err := b.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, participants.Participant(0), m.From)
	require.Equal(t, []byte("hello"), m.Data)

	m, err = b.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("again"), m.Data)

	require.ErrorIs(t, a.Send(ctx, 7, nil), ErrUnknownPeer)
}

func TestReceiveHonoursContext(t *testing.T) {
	net := NewNetwork()
	ep := net.Endpoint(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := ep.Receive(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseWakesReceivers(t *testing.T) {
	net := NewNetwork()
	ep := net.Endpoint(0)
	done := make(chan error, 1)
	go func() {
		_, err := ep.Receive(context.Background())
		done <- err
	}()

	net.Close()
	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("receiver not woken by Close")
	}
	require.ErrorIs(t, net.Endpoint(1).Send(context.Background(), 0, nil), ErrClosed)
}

func TestRunConcurrentKeygen(t *testing.T) {
	g := secp256k1.New()
	ps := []participants.Participant{0, 1, 2, 3}
	entries := make([]protocol.Entry[*dkg.KeygenOutput], 0, len(ps))
	for _, p := range ps {
		proto, err := dkg.Keygen(g, csprng.New([]byte("concurrent"), p.Bytes()), ps, p, 3)
		require.NoError(t, err)
		entries = append(entries, protocol.Entry[*dkg.KeygenOutput]{Participant: p, Protocol: proto})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	results, err := RunConcurrent(ctx, entries)
	require.NoError(t, err)
	require.Len(t, results, len(ps))
	for i, r := range results {
		require.Equal(t, ps[i], r.Participant)
		require.True(t, r.Output.PublicKey.Equal(results[0].Output.PublicKey))
	}
}

func TestRunConcurrentMatchesLocal(t *testing.T) {
	g := secp256k1.New()
	ps := []participants.Participant{0, 1, 2}
	entries := func() []protocol.Entry[*dkg.KeygenOutput] {
		out := make([]protocol.Entry[*dkg.KeygenOutput], 0, len(ps))
		for _, p := range ps {
			proto, err := dkg.Keygen(g, csprng.New([]byte("match"), p.Bytes()), ps, p, 2)
			require.NoError(t, err)
			out = append(out, protocol.Entry[*dkg.KeygenOutput]{Participant: p, Protocol: proto})
		}
		return out
	}

	local, err := protocol.Run(entries())
	require.NoError(t, err)
	concurrent, err := RunConcurrent(context.Background(), entries())
	require.NoError(t, err)

	for _, l := range local {
		c := concurrent[l.Participant]
		require.True(t, l.Output.PrivateShare.Equal(c.Output.PrivateShare))
	}
}

func TestRunConcurrentFailureCancelsOthers(t *testing.T) {
	waiter := protocol.New(func(c *protocol.Comms) (int, error) {
		_, _, err := c.Recv(0)
		return 0, err
	})
	failing := protocol.New(func(c *protocol.Comms) (int, error) {
		return 0, protocol.Failed("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := RunConcurrent(ctx, []protocol.Entry[int]{
		{Participant: 0, Protocol: waiter},
		{Participant: 1, Protocol: failing},
	})
	require.ErrorIs(t, err, protocol.ErrAssertionFailed)
	require.NoError(t, ctx.Err())
}
