package protocol

import (
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/thresh/codec"
	"github.com/f3rmion/thresh/participants"
)

func u64(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

// sum broadcasts its value, privately forwards the total it saw to the
// next party, and returns the total plus what it was forwarded.
func sum(l *participants.List, me participants.Participant, value uint64) Body[uint64] {
	return func(c *Comms) (uint64, error) {
		c.SendMany(0, u64(value))
		total := value
		seen := participants.NewMap[struct{}](l)
		seen.Put(me, struct{}{})
		for !seen.Full() {
			from, msg, err := c.Recv(0)
			if err != nil {
				return 0, err
			}
			if seen.Contains(from) {
				continue
			}
			seen.Put(from, struct{}{})
			total += binary.BigEndian.Uint64(msg)
		}

		ps := l.Slice()
		i, _ := l.Index(me)
		c.SendPrivate(1, ps[(i+1)%len(ps)], u64(total))
		_, msg, err := c.Recv(1)
		if err != nil {
			return 0, err
		}
		return total + binary.BigEndian.Uint64(msg), nil
	}
}

func sumEntries(t *testing.T, values ...uint64) []Entry[uint64] {
	t.Helper()
	ps := make([]participants.Participant, len(values))
	for i := range values {
		ps[i] = participants.Participant(i)
	}
	l, ok := participants.New(ps)
	require.True(t, ok)
	entries := make([]Entry[uint64], len(values))
	for i, v := range values {
		entries[i] = Entry[uint64]{Participant: ps[i], Protocol: New(sum(l, ps[i], v))}
	}
	return entries
}

func sortedOutputs(rs []Result[uint64]) []uint64 {
	out := make([]uint64, len(rs))
	for _, r := range rs {
		out[r.Participant] = r.Output
	}
	return out
}

func TestRun(t *testing.T) {
	out, err := Run(sumEntries(t, 1, 2, 3))
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, []uint64{12, 12, 12}, sortedOutputs(out))
}

func TestRoundRobinAgreesWithRun(t *testing.T) {
	a, err := Run(sumEntries(t, 5, 7, 11, 13))
	require.NoError(t, err)
	b, err := RunRoundRobin(sumEntries(t, 5, 7, 11, 13))
	require.NoError(t, err)
	require.Equal(t, sortedOutputs(a), sortedOutputs(b))
}

func TestWaitIsIdempotent(t *testing.T) {
	l, _ := participants.New([]participants.Participant{0, 1})
	p := New(sum(l, 0, 1))

	a, err := p.Poke()
	require.NoError(t, err)
	require.Equal(t, SendMany, a.Kind)

	for range 3 {
		a, err = p.Poke()
		require.NoError(t, err)
		require.Equal(t, Wait, a.Kind)
	}

	// A message for a later round does not wake round 0.
	p.Message(1, codec.Frame(1, u64(9)))
	a, err = p.Poke()
	require.NoError(t, err)
	require.Equal(t, Wait, a.Kind)

	p.Message(1, codec.Frame(0, u64(2)))
	a, err = p.Poke()
	require.NoError(t, err)
	require.Equal(t, SendPrivate, a.Kind)
	require.Equal(t, participants.Participant(1), a.To)

	// Round 1 was already queued.
	a, err = p.Poke()
	require.NoError(t, err)
	require.Equal(t, Return, a.Kind)
	require.Equal(t, uint64(12), a.Output)

	// Terminal result repeats.
	a, err = p.Poke()
	require.NoError(t, err)
	require.Equal(t, Return, a.Kind)
	require.Equal(t, uint64(12), a.Output)
}

func TestMalformedFrame(t *testing.T) {
	l, _ := participants.New([]participants.Participant{0, 1})
	p := New(sum(l, 0, 1))
	_, err := p.Poke()
	require.NoError(t, err)

	p.Message(1, []byte{0xff, 0xff})
	_, err = p.Poke()
	require.ErrorIs(t, err, ErrAssertionFailed)

	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
	require.NotNil(t, perr.From)
	require.Equal(t, participants.Participant(1), *perr.From)

	// The error is terminal.
	_, err2 := p.Poke()
	require.Equal(t, err, err2)
}

func TestBodyErrorIsTerminal(t *testing.T) {
	boom := Failed("boom")
	p := New(func(c *Comms) (int, error) {
		c.SendMany(0, nil)
		return 0, boom
	})
	a, err := p.Poke()
	require.NoError(t, err)
	require.Equal(t, SendMany, a.Kind)

	_, err = p.Poke()
	require.ErrorIs(t, err, ErrAssertionFailed)
	_, err = p.Poke()
	require.Equal(t, boom, err)
}

func TestRunStalls(t *testing.T) {
	waiter := func(c *Comms) (int, error) {
		_, _, err := c.Recv(0)
		return 0, err
	}
	_, err := Run([]Entry[int]{
		{Participant: 0, Protocol: New(waiter)},
		{Participant: 1, Protocol: New(waiter)},
	})
	require.ErrorIs(t, err, ErrStalled)

	_, err = RunRoundRobin([]Entry[int]{
		{Participant: 0, Protocol: New(waiter)},
	})
	require.ErrorIs(t, err, ErrStalled)
}

func TestRunUnknownParticipant(t *testing.T) {
	p := New(func(c *Comms) (int, error) {
		c.SendPrivate(0, 9, nil)
		return 0, nil
	})
	_, err := Run([]Entry[int]{{Participant: 0, Protocol: p}})
	require.ErrorIs(t, err, ErrUnknownParticipant)
}

func TestRunWrapsParticipant(t *testing.T) {
	bad := New(func(c *Comms) (int, error) {
		return 0, BadParameters("nope")
	})
	_, err := Run([]Entry[int]{
		{Participant: 0, Protocol: New(func(c *Comms) (int, error) { return 1, nil })},
		{Participant: 4, Protocol: bad},
	})
	require.ErrorIs(t, err, ErrBadParameters)
	require.Contains(t, err.Error(), "participant 4")
}

func TestDuplicateEntries(t *testing.T) {
	body := func(c *Comms) (int, error) { return 0, nil }
	_, err := NewMultiplexer([]Entry[int]{
		{Participant: 1, Protocol: New(body)},
		{Participant: 1, Protocol: New(body)},
	})
	require.ErrorIs(t, err, ErrBadParameters)
}

func TestMultiplexerStep(t *testing.T) {
	m, err := NewMultiplexer(sumEntries(t, 1, 1))
	require.NoError(t, err)

	require.NoError(t, m.Step(0))
	require.Empty(t, m.Outputs())
	require.NoError(t, m.Step(1))
	require.NoError(t, m.Step(0))
	require.True(t, m.Returned(0))
	require.Len(t, m.Outputs(), 1)

	// Stepping a returned party is a no-op.
	require.NoError(t, m.Step(0))
	require.Len(t, m.Outputs(), 1)

	require.NoError(t, m.Step(1))
	require.True(t, m.Done())
	got := []participants.Participant{m.Outputs()[0].Participant, m.Outputs()[1].Participant}
	require.True(t, slices.Equal(got, []participants.Participant{0, 1}))
}

func TestCloseUnwindsBody(t *testing.T) {
	var seen error
	p := New(func(c *Comms) (int, error) {
		_, _, err := c.Recv(0)
		seen = err
		return 0, err
	})
	a, err := p.Poke()
	require.NoError(t, err)
	require.Equal(t, Wait, a.Kind)

	p.Close()
	require.ErrorIs(t, seen, ErrClosed)
	_, err = p.Poke()
	require.ErrorIs(t, err, ErrClosed)
}

func TestErrorKinds(t *testing.T) {
	require.ErrorIs(t, BadParameters("x"), ErrBadParameters)
	require.NotErrorIs(t, BadParameters("x"), ErrAssertionFailed)
	require.ErrorIs(t, AssertionFailed(3, "x"), ErrAssertionFailed)

	cause := errors.New("cause")
	err := Malformed(2, "share", cause)
	require.ErrorIs(t, err, ErrAssertionFailed)
	require.ErrorIs(t, err, cause)
}
