package protocol

import (
	"iter"
	"sync"

	"github.com/f3rmion/thresh/codec"
	"github.com/f3rmion/thresh/participants"
)

type envelope struct {
	from    participants.Participant
	payload []byte
}

// effect is what a body hands to the executor when it suspends.
type effect struct {
	kind Kind
	to   participants.Participant
	data []byte
}

// Comms is the mailbox a protocol body communicates through. Messages are
// queued per round in arrival order; rounds are independent, so a message
// for a later round may arrive and wait while an earlier one is being
// collected.
type Comms struct {
	mu     sync.Mutex
	queues map[uint64][]envelope
	bad    error // first malformed frame

	yield  func(effect) bool
	closed bool
}

func newComms() *Comms {
	return &Comms{queues: make(map[uint64][]envelope)}
}

func (c *Comms) emit(e effect) {
	if c.closed {
		return
	}
	if !c.yield(e) {
		c.closed = true
	}
}

// SendMany sends payload for round to every other participant.
func (c *Comms) SendMany(round uint64, payload []byte) {
	c.emit(effect{kind: SendMany, data: codec.Frame(round, payload)})
}

// SendPrivate sends payload for round to one participant.
func (c *Comms) SendPrivate(round uint64, to participants.Participant, payload []byte) {
	c.emit(effect{kind: SendPrivate, to: to, data: codec.Frame(round, payload)})
}

// Recv returns the next message queued for round, suspending the protocol
// until one arrives. It fails only if the protocol is closed while
// suspended.
func (c *Comms) Recv(round uint64) (participants.Participant, []byte, error) {
	for {
		if c.closed {
			return 0, nil, ErrClosed
		}
		c.mu.Lock()
		if q := c.queues[round]; len(q) > 0 {
			env := q[0]
			c.queues[round] = q[1:]
			c.mu.Unlock()
			return env.from, env.payload, nil
		}
		c.mu.Unlock()
		c.emit(effect{kind: Wait})
	}
}

func (c *Comms) push(from participants.Participant, data []byte) {
	round, payload, err := codec.Unframe(data)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if c.bad == nil {
			c.bad = Malformed(from, "frame", err)
		}
		return
	}
	c.queues[round] = append(c.queues[round], envelope{from: from, payload: payload})
}

func (c *Comms) malformed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bad
}

// Body is a protocol written as a sequential function over a mailbox.
type Body[T any] func(c *Comms) (T, error)

// Executor turns a Body into a Protocol. It is created by New.
type Executor[T any] struct {
	comms *Comms
	next  func() (effect, bool)
	stop  func()

	finished bool
	output   T
	err      error
}

// New starts body as a Protocol. The body does not run until the first
// Poke.
func New[T any](body Body[T]) *Executor[T] {
	x := &Executor[T]{comms: newComms()}
	seq := func(yield func(effect) bool) {
		x.comms.yield = yield
		x.output, x.err = body(x.comms)
	}
	x.next, x.stop = iter.Pull(seq)
	return x
}

// Poke implements Protocol.
func (x *Executor[T]) Poke() (Action[T], error) {
	if !x.finished {
		if err := x.comms.malformed(); err != nil {
			x.finish(err)
		}
	}
	if x.finished {
		return x.terminal()
	}
	e, ok := x.next()
	if !ok {
		x.finished = true
		return x.terminal()
	}
	return Action[T]{Kind: e.kind, To: e.to, Data: e.data}, nil
}

// Message implements Protocol. It may be called concurrently with Poke.
// Messages delivered after the protocol finished are never read.
func (x *Executor[T]) Message(from participants.Participant, data []byte) {
	x.comms.push(from, data)
}

// Close abandons the protocol, unwinding its body if it is suspended.
func (x *Executor[T]) Close() {
	if x.finished {
		return
	}
	x.finish(ErrClosed)
}

func (x *Executor[T]) finish(err error) {
	var zero T
	x.stop()
	x.finished = true
	x.output = zero
	x.err = err
}

func (x *Executor[T]) terminal() (Action[T], error) {
	if x.err != nil {
		return Action[T]{}, x.err
	}
	return Action[T]{Kind: Return, Output: x.output}, nil
}
