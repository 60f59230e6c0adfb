package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/f3rmion/thresh/participants"
)

var (
	// ErrClosed is returned by endpoints of a closed network.
	ErrClosed = errors.New("transport: closed")

	// ErrUnknownPeer is returned when sending to a party with no endpoint.
	ErrUnknownPeer = errors.New("transport: unknown peer")
)

// Message is a payload together with its sender.
type Message struct {
	From participants.Participant
	Data []byte
}

// Transport is one party's connection to the others.
//
// Implementations must be safe for concurrent use. Receive returns
// messages from any sender in arrival order; the protocols tolerate any
// interleaving across senders.
type Transport interface {
	Send(ctx context.Context, to participants.Participant, data []byte) error
	Receive(ctx context.Context) (Message, error)
}

type inbox struct {
	mu     sync.Mutex
	queue  []Message
	notify chan struct{}
	closed bool
}

func newInbox() *inbox {
	return &inbox{notify: make(chan struct{}, 1)}
}

func (b *inbox) push(m Message) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.queue = append(b.queue, m)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
	return nil
}

func (b *inbox) pop(ctx context.Context) (Message, error) {
	for {
		b.mu.Lock()
		if len(b.queue) > 0 {
			m := b.queue[0]
			b.queue = b.queue[1:]
			b.mu.Unlock()
			return m, nil
		}
		closed := b.closed
		b.mu.Unlock()
		if closed {
			return Message{}, ErrClosed
		}

		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-b.notify:
		}
	}
}

func (b *inbox) close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Network is an in-memory message switch between endpoints.
type Network struct {
	mu      sync.Mutex
	inboxes map[participants.Participant]*inbox
	closed  bool
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{inboxes: make(map[participants.Participant]*inbox)}
}

// Endpoint returns the endpoint of party me, creating it on first use.
func (n *Network) Endpoint(me participants.Participant) *Endpoint {
	n.mu.Lock()
	defer n.mu.Unlock()
	b := n.inboxes[me]
	if b == nil {
		b = newInbox()
		if n.closed {
			b.closed = true
		}
		n.inboxes[me] = b
	}
	return &Endpoint{net: n, self: me, in: b}
}

// Close closes every endpoint. Pending and future Receive calls fail with
// ErrClosed once their queued messages are drained.
func (n *Network) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for _, b := range n.inboxes {
		b.close()
	}
}

func (n *Network) lookup(p participants.Participant) (*inbox, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrClosed
	}
	b := n.inboxes[p]
	if b == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPeer, p)
	}
	return b, nil
}

// Endpoint is one party's attachment to a Network.
type Endpoint struct {
	net  *Network
	self participants.Participant
	in   *inbox
}

// Send queues a copy of data for to.
func (e *Endpoint) Send(ctx context.Context, to participants.Participant, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := e.net.lookup(to)
	if err != nil {
		return err
	}
	return b.push(Message{From: e.self, Data: append([]byte(nil), data...)})
}

// Receive returns the next message for this endpoint, blocking until one
// arrives, the network closes or ctx is done.
func (e *Endpoint) Receive(ctx context.Context) (Message, error) {
	return e.in.pop(ctx)
}

var _ Transport = (*Endpoint)(nil)
