package transport

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/protocol"
)

// Option configures Drive and RunConcurrent.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger sets the logger actions are reported to.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Drive runs p for party me until it returns, sending its messages over t
// to the other members of list. It blocks on t only when p waits.
func Drive[T any](
	ctx context.Context,
	me participants.Participant,
	list *participants.List,
	p protocol.Protocol[T],
	t Transport,
	opts ...Option,
) (T, error) {
	var zero T
	log := buildOptions(opts).log.With().Uint32("participant", uint32(me)).Logger()

	fail := func(err error) (T, error) {
		protocol.Close(p)
		log.Warn().Err(err).Msg("protocol aborted")
		return zero, errors.Wrapf(err, "participant %d", me)
	}

	for {
		action, err := p.Poke()
		if err != nil {
			return fail(err)
		}
		log.Debug().Stringer("action", action.Kind).Int("bytes", len(action.Data)).Msg("poke")

		switch action.Kind {
		case protocol.Wait:
			msg, err := t.Receive(ctx)
			if err != nil {
				return fail(err)
			}
			p.Message(msg.From, msg.Data)
		case protocol.SendMany:
			for q := range list.Others(me) {
				if err := t.Send(ctx, q, action.Data); err != nil {
					return fail(err)
				}
			}
		case protocol.SendPrivate:
			if err := t.Send(ctx, action.To, action.Data); err != nil {
				return fail(err)
			}
		case protocol.Return:
			return action.Output, nil
		}
	}
}

// RunConcurrent runs every entry on its own goroutine over a fresh
// in-memory network and returns the outputs in entry order. The first
// failure cancels the others.
func RunConcurrent[T any](ctx context.Context, entries []protocol.Entry[T], opts ...Option) ([]protocol.Result[T], error) {
	ps := make([]participants.Participant, len(entries))
	for i, e := range entries {
		ps[i] = e.Participant
	}
	list, ok := participants.New(ps)
	if !ok {
		return nil, errors.Wrap(protocol.ErrBadParameters, "duplicate participant")
	}

	net := NewNetwork()
	defer net.Close()
	endpoints := make([]*Endpoint, len(entries))
	for i, e := range entries {
		endpoints[i] = net.Endpoint(e.Participant)
	}

	results := make([]protocol.Result[T], len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			out, err := Drive(gctx, e.Participant, list, e.Protocol, endpoints[i], opts...)
			if err != nil {
				return err
			}
			results[i] = protocol.Result[T]{Participant: e.Participant, Output: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
