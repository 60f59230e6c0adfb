package protocol

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/f3rmion/thresh/participants"
)

// Entry pairs a participant with its protocol instance.
type Entry[T any] struct {
	Participant participants.Participant
	Protocol    Protocol[T]
}

// Result is the output a participant returned.
type Result[T any] struct {
	Participant participants.Participant
	Output      T
}

// Option configures a driver.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger sets the logger drivers report actions to.
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

// router holds the parties of one local run and delivers messages
// between them.
type router[T any] struct {
	entries []Entry[T]
	index   map[participants.Participant]int
	done    []bool
	outputs []Result[T]
	sent    int
	log     zerolog.Logger
}

func newRouter[T any](entries []Entry[T], o options) (*router[T], error) {
	r := &router[T]{
		entries: entries,
		index:   make(map[participants.Participant]int, len(entries)),
		done:    make([]bool, len(entries)),
		log:     o.log,
	}
	for i, e := range entries {
		if _, dup := r.index[e.Participant]; dup {
			return nil, errors.Wrapf(ErrBadParameters, "participant %d listed twice", e.Participant)
		}
		r.index[e.Participant] = i
	}
	return r, nil
}

// step pokes entry i until it waits or returns.
func (r *router[T]) step(i int) error {
	if r.done[i] {
		return nil
	}
	me := r.entries[i].Participant
	for {
		action, err := r.entries[i].Protocol.Poke()
		if err != nil {
			r.log.Warn().Uint32("participant", uint32(me)).Err(err).Msg("protocol aborted")
			return errors.Wrapf(err, "participant %d", me)
		}
		r.log.Debug().
			Uint32("participant", uint32(me)).
			Stringer("action", action.Kind).
			Int("bytes", len(action.Data)).
			Msg("poke")

		switch action.Kind {
		case Wait:
			return nil
		case SendMany:
			r.sent++
			for j, e := range r.entries {
				if j != i {
					e.Protocol.Message(me, action.Data)
				}
			}
		case SendPrivate:
			r.sent++
			j, ok := r.index[action.To]
			if !ok {
				return errors.Wrapf(ErrUnknownParticipant, "participant %d sent to %d", me, action.To)
			}
			r.entries[j].Protocol.Message(me, action.Data)
		case Return:
			r.done[i] = true
			r.outputs = append(r.outputs, Result[T]{Participant: me, Output: action.Output})
			return nil
		}
	}
}

func (r *router[T]) finished() bool {
	return len(r.outputs) == len(r.entries)
}

// pass steps every unfinished entry once, in order, and fails with
// ErrStalled if nothing was sent and nobody returned.
func (r *router[T]) pass() error {
	sent, returned := r.sent, len(r.outputs)
	for i := range r.entries {
		if err := r.step(i); err != nil {
			return err
		}
	}
	if r.sent == sent && len(r.outputs) == returned {
		return ErrStalled
	}
	return nil
}

func (r *router[T]) close() {
	for _, e := range r.entries {
		Close(e.Protocol)
	}
}

// Run executes the protocols of all parties locally until every one of
// them returns, and reports the outputs in the order they were returned.
// The first error aborts the whole run.
func Run[T any](entries []Entry[T], opts ...Option) ([]Result[T], error) {
	r, err := newRouter(entries, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	for !r.finished() {
		if err := r.pass(); err != nil {
			r.close()
			return nil, err
		}
	}
	return r.outputs, nil
}
