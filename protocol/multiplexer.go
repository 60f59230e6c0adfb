package protocol

// Multiplexer drives several parties resident in one process, advancing
// exactly one of them per Step. Messages a party sends are delivered to the
// other resident parties immediately.
type Multiplexer[T any] struct {
	r *router[T]
}

// NewMultiplexer returns a Multiplexer over entries. It fails if a
// participant appears twice.
func NewMultiplexer[T any](entries []Entry[T], opts ...Option) (*Multiplexer[T], error) {
	r, err := newRouter(entries, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	return &Multiplexer[T]{r: r}, nil
}

// Len returns the number of resident parties.
func (m *Multiplexer[T]) Len() int {
	return len(m.r.entries)
}

// Step pokes the i-th party until it waits or returns. Stepping a party
// that already returned does nothing.
func (m *Multiplexer[T]) Step(i int) error {
	return m.r.step(i)
}

// Returned reports whether the i-th party has returned.
func (m *Multiplexer[T]) Returned(i int) bool {
	return m.r.done[i]
}

// Done reports whether every party has returned.
func (m *Multiplexer[T]) Done() bool {
	return m.r.finished()
}

// Outputs returns the outputs collected so far, in the order returned.
func (m *Multiplexer[T]) Outputs() []Result[T] {
	return m.r.outputs
}

// Close abandons every party.
func (m *Multiplexer[T]) Close() {
	m.r.close()
}

// RunRoundRobin steps every party that has not yet returned, in entry
// order, until all have returned.
func RunRoundRobin[T any](entries []Entry[T], opts ...Option) ([]Result[T], error) {
	m, err := NewMultiplexer(entries, opts...)
	if err != nil {
		return nil, err
	}
	for !m.Done() {
		sent, returned := m.r.sent, len(m.r.outputs)
		for i := 0; i < m.Len(); i++ {
			if m.Returned(i) {
				continue
			}
			if err := m.Step(i); err != nil {
				m.Close()
				return nil, err
			}
		}
		if m.r.sent == sent && len(m.r.outputs) == returned {
			m.Close()
			return nil, ErrStalled
		}
	}
	return m.Outputs(), nil
}
