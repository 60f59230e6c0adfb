// Package participants models the fixed set of parties taking part in one
// protocol run and a per-round store that tracks which of them have
// contributed.
package participants

import (
	"encoding/binary"
	"iter"

	"github.com/f3rmion/thresh/group"
)

// Participant identifies one party. Identities are small integers; the
// evaluation point used for secret sharing is id+1, since 0 is reserved
// for the shared secret itself.
type Participant uint32

// Bytes returns the 4-byte big-endian encoding of p.
func (p Participant) Bytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(p))
	return b[:]
}

// Scalar returns the nonzero evaluation point of p in g's scalar field.
func (p Participant) Scalar(g group.Group) group.Scalar {
	return g.ScalarFromUint64(uint64(p) + 1)
}

// List is an ordered, duplicate-free set of participants. It is never
// mutated after construction and may be shared between protocol instances.
type List struct {
	members []Participant
	index   map[Participant]int
}

// New returns a List holding ps in order, or false if ps contains a
// duplicate.
func New(ps []Participant) (*List, bool) {
	l := &List{
		members: make([]Participant, 0, len(ps)),
		index:   make(map[Participant]int, len(ps)),
	}
	for _, p := range ps {
		if _, dup := l.index[p]; dup {
			return nil, false
		}
		l.index[p] = len(l.members)
		l.members = append(l.members, p)
	}
	return l, true
}

// Len returns the number of participants.
func (l *List) Len() int {
	return len(l.members)
}

// Contains reports whether p is a member of l.
func (l *List) Contains(p Participant) bool {
	_, ok := l.index[p]
	return ok
}

// Index returns the position of p in l.
func (l *List) Index(p Participant) (int, bool) {
	i, ok := l.index[p]
	return i, ok
}

// All iterates over the members in order.
func (l *List) All() iter.Seq[Participant] {
	return func(yield func(Participant) bool) {
		for _, p := range l.members {
			if !yield(p) {
				return
			}
		}
	}
}

// Others iterates over every member except me.
func (l *List) Others(me Participant) iter.Seq[Participant] {
	return func(yield func(Participant) bool) {
		for _, p := range l.members {
			if p == me {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Slice returns a copy of the members.
func (l *List) Slice() []Participant {
	return append([]Participant(nil), l.members...)
}

// Intersection returns the members of l that are also in other, in l's order.
func (l *List) Intersection(other *List) *List {
	var shared []Participant
	for _, p := range l.members {
		if other.Contains(p) {
			shared = append(shared, p)
		}
	}
	out, _ := New(shared)
	return out
}

// Map records at most one value per participant of a List and reports when
// every participant has contributed.
//
// Put does not reject a second value for the same participant; callers
// that need first-seen semantics check Contains before calling Put.
type Map[T any] struct {
	list   *List
	slots  []T
	filled []bool
	count  int
}

// NewMap returns an empty Map over l.
func NewMap[T any](l *List) *Map[T] {
	return &Map[T]{
		list:   l,
		slots:  make([]T, l.Len()),
		filled: make([]bool, l.Len()),
	}
}

// Put records v for p. Values for non-members are dropped.
func (m *Map[T]) Put(p Participant, v T) {
	i, ok := m.list.Index(p)
	if !ok {
		return
	}
	if !m.filled[i] {
		m.filled[i] = true
		m.count++
	}
	m.slots[i] = v
}

// Contains reports whether a value has been recorded for p.
func (m *Map[T]) Contains(p Participant) bool {
	i, ok := m.list.Index(p)
	return ok && m.filled[i]
}

// Full reports whether every participant has a recorded value.
func (m *Map[T]) Full() bool {
	return m.count == len(m.slots)
}

// Get returns the value recorded for p.
func (m *Map[T]) Get(p Participant) (T, bool) {
	var zero T
	i, ok := m.list.Index(p)
	if !ok || !m.filled[i] {
		return zero, false
	}
	return m.slots[i], true
}

// Values returns the recorded values in list order. It is meaningful once
// the map is full.
func (m *Map[T]) Values() []T {
	out := make([]T, 0, m.count)
	for i, v := range m.slots {
		if m.filled[i] {
			out = append(out, v)
		}
	}
	return out
}
