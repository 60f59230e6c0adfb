package participants

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/thresh/secp256k1"
)

func TestNewRejectsDuplicates(t *testing.T) {
	_, ok := New([]Participant{0, 1, 1})
	require.False(t, ok)

	l, ok := New([]Participant{2, 0, 1})
	require.True(t, ok)
	require.Equal(t, 3, l.Len())
	require.Equal(t, []Participant{2, 0, 1}, slices.Collect(l.All()))
	require.Equal(t, []Participant{2, 1}, slices.Collect(l.Others(0)))
	require.True(t, l.Contains(1))
	require.False(t, l.Contains(7))
}

func TestScalarIsShiftedByOne(t *testing.T) {
	g := secp256k1.New()
	require.True(t, Participant(0).Scalar(g).Equal(g.ScalarFromUint64(1)))
	require.True(t, Participant(41).Scalar(g).Equal(g.ScalarFromUint64(42)))
}

func TestMapCompleteness(t *testing.T) {
	l, _ := New([]Participant{0, 1, 2})
	m := NewMap[string](l)
	require.False(t, m.Full())

	m.Put(1, "b")
	m.Put(9, "ignored")
	require.True(t, m.Contains(1))
	require.False(t, m.Contains(9))
	require.False(t, m.Full())

	m.Put(0, "a")
	m.Put(2, "c")
	require.True(t, m.Full())
	require.Equal(t, []string{"a", "b", "c"}, m.Values())

	v, ok := m.Get(2)
	require.True(t, ok)
	require.Equal(t, "c", v)
}

func TestIntersection(t *testing.T) {
	a, _ := New([]Participant{0, 1, 2, 3})
	b, _ := New([]Participant{3, 1, 5})
	require.Equal(t, []Participant{1, 3}, a.Intersection(b).Slice())
}
