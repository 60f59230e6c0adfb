package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/thresh/secp256k1"
)

func TestChallengeDeterministic(t *testing.T) {
	g := secp256k1.New()

	a := New("ctx")
	a.Message("m", []byte("hello"))
	b := New("ctx")
	b.Message("m", []byte("hello"))

	ca, err := a.Challenge("c", g)
	require.NoError(t, err)
	cb, err := b.Challenge("c", g)
	require.NoError(t, err)
	require.True(t, ca.Equal(cb))

	next, err := a.Challenge("c", g)
	require.NoError(t, err)
	require.False(t, ca.Equal(next))
}

func TestContextAndMessagesSeparate(t *testing.T) {
	g := secp256k1.New()
	challenge := func(ctx, label string, data []byte) []byte {
		tr := New(ctx)
		tr.Message(label, data)
		c, err := tr.Challenge("c", g)
		require.NoError(t, err)
		return c.Bytes()
	}
	base := challenge("ctx", "m", []byte("x"))
	require.NotEqual(t, base, challenge("ctx2", "m", []byte("x")))
	require.NotEqual(t, base, challenge("ctx", "n", []byte("x")))
	require.NotEqual(t, base, challenge("ctx", "m", []byte("y")))
	require.NotEqual(t, challenge("ctx", "mx", nil), challenge("ctx", "m", []byte("x")))
}

func TestForkIsolation(t *testing.T) {
	g := secp256k1.New()
	root := New("ctx")
	root.Message("m", []byte("shared"))

	f0 := root.Fork("dlog0", []byte{0, 0, 0, 0})
	f0again := root.Fork("dlog0", []byte{0, 0, 0, 0})
	f1 := root.Fork("dlog0", []byte{0, 0, 0, 1})

	c0, err := f0.Challenge("c", g)
	require.NoError(t, err)
	c0again, err := f0again.Challenge("c", g)
	require.NoError(t, err)
	c1, err := f1.Challenge("c", g)
	require.NoError(t, err)

	require.True(t, c0.Equal(c0again))
	require.False(t, c0.Equal(c1))

	// Forking leaves the parent untouched.
	fresh := New("ctx")
	fresh.Message("m", []byte("shared"))
	cr, err := root.Challenge("c", g)
	require.NoError(t, err)
	cf, err := fresh.Challenge("c", g)
	require.NoError(t, err)
	require.True(t, cr.Equal(cf))
}
