package polynomial

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/thresh/csprng"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
	"github.com/f3rmion/thresh/secp256k1"
)

func TestEvaluateMatchesCommitment(t *testing.T) {
	g := secp256k1.New()
	rng := csprng.New([]byte("polynomial"))

	p, err := Random(g, rng, nil, 3)
	require.NoError(t, err)
	c := p.Commit()
	require.Equal(t, 3, c.Degree())

	for v := uint64(1); v <= 5; v++ {
		x := g.ScalarFromUint64(v)
		want := g.NewPoint().ScalarMult(p.Evaluate(x), g.Generator())
		require.True(t, want.Equal(c.Evaluate(x)))
	}
}

func TestFixedConstant(t *testing.T) {
	g := secp256k1.New()
	rng := csprng.New([]byte("constant"))

	p, err := Random(g, rng, g.NewScalar(), 2)
	require.NoError(t, err)
	require.True(t, p.Constant().IsZero())
	require.True(t, p.Commit().Constant().IsIdentity())
}

func TestAddCommitted(t *testing.T) {
	g := secp256k1.New()
	rng := csprng.New([]byte("add"))

	a, err := Random(g, rng, nil, 2)
	require.NoError(t, err)
	b, err := Random(g, rng, nil, 2)
	require.NoError(t, err)

	sum, err := a.Commit().Add(b.Commit())
	require.NoError(t, err)

	x := g.ScalarFromUint64(9)
	want := g.NewScalar().Add(a.Evaluate(x), b.Evaluate(x))
	require.True(t, sum.Evaluate(x).Equal(g.NewPoint().ScalarMult(want, g.Generator())))

	short, err := Random(g, rng, nil, 1)
	require.NoError(t, err)
	_, err = a.Commit().Add(short.Commit())
	require.Error(t, err)
}

func TestCommittedEncoding(t *testing.T) {
	g := secp256k1.New()
	rng := csprng.New([]byte("encoding"))

	p, err := Random(g, rng, nil, 2)
	require.NoError(t, err)
	c := p.Commit()

	got, err := DecodeCommitted(g, c.Bytes(), 2)
	require.NoError(t, err)
	for i, pt := range c.Points() {
		require.True(t, pt.Equal(got.Points()[i]))
	}

	_, err = DecodeCommitted(g, c.Bytes(), 1)
	require.Error(t, err)
}

func TestInterpolate(t *testing.T) {
	g := secp256k1.New()
	rng := csprng.New([]byte("interpolate"))
	l, _ := participants.New([]participants.Participant{0, 2, 5})

	p, err := Random(g, rng, nil, 2)
	require.NoError(t, err)

	var shares []group.Scalar
	for q := range l.All() {
		shares = append(shares, p.Evaluate(q.Scalar(g)))
	}
	secret, err := Interpolate(g, l, shares)
	require.NoError(t, err)
	require.True(t, secret.Equal(p.Constant()))

	_, err = Lagrange(g, l, 7)
	require.Error(t, err)
}

func TestAddRejectsDegreeMismatch(t *testing.T) {
	g := secp256k1.New()
	rng := csprng.New([]byte("degrees"))
	a, err := Random(g, rng, nil, 1)
	require.NoError(t, err)
	b, err := Random(g, rng, nil, 2)
	require.NoError(t, err)

	_, err = a.Commit().Add(b.Commit())
	require.Error(t, err)

	sum, err := a.Commit().Add(a.Commit())
	require.NoError(t, err)
	require.Equal(t, 1, sum.Degree())
}
