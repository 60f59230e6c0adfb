package dlog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/thresh/bjj"
	"github.com/f3rmion/thresh/csprng"
	"github.com/f3rmion/thresh/ed25519"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/secp256k1"
	"github.com/f3rmion/thresh/transcript"
)

func groups() map[string]group.Group {
	return map[string]group.Group{
		"bjj":       &bjj.BJJ{},
		"secp256k1": secp256k1.New(),
		"ed25519":   ed25519.New(),
	}
}

func fork(label string, who []byte) *transcript.Transcript {
	root := transcript.New("dlog test")
	root.Message("setup", []byte("shared"))
	return root.Fork(label, who)
}

func TestProveVerify(t *testing.T) {
	for name, g := range groups() {
		t.Run(name, func(t *testing.T) {
			rng := csprng.New([]byte(name))
			x, err := g.RandomScalar(rng)
			require.NoError(t, err)
			X := g.NewPoint().ScalarMult(x, g.Generator())

			proof, err := Prove(g, rng, fork("dlog0", []byte{0}), x)
			require.NoError(t, err)
			require.True(t, Verify(g, fork("dlog0", []byte{0}), X, proof))

			// Bound to the prover's identity.
			require.False(t, Verify(g, fork("dlog0", []byte{1}), X, proof))

			// Bound to the statement.
			other := g.NewPoint().Add(X, g.Generator())
			require.False(t, Verify(g, fork("dlog0", []byte{0}), other, proof))
		})
	}
}

func TestEncoding(t *testing.T) {
	g := secp256k1.New()
	rng := csprng.New([]byte("encoding"))
	x, err := g.RandomScalar(rng)
	require.NoError(t, err)

	proof, err := Prove(g, rng, fork("dlog0", nil), x)
	require.NoError(t, err)

	got, err := Decode(g, proof.Bytes())
	require.NoError(t, err)
	require.True(t, got.E.Equal(proof.E))
	require.True(t, got.S.Equal(proof.S))

	X := g.NewPoint().ScalarMult(x, g.Generator())
	require.True(t, Verify(g, fork("dlog0", nil), X, got))

	_, err = Decode(g, proof.Bytes()[:10])
	require.Error(t, err)
}
