// Package grouptest checks that a [group.Group] implementation behaves like
// a prime-order group. Curve packages call [Run] from their tests.
package grouptest

import (
	"crypto/rand"
	"testing"

	"github.com/f3rmion/thresh/group"
)

// Run exercises the arithmetic and encoding contract of g.
func Run(t *testing.T, g group.Group) {
	t.Helper()

	randomScalar := func(t *testing.T) group.Scalar {
		t.Helper()
		s, err := g.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	t.Run("ScalarField", func(t *testing.T) {
		a, b := randomScalar(t), randomScalar(t)
		sum := g.NewScalar().Add(a, b)
		if !g.NewScalar().Sub(sum, b).Equal(a) {
			t.Error("(a+b)-b != a")
		}
		inv, err := g.NewScalar().Invert(a)
		if err != nil {
			t.Fatal(err)
		}
		if !g.NewScalar().Mul(a, inv).Equal(g.ScalarFromUint64(1)) {
			t.Error("a*a^-1 != 1")
		}
		if _, err := g.NewScalar().Invert(g.NewScalar()); err == nil {
			t.Error("expected error inverting zero")
		}
		neg := g.NewScalar().Negate(a)
		if !g.NewScalar().Add(a, neg).IsZero() {
			t.Error("a + (-a) != 0")
		}
	})

	t.Run("SmallIntegers", func(t *testing.T) {
		three := g.ScalarFromUint64(3)
		acc := g.NewScalar()
		for i := 0; i < 3; i++ {
			acc = g.NewScalar().Add(acc, g.ScalarFromUint64(1))
		}
		if !acc.Equal(three) {
			t.Error("1+1+1 != 3")
		}
	})

	t.Run("ScalarEncoding", func(t *testing.T) {
		a := randomScalar(t)
		restored, err := g.NewScalar().SetBytes(a.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(a) {
			t.Error("scalar bytes roundtrip failed")
		}
		if _, err := g.NewScalar().SetBytes(a.Bytes()[1:]); err == nil {
			t.Error("expected error for truncated scalar")
		}
	})

	t.Run("PointArithmetic", func(t *testing.T) {
		a, b := randomScalar(t), randomScalar(t)
		gen := g.Generator()
		P := g.NewPoint().ScalarMult(a, gen)
		Q := g.NewPoint().ScalarMult(b, gen)
		sum := g.NewPoint().Add(P, Q)
		if !g.NewPoint().Sub(sum, Q).Equal(P) {
			t.Error("(P+Q)-Q != P")
		}
		ab := g.NewScalar().Add(a, b)
		if !g.NewPoint().ScalarMult(ab, gen).Equal(sum) {
			t.Error("(a+b)G != aG + bG")
		}
		if !g.NewPoint().Add(P, g.NewPoint().Negate(P)).IsIdentity() {
			t.Error("P + (-P) != identity")
		}
		if !g.NewPoint().ScalarMult(g.NewScalar(), gen).IsIdentity() {
			t.Error("0*G != identity")
		}
		if !g.NewPoint().Add(P, g.NewPoint()).Equal(P) {
			t.Error("P + identity != P")
		}
	})

	t.Run("PointEncoding", func(t *testing.T) {
		P := g.NewPoint().ScalarMult(randomScalar(t), g.Generator())
		restored, err := g.NewPoint().SetBytes(P.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(P) {
			t.Error("point bytes roundtrip failed")
		}
		id, err := g.NewPoint().SetBytes(g.NewPoint().Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !id.IsIdentity() {
			t.Error("identity roundtrip failed")
		}
	})

	t.Run("HashToScalar", func(t *testing.T) {
		a, err := g.HashToScalar([]byte("a"), []byte("b"))
		if err != nil {
			t.Fatal(err)
		}
		b, _ := g.HashToScalar([]byte("a"), []byte("b"))
		c, _ := g.HashToScalar([]byte("a"), []byte("c"))
		if !a.Equal(b) {
			t.Error("hash to scalar is not deterministic")
		}
		if a.Equal(c) {
			t.Error("distinct inputs hashed to the same scalar")
		}
	})
}
