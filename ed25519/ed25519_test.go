package ed25519

import (
	"crypto/rand"
	"testing"

	"filippo.io/edwards25519"

	"github.com/f3rmion/thresh/group/grouptest"
)

// orderTwo encodes (0, -1), the point of order 2.
func orderTwo() []byte {
	enc := make([]byte, PointSize)
	enc[0] = 0xec
	for i := 1; i < 31; i++ {
		enc[i] = 0xff
	}
	enc[31] = 0x7f
	return enc
}

func TestGroup(t *testing.T) {
	grouptest.Run(t, New())
}

func TestRejectsSmallOrderPoint(t *testing.T) {
	if _, err := New().NewPoint().SetBytes(orderTwo()); err == nil {
		t.Error("expected small-order point to be rejected")
	}
}

func TestRejectsMixedOrderPoint(t *testing.T) {
	torsion, err := new(edwards25519.Point).SetBytes(orderTwo())
	if err != nil {
		t.Fatal(err)
	}
	mixed := new(edwards25519.Point).Add(edwards25519.NewGeneratorPoint(), torsion)
	if _, err := New().NewPoint().SetBytes(mixed.Bytes()); err == nil {
		t.Error("expected G + T to be rejected")
	}
}

func TestAcceptsSubgroupPoints(t *testing.T) {
	g := New()
	for i := 0; i < 8; i++ {
		s, err := g.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		p := g.NewPoint().ScalarMult(s, g.Generator())
		restored, err := g.NewPoint().SetBytes(p.Bytes())
		if err != nil {
			t.Fatalf("subgroup point rejected: %v", err)
		}
		if !restored.Equal(p) {
			t.Error("point did not survive encoding")
		}
	}
	if _, err := g.NewPoint().SetBytes(g.NewPoint().Bytes()); err != nil {
		t.Errorf("identity rejected: %v", err)
	}
}

func TestNonCanonicalScalar(t *testing.T) {
	enc := make([]byte, ScalarSize)
	for i := range enc {
		enc[i] = 0xff
	}
	if _, err := New().NewScalar().SetBytes(enc); err == nil {
		t.Error("expected non-canonical scalar to be rejected")
	}
}
