package ed25519

import (
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"filippo.io/edwards25519"

	"github.com/f3rmion/thresh/group"
)

const (
	// ScalarSize is the length of a canonical scalar encoding.
	ScalarSize = 32
	// PointSize is the length of a compressed point encoding.
	PointSize = 32
)

var errNotSubgroup = errors.New("ed25519: point is not in the prime-order subgroup")

// order is l = 2^252 + 27742317777372353535851937790883648493.
var order = func() *big.Int {
	l, _ := new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
	return l
}()

// Scalar is an integer modulo l.
type Scalar struct {
	inner edwards25519.Scalar
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Subtract(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Multiply(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Negate(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("ed25519: cannot invert zero scalar")
	}
	s.inner.Invert(&aScalar.inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&a.(*Scalar).inner)
	return s
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes sets s from a canonical 32-byte little-endian encoding.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, fmt.Errorf("ed25519: scalar must be %d bytes, got %d", ScalarSize, len(data))
	}
	if _, err := s.inner.SetCanonicalBytes(data); err != nil {
		return nil, fmt.Errorf("ed25519: %w", err)
	}
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(&b.(*Scalar).inner) == 1
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.Equal(edwards25519.NewScalar()) == 1
}

// Point is an edwards25519 group element.
type Point struct {
	inner edwards25519.Point
}

func newPoint() *Point {
	p := &Point{}
	p.inner.Set(edwards25519.NewIdentityPoint())
	return p
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Subtract(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Negate(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(&s.(*Scalar).inner, &q.(*Point).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	return p.inner.Bytes()
}

// inv8 is 8^(-1) mod l. A point v lies in the prime-order subgroup exactly
// when inv8*(8*v) == v.
var inv8 = func() *edwards25519.Scalar {
	var buf [ScalarSize]byte
	buf[0] = 8
	eight, err := edwards25519.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		panic(err)
	}
	return edwards25519.NewScalar().Invert(eight)
}()

// SetBytes decodes a compressed point. Points with a torsion component,
// including every small-order point other than the identity, are rejected.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, fmt.Errorf("ed25519: point must be %d bytes, got %d", PointSize, len(data))
	}
	var v edwards25519.Point
	if _, err := v.SetBytes(data); err != nil {
		return nil, fmt.Errorf("ed25519: %w", err)
	}
	var cleared, check edwards25519.Point
	cleared.MultByCofactor(&v)
	check.ScalarMult(inv8, &cleared)
	if check.Equal(&v) != 1 {
		return nil, errNotSubgroup
	}
	p.inner.Set(&v)
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner) == 1
}

// IsIdentity reports whether p is the identity.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}

// Curve implements [group.Group] for edwards25519.
type Curve struct{}

// New returns the edwards25519 group.
func New() *Curve {
	return &Curve{}
}

// Name returns "ed25519".
func (c *Curve) Name() string {
	return "ed25519"
}

// NewScalar returns a zero scalar.
func (c *Curve) NewScalar() group.Scalar {
	return &Scalar{inner: *edwards25519.NewScalar()}
}

// NewPoint returns the identity point.
func (c *Curve) NewPoint() group.Point {
	return newPoint()
}

// Generator returns the standard base point B.
func (c *Curve) Generator() group.Point {
	p := &Point{}
	p.inner.Set(edwards25519.NewGeneratorPoint())
	return p
}

// RandomScalar reads 64 bytes from r and reduces them modulo l.
func (c *Curve) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := &Scalar{}
	if _, err := s.inner.SetUniformBytes(buf[:]); err != nil {
		return nil, err
	}
	return s, nil
}

// HashToScalar hashes data with SHA-512 and reduces the digest.
func (c *Curve) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	s := &Scalar{}
	if _, err := s.inner.SetUniformBytes(h.Sum(nil)); err != nil {
		return nil, err
	}
	return s, nil
}

// ScalarFromUint64 returns v as a scalar.
func (c *Curve) ScalarFromUint64(v uint64) group.Scalar {
	var buf [ScalarSize]byte
	binary.LittleEndian.PutUint64(buf[:8], v)
	s := &Scalar{}
	// Any uint64 is below l, so the encoding is canonical.
	if _, err := s.inner.SetCanonicalBytes(buf[:]); err != nil {
		panic(err)
	}
	return s
}

// Order returns l as big-endian bytes.
func (c *Curve) Order() []byte {
	return order.Bytes()
}
