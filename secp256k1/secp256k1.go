package secp256k1

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/f3rmion/thresh/group"
)

const (
	// ScalarSize is the length of a canonical scalar encoding.
	ScalarSize = 32
	// PointSize is the length of a compressed point encoding.
	PointSize = 33
)

// Scalar is an integer modulo the secp256k1 group order.
type Scalar struct {
	inner btcec.ModNScalar
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var negB btcec.ModNScalar
	negB.NegateVal(&b.(*Scalar).inner)
	s.inner.Add2(&a.(*Scalar).inner, &negB)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.NegateVal(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.inner.IsZero() {
		return nil, errors.New("secp256k1: cannot invert zero scalar")
	}
	s.inner.InverseValNonConst(&aScalar.inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&a.(*Scalar).inner)
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.inner.Bytes()
	return b[:]
}

// SetBytes sets s from a 32-byte big-endian encoding.
// Values at or above the group order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, fmt.Errorf("secp256k1: scalar must be %d bytes, got %d", ScalarSize, len(data))
	}
	var v btcec.ModNScalar
	if overflow := v.SetByteSlice(data); overflow {
		return nil, errors.New("secp256k1: scalar out of range")
	}
	s.inner = v
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equals(&b.(*Scalar).inner)
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Point is a secp256k1 point in Jacobian coordinates.
// The zero value is the point at infinity.
type Point struct {
	inner btcec.JacobianPoint
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	var r btcec.JacobianPoint
	btcec.AddNonConst(&a.(*Point).inner, &b.(*Point).inner, &r)
	p.inner = r
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var neg Point
	neg.Negate(b)
	return p.Add(a, &neg)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	r := a.(*Point).inner
	if !isInfinity(&r) {
		r.ToAffine()
		r.Y.Negate(1).Normalize()
	}
	p.inner = r
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	base := q.(*Point).inner
	if isInfinity(&base) {
		p.inner = btcec.JacobianPoint{}
		return p
	}
	base.ToAffine()
	var r btcec.JacobianPoint
	btcec.ScalarMultNonConst(&s.(*Scalar).inner, &base, &r)
	p.inner = r
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the compressed SEC1 encoding of p, or 33 zero bytes for
// the identity.
func (p *Point) Bytes() []byte {
	if p.IsIdentity() {
		return make([]byte, PointSize)
	}
	r := p.inner
	r.ToAffine()
	return btcec.NewPublicKey(&r.X, &r.Y).SerializeCompressed()
}

// SetBytes sets p from a compressed encoding produced by Bytes.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, fmt.Errorf("secp256k1: point must be %d bytes, got %d", PointSize, len(data))
	}
	if allZero(data) {
		p.inner = btcec.JacobianPoint{}
		return p, nil
	}
	pk, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: %w", err)
	}
	pk.AsJacobian(&p.inner)
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	other := b.(*Point)
	pInf, bInf := p.IsIdentity(), other.IsIdentity()
	if pInf || bInf {
		return pInf == bInf
	}
	l, r := p.inner, other.inner
	l.ToAffine()
	r.ToAffine()
	return l.X.Equals(&r.X) && l.Y.Equals(&r.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return isInfinity(&p.inner)
}

func isInfinity(j *btcec.JacobianPoint) bool {
	return (j.X.IsZero() && j.Y.IsZero()) || j.Z.IsZero()
}

func allZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

// Curve implements [group.Group] for secp256k1.
type Curve struct{}

// New returns the secp256k1 group.
func New() *Curve {
	return &Curve{}
}

// Name returns "secp256k1".
func (c *Curve) Name() string {
	return "secp256k1"
}

// NewScalar returns a zero scalar.
func (c *Curve) NewScalar() group.Scalar {
	return &Scalar{}
}

// NewPoint returns the identity point.
func (c *Curve) NewPoint() group.Point {
	return &Point{}
}

// Generator returns the standard base point G.
func (c *Curve) Generator() group.Point {
	var (
		p   Point
		one btcec.ModNScalar
	)
	one.SetInt(1)
	btcec.ScalarBaseMultNonConst(&one, &p.inner)
	return &p
}

// RandomScalar reads 64 bytes from r and reduces them modulo the order.
func (c *Curve) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return reduceWide(buf[:]), nil
}

// HashToScalar hashes data with SHA-256 and reduces the digest.
func (c *Curve) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	var s Scalar
	s.inner.SetByteSlice(h.Sum(nil))
	return &s, nil
}

// ScalarFromUint64 returns v as a scalar.
func (c *Curve) ScalarFromUint64(v uint64) group.Scalar {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	var s Scalar
	s.inner.SetByteSlice(buf[:])
	return &s
}

// Order returns the group order as big-endian bytes.
func (c *Curve) Order() []byte {
	return btcec.S256().N.Bytes()
}

// twoPow256 is 2^256 mod n.
var twoPow256 = func() btcec.ModNScalar {
	v := new(big.Int).Lsh(big.NewInt(1), 256)
	v.Mod(v, btcec.S256().N)
	var s btcec.ModNScalar
	s.SetByteSlice(v.Bytes())
	return s
}()

// reduceWide reduces a 64-byte big-endian value modulo n as hi*2^256 + lo.
func reduceWide(b []byte) *Scalar {
	var hi, lo btcec.ModNScalar
	hi.SetByteSlice(b[:32])
	lo.SetByteSlice(b[32:])
	shift := twoPow256
	hi.Mul(&shift)
	hi.Add(&lo)
	return &Scalar{inner: hi}
}
