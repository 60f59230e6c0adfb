package bjj

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/thresh/group"
)

const (
	// ScalarSize is the length of a canonical scalar encoding.
	ScalarSize = 32
	// PointSize is the length of a compressed point encoding.
	PointSize = 32
)

var (
	errInvertZero   = errors.New("bjj: cannot invert zero scalar")
	errScalarRange  = errors.New("bjj: scalar out of range")
	errNotSubgroup  = errors.New("bjj: point is not in the prime-order subgroup")
	curveOrder      *big.Int
	curveParameters twistededwards.CurveParams
)

func init() {
	curveParameters = twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curveParameters.Order)
}

// Scalar is an integer modulo the Baby Jubjub subgroup order, which is
// distinct from the BN254 scalar field order.
type Scalar struct {
	inner big.Int
}

func value(a group.Scalar) *big.Int {
	return &a.(*Scalar).inner
}

func (s *Scalar) reduced() *Scalar {
	s.inner.Mod(&s.inner, curveOrder)
	return s
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(value(a), value(b))
	return s.reduced()
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(value(a), value(b))
	return s.reduced()
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(value(a), value(b))
	return s.reduced()
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(value(a))
	return s.reduced()
}

// Invert sets s to a^(-1) and returns s. Zero has no inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	if a.IsZero() {
		return nil, errInvertZero
	}
	s.inner.ModInverse(value(a), curveOrder)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(value(a))
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.FillBytes(make([]byte, ScalarSize))
}

// SetBytes sets s from a 32-byte big-endian encoding. Values at or above
// the subgroup order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != ScalarSize {
		return nil, fmt.Errorf("bjj: scalar must be %d bytes, got %d", ScalarSize, len(data))
	}
	var v big.Int
	v.SetBytes(data)
	if v.Cmp(curveOrder) >= 0 {
		return nil, errScalarRange
	}
	s.inner.Set(&v)
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(value(b)) == 0
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// Point is a point on the Baby Jubjub twisted Edwards curve in affine
// coordinates. The identity is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

func affine(a group.Point) *twistededwards.PointAffine {
	return &a.(*Point).inner
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(affine(a), affine(b))
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var neg twistededwards.PointAffine
	neg.Neg(affine(b))
	p.inner.Add(affine(a), &neg)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(affine(a))
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(affine(q), value(s))
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(affine(a))
	return p
}

// Bytes returns the 32-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes decodes a compressed point. Points outside the prime-order
// subgroup are rejected, so a peer cannot smuggle in a torsion component.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != PointSize {
		return nil, fmt.Errorf("bjj: point must be %d bytes, got %d", PointSize, len(data))
	}
	var v twistededwards.PointAffine
	if _, err := v.SetBytes(data); err != nil {
		return nil, fmt.Errorf("bjj: %w", err)
	}
	var check twistededwards.PointAffine
	check.ScalarMultiplication(&v, curveOrder)
	if !check.IsZero() {
		return nil, errNotSubgroup
	}
	p.inner.Set(&v)
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(affine(b))
}

// IsIdentity reports whether p is (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for Baby Jubjub. It is a zero-sized type;
// use &BJJ{} or new(BJJ).
type BJJ struct{}

// Name returns "bjj".
func (g *BJJ) Name() string {
	return "bjj"
}

// NewScalar returns zero.
func (g *BJJ) NewScalar() group.Scalar {
	return &Scalar{}
}

// NewPoint returns the identity.
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard base point of the prime-order subgroup.
func (g *BJJ) Generator() group.Point {
	return &Point{inner: curveParameters.Base}
}

func wide(b []byte) *Scalar {
	s := &Scalar{}
	s.inner.SetBytes(b)
	return s.reduced()
}

// RandomScalar reads 64 bytes from r and reduces them, which keeps the
// modulo bias negligible.
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return wide(buf[:]), nil
}

// HashToScalar hashes the concatenation of data with BLAKE2b-512 and
// reduces the digest.
func (g *BJJ) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	for _, d := range data {
		h.Write(d)
	}
	return wide(h.Sum(nil)), nil
}

// ScalarFromUint64 returns v as a scalar.
func (g *BJJ) ScalarFromUint64(v uint64) group.Scalar {
	s := &Scalar{}
	s.inner.SetUint64(v)
	return s.reduced()
}

// Order returns the subgroup order as big-endian bytes.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}
