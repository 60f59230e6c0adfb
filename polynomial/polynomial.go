// Package polynomial implements the secret and committed polynomials of
// Feldman verifiable secret sharing.
//
// A Polynomial holds secret scalar coefficients. Its Committed form holds
// the coefficients multiplied by the group generator, which lets any party
// check a share against the dealer's public commitment without learning
// the secret. Shares are evaluations at participant points, and the
// secret is recovered by Lagrange interpolation at zero.
package polynomial

import (
	"errors"
	"io"

	"github.com/f3rmion/thresh/codec"
	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
)

// Polynomial is a secret polynomial over the scalar field of a group.
type Polynomial struct {
	g      group.Group
	coeffs []group.Scalar
}

// Random returns a polynomial of the given degree with uniformly random
// coefficients, except that the constant term is set to constant when it
// is non-nil.
func Random(g group.Group, r io.Reader, constant group.Scalar, degree int) (*Polynomial, error) {
	if degree < 0 {
		return nil, errors.New("polynomial: negative degree")
	}
	coeffs := make([]group.Scalar, degree+1)
	for i := range coeffs {
		if i == 0 && constant != nil {
			coeffs[0] = g.NewScalar().Set(constant)
			continue
		}
		c, err := g.RandomScalar(r)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return &Polynomial{g: g, coeffs: coeffs}, nil
}

// Constant returns the constant term, the shared secret.
func (p *Polynomial) Constant() group.Scalar {
	return p.coeffs[0]
}

// Evaluate returns p(x) using Horner's rule.
func (p *Polynomial) Evaluate(x group.Scalar) group.Scalar {
	result := p.g.NewScalar().Set(p.coeffs[len(p.coeffs)-1])
	for i := len(p.coeffs) - 2; i >= 0; i-- {
		result = p.g.NewScalar().Mul(result, x)
		result = p.g.NewScalar().Add(result, p.coeffs[i])
	}
	return result
}

// Commit returns the public commitment to p.
func (p *Polynomial) Commit() *Committed {
	points := make([]group.Point, len(p.coeffs))
	for i, c := range p.coeffs {
		points[i] = p.g.NewPoint().ScalarMult(c, p.g.Generator())
	}
	return &Committed{g: p.g, points: points}
}

// Committed is a polynomial whose coefficients are group points.
type Committed struct {
	g      group.Group
	points []group.Point
}

// Degree returns the degree of c.
func (c *Committed) Degree() int {
	return len(c.points) - 1
}

// Constant returns the commitment to the constant term.
func (c *Committed) Constant() group.Point {
	return c.points[0]
}

// Points returns the coefficient commitments, lowest degree first.
func (c *Committed) Points() []group.Point {
	return c.points
}

// Evaluate returns the commitment to p(x), sum of C_k * x^k.
func (c *Committed) Evaluate(x group.Scalar) group.Point {
	result := c.g.NewPoint()
	xPower := c.g.ScalarFromUint64(1)
	for _, pt := range c.points {
		term := c.g.NewPoint().ScalarMult(xPower, pt)
		result = c.g.NewPoint().Add(result, term)
		xPower = c.g.NewScalar().Mul(xPower, x)
	}
	return result
}

// Add returns the coefficient-wise sum of c and other.
func (c *Committed) Add(other *Committed) (*Committed, error) {
	if c.Degree() != other.Degree() {
		return nil, errors.New("polynomial: degree mismatch")
	}
	points := make([]group.Point, len(c.points))
	for i := range points {
		points[i] = c.g.NewPoint().Add(c.points[i], other.points[i])
	}
	return &Committed{g: c.g, points: points}, nil
}

// Bytes returns the canonical encoding of c.
func (c *Committed) Bytes() []byte {
	return codec.Points(c.points)
}

// DecodeCommitted parses a committed polynomial of exactly the given degree.
func DecodeCommitted(g group.Group, b []byte, degree int) (*Committed, error) {
	points, err := codec.DecodePoints(g, b, degree+1)
	if err != nil {
		return nil, err
	}
	return &Committed{g: g, points: points}, nil
}

// Lagrange returns the coefficient of p when interpolating at zero over
// the evaluation points of l. It fails if p is not in l.
func Lagrange(g group.Group, l *participants.List, p participants.Participant) (group.Scalar, error) {
	if !l.Contains(p) {
		return nil, errors.New("polynomial: participant not in list")
	}
	xi := p.Scalar(g)
	num := g.ScalarFromUint64(1)
	den := g.ScalarFromUint64(1)
	for q := range l.Others(p) {
		xj := q.Scalar(g)
		// num *= x_j
		num = g.NewScalar().Mul(num, xj)
		// den *= (x_j - x_i)
		den = g.NewScalar().Mul(den, g.NewScalar().Sub(xj, xi))
	}
	denInv, err := g.NewScalar().Invert(den)
	if err != nil {
		return nil, err
	}
	return g.NewScalar().Mul(num, denInv), nil
}

// Interpolate recovers the constant term from shares, one per member of l,
// in list order.
func Interpolate(g group.Group, l *participants.List, shares []group.Scalar) (group.Scalar, error) {
	if len(shares) != l.Len() {
		return nil, errors.New("polynomial: share count does not match participants")
	}
	acc := g.NewScalar()
	i := 0
	for p := range l.All() {
		lambda, err := Lagrange(g, l, p)
		if err != nil {
			return nil, err
		}
		acc = g.NewScalar().Add(acc, g.NewScalar().Mul(lambda, shares[i]))
		i++
	}
	return acc, nil
}
