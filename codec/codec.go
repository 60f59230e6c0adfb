// Package codec defines the canonical byte encoding used for everything the
// protocols hash or send: scalars, points, point vectors, participant lists
// and protocol frames.
//
// Encodings are protobuf wire format built with protowire. Every field is
// tagged and length-delimited and fields must appear in ascending order, so
// two distinct values never share an encoding and decoding is strict: an
// unexpected tag, a truncated field or trailing bytes are all errors.
package codec

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/f3rmion/thresh/group"
)

// ErrMalformed is wrapped by every decoding failure.
var ErrMalformed = errors.New("codec: malformed encoding")

// Encoder appends tagged fields to a buffer.
type Encoder struct {
	buf []byte
}

// Bytes appends a length-delimited field.
func (e *Encoder) Bytes(num protowire.Number, b []byte) *Encoder {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
	return e
}

// Uint64 appends a varint field.
func (e *Encoder) Uint64(num protowire.Number, v uint64) *Encoder {
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

// Scalar appends the canonical encoding of s.
func (e *Encoder) Scalar(num protowire.Number, s group.Scalar) *Encoder {
	return e.Bytes(num, s.Bytes())
}

// Point appends the canonical encoding of p.
func (e *Encoder) Point(num protowire.Number, p group.Point) *Encoder {
	return e.Bytes(num, p.Bytes())
}

// Encode returns the accumulated encoding.
func (e *Encoder) Encode() []byte {
	return e.buf
}

// Decoder consumes tagged fields in order.
type Decoder struct {
	buf []byte
	err error
}

// NewDecoder returns a Decoder reading b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

func (d *Decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

func (d *Decoder) tag(num protowire.Number, typ protowire.Type) bool {
	if d.err != nil {
		return false
	}
	n, t, l := protowire.ConsumeTag(d.buf)
	if l < 0 {
		d.fail("field %d: %v", num, protowire.ParseError(l))
		return false
	}
	if n != num || t != typ {
		d.fail("expected field %d, found %d", num, n)
		return false
	}
	d.buf = d.buf[l:]
	return true
}

// Bytes consumes a length-delimited field.
func (d *Decoder) Bytes(num protowire.Number) []byte {
	if !d.tag(num, protowire.BytesType) {
		return nil
	}
	b, l := protowire.ConsumeBytes(d.buf)
	if l < 0 {
		d.fail("field %d: %v", num, protowire.ParseError(l))
		return nil
	}
	d.buf = d.buf[l:]
	return b
}

// Uint64 consumes a varint field.
func (d *Decoder) Uint64(num protowire.Number) uint64 {
	if !d.tag(num, protowire.VarintType) {
		return 0
	}
	v, l := protowire.ConsumeVarint(d.buf)
	if l < 0 {
		d.fail("field %d: %v", num, protowire.ParseError(l))
		return 0
	}
	d.buf = d.buf[l:]
	return v
}

// Scalar consumes a field holding a canonical scalar of g.
func (d *Decoder) Scalar(num protowire.Number, g group.Group) group.Scalar {
	b := d.Bytes(num)
	if d.err != nil {
		return nil
	}
	s, err := g.NewScalar().SetBytes(b)
	if err != nil {
		d.fail("field %d: scalar: %v", num, err)
		return nil
	}
	return s
}

// Point consumes a field holding a canonical point of g.
func (d *Decoder) Point(num protowire.Number, g group.Group) group.Point {
	b := d.Bytes(num)
	if d.err != nil {
		return nil
	}
	p, err := g.NewPoint().SetBytes(b)
	if err != nil {
		d.fail("field %d: point: %v", num, err)
		return nil
	}
	return p
}

// More reports whether unread bytes remain.
func (d *Decoder) More() bool {
	return d.err == nil && len(d.buf) > 0
}

// Finish returns the first decoding error, or an error if bytes remain.
func (d *Decoder) Finish() error {
	if d.err == nil && len(d.buf) > 0 {
		d.fail("%d trailing bytes", len(d.buf))
	}
	return d.err
}
