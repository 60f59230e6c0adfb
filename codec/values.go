package codec

import (
	"fmt"

	"github.com/f3rmion/thresh/group"
	"github.com/f3rmion/thresh/participants"
)

// Frame wraps a protocol payload with the round it belongs to.
func Frame(round uint64, payload []byte) []byte {
	return new(Encoder).Uint64(1, round).Bytes(2, payload).Encode()
}

// Unframe splits a frame produced by Frame.
func Unframe(b []byte) (uint64, []byte, error) {
	d := NewDecoder(b)
	round := d.Uint64(1)
	payload := d.Bytes(2)
	if err := d.Finish(); err != nil {
		return 0, nil, err
	}
	return round, payload, nil
}

// Points encodes a vector of points as a repeated field.
func Points(ps []group.Point) []byte {
	e := new(Encoder)
	for _, p := range ps {
		e.Point(1, p)
	}
	return e.Encode()
}

// DecodePoints decodes a vector written by Points. It fails unless exactly
// want points are present.
func DecodePoints(g group.Group, b []byte, want int) ([]group.Point, error) {
	d := NewDecoder(b)
	out := make([]group.Point, 0, want)
	for d.More() && len(out) < want {
		out = append(out, d.Point(1, g))
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	if len(out) != want {
		return nil, malformed("expected %d points, found %d", want, len(out))
	}
	return out, nil
}

// Repeated encodes a list of opaque byte strings.
func Repeated(items [][]byte) []byte {
	e := new(Encoder)
	for _, it := range items {
		e.Bytes(1, it)
	}
	return e.Encode()
}

// DecodeRepeated decodes a list written by Repeated.
func DecodeRepeated(b []byte) ([][]byte, error) {
	d := NewDecoder(b)
	var out [][]byte
	for d.More() {
		out = append(out, d.Bytes(1))
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return out, nil
}

// Participants encodes a participant list in its order.
func Participants(l *participants.List) []byte {
	e := new(Encoder)
	for p := range l.All() {
		e.Uint64(1, uint64(p))
	}
	return e.Encode()
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
