package secp256k1

import (
	"bytes"
	"testing"

	"github.com/f3rmion/thresh/group/grouptest"
)

func TestGroup(t *testing.T) {
	grouptest.Run(t, New())
}

func TestGeneratorEncoding(t *testing.T) {
	// SEC1 compressed encoding of G.
	want := []byte{
		0x02, 0x79, 0xbe, 0x66, 0x7e, 0xf9, 0xdc, 0xbb, 0xac, 0x55, 0xa0, 0x62, 0x95, 0xce, 0x87, 0x0b, 0x07,
		0x02, 0x9b, 0xfc, 0xdb, 0x2d, 0xce, 0x28, 0xd9, 0x59, 0xf2, 0x81, 0x5b, 0x16, 0xf8, 0x17, 0x98,
	}
	if got := New().Generator().Bytes(); !bytes.Equal(got, want) {
		t.Errorf("generator encoding = %x, want %x", got, want)
	}
}

func TestScalarOutOfRange(t *testing.T) {
	if _, err := New().NewScalar().SetBytes(New().Order()); err == nil {
		t.Error("expected scalar equal to the order to be rejected")
	}
}
