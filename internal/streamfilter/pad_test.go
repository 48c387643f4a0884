package streamfilter

import (
	"bytes"
	"testing"
)

func TestPadUnpadRoundTrip(t *testing.T) {
	pad := []byte{0x00}
	cases := [][]byte{
		{},
		{1, 2, 3},
		bytes.Repeat([]byte{0xAB}, 65536),
		bytes.Repeat([]byte{0xCD}, 65536+10),
		bytes.Repeat([]byte{0xEF}, 65536*2),
	}
	for i, data := range cases {
		padded, err := RunAll(Pad(65536, pad), data)
		if err != nil {
			t.Fatalf("case %d: pad: %v", i, err)
		}
		unpadded, err := RunAll(Unpad(65536, pad), padded)
		if err != nil {
			t.Fatalf("case %d: unpad: %v", i, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Fatalf("case %d: round trip mismatch: got %d bytes, want %d bytes", i, len(unpadded), len(data))
		}
	}
}

func TestPadInsertsAfterEveryFullBlock(t *testing.T) {
	data := bytes.Repeat([]byte{0x01}, 4)
	padded, err := RunAll(Pad(2, []byte{0xFF}), data)
	if err != nil {
		t.Fatalf("pad: %v", err)
	}
	want := []byte{0x01, 0x01, 0xFF, 0x01, 0x01, 0xFF}
	if !bytes.Equal(padded, want) {
		t.Fatalf("padded = % X, want % X", padded, want)
	}
}
