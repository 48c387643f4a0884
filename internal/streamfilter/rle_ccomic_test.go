package streamfilter

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestCComicRoundTrip(t *testing.T) {
	planeLen := 16
	data := make([]byte, planeLen*ccomicPlaneCount)
	r := rand.New(rand.NewSource(1))
	for i := range data {
		if i%5 == 0 {
			data[i] = 0x42 // encourage some runs
		} else {
			data[i] = byte(r.Intn(256))
		}
	}
	compressed, err := RunAll(CompressCComic(planeLen), data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	expanded, err := RunAll(ExpandCComic(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, data) {
		t.Fatalf("round trip mismatch:\ngot  % X\nwant % X", expanded, data)
	}
}

func TestCComicAllRuns(t *testing.T) {
	planeLen := 4
	data := bytes.Repeat([]byte{0xAA}, planeLen*ccomicPlaneCount)
	compressed, err := RunAll(CompressCComic(planeLen), data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	expanded, err := RunAll(ExpandCComic(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestCComicAllLiterals(t *testing.T) {
	planeLen := 8
	data := make([]byte, planeLen*ccomicPlaneCount)
	for i := range data {
		data[i] = byte(i)
	}
	compressed, err := RunAll(CompressCComic(planeLen), data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	expanded, err := RunAll(ExpandCComic(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, data) {
		t.Fatalf("round trip mismatch")
	}
}
