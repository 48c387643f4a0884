package streamfilter

import (
	"bytes"
	"testing"
)

func TestPCXRoundTripSingleScanline(t *testing.T) {
	data := []byte{0x0C, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0A}
	compressed, err := RunAll(CompressPCX(len(data)), data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	want := []byte{0x0C, 0xC6, 0x00, 0x0A}
	if !bytes.Equal(compressed, want) {
		t.Fatalf("compressed = % X, want % X", compressed, want)
	}
	expanded, err := RunAll(ExpandPCX(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, data) {
		t.Fatalf("round trip = % X, want % X", expanded, data)
	}
}

// TestPCXScenario3 reproduces spec.md's scenario 3 8x8 EGA tile test vector.
func TestPCXScenario3(t *testing.T) {
	var rows [][]byte
	rows = append(rows, bytes.Repeat([]byte{0x0F}, 8))
	inner := append([]byte{0x0C}, bytes.Repeat([]byte{0x00}, 6)...)
	inner = append(inner, 0x0A)
	for i := 0; i < 6; i++ {
		rows = append(rows, inner)
	}
	rows = append(rows, append([]byte{0x0C}, append(bytes.Repeat([]byte{0x09}, 6), 0x0E)...))

	var raw []byte
	for _, r := range rows {
		raw = append(raw, r...)
	}

	compressed, err := RunAll(CompressPCX(8), raw)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	wantPrefix := []byte{0xC8, 0x0F, 0x0C, 0xC6, 0x00, 0x0A, 0x0C, 0xC6, 0x00, 0x0A, 0x0C, 0xC6, 0x00, 0x0A}
	if !bytes.Equal(compressed[:len(wantPrefix)], wantPrefix) {
		t.Fatalf("compressed prefix = % X, want % X", compressed[:len(wantPrefix)], wantPrefix)
	}

	expanded, err := RunAll(ExpandPCX(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, raw) {
		t.Fatalf("round trip mismatch")
	}
}

// TestPCXScenario6 reproduces spec.md's scenario 6 scanline-boundary test.
func TestPCXScenario6(t *testing.T) {
	row := bytes.Repeat([]byte{0x0F}, 12) // 11 visible + 1 padding byte
	var raw []byte
	for i := 0; i < 4; i++ {
		raw = append(raw, row...)
	}
	compressed, err := RunAll(CompressPCX(12), raw)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	want := bytes.Repeat([]byte{0xCC, 0x0F}, 4)
	if !bytes.Equal(compressed, want) {
		t.Fatalf("compressed = % X, want % X", compressed, want)
	}
}

func TestPCXExpandRejectsZeroRunLength(t *testing.T) {
	_, err := RunAll(ExpandPCX(), []byte{0xC0, 0x00})
	if err == nil {
		t.Fatal("expected error for zero-length run")
	}
}

func TestPCXCompressForcesControlByteAboveFlag(t *testing.T) {
	// A lone byte >= 0xC0 must always be wrapped in a one-byte run.
	data := []byte{0xC5, 0x01}
	compressed, err := RunAll(CompressPCX(2), data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	want := []byte{0xC1, 0xC5, 0x01}
	if !bytes.Equal(compressed, want) {
		t.Fatalf("compressed = % X, want % X", compressed, want)
	}
	expanded, err := RunAll(ExpandPCX(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, data) {
		t.Fatalf("round trip = % X, want % X", expanded, data)
	}
}
