package hocus

import (
	"encoding/binary"
	"testing"

	"github.com/camoto-tools/gamegraphics"
)

// buildFile constructs a two-tile Hocus Pocus file: the 128-byte header
// (count=2, reserved bytes zero) followed by two 64-byte tiles, the
// first all zero, the second a 0..63 ramp.
func buildFile() []byte {
	raw := make([]byte, headerSize+2*tileBytes)
	binary.LittleEndian.PutUint32(raw[0:4], 2)
	second := raw[headerSize+tileBytes : headerSize+2*tileBytes]
	for i := range second {
		second[i] = uint8(i)
	}
	return raw
}

func TestOpenReadsImplicitOffsets(t *testing.T) {
	stream := gamegraphics.NewMemoryStream(buildFile())
	root, err := Open(stream, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}
	if entries[0].Offset != headerSize || entries[1].Offset != headerSize+tileBytes {
		t.Fatalf("offsets = %v, %v; want %v, %v", entries[0].Offset, entries[1].Offset, headerSize, headerSize+tileBytes)
	}

	img, err := root.OpenImage(entries[1].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	if d := img.Dims(); d.X != tileWidth || d.Y != tileHeight {
		t.Fatalf("dims = %v, want 8x8", d)
	}
	pixels, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	for i, p := range pixels {
		if p != uint8(i) {
			t.Fatalf("pixel %d = %d, want %d", i, p, i)
		}
	}
}

func TestSetDimsRejected(t *testing.T) {
	stream := gamegraphics.NewMemoryStream(buildFile())
	root, err := Open(stream, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries, _ := root.Entries()
	img, err := root.OpenImage(entries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	if err := img.SetDims(gamegraphics.Point{X: 16, Y: 16}); err == nil {
		t.Fatalf("SetDims succeeded, want rejection")
	}
	if img.Caps() != 0 {
		t.Fatalf("Caps = %v, want 0", img.Caps())
	}
}

func TestInsertRemoveFlushRoundTrip(t *testing.T) {
	stream := gamegraphics.NewMemoryStream(nil)
	root, err := Create(stream, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	h0, err := root.Insert(0, gamegraphics.EntryImage)
	if err != nil {
		t.Fatalf("Insert 0: %v", err)
	}
	h1, err := root.Insert(1, gamegraphics.EntryImage)
	if err != nil {
		t.Fatalf("Insert 1: %v", err)
	}

	img1, err := root.OpenImage(h1, nil)
	if err != nil {
		t.Fatalf("OpenImage h1: %v", err)
	}
	pixels := make([]gamegraphics.Pixel, tileBytes)
	for i := range pixels {
		pixels[i] = uint8(63 - i)
	}
	if err := img1.SetPixels(pixels, nil); err != nil {
		t.Fatalf("SetPixels: %v", err)
	}

	if err := root.Remove(h0); err != nil {
		t.Fatalf("Remove h0: %v", err)
	}
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened, err := Open(stream, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	entries, err := reopened.Entries()
	if err != nil {
		t.Fatalf("Entries after reopen: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entry count after reopen = %d, want 1", len(entries))
	}
	if entries[0].Offset != headerSize {
		t.Fatalf("offset after reopen = %d, want %d", entries[0].Offset, headerSize)
	}
	img, err := reopened.OpenImage(entries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage after reopen: %v", err)
	}
	gotPixels, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels after reopen: %v", err)
	}
	for i, p := range gotPixels {
		if p != uint8(63-i) {
			t.Fatalf("pixel %d = %d, want %d", i, p, 63-i)
		}
	}
}

func TestProbeRejectsMismatchedCount(t *testing.T) {
	raw := buildFile()
	binary.LittleEndian.PutUint32(raw[0:4], 99)
	stream := gamegraphics.NewMemoryStream(raw)
	result, err := probe(stream)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if result != gamegraphics.DefinitelyNo {
		t.Fatalf("probe result = %v, want DefinitelyNo", result)
	}
}
