package ccaves

import (
	"bytes"
	"testing"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/planarcodec"
)

// plainTile returns 40 bytes of byte-planar EGA data for an 8x8 tile,
// fully opaque, solid colour c (4-bit EGA index).
func plainTile(c uint8) []byte {
	pixels := make([]uint8, 64)
	mask := make([]uint8, 64)
	for i := range pixels {
		pixels[i] = c
	}
	buf := &bytes.Buffer{}
	if err := planarcodec.EncodeByte(buf, tileDesc, 8, 8, pixels, mask); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestTwoSubTilesetFile(t *testing.T) {
	tile1 := plainTile(1)
	tile2 := plainTile(2)
	tile3 := plainTile(3)

	var raw bytes.Buffer
	raw.WriteByte(2) // tile_count
	raw.WriteByte(1) // width_bytes
	raw.WriteByte(8) // height_rows
	raw.Write(tile1)
	raw.Write(tile2)
	raw.WriteByte(1)
	raw.WriteByte(1)
	raw.WriteByte(8)
	raw.Write(tile3)

	stream := gamegraphics.NewMemoryStream(raw.Bytes())
	root, err := Open(stream)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d root entries, want 2", len(entries))
	}

	sub1, err := root.OpenTileset(entries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenTileset(0): %v", err)
	}
	sub1Entries, err := sub1.Entries()
	if err != nil {
		t.Fatalf("sub1.Entries: %v", err)
	}
	if len(sub1Entries) != 2 {
		t.Fatalf("sub 1: got %d tiles, want 2", len(sub1Entries))
	}

	sub2, err := root.OpenTileset(entries[1].Handle, nil)
	if err != nil {
		t.Fatalf("OpenTileset(1): %v", err)
	}
	sub2Entries, err := sub2.Entries()
	if err != nil {
		t.Fatalf("sub2.Entries: %v", err)
	}
	if len(sub2Entries) != 1 {
		t.Fatalf("sub 2: got %d tiles, want 1", len(sub2Entries))
	}

	secondSubOffsetBefore := entries[1].Offset

	// Insert a new image at position (0, 2): the third tile slot of the
	// first sub-tileset.
	s1, ok := sub1.(*Sub)
	if !ok {
		t.Fatalf("sub1 is not *Sub")
	}
	newHandle, err := s1.Insert(2, gamegraphics.EntryImage)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	img, err := s1.OpenImage(newHandle, nil)
	if err != nil {
		t.Fatalf("OpenImage(new): %v", err)
	}
	if err := img.SetPixels(make([]gamegraphics.Pixel, 64), nil); err != nil {
		t.Fatalf("SetPixels: %v", err)
	}

	if s1.header().count != 3 {
		t.Fatalf("first sub-tileset header count = %d, want 3", s1.header().count)
	}

	entriesAfter, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries after insert: %v", err)
	}
	tileSize := int64(40)
	wantOffset := secondSubOffsetBefore + tileSize
	if entriesAfter[1].Offset != wantOffset {
		t.Fatalf("second sub-tileset offset = %d, want %d", entriesAfter[1].Offset, wantOffset)
	}
}

func TestSubTilesetCapacityRefusal(t *testing.T) {
	var raw bytes.Buffer
	raw.WriteByte(maxTiles)
	raw.WriteByte(1)
	raw.WriteByte(8)
	for i := 0; i < maxTiles; i++ {
		raw.Write(plainTile(uint8(i % 16)))
	}

	stream := gamegraphics.NewMemoryStream(raw.Bytes())
	root, err := Open(stream)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	sub, err := root.OpenTileset(entries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenTileset: %v", err)
	}
	s, ok := sub.(*Sub)
	if !ok {
		t.Fatalf("sub is not *Sub")
	}
	if _, err := s.Insert(len(s.tiles), gamegraphics.EntryImage); err == nil {
		t.Fatalf("Insert at capacity: expected error, got nil")
	}
}
