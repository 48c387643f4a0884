package ddave

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/camoto-tools/gamegraphics"
)

func buildCGAFile(t *testing.T) []byte {
	t.Helper()
	pixels := make([]gamegraphics.Pixel, tileWidth*tileHeight)
	for y := 0; y < tileHeight; y++ {
		for x := 0; x < tileWidth; x++ {
			if x == 0 || y == 0 || x == tileWidth-1 || y == tileHeight-1 {
				pixels[y*tileWidth+x] = 3
			}
		}
	}
	payload, err := encodeTile(variantCGA, tileWidth, tileHeight, pixels, nil)
	if err != nil {
		t.Fatalf("encodeTile: %v", err)
	}
	if len(payload) != cgaTileBytes {
		t.Fatalf("payload size = %d, want %d", len(payload), cgaTileBytes)
	}

	buf := &bytes.Buffer{}
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], 1)
	buf.Write(countBuf[:])
	var offBuf [4]byte
	binary.LittleEndian.PutUint32(offBuf[:], 8)
	buf.Write(offBuf[:])
	buf.Write(payload)
	return buf.Bytes()
}

func TestOpenCGATileZero(t *testing.T) {
	raw := buildCGAFile(t)
	stream := gamegraphics.NewMemoryStream(raw)
	root, err := Open(stream, variantCGA, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(entries))
	}
	if entries[0].Offset != 8 {
		t.Fatalf("tile 0 offset = %d, want 8", entries[0].Offset)
	}
	if entries[0].StoredSize != cgaTileBytes {
		t.Fatalf("tile 0 stored size = %d, want %d", entries[0].StoredSize, cgaTileBytes)
	}

	img, err := root.OpenImage(entries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	dims := img.Dims()
	if dims.X != tileWidth || dims.Y != tileHeight {
		t.Fatalf("dims = %v, want 16x16", dims)
	}
	pixels, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	interior := 1*tileWidth + 1
	if pixels[0] != 3 || pixels[interior] != 0 {
		t.Fatalf("unexpected border pixel decode: corner=%d interior=%d", pixels[0], pixels[interior])
	}
}

func TestPadBoundaryRoundTrip(t *testing.T) {
	// Build a logical buffer whose body crosses the 65536-byte pad
	// boundary, so Flush must inject the zero and Open must strip it
	// back out without disturbing tile offsets.
	const count = 1200 // 1200 CGA tiles: well past one 65536-byte block
	stream := gamegraphics.NewMemoryStream(nil)
	root, err := Create(stream, variantCGA, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < count; i++ {
		if _, err := root.Insert(i, gamegraphics.EntryImage); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened, err := Open(stream, variantCGA, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	entries, err := reopened.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != count {
		t.Fatalf("entry count = %d, want %d", len(entries), count)
	}
}

func blankPaletteStream() *gamegraphics.MemoryStream {
	return gamegraphics.NewMemoryStream(make([]byte, 256*3))
}

func TestVGAHeaderCarryingTile(t *testing.T) {
	stream := gamegraphics.NewMemoryStream(nil)
	root, err := Create(stream, variantVGA, gamegraphics.SuppMap{gamegraphics.SuppPalette: blankPaletteStream()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i <= fixedTileCount; i++ {
		if _, err := root.Insert(i, gamegraphics.EntryImage); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}

	fixedImg, err := root.OpenImage(entries[fixedTileCount-1].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage(fixed): %v", err)
	}
	if fixedImg.Caps().Has(gamegraphics.CapSetDimensions) {
		t.Fatalf("tile %d should not allow SetDims", fixedTileCount-1)
	}

	headerImg, err := root.OpenImage(entries[fixedTileCount].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage(header): %v", err)
	}
	if !headerImg.Caps().Has(gamegraphics.CapSetDimensions) {
		t.Fatalf("tile %d should allow SetDims", fixedTileCount)
	}
	if err := headerImg.SetDims(gamegraphics.Point{X: 32, Y: 24}); err != nil {
		t.Fatalf("SetDims: %v", err)
	}
	newPixels := make([]gamegraphics.Pixel, 32*24)
	for i := range newPixels {
		newPixels[i] = uint8(i % 256)
	}
	if err := headerImg.SetPixels(newPixels, nil); err != nil {
		t.Fatalf("SetPixels: %v", err)
	}

	if err := root.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	reopened, err := Open(stream, variantVGA, gamegraphics.SuppMap{gamegraphics.SuppPalette: blankPaletteStream()})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reEntries, err := reopened.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	reImg, err := reopened.OpenImage(reEntries[fixedTileCount].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage after reopen: %v", err)
	}
	dims := reImg.Dims()
	if dims.X != 32 || dims.Y != 24 {
		t.Fatalf("dims after reopen = %v, want 32x24", dims)
	}
	pixels, err := reImg.Pixels()
	if err != nil {
		t.Fatalf("Pixels after reopen: %v", err)
	}
	if pixels[1] != 1 {
		t.Fatalf("pixel round-trip mismatch: got %d, want 1", pixels[1])
	}
}
