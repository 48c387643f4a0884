package jill

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/camoto-tools/gamegraphics"
)

// buildColourMapFile constructs a single-slot directory whose sub-tileset
// carries an explicit 2-entry colour map (bpp=1) and one 2x1 tile with
// raw index bytes [0, 1], to exercise the read-side remap.
func buildColourMapFile(t *testing.T) []byte {
	t.Helper()
	const subOffset = headerTableSize
	sub := &bytes.Buffer{}
	// 12-byte sub header: image_count=1, rotation_count=0, lenCGA/EGA/VGA=0,
	// colour_map_bpp=1, flags=0.
	sub.WriteByte(1)
	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], 0)
	sub.Write(u16[:]) // rotation_count
	sub.Write(u16[:]) // lenCGA
	sub.Write(u16[:]) // lenEGA
	sub.Write(u16[:]) // lenVGA
	sub.WriteByte(1)  // colour_map_bpp
	sub.Write(u16[:]) // flags

	// colour map: 2 entries, index byte at bit 16. Entry 0 maps to 9,
	// entry 1 maps to 200.
	var e0, e1 [4]byte
	binary.LittleEndian.PutUint32(e0[:], 9<<colourMapByteShift)
	binary.LittleEndian.PutUint32(e1[:], 200<<colourMapByteShift)
	sub.Write(e0[:])
	sub.Write(e1[:])

	// tile 0: width=2, height=1, reserved=0, payload=[0,1]
	sub.WriteByte(2)
	sub.WriteByte(1)
	sub.WriteByte(0)
	sub.Write([]byte{0, 1})

	subBytes := sub.Bytes()

	header := make([]byte, headerTableSize)
	binary.LittleEndian.PutUint32(header[0:4], subOffset)
	binary.LittleEndian.PutUint16(header[lengthTableOffset:lengthTableOffset+2], uint16(len(subBytes)))

	raw := append(header, subBytes...)
	return raw
}

func TestColourMapIndirection(t *testing.T) {
	raw := buildColourMapFile(t)
	stream := gamegraphics.NewMemoryStream(raw)
	root, err := Open(stream, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if entries[0].Kind != gamegraphics.EntryFolder {
		t.Fatalf("slot 0 kind = %v, want EntryFolder", entries[0].Kind)
	}
	for i := 1; i < numSlots; i++ {
		if entries[i].Kind != gamegraphics.EntryVacant {
			t.Fatalf("slot %d kind = %v, want EntryVacant", i, entries[i].Kind)
		}
	}

	sub, err := root.OpenTileset(entries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenTileset: %v", err)
	}
	subEntries, err := sub.Entries()
	if err != nil {
		t.Fatalf("sub Entries: %v", err)
	}
	if len(subEntries) != 1 {
		t.Fatalf("sub entry count = %d, want 1", len(subEntries))
	}

	img, err := sub.OpenImage(subEntries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	dims := img.Dims()
	if dims.X != 2 || dims.Y != 1 {
		t.Fatalf("dims = %v, want 2x1", dims)
	}
	pixels, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	if pixels[0] != 9 || pixels[1] != 200 {
		t.Fatalf("remapped pixels = %v, want [9 200]", pixels)
	}
}

func TestRefusesWriting64x12Tile(t *testing.T) {
	stream := gamegraphics.NewMemoryStream(nil)
	root, err := Create(stream, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	folderHandle, err := root.Insert(0, gamegraphics.EntryFolder)
	if err != nil {
		t.Fatalf("Insert folder: %v", err)
	}
	sub, err := root.OpenTileset(folderHandle, nil)
	if err != nil {
		t.Fatalf("OpenTileset: %v", err)
	}
	tileHandle, err := sub.Insert(0, gamegraphics.EntryImage)
	if err != nil {
		t.Fatalf("Insert tile: %v", err)
	}
	img, err := sub.OpenImage(tileHandle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	if err := img.SetDims(gamegraphics.Point{X: specialPaletteWidth, Y: specialPaletteHeight}); err == nil {
		t.Fatalf("SetDims(64,12) succeeded, want refusal")
	}
}

func TestTileResizeRoundTrip(t *testing.T) {
	stream := gamegraphics.NewMemoryStream(nil)
	root, err := Create(stream, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	folderHandle, err := root.Insert(0, gamegraphics.EntryFolder)
	if err != nil {
		t.Fatalf("Insert folder: %v", err)
	}
	sub, err := root.OpenTileset(folderHandle, nil)
	if err != nil {
		t.Fatalf("OpenTileset: %v", err)
	}
	tileHandle, err := sub.Insert(0, gamegraphics.EntryImage)
	if err != nil {
		t.Fatalf("Insert tile: %v", err)
	}
	img, err := sub.OpenImage(tileHandle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	if err := img.SetDims(gamegraphics.Point{X: 4, Y: 3}); err != nil {
		t.Fatalf("SetDims: %v", err)
	}
	pixels := make([]gamegraphics.Pixel, 12)
	for i := range pixels {
		pixels[i] = uint8(i)
	}
	if err := img.SetPixels(pixels, nil); err != nil {
		t.Fatalf("SetPixels: %v", err)
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
		t.Fatalf("Entries: %v", err)
	}
	reSub, err := reopened.OpenTileset(entries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenTileset after reopen: %v", err)
	}
	subEntries, err := reSub.Entries()
	if err != nil {
		t.Fatalf("sub Entries after reopen: %v", err)
	}
	reImg, err := reSub.OpenImage(subEntries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage after reopen: %v", err)
	}
	dims := reImg.Dims()
	if dims.X != 4 || dims.Y != 3 {
		t.Fatalf("dims after reopen = %v, want 4x3", dims)
	}
	gotPixels, err := reImg.Pixels()
	if err != nil {
		t.Fatalf("Pixels after reopen: %v", err)
	}
	for i, p := range gotPixels {
		if p != uint8(i) {
			t.Fatalf("pixel %d = %d, want %d", i, p, i)
		}
	}
}
