package streamfilter

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildTile(uncompressedLen int, fill func(i int) byte) []byte {
	body := make([]byte, uncompressedLen)
	for i := range body {
		body[i] = fill(i)
	}
	hdr := make([]byte, 2)
	binary.LittleEndian.PutUint16(hdr, uint16(uncompressedLen))
	return append(hdr, body...)
}

func TestVinylRoundTripSolid(t *testing.T) {
	var in []byte
	numTiles := uint16(2)
	hdr := make([]byte, 2)
	binary.LittleEndian.PutUint16(hdr, numTiles)
	in = append(in, hdr...)

	// Tile 0: repeating 4-byte groups so the dictionary reuses codes.
	in = append(in, buildTile(vinylSolidLen, func(i int) byte { return byte((i / 4) % 3) })...)
	// Tile 1: all-distinct groups.
	in = append(in, buildTile(vinylSolidLen, func(i int) byte { return byte(i % 251) })...)

	compressed, err := RunAll(CompressVinyl(), in)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	expanded, err := RunAll(ExpandVinyl(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, in) {
		t.Fatalf("round trip mismatch:\ngot  % X\nwant % X", expanded, in)
	}
}

func TestVinylRoundTripMasked(t *testing.T) {
	hdr := make([]byte, 2)
	binary.LittleEndian.PutUint16(hdr, 1)
	in := append([]byte{}, hdr...)

	sizeHdr := make([]byte, 2)
	binary.LittleEndian.PutUint16(sizeHdr, vinylMaskedLen)
	in = append(in, sizeHdr...)

	body := make([]byte, vinylMaskedLen)
	pos := 0
	group := 0
	for pos < len(body) {
		body[pos] = byte(group % 7) // mask byte
		pos++
		for k := 0; k < 4; k++ {
			body[pos] = byte((group*4 + k) % 253)
			pos++
		}
		group++
	}
	in = append(in, body...)

	compressed, err := RunAll(CompressVinyl(), in)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	expanded, err := RunAll(ExpandVinyl(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, in) {
		t.Fatalf("round trip mismatch:\ngot  % X\nwant % X", expanded, in)
	}
}

func TestVinylEmptyTileset(t *testing.T) {
	in := []byte{0, 0} // numTiles = 0
	compressed, err := RunAll(CompressVinyl(), in)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	expanded, err := RunAll(ExpandVinyl(), compressed)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !bytes.Equal(expanded, in) {
		t.Fatalf("round trip mismatch")
	}
}
