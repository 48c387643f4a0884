package streamfilter

import (
	"encoding/binary"
	"fmt"
)

// Vinyl tile sizes, in bytes. A "solid" tile has no per-group mask byte; a
// "masked" tile carries one mask byte ahead of every 16-bit code.
const (
	vinylSolidLen           = 256 // uncompressed solid tile
	vinylCompressedSolidLen = 128 // compressed solid tile (64 two-byte codes)

	vinylMaskedLen           = 0x140 // uncompressed masked tile (320)
	vinylCompressedMaskedLen = 0xC0  // compressed masked tile (192)
)

// ExpandVinyl returns a Filter that decodes a Vinyl tileset body: a tile
// count, then per-tile compressed payloads (each prefixed with its own
// byte length), then a dictionary length and the dictionary itself (a flat
// run of four-byte pixel groups). Each tile's codes are replaced by the
// four-byte group they index; masked tiles carry the per-group mask byte
// through unchanged.
func ExpandVinyl() Filter {
	return newBufferedFilter(expandVinylBytes)
}

func expandVinylBytes(in []byte) ([]byte, error) {
	if len(in) < 2 {
		return nil, fmt.Errorf("%w: vinyl stream missing tile count", ErrFilter)
	}
	numTiles := int(binary.LittleEndian.Uint16(in))
	pos := 2

	type tileSpan struct {
		size int
		off  int
	}
	tiles := make([]tileSpan, 0, numTiles)
	for i := 0; i < numTiles; i++ {
		if pos+2 > len(in) {
			return nil, fmt.Errorf("%w: vinyl stream truncated reading tile %d length", ErrFilter, i)
		}
		size := int(binary.LittleEndian.Uint16(in[pos:]))
		off := pos + 2
		if off+size > len(in) {
			return nil, fmt.Errorf("%w: vinyl stream truncated reading tile %d body", ErrFilter, i)
		}
		tiles = append(tiles, tileSpan{size: size, off: off})
		pos = off + size
	}
	if pos+2 > len(in) {
		return nil, fmt.Errorf("%w: vinyl stream missing dictionary length", ErrFilter)
	}
	lenDict := int(binary.LittleEndian.Uint16(in[pos:]))
	pos += 2
	if pos+lenDict > len(in) {
		return nil, fmt.Errorf("%w: vinyl stream truncated dictionary", ErrFilter)
	}
	dict := in[pos : pos+lenDict]

	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, uint16(numTiles))

	for ti, t := range tiles {
		var outSize int
		masked := false
		switch t.size {
		case vinylCompressedSolidLen:
			outSize = vinylSolidLen
		case vinylCompressedMaskedLen:
			outSize = vinylMaskedLen
			masked = true
		default:
			return nil, fmt.Errorf("%w: vinyl tile %d has unrecognised compressed length %d", ErrFilter, ti, t.size)
		}
		sizeBuf := make([]byte, 2)
		binary.LittleEndian.PutUint16(sizeBuf, uint16(outSize))
		out = append(out, sizeBuf...)

		body := in[t.off : t.off+t.size]
		i := 0
		for i < len(body) {
			if masked {
				out = append(out, body[i])
				i++
			}
			if i+2 > len(body) {
				return nil, fmt.Errorf("%w: vinyl tile %d body truncated", ErrFilter, ti)
			}
			code := int(binary.LittleEndian.Uint16(body[i:]))
			i += 2
			idx := code * 4
			if idx+4 > len(dict) {
				idx = 0
			}
			if idx+4 > len(dict) {
				return nil, fmt.Errorf("%w: vinyl dictionary too small for tile %d", ErrFilter, ti)
			}
			out = append(out, dict[idx:idx+4]...)
		}
	}
	return out, nil
}

// CompressVinyl returns a Filter that encodes a Vinyl tileset body: walks
// each uncompressed tile, replacing every four-byte pixel group with a
// 16-bit code into a dictionary shared across the whole tileset
// (first-seen-wins), then appends the dictionary after all tiles.
func CompressVinyl() Filter {
	return newBufferedFilter(compressVinylBytes)
}

func compressVinylBytes(in []byte) ([]byte, error) {
	if len(in) < 2 {
		return nil, fmt.Errorf("%w: vinyl stream missing tile count", ErrFilter)
	}
	numTiles := int(binary.LittleEndian.Uint16(in))
	pos := 2

	out := make([]byte, 2)
	binary.LittleEndian.PutUint16(out, uint16(numTiles))

	codes := make(map[[4]byte]uint16)
	var order [][4]byte

	for ti := 0; ti < numTiles; ti++ {
		if pos+2 > len(in) {
			return nil, fmt.Errorf("%w: vinyl stream truncated reading tile %d length", ErrFilter, ti)
		}
		lenTile := int(binary.LittleEndian.Uint16(in[pos:]))
		pos += 2

		var outSize int
		masked := false
		switch lenTile {
		case vinylSolidLen:
			outSize = vinylCompressedSolidLen
		case vinylMaskedLen:
			outSize = vinylCompressedMaskedLen
			masked = true
		default:
			return nil, fmt.Errorf("%w: vinyl tile %d has unrecognised uncompressed length %d", ErrFilter, ti, lenTile)
		}
		sizeBuf := make([]byte, 2)
		binary.LittleEndian.PutUint16(sizeBuf, uint16(outSize))
		out = append(out, sizeBuf...)

		if pos+lenTile > len(in) {
			return nil, fmt.Errorf("%w: vinyl tile %d body truncated", ErrFilter, ti)
		}
		body := in[pos : pos+lenTile]
		pos += lenTile

		i := 0
		for i < len(body) {
			if masked {
				out = append(out, body[i])
				i++
			}
			if i+4 > len(body) {
				return nil, fmt.Errorf("%w: vinyl tile %d body not a multiple of the group size", ErrFilter, ti)
			}
			var key [4]byte
			copy(key[:], body[i:i+4])
			i += 4

			code, ok := codes[key]
			if !ok {
				code = uint16(len(order))
				codes[key] = code
				order = append(order, key)
			}
			codeBuf := make([]byte, 2)
			binary.LittleEndian.PutUint16(codeBuf, code)
			out = append(out, codeBuf...)
		}
	}

	lenDict := len(order) * 4
	lenBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBuf, uint16(lenDict))
	out = append(out, lenBuf...)
	for _, key := range order {
		out = append(out, key[:]...)
	}
	return out, nil
}
