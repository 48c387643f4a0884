// Package ddave implements the Dangerous Dave flat tileset container
// (spec.md §4.6.3): a u32le count, a FAT of that many u32le offsets,
// tile bodies concatenated to end-of-file, and a single zero byte
// injected every 65536 bytes of on-disk payload. Three variants (CGA,
// EGA, VGA) are told apart by the first tile's encoded size.
package ddave

import (
	"github.com/camoto-tools/gamegraphics/internal/bitio"
	"github.com/camoto-tools/gamegraphics/internal/planarcodec"
)

const (
	padBlock = 65536
	padByte  = 0

	cgaTileBytes = 64  // 16x16 @ 2bpp, packed
	egaTileBytes = 128 // 16x16 @ 4bpp, packed
	vgaTileBytes = 256 // 16x16 @ 1 byte/pixel

	fixedTileCount = 53 // VGA tiles below this index are fixed 16x16
	dimHeaderLen   = 4  // width:u16le, height:u16le, VGA tiles >= fixedTileCount

	tileWidth  = 16
	tileHeight = 16
)

type variant int

const (
	variantCGA variant = iota
	variantEGA
	variantVGA
)

// ddaveBitOrder packs CGA/EGA linear tiles LSB-first within each byte,
// matching the x86 bit-shift idiom the original encoder was written
// against (the convention bitio documents for its LittleEndian order).
const ddaveBitOrder = bitio.LittleEndian

// cgaDesc is the 2bpp linear CGA pixel: two colour bits, no mask.
var cgaDesc = planarcodec.Desc{
	planarcodec.Blue1, planarcodec.Green1,
	planarcodec.Unused, planarcodec.Unused, planarcodec.Unused, planarcodec.Unused,
}

// egaDesc is the 4bpp linear EGA pixel, no mask plane.
var egaDesc = planarcodec.Desc{
	planarcodec.Blue1, planarcodec.Green1, planarcodec.Red1, planarcodec.Intensity1,
	planarcodec.Unused, planarcodec.Unused,
}
