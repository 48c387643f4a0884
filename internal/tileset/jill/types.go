// Package jill implements the Jill of the Jungle tileset container
// (spec.md §4.6.4): a fixed 128-slot directory of sub-tilesets, each a
// 12-byte header (image_count, rotation_count, three per-depth body
// lengths, a colour-map bit depth, and flags) followed by an optional
// colour-map table and that many variable-size VGA tiles.
package jill

import "github.com/camoto-tools/gamegraphics"

const (
	numSlots          = 128
	offsetTableOffset = 0
	lengthTableOffset = numSlots * 4 // 512
	headerTableSize   = numSlots*4 + numSlots*2

	subHeaderLen = 12
	tileHeaderLen = 3 // width:u8, height:u8, reserved:u8

	flagFont = 1 << 0

	// colourMapByteShift selects the third byte of each little-endian
	// u32 colour-map entry: the original format reserves this slot for
	// the VGA palette index (8 == EGA, 0 == CGA would select other bytes
	// of the same 32-bit value in those unused colour depths).
	colourMapByteShift = 16

	paletteDepthBits = 6 // VGA palette stored as 6-bit DAC values

	// A tile that is exactly 64x12 pixels is
	// reinterpreted as 768 bytes of raw VGA palette data rather than an
	// image: the game engine loads data of that exact size directly into
	// the VGA palette registers, so no real tile may ever be that size.
	specialPaletteWidth  = 64
	specialPaletteHeight = 12
	specialPaletteSize   = specialPaletteWidth*specialPaletteHeight + tileHeaderLen

	paletteSubTilesetIndex = 5

	maxTilesPerSub = 255
)
