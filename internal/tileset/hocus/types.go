// Package hocus implements Harry's Hocus Pocus / Alien Carnage icon
// tileset container: a 128-byte header holding only a count:u32le (the
// remainder reserved, read and written back as zero), followed by that
// many fixed 8x8 VGA tiles with no on-disk FAT at all. Each tile's
// offset is implicit, 128 + i*64, so there is nothing for a FAT to
// describe and nothing that ever shifts but the tile list itself.
package hocus

const (
	headerSize = 128
	tileWidth  = 8
	tileHeight = 8
	tileBytes  = tileWidth * tileHeight // 64
)
