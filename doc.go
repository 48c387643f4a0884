// Package gamegraphics reads and writes the image and tileset file
// formats used by DOS-era games: EGA bit-planar layouts, packed CGA
// pixels, linear VGA bytes, run-length and lookup-code compression, and
// the auxiliary palettes those formats carry.
//
// The public surface is a set of abstractions (Stream, Palette, Image,
// Tileset) and a format registry (RegisterImageType, RegisterTilesetType,
// IdentifyImage, IdentifyTileset) that codecs under internal/ register
// themselves against. Importing package formats wires up every built-in
// codec and container type; callers that know their format in advance
// can import a specific internal package's exported constructor instead.
package gamegraphics
