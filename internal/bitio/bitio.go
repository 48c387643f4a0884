// Package bitio reads and writes 1-16 bit fields on top of a byte stream.
//
// Two bit orders are supported: BigEndian packs each byte MSB-first (in terms
// of "leftmost pixel is the high bit"), and LittleEndian packs each byte
// LSB-first (used by formats, such as Dangerous Dave's linear CGA/EGA tiles,
// that were originally written against an x86 bit-shift idiom). Both orders share
// the same accumulator design: an emerging byte is built up in a small
// register and flushed once 8 bits have accumulated, mirroring the
// register-based bit accumulator used by VP8L's lossless bit writer/reader.
package bitio

// Order selects how bits are packed within a byte.
type Order int

const (
	// BigEndian packs the first bit written into the most significant bit
	// of the current byte.
	BigEndian Order = iota
	// LittleEndian packs the first bit written into the least significant
	// bit of the current byte.
	LittleEndian
)

// MaxFieldBits is the largest field width this package reads or writes
// in one call.
const MaxFieldBits = 16
