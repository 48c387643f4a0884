package streamfilter

import (
	"encoding/binary"
	"fmt"
)

// ccomicPlaneCount is the fixed number of planes Captain Comic's RLE
// container always emits, regardless of the image's own plane layout.
const ccomicPlaneCount = 4

// ccomicRepeatFlag marks a control byte as "repeat the next byte n times"
// (top bit set) versus "copy the next n bytes verbatim" (top bit clear).
const ccomicRepeatFlag = 0x80

// ExpandCComic returns a Filter that decodes Captain Comic's RLE container:
// a 16-bit little-endian plane length header followed by RLE-coded data
// that expands to four consecutive planes of len bytes each.
func ExpandCComic() Filter {
	return newBufferedFilter(expandCComicBytes)
}

func expandCComicBytes(in []byte) ([]byte, error) {
	if len(in) < 2 {
		return nil, fmt.Errorf("%w: captain comic rle stream missing length header", ErrFilter)
	}
	planeLen := int(binary.LittleEndian.Uint16(in))
	want := planeLen * ccomicPlaneCount
	out := make([]byte, 0, want)
	i := 2
	for len(out) < want {
		if i >= len(in) {
			return nil, fmt.Errorf("%w: captain comic rle stream truncated", ErrFilter)
		}
		ctrl := in[i]
		i++
		if ctrl&ccomicRepeatFlag != 0 {
			n := int(ctrl &^ ccomicRepeatFlag)
			if i >= len(in) {
				return nil, fmt.Errorf("%w: captain comic rle repeat missing value byte", ErrFilter)
			}
			v := in[i]
			i++
			for k := 0; k < n; k++ {
				out = append(out, v)
			}
		} else {
			n := int(ctrl)
			if i+n > len(in) {
				return nil, fmt.Errorf("%w: captain comic rle literal run truncated", ErrFilter)
			}
			out = append(out, in[i:i+n]...)
			i += n
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("%w: captain comic rle expanded to %d bytes, want %d", ErrFilter, len(out), want)
	}
	return out, nil
}

// CompressCComic returns a Filter that encodes exactly four consecutive
// planes of planeLen bytes each into Captain Comic's RLE container,
// prefixed with the 16-bit little-endian plane length.
func CompressCComic(planeLen int) Filter {
	return newBufferedFilter(func(in []byte) ([]byte, error) {
		return compressCComicBytes(in, planeLen)
	})
}

func compressCComicBytes(in []byte, planeLen int) ([]byte, error) {
	want := planeLen * ccomicPlaneCount
	if len(in) != want {
		return nil, fmt.Errorf("%w: captain comic compress expected %d bytes, got %d", ErrFilter, want, len(in))
	}
	out := make([]byte, 2, 2+len(in))
	binary.LittleEndian.PutUint16(out, uint16(planeLen))

	const maxRun = 0x7F
	i := 0
	for i < len(in) {
		// Try a repeat run first.
		runLen := 1
		for i+runLen < len(in) && in[i+runLen] == in[i] && runLen < maxRun {
			runLen++
		}
		if runLen >= 2 {
			out = append(out, byte(ccomicRepeatFlag|runLen), in[i])
			i += runLen
			continue
		}
		// Accumulate a literal run until the next position where a real
		// repeat run (length >= 2) begins, or the maximum literal run
		// length is reached.
		litStart := i
		for i < len(in) && i-litStart < maxRun {
			if i+1 < len(in) && in[i+1] == in[i] {
				break
			}
			i++
		}
		litLen := i - litStart
		out = append(out, byte(litLen))
		out = append(out, in[litStart:i]...)
	}
	return out, nil
}
