package streamfilter

import "fmt"

// pcxRunFlag marks the top two bits of a control byte: when both are set,
// the byte encodes a run rather than a literal.
const pcxRunFlag = 0xC0

// pcxRunMask extracts the 6-bit run count from a control byte.
const pcxRunMask = 0x3F

// pcxMaxRun is the longest run a single control byte can encode.
const pcxMaxRun = 63

// ExpandPCX returns a Filter that decodes PCX-style RLE: a byte whose top
// two bits are 11 is a control byte, its low six bits (1..63) give a repeat
// count and the following byte is the value to emit; any other byte is a
// literal emitted as-is.
func ExpandPCX() Filter {
	return newBufferedFilter(expandPCXBytes)
}

func expandPCXBytes(in []byte) ([]byte, error) {
	out := make([]byte, 0, len(in))
	for i := 0; i < len(in); {
		b := in[i]
		i++
		if b&pcxRunFlag == pcxRunFlag {
			count := int(b & pcxRunMask)
			if count == 0 {
				return nil, fmt.Errorf("%w: pcx rle run length of 0", ErrFilter)
			}
			if i >= len(in) {
				return nil, fmt.Errorf("%w: pcx rle control byte missing its value byte", ErrFilter)
			}
			v := in[i]
			i++
			for k := 0; k < count; k++ {
				out = append(out, v)
			}
		} else {
			out = append(out, b)
		}
	}
	return out, nil
}

// CompressPCX returns a Filter that encodes raw scanline bytes using PCX
// RLE, splitting runs so that none crosses a scanlineLen-byte row boundary,
// and always emitting byte values >= 0xC0 as a one-byte run (count=1) so
// they can never be mistaken for a control byte on read-back. The total
// input must be an exact multiple of scanlineLen.
func CompressPCX(scanlineLen int) Filter {
	return newBufferedFilter(func(in []byte) ([]byte, error) {
		return compressPCXBytes(in, scanlineLen)
	})
}

func compressPCXBytes(in []byte, scanlineLen int) ([]byte, error) {
	if scanlineLen <= 0 {
		return nil, fmt.Errorf("%w: pcx compress needs a positive scanline length", ErrFilter)
	}
	out := make([]byte, 0, len(in))
	for rowStart := 0; rowStart < len(in); rowStart += scanlineLen {
		rowEnd := rowStart + scanlineLen
		if rowEnd > len(in) {
			return nil, fmt.Errorf("%w: pcx compress input is not a multiple of the scanline length", ErrFilter)
		}
		row := in[rowStart:rowEnd]
		i := 0
		for i < len(row) {
			v := row[i]
			maxRun := pcxMaxRun
			if rem := len(row) - i; rem < maxRun {
				maxRun = rem
			}
			runLen := 1
			for runLen < maxRun && row[i+runLen] == v {
				runLen++
			}
			if runLen >= 2 || v >= pcxRunFlag {
				// A genuine run is always worth encoding as one; a lone byte
				// whose value would be mistaken for a control byte must also
				// be forced into the one-byte-run form to disambiguate it.
				out = append(out, byte(pcxRunFlag|runLen), v)
			} else {
				out = append(out, v)
			}
			i += runLen
		}
	}
	return out, nil
}
