package planarcodec

import (
	"io"

	"github.com/camoto-tools/gamegraphics"
)

// DecodeByte decodes a byte-planar EGA image: for each row, for each
// 8-pixel column group, for each present plane in descriptor order, one
// byte whose bits (MSB = leftmost pixel) feed desc's channels.
func DecodeByte(r io.Reader, desc Desc, width, height int) ([]uint8, []uint8, error) {
	return decodePlanar(r, desc, width, height, true)
}

// EncodeByte is the inverse of DecodeByte.
func EncodeByte(w io.Writer, desc Desc, width, height int, pixels, mask []uint8) error {
	return encodePlanar(w, desc, width, height, pixels, mask, true)
}

// DecodeRow decodes a row-planar EGA image: for each row, for each
// present plane, for each 8-pixel column group, one byte.
func DecodeRow(r io.Reader, desc Desc, width, height int) ([]uint8, []uint8, error) {
	return decodePlanar(r, desc, width, height, false)
}

// EncodeRow is the inverse of DecodeRow.
func EncodeRow(w io.Writer, desc Desc, width, height int, pixels, mask []uint8) error {
	return encodePlanar(w, desc, width, height, pixels, mask, false)
}

func groupCount(width int) int {
	return (width + 7) / 8
}

// decodePlanar drives the shared byte-planar/row-planar decode loop;
// byteOrder true iterates (row, group, plane), false iterates
// (row, plane, group).
func decodePlanar(r io.Reader, desc Desc, width, height int, byteOrder bool) ([]uint8, []uint8, error) {
	present := desc.Present()
	pixels := make([]uint8, width*height)
	mask := make([]uint8, width*height)
	ngroups := groupCount(width)
	buf := make([]byte, 1)

	readByte := func() (byte, error) {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "planarcodec", err)
		}
		return buf[0], nil
	}

	decodeInto := func(role Role, row, group int) error {
		b, err := readByte()
		if err != nil {
			return err
		}
		base := row*width + group*8
		for bit := 0; bit < 8; bit++ {
			x := group*8 + bit
			if x >= width {
				break
			}
			raw := (b >> uint(7-bit)) & 1
			idx := base + bit
			applyBit(role, readBit(role, raw), &pixels[idx], &mask[idx])
		}
		return nil
	}

	for row := 0; row < height; row++ {
		if byteOrder {
			for group := 0; group < ngroups; group++ {
				for _, role := range present {
					if err := decodeInto(role, row, group); err != nil {
						return nil, nil, err
					}
				}
			}
		} else {
			for _, role := range present {
				for group := 0; group < ngroups; group++ {
					if err := decodeInto(role, row, group); err != nil {
						return nil, nil, err
					}
				}
			}
		}
	}
	return pixels, mask, nil
}

// encodePlanar drives the shared byte-planar/row-planar encode loop.
func encodePlanar(w io.Writer, desc Desc, width, height int, pixels, mask []uint8, byteOrder bool) error {
	present := desc.Present()
	ngroups := groupCount(width)

	writeByte := func(b byte) error {
		if _, err := w.Write([]byte{b}); err != nil {
			return gamegraphics.NewError(gamegraphics.KindIO, "planarcodec", err)
		}
		return nil
	}

	encodeGroupByte := func(role Role, row, group int) byte {
		var b byte
		base := row*width + group*8
		for bit := 0; bit < 8; bit++ {
			x := group*8 + bit
			if x >= width {
				continue
			}
			idx := base + bit
			b |= bitFor(role, pixels[idx], mask[idx]) << uint(7-bit)
		}
		return b
	}

	for row := 0; row < height; row++ {
		if byteOrder {
			for group := 0; group < ngroups; group++ {
				for _, role := range present {
					if err := writeByte(encodeGroupByte(role, row, group)); err != nil {
						return err
					}
				}
			}
		} else {
			for _, role := range present {
				for group := 0; group < ngroups; group++ {
					if err := writeByte(encodeGroupByte(role, row, group)); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
