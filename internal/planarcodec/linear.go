package planarcodec

import (
	"io"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/bitio"
)

// DecodeLinear decodes a linear (bit-packed) EGA image: for each pixel,
// one bit per present plane (len(desc.Present()) bits) in descriptor order,
// then the bit stream byte-aligns at the end of each row.
func DecodeLinear(r io.Reader, desc Desc, width, height int, order bitio.Order) ([]uint8, []uint8, error) {
	present := desc.Present()
	pixels := make([]uint8, width*height)
	mask := make([]uint8, width*height)
	br := bitio.NewReader(r, order)

	for row := 0; row < height; row++ {
		for x := 0; x < width; x++ {
			idx := row*width + x
			for _, role := range present {
				v, err := br.ReadBits(1)
				if err != nil {
					return nil, nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "planarcodec", err)
				}
				applyBit(role, readBit(role, uint8(v)), &pixels[idx], &mask[idx])
			}
		}
		br.FlushByte()
	}
	return pixels, mask, nil
}

// EncodeLinear is the inverse of DecodeLinear.
func EncodeLinear(w io.Writer, desc Desc, width, height int, pixels, mask []uint8, order bitio.Order) error {
	present := desc.Present()
	bw := bitio.NewWriter(w, order)

	for row := 0; row < height; row++ {
		for x := 0; x < width; x++ {
			idx := row*width + x
			for _, role := range present {
				bit := bitFor(role, pixels[idx], mask[idx])
				if err := bw.WriteBits(uint16(bit), 1); err != nil {
					return gamegraphics.NewError(gamegraphics.KindIO, "planarcodec", err)
				}
			}
		}
		if err := bw.FlushByte(); err != nil {
			return gamegraphics.NewError(gamegraphics.KindIO, "planarcodec", err)
		}
	}
	return nil
}
