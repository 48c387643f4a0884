package hocus

import (
	"bytes"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/vgacodec"
)

// tileImage is one 8x8 tile's Image view. Dimensions are always fixed:
// SetDims is never supported, since every tile's on-disk size follows
// implicitly from its position rather than from a stored width/height.
type tileImage struct {
	root   *Root
	handle gamegraphics.Handle
}

func (img *tileImage) record() *tileRecord {
	idx := img.root.indexOf(img.handle)
	return img.root.records[idx]
}

func (img *tileImage) Dims() gamegraphics.Point {
	return gamegraphics.Point{X: tileWidth, Y: tileHeight}
}

func (img *tileImage) SetDims(gamegraphics.Point) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "hocus", nil)
}

func (img *tileImage) Caps() gamegraphics.Cap { return 0 }

func (img *tileImage) Palette() gamegraphics.Palette { return img.root.palette }

func (img *tileImage) SetPalette(gamegraphics.Palette) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "hocus", nil)
}

func (img *tileImage) Pixels() ([]gamegraphics.Pixel, error) {
	rec := img.record()
	pixels, _, err := vgacodec.Decode(bytes.NewReader(rec.payload), tileWidth, tileHeight)
	return pixels, err
}

func (img *tileImage) Mask() ([]uint8, error) {
	return make([]uint8, tileBytes), nil
}

func (img *tileImage) SetPixels(pixels []gamegraphics.Pixel, mask []uint8) error {
	rec := img.record()
	buf := &bytes.Buffer{}
	if err := vgacodec.Encode(buf, pixels, mask); err != nil {
		return err
	}
	if buf.Len() != tileBytes {
		return gamegraphics.NewError(gamegraphics.KindFormatViolation, "hocus", nil)
	}
	rec.payload = buf.Bytes()
	return nil
}
