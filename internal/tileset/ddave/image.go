package ddave

import (
	"github.com/camoto-tools/gamegraphics"
)

// tileImage is one tile's Image view. VGA tiles at or beyond
// fixedTileCount may change dimensions; every other tile is fixed 16x16.
type tileImage struct {
	root   *Root
	handle gamegraphics.Handle
}

func (img *tileImage) record() (*tileRecord, int) {
	idx := img.root.indexOf(img.handle)
	return img.root.records[idx], idx
}

func (img *tileImage) Dims() gamegraphics.Point {
	rec, _ := img.record()
	return gamegraphics.Point{X: uint(rec.width), Y: uint(rec.height)}
}

// SetDims is only legal for VGA header-carrying tiles: changing a fixed
// tile's or a CGA/EGA tile's dimensions would desynchronise its implicit
// on-disk size from its codec's fixed byte count.
func (img *tileImage) SetDims(d gamegraphics.Point) error {
	rec, idx := img.record()
	if !img.root.hasHeader(idx) {
		return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ddave", nil)
	}
	rec.width, rec.height = int(d.X), int(d.Y)
	rec.payload = make([]byte, int(d.X)*int(d.Y))
	return nil
}

func (img *tileImage) Caps() gamegraphics.Cap {
	_, idx := img.record()
	if img.root.hasHeader(idx) {
		return gamegraphics.CapSetDimensions
	}
	return 0
}

func (img *tileImage) Palette() gamegraphics.Palette { return img.root.palette }

func (img *tileImage) SetPalette(gamegraphics.Palette) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ddave", nil)
}

func (img *tileImage) Pixels() ([]gamegraphics.Pixel, error) {
	rec, _ := img.record()
	pixels, _, err := decodeTile(img.root.variant, rec.width, rec.height, rec.payload)
	return pixels, err
}

func (img *tileImage) Mask() ([]uint8, error) {
	rec, _ := img.record()
	_, mask, err := decodeTile(img.root.variant, rec.width, rec.height, rec.payload)
	return mask, err
}

func (img *tileImage) SetPixels(pixels []gamegraphics.Pixel, mask []uint8) error {
	rec, _ := img.record()
	payload, err := encodeTile(img.root.variant, rec.width, rec.height, pixels, mask)
	if err != nil {
		return err
	}
	rec.payload = payload
	return nil
}
