package jill

import (
	"io"

	"github.com/camoto-tools/gamegraphics"
)

// jillImage is an ordinary sprite: raw VGA index bytes passed through
// the owning sub-tileset's colour map on read. Writes store raw index
// bytes directly; the original engine never reverse-maps on write
// either, so SetPixels expects already-mapped index values, same as
// what Pixels returns.
type jillImage struct {
	sub    *Sub
	handle gamegraphics.Handle
}

func (img *jillImage) tile() (*tileMeta, int) {
	idx := img.sub.indexOf(img.handle)
	return img.sub.tiles[idx], idx
}

func (img *jillImage) Dims() gamegraphics.Point {
	t, _ := img.tile()
	return gamegraphics.Point{X: uint(t.width), Y: uint(t.height)}
}

// SetDims resizes the tile's on-disk record immediately. Refuses to set
// dimensions to exactly 64x12: the game engine would load such a tile
// as raw palette data instead of pixels (see Sub.OpenImage).
func (img *jillImage) SetDims(d gamegraphics.Point) error {
	if d.X == specialPaletteWidth && d.Y == specialPaletteHeight {
		return gamegraphics.NewError(gamegraphics.KindFormatViolation, "jill", nil)
	}
	t, idx := img.tile()
	off := img.sub.tileOffset(idx)
	oldSize := img.sub.tileSize(t)
	newSize := int64(tileHeaderLen) + int64(d.X)*int64(d.Y)
	delta := newSize - oldSize
	switch {
	case delta > 0:
		if err := img.sub.stream.Insert(off+oldSize, delta); err != nil {
			return err
		}
	case delta < 0:
		if err := img.sub.stream.Remove(off+newSize, -delta); err != nil {
			return err
		}
	}
	if _, err := img.sub.stream.Seek(off, gamegraphics.SeekStart); err != nil {
		return err
	}
	if _, err := img.sub.stream.Write([]byte{uint8(d.X), uint8(d.Y), 0}); err != nil {
		return err
	}
	t.width, t.height = int(d.X), int(d.Y)
	return nil
}

// Caps reports only SetDimensions: palette exposure lives at the
// container level (Palette), never advertised per tile.
func (img *jillImage) Caps() gamegraphics.Cap { return gamegraphics.CapSetDimensions }

func (img *jillImage) Palette() gamegraphics.Palette { return img.sub.root.resolvedPalette() }

func (img *jillImage) SetPalette(gamegraphics.Palette) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "jill", nil)
}

func (img *jillImage) Pixels() ([]gamegraphics.Pixel, error) {
	t, idx := img.tile()
	off := img.sub.tileOffset(idx)
	if _, err := img.sub.stream.Seek(off+int64(tileHeaderLen), gamegraphics.SeekStart); err != nil {
		return nil, err
	}
	raw := make([]byte, t.width*t.height)
	if _, err := io.ReadFull(img.sub.stream, raw); err != nil {
		return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "jill", err)
	}
	pixels := make([]gamegraphics.Pixel, len(raw))
	for i, b := range raw {
		pixels[i] = img.sub.colourMapLookup(b)
	}
	return pixels, nil
}

func (img *jillImage) Mask() ([]uint8, error) {
	t, _ := img.tile()
	return make([]uint8, t.width*t.height), nil
}

func (img *jillImage) SetPixels(pixels []gamegraphics.Pixel, mask []uint8) error {
	t, idx := img.tile()
	if len(pixels) != t.width*t.height {
		return gamegraphics.NewError(gamegraphics.KindFormatViolation, "jill", nil)
	}
	off := img.sub.tileOffset(idx)
	if _, err := img.sub.stream.Seek(off, gamegraphics.SeekStart); err != nil {
		return err
	}
	if _, err := img.sub.stream.Write([]byte{uint8(t.width), uint8(t.height), 0}); err != nil {
		return err
	}
	if _, err := img.sub.stream.Write(pixels); err != nil {
		return gamegraphics.NewError(gamegraphics.KindIO, "jill", err)
	}
	return nil
}

// paletteTileImage is the special case where a sub-tileset's tile is
// exactly 64x12: the game engine treats those bytes as 256 raw VGA
// palette entries rather than pixel data, so OpenImage returns this
// instead of an ordinary jillImage.
type paletteTileImage struct {
	palette gamegraphics.Palette
}

func (img *paletteTileImage) Dims() gamegraphics.Point {
	return gamegraphics.Point{X: specialPaletteWidth, Y: specialPaletteHeight}
}

func (img *paletteTileImage) SetDims(gamegraphics.Point) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "jill", nil)
}

func (img *paletteTileImage) Caps() gamegraphics.Cap { return gamegraphics.CapHasPalette }

func (img *paletteTileImage) Palette() gamegraphics.Palette { return img.palette }

func (img *paletteTileImage) SetPalette(gamegraphics.Palette) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "jill", nil)
}

func (img *paletteTileImage) Pixels() ([]gamegraphics.Pixel, error) {
	return make([]gamegraphics.Pixel, specialPaletteWidth*specialPaletteHeight), nil
}

func (img *paletteTileImage) Mask() ([]uint8, error) {
	return make([]uint8, specialPaletteWidth*specialPaletteHeight), nil
}

func (img *paletteTileImage) SetPixels([]gamegraphics.Pixel, []uint8) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "jill", nil)
}
