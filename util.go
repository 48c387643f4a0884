package gamegraphics

import (
	stdimage "image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Overlay composites overlay onto base, respecting the mask's
// Transparent bit, and returns a new in-memory Image on base's palette.
// Both images are expanded through their palettes into image.NRGBA,
// composited with an over operator, then re-quantised back onto base's
// palette by nearest RGB match.
func Overlay(base, overlay Image) (Image, error) {
	baseDims := base.Dims()
	overDims := overlay.Dims()

	baseImg, err := toNRGBA(base)
	if err != nil {
		return nil, err
	}
	overImg, err := toNRGBA(overlay)
	if err != nil {
		return nil, err
	}

	dst := stdimage.NewNRGBA(stdimage.Rect(0, 0, int(baseDims.X), int(baseDims.Y)))
	draw.Draw(dst, dst.Bounds(), baseImg, stdimage.Point{}, draw.Src)

	ox := (int(baseDims.X) - int(overDims.X)) / 2
	oy := (int(baseDims.Y) - int(overDims.Y)) / 2
	destRect := stdimage.Rect(ox, oy, ox+int(overDims.X), oy+int(overDims.Y))
	xdraw.Draw(dst, destRect, overImg, stdimage.Point{}, xdraw.Over)

	pal := base.Palette()
	pixels := make([]Pixel, baseDims.X*baseDims.Y)
	mask := make([]uint8, baseDims.X*baseDims.Y)
	for y := 0; y < int(baseDims.Y); y++ {
		for x := 0; x < int(baseDims.X); x++ {
			c := dst.NRGBAAt(x, y)
			idx := y*int(baseDims.X) + x
			if c.A == 0 {
				mask[idx] = MaskTransparent
				continue
			}
			pixels[idx] = nearestIndex(pal, c)
		}
	}

	result := NewMemoryStream(nil)
	img := &overlayResult{
		dims:   baseDims,
		pal:    pal,
		pixels: pixels,
		mask:   mask,
		stream: result,
	}
	return img, nil
}

func toNRGBA(img Image) (*stdimage.NRGBA, error) {
	dims := img.Dims()
	pixels, err := img.Pixels()
	if err != nil {
		return nil, err
	}
	mask, err := img.Mask()
	if err != nil {
		return nil, err
	}
	pal := img.Palette()

	out := stdimage.NewNRGBA(stdimage.Rect(0, 0, int(dims.X), int(dims.Y)))
	for y := 0; y < int(dims.Y); y++ {
		for x := 0; x < int(dims.X); x++ {
			idx := y*int(dims.X) + x
			var c color.NRGBA
			if pal != nil && int(pixels[idx]) < len(pal) {
				p := pal[pixels[idx]]
				c = color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
			} else {
				c = color.NRGBA{A: 255}
			}
			if mask[idx]&MaskTransparent != 0 {
				c.A = 0
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out, nil
}

func nearestIndex(pal Palette, c color.NRGBA) Pixel {
	best := 0
	bestDist := -1
	for i, p := range pal {
		dr := int(p.R) - int(c.R)
		dg := int(p.G) - int(c.G)
		db := int(p.B) - int(c.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return Pixel(best)
}

// overlayResult is the plain in-memory Image returned by Overlay. It
// supports no capability mutators; it exists solely to carry the
// composited result back to the caller.
type overlayResult struct {
	dims   Point
	pal    Palette
	pixels []Pixel
	mask   []uint8
	stream Stream
}

func (o *overlayResult) Dims() Point                    { return o.dims }
func (o *overlayResult) SetDims(Point) error            { return NewError(KindCapabilityViolation, "overlay", nil) }
func (o *overlayResult) Caps() Cap                      { return CapHasPalette }
func (o *overlayResult) Palette() Palette               { return o.pal }
func (o *overlayResult) SetPalette(Palette) error       { return NewError(KindCapabilityViolation, "overlay", nil) }
func (o *overlayResult) Pixels() ([]Pixel, error)       { return o.pixels, nil }
func (o *overlayResult) Mask() ([]uint8, error)         { return o.mask, nil }
func (o *overlayResult) SetPixels([]Pixel, []uint8) error {
	return NewError(KindCapabilityViolation, "overlay", nil)
}

// DimsEqual reports whether two Points describe the same dimensions.
func DimsEqual(a, b Point) bool { return a.X == b.X && a.Y == b.Y }

// PixelCount returns the number of pixels dims describes.
func PixelCount(dims Point) int { return int(dims.X) * int(dims.Y) }

// BytesPerRow returns the number of bytes one row of width pixels
// occupies when packed bitsPerPixel bits per pixel, rounded up to a
// whole byte.
func BytesPerRow(width uint, bitsPerPixel int) int {
	return (int(width)*bitsPerPixel + 7) / 8
}
