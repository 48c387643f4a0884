package imagelist

import "github.com/camoto-tools/gamegraphics"

// croppedImage is the read-only view of one list item: either a whole
// source image passed through verbatim, or a rectangular crop of a
// shared source image's current pixels.
type croppedImage struct {
	it item
}

func (img *croppedImage) Dims() gamegraphics.Point {
	if img.it.kind == itemWhole {
		return img.it.whole.Dims()
	}
	return gamegraphics.Point{X: uint(img.it.rect.W), Y: uint(img.it.rect.H)}
}

func (img *croppedImage) SetDims(gamegraphics.Point) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "imagelist", nil)
}

// Caps is always zero: every item in the list is read-only, whether it
// is a whole passed-through image or a crop of a shared source.
func (img *croppedImage) Caps() gamegraphics.Cap { return 0 }

func (img *croppedImage) Palette() gamegraphics.Palette {
	if img.it.kind == itemWhole {
		return img.it.whole.Palette()
	}
	return img.it.source.Palette()
}

func (img *croppedImage) SetPalette(gamegraphics.Palette) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "imagelist", nil)
}

func (img *croppedImage) Pixels() ([]gamegraphics.Pixel, error) {
	if img.it.kind == itemWhole {
		return img.it.whole.Pixels()
	}
	full, err := img.it.source.Pixels()
	if err != nil {
		return nil, err
	}
	return cropPlane(full, img.it.source.Dims(), img.it.rect), nil
}

func (img *croppedImage) Mask() ([]uint8, error) {
	if img.it.kind == itemWhole {
		return img.it.whole.Mask()
	}
	full, err := img.it.source.Mask()
	if err != nil {
		return nil, err
	}
	return cropPlane(full, img.it.source.Dims(), img.it.rect), nil
}

func (img *croppedImage) SetPixels([]gamegraphics.Pixel, []uint8) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "imagelist", nil)
}

// cropPlane extracts rect from a row-major plane of a source image whose
// full dimensions are srcDims. Pixel and mask buffers share this layout,
// so one helper serves both.
func cropPlane(full []uint8, srcDims gamegraphics.Point, rect Rect) []uint8 {
	out := make([]uint8, rect.W*rect.H)
	stride := int(srcDims.X)
	for y := 0; y < rect.H; y++ {
		srcStart := (rect.Y+y)*stride + rect.X
		copy(out[y*rect.W:(y+1)*rect.W], full[srcStart:srcStart+rect.W])
	}
	return out
}
