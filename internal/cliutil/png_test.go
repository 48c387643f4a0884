package cliutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/camoto-tools/gamegraphics"
)

func TestGridDims(t *testing.T) {
	cols, rows := gridDims(0, 7)
	if cols != 7 || rows != 1 {
		t.Fatalf("gridDims(0, 7) = %d, %d; want 7, 1", cols, rows)
	}
	cols, rows = gridDims(3, 7)
	if cols != 3 || rows != 3 {
		t.Fatalf("gridDims(3, 7) = %d, %d; want 3, 3", cols, rows)
	}
	cols, rows = gridDims(100, 7)
	if cols != 7 || rows != 1 {
		t.Fatalf("gridDims(100, 7) = %d, %d; want 7, 1", cols, rows)
	}
}

func TestFindUnusedColourPrefersOrder(t *testing.T) {
	pixels := make([]gamegraphics.Pixel, 256)
	mask := make([]uint8, 256)
	for i := range pixels {
		pixels[i] = gamegraphics.Pixel(i)
	}
	if got := findUnusedColour(pixels, mask); got != -1 {
		t.Fatalf("all 256 colours used: got %d, want -1", got)
	}

	mask[255] = gamegraphics.MaskTransparent
	if got := findUnusedColour(pixels, mask); got != 255 {
		t.Fatalf("255 free: got %d, want 255", got)
	}

	mask[0] = gamegraphics.MaskTransparent
	mask[255] = 0
	if got := findUnusedColour(pixels, mask); got != 0 {
		t.Fatalf("only 0 free: got %d, want 0", got)
	}
}

func TestPreparePaletteSynthesisesEntry(t *testing.T) {
	src := make(gamegraphics.Palette, 4)
	for i := range src {
		src[i] = gamegraphics.Colour{R: uint8(i), A: 255}
	}
	prepared := preparePalette(gamegraphics.VGA, src, -1)
	if prepared.transparentAt != 0 || prepared.offset != 1 {
		t.Fatalf("expected a synthesised entry at index 0 with offset 1, got %+v", prepared)
	}
	if len(prepared.colours) != 5 {
		t.Fatalf("expected one extra palette entry, got %d colours", len(prepared.colours))
	}
}

func TestPreparePaletteReusesExistingTransparentEntry(t *testing.T) {
	src := make(gamegraphics.Palette, 4)
	for i := range src {
		src[i] = gamegraphics.Colour{R: uint8(i), A: 255}
	}
	src[2].A = 0
	prepared := preparePalette(gamegraphics.VGA, src, -1)
	if prepared.transparentAt != 2 || prepared.offset != 0 {
		t.Fatalf("expected the existing alpha-0 entry at 2 to be reused, got %+v", prepared)
	}
	if len(prepared.colours) != 4 {
		t.Fatalf("expected no new entries, got %d colours", len(prepared.colours))
	}
}

// fakeImage is a minimal in-memory gamegraphics.Image for round-tripping
// ImageToPNG/PNGToImage without a real codec.
type fakeImage struct {
	dims   gamegraphics.Point
	pal    gamegraphics.Palette
	pixels []gamegraphics.Pixel
	mask   []uint8
}

func (f *fakeImage) Dims() gamegraphics.Point { return f.dims }
func (f *fakeImage) SetDims(d gamegraphics.Point) error {
	f.dims = d
	f.pixels = make([]gamegraphics.Pixel, d.X*d.Y)
	f.mask = make([]uint8, d.X*d.Y)
	return nil
}
func (f *fakeImage) Caps() gamegraphics.Cap { return gamegraphics.CapSetDimensions }
func (f *fakeImage) Palette() gamegraphics.Palette { return f.pal }
func (f *fakeImage) SetPalette(p gamegraphics.Palette) error {
	f.pal = p
	return nil
}
func (f *fakeImage) Pixels() ([]gamegraphics.Pixel, error) { return f.pixels, nil }
func (f *fakeImage) Mask() ([]uint8, error)                { return f.mask, nil }
func (f *fakeImage) SetPixels(pixels []gamegraphics.Pixel, mask []uint8) error {
	f.pixels, f.mask = pixels, mask
	return nil
}

func TestImageToPNGAndBackRoundTrips(t *testing.T) {
	pal := make(gamegraphics.Palette, 16)
	for i := range pal {
		pal[i] = gamegraphics.Colour{R: uint8(i * 16), G: uint8(i * 8), B: uint8(i * 4), A: 255}
	}
	src := &fakeImage{
		dims:   gamegraphics.Point{X: 4, Y: 2},
		pal:    pal,
		pixels: []gamegraphics.Pixel{0, 1, 2, 3, 4, 5, 6, 7},
		mask:   make([]uint8, 8),
	}
	src.mask[5] = gamegraphics.MaskTransparent

	dest := filepath.Join(t.TempDir(), "out.png")
	if err := ImageToPNG(src, dest, gamegraphics.VGA); err != nil {
		t.Fatalf("ImageToPNG: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected PNG file to be written: %v", err)
	}

	dst := &fakeImage{dims: gamegraphics.Point{X: 4, Y: 2}, pixels: make([]gamegraphics.Pixel, 8), mask: make([]uint8, 8)}
	if err := PNGToImage(dst, dest); err != nil {
		t.Fatalf("PNGToImage: %v", err)
	}
	for i, want := range src.pixels {
		if i == 5 {
			continue // transparent pixel's colour index isn't preserved, only its mask bit
		}
		if dst.pixels[i] != want {
			t.Fatalf("pixel %d = %d, want %d", i, dst.pixels[i], want)
		}
	}
	if dst.mask[5]&gamegraphics.MaskTransparent == 0 {
		t.Fatalf("expected pixel 5 to round-trip as transparent")
	}
}
