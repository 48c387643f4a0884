package imagelist

import (
	"testing"

	"github.com/camoto-tools/gamegraphics"
)

// stubImage is a minimal in-memory gamegraphics.Image for testing, with
// no on-disk backing of its own.
type stubImage struct {
	dims   gamegraphics.Point
	pixels []gamegraphics.Pixel
	pal    gamegraphics.Palette
}

func (s *stubImage) Dims() gamegraphics.Point { return s.dims }
func (s *stubImage) SetDims(gamegraphics.Point) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "stub", nil)
}
func (s *stubImage) Caps() gamegraphics.Cap      { return 0 }
func (s *stubImage) Palette() gamegraphics.Palette { return s.pal }
func (s *stubImage) SetPalette(gamegraphics.Palette) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "stub", nil)
}
func (s *stubImage) Pixels() ([]gamegraphics.Pixel, error) { return s.pixels, nil }
func (s *stubImage) Mask() ([]uint8, error)                { return make([]uint8, len(s.pixels)), nil }
func (s *stubImage) SetPixels([]gamegraphics.Pixel, []uint8) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "stub", nil)
}

// newGradientSource builds a w x h image whose pixel value at (x, y) is
// y*w+x, so cropped regions can be checked against known values.
func newGradientSource(w, h int) *stubImage {
	pixels := make([]gamegraphics.Pixel, w*h)
	for i := range pixels {
		pixels[i] = uint8(i % 256)
	}
	return &stubImage{dims: gamegraphics.Point{X: uint(w), Y: uint(h)}, pixels: pixels}
}

func TestWholeImages(t *testing.T) {
	a := &stubImage{dims: gamegraphics.Point{X: 2, Y: 2}, pixels: []gamegraphics.Pixel{1, 2, 3, 4}}
	b := &stubImage{dims: gamegraphics.Point{X: 1, Y: 1}, pixels: []gamegraphics.Pixel{9}}
	root := NewWholeImages([]gamegraphics.Image{a, b})

	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries))
	}

	img, err := root.OpenImage(entries[1].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	if img.Dims() != (gamegraphics.Point{X: 1, Y: 1}) {
		t.Fatalf("dims = %v, want 1x1", img.Dims())
	}
	pixels, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	if len(pixels) != 1 || pixels[0] != 9 {
		t.Fatalf("pixels = %v, want [9]", pixels)
	}
}

func TestGridSubdivision(t *testing.T) {
	source := newGradientSource(8, 4)
	root := NewGrid(source, Rect{X: 0, Y: 0, W: 8, H: 4}, 4, 2)

	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entry count = %d, want 4 (2x2 grid of 4x2 cells)", len(entries))
	}

	img, err := root.OpenImage(entries[1].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	if img.Dims() != (gamegraphics.Point{X: 4, Y: 2}) {
		t.Fatalf("dims = %v, want 4x2", img.Dims())
	}
	pixels, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	// Cell (1,0): columns 4-7, rows 0-1 of an 8-wide gradient source.
	want := []gamegraphics.Pixel{4, 5, 6, 7, 12, 13, 14, 15}
	for i, p := range pixels {
		if p != want[i] {
			t.Fatalf("pixel %d = %d, want %d", i, p, want[i])
		}
	}
}

func TestExplicitRects(t *testing.T) {
	source := newGradientSource(4, 4)
	root := NewRects(source, []Rect{{X: 1, Y: 1, W: 2, H: 2}})

	entries, err := root.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	img, err := root.OpenImage(entries[0].Handle, nil)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	pixels, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	want := []gamegraphics.Pixel{5, 6, 9, 10}
	for i, p := range pixels {
		if p != want[i] {
			t.Fatalf("pixel %d = %d, want %d", i, p, want[i])
		}
	}
}

func TestMutatorsRejected(t *testing.T) {
	root := NewWholeImages([]gamegraphics.Image{&stubImage{dims: gamegraphics.Point{X: 1, Y: 1}, pixels: []gamegraphics.Pixel{0}}})
	if _, err := root.Insert(0, gamegraphics.EntryImage); err == nil {
		t.Fatalf("Insert succeeded, want rejection")
	}
	entries, _ := root.Entries()
	if err := root.Remove(entries[0].Handle); err == nil {
		t.Fatalf("Remove succeeded, want rejection")
	}
	if err := root.Resize(entries[0].Handle, 10); err == nil {
		t.Fatalf("Resize succeeded, want rejection")
	}
	img, _ := root.OpenImage(entries[0].Handle, nil)
	if img.Caps() != 0 {
		t.Fatalf("Caps = %v, want 0", img.Caps())
	}
}
