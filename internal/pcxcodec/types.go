package pcxcodec

import (
	"io"

	"github.com/camoto-tools/gamegraphics"
)

type imageType struct {
	code    string
	name    string
	exts    []string
	games   []string
	variant variant
}

func (t *imageType) Code() string        { return t.code }
func (t *imageType) Name() string        { return t.name }
func (t *imageType) Extensions() []string { return t.exts }
func (t *imageType) Games() []string     { return t.games }

func (t *imageType) RequiredSupps(string) []gamegraphics.SuppItem { return nil }

func (t *imageType) Probe(stream gamegraphics.Stream) (gamegraphics.ProbeResult, error) {
	size, err := stream.Size()
	if err != nil {
		return gamegraphics.DefinitelyNo, err
	}
	if size < headerSize {
		return gamegraphics.DefinitelyNo, nil
	}
	if _, err := stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return gamegraphics.DefinitelyNo, err
	}
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(stream, buf); err != nil {
		return gamegraphics.DefinitelyNo, nil
	}
	if buf[0] != pcxMagic || !probeVersion(buf[1]) {
		return gamegraphics.DefinitelyNo, nil
	}
	bpp := buf[3]
	planes := buf[65]
	encoding := buf[2]

	switch t.variant {
	case variantPlanarEGA:
		if bpp == 1 && planes == 4 {
			return gamegraphics.DefinitelyYes, nil
		}
	case variantLinearVGARLE:
		if bpp == 8 && planes == 1 && encoding == 1 {
			return gamegraphics.DefinitelyYes, nil
		}
	case variantLinearVGARaw:
		if bpp == 8 && planes == 1 && encoding == 0 {
			return gamegraphics.DefinitelyYes, nil
		}
	}
	return gamegraphics.DefinitelyNo, nil
}

func (t *imageType) Open(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	return Open(stream, t.variant)
}

func (t *imageType) Create(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	return Create(stream, t.variant, gamegraphics.Point{X: 8, Y: 8})
}

func init() {
	gamegraphics.RegisterImageType(&imageType{
		code:    "img-pcx-ega-planar",
		name:    "PCX, 4-plane EGA",
		exts:    []string{"pcx"},
		games:   []string{"Crystal Caves", "Secret Agent", "Cosmo's Cosmic Adventure"},
		variant: variantPlanarEGA,
	})
	gamegraphics.RegisterImageType(&imageType{
		code:    "img-pcx-vga-rle",
		name:    "PCX, 8bpp linear VGA, RLE",
		exts:    []string{"pcx"},
		games:   []string{"Duke Nukem", "Duke Nukem II"},
		variant: variantLinearVGARLE,
	})
	gamegraphics.RegisterImageType(&imageType{
		code:    "img-pcx-vga-raw",
		name:    "PCX, 8bpp linear VGA, uncompressed",
		exts:    []string{"pcx"},
		games:   []string{"Duke Nukem", "Duke Nukem II"},
		variant: variantLinearVGARaw,
	})
}
