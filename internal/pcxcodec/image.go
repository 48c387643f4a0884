package pcxcodec

import (
	"bytes"
	"io"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/planarcodec"
	"github.com/camoto-tools/gamegraphics/internal/streamfilter"
)

// variant distinguishes the three registered PCX codecs.
type variant int

const (
	variantPlanarEGA variant = iota // 1bpp, 4 planes
	variantLinearVGARLE
	variantLinearVGARaw
)

// planarDesc is the plane order PCX uses for its 4-plane EGA body:
// blue, green, red, intensity, in ascending bit-plane order.
var planarDesc = planarcodec.Desc{
	planarcodec.Blue1, planarcodec.Green1, planarcodec.Red1, planarcodec.Intensity1,
	planarcodec.Unused, planarcodec.Unused,
}

// Image is a gamegraphics.Image backed by a PCX file.
type Image struct {
	stream  gamegraphics.Stream
	variant variant
	h       header
	pal     gamegraphics.Palette
}

// Open parses an existing PCX stream as the given variant.
func Open(stream gamegraphics.Stream, v variant) (*Image, error) {
	if _, err := stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return nil, err
	}
	h, err := readHeader(stream)
	if err != nil {
		return nil, err
	}
	img := &Image{stream: stream, variant: v, h: h}
	img.pal, err = img.loadPalette()
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Create initialises a fresh PCX image of the given variant and
// dimensions, ready to accept SetPixels.
func Create(stream gamegraphics.Stream, v variant, dims gamegraphics.Point) (*Image, error) {
	h := header{
		Version:  5,
		Encoding: 1,
		XMax:     uint16(dims.X - 1),
		YMax:     uint16(dims.Y - 1),
		HDPI:     75,
		VDPI:     75,
	}
	switch v {
	case variantPlanarEGA:
		h.BitsPerPlane = 1
		h.PlaneCount = 4
		h.BytesPerLine = uint16(gamegraphics.BytesPerRow(dims.X, 1))
	case variantLinearVGARLE:
		h.BitsPerPlane = 8
		h.PlaneCount = 1
		h.Encoding = 1
		h.BytesPerLine = uint16(vgaLineBytes(int(dims.X)))
	case variantLinearVGARaw:
		h.BitsPerPlane = 8
		h.PlaneCount = 1
		h.Encoding = 0
		h.BytesPerLine = uint16(vgaLineBytes(int(dims.X)))
	}
	img := &Image{stream: stream, variant: v, h: h}
	img.pal = gamegraphics.DefaultPalette(img.depth())
	return img, nil
}

func (img *Image) depth() gamegraphics.ColourDepth {
	if img.variant == variantPlanarEGA {
		return gamegraphics.EGA
	}
	return gamegraphics.VGA
}

func (img *Image) Dims() gamegraphics.Point {
	return gamegraphics.Point{X: uint(img.h.width()), Y: uint(img.h.height())}
}

func (img *Image) SetDims(d gamegraphics.Point) error {
	img.h.XMax = uint16(d.X - 1)
	img.h.YMax = uint16(d.Y - 1)
	img.h.XMin, img.h.YMin = 0, 0
	switch img.variant {
	case variantPlanarEGA:
		img.h.BytesPerLine = uint16(gamegraphics.BytesPerRow(d.X, 1))
	default:
		img.h.BytesPerLine = uint16(vgaLineBytes(int(d.X)))
	}
	return nil
}

// vgaLineBytes rounds width up to an even byte count: PCX scanlines are
// word-aligned on disk, so an odd-width linear VGA row carries one
// trailing padding byte.
func vgaLineBytes(width int) int {
	if width%2 != 0 {
		return width + 1
	}
	return width
}

func (img *Image) Caps() gamegraphics.Cap {
	return gamegraphics.CapSetDimensions | gamegraphics.CapHasPalette | gamegraphics.CapSetPalette
}

func (img *Image) Palette() gamegraphics.Palette { return img.pal }

func (img *Image) SetPalette(p gamegraphics.Palette) error {
	img.pal = p
	return nil
}

func (img *Image) loadPalette() (gamegraphics.Palette, error) {
	if img.variant == variantPlanarEGA {
		return img.h.EGAPalette, nil
	}
	size, err := img.stream.Size()
	if err != nil {
		return nil, err
	}
	if size >= headerSize+vgaPalSize {
		if _, err := img.stream.Seek(size-vgaPalSize, gamegraphics.SeekStart); err != nil {
			return nil, err
		}
		marker := make([]byte, 1)
		if _, err := io.ReadFull(img.stream, marker); err != nil {
			return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "pcxcodec", err)
		}
		if marker[0] == vgaPalMark {
			return gamegraphics.LoadPalette(img.stream, 256, 8)
		}
	}
	return img.h.EGAPalette, nil
}

func (img *Image) rawBody() ([]byte, error) {
	size, err := img.stream.Size()
	if err != nil {
		return nil, err
	}
	bodyEnd := size
	if img.variant != variantPlanarEGA {
		if size-headerSize >= vgaPalSize {
			marker := make([]byte, 1)
			if _, err := img.stream.Seek(size-vgaPalSize, gamegraphics.SeekStart); err != nil {
				return nil, err
			}
			if _, err := io.ReadFull(img.stream, marker); err != nil {
				return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "pcxcodec", err)
			}
			if marker[0] == vgaPalMark {
				bodyEnd = size - vgaPalSize
			}
		}
	}
	if _, err := img.stream.Seek(headerSize, gamegraphics.SeekStart); err != nil {
		return nil, err
	}
	compressed := make([]byte, bodyEnd-headerSize)
	if _, err := io.ReadFull(img.stream, compressed); err != nil {
		return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "pcxcodec", err)
	}
	if img.h.Encoding == 0 {
		return compressed, nil
	}
	return streamfilter.RunAll(streamfilter.ExpandPCX(), compressed)
}

func (img *Image) Pixels() ([]gamegraphics.Pixel, error) {
	raw, err := img.rawBody()
	if err != nil {
		return nil, err
	}
	width, height := img.h.width(), img.h.height()
	lineBytes := int(img.h.BytesPerLine)

	pixels := make([]gamegraphics.Pixel, width*height)
	if img.variant == variantPlanarEGA {
		paddedWidth := lineBytes * 8
		planarPixels, _, err := planarcodec.DecodeRow(bytes.NewReader(raw), planarDesc, paddedWidth, height)
		if err != nil {
			return nil, err
		}
		for y := 0; y < height; y++ {
			copy(pixels[y*width:(y+1)*width], planarPixels[y*paddedWidth:y*paddedWidth+width])
		}
		return pixels, nil
	}

	for y := 0; y < height; y++ {
		rowStart := y * lineBytes
		if rowStart+width > len(raw) {
			return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "pcxcodec", nil)
		}
		copy(pixels[y*width:(y+1)*width], raw[rowStart:rowStart+width])
	}
	return pixels, nil
}

func (img *Image) Mask() ([]uint8, error) {
	dims := img.Dims()
	return make([]uint8, int(dims.X)*int(dims.Y)), nil
}

func (img *Image) SetPixels(pixels []gamegraphics.Pixel, mask []uint8) error {
	width, height := img.h.width(), img.h.height()
	lineBytes := int(img.h.BytesPerLine)

	var raw []byte
	if img.variant == variantPlanarEGA {
		paddedWidth := lineBytes * 8
		planarPixels := make([]uint8, paddedWidth*height)
		planarMask := make([]uint8, paddedWidth*height)
		for y := 0; y < height; y++ {
			copy(planarPixels[y*paddedWidth:y*paddedWidth+width], pixels[y*width:(y+1)*width])
			if mask != nil {
				copy(planarMask[y*paddedWidth:y*paddedWidth+width], mask[y*width:(y+1)*width])
			}
			// Padding columns repeat the last literal pixel to minimise
			// RLE cost; undefined on read.
			for x := width; x < paddedWidth; x++ {
				planarPixels[y*paddedWidth+x] = pixels[y*width+width-1]
			}
		}
		buf := &bytes.Buffer{}
		if err := planarcodec.EncodeRow(buf, planarDesc, paddedWidth, height, planarPixels, planarMask); err != nil {
			return err
		}
		raw = buf.Bytes()
	} else {
		raw = make([]byte, lineBytes*height)
		for y := 0; y < height; y++ {
			copy(raw[y*lineBytes:y*lineBytes+width], pixels[y*width:(y+1)*width])
			for x := width; x < lineBytes; x++ {
				raw[y*lineBytes+x] = pixels[y*width+width-1]
			}
		}
	}

	var body []byte
	var err error
	if img.h.Encoding != 0 {
		body, err = streamfilter.RunAll(streamfilter.CompressPCX(lineBytes), raw)
		if err != nil {
			return err
		}
	} else {
		body = raw
	}

	writeVGAPal := img.variant != variantPlanarEGA && len(img.pal) > 16
	if writeVGAPal {
		img.h.EGAPalette = padPalette(img.pal[:16], 16)
	} else {
		img.h.EGAPalette = padPalette(img.pal, 16)
	}

	upperBound := int64(headerSize) + int64(len(raw)) + vgaPalSize + 1
	if err := img.stream.Truncate(upperBound); err != nil {
		return err
	}
	if _, err := img.stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return err
	}
	if err := img.h.write(img.stream); err != nil {
		return err
	}
	if _, err := img.stream.Write(body); err != nil {
		return gamegraphics.NewError(gamegraphics.KindIO, "pcxcodec", err)
	}

	if writeVGAPal {
		if _, err := img.stream.Write([]byte{vgaPalMark}); err != nil {
			return gamegraphics.NewError(gamegraphics.KindIO, "pcxcodec", err)
		}
		if err := gamegraphics.WritePalette(img.stream, padPalette(img.pal, 256), 8); err != nil {
			return err
		}
	}

	cur, err := img.stream.Seek(0, gamegraphics.SeekCurrent)
	if err != nil {
		return err
	}
	return img.stream.Truncate(cur)
}

func padPalette(p gamegraphics.Palette, n int) gamegraphics.Palette {
	out := make(gamegraphics.Palette, n)
	copy(out, p)
	return out
}
