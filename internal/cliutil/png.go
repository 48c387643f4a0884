package cliutil

import (
	"fmt"
	stdimage "image"
	"image/color"
	"image/png"
	"os"

	"github.com/camoto-tools/gamegraphics"
)

// DefaultPaletteFor returns the conventional palette for depth, with its
// last entry forced transparent for VGA (matching pngutil.hpp's
// defaultPalette, which reserves VGA index 255 as the transparency
// marker since nothing else in the 256-colour default claims it).
func DefaultPaletteFor(depth gamegraphics.ColourDepth) gamegraphics.Palette {
	pal := append(gamegraphics.Palette(nil), gamegraphics.DefaultPalette(depth)...)
	if depth == gamegraphics.VGA && len(pal) == 256 {
		pal[255] = gamegraphics.Colour{R: 0xFF, G: 0x00, B: 0xC0, A: 0}
	}
	return pal
}

// findUnusedColour scans pixels/mask for a palette index forceXP can
// safely reuse as the transparency marker: 255 preferred, then 0, then
// any other, -1 if all 256 are in use. Mirrors imageToPng's scan in
// common.hpp.
func findUnusedColour(pixels []gamegraphics.Pixel, mask []uint8) int {
	var used [256]bool
	for i, p := range pixels {
		if mask[i]&gamegraphics.MaskTransparent == 0 {
			used[p] = true
		}
	}
	if !used[255] {
		return 255
	}
	if !used[0] {
		return 0
	}
	for i := 1; i < 255; i++ {
		if !used[i] {
			return i
		}
	}
	return -1
}

// preparedPalette is the outcome of preparePalette: a color.Palette
// ready for an image.Paletted, how far real pixel values must be offset
// into it, and which index (if any) is reserved for transparency.
type preparedPalette struct {
	colours       color.Palette
	offset        int
	transparentAt int // -1 if none
}

// preparePalette builds a PNG-ready palette from src (or depth's default
// if src is nil), matching pngutil.hpp's preparePalette: if the palette
// already reserves a transparent entry (alpha 0) that is used as-is; if
// it has room but no transparent entry, one is synthesised at the front
// and every index shifts up by one; otherwise, if forceXP names an index
// the caller determined is unused, that index is marked transparent
// in-place.
func preparePalette(depth gamegraphics.ColourDepth, src gamegraphics.Palette, forceXP int) preparedPalette {
	pal := src
	if pal == nil {
		pal = DefaultPaletteFor(depth)
	}

	xp := -1
	for i, c := range pal {
		if c.A == 0 {
			xp = i
			break
		}
	}

	offset := 0
	colours := make(color.Palette, len(pal))
	for i, c := range pal {
		colours[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}

	if xp < 0 && len(pal) < 255 {
		colours = append(color.Palette{color.NRGBA{R: 0xFF, G: 0x00, B: 0xC0, A: 0}}, colours...)
		offset = 1
		xp = 0
	}

	if xp < 0 && forceXP >= 0 && forceXP < len(colours) {
		c := colours[forceXP].(color.NRGBA)
		c.A = 0
		colours[forceXP] = c
		xp = forceXP
	}

	return preparedPalette{colours: colours, offset: offset, transparentAt: xp}
}

// ImageToPNG exports img to destFile as an indexed PNG. When img has no
// palette of its own (e.g. EGA/CGA formats), DefaultPaletteFor(depth) is
// used instead.
func ImageToPNG(img gamegraphics.Image, destFile string, depth gamegraphics.ColourDepth) error {
	dims := img.Dims()
	pixels, err := img.Pixels()
	if err != nil {
		return err
	}
	mask, err := img.Mask()
	if err != nil {
		return err
	}

	forceXP := findUnusedColour(pixels, mask)
	if forceXP < 0 {
		fmt.Fprintln(os.Stderr, "warning: image uses all 256 colours plus transparency; "+
			"output PNG will have no transparency")
	}
	prepared := preparePalette(depth, img.Palette(), forceXP)

	dst := stdimage.NewPaletted(stdimage.Rect(0, 0, int(dims.X), int(dims.Y)), prepared.colours)
	for y := 0; y < int(dims.Y); y++ {
		for x := 0; x < int(dims.X); x++ {
			i := y*int(dims.X) + x
			if prepared.transparentAt >= 0 && mask[i]&gamegraphics.MaskTransparent != 0 {
				dst.SetColorIndex(x, y, uint8(prepared.transparentAt))
			} else {
				dst.SetColorIndex(x, y, uint8(int(pixels[i])+prepared.offset))
			}
		}
	}

	f, err := os.Create(destFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}

// PNGToImage loads srcFile and writes its pixels back into img. Palette
// index 0 is treated as transparent only if the PNG actually marks it
// so (a non-opaque alpha value), in which case every other index is
// shifted down by one. Only entry 0 is checked: a transparent entry at
// any other index is read as an ordinary colour.
func PNGToImage(img gamegraphics.Image, srcFile string) error {
	f, err := os.Open(srcFile)
	if err != nil {
		return err
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		return err
	}
	paletted, ok := decoded.(*stdimage.Paletted)
	if !ok {
		return fmt.Errorf("%s: not an indexed (palette) PNG", srcFile)
	}

	bounds := paletted.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	dims := img.Dims()
	if width != int(dims.X) || height != int(dims.Y) {
		if img.Caps().Has(gamegraphics.CapSetDimensions) {
			if err := img.SetDims(gamegraphics.Point{X: uint(width), Y: uint(height)}); err != nil {
				return err
			}
		} else {
			return fmt.Errorf("%s is %dx%d but target image is fixed at %dx%d", srcFile, width, height, dims.X, dims.Y)
		}
	}

	hasTransparency := false
	offset := 0
	if len(paletted.Palette) > 0 {
		_, _, _, a := paletted.Palette[0].RGBA()
		if a != 0xffff {
			hasTransparency = true
			offset = -1
		}
	}

	pixels := make([]gamegraphics.Pixel, width*height)
	mask := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := int(paletted.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y))
			i := y*width + x
			if hasTransparency && idx == 0 {
				mask[i] = gamegraphics.MaskTransparent
			} else {
				pixels[i] = gamegraphics.Pixel(idx + offset)
			}
		}
	}

	if img.Caps().Has(gamegraphics.CapSetPalette) {
		newPal := make(gamegraphics.Palette, len(paletted.Palette))
		for i, c := range paletted.Palette {
			r, g, b, a := c.RGBA()
			newPal[i] = gamegraphics.Colour{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
		}
		if err := img.SetPalette(newPal); err != nil {
			return err
		}
	}

	return img.SetPixels(pixels, mask)
}

// gridDims picks the grid width (in tiles) for a whole-tileset PNG
// export: widthTiles if given and nonzero, else numTiles (single row).
func gridDims(widthTiles, numTiles int) (cols, rows int) {
	if widthTiles <= 0 || widthTiles > numTiles {
		widthTiles = numTiles
	}
	if widthTiles == 0 {
		return 0, 0
	}
	rows = (numTiles + widthTiles - 1) / widthTiles
	return widthTiles, rows
}

// TilesetToPNG exports every image entry of tileset (sub-tilesets are
// skipped) into a single grid PNG, widthTiles tiles wide (0 means one
// row). Every image entry must share the same dimensions; this mirrors
// tilesetToPng's "only works with tilesets where all tiles are the same
// size" restriction in gamegfx.cpp/gametls.cpp.
func TilesetToPNG(tileset gamegraphics.Tileset, widthTiles int, destFile string, depth gamegraphics.ColourDepth) error {
	entries, err := tileset.Entries()
	if err != nil {
		return err
	}

	var tileDims gamegraphics.Point
	images := make([]gamegraphics.Image, 0, len(entries))
	for _, e := range entries {
		if e.Kind != gamegraphics.EntryImage {
			continue
		}
		img, err := tileset.OpenImage(e.Handle, nil)
		if err != nil {
			return err
		}
		if tileDims.X == 0 && tileDims.Y == 0 {
			tileDims = img.Dims()
		} else if !gamegraphics.DimsEqual(tileDims, img.Dims()) {
			return fmt.Errorf("tileset has mixed tile sizes; whole-tileset PNG export needs uniform tiles")
		}
		images = append(images, img)
	}
	if tileDims.X == 0 || tileDims.Y == 0 {
		return fmt.Errorf("tileset has no images to export")
	}

	cols, rows := gridDims(widthTiles, len(images))
	canvasW := cols * int(tileDims.X)
	canvasH := rows * int(tileDims.Y)

	var pal gamegraphics.Palette
	if len(images) > 0 {
		pal = images[0].Palette()
	}
	allPixels := make([][]gamegraphics.Pixel, len(images))
	allMasks := make([][]uint8, len(images))
	forceXP := 255
	used := make([]bool, 256)
	for i, img := range images {
		p, err := img.Pixels()
		if err != nil {
			return err
		}
		m, err := img.Mask()
		if err != nil {
			return err
		}
		allPixels[i], allMasks[i] = p, m
		for j, px := range p {
			if m[j]&gamegraphics.MaskTransparent == 0 {
				used[px] = true
			}
		}
	}
	if used[255] {
		forceXP = -1
		if !used[0] {
			forceXP = 0
		} else {
			for i := 1; i < 255; i++ {
				if !used[i] {
					forceXP = i
					break
				}
			}
		}
	}

	prepared := preparePalette(depth, pal, forceXP)
	dst := stdimage.NewPaletted(stdimage.Rect(0, 0, canvasW, canvasH), prepared.colours)
	for t, img := range images {
		offX := (t % cols) * int(tileDims.X)
		offY := (t / cols) * int(tileDims.Y)
		p, m := allPixels[t], allMasks[t]
		for y := 0; y < int(tileDims.Y); y++ {
			for x := 0; x < int(tileDims.X); x++ {
				i := y*int(tileDims.X) + x
				if prepared.transparentAt >= 0 && m[i]&gamegraphics.MaskTransparent != 0 {
					dst.SetColorIndex(offX+x, offY+y, uint8(prepared.transparentAt))
				} else {
					dst.SetColorIndex(offX+x, offY+y, uint8(int(p[i])+prepared.offset))
				}
			}
		}
	}

	f, err := os.Create(destFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, dst)
}

// PNGToTileset replaces the image entries of tileset (sub-tilesets are
// left untouched) with tiles cut from srcFile's grid, row-major, up to
// however many images fit or however many the tileset has, whichever is
// fewer. All tiles must already share one size (tileset.Entries()'s
// first image's dimensions); srcFile's dimensions must be an exact
// multiple of that tile size.
func PNGToTileset(tileset gamegraphics.Tileset, srcFile string) error {
	entries, err := tileset.Entries()
	if err != nil {
		return err
	}
	var images []gamegraphics.Image
	var tileDims gamegraphics.Point
	for _, e := range entries {
		if e.Kind != gamegraphics.EntryImage {
			continue
		}
		img, err := tileset.OpenImage(e.Handle, nil)
		if err != nil {
			return err
		}
		if tileDims.X == 0 && tileDims.Y == 0 {
			tileDims = img.Dims()
		}
		images = append(images, img)
	}
	if tileDims.X == 0 || tileDims.Y == 0 {
		return fmt.Errorf("tileset has no images to overwrite")
	}

	f, err := os.Open(srcFile)
	if err != nil {
		return err
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		return err
	}
	paletted, ok := decoded.(*stdimage.Paletted)
	if !ok {
		return fmt.Errorf("%s: not an indexed (palette) PNG", srcFile)
	}
	bounds := paletted.Bounds()
	pngW, pngH := bounds.Dx(), bounds.Dy()
	if pngW%int(tileDims.X) != 0 {
		return fmt.Errorf("image width %d is not a multiple of the tile width %d", pngW, tileDims.X)
	}
	if pngH%int(tileDims.Y) != 0 {
		return fmt.Errorf("image height %d is not a multiple of the tile height %d", pngH, tileDims.Y)
	}
	hasTransparency := false
	if len(paletted.Palette) > 0 {
		_, _, _, a := paletted.Palette[0].RGBA()
		hasTransparency = a != 0xffff
	}
	offset := 0
	if hasTransparency {
		offset = -1
	}

	tilesX := pngW / int(tileDims.X)
	tilesY := pngH / int(tileDims.Y)
	numTiles := tilesX * tilesY
	if numTiles > len(images) {
		numTiles = len(images)
	}

	for t := 0; t < numTiles; t++ {
		offX := (t % tilesX) * int(tileDims.X)
		offY := (t / tilesX) * int(tileDims.Y)
		pixels := make([]gamegraphics.Pixel, int(tileDims.X)*int(tileDims.Y))
		mask := make([]uint8, int(tileDims.X)*int(tileDims.Y))
		for y := 0; y < int(tileDims.Y); y++ {
			for x := 0; x < int(tileDims.X); x++ {
				idx := int(paletted.ColorIndexAt(bounds.Min.X+offX+x, bounds.Min.Y+offY+y))
				i := y*int(tileDims.X) + x
				if hasTransparency && idx == 0 {
					mask[i] = gamegraphics.MaskTransparent
				} else {
					pixels[i] = gamegraphics.Pixel(idx + offset)
				}
			}
		}
		if err := images[t].SetPixels(pixels, mask); err != nil {
			return err
		}
	}
	return nil
}
