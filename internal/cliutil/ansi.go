package cliutil

import (
	"fmt"
	"io"

	"github.com/camoto-tools/gamegraphics"
)

// ImageToANSI renders img as ANSI-coloured background blocks on w, one
// pair of spaces per pixel, row by row. Bit 3 of the pixel value drives
// bold/intensity, the mask's transparent bit toggles reverse-video off,
// and the low three bits select one of the eight ANSI background
// colours in the same bit order the VGA/EGA palette uses. Mirrors
// imageToANSI in common.hpp.
func ImageToANSI(w io.Writer, img gamegraphics.Image) error {
	dims := img.Dims()
	pixels, err := img.Pixels()
	if err != nil {
		return err
	}
	mask, err := img.Mask()
	if err != nil {
		return err
	}

	fmt.Fprint(w, "\x1B[0;7m")
	bright, xp := false, false
	pos := 0
	for y := 0; y < int(dims.Y); y++ {
		if y > 0 {
			fmt.Fprint(w, "\n")
		}
		for x := 0; x < int(dims.X); x++ {
			pixel, maskPixel := pixels[pos], mask[pos]
			pos++

			fmt.Fprint(w, "\x1B[")
			if pixel&0x08 != 0 {
				if !bright {
					fmt.Fprint(w, "1;")
					bright = true
				}
			} else if bright {
				fmt.Fprint(w, "22;")
				bright = false
			}
			if maskPixel&gamegraphics.MaskTransparent != 0 {
				if !xp {
					fmt.Fprint(w, "27;")
					xp = true
				}
			} else if xp {
				fmt.Fprint(w, "7;")
				xp = false
			}
			ansiColour := 30 + (((pixel & 0x01) << 2) | (pixel & 0x02) | ((pixel & 0x04) >> 2))
			fmt.Fprintf(w, "%dm  ", ansiColour)
		}
	}
	fmt.Fprint(w, "\x1B[0m\n")
	return nil
}
