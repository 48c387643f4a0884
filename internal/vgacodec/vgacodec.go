// Package vgacodec implements the linear VGA image encoding: one byte
// per pixel, row-major, no padding, mask always fully opaque.
package vgacodec

import (
	"io"

	"github.com/camoto-tools/gamegraphics"
)

// Decode reads width*height bytes from r as a row-major pixel buffer.
// The returned mask is all-zero (fully opaque): linear VGA carries no
// transparency information of its own.
func Decode(r io.Reader, width, height int) ([]uint8, []uint8, error) {
	pixels := make([]uint8, width*height)
	if _, err := io.ReadFull(r, pixels); err != nil {
		return nil, nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "vgacodec", err)
	}
	return pixels, make([]uint8, width*height), nil
}

// Encode writes pixels to w verbatim. mask is accepted for symmetry with
// other codecs' Encode signatures but ignored: linear VGA cannot express
// transparency.
func Encode(w io.Writer, pixels, mask []uint8) error {
	if _, err := w.Write(pixels); err != nil {
		return gamegraphics.NewError(gamegraphics.KindIO, "vgacodec", err)
	}
	return nil
}
