// Package pcxcodec implements the PCX image format: a 128-byte header,
// a plane count and bits-per-plane that together select one of three
// registered variants (1bpp/4-plane EGA, 8bpp/1-plane VGA compressed or
// uncompressed), an RLE-compressed (or raw) scanline body, and an
// optional 16- or 256-colour palette.
package pcxcodec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/camoto-tools/gamegraphics"
)

const (
	headerSize = 128
	vgaPalSize = 1 + 256*3 // marker byte + 256 RGB triples
	vgaPalMark = 0x0C
	pcxMagic   = 0x0A
)

// header mirrors the on-disk 128-byte PCX header.
type header struct {
	Version      byte
	Encoding     byte // 1 = RLE, 0 = uncompressed
	BitsPerPlane byte
	XMin, YMin   uint16
	XMax, YMax   uint16
	HDPI, VDPI   uint16
	EGAPalette   gamegraphics.Palette // 16 entries, from the 48-byte header field
	PlaneCount   byte
	BytesPerLine uint16
	PaletteInfo  uint16
	HScrSize     uint16
	VScrSize     uint16
}

func (h header) width() int  { return int(h.XMax) - int(h.XMin) + 1 }
func (h header) height() int { return int(h.YMax) - int(h.YMin) + 1 }

func readHeader(r io.Reader) (header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return header{}, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "pcxcodec", err)
	}
	if buf[0] != pcxMagic {
		return header{}, gamegraphics.NewError(gamegraphics.KindFormatViolation, "pcxcodec", nil)
	}
	var h header
	h.Version = buf[1]
	h.Encoding = buf[2]
	h.BitsPerPlane = buf[3]
	h.XMin = binary.LittleEndian.Uint16(buf[4:6])
	h.YMin = binary.LittleEndian.Uint16(buf[6:8])
	h.XMax = binary.LittleEndian.Uint16(buf[8:10])
	h.YMax = binary.LittleEndian.Uint16(buf[10:12])
	h.HDPI = binary.LittleEndian.Uint16(buf[12:14])
	h.VDPI = binary.LittleEndian.Uint16(buf[14:16])
	pal, err := gamegraphics.LoadPalette(bytes.NewReader(buf[16:64]), 16, 8)
	if err != nil {
		return header{}, err
	}
	h.EGAPalette = pal
	h.PlaneCount = buf[65]
	h.BytesPerLine = binary.LittleEndian.Uint16(buf[66:68])
	h.PaletteInfo = binary.LittleEndian.Uint16(buf[68:70])
	h.HScrSize = binary.LittleEndian.Uint16(buf[70:72])
	h.VScrSize = binary.LittleEndian.Uint16(buf[72:74])
	return h, nil
}

func (h header) write(w io.Writer) error {
	buf := make([]byte, headerSize)
	buf[0] = pcxMagic
	buf[1] = h.Version
	buf[2] = h.Encoding
	buf[3] = h.BitsPerPlane
	binary.LittleEndian.PutUint16(buf[4:6], h.XMin)
	binary.LittleEndian.PutUint16(buf[6:8], h.YMin)
	binary.LittleEndian.PutUint16(buf[8:10], h.XMax)
	binary.LittleEndian.PutUint16(buf[10:12], h.YMax)
	binary.LittleEndian.PutUint16(buf[12:14], h.HDPI)
	binary.LittleEndian.PutUint16(buf[14:16], h.VDPI)
	palBuf := &bytes.Buffer{}
	pal := h.EGAPalette
	for len(pal) < 16 {
		pal = append(pal, gamegraphics.Colour{})
	}
	if err := gamegraphics.WritePalette(palBuf, pal[:16], 8); err != nil {
		return err
	}
	copy(buf[16:64], palBuf.Bytes())
	buf[65] = h.PlaneCount
	binary.LittleEndian.PutUint16(buf[66:68], h.BytesPerLine)
	binary.LittleEndian.PutUint16(buf[68:70], h.PaletteInfo)
	binary.LittleEndian.PutUint16(buf[70:72], h.HScrSize)
	binary.LittleEndian.PutUint16(buf[72:74], h.VScrSize)
	if _, err := w.Write(buf); err != nil {
		return gamegraphics.NewError(gamegraphics.KindIO, "pcxcodec", err)
	}
	return nil
}

// probeVersion reports whether v is one of the four PCX versions this
// codec recognises.
func probeVersion(v byte) bool {
	switch v {
	case 0, 2, 3, 5:
		return true
	default:
		return false
	}
}
