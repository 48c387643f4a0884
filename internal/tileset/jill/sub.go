package jill

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/camoto-tools/gamegraphics"
)

// tileMeta is one tile's current dimensions. A tile's on-disk offset is
// never stored: it is always recomputed by walking every earlier tile's
// size, since insert/remove/resize change it for every later tile.
type tileMeta struct {
	handle        gamegraphics.Handle
	width, height int
}

// Sub is one occupied Root slot: a self-contained sprite sheet with its
// own colour-map indirection layer sitting in front of raw VGA pixels.
type Sub struct {
	root    *Root
	rootIdx int
	stream  *gamegraphics.SubStream

	colourMap []uint8
	tiles     []*tileMeta

	flags                  uint16
	bpp                    uint8
	rotCount               uint16
	lenCGA, lenEGA, lenVGA uint16

	headerEnd  int64 // offset where the first tile record begins
	nextHandle gamegraphics.Handle
}

func openSub(root *Root, rootIdx int, stream *gamegraphics.SubStream) (*Sub, error) {
	if _, err := stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return nil, err
	}
	hdr := make([]byte, subHeaderLen)
	if _, err := io.ReadFull(stream, hdr); err != nil {
		return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "jill", err)
	}
	imageCount := hdr[0]
	s := &Sub{
		root:     root,
		rootIdx:  rootIdx,
		stream:   stream,
		flags:    binary.LittleEndian.Uint16(hdr[10:12]),
		bpp:      hdr[9],
		rotCount: binary.LittleEndian.Uint16(hdr[1:3]),
		lenCGA:   binary.LittleEndian.Uint16(hdr[3:5]),
		lenEGA:   binary.LittleEndian.Uint16(hdr[5:7]),
		lenVGA:   binary.LittleEndian.Uint16(hdr[7:9]),
	}

	pos := int64(subHeaderLen)
	switch {
	case s.flags&flagFont != 0:
		n := 1 << s.bpp
		s.colourMap = identityColourMap(n)
	case s.bpp == 8:
		s.colourMap = identityColourMap(256)
	default:
		n := 1 << s.bpp
		raw := make([]byte, n*4)
		if _, err := stream.Seek(pos, gamegraphics.SeekStart); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(stream, raw); err != nil {
			return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "jill", err)
		}
		s.colourMap = make([]uint8, n)
		for i := 0; i < n; i++ {
			v := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
			s.colourMap[i] = uint8((v >> colourMapByteShift) & 0xFF)
		}
		pos += int64(n) * 4
	}
	s.headerEnd = pos

	off := pos
	for i := 0; i < int(imageCount); i++ {
		if _, err := stream.Seek(off, gamegraphics.SeekStart); err != nil {
			return nil, err
		}
		rec := make([]byte, tileHeaderLen)
		if _, err := io.ReadFull(stream, rec); err != nil {
			return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "jill", err)
		}
		w, h := int(rec[0]), int(rec[1])
		s.tiles = append(s.tiles, &tileMeta{handle: s.allocHandle(), width: w, height: h})
		off += int64(tileHeaderLen) + int64(w*h)
	}
	return s, nil
}

func identityColourMap(n int) []uint8 {
	m := make([]uint8, n)
	for i := range m {
		m[i] = uint8(i)
	}
	return m
}

func (s *Sub) allocHandle() gamegraphics.Handle {
	s.nextHandle++
	return s.nextHandle
}

func (s *Sub) indexOf(h gamegraphics.Handle) int {
	for i, t := range s.tiles {
		if t.handle == h {
			return i
		}
	}
	return -1
}

func (s *Sub) tileSize(t *tileMeta) int64 {
	return int64(tileHeaderLen) + int64(t.width*t.height)
}

// tileOffset returns tile idx's current byte offset within the
// sub-tileset stream, recomputed from every earlier tile's live size.
func (s *Sub) tileOffset(idx int) int64 {
	off := s.headerEnd
	for i := 0; i < idx; i++ {
		off += s.tileSize(s.tiles[i])
	}
	return off
}

func (s *Sub) colourMapLookup(raw uint8) uint8 {
	if int(raw) < len(s.colourMap) {
		return s.colourMap[raw]
	}
	return raw
}

func (s *Sub) Entries() ([]gamegraphics.Entry, error) {
	entries := make([]gamegraphics.Entry, len(s.tiles))
	off := s.headerEnd
	for i, t := range s.tiles {
		size := s.tileSize(t)
		entries[i] = gamegraphics.Entry{
			Handle:     t.handle,
			Kind:       gamegraphics.EntryImage,
			Index:      i,
			Offset:     off,
			StoredSize: size,
			RealSize:   size,
		}
		off += size
	}
	return entries, nil
}

func (s *Sub) EntryByHandle(h gamegraphics.Handle) (gamegraphics.Entry, error) {
	idx := s.indexOf(h)
	if idx < 0 {
		return gamegraphics.Entry{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "jill", nil)
	}
	entries, err := s.Entries()
	if err != nil {
		return gamegraphics.Entry{}, err
	}
	return entries[idx], nil
}

// OpenImage returns tile h. A tile whose stored dimensions are exactly
// 64x12 is reinterpreted as raw VGA palette data rather than pixels,
// mirroring the game engine loading that exact byte count straight into
// hardware palette registers.
func (s *Sub) OpenImage(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	idx := s.indexOf(h)
	if idx < 0 {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "jill", nil)
	}
	t := s.tiles[idx]
	if t.width == specialPaletteWidth && t.height == specialPaletteHeight {
		off := s.tileOffset(idx)
		if _, err := s.stream.Seek(off+int64(tileHeaderLen), gamegraphics.SeekStart); err != nil {
			return nil, err
		}
		raw := make([]byte, t.width*t.height)
		if _, err := io.ReadFull(s.stream, raw); err != nil {
			return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "jill", err)
		}
		pal, err := gamegraphics.LoadPalette(bytes.NewReader(raw), 256, paletteDepthBits)
		if err != nil {
			return nil, err
		}
		return &paletteTileImage{palette: pal}, nil
	}
	return &jillImage{sub: s, handle: h}, nil
}

func (s *Sub) OpenTileset(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return nil, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "jill", nil)
}

func (s *Sub) writeImageCount() error {
	if _, err := s.stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return err
	}
	_, err := s.stream.Write([]byte{uint8(len(s.tiles))})
	return err
}

// Insert adds a blank (0x0) tile at idx. Dimensions, and so its stored
// size, are set through the returned image's SetDims/SetPixels.
func (s *Sub) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	if kind != gamegraphics.EntryImage {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "jill", nil)
	}
	if len(s.tiles) >= maxTilesPerSub {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "jill", nil)
	}
	if idx < 0 || idx > len(s.tiles) {
		return 0, gamegraphics.NewError(gamegraphics.KindOutOfRange, "jill", nil)
	}
	off := s.tileOffset(idx)
	if err := s.stream.Insert(off, int64(tileHeaderLen)); err != nil {
		return 0, err
	}
	if _, err := s.stream.Seek(off, gamegraphics.SeekStart); err != nil {
		return 0, err
	}
	if _, err := s.stream.Write(make([]byte, tileHeaderLen)); err != nil {
		return 0, err
	}
	t := &tileMeta{handle: s.allocHandle()}
	s.tiles = append(s.tiles, nil)
	copy(s.tiles[idx+1:], s.tiles[idx:])
	s.tiles[idx] = t
	if err := s.writeImageCount(); err != nil {
		return 0, err
	}
	return t.handle, nil
}

func (s *Sub) Remove(h gamegraphics.Handle) error {
	idx := s.indexOf(h)
	if idx < 0 {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "jill", nil)
	}
	off := s.tileOffset(idx)
	size := s.tileSize(s.tiles[idx])
	if err := s.stream.Remove(off, size); err != nil {
		return err
	}
	s.tiles = append(s.tiles[:idx], s.tiles[idx+1:]...)
	return s.writeImageCount()
}

// Resize is unsupported directly: go through the tile Image's
// SetDims/SetPixels instead.
func (s *Sub) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "jill", nil)
}

func (s *Sub) Flush() error { return s.stream.Flush() }
