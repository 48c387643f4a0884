package ccaves

import (
	"bytes"
	"io"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/planarcodec"
)

// Sub is a Crystal Caves sub-tileset: a header-less sequence of
// fixed-size byte-planar EGA tiles sharing one width/height. Tiles carry
// no individual on-disk FAT record, so Sub maintains offsets itself
// rather than through tilesetfat.Tileset.
type Sub struct {
	root    *Root
	rootIdx int // this sub-tileset's index within root.eng.Entries
	stream  *gamegraphics.SubStream
	tiles   []gamegraphics.Entry
}

func newSub(root *Root, rootIdx int, stream *gamegraphics.SubStream) *Sub {
	h := root.headers[rootIdx]
	tileSize := int64(h.widthBytes) * int64(h.heightRows) * planeCount
	tiles := make([]gamegraphics.Entry, h.count)
	for i := range tiles {
		tiles[i] = gamegraphics.Entry{
			Handle:     gamegraphics.Handle(i + 1),
			Kind:       gamegraphics.EntryImage,
			Index:      i,
			Offset:     int64(i) * tileSize,
			StoredSize: tileSize,
			RealSize:   tileSize,
		}
	}
	return &Sub{root: root, rootIdx: rootIdx, stream: stream, tiles: tiles}
}

func (s *Sub) header() subHeader { return s.root.headers[s.rootIdx] }

func (s *Sub) tileSize() int64 {
	h := s.header()
	return int64(h.widthBytes) * int64(h.heightRows) * planeCount
}

func (s *Sub) Entries() ([]gamegraphics.Entry, error) { return s.tiles, nil }

func (s *Sub) indexOf(h gamegraphics.Handle) int {
	for i, e := range s.tiles {
		if e.Handle == h {
			return i
		}
	}
	return -1
}

func (s *Sub) EntryByHandle(h gamegraphics.Handle) (gamegraphics.Entry, error) {
	i := s.indexOf(h)
	if i < 0 {
		return gamegraphics.Entry{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "ccaves", nil)
	}
	return s.tiles[i], nil
}

func (s *Sub) OpenImage(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	i := s.indexOf(h)
	if i < 0 {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "ccaves", nil)
	}
	hdr := s.header()
	return &tileImage{
		sub:    s,
		offset: s.tiles[i].Offset,
		width:  int(hdr.widthBytes) * 8,
		height: int(hdr.heightRows),
	}, nil
}

func (s *Sub) OpenTileset(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return nil, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ccaves", nil)
}

// Insert adds a new tile at idx, incrementing the sub-tileset's on-disk
// tile_count byte. Overflowing 255 tiles is a hard error.
func (s *Sub) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	if kind != gamegraphics.EntryImage {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ccaves", nil)
	}
	hdr := s.header()
	if int(hdr.count) >= maxTiles {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ccaves", nil)
	}
	if idx < 0 || idx > len(s.tiles) {
		return 0, gamegraphics.NewError(gamegraphics.KindOutOfRange, "ccaves", nil)
	}
	tileSize := s.tileSize()
	var offset int64
	if idx < len(s.tiles) {
		offset = s.tiles[idx].Offset
	} else if len(s.tiles) > 0 {
		last := s.tiles[len(s.tiles)-1]
		offset = last.Offset + last.StoredSize
	}
	if err := s.stream.Insert(offset, tileSize); err != nil {
		return 0, err
	}
	// Every tile at or after the insertion point, including whichever
	// one currently occupies idx, shifts right by tileSize.
	for i := range s.tiles {
		if s.tiles[i].Offset >= offset {
			s.tiles[i].Offset += tileSize
		}
	}
	newHandle := gamegraphics.Handle(1)
	for _, tile := range s.tiles {
		if tile.Handle >= newHandle {
			newHandle = tile.Handle + 1
		}
	}
	e := gamegraphics.Entry{Handle: newHandle, Kind: gamegraphics.EntryImage, Index: idx, Offset: offset, StoredSize: tileSize, RealSize: tileSize}
	s.tiles = append(s.tiles, gamegraphics.Entry{})
	copy(s.tiles[idx+1:], s.tiles[idx:])
	s.tiles[idx] = e
	for i := range s.tiles {
		s.tiles[i].Index = i
	}

	hdr.count++
	s.root.headers[s.rootIdx] = hdr
	if err := s.root.writeHeader(s.rootIdx); err != nil {
		return 0, err
	}
	// s.stream.Insert above already grew the sub-tileset's root FAT
	// entry (StoredSize) and shifted sibling offsets via the onResize
	// callback wired in OpenEntryStream.
	return newHandle, nil
}

func (s *Sub) Remove(h gamegraphics.Handle) error {
	idx := s.indexOf(h)
	if idx < 0 {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "ccaves", nil)
	}
	tileSize := s.tileSize()
	offset := s.tiles[idx].Offset
	if err := s.stream.Remove(offset, tileSize); err != nil {
		return err
	}
	for i := range s.tiles {
		if s.tiles[i].Offset > offset {
			s.tiles[i].Offset -= tileSize
		}
	}
	s.tiles = append(s.tiles[:idx], s.tiles[idx+1:]...)
	for i := range s.tiles {
		s.tiles[i].Index = i
	}

	hdr := s.header()
	hdr.count--
	s.root.headers[s.rootIdx] = hdr
	// s.stream.Remove above already shrank the sub-tileset's root FAT
	// entry and shifted sibling offsets via the onResize callback.
	return s.root.writeHeader(s.rootIdx)
}

func (s *Sub) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ccaves", nil)
}

func (s *Sub) Flush() error { return s.stream.Flush() }

// tileImage is a fixed-size byte-planar EGA image scoped to one tile's
// offset within its sub-tileset's stream.
type tileImage struct {
	sub           *Sub
	offset        int64
	width, height int
}

func (img *tileImage) Dims() gamegraphics.Point {
	return gamegraphics.Point{X: uint(img.width), Y: uint(img.height)}
}

func (img *tileImage) SetDims(gamegraphics.Point) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ccaves", nil)
}

func (img *tileImage) Caps() gamegraphics.Cap { return 0 }

func (img *tileImage) Palette() gamegraphics.Palette { return gamegraphics.DefaultPalette(gamegraphics.EGA) }

func (img *tileImage) SetPalette(gamegraphics.Palette) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ccaves", nil)
}

func (img *tileImage) raw() ([]byte, error) {
	size := img.sub.tileSize()
	if _, err := img.sub.stream.Seek(img.offset, gamegraphics.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(img.sub.stream, buf); err != nil {
		return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "ccaves", err)
	}
	return buf, nil
}

func (img *tileImage) Pixels() ([]gamegraphics.Pixel, error) {
	raw, err := img.raw()
	if err != nil {
		return nil, err
	}
	pixels, _, err := planarcodec.DecodeByte(bytes.NewReader(raw), tileDesc, img.width, img.height)
	return pixels, err
}

func (img *tileImage) Mask() ([]uint8, error) {
	raw, err := img.raw()
	if err != nil {
		return nil, err
	}
	_, mask, err := planarcodec.DecodeByte(bytes.NewReader(raw), tileDesc, img.width, img.height)
	return mask, err
}

func (img *tileImage) SetPixels(pixels []gamegraphics.Pixel, mask []uint8) error {
	buf := &bytes.Buffer{}
	if mask == nil {
		mask = make([]uint8, img.width*img.height)
	}
	if err := planarcodec.EncodeByte(buf, tileDesc, img.width, img.height, pixels, mask); err != nil {
		return err
	}
	if _, err := img.sub.stream.Seek(img.offset, gamegraphics.SeekStart); err != nil {
		return err
	}
	if _, err := img.sub.stream.Write(buf.Bytes()); err != nil {
		return gamegraphics.NewError(gamegraphics.KindIO, "ccaves", err)
	}
	return nil
}
