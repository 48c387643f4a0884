package jill

import (
	"encoding/binary"
	"io"

	"github.com/camoto-tools/gamegraphics"
)

// slot is one of the 128 fixed directory entries: a byte offset and
// length into the file, or (0, 0) for Vacant. Slots never move or
// reorder; a handle is simply 1+its fixed index.
type slot struct {
	offset uint32
	length uint16
}

func (s slot) vacant() bool { return s.offset == 0 && s.length == 0 }

// Root is the Jill of the Jungle top-level container: a 128-slot
// directory, each occupied slot holding a nested Sub. Unlike ddave, the
// directory itself never grows or shrinks, so Root mutates the backing
// stream incrementally rather than rebuilding it at Flush.
type Root struct {
	outer   gamegraphics.Stream
	slots   [numSlots]slot
	palette gamegraphics.Palette

	paletteTried bool
}

func handleForSlot(idx int) gamegraphics.Handle { return gamegraphics.Handle(idx + 1) }
func slotForHandle(h gamegraphics.Handle) int   { return int(h) - 1 }

func readHeader(stream gamegraphics.Stream) ([numSlots]slot, error) {
	var slots [numSlots]slot
	if _, err := stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return slots, err
	}
	raw := make([]byte, headerTableSize)
	if _, err := io.ReadFull(stream, raw); err != nil {
		return slots, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "jill", err)
	}
	for i := 0; i < numSlots; i++ {
		slots[i].offset = binary.LittleEndian.Uint32(raw[4*i : 4*i+4])
		slots[i].length = binary.LittleEndian.Uint16(raw[lengthTableOffset+2*i : lengthTableOffset+2*i+2])
	}
	return slots, nil
}

func resolveSuppliedPalette(supp gamegraphics.SuppMap) (gamegraphics.Palette, error) {
	ps, ok := supp[gamegraphics.SuppPalette]
	if !ok {
		return nil, nil
	}
	return gamegraphics.LoadPalette(ps, 256, paletteDepthBits)
}

// Open parses an existing Jill of the Jungle directory.
func Open(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (*Root, error) {
	slots, err := readHeader(stream)
	if err != nil {
		return nil, err
	}
	pal, err := resolveSuppliedPalette(supp)
	if err != nil {
		return nil, err
	}
	return &Root{outer: stream, slots: slots, palette: pal}, nil
}

// Create returns a new, empty 128-slot Jill of the Jungle directory.
func Create(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (*Root, error) {
	pal, err := resolveSuppliedPalette(supp)
	if err != nil {
		return nil, err
	}
	if err := stream.Truncate(headerTableSize); err != nil {
		return nil, err
	}
	return &Root{outer: stream, palette: pal}, nil
}

func (r *Root) persistOffset(idx int) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], r.slots[idx].offset)
	if _, err := r.outer.Seek(int64(4*idx), gamegraphics.SeekStart); err != nil {
		return err
	}
	_, err := r.outer.Write(b[:])
	return err
}

func (r *Root) persistLength(idx int) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], r.slots[idx].length)
	if _, err := r.outer.Seek(int64(lengthTableOffset+2*idx), gamegraphics.SeekStart); err != nil {
		return err
	}
	_, err := r.outer.Write(b[:])
	return err
}

// Entries implements gamegraphics.Tileset.
func (r *Root) Entries() ([]gamegraphics.Entry, error) {
	entries := make([]gamegraphics.Entry, numSlots)
	for i, s := range r.slots {
		kind := gamegraphics.EntryFolder
		if s.vacant() {
			kind = gamegraphics.EntryVacant
		}
		entries[i] = gamegraphics.Entry{
			Handle:     handleForSlot(i),
			Kind:       kind,
			Index:      i,
			Offset:     int64(s.offset),
			StoredSize: int64(s.length),
			RealSize:   int64(s.length),
		}
	}
	return entries, nil
}

func (r *Root) EntryByHandle(h gamegraphics.Handle) (gamegraphics.Entry, error) {
	idx := slotForHandle(h)
	if idx < 0 || idx >= numSlots {
		return gamegraphics.Entry{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "jill", nil)
	}
	entries, err := r.Entries()
	if err != nil {
		return gamegraphics.Entry{}, err
	}
	return entries[idx], nil
}

// OpenImage always fails: Root's entries are sub-tilesets, never images.
func (r *Root) OpenImage(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	return nil, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "jill", nil)
}

func (r *Root) OpenTileset(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	idx := slotForHandle(h)
	if idx < 0 || idx >= numSlots {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "jill", nil)
	}
	return r.openSubAt(idx)
}

func (r *Root) openSubAt(idx int) (*Sub, error) {
	s := r.slots[idx]
	if s.vacant() {
		return nil, gamegraphics.NewError(gamegraphics.KindFormatViolation, "jill", nil)
	}
	sub := gamegraphics.NewSubStream(r.outer, int64(s.offset), int64(s.length), r.resizeCallback(idx))
	return openSub(r, idx, sub)
}

// resizeCallback is invoked by a sub-tileset's SubStream after it has
// already grown or shrunk the backing file: it shifts every later slot's
// recorded offset by the same delta and persists the change, matching
// the physical byte movement the SubStream/parent Insert/Remove already
// performed.
func (r *Root) resizeCallback(idx int) gamegraphics.ResizeCallback {
	return func(newLength int64) error {
		return r.growSlot(idx, newLength)
	}
}

func (r *Root) growSlot(idx int, newLength int64) error {
	old := r.slots[idx]
	delta := newLength - int64(old.length)
	oldEnd := int64(old.offset) + int64(old.length)
	for j := 0; j < numSlots; j++ {
		if j == idx || r.slots[j].vacant() {
			continue
		}
		if int64(r.slots[j].offset) >= oldEnd {
			r.slots[j].offset = uint32(int64(r.slots[j].offset) + delta)
			if err := r.persistOffset(j); err != nil {
				return err
			}
		}
	}
	r.slots[idx].length = uint16(newLength)
	return r.persistLength(idx)
}

// Insert occupies slot idx with a new, empty sub-tileset. Unlike most
// container formats, idx addresses a fixed directory slot directly
// rather than a shift-insert position: the on-disk directory always has
// exactly 128 slots, so there is no room to insert a 129th.
func (r *Root) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	if kind != gamegraphics.EntryFolder {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "jill", nil)
	}
	if idx < 0 || idx >= numSlots {
		return 0, gamegraphics.NewError(gamegraphics.KindOutOfRange, "jill", nil)
	}
	if !r.slots[idx].vacant() {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "jill", nil)
	}
	size, err := r.outer.Size()
	if err != nil {
		return 0, err
	}
	if err := r.outer.Insert(size, subHeaderLen); err != nil {
		return 0, err
	}
	header := make([]byte, subHeaderLen)
	header[9] = 0 // colour_map_bpp: none
	binary.LittleEndian.PutUint16(header[10:12], flagFont) // no colour map to read back
	if _, err := r.outer.Seek(size, gamegraphics.SeekStart); err != nil {
		return 0, err
	}
	if _, err := r.outer.Write(header); err != nil {
		return 0, err
	}
	r.slots[idx] = slot{offset: uint32(size), length: subHeaderLen}
	if err := r.persistOffset(idx); err != nil {
		return 0, err
	}
	if err := r.persistLength(idx); err != nil {
		return 0, err
	}
	return handleForSlot(idx), nil
}

func (r *Root) Remove(h gamegraphics.Handle) error {
	idx := slotForHandle(h)
	if idx < 0 || idx >= numSlots || r.slots[idx].vacant() {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "jill", nil)
	}
	s := r.slots[idx]
	if err := r.outer.Remove(int64(s.offset), int64(s.length)); err != nil {
		return err
	}
	oldEnd := int64(s.offset) + int64(s.length)
	for j := 0; j < numSlots; j++ {
		if j == idx || r.slots[j].vacant() {
			continue
		}
		if int64(r.slots[j].offset) >= oldEnd {
			r.slots[j].offset -= uint32(s.length)
			if err := r.persistOffset(j); err != nil {
				return err
			}
		}
	}
	r.slots[idx] = slot{}
	if err := r.persistOffset(idx); err != nil {
		return err
	}
	return r.persistLength(idx)
}

// Resize is unsupported directly: a sub-tileset's total length changes
// as a side effect of inserting/removing/resizing its own tiles.
func (r *Root) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "jill", nil)
}

func (r *Root) Flush() error { return r.outer.Flush() }

// resolvedPalette lazily adopts its container-wide palette from
// sub-tileset 5's first image, the same mechanism by which the game
// itself ships palette data in a tileset slot rather than as a separate
// file: the first tile of that slot, when its dimensions are exactly
// 64x12, is reinterpreted as a raw palette rather than pixel data.
func (r *Root) resolvedPalette() gamegraphics.Palette {
	if r.palette != nil || r.paletteTried {
		return r.palette
	}
	r.paletteTried = true
	if r.slots[paletteSubTilesetIndex].vacant() {
		return nil
	}
	sub, err := r.openSubAt(paletteSubTilesetIndex)
	if err != nil {
		return nil
	}
	entries, err := sub.Entries()
	if err != nil || len(entries) == 0 {
		return nil
	}
	img, err := sub.OpenImage(entries[0].Handle, nil)
	if err != nil {
		return nil
	}
	if !img.Caps().Has(gamegraphics.CapHasPalette) {
		return nil
	}
	r.palette = img.Palette()
	return r.palette
}

// probe reports confidence that stream holds a Jill of the Jungle
// directory: every occupied slot's offset+length must fit inside the
// stream; a directory with no occupied slot is reported as Unsure.
func probe(stream gamegraphics.Stream) (gamegraphics.ProbeResult, error) {
	size, err := stream.Size()
	if err != nil || size < headerTableSize {
		return gamegraphics.DefinitelyNo, nil
	}
	slots, err := readHeader(stream)
	if err != nil {
		return gamegraphics.DefinitelyNo, nil
	}
	occupied := 0
	for _, s := range slots {
		if s.vacant() {
			continue
		}
		occupied++
		if int64(s.offset)+int64(s.length) > size {
			return gamegraphics.DefinitelyNo, nil
		}
	}
	if occupied == 0 {
		return gamegraphics.Unsure, nil
	}
	return gamegraphics.PossiblyYes, nil
}

type tilesetType struct{}

func (tilesetType) Code() string         { return "tls-jill" }
func (tilesetType) Name() string         { return "Jill of the Jungle tileset" }
func (tilesetType) Extensions() []string { return []string{"dat"} }
func (tilesetType) Games() []string      { return []string{"Jill of the Jungle"} }

func (tilesetType) RequiredSupps(string) []gamegraphics.SuppItem { return nil }

func (tilesetType) Probe(stream gamegraphics.Stream) (gamegraphics.ProbeResult, error) {
	return probe(stream)
}

func (tilesetType) Open(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return Open(stream, supp)
}

func (tilesetType) Create(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return Create(stream, supp)
}

func init() {
	gamegraphics.RegisterTilesetType(tilesetType{})
}
