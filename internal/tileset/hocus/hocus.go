package hocus

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/camoto-tools/gamegraphics"
)

// tileRecord is one tile's on-disk payload: always exactly tileBytes
// long, since every Hocus Pocus tile is a fixed 8x8 VGA image.
type tileRecord struct {
	handle  gamegraphics.Handle
	payload []byte
}

// Root is the Hocus Pocus tileset: every mutation operates on an
// in-memory record list and the whole file is rebuilt at Flush, since
// offsets are never stored on disk and so have nothing to patch in
// place.
type Root struct {
	outer      gamegraphics.Stream
	palette    gamegraphics.Palette
	records    []*tileRecord
	nextHandle gamegraphics.Handle
}

func (r *Root) allocHandle() gamegraphics.Handle {
	r.nextHandle++
	return r.nextHandle
}

func (r *Root) indexOf(h gamegraphics.Handle) int {
	for i, rec := range r.records {
		if rec.handle == h {
			return i
		}
	}
	return -1
}

// resolvePalette loads the optional palette supp, falling back to the
// standard VGA default when none is given: unlike Dangerous Dave, Harry
// ties no single known palette source to this format, so nothing is
// required up front.
func resolvePalette(supp gamegraphics.SuppMap) (gamegraphics.Palette, error) {
	ps, ok := supp[gamegraphics.SuppPalette]
	if !ok {
		return gamegraphics.DefaultPalette(gamegraphics.VGA), nil
	}
	return gamegraphics.LoadPalette(ps, 256, 8)
}

// Open parses an existing Hocus Pocus tileset file.
func Open(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (*Root, error) {
	size, err := stream.Size()
	if err != nil {
		return nil, err
	}
	if size < headerSize {
		return nil, gamegraphics.NewError(gamegraphics.KindFormatViolation, "hocus", nil)
	}
	if _, err := stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return nil, err
	}
	raw := make([]byte, size)
	if _, err := io.ReadFull(stream, raw); err != nil {
		return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "hocus", err)
	}
	count := binary.LittleEndian.Uint32(raw[0:4])
	want := int64(headerSize) + int64(count)*tileBytes
	if want > size {
		return nil, gamegraphics.NewError(gamegraphics.KindFormatViolation, "hocus", nil)
	}

	pal, err := resolvePalette(supp)
	if err != nil {
		return nil, err
	}

	r := &Root{outer: stream, palette: pal}
	for i := uint32(0); i < count; i++ {
		off := int64(headerSize) + int64(i)*tileBytes
		rec := &tileRecord{
			handle:  r.allocHandle(),
			payload: append([]byte(nil), raw[off:off+tileBytes]...),
		}
		r.records = append(r.records, rec)
	}
	return r, nil
}

// Create returns a new, empty Hocus Pocus tileset, writing out the
// zero-count header immediately.
func Create(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (*Root, error) {
	pal, err := resolvePalette(supp)
	if err != nil {
		return nil, err
	}
	r := &Root{outer: stream, palette: pal}
	if err := r.Flush(); err != nil {
		return nil, err
	}
	return r, nil
}

// probe reports confidence that stream holds a Hocus Pocus tileset: the
// header must be present, its reserved bytes must be zero, and its
// count must exactly account for every remaining byte as whole 8x8
// tiles.
func probe(stream gamegraphics.Stream) (gamegraphics.ProbeResult, error) {
	size, err := stream.Size()
	if err != nil || size < headerSize {
		return gamegraphics.DefinitelyNo, nil
	}
	if _, err := stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return gamegraphics.DefinitelyNo, nil
	}
	var hdr [headerSize]byte
	if _, err := io.ReadFull(stream, hdr[:]); err != nil {
		return gamegraphics.DefinitelyNo, nil
	}
	count := binary.LittleEndian.Uint32(hdr[0:4])
	want := int64(headerSize) + int64(count)*tileBytes
	if want != size {
		return gamegraphics.DefinitelyNo, nil
	}
	for _, b := range hdr[4:] {
		if b != 0 {
			return gamegraphics.DefinitelyNo, nil
		}
	}
	if count == 0 {
		return gamegraphics.Unsure, nil
	}
	return gamegraphics.PossiblyYes, nil
}

func (r *Root) Entries() ([]gamegraphics.Entry, error) {
	entries := make([]gamegraphics.Entry, len(r.records))
	for i, rec := range r.records {
		entries[i] = gamegraphics.Entry{
			Handle:     rec.handle,
			Kind:       gamegraphics.EntryImage,
			Index:      i,
			Offset:     int64(headerSize + i*tileBytes),
			StoredSize: tileBytes,
			RealSize:   tileBytes,
		}
	}
	return entries, nil
}

func (r *Root) EntryByHandle(h gamegraphics.Handle) (gamegraphics.Entry, error) {
	entries, err := r.Entries()
	if err != nil {
		return gamegraphics.Entry{}, err
	}
	idx := r.indexOf(h)
	if idx < 0 {
		return gamegraphics.Entry{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "hocus", nil)
	}
	return entries[idx], nil
}

func (r *Root) OpenImage(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	if r.indexOf(h) < 0 {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "hocus", nil)
	}
	return &tileImage{root: r, handle: h}, nil
}

func (r *Root) OpenTileset(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return nil, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "hocus", nil)
}

// Insert adds a blank, all-zero 8x8 tile at idx.
func (r *Root) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	if kind != gamegraphics.EntryImage {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "hocus", nil)
	}
	if idx < 0 || idx > len(r.records) {
		return 0, gamegraphics.NewError(gamegraphics.KindOutOfRange, "hocus", nil)
	}
	rec := &tileRecord{handle: r.allocHandle(), payload: make([]byte, tileBytes)}
	r.records = append(r.records, nil)
	copy(r.records[idx+1:], r.records[idx:])
	r.records[idx] = rec
	return rec.handle, nil
}

func (r *Root) Remove(h gamegraphics.Handle) error {
	idx := r.indexOf(h)
	if idx < 0 {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "hocus", nil)
	}
	r.records = append(r.records[:idx], r.records[idx+1:]...)
	return nil
}

// Resize is unsupported: every tile is a fixed 64-byte 8x8 record, so
// there is no independent stored size to change.
func (r *Root) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "hocus", nil)
}

// Flush rewrites the whole file: the 128-byte header (count plus
// zeroed reserved bytes) followed by every tile's 64-byte body.
func (r *Root) Flush() error {
	body := &bytes.Buffer{}
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(r.records)))
	body.Write(hdr[:])
	for _, rec := range r.records {
		body.Write(rec.payload)
	}

	if err := r.outer.Truncate(0); err != nil {
		return err
	}
	if _, err := r.outer.Seek(0, gamegraphics.SeekStart); err != nil {
		return err
	}
	if _, err := r.outer.Write(body.Bytes()); err != nil {
		return gamegraphics.NewError(gamegraphics.KindIO, "hocus", err)
	}
	return r.outer.Flush()
}

type tilesetType struct{}

func (tilesetType) Code() string         { return "tls-hocus-8x8" }
func (tilesetType) Name() string         { return "Harry's Hocus Pocus icon tileset" }
func (tilesetType) Extensions() []string { return []string{"ico"} }
func (tilesetType) Games() []string {
	return []string{"Alien Carnage", "Halloween Harry", "Hocus Pocus"}
}

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
