// Package ccaves implements the Crystal Caves two-level tileset
// container (spec.md §4.6.2): a flat file of sub-tilesets, each a
// 3-byte header (tile_count, width_bytes, height_rows) followed by that
// many byte-planar EGA tiles (mask + 4 colour planes).
//
// Secret Agent reuses the same layout with a fixed block of trailing
// padding after every sub-tileset's body; OpenPadded parameterises that.
package ccaves

import (
	"io"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/planarcodec"
	"github.com/camoto-tools/gamegraphics/internal/tilesetfat"
)

const (
	subHeaderLen = 3
	planeCount   = 5
	maxTiles     = 255
)

// tileDesc is the 5-plane order: mask (opaque), blue, green, red,
// intensity.
var tileDesc = planarcodec.Desc{
	planarcodec.Opaque1, planarcodec.Blue1, planarcodec.Green1, planarcodec.Red1, planarcodec.Intensity1,
	planarcodec.Unused,
}

// subHeader is one sub-tileset's 3-byte on-disk header.
type subHeader struct {
	count      uint8
	widthBytes uint8
	heightRows uint8
}

func (h subHeader) bodySize() int64 {
	return int64(h.count) * int64(h.widthBytes) * int64(h.heightRows) * planeCount
}

// Root is the top-level tileset of sub-tilesets.
type Root struct {
	eng      *tilesetfat.Tileset
	headers  []subHeader
	padBlock int64 // 0 if no Secret Agent padding
}

// Open parses an existing Crystal Caves file.
func Open(stream gamegraphics.Stream) (*Root, error) {
	return open(stream, 0)
}

// OpenPadded parses a Secret Agent-style file, where every sub-tileset's
// body is followed by padBlockSize-3-bodySize bytes of trailing padding.
func OpenPadded(stream gamegraphics.Stream, padBlockSize int64) (*Root, error) {
	return open(stream, padBlockSize)
}

func open(stream gamegraphics.Stream, padBlock int64) (*Root, error) {
	size, err := stream.Size()
	if err != nil {
		return nil, err
	}
	var entries []gamegraphics.Entry
	var headers []subHeader
	var pos int64
	for pos < size {
		if _, err := stream.Seek(pos, gamegraphics.SeekStart); err != nil {
			return nil, err
		}
		buf := make([]byte, subHeaderLen)
		if _, err := io.ReadFull(stream, buf); err != nil {
			return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "ccaves", err)
		}
		h := subHeader{count: buf[0], widthBytes: buf[1], heightRows: buf[2]}
		bodySize := h.bodySize()
		stored := subHeaderLen + bodySize
		if padBlock > 0 {
			stored = padBlock
		}
		entries = append(entries, gamegraphics.Entry{
			Kind:       gamegraphics.EntryFolder,
			Offset:     pos,
			StoredSize: stored,
			RealSize:   bodySize,
		})
		headers = append(headers, h)
		pos += stored
	}

	r := &Root{headers: headers, padBlock: padBlock}
	r.eng = tilesetfat.NewTileset(stream, rootHooks{r}, entries)
	return r, nil
}

func (r *Root) Entries() ([]gamegraphics.Entry, error) { return r.eng.Entries, nil }

func (r *Root) EntryByHandle(h gamegraphics.Handle) (gamegraphics.Entry, error) {
	return r.eng.EntryByHandle(h)
}

func (r *Root) OpenImage(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	return nil, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ccaves", nil)
}

func (r *Root) OpenTileset(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	idx := r.eng.IndexOf(h)
	if idx < 0 {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "ccaves", nil)
	}
	sub, err := r.eng.OpenEntryStream(h, subHeaderLen)
	if err != nil {
		return nil, err
	}
	return newSub(r, idx, sub), nil
}

func (r *Root) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	if kind != gamegraphics.EntryFolder {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ccaves", nil)
	}
	h, err := r.eng.Insert(idx, kind)
	if err != nil {
		return 0, err
	}
	hdr := subHeader{count: 0, widthBytes: 1, heightRows: 8}
	r.headers = append(r.headers, subHeader{})
	copy(r.headers[idx+1:], r.headers[idx:])
	r.headers[idx] = hdr
	if err := r.writeHeader(idx); err != nil {
		return 0, err
	}
	return h, nil
}

func (r *Root) Remove(h gamegraphics.Handle) error {
	idx := r.eng.IndexOf(h)
	if idx < 0 {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "ccaves", nil)
	}
	if err := r.eng.Remove(h); err != nil {
		return err
	}
	r.headers = append(r.headers[:idx], r.headers[idx+1:]...)
	return nil
}

func (r *Root) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	return r.eng.Resize(h, newStoredSize)
}

func (r *Root) Flush() error { return r.eng.Flush() }

func (r *Root) writeHeader(idx int) error {
	h := r.headers[idx]
	offset := r.eng.Entries[idx].Offset
	if _, err := r.eng.Stream.Seek(offset, gamegraphics.SeekStart); err != nil {
		return err
	}
	_, err := r.eng.Stream.Write([]byte{h.count, h.widthBytes, h.heightRows})
	if err != nil {
		return gamegraphics.NewError(gamegraphics.KindIO, "ccaves", err)
	}
	return nil
}

// rootHooks implements tilesetfat.Hooks for the root (sub-tileset) level.
type rootHooks struct{ r *Root }

func (h rootHooks) PreInsert(idx int, e *gamegraphics.Entry) error {
	e.StoredSize = subHeaderLen
	if h.r.padBlock > 0 {
		e.StoredSize = h.r.padBlock
	}
	return nil
}

func (h rootHooks) PostInsert(idx int, e gamegraphics.Entry) error { return nil }
func (h rootHooks) PreRemove(idx int, e gamegraphics.Entry) error  { return nil }
func (h rootHooks) PostRemove(idx int) error                       { return nil }

func (h rootHooks) UpdateFileOffset(idx int, newOffset int64) error {
	h.r.eng.Entries[idx].Offset = newOffset
	return nil
}

func (h rootHooks) UpdateFileSize(idx int, newStoredSize int64) error {
	return nil
}

func init() {
	gamegraphics.RegisterTilesetType(&tilesetType{})
}

type tilesetType struct{}

func (t *tilesetType) Code() string              { return "tls-ccaves" }
func (t *tilesetType) Name() string              { return "Crystal Caves tileset" }
func (t *tilesetType) Extensions() []string      { return []string{"ccz", "cmp"} }
func (t *tilesetType) Games() []string           { return []string{"Crystal Caves"} }
func (t *tilesetType) RequiredSupps(string) []gamegraphics.SuppItem { return nil }

func (t *tilesetType) Probe(stream gamegraphics.Stream) (gamegraphics.ProbeResult, error) {
	size, err := stream.Size()
	if err != nil {
		return gamegraphics.DefinitelyNo, err
	}
	if size < subHeaderLen {
		return gamegraphics.DefinitelyNo, nil
	}
	if _, err := stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return gamegraphics.DefinitelyNo, err
	}
	buf := make([]byte, subHeaderLen)
	if _, err := io.ReadFull(stream, buf); err != nil {
		return gamegraphics.DefinitelyNo, nil
	}
	h := subHeader{count: buf[0], widthBytes: buf[1], heightRows: buf[2]}
	bodySize := subHeaderLen + h.bodySize()
	if bodySize > size {
		return gamegraphics.DefinitelyNo, nil
	}
	return gamegraphics.Unsure, nil
}

func (t *tilesetType) Open(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return Open(stream)
}

func (t *tilesetType) Create(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return Open(stream)
}
