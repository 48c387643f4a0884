package ddave

import (
	"bytes"
	"encoding/binary"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/planarcodec"
	"github.com/camoto-tools/gamegraphics/internal/streamfilter"
	"github.com/camoto-tools/gamegraphics/internal/vgacodec"
)

// tileRecord is one tile's decoded state: its current dimensions and its
// already-encoded on-disk payload (the pixel body only, never the VGA
// dimension header, which is regenerated from width/height at Flush).
type tileRecord struct {
	handle        gamegraphics.Handle
	width, height int
	payload       []byte
}

// Root is the Dangerous Dave tileset: every mutation operates on an
// in-memory record list and the whole file is rebuilt at Flush, since
// the block-pad filter's protocol does not support re-seeking a
// partially-written stream.
type Root struct {
	outer      gamegraphics.Stream
	variant    variant
	palette    gamegraphics.Palette
	records    []*tileRecord
	nextHandle gamegraphics.Handle
}

// hasHeader reports whether the tile at position idx carries a 4-byte
// width/height header: only VGA tiles at or beyond fixedTileCount do,
// and that is a property of final on-disk position, not of the record
// itself, so it is always recomputed rather than stored.
func (r *Root) hasHeader(idx int) bool {
	return r.variant == variantVGA && idx >= fixedTileCount
}

func (r *Root) recordSize(idx int, rec *tileRecord) int64 {
	var headerLen int64
	if r.hasHeader(idx) {
		headerLen = dimHeaderLen
	}
	return headerLen + int64(len(rec.payload))
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

// Entries implements gamegraphics.Tileset.
func (r *Root) Entries() ([]gamegraphics.Entry, error) {
	entries := make([]gamegraphics.Entry, len(r.records))
	offset := int64(4) + int64(len(r.records))*4
	for i, rec := range r.records {
		size := r.recordSize(i, rec)
		entries[i] = gamegraphics.Entry{
			Handle:     rec.handle,
			Kind:       gamegraphics.EntryImage,
			Index:      i,
			Offset:     offset,
			StoredSize: size,
			RealSize:   size,
		}
		offset += size
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
		return gamegraphics.Entry{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "ddave", nil)
	}
	return entries[idx], nil
}

func (r *Root) OpenImage(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	if r.indexOf(h) < 0 {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "ddave", nil)
	}
	return &tileImage{root: r, handle: h}, nil
}

func (r *Root) OpenTileset(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return nil, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ddave", nil)
}

// Insert adds a blank tile at idx, fixed 16x16, zero pixels.
func (r *Root) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	if kind != gamegraphics.EntryImage {
		return 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ddave", nil)
	}
	if idx < 0 || idx > len(r.records) {
		return 0, gamegraphics.NewError(gamegraphics.KindOutOfRange, "ddave", nil)
	}
	rec := &tileRecord{
		handle: r.allocHandle(),
		width:  tileWidth,
		height: tileHeight,
	}
	payload, err := encodeTile(r.variant, tileWidth, tileHeight, make([]gamegraphics.Pixel, tileWidth*tileHeight), nil)
	if err != nil {
		return 0, err
	}
	rec.payload = payload

	r.records = append(r.records, nil)
	copy(r.records[idx+1:], r.records[idx:])
	r.records[idx] = rec
	return rec.handle, nil
}

func (r *Root) Remove(h gamegraphics.Handle) error {
	idx := r.indexOf(h)
	if idx < 0 {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "ddave", nil)
	}
	r.records = append(r.records[:idx], r.records[idx+1:]...)
	return nil
}

// Resize is unsupported directly: a VGA tile's stored size follows from
// its dimensions, changed through the tile's Image.SetDims instead.
func (r *Root) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "ddave", nil)
}

// Flush rebuilds the whole file: FAT, tile records (with regenerated
// dimension headers), then the block-pad filter over the result.
func (r *Root) Flush() error {
	body := &bytes.Buffer{}
	for i, rec := range r.records {
		if r.hasHeader(i) {
			var hdr [dimHeaderLen]byte
			binary.LittleEndian.PutUint16(hdr[0:2], uint16(rec.width))
			binary.LittleEndian.PutUint16(hdr[2:4], uint16(rec.height))
			body.Write(hdr[:])
		}
		body.Write(rec.payload)
	}

	logical := &bytes.Buffer{}
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(r.records)))
	logical.Write(countBuf[:])

	entries, err := r.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(e.Offset))
		logical.Write(b[:])
	}
	logical.Write(body.Bytes())

	padded, err := streamfilter.RunAll(streamfilter.Pad(padBlock, []byte{padByte}), logical.Bytes())
	if err != nil {
		return gamegraphics.NewError(gamegraphics.KindFilter, "ddave", err)
	}
	if err := r.outer.Truncate(0); err != nil {
		return err
	}
	if _, err := r.outer.Seek(0, gamegraphics.SeekStart); err != nil {
		return err
	}
	if _, err := r.outer.Write(padded); err != nil {
		return gamegraphics.NewError(gamegraphics.KindIO, "ddave", err)
	}
	return r.outer.Flush()
}

// encodeTile encodes pixels/mask for width x height into variant v's
// on-disk tile body.
func encodeTile(v variant, width, height int, pixels []gamegraphics.Pixel, mask []uint8) ([]byte, error) {
	buf := &bytes.Buffer{}
	switch v {
	case variantCGA:
		if err := planarcodec.EncodeLinear(buf, cgaDesc, width, height, pixels, mask, ddaveBitOrder); err != nil {
			return nil, err
		}
	case variantEGA:
		if err := planarcodec.EncodeLinear(buf, egaDesc, width, height, pixels, mask, ddaveBitOrder); err != nil {
			return nil, err
		}
	default:
		if err := vgacodec.Encode(buf, pixels, mask); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// decodeTile decodes variant v's on-disk tile body into pixels and mask.
func decodeTile(v variant, width, height int, payload []byte) ([]gamegraphics.Pixel, []uint8, error) {
	r := bytes.NewReader(payload)
	switch v {
	case variantCGA:
		return planarcodec.DecodeLinear(r, cgaDesc, width, height, ddaveBitOrder)
	case variantEGA:
		return planarcodec.DecodeLinear(r, egaDesc, width, height, ddaveBitOrder)
	default:
		return vgacodec.Decode(r, width, height)
	}
}
