package ddave

import (
	"encoding/binary"
	"io"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/streamfilter"
)

func unpad(raw []byte) ([]byte, error) {
	return streamfilter.RunAll(streamfilter.Unpad(padBlock, []byte{padByte}), raw)
}

// readRaw reads stream fully and strips the block-pad filter, returning
// the logical (unpadded) byte content the FAT and tile bodies live in.
func readRaw(stream gamegraphics.Stream) ([]byte, error) {
	size, err := stream.Size()
	if err != nil {
		return nil, err
	}
	if _, err := stream.Seek(0, gamegraphics.SeekStart); err != nil {
		return nil, err
	}
	raw := make([]byte, size)
	if _, err := io.ReadFull(stream, raw); err != nil {
		return nil, gamegraphics.NewError(gamegraphics.KindIncompleteRead, "ddave", err)
	}
	logical, err := unpad(raw)
	if err != nil {
		return nil, gamegraphics.NewError(gamegraphics.KindFilter, "ddave", err)
	}
	return logical, nil
}

// parseLogical splits an unpadded Dangerous Dave buffer into the FAT
// offsets and the detected variant, read from the first tile's size.
func parseLogical(logical []byte) (offsets []int64, detected variant, err error) {
	if len(logical) < 4 {
		return nil, 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ddave", nil)
	}
	count := binary.LittleEndian.Uint32(logical[0:4])
	fatEnd := 4 + int64(count)*4
	if fatEnd > int64(len(logical)) {
		return nil, 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ddave", nil)
	}
	offsets = make([]int64, count)
	for i := range offsets {
		offsets[i] = int64(binary.LittleEndian.Uint32(logical[4+i*4 : 8+i*4]))
	}
	if len(offsets) == 0 {
		return offsets, variantVGA, nil
	}
	firstEnd := int64(len(logical))
	if len(offsets) > 1 {
		firstEnd = offsets[1]
	}
	switch firstEnd - offsets[0] {
	case cgaTileBytes:
		detected = variantCGA
	case egaTileBytes:
		detected = variantEGA
	case vgaTileBytes:
		detected = variantVGA
	default:
		return nil, 0, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ddave", nil)
	}
	return offsets, detected, nil
}

// buildRecords decodes each tile's dimensions and payload bytes out of
// logical, given the parsed offsets and variant.
func buildRecords(logical []byte, offsets []int64, v variant) ([]*tileRecord, error) {
	records := make([]*tileRecord, len(offsets))
	for i, off := range offsets {
		end := int64(len(logical))
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		pos := off
		width, height := tileWidth, tileHeight
		if v == variantVGA && i >= fixedTileCount {
			if pos+dimHeaderLen > end {
				return nil, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ddave", nil)
			}
			width = int(binary.LittleEndian.Uint16(logical[pos : pos+2]))
			height = int(binary.LittleEndian.Uint16(logical[pos+2 : pos+4]))
			pos += dimHeaderLen
		}
		if pos > end || end > int64(len(logical)) {
			return nil, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ddave", nil)
		}
		payload := append([]byte(nil), logical[pos:end]...)
		records[i] = &tileRecord{width: width, height: height, payload: payload}
	}
	return records, nil
}

// Open parses an existing Dangerous Dave file as variant v. supp must
// carry gamegraphics.SuppPalette when v is the VGA variant.
func Open(stream gamegraphics.Stream, v variant, supp gamegraphics.SuppMap) (*Root, error) {
	logical, err := readRaw(stream)
	if err != nil {
		return nil, err
	}
	offsets, detected, err := parseLogical(logical)
	if err != nil {
		return nil, err
	}
	if len(offsets) > 0 && detected != v {
		return nil, gamegraphics.NewError(gamegraphics.KindProbeMismatch, "ddave", nil)
	}
	records, err := buildRecords(logical, offsets, v)
	if err != nil {
		return nil, err
	}

	pal, err := resolvePalette(v, supp)
	if err != nil {
		return nil, err
	}

	r := &Root{outer: stream, variant: v, palette: pal, records: records}
	for _, rec := range records {
		rec.handle = r.allocHandle()
	}
	return r, nil
}

func resolvePalette(v variant, supp gamegraphics.SuppMap) (gamegraphics.Palette, error) {
	if v != variantVGA {
		return gamegraphics.DefaultPalette(depthOf(v)), nil
	}
	ps, ok := supp[gamegraphics.SuppPalette]
	if !ok {
		return nil, gamegraphics.NewError(gamegraphics.KindFormatViolation, "ddave", nil)
	}
	return gamegraphics.LoadPalette(ps, 256, 8)
}

func depthOf(v variant) gamegraphics.ColourDepth {
	switch v {
	case variantCGA:
		return gamegraphics.CGA
	case variantEGA:
		return gamegraphics.EGA
	default:
		return gamegraphics.VGA
	}
}

// Create returns a new, empty Dangerous Dave tileset of variant v.
func Create(stream gamegraphics.Stream, v variant, supp gamegraphics.SuppMap) (*Root, error) {
	pal, err := resolvePalette(v, supp)
	if err != nil {
		return nil, err
	}
	return &Root{outer: stream, variant: v, palette: pal}, nil
}

// probe reports confidence that stream holds a Dangerous Dave tileset of
// variant v: it must parse cleanly and its first tile's size must match
// v's expected fixed size (64/128/256 bytes).
func probe(stream gamegraphics.Stream, v variant) (gamegraphics.ProbeResult, error) {
	logical, err := readRaw(stream)
	if err != nil {
		return gamegraphics.DefinitelyNo, nil
	}
	offsets, detected, err := parseLogical(logical)
	if err != nil {
		return gamegraphics.DefinitelyNo, nil
	}
	if len(offsets) == 0 {
		return gamegraphics.Unsure, nil
	}
	if detected != v {
		return gamegraphics.DefinitelyNo, nil
	}
	return gamegraphics.PossiblyYes, nil
}

type tilesetType struct {
	code    string
	name    string
	exts    []string
	variant variant
}

func (t *tilesetType) Code() string         { return t.code }
func (t *tilesetType) Name() string         { return t.name }
func (t *tilesetType) Extensions() []string { return t.exts }
func (t *tilesetType) Games() []string      { return []string{"Dangerous Dave"} }

func (t *tilesetType) RequiredSupps(string) []gamegraphics.SuppItem {
	if t.variant == variantVGA {
		return []gamegraphics.SuppItem{gamegraphics.SuppPalette}
	}
	return nil
}

func (t *tilesetType) Probe(stream gamegraphics.Stream) (gamegraphics.ProbeResult, error) {
	return probe(stream, t.variant)
}

func (t *tilesetType) Open(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return Open(stream, t.variant, supp)
}

func (t *tilesetType) Create(stream gamegraphics.Stream, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return Create(stream, t.variant, supp)
}

func init() {
	gamegraphics.RegisterTilesetType(&tilesetType{code: "tls-ddave-cga", name: "Dangerous Dave tileset, CGA", exts: []string{"cmp"}, variant: variantCGA})
	gamegraphics.RegisterTilesetType(&tilesetType{code: "tls-ddave-ega", name: "Dangerous Dave tileset, EGA", exts: []string{"cmp"}, variant: variantEGA})
	gamegraphics.RegisterTilesetType(&tilesetType{code: "tls-ddave-vga", name: "Dangerous Dave tileset, VGA", exts: []string{"cmp"}, variant: variantVGA})
}
