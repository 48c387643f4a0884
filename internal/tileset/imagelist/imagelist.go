// Package imagelist implements the "from image list" synthetic tileset
// (spec.md §4.6.5): a read-only view presenting a fixed list of items as
// tiles, where each item is either a whole source image, one cell of a
// uniform grid subdivision of a source image, or an explicit
// sub-rectangle of a source image. Unlike every other package under
// internal/tileset, this one has no on-disk byte format of its own to
// probe for: it is built directly by a caller composing existing Images,
// so it never registers a gamegraphics.TilesetType.
package imagelist

import "github.com/camoto-tools/gamegraphics"

// Rect is a pixel region of a source image.
type Rect struct {
	X, Y, W, H int
}

type itemKind int

const (
	itemWhole itemKind = iota
	itemCrop
)

type item struct {
	kind   itemKind
	whole  gamegraphics.Image
	source gamegraphics.Image
	rect   Rect
}

// Root is the synthetic tileset: a fixed, ordered list of items. Every
// mutator rejects with KindCapabilityViolation; the list and its items'
// pixels never change after construction.
type Root struct {
	items []item
}

func handleFor(idx int) gamegraphics.Handle { return gamegraphics.Handle(idx + 1) }
func indexFor(h gamegraphics.Handle) int    { return int(h) - 1 }

// NewWholeImages presents each of images as one whole tile (case (a)).
func NewWholeImages(images []gamegraphics.Image) *Root {
	items := make([]item, len(images))
	for i, img := range images {
		items[i] = item{kind: itemWhole, whole: img}
	}
	return &Root{items: items}
}

// NewGrid subdivides rect of source into a row-major grid of tileW x
// tileH cells (case (b)). A trailing partial row or column that would
// extend past rect is omitted.
func NewGrid(source gamegraphics.Image, rect Rect, tileW, tileH int) *Root {
	var items []item
	for y := rect.Y; y+tileH <= rect.Y+rect.H; y += tileH {
		for x := rect.X; x+tileW <= rect.X+rect.W; x += tileW {
			items = append(items, item{kind: itemCrop, source: source, rect: Rect{X: x, Y: y, W: tileW, H: tileH}})
		}
	}
	return &Root{items: items}
}

// NewRects presents an explicit list of sub-rectangles of source (case (c)).
func NewRects(source gamegraphics.Image, rects []Rect) *Root {
	items := make([]item, len(rects))
	for i, rc := range rects {
		items[i] = item{kind: itemCrop, source: source, rect: rc}
	}
	return &Root{items: items}
}

// Entries implements gamegraphics.Tileset. Offset/StoredSize/RealSize are
// always zero: a synthetic list has no backing FAT for them to describe.
func (r *Root) Entries() ([]gamegraphics.Entry, error) {
	entries := make([]gamegraphics.Entry, len(r.items))
	for i := range r.items {
		entries[i] = gamegraphics.Entry{Handle: handleFor(i), Kind: gamegraphics.EntryImage, Index: i}
	}
	return entries, nil
}

func (r *Root) EntryByHandle(h gamegraphics.Handle) (gamegraphics.Entry, error) {
	idx := indexFor(h)
	if idx < 0 || idx >= len(r.items) {
		return gamegraphics.Entry{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "imagelist", nil)
	}
	return gamegraphics.Entry{Handle: h, Kind: gamegraphics.EntryImage, Index: idx}, nil
}

func (r *Root) OpenImage(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	idx := indexFor(h)
	if idx < 0 || idx >= len(r.items) {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "imagelist", nil)
	}
	return &croppedImage{it: r.items[idx]}, nil
}

func (r *Root) OpenTileset(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	return nil, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "imagelist", nil)
}

func (r *Root) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	return 0, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "imagelist", nil)
}

func (r *Root) Remove(h gamegraphics.Handle) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "imagelist", nil)
}

func (r *Root) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "imagelist", nil)
}

// Flush is a no-op: there is nothing backing this tileset to persist.
func (r *Root) Flush() error { return nil }
