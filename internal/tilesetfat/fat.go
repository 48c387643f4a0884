// Package tilesetfat implements the generic FAT-backed tileset engine
// described in spec.md §4.6.1: a vector of entries with offsets and
// sizes, shifted as entries grow, shrink, are inserted, or removed, with
// format-specific hooks for writing each format's on-disk FAT record.
package tilesetfat

import (
	"github.com/camoto-tools/gamegraphics"
)

// Hooks lets a concrete container format participate in FAT maintenance
// without tilesetfat knowing its on-disk record layout.
type Hooks interface {
	// PreInsert is called before entry idx is added, with the proposed
	// entry; it may adjust StoredSize/RealSize/FormatTag/Attributes.
	PreInsert(idx int, e *gamegraphics.Entry) error

	// PostInsert is called after the FAT and backing stream have been
	// updated for a new entry at idx.
	PostInsert(idx int, e gamegraphics.Entry) error

	// PreRemove is called before the entry at idx is deleted.
	PreRemove(idx int, e gamegraphics.Entry) error

	// PostRemove is called after the entry at idx has been deleted and
	// subsequent entries shifted.
	PostRemove(idx int) error

	// UpdateFileOffset persists entry idx's new Offset to its on-disk FAT
	// record (not to its body).
	UpdateFileOffset(idx int, newOffset int64) error

	// UpdateFileSize persists entry idx's new StoredSize to its on-disk
	// FAT record.
	UpdateFileSize(idx int, newStoredSize int64) error
}

// Tileset is the generic engine; concrete containers embed or wrap it
// and supply Hooks plus their own header-parsing logic to populate
// entries initially.
type Tileset struct {
	Stream  gamegraphics.Stream
	Hooks   Hooks
	Entries []gamegraphics.Entry

	nextHandle gamegraphics.Handle
}

// NewTileset wraps stream with hooks and an initial entry list (already
// parsed from the container's header by the caller).
func NewTileset(stream gamegraphics.Stream, hooks Hooks, entries []gamegraphics.Entry) *Tileset {
	t := &Tileset{Stream: stream, Hooks: hooks, Entries: entries}
	for i := range t.Entries {
		t.Entries[i].Handle = t.allocHandle()
	}
	return t
}

func (t *Tileset) allocHandle() gamegraphics.Handle {
	t.nextHandle++
	return t.nextHandle
}

// IndexOf returns the slice index of the entry with handle h, or -1.
func (t *Tileset) IndexOf(h gamegraphics.Handle) int {
	for i, e := range t.Entries {
		if e.Handle == h {
			return i
		}
	}
	return -1
}

// EntryByHandle implements gamegraphics.Tileset.
func (t *Tileset) EntryByHandle(h gamegraphics.Handle) (gamegraphics.Entry, error) {
	i := t.IndexOf(h)
	if i < 0 {
		return gamegraphics.Entry{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "tilesetfat", nil)
	}
	return t.Entries[i], nil
}

// Shift adjusts every entry with offset > at by delta, persisting each
// change via Hooks.UpdateFileOffset.
func (t *Tileset) Shift(at int64, delta int64) error {
	for i := range t.Entries {
		if t.Entries[i].Offset > at {
			t.Entries[i].Offset += delta
			if err := t.Hooks.UpdateFileOffset(i, t.Entries[i].Offset); err != nil {
				return err
			}
		}
	}
	return nil
}

// Insert adds a new entry of kind at position idx, growing the backing
// stream and shifting subsequent entries' offsets.
func (t *Tileset) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	if idx < 0 || idx > len(t.Entries) {
		return 0, gamegraphics.NewError(gamegraphics.KindOutOfRange, "tilesetfat", nil)
	}
	var offset int64
	if idx < len(t.Entries) {
		offset = t.Entries[idx].Offset
	} else if len(t.Entries) > 0 {
		last := t.Entries[len(t.Entries)-1]
		offset = last.Offset + last.StoredSize
	}

	e := gamegraphics.Entry{
		Kind:   kind,
		Index:  idx,
		Offset: offset,
	}
	if err := t.Hooks.PreInsert(idx, &e); err != nil {
		return 0, err
	}
	if err := t.Stream.Insert(offset, e.StoredSize); err != nil {
		return 0, err
	}
	// Every entry from idx on, including the one currently at offset,
	// moves right by the new entry's size.
	for i := idx; i < len(t.Entries); i++ {
		t.Entries[i].Offset += e.StoredSize
		if err := t.Hooks.UpdateFileOffset(i, t.Entries[i].Offset); err != nil {
			return 0, err
		}
	}
	e.Handle = t.allocHandle()

	t.Entries = append(t.Entries, gamegraphics.Entry{})
	copy(t.Entries[idx+1:], t.Entries[idx:])
	t.Entries[idx] = e
	t.renumber()

	if err := t.Hooks.PostInsert(idx, e); err != nil {
		return 0, err
	}
	return e.Handle, nil
}

// Remove deletes the entry at h, shrinking the backing stream and
// shifting subsequent entries' offsets down.
func (t *Tileset) Remove(h gamegraphics.Handle) error {
	idx := t.IndexOf(h)
	if idx < 0 {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "tilesetfat", nil)
	}
	e := t.Entries[idx]
	if err := t.Hooks.PreRemove(idx, e); err != nil {
		return err
	}
	if err := t.Stream.Remove(e.Offset, e.StoredSize); err != nil {
		return err
	}
	if err := t.Shift(e.Offset, -e.StoredSize); err != nil {
		return err
	}
	t.Entries = append(t.Entries[:idx], t.Entries[idx+1:]...)
	t.renumber()

	return t.Hooks.PostRemove(idx)
}

// Resize changes the entry at h's stored size by the delta between its
// current StoredSize and newStoredSize, shifting subsequent offsets and
// growing or shrinking the backing stream in place.
func (t *Tileset) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	idx := t.IndexOf(h)
	if idx < 0 {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "tilesetfat", nil)
	}
	e := &t.Entries[idx]
	delta := newStoredSize - e.StoredSize
	if delta == 0 {
		return nil
	}
	bodyEnd := e.Offset + e.StoredSize
	if delta > 0 {
		if err := t.Stream.Insert(bodyEnd, delta); err != nil {
			return err
		}
	} else {
		if err := t.Stream.Remove(bodyEnd+delta, -delta); err != nil {
			return err
		}
	}
	e.StoredSize = newStoredSize
	if err := t.Hooks.UpdateFileSize(idx, newStoredSize); err != nil {
		return err
	}
	for i := range t.Entries {
		if i != idx && t.Entries[i].Offset >= bodyEnd {
			t.Entries[i].Offset += delta
			if err := t.Hooks.UpdateFileOffset(i, t.Entries[i].Offset); err != nil {
				return err
			}
		}
	}
	return nil
}

// growBody updates accounting for entry h after its bytes have already
// been physically resized by the caller (a SubStream growing or
// shrinking itself): it adjusts StoredSize, persists the FAT record via
// Hooks, and shifts subsequent entries' offsets, without touching the
// backing stream a second time. Used as the bookkeeping half of
// OpenEntryStream's resize callback, where the SubStream itself already
// performed the physical Insert/Remove/Write against the parent stream.
func (t *Tileset) growBody(h gamegraphics.Handle, newStoredSize int64) error {
	idx := t.IndexOf(h)
	if idx < 0 {
		return gamegraphics.NewError(gamegraphics.KindOutOfRange, "tilesetfat", nil)
	}
	e := &t.Entries[idx]
	delta := newStoredSize - e.StoredSize
	if delta == 0 {
		return nil
	}
	bodyEnd := e.Offset + e.StoredSize
	e.StoredSize = newStoredSize
	if err := t.Hooks.UpdateFileSize(idx, newStoredSize); err != nil {
		return err
	}
	// Unlike Shift (used by Remove, where the entry at "at" is the one
	// being removed and must not itself shift), growth here
	// happened entirely within this entry's own body, so a sibling
	// starting exactly at the old bodyEnd must still move.
	for i := range t.Entries {
		if i != idx && t.Entries[i].Offset >= bodyEnd {
			t.Entries[i].Offset += delta
			if err := t.Hooks.UpdateFileOffset(i, t.Entries[i].Offset); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tileset) renumber() {
	for i := range t.Entries {
		t.Entries[i].Index = i
	}
}

// Flush persists the backing stream.
func (t *Tileset) Flush() error {
	return t.Stream.Flush()
}

// OpenEntryStream scopes a sub-stream over entry h's [offset+header,
// offset+storedSize) region. The sub-stream performs its own physical
// Insert/Remove/Write against the backing stream; its resize callback
// only updates this entry's FAT bookkeeping and shifts subsequent
// entries, via growBody.
func (t *Tileset) OpenEntryStream(h gamegraphics.Handle, headerLen int64) (*gamegraphics.SubStream, error) {
	idx := t.IndexOf(h)
	if idx < 0 {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "tilesetfat", nil)
	}
	e := t.Entries[idx]
	return gamegraphics.NewSubStream(t.Stream, e.Offset+headerLen, e.StoredSize-headerLen, func(newLen int64) error {
		return t.growBody(h, newLen+headerLen)
	}), nil
}
