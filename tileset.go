package gamegraphics

// Handle is a stable reference to a tileset entry. Handles stay valid
// across non-destructive operations and survive insert/remove of other
// entries in the same tileset.
type Handle uint64

// Entry describes one slot in a Tileset's FAT.
type Entry struct {
	Handle     Handle
	Kind       EntryKind
	Index      int
	Offset     int64
	StoredSize int64 // bytes on disk, possibly compressed
	RealSize   int64 // bytes after stream filters
	Name       string
	FormatTag  string
	Attributes uint
}

// Tileset presents an ordered hierarchy of entries (images, nested
// tilesets, or vacant slots) over a backing stream, with a File
// Allocation Table tracking their offsets and sizes.
type Tileset interface {
	// Entries returns the tileset's entries in on-disk order.
	Entries() ([]Entry, error)

	// EntryByHandle looks an entry up by its stable handle.
	EntryByHandle(h Handle) (Entry, error)

	// OpenImage opens the entry at h as an Image. The entry's Kind must
	// be EntryImage.
	OpenImage(h Handle, supp SuppMap) (Image, error)

	// OpenTileset opens the entry at h as a nested Tileset. The entry's
	// Kind must be EntryFolder.
	OpenTileset(h Handle, supp SuppMap) (Tileset, error)

	// Insert adds a new entry of kind at position idx, shifting
	// subsequent entries' offsets.
	Insert(idx int, kind EntryKind) (Handle, error)

	// Remove deletes the entry at h, shifting subsequent entries'
	// offsets to close the gap.
	Remove(h Handle) error

	// Resize changes the stored size of the entry at h to newStoredSize,
	// shifting every subsequent entry's offset accordingly.
	Resize(h Handle, newStoredSize int64) error

	// Flush persists the backing stream. Any filtered sub-stream opened
	// for an entry must have been flushed first.
	Flush() error
}

// TilesetType is a registered tileset container format, parallel to
// ImageType.
type TilesetType interface {
	Code() string
	Name() string
	Extensions() []string
	Games() []string
	Probe(stream Stream) (ProbeResult, error)
	RequiredSupps(filename string) []SuppItem
	Open(stream Stream, supp SuppMap) (Tileset, error)
	Create(stream Stream, supp SuppMap) (Tileset, error)
}

var tilesetTypes []TilesetType

// RegisterTilesetType adds t to the set probed by IdentifyTileset/OpenTileset.
func RegisterTilesetType(t TilesetType) {
	tilesetTypes = append(tilesetTypes, t)
}

// TilesetTypes returns all registered tileset types, in registration order.
func TilesetTypes() []TilesetType {
	return append([]TilesetType(nil), tilesetTypes...)
}

// IdentifyTileset probes every registered tileset type against stream,
// same resolution rule as IdentifyImage.
func IdentifyTileset(stream Stream) (TilesetType, ProbeResult, error) {
	var best TilesetType
	bestResult := DefinitelyNo
	for _, t := range tilesetTypes {
		result, err := t.Probe(stream)
		if err != nil {
			return nil, DefinitelyNo, err
		}
		if result == DefinitelyYes {
			return t, result, nil
		}
		if result > bestResult {
			best, bestResult = t, result
		}
	}
	if best == nil {
		return nil, DefinitelyNo, NewError(KindProbeMismatch, "registry", nil)
	}
	return best, bestResult, nil
}

// OpenTileset identifies stream's type and opens it.
func OpenTileset(stream Stream, supp SuppMap) (Tileset, error) {
	t, result, err := IdentifyTileset(stream)
	if err != nil {
		return nil, err
	}
	if result == DefinitelyNo {
		return nil, NewError(KindProbeMismatch, "registry", nil)
	}
	return t.Open(stream, supp)
}
