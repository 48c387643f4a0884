package gamegraphics

// ProbeResult is a type's confidence that a stream matches its format.
type ProbeResult int

const (
	DefinitelyNo ProbeResult = iota
	Unsure
	PossiblyYes
	DefinitelyYes
)

// Image is the canonical in-memory view of a single raster image, backed
// by an owned stream slice. Capability bits declare which mutators are
// legal to call; calling one that isn't set is a capability_violation.
type Image interface {
	// Dims returns the image's current pixel dimensions.
	Dims() Point

	// SetDims changes the pixel dimensions. Requires CapSetDimensions.
	// Pixel content is undefined until the next SetPixels call.
	SetDims(d Point) error

	// Caps reports which mutators this instance supports.
	Caps() Cap

	// Palette returns the image's palette, or nil if it has none.
	Palette() Palette

	// SetPalette replaces the image's palette wholesale. Requires
	// CapSetPalette.
	SetPalette(p Palette) error

	// Pixels decodes the backing stream into a row-major pixel buffer of
	// length Dims().X * Dims().Y.
	Pixels() ([]Pixel, error)

	// Mask decodes the backing stream's mask plane(s), or returns an
	// all-zero buffer for formats that carry none.
	Mask() ([]uint8, error)

	// SetPixels encodes pixels and mask back to the backing stream.
	SetPixels(pixels []Pixel, mask []uint8) error
}

// Hotspotter is implemented by images that carry a hotspot coordinate.
// Only valid to call when Caps().Has(CapHasHotspot).
type Hotspotter interface {
	Hotspot() Point
	SetHotspot(p Point) error
}

// HitRecter is implemented by images that carry a hit-rect corner. Only
// valid to call when Caps().Has(CapHasHitRect).
type HitRecter interface {
	HitRect() Point
	SetHitRect(p Point) error
}

// ImageType is a registered image format: given a probe it reports its
// confidence, and given a stream plus supplementary streams it opens or
// creates an Image.
type ImageType interface {
	// Code is the type's short identifier, e.g. "img-pcx-vga-rle".
	Code() string

	// Name is a human-friendly display name.
	Name() string

	// Extensions lists hint-only file extensions, not used for detection.
	Extensions() []string

	// Games lists titles known to use this format.
	Games() []string

	// Probe reports confidence that stream holds an instance of this type.
	Probe(stream Stream) (ProbeResult, error)

	// RequiredSupps returns the supplementary stream keys the caller must
	// resolve and provide to Open/Create, based on filename conventions.
	RequiredSupps(filename string) []SuppItem

	// Open constructs an Image over an existing stream.
	Open(stream Stream, supp SuppMap) (Image, error)

	// Create constructs a new, empty Image writing to stream.
	Create(stream Stream, supp SuppMap) (Image, error)
}

var imageTypes []ImageType

// RegisterImageType adds t to the set probed by IdentifyImage/OpenImage.
// Called from codec packages' init() functions.
func RegisterImageType(t ImageType) {
	imageTypes = append(imageTypes, t)
}

// ImageTypes returns all registered image types, in registration order.
func ImageTypes() []ImageType {
	return append([]ImageType(nil), imageTypes...)
}

// IdentifyImage probes every registered image type against stream and
// returns the best match: DefinitelyYes short-circuits; ties at
// PossiblyYes or Unsure resolve to the first-registered candidate.
func IdentifyImage(stream Stream) (ImageType, ProbeResult, error) {
	var best ImageType
	bestResult := DefinitelyNo
	for _, t := range imageTypes {
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

// OpenImage identifies stream's type and opens it. Callers that already
// know the type should call ImageType.Open directly instead.
func OpenImage(stream Stream, supp SuppMap) (Image, error) {
	t, result, err := IdentifyImage(stream)
	if err != nil {
		return nil, err
	}
	if result == DefinitelyNo {
		return nil, NewError(KindProbeMismatch, "registry", nil)
	}
	return t.Open(stream, supp)
}
