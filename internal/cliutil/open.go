package cliutil

import (
	"fmt"
	"os"

	"github.com/camoto-tools/gamegraphics"
)

// suppNames maps the --palette TYPE:PATH prefix to the SuppItem it
// names; TYPE defaults to "palette" when omitted, since every format in
// this pack that requires a supplementary stream requires exactly one.
var suppNames = map[string]gamegraphics.SuppItem{
	"palette":    gamegraphics.SuppPalette,
	"fat":        gamegraphics.SuppFAT,
	"dictionary": gamegraphics.SuppDictionary,
	"extra1":     gamegraphics.SuppExtra1,
}

// ParseSupp splits a "--palette TYPE:PATH" (or bare "PATH", defaulting
// TYPE to palette) argument into the SuppItem it supplies and the file
// path to open for it.
func ParseSupp(arg string) (gamegraphics.SuppItem, string, error) {
	typ, path, hasDelim := Split(arg, ':')
	if !hasDelim {
		return gamegraphics.SuppPalette, arg, nil
	}
	item, ok := suppNames[typ]
	if !ok {
		return 0, "", fmt.Errorf("unknown supplementary file type %q", typ)
	}
	return item, path, nil
}

// TypeProbe is the subset of ImageType/TilesetType this package's
// autodetect loop needs.
type TypeProbe interface {
	Code() string
	Name() string
	Probe(gamegraphics.Stream) (gamegraphics.ProbeResult, error)
	RequiredSupps(string) []gamegraphics.SuppItem
}

// detect runs the same autodetect loop gametls.cpp/gameimg.cpp/
// gamegfx.cpp use: DefinitelyYes short-circuits immediately; otherwise
// the best (highest-certainty, first-registered-on-ties) candidate
// wins. typeCode, when non-empty, skips autodetection and looks the
// code up directly.
func detect[T TypeProbe](types []T, stream gamegraphics.Stream, typeCode string, report func(string)) (T, error) {
	var zero T
	if typeCode != "" {
		for _, t := range types {
			if t.Code() == typeCode {
				return t, nil
			}
		}
		return zero, fmt.Errorf("unknown file type %q", typeCode)
	}

	var best T
	haveBest := false
	bestResult := gamegraphics.DefinitelyNo
	for _, t := range types {
		result, err := t.Probe(stream)
		if err != nil {
			return zero, err
		}
		switch result {
		case gamegraphics.DefinitelyNo:
		case gamegraphics.Unsure:
			if report != nil {
				report(fmt.Sprintf("file could be a %s [%s]", t.Name(), t.Code()))
			}
			if !haveBest {
				best, haveBest, bestResult = t, true, result
			}
		case gamegraphics.PossiblyYes:
			if report != nil {
				report(fmt.Sprintf("file is likely to be a %s [%s]", t.Name(), t.Code()))
			}
			if !haveBest || bestResult < gamegraphics.PossiblyYes {
				best, haveBest, bestResult = t, true, result
			}
		case gamegraphics.DefinitelyYes:
			if report != nil {
				report(fmt.Sprintf("file is definitely a %s [%s]", t.Name(), t.Code()))
			}
			return t, nil
		}
	}
	if bestResult == gamegraphics.DefinitelyNo || !haveBest {
		return zero, fmt.Errorf("unable to automatically determine the file type; use --type to specify it")
	}
	return best, nil
}

// resolveSupps opens the supplementary streams required []gamegraphics.SuppItem
// names from the caller-supplied overrides (from --palette). A SuppPalette
// with no override is left out of the returned map; no file is looked up
// by name for it. Any other required item with no override is an error.
func resolveSupps(required []gamegraphics.SuppItem, overrides map[gamegraphics.SuppItem]string) (gamegraphics.SuppMap, []*os.File, error) {
	supp := gamegraphics.SuppMap{}
	var files []*os.File
	for _, item := range required {
		path, ok := overrides[item]
		if !ok {
			if item != gamegraphics.SuppPalette {
				return nil, files, fmt.Errorf("this format requires a supplementary file; supply it with --palette TYPE:PATH")
			}
			continue // no palette override given; a format that cannot do without one (Dangerous Dave VGA) fails in its own Open
		}
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return nil, files, fmt.Errorf("opening supplementary file %s: %w", path, err)
		}
		files = append(files, f)
		supp[item] = gamegraphics.NewFileStream(f)
	}
	return supp, files, nil
}

// OpenedTileset bundles a tileset together with the files backing its
// primary and supplementary streams, all of which Close releases.
type OpenedTileset struct {
	Tileset gamegraphics.Tileset
	primary *os.File
	supp    []*os.File
}

func (o *OpenedTileset) Close() error {
	err := o.Tileset.Flush()
	for _, f := range o.supp {
		f.Close()
	}
	o.primary.Close()
	return err
}

// OpenTilesetFile opens path, detects or validates its tileset type, and
// constructs the root Tileset. typeCode forces a specific type; force
// opens even when the probe disagrees; suppOverrides comes from
// repeated --palette flags. report receives autodetect commentary
// (pass nil to silence it, as the non-verbose paths do).
func OpenTilesetFile(path, typeCode string, force bool, suppOverrides map[gamegraphics.SuppItem]string, report func(string)) (*OpenedTileset, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	stream := gamegraphics.NewFileStream(f)

	t, err := detect(gamegraphics.TilesetTypes(), stream, typeCode, report)
	if err != nil {
		f.Close()
		return nil, err
	}

	result, err := t.Probe(stream)
	if err != nil {
		f.Close()
		return nil, err
	}
	if result == gamegraphics.DefinitelyNo {
		if !force {
			f.Close()
			return nil, fmt.Errorf("%s is not a %s; use --force to try anyway", path, t.Name())
		}
		if report != nil {
			report(fmt.Sprintf("warning: %s is not a %s, open forced", path, t.Name()))
		}
	}

	supp, suppFiles, err := resolveSupps(t.RequiredSupps(path), suppOverrides)
	if err != nil {
		f.Close()
		return nil, err
	}

	tileset, err := t.Open(stream, supp)
	if err != nil {
		f.Close()
		for _, sf := range suppFiles {
			sf.Close()
		}
		return nil, err
	}
	return &OpenedTileset{Tileset: tileset, primary: f, supp: suppFiles}, nil
}

// OpenedImage is OpenedTileset's counterpart for the single-image CLI.
type OpenedImage struct {
	Image gamegraphics.Image
	file  *os.File
	supp  []*os.File
}

func (o *OpenedImage) Close() error {
	for _, f := range o.supp {
		f.Close()
	}
	return o.file.Close()
}

// OpenImageFile is OpenTilesetFile's counterpart for gameimg.
func OpenImageFile(path, typeCode string, force bool, suppOverrides map[gamegraphics.SuppItem]string, report func(string)) (*OpenedImage, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	stream := gamegraphics.NewFileStream(f)

	t, err := detect(gamegraphics.ImageTypes(), stream, typeCode, report)
	if err != nil {
		f.Close()
		return nil, err
	}

	result, err := t.Probe(stream)
	if err != nil {
		f.Close()
		return nil, err
	}
	if result == gamegraphics.DefinitelyNo {
		if !force {
			f.Close()
			return nil, fmt.Errorf("%s is not a %s; use --force to try anyway", path, t.Name())
		}
		if report != nil {
			report(fmt.Sprintf("warning: %s is not a %s, open forced", path, t.Name()))
		}
	}

	supp, suppFiles, err := resolveSupps(t.RequiredSupps(path), suppOverrides)
	if err != nil {
		f.Close()
		return nil, err
	}

	img, err := t.Open(stream, supp)
	if err != nil {
		f.Close()
		for _, sf := range suppFiles {
			sf.Close()
		}
		return nil, err
	}
	return &OpenedImage{Image: img, file: f, supp: suppFiles}, nil
}
