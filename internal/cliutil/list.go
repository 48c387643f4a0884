package cliutil

import (
	"fmt"
	"io"

	"github.com/camoto-tools/gamegraphics"
)

// PrintTilesetList recursively dumps tileset's contents under prefix
// (pass "0" at the top level), either as the human-readable tree
// gametls.cpp prints or, when script is true, as the "key=value;..."
// lines meant for scripts to parse. Mirrors printTilesetList in
// gametls.cpp/gamegfx.cpp.
func PrintTilesetList(w io.Writer, prefix string, tileset gamegraphics.Tileset, script bool) error {
	entries, err := tileset.Entries()
	if err != nil {
		return err
	}

	if script {
		fmt.Fprintf(w, "id=%s;type=tileset;numitems=%d\n", prefix, len(entries))
	} else {
		fmt.Fprintf(w, "%s: Tileset, %d items\n", prefix, len(entries))
	}

	for j, e := range entries {
		switch e.Kind {
		case gamegraphics.EntryFolder:
			sub, err := tileset.OpenTileset(e.Handle, nil)
			if err != nil {
				return err
			}
			if err := PrintTilesetList(w, fmt.Sprintf("%s.%d", prefix, j), sub, script); err != nil {
				return err
			}
		case gamegraphics.EntryVacant:
			if script {
				fmt.Fprintf(w, "id=%s+%d;type=empty\n", prefix, j)
			} else {
				fmt.Fprintf(w, "%s+%d: Empty slot\n", prefix, j)
			}
		default:
			img, err := tileset.OpenImage(e.Handle, nil)
			if err != nil {
				return err
			}
			dims := img.Dims()
			if script {
				fmt.Fprintf(w, "id=%s+%d;type=image;width=%d;height=%d\n", prefix, j, dims.X, dims.Y)
			} else {
				fmt.Fprintf(w, "%s+%d: Image (%dx%d)\n", prefix, j, dims.X, dims.Y)
			}
		}
	}
	return nil
}

// ExtractAllImages walks tileset recursively, writing every image entry
// to "<prefix>+<index>.png" (or, when tilesetAsSingleImage is true, every
// sub-tileset to a single "<prefix>.png" grid via TilesetToPNG). Mirrors
// extractAllImages in gamegfx.cpp/gametls.cpp. Failures on individual
// entries are reported to w and recorded in failed, rather than aborting
// the walk, matching the originals' "keep going, report non-critical
// failures at the end" behaviour.
func ExtractAllImages(w io.Writer, prefix string, tilesetAsSingleImage bool, widthTiles int, tileset gamegraphics.Tileset, depth gamegraphics.ColourDepth, script bool, failed *int) error {
	entries, err := tileset.Entries()
	if err != nil {
		return err
	}

	for j, e := range entries {
		switch e.Kind {
		case gamegraphics.EntryFolder:
			if tilesetAsSingleImage {
				filename := fmt.Sprintf("%s.%d.png", prefix, j)
				reportStart(w, script, prefix, j, filename, "extracting")
				sub, err := tileset.OpenTileset(e.Handle, nil)
				if err == nil {
					err = TilesetToPNG(sub, widthTiles, filename, depth)
				}
				reportEnd(w, script, err, failed)
			} else {
				sub, err := tileset.OpenTileset(e.Handle, nil)
				if err != nil {
					return err
				}
				if err := ExtractAllImages(w, fmt.Sprintf("%s.%d", prefix, j), tilesetAsSingleImage, widthTiles, sub, depth, script, failed); err != nil {
					return err
				}
			}
		case gamegraphics.EntryImage:
			filename := fmt.Sprintf("%s+%d.png", prefix, j)
			reportStart(w, script, prefix, j, filename, "extracting")
			img, err := tileset.OpenImage(e.Handle, nil)
			if err == nil {
				err = ImageToPNG(img, filename, depth)
			}
			reportEnd(w, script, err, failed)
		}
	}
	return nil
}

func reportStart(w io.Writer, script bool, prefix string, j int, filename, verb string) {
	if script {
		fmt.Fprintf(w, "id=%s+%d;filename=%s;status=", prefix, j, filename)
	} else {
		fmt.Fprintf(w, " %s: %s\n", verb, filename)
	}
}

func reportEnd(w io.Writer, script bool, err error, failed *int) {
	if err != nil {
		*failed++
		if script {
			fmt.Fprintln(w, "fail")
		} else {
			fmt.Fprintf(w, " [failed; %v]\n", err)
		}
		return
	}
	if script {
		fmt.Fprintln(w, "ok")
	}
}
