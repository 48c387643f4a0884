// Package cliutil holds the logic shared by cmd/gamegfx, cmd/gameimg, and
// cmd/gametls: dotted/plus-suffixed ID parsing and navigation, PNG
// import/export for single images and whole tilesets, ANSI preview
// rendering, and the autodetect/open/force flow every command repeats.
// It mirrors examples/common.hpp and examples/pngutil.hpp, which the
// original programs shared in exactly the same way.
package cliutil

import (
	"fmt"

	"github.com/camoto-tools/gamegraphics"
)

// ParseID splits a dotted/plus-suffixed ID like "0.3.1+2" into the
// sub-tileset path from the root ("0" itself is the root marker and is
// not included) and, if the ID ends in "+N", the image index within the
// tileset that path reaches. imageIndex is -1 when the ID names a
// tileset rather than an image.
//
// The original exploder (examples/gametls.cpp, examples/gamegfx.cpp)
// walks the string the same way but tests each character with
// `(c >= '0') || (c <= '9')`, a disjunction that is always true, so it
// never actually rejects a malformed ID; spec.md §9 flags this as a
// likely bug rather than an intended laxity. This parser uses the
// conjunction, since an ID containing a stray letter is a user typo we
// should report, not silently digest.
func ParseID(id string) (path []int, imageIndex int, err error) {
	var parts []int
	next := 0
	img := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c == '.' || c == '+':
			parts = append(parts, next)
			next = 0
			img = c == '+'
		case c >= '0' && c <= '9':
			next = next*10 + int(c-'0')
		default:
			return nil, 0, fmt.Errorf("invalid ID %q: unexpected character %q", id, c)
		}
	}
	parts = append(parts, next)

	imageIndex = -1
	if img {
		imageIndex = next
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 || parts[0] != 0 {
		return nil, 0, fmt.Errorf("invalid ID %q: must start with the root marker \"0\"", id)
	}
	return parts[1:], imageIndex, nil
}

// Navigate descends from root through path, each element selecting a
// sub-tileset entry by index, and returns the tileset that path reaches.
// An empty path returns root unchanged.
func Navigate(root gamegraphics.Tileset, path []int) (gamegraphics.Tileset, error) {
	cur := root
	for _, idx := range path {
		entries, err := cur.Entries()
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(entries) {
			return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "cliutil", fmt.Errorf("no entry %d", idx))
		}
		if entries[idx].Kind != gamegraphics.EntryFolder {
			return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "cliutil", fmt.Errorf("entry %d is not a sub-tileset", idx))
		}
		next, err := cur.OpenTileset(entries[idx].Handle, nil)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Resolved is what an ID resolves to: either a tileset (IsImage false,
// Entry unset) or a single image within Tileset at Entry (IsImage true).
type Resolved struct {
	Tileset gamegraphics.Tileset
	Entry   gamegraphics.Entry
	IsImage bool
}

// ResolveID parses id and walks root to find what it names.
func ResolveID(root gamegraphics.Tileset, id string) (Resolved, error) {
	path, imageIndex, err := ParseID(id)
	if err != nil {
		return Resolved{}, err
	}
	tileset, err := Navigate(root, path)
	if err != nil {
		return Resolved{}, err
	}
	if imageIndex < 0 {
		return Resolved{Tileset: tileset}, nil
	}
	entries, err := tileset.Entries()
	if err != nil {
		return Resolved{}, err
	}
	if imageIndex < 0 || imageIndex >= len(entries) {
		return Resolved{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "cliutil", fmt.Errorf("no image %d", imageIndex))
	}
	if entries[imageIndex].Kind != gamegraphics.EntryImage {
		return Resolved{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "cliutil", fmt.Errorf("entry %d is not an image", imageIndex))
	}
	return Resolved{Tileset: tileset, Entry: entries[imageIndex], IsImage: true}, nil
}

// Split divides in two at the last occurrence of delim, e.g.
// "one=two" -> ("one", "two", true); "four" -> ("four", "four", false).
// Mirrors examples/gametls.cpp's split() (find_last_of), used for the
// "ID=path" and "ID=WxH" forms several flags accept.
func Split(in string, delim byte) (out1, out2 string, hasDelim bool) {
	for i := len(in) - 1; i >= 0; i-- {
		if in[i] == delim {
			return in[:i], in[i+1:], true
		}
	}
	return in, in, false
}
