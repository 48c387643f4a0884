package cliutil

import (
	"testing"

	"github.com/camoto-tools/gamegraphics"
)

// fakeTileset is a minimal in-memory gamegraphics.Tileset used to
// exercise Navigate/ResolveID without needing a real container format.
type fakeTileset struct {
	entries  []gamegraphics.Entry
	children map[gamegraphics.Handle]*fakeTileset
}

func (f *fakeTileset) Entries() ([]gamegraphics.Entry, error) { return f.entries, nil }

func (f *fakeTileset) EntryByHandle(h gamegraphics.Handle) (gamegraphics.Entry, error) {
	for _, e := range f.entries {
		if e.Handle == h {
			return e, nil
		}
	}
	return gamegraphics.Entry{}, gamegraphics.NewError(gamegraphics.KindOutOfRange, "fake", nil)
}

func (f *fakeTileset) OpenImage(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Image, error) {
	return nil, gamegraphics.NewError(gamegraphics.KindOpen, "fake", nil)
}

func (f *fakeTileset) OpenTileset(h gamegraphics.Handle, supp gamegraphics.SuppMap) (gamegraphics.Tileset, error) {
	sub, ok := f.children[h]
	if !ok {
		return nil, gamegraphics.NewError(gamegraphics.KindOutOfRange, "fake", nil)
	}
	return sub, nil
}

func (f *fakeTileset) Insert(idx int, kind gamegraphics.EntryKind) (gamegraphics.Handle, error) {
	return 0, gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "fake", nil)
}
func (f *fakeTileset) Remove(h gamegraphics.Handle) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "fake", nil)
}
func (f *fakeTileset) Resize(h gamegraphics.Handle, newStoredSize int64) error {
	return gamegraphics.NewError(gamegraphics.KindCapabilityViolation, "fake", nil)
}
func (f *fakeTileset) Flush() error { return nil }

// buildFakeTree builds root(0) -> [image@0, folder@1 -> [image@0, image@1]]
// matching the shape an ID like "0.1+1" addresses.
func buildFakeTree() *fakeTileset {
	sub := &fakeTileset{entries: []gamegraphics.Entry{
		{Handle: 10, Kind: gamegraphics.EntryImage, Index: 0},
		{Handle: 11, Kind: gamegraphics.EntryImage, Index: 1},
	}}
	root := &fakeTileset{
		entries: []gamegraphics.Entry{
			{Handle: 1, Kind: gamegraphics.EntryImage, Index: 0},
			{Handle: 2, Kind: gamegraphics.EntryFolder, Index: 1},
		},
		children: map[gamegraphics.Handle]*fakeTileset{2: sub},
	}
	return root
}

func TestParseID(t *testing.T) {
	cases := []struct {
		id        string
		wantPath  []int
		wantImage int
	}{
		{"0", nil, -1},
		{"0+3", nil, 3},
		{"0.1", []int{1}, -1},
		{"0.1+1", []int{1}, 1},
		{"0.3.1+2", []int{3, 1}, 2},
	}
	for _, c := range cases {
		path, img, err := ParseID(c.id)
		if err != nil {
			t.Fatalf("ParseID(%q): %v", c.id, err)
		}
		if img != c.wantImage {
			t.Fatalf("ParseID(%q) image = %d, want %d", c.id, img, c.wantImage)
		}
		if len(path) != len(c.wantPath) {
			t.Fatalf("ParseID(%q) path = %v, want %v", c.id, path, c.wantPath)
		}
		for i := range path {
			if path[i] != c.wantPath[i] {
				t.Fatalf("ParseID(%q) path = %v, want %v", c.id, path, c.wantPath)
			}
		}
	}
}

func TestParseIDRejectsNonRootAndJunk(t *testing.T) {
	if _, _, err := ParseID("1.2"); err == nil {
		t.Fatal("expected error for ID not starting with root marker")
	}
	if _, _, err := ParseID("0.x"); err == nil {
		t.Fatal("expected error for non-digit character")
	}
}

func TestNavigateAndResolveID(t *testing.T) {
	root := buildFakeTree()

	resolved, err := ResolveID(root, "0.1+1")
	if err != nil {
		t.Fatalf("ResolveID: %v", err)
	}
	if !resolved.IsImage || resolved.Entry.Handle != 11 {
		t.Fatalf("ResolveID(0.1+1) = %+v, want image handle 11", resolved)
	}

	resolved, err = ResolveID(root, "0.1")
	if err != nil {
		t.Fatalf("ResolveID: %v", err)
	}
	if resolved.IsImage {
		t.Fatalf("ResolveID(0.1) resolved to an image, want a tileset")
	}

	if _, err := ResolveID(root, "0.5"); err == nil {
		t.Fatal("expected out-of-range error for missing entry")
	}
	if _, err := ResolveID(root, "0+0"); err != nil {
		t.Fatalf("ResolveID(0+0): %v", err)
	}
	if _, err := ResolveID(root, "0.0+0"); err == nil {
		t.Fatal("expected error: entry 0 of root is an image, not a sub-tileset")
	}
}

func TestSplit(t *testing.T) {
	out1, out2, hasDelim := Split("one=two=three", '=')
	if out1 != "one=two" || out2 != "three" || !hasDelim {
		t.Fatalf("Split = %q, %q, %v", out1, out2, hasDelim)
	}
	out1, out2, hasDelim = Split("nodelim", '=')
	if hasDelim || out1 != "nodelim" || out2 != "nodelim" {
		t.Fatalf("Split = %q, %q, %v", out1, out2, hasDelim)
	}
}
