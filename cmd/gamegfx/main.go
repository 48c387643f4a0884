// Command gamegfx is the generic front door to the library: unlike
// gametls (tileset containers only) and gameimg (standalone images
// only), it autodetects whichever the input file turns out to be and
// exposes whichever of the tileset or image action set applies. Grounded
// on examples/gamegfx.cpp, which runs the same action set as gametls.cpp
// against a TilesetPtr; this port additionally falls back to the single
// -image action set when no registered tileset type claims the file, so
// one binary covers both of the other two tools' primary files.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/cliutil"

	_ "github.com/camoto-tools/gamegraphics/formats"
)

var (
	flagType    string
	flagScript  bool
	flagForce   bool
	flagWidth   int
	flagPalette []string
)

func main() {
	root := &cobra.Command{
		Use:   "gamegfx",
		Short: "Manipulate graphics files (tilesets or standalone images)",
	}
	root.PersistentFlags().StringVarP(&flagType, "type", "t", "", "file format (default: autodetect)")
	root.PersistentFlags().BoolVarP(&flagScript, "script", "s", false, "format output for script parsing")
	root.PersistentFlags().BoolVarP(&flagForce, "force", "f", false, "open even if the file doesn't match the format")
	root.PersistentFlags().IntVarP(&flagWidth, "width", "w", 0, "width in tiles when exporting a whole tileset (0: single row)")
	root.PersistentFlags().StringArrayVar(&flagPalette, "palette", nil, "supplementary file as TYPE:PATH (TYPE defaults to palette)")

	root.AddCommand(
		listCmd(), listTypesCmd(), extractCmd(), extractAllImagesCmd(),
		extractAllTilesetsCmd(), overwriteCmd(), printCmd(),
		insertImageCmd(), insertTilesetCmd(), setSizeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gamegfx: %v\n", err)
		os.Exit(cliutil.ExitBadArgs)
	}
}

func die(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "gamegfx: "+format+"\n", args...)
	os.Exit(code)
}

func suppOverrides() map[gamegraphics.SuppItem]string {
	overrides := map[gamegraphics.SuppItem]string{}
	for _, arg := range flagPalette {
		item, path, err := cliutil.ParseSupp(arg)
		if err != nil {
			die(cliutil.ExitBadArgs, "%v", err)
		}
		overrides[item] = path
	}
	return overrides
}

// target is whichever of tileset-or-image gamegfx resolved file to.
type target struct {
	tileset *cliutil.OpenedTileset
	image   *cliutil.OpenedImage
}

func (t *target) Close() {
	if t.tileset != nil {
		t.tileset.Close()
	}
	if t.image != nil {
		t.image.Close()
	}
}

// openTarget tries the tileset registry first (as gamegfx.cpp does),
// falling back to the image registry when no tileset type claims the
// file — the fallback gametls.cpp/gameimg.cpp don't need, since each of
// those only ever deals with one kind of file.
func openTarget(file string) *target {
	var report func(string)
	if !flagScript {
		report = func(msg string) { fmt.Println(msg) }
	}
	overrides := suppOverrides()

	if _, err := os.Stat(file); err != nil {
		die(cliutil.ExitShowStopper, "%v", err)
	}

	tileset, tlsErr := cliutil.OpenTilesetFile(file, flagType, flagForce, overrides, report)
	if tlsErr == nil {
		return &target{tileset: tileset}
	}

	image, imgErr := cliutil.OpenImageFile(file, flagType, flagForce, overrides, report)
	if imgErr == nil {
		return &target{image: image}
	}

	die(cliutil.ExitBeMoreSpecific, "%s is neither a known tileset nor image format (tileset: %v; image: %v)", file, tlsErr, imgErr)
	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "List the file's contents (tileset files only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			t := openTarget(args[0])
			defer t.Close()
			if t.tileset == nil {
				die(cliutil.ExitBadArgs, "%s is a single image, not a tileset container", args[0])
			}
			if err := cliutil.PrintTilesetList(os.Stdout, "0", t.tileset.Tileset, flagScript); err != nil {
				die(cliutil.ExitUncommonFailure, "%v", err)
			}
		},
	}
}

func listTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-types",
		Short: "List every tileset and image type code accepted by --type",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, t := range gamegraphics.TilesetTypes() {
				fmt.Printf("%-20s %s\n", t.Code(), t.Name())
			}
			for _, t := range gamegraphics.ImageTypes() {
				fmt.Printf("%-20s %s\n", t.Code(), t.Name())
			}
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file> <id>[=path]",
		Short: "Extract one tile, whole sub-tileset, or standalone image to a PNG file",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			t := openTarget(args[0])
			defer t.Close()

			id, dest, hasDest := cliutil.Split(args[1], '=')
			if !hasDest {
				dest += ".png"
			}
			if t.image != nil {
				if err := cliutil.ImageToPNG(t.image.Image, dest, gamegraphics.VGA); err != nil {
					die(cliutil.ExitNonCriticalFailure, "extracting: %v", err)
				}
				return
			}
			resolved, err := cliutil.ResolveID(t.tileset.Tileset, id)
			if err != nil {
				die(cliutil.ExitNonCriticalFailure, "invalid ID %q: %v", id, err)
			}
			if resolved.IsImage {
				img, err := resolved.Tileset.OpenImage(resolved.Entry.Handle, nil)
				if err == nil {
					err = cliutil.ImageToPNG(img, dest, gamegraphics.VGA)
				}
				if err != nil {
					die(cliutil.ExitNonCriticalFailure, "extracting %s: %v", id, err)
				}
			} else if err := cliutil.TilesetToPNG(resolved.Tileset, flagWidth, dest, gamegraphics.VGA); err != nil {
				die(cliutil.ExitNonCriticalFailure, "extracting %s: %v", id, err)
			}
		},
	}
}

func extractAllImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-all-images <file>",
		Short: "Extract every tile as a separate PNG file (tileset files only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) { runExtractAll(args[0], false) },
	}
}

func extractAllTilesetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-all-tilesets <file>",
		Short: "Extract every sub-tileset as one PNG file per tileset (tileset files only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) { runExtractAll(args[0], true) },
	}
}

func runExtractAll(file string, asSingleImage bool) {
	t := openTarget(file)
	defer t.Close()
	if t.tileset == nil {
		die(cliutil.ExitBadArgs, "%s is a single image, not a tileset container", file)
	}
	failed := 0
	if err := cliutil.ExtractAllImages(os.Stdout, "0", asSingleImage, flagWidth, t.tileset.Tileset, gamegraphics.VGA, flagScript, &failed); err != nil {
		die(cliutil.ExitUncommonFailure, "%v", err)
	}
	if failed > 0 {
		os.Exit(cliutil.ExitNonCriticalFailure)
	}
}

func overwriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overwrite <file> <id>[=path]",
		Short: "Replace one tile, whole sub-tileset, or standalone image from a PNG file",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			t := openTarget(args[0])
			defer t.Close()

			id, src, hasSrc := cliutil.Split(args[1], '=')
			if !hasSrc {
				src += ".png"
			}
			if t.image != nil {
				if err := cliutil.PNGToImage(t.image.Image, src); err != nil {
					die(cliutil.ExitNonCriticalFailure, "overwriting: %v", err)
				}
				return
			}
			resolved, err := cliutil.ResolveID(t.tileset.Tileset, id)
			if err != nil {
				die(cliutil.ExitNonCriticalFailure, "invalid ID %q: %v", id, err)
			}
			if resolved.IsImage {
				img, err := resolved.Tileset.OpenImage(resolved.Entry.Handle, nil)
				if err == nil {
					err = cliutil.PNGToImage(img, src)
				}
				if err != nil {
					die(cliutil.ExitNonCriticalFailure, "overwriting %s: %v", id, err)
				}
			} else if err := cliutil.PNGToTileset(resolved.Tileset, src); err != nil {
				die(cliutil.ExitNonCriticalFailure, "overwriting %s: %v", id, err)
			}
		},
	}
}

func printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <file> [id]",
		Short: "Render a tile or the standalone image as ANSI text",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			t := openTarget(args[0])
			defer t.Close()

			if t.image != nil {
				if err := cliutil.ImageToANSI(os.Stdout, t.image.Image); err != nil {
					die(cliutil.ExitNonCriticalFailure, "%v", err)
				}
				return
			}
			if len(args) != 2 {
				die(cliutil.ExitBadArgs, "--print on a tileset file requires an image ID")
			}
			resolved, err := cliutil.ResolveID(t.tileset.Tileset, args[1])
			if err != nil || !resolved.IsImage {
				die(cliutil.ExitBadArgs, "print requires an image ID, not a tileset ID")
			}
			img, err := resolved.Tileset.OpenImage(resolved.Entry.Handle, nil)
			if err != nil {
				die(cliutil.ExitNonCriticalFailure, "%v", err)
			}
			if err := cliutil.ImageToANSI(os.Stdout, img); err != nil {
				die(cliutil.ExitNonCriticalFailure, "%v", err)
			}
		},
	}
}

func insertImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert-image <file> <id>[=path]",
		Short: "Insert a new tile at ID, populated from a PNG file (tileset files only)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			t := openTarget(args[0])
			defer t.Close()
			if t.tileset == nil {
				die(cliutil.ExitBadArgs, "%s is a single image, not a tileset container", args[0])
			}
			idBefore, src, hasSrc := cliutil.Split(args[1], '=')
			if !hasSrc {
				src += ".png"
			}
			path, imageIndex, err := cliutil.ParseID(idBefore)
			if err != nil || imageIndex < 0 {
				die(cliutil.ExitBadArgs, "invalid ID %q", idBefore)
			}
			tileset, err := cliutil.Navigate(t.tileset.Tileset, path)
			if err != nil {
				die(cliutil.ExitNonCriticalFailure, "invalid ID %q: %v", idBefore, err)
			}
			handle, err := tileset.Insert(imageIndex, gamegraphics.EntryImage)
			if err != nil {
				die(cliutil.ExitNonCriticalFailure, "inserting at %s: %v", idBefore, err)
			}
			img, err := tileset.OpenImage(handle, nil)
			if err == nil {
				err = cliutil.PNGToImage(img, src)
			}
			if err != nil {
				die(cliutil.ExitNonCriticalFailure, "inserting at %s: %v", idBefore, err)
			}
		},
	}
}

func insertTilesetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert-tileset <file> <id>",
		Short: "Insert a new, empty sub-tileset at ID (tileset files only)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			t := openTarget(args[0])
			defer t.Close()
			if t.tileset == nil {
				die(cliutil.ExitBadArgs, "%s is a single image, not a tileset container", args[0])
			}
			path, imageIndex, err := cliutil.ParseID(args[1])
			if err != nil || imageIndex < 0 {
				die(cliutil.ExitBadArgs, "invalid ID %q", args[1])
			}
			tileset, err := cliutil.Navigate(t.tileset.Tileset, path)
			if err != nil {
				die(cliutil.ExitNonCriticalFailure, "invalid ID %q: %v", args[1], err)
			}
			if _, err := tileset.Insert(imageIndex, gamegraphics.EntryFolder); err != nil {
				die(cliutil.ExitNonCriticalFailure, "inserting at %s: %v", args[1], err)
			}
		},
	}
}

func setSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-size <file> <id>=<WxH>",
		Short: "Change one image's dimensions (images with a settable size only)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			t := openTarget(args[0])
			defer t.Close()

			id, size, hasSize := cliutil.Split(args[1], '=')
			if !hasSize {
				die(cliutil.ExitBadArgs, "set-size requires ID=WxH")
			}
			wStr, hStr, hasX := cliutil.Split(size, 'x')
			if !hasX {
				die(cliutil.ExitBadArgs, "invalid size %q, want WxH", size)
			}
			width, err1 := strconv.Atoi(wStr)
			height, err2 := strconv.Atoi(hStr)
			if err1 != nil || err2 != nil || width < 1 || height < 1 {
				die(cliutil.ExitBadArgs, "invalid size %q, want WxH", size)
			}

			var img gamegraphics.Image
			if t.image != nil {
				img = t.image.Image
			} else {
				resolved, err := cliutil.ResolveID(t.tileset.Tileset, id)
				if err != nil {
					die(cliutil.ExitNonCriticalFailure, "invalid ID %q: %v", id, err)
				}
				if !resolved.IsImage {
					die(cliutil.ExitBadArgs, "set-size on a whole sub-tileset is not supported; target an image ID")
				}
				img, err = resolved.Tileset.OpenImage(resolved.Entry.Handle, nil)
				if err != nil {
					die(cliutil.ExitNonCriticalFailure, "%v", err)
				}
			}
			if !img.Caps().Has(gamegraphics.CapSetDimensions) {
				die(cliutil.ExitNonCriticalFailure, "this image's size is fixed")
			}
			if err := img.SetDims(gamegraphics.Point{X: uint(width), Y: uint(height)}); err != nil {
				die(cliutil.ExitNonCriticalFailure, "%v", err)
			}
		},
	}
}
