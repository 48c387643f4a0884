// Command gametls manipulates tileset container files: list their
// contents, extract or replace individual tiles and whole sub-tilesets
// as PNG files, insert new tiles or sub-tilesets, and change the
// dimensions of an individual image whose size is settable. One subcommand per action flag of
// examples/gametls.cpp, translated from that program's single
// multi-action invocation into cobra subcommands per SPEC_FULL.md
// §4.8.3.
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
		Use:   "gametls",
		Short: "Manipulate tileset container files",
	}
	root.PersistentFlags().StringVarP(&flagType, "type", "t", "", "file format (default: autodetect)")
	root.PersistentFlags().BoolVarP(&flagScript, "script", "s", false, "format output for script parsing")
	root.PersistentFlags().BoolVarP(&flagForce, "force", "f", false, "open even if the file doesn't match the format")
	root.PersistentFlags().IntVarP(&flagWidth, "width", "w", 0, "width in tiles when exporting a whole tileset (0: single row)")
	root.PersistentFlags().StringArrayVar(&flagPalette, "palette", nil, "supplementary file as TYPE:PATH (TYPE defaults to palette)")

	root.AddCommand(
		listCmd(),
		listTypesCmd(),
		extractCmd(),
		extractAllImagesCmd(),
		extractAllTilesetsCmd(),
		overwriteCmd(),
		printCmd(),
		insertImageCmd(),
		insertTilesetCmd(),
		setSizeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gametls: %v\n", err)
		os.Exit(cliutil.ExitBadArgs)
	}
}

func suppOverrides() (map[gamegraphics.SuppItem]string, error) {
	overrides := map[gamegraphics.SuppItem]string{}
	for _, arg := range flagPalette {
		item, path, err := cliutil.ParseSupp(arg)
		if err != nil {
			return nil, err
		}
		overrides[item] = path
	}
	return overrides, nil
}

// openTarget opens file with the persistent --type/--force/--palette
// flags, printing autodetect commentary to stdout unless --script was
// given, matching gametls.cpp's verbosity.
func openTarget(file string) (*cliutil.OpenedTileset, error) {
	overrides, err := suppOverrides()
	if err != nil {
		return nil, err
	}
	var report func(string)
	if !flagScript {
		report = func(msg string) { fmt.Println(msg) }
	}
	return cliutil.OpenTilesetFile(file, flagType, flagForce, overrides, report)
}

func die(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "gametls: "+format+"\n", args...)
	os.Exit(code)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "List the tileset's contents",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()
			if err := cliutil.PrintTilesetList(os.Stdout, "0", opened.Tileset, flagScript); err != nil {
				die(cliutil.ExitUncommonFailure, "%v", err)
			}
		},
	}
}

func listTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-types",
		Short: "List the tileset type codes accepted by --type",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, t := range gamegraphics.TilesetTypes() {
				fmt.Printf("%-20s %s\n", t.Code(), t.Name())
			}
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file> <id>[=path]",
		Short: "Extract one tile or whole sub-tileset to a PNG file",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()

			id, dest, hasDest := cliutil.Split(args[1], '=')
			if !hasDest {
				dest += ".png"
			}
			resolved, err := cliutil.ResolveID(opened.Tileset, id)
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
			} else {
				if err := cliutil.TilesetToPNG(resolved.Tileset, flagWidth, dest, gamegraphics.VGA); err != nil {
					die(cliutil.ExitNonCriticalFailure, "extracting %s: %v", id, err)
				}
			}
		},
	}
}

func extractAllImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-all-images <file>",
		Short: "Extract every tile as a separate PNG file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) { runExtractAll(args[0], false) },
	}
}

func extractAllTilesetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-all-tilesets <file>",
		Short: "Extract every sub-tileset as one PNG file per tileset",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) { runExtractAll(args[0], true) },
	}
}

func runExtractAll(file string, asSingleImage bool) {
	opened, err := openTarget(file)
	if err != nil {
		die(cliutil.ExitShowStopper, "%v", err)
	}
	defer opened.Close()
	failed := 0
	if err := cliutil.ExtractAllImages(os.Stdout, "0", asSingleImage, flagWidth, opened.Tileset, gamegraphics.VGA, flagScript, &failed); err != nil {
		die(cliutil.ExitUncommonFailure, "%v", err)
	}
	if failed > 0 {
		os.Exit(cliutil.ExitNonCriticalFailure)
	}
}

func overwriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overwrite <file> <id>[=path]",
		Short: "Replace one tile or whole sub-tileset from a PNG file",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()

			id, src, hasSrc := cliutil.Split(args[1], '=')
			if !hasSrc {
				src += ".png"
			}
			resolved, err := cliutil.ResolveID(opened.Tileset, id)
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
			} else {
				if err := cliutil.PNGToTileset(resolved.Tileset, src); err != nil {
					die(cliutil.ExitNonCriticalFailure, "overwriting %s: %v", id, err)
				}
			}
		},
	}
}

func printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <file> <id>",
		Short: "Render one tile as ANSI text",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()

			resolved, err := cliutil.ResolveID(opened.Tileset, args[1])
			if err != nil || !resolved.IsImage {
				die(cliutil.ExitBadArgs, "--print requires an image ID, not a tileset ID")
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
		Short: "Insert a new tile at ID, populated from a PNG file",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()

			idBefore, src, hasSrc := cliutil.Split(args[1], '=')
			if !hasSrc {
				src += ".png"
			}
			path, imageIndex, err := cliutil.ParseID(idBefore)
			if err != nil || imageIndex < 0 {
				die(cliutil.ExitBadArgs, "invalid ID %q", idBefore)
			}
			tileset, err := cliutil.Navigate(opened.Tileset, path)
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
		Short: "Insert a new, empty sub-tileset at ID",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()

			path, imageIndex, err := cliutil.ParseID(args[1])
			if err != nil || imageIndex < 0 {
				die(cliutil.ExitBadArgs, "invalid ID %q", args[1])
			}
			tileset, err := cliutil.Navigate(opened.Tileset, path)
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
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()

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

			resolved, err := cliutil.ResolveID(opened.Tileset, id)
			if err != nil {
				die(cliutil.ExitNonCriticalFailure, "invalid ID %q: %v", id, err)
			}
			if resolved.IsImage {
				img, err := resolved.Tileset.OpenImage(resolved.Entry.Handle, nil)
				if err != nil {
					die(cliutil.ExitNonCriticalFailure, "%v", err)
				}
				if !img.Caps().Has(gamegraphics.CapSetDimensions) {
					die(cliutil.ExitNonCriticalFailure, "this image's size is fixed")
				}
				if err := img.SetDims(gamegraphics.Point{X: uint(width), Y: uint(height)}); err != nil {
					die(cliutil.ExitNonCriticalFailure, "%v", err)
				}
			} else {
				die(cliutil.ExitBadArgs, "set-size on a whole sub-tileset is not supported; target an image ID")
			}
		},
	}
}
