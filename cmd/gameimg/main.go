// Command gameimg manipulates single standalone image files: print one
// as ANSI text, extract it to or overwrite it from a PNG file. Unlike
// gametls/gamegfx there is no ID to navigate — the whole file is one
// image — and, following examples/gameimg.cpp, no size-changing action
// (the original ships that command commented out).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camoto-tools/gamegraphics"
	"github.com/camoto-tools/gamegraphics/internal/cliutil"

	_ "github.com/camoto-tools/gamegraphics/formats"
)

var (
	flagType    string
	flagForce   bool
	flagPalette []string
)

func main() {
	root := &cobra.Command{
		Use:   "gameimg",
		Short: "Manipulate single standalone image files",
	}
	root.PersistentFlags().StringVarP(&flagType, "type", "t", "", "file format (default: autodetect)")
	root.PersistentFlags().BoolVarP(&flagForce, "force", "f", false, "open even if the file doesn't match the format")
	root.PersistentFlags().StringArrayVar(&flagPalette, "palette", nil, "supplementary file as TYPE:PATH (TYPE defaults to palette)")

	root.AddCommand(listTypesCmd(), printCmd(), extractCmd(), overwriteCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gameimg: %v\n", err)
		os.Exit(cliutil.ExitBadArgs)
	}
}

func die(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "gameimg: "+format+"\n", args...)
	os.Exit(code)
}

func openTarget(file string) (*cliutil.OpenedImage, error) {
	overrides := map[gamegraphics.SuppItem]string{}
	for _, arg := range flagPalette {
		item, path, err := cliutil.ParseSupp(arg)
		if err != nil {
			return nil, err
		}
		overrides[item] = path
	}
	report := func(msg string) { fmt.Println(msg) }
	return cliutil.OpenImageFile(file, flagType, flagForce, overrides, report)
}

func listTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-types",
		Short: "List the image type codes accepted by --type",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, t := range gamegraphics.ImageTypes() {
				fmt.Printf("%-20s %s\n", t.Code(), t.Name())
			}
		},
	}
}

func printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <file>",
		Short: "Render the image as ANSI text",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()
			if err := cliutil.ImageToANSI(os.Stdout, opened.Image); err != nil {
				die(cliutil.ExitNonCriticalFailure, "%v", err)
			}
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file> [path]",
		Short: "Export the image to a PNG file",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()
			dest := args[0] + ".png"
			if len(args) == 2 {
				dest = args[1]
			}
			if err := cliutil.ImageToPNG(opened.Image, dest, gamegraphics.VGA); err != nil {
				die(cliutil.ExitNonCriticalFailure, "extracting: %v", err)
			}
		},
	}
}

func overwriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overwrite <file> [path]",
		Short: "Replace the image from a PNG file",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			opened, err := openTarget(args[0])
			if err != nil {
				die(cliutil.ExitShowStopper, "%v", err)
			}
			defer opened.Close()
			src := args[0] + ".png"
			if len(args) == 2 {
				src = args[1]
			}
			if err := cliutil.PNGToImage(opened.Image, src); err != nil {
				die(cliutil.ExitNonCriticalFailure, "overwriting: %v", err)
			}
		},
	}
}
