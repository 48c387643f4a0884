// Package formats registers every known codec and container with the
// root gamegraphics registry as a side effect of being imported. A
// caller that wants the full set of formats available to
// gamegraphics.IdentifyImage/IdentifyTileset/OpenImage/OpenTileset need
// only blank-import this package once, typically from main.
//
// internal/tileset/imagelist is deliberately not imported here: it has
// no on-disk signature to probe for and is built programmatically by a
// caller, not discovered by IdentifyTileset.
package formats

import (
	_ "github.com/camoto-tools/gamegraphics/internal/pcxcodec"
	_ "github.com/camoto-tools/gamegraphics/internal/tileset/ccaves"
	_ "github.com/camoto-tools/gamegraphics/internal/tileset/ddave"
	_ "github.com/camoto-tools/gamegraphics/internal/tileset/hocus"
	_ "github.com/camoto-tools/gamegraphics/internal/tileset/jill"
)
