package display

import (
	"fmt"
	"io"

	"github.com/backmassage/deckprep/internal/term"
)

const banner = `     _           _
  __| | ___  ___| | ___ __  _ __ ___ _ __
 / _` + "`" + ` |/ _ \/ __| |/ / '_ \| '__/ _ \ '_ \
| (_| |  __/ (__|   <| |_) | | |  __/ |_) |
 \__,_|\___|\___|_|\_\ .__/|_|  \___| .__/
                     |_|            |_|
`

// PrintBanner writes the ASCII art banner and version line to w, in magenta
// when colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Paint(term.Magenta, banner))
	fmt.Fprintln(w, term.Paint(term.Dim, "  deckprep "+version+" · resample audio for DJ hardware"))
	fmt.Fprintln(w)
}
