// internal/progress/terminal.go
package progress

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is a file attached to an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Select picks the renderer for a run: nothing when disabled, the animated bar
// on a terminal, and plain lines everywhere else.
func Select(out io.Writer, title string, total int, enabled bool) Renderer {
	switch {
	case !enabled:
		return Discard
	case IsTerminal(out):
		return NewBar(out, title, total)
	default:
		return NewLines(out, title)
	}
}
