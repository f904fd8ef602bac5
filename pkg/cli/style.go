package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/muesli/termenv"
)

// errorStyle renders failure text in red when the runtime's stream is a
// terminal and as plain text otherwise.
func errorStyle(w io.Writer, rt *toolkit.Runtime) lipgloss.Style {
	// profile follows the runtime stream, not w
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	renderer.SetColorProfile(termenv.Ascii)
	if isTTY(rt) {
		renderer.SetColorProfile(termenv.ANSI256)
	}
	return renderer.NewStyle().Foreground(lipgloss.Color("#FF0000"))
}

func isTTY(rt *toolkit.Runtime) bool {
	if rt == nil {
		return false
	}
	stream := rt.Stream()
	return stream != nil && stream.IsTTY
}
