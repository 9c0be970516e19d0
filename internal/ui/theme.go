package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Styles for terminal output.
type Theme struct {
	Heading lipgloss.Style // Section headings.
	Label   lipgloss.Style // Field labels.
	Dim     lipgloss.Style // Secondary detail.
	OK      lipgloss.Style // Success markers.
	Failed  lipgloss.Style // Failure markers.

	plain bool // Render text unstyled.
}

// Returns the default theme. A plain theme renders text unchanged.
func NewTheme(plain bool) Theme {
	return Theme{
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		OK:      lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		Failed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		plain:   plain,
	}
}

// Renders s with style unless the theme is plain.
func (t Theme) paint(style lipgloss.Style, s string) string {
	if t.plain {
		return s
	}
	return style.Render(s)
}

// Whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
