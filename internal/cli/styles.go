package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for diagnostics.
const (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorWarning = lipgloss.Color("#F59E0B")
)

// Styles used on the diagnostic stream. Command output on stdout is never
// styled so it stays pipeable.
type Styles struct {
	Title   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles returns styles rendered for w. Color is dropped when noColor is
// set or w is not a terminal.
func NewStyles(w io.Writer, noColor bool) Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		return Styles{Title: r.NewStyle(), Warning: r.NewStyle(), Muted: r.NewStyle()}
	}
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(ColorPrimary),
		Warning: r.NewStyle().Bold(true).Foreground(ColorWarning),
		Muted:   r.NewStyle().Foreground(ColorMuted),
	}
}
