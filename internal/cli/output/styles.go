package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette colors.
const (
	colorAccent  = lipgloss.Color("#4CAF50")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#DC3545")
	colorInfo    = lipgloss.Color("#0DCAF0")
	colorMuted   = lipgloss.Color("#6C757D")
)

// Styles are the text styles used by a Renderer.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Key     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(colorAccent).Underline(true),
		Header2: r.NewStyle().Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Success: r.NewStyle().Foreground(colorAccent),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Info:    r.NewStyle().Foreground(colorInfo),
		Key:     r.NewStyle().Foreground(colorMuted).Width(22),
	}
}
