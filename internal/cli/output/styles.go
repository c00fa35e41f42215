package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by a Renderer.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	ID      lipgloss.Style
	Keyword lipgloss.Style
	Caret   lipgloss.Style
}

// newStyles builds styles bound to lg. Without a TTY the ASCII profile is
// used so no escape codes are written.
func newStyles(lg *lipgloss.Renderer, isTTY bool) *Styles {
	if !isTTY {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Header:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Success: lg.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lg.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning: lg.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lg.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:   lg.NewStyle().Foreground(lipgloss.Color("8")),
		ID:      lg.NewStyle().Foreground(lipgloss.Color("13")),
		Keyword: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		Caret:   lg.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}
