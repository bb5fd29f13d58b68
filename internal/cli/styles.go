package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles renders command output. Colors are only emitted when the target
// writer is a terminal.
type styles struct {
	heading lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	subtle  lipgloss.Style
	command lipgloss.Style
	rule    lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)

	return &styles{
		heading: r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00875F", Dark: "#5FD787"}),
		warning: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF00"}),
		subtle:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}),
		command: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#87AFFF"}),
		rule:    r.NewStyle().Faint(true),
	}
}

func (s *styles) separator() string {
	return s.rule.Render("--------------------------------------------------")
}
