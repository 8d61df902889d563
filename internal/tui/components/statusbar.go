package components

import (
	"strings"

	"github.com/theirongolddev/spendtrack/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind selects the color of the status message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusOK
	StatusError
)

// RenderStatusBar renders the bottom status bar: key hints on the left, the
// latest status message in the middle and right-aligned context on the right.
func RenderStatusBar(width int, hints, msg string, kind StatusKind, right string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	msgStyle := base
	switch kind {
	case StatusOK:
		msgStyle = msgStyle.Foreground(t.Green)
	case StatusError:
		msgStyle = msgStyle.Foreground(t.Red).Bold(true)
	}

	left := base.Render(" "+hints) + base.Render("  ")
	if msg != "" {
		left += msgStyle.Render(msg)
	}
	rightStr := base.Render(right + " ")

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 0)
	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}
