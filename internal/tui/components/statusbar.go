package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left, the viewed
// month and the last status message on the right. isErr colors the message red.
func RenderStatusBar(width int, period, message string, isErr bool) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	hint := bg.Foreground(t.TextMuted)
	key := bg.Foreground(t.Accent).Bold(true)

	left := bg.Render(" ") +
		key.Render("?") + hint.Render(" help  ") +
		key.Render("[ ]") + hint.Render(" month  ") +
		key.Render("q") + hint.Render(" quit")

	msgStyle := bg.Foreground(t.Green)
	if isErr {
		msgStyle = bg.Foreground(t.Red)
	}
	right := ""
	if message != "" {
		right = msgStyle.Render(message) + hint.Render("  ·  ")
	}
	right += bg.Foreground(t.TextPrimary).Bold(true).Render(period) + bg.Render(" ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + bg.Render(strings.Repeat(" ", gap)) + right
}
