package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/tui/theme"
)

// MonthGrid renders a Monday-first calendar of p. Completed days are
// highlighted, today is underlined and selected (0 for none) is inverted.
func MonthGrid(p model.Period, completed []int, today time.Time, selected int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	head := bg.Foreground(t.TextMuted).Bold(true)

	done := make(map[int]bool, len(completed))
	for _, d := range completed {
		done[d] = true
	}

	var b strings.Builder
	b.WriteString(head.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))
	b.WriteString("\n")

	// Weekday of the 1st, Monday = 0.
	offset := (int(p.Start().Weekday()) + 6) % 7
	b.WriteString(bg.Render(strings.Repeat("    ", offset)))

	col := offset
	for d := 1; d <= p.DaysIn(); d++ {
		style := bg.Foreground(t.TextDim)
		switch {
		case done[d]:
			style = bg.Foreground(t.GreenBright).Bold(true)
		case !p.Start().AddDate(0, 0, d-1).After(today):
			style = bg.Foreground(t.TextPrimary)
		}
		if p.Contains(today) && d == today.Day() {
			style = style.Underline(true)
		}
		if d == selected {
			style = style.Reverse(true)
		}

		b.WriteString(bg.Render(" "))
		b.WriteString(style.Render(fmt.Sprintf("%2d", d)))
		b.WriteString(bg.Render(" "))

		col++
		if col == 7 && d < p.DaysIn() {
			b.WriteString("\n")
			col = 0
		}
	}
	return b.String()
}
