package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/cli"
	"github.com/theirongolddev/hbt/internal/stats"
	"github.com/theirongolddev/hbt/internal/tui/components"
	"github.com/theirongolddev/hbt/internal/tui/theme"
)

// dayWindow returns the first and last day shown when only n day columns fit.
// The window keeps the selected day visible.
func dayWindow(selected, daysIn, n int) (first, last int) {
	if n >= daysIn {
		return 1, daysIn
	}
	first = max(selected-n/2, 1)
	last = first + n - 1
	if last > daysIn {
		last = daysIn
		first = last - n + 1
	}
	return first, last
}

func (a App) renderTrackerTab(cw int) string {
	t := theme.Active
	ds := a.dash
	p := a.period
	today := a.tracker.Today()

	if len(ds.Habits) == 0 {
		return components.ContentCard("Tracker", "No habits yet. Press n to add one.", cw)
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	inner := components.CardInnerWidth(cw)
	nameW := min(max(inner/5, 10), 20)
	first, last := dayWindow(a.day, p.DaysIn(), max((inner-nameW-2)/2, 7))

	var grid strings.Builder
	grid.WriteString(bg.Render(strings.Repeat(" ", nameW+2)))
	for d := first; d <= last; d++ {
		style := bg.Foreground(t.TextDim)
		if d == a.day {
			style = bg.Foreground(t.Accent).Bold(true)
		}
		grid.WriteString(style.Render(fmt.Sprintf("%2d", d%100)))
	}

	for i, h := range ds.Habits {
		grid.WriteString("\n")
		nameStyle := bg.Foreground(t.TextMuted)
		marker := "  "
		if i == a.cursor {
			nameStyle = bg.Foreground(t.TextPrimary).Bold(true)
			marker = "▸ "
		}
		grid.WriteString(bg.Foreground(t.Accent).Render(marker))
		grid.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(h.Name, nameW))))

		for d := first; d <= last; d++ {
			cell := " ·"
			style := bg.Foreground(t.TextDim)
			if slices.Contains(h.CompletedDays, d) {
				cell = " ■"
				style = bg.Foreground(t.GreenBright)
			} else if p.Start().AddDate(0, 0, d-1).After(today) {
				cell = "  "
			}
			if i == a.cursor && d == a.day {
				style = style.Reverse(true)
			}
			grid.WriteString(style.Render(cell))
		}
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(
		fmt.Sprintf("%s  (space toggles, h/l moves day)", p), grid.String(), cw))
	b.WriteString("\n")

	h, ok := a.selectedHabit()
	if !ok {
		return b.String()
	}

	gp := stats.Progress(h, ds.Settings, today)
	detail := fmt.Sprintf(
		"Selected:  %s\nStreak:    %s\nThis month: %s  (%s)\nGoal:      %d%%, %d days to go\n\n%s",
		cli.FormatDate(a.selectedDate()),
		cli.FormatStreak(h.Streak),
		cli.FormatGoal(len(h.CompletedDays), h.Goal),
		cli.FormatRate(h.SuccessRate),
		gp.Percent, gp.Remaining,
		gp.Advice,
	)

	halves := components.LayoutRow(cw, 2)
	cal := components.ContentCard(h.Name, components.MonthGrid(p, h.CompletedDays, today, a.day), halves[0])
	info := components.ContentCard("Details", bg.Foreground(t.TextPrimary).Render(detail), halves[1])
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard(h.Name, bg.Foreground(t.TextPrimary).Render(detail), cw))
	} else {
		b.WriteString(components.CardRow([]string{cal, info}))
	}
	return b.String()
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
