package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/tui/theme"
)

// ProgressBar renders a block bar followed by its percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = min(max(pct, 0), 1)
	filled := min(int(pct*float64(width)), width)

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled)) +
		pctStyle.Render(fmt.Sprintf(" %.0f%%", pct*100))
}

// ColorForGoal returns red through green as a habit approaches its goal.
func ColorForGoal(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.GreenBright
	case pct >= 0.7:
		return t.Green
	case pct >= 0.4:
		return t.Yellow
	case pct >= 0.2:
		return t.Orange
	default:
		return t.Red
	}
}

// GoalBar renders "label ████░░░░ done/goal" for one habit's monthly goal.
func GoalBar(label string, done, goal, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if goal > 0 {
		pct = min(float64(done)/float64(goal), 1)
	}
	color := ColorForGoal(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	bg := lipgloss.NewStyle().Background(t.Surface)
	labelStyle := bg.Foreground(t.TextPrimary)
	countStyle := bg.Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		bg.Render(" ") +
		bar.ViewAs(pct) +
		bg.Render(" ") +
		countStyle.Render(fmt.Sprintf("%2d/%d", done, goal))
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
