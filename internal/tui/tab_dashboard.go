package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/cli"
	"github.com/theirongolddev/hbt/internal/stats"
	"github.com/theirongolddev/hbt/internal/tui/components"
	"github.com/theirongolddev/hbt/internal/tui/theme"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	ds := a.dash
	ts := ds.TodayStats
	today := a.tracker.Today()
	var b strings.Builder

	bestHabit := ""
	for _, h := range ds.Habits {
		if h.Streak > 0 && h.Streak == ts.MaxStreak {
			bestHabit = h.Name
			break
		}
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Done today", Value: fmt.Sprintf("%d / %d", ts.TotalChecks, len(ds.Habits)), Hint: cli.FormatDate(today)},
		{Label: "Best streak", Value: cli.FormatStreak(ts.MaxStreak), Hint: bestHabit},
		{Label: "Days left", Value: fmt.Sprintf("%d", ts.DaysRemaining), Hint: ds.Settings.String()},
		{Label: "Habits", Value: fmt.Sprintf("%d", len(ds.Habits)), Hint: "n to add"},
	}, cw))
	b.WriteString("\n")

	if ts.Quote.Text != "" {
		quote := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Italic(true).
			Render(fmt.Sprintf("“%s”", ts.Quote.Text))
		author := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("  ~ " + ts.Quote.Author)
		b.WriteString(components.ContentCard("", quote+author, cw))
		b.WriteString("\n")
	}

	if len(ds.Habits) == 0 {
		b.WriteString(components.ContentCard("Habits", "No habits yet. Press n to add one.", cw))
		return b.String()
	}

	inner := components.CardInnerWidth(cw)
	nameW := min(max(inner/4, 12), 24)
	barW := max(inner-nameW-34, 8)

	bg := lipgloss.NewStyle().Background(t.Surface)
	var rows strings.Builder
	for i, h := range ds.Habits {
		check := bg.Foreground(t.TextDim).Render(" · ")
		if h.CompletedToday {
			check = bg.Foreground(t.GreenBright).Bold(true).Render(" ✓ ")
		}
		marker := bg.Render("  ")
		if i == a.cursor {
			marker = bg.Foreground(t.Accent).Bold(true).Render("▸ ")
		}
		gp := stats.Progress(h, ds.Settings, today)
		rows.WriteString(marker + check + bg.Render(" "))
		rows.WriteString(components.GoalBar(h.Name, len(h.CompletedDays), h.Goal, nameW, barW))
		rows.WriteString(bg.Foreground(t.TextMuted).Render(
			fmt.Sprintf("  %3d%%  %-8s %s", gp.Percent, cli.FormatStreak(h.Streak), cli.FormatRate(h.SuccessRate))))
		if i < len(ds.Habits)-1 {
			rows.WriteString("\n")
		}
	}
	b.WriteString(components.ContentCard("Habits  (x toggles today)", rows.String(), cw))
	b.WriteString("\n")

	if h, ok := a.selectedHabit(); ok {
		gp := stats.Progress(h, ds.Settings, today)
		advice := fmt.Sprintf("%s: %d of %d days done, %d to go with %d days left. %s",
			h.Name, len(h.CompletedDays), h.Goal, gp.Remaining, gp.DaysLeft, gp.Advice)
		b.WriteString(components.ContentCard("Goal", bg.Foreground(t.TextPrimary).Render(advice), cw))
	}
	return b.String()
}
