package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/tui/components"
	"github.com/theirongolddev/hbt/internal/tui/theme"
)

func (a App) renderProfileTab(cw int) string {
	t := theme.Active
	p := a.dash.Profile
	bg := lipgloss.NewStyle().Background(t.Surface)
	label := bg.Foreground(t.TextMuted)
	value := bg.Foreground(t.TextPrimary)

	field := func(name, v string) string {
		if v == "" {
			v = "-"
		}
		return label.Render(fmt.Sprintf("%-10s", name)) + value.Render(v)
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Profile  (e to edit)", strings.Join([]string{
		bg.Foreground(t.AccentBright).Bold(true).Render(p.Name),
		"",
		field("Bio", p.Bio),
		field("Location", p.Location),
		field("Avatar", p.AvatarURL),
	}, "\n"), cw))
	b.WriteString("\n")

	total := 0
	for _, n := range a.dash.Analytics.DailyLine {
		total += n
	}
	b.WriteString(components.ContentCard("Settings", strings.Join([]string{
		field("Viewing", a.period.String()),
		field("Theme", t.Name+"  (c to change)"),
		field("Goal", fmt.Sprintf("%d days for new habits", a.defaultGoal)),
		field("Checks", fmt.Sprintf("%d this month across %d habits", total, len(a.dash.Habits))),
		label.Render(fmt.Sprintf("%-10s", "Month")) + components.ProgressBar(monthFill(total, len(a.dash.Habits), a.period.DaysIn()), 24),
	}, "\n"), cw))
	return b.String()
}

// monthFill is the share of possible habit-days checked this month.
func monthFill(checks, habits, days int) float64 {
	if habits == 0 || days == 0 {
		return 0
	}
	return float64(checks) / float64(habits*days)
}
