package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/hbt/internal/cli"
	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/tui/components"
	"github.com/theirongolddev/hbt/internal/tui/theme"
)

// dayLabels labels every day of the month; the chart drops the ones that collide.
func dayLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

func (a App) renderAnalyticsTab(cw int) string {
	t := theme.Active
	ds := a.dash
	an := ds.Analytics
	daysIn := ds.Settings.DaysIn()

	total := 0
	for _, n := range an.DailyLine {
		total += n
	}

	var b strings.Builder

	chartH := 10
	if a.isCompactLayout() {
		chartH = 6
	}
	daily := an.DailyLine[:daysIn]
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Daily completions  (%s total)", cli.FormatNumber(int64(total))),
		components.BarChart(daily, dayLabels(daysIn), t.Blue, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	weekW := halves[0]
	rateW := halves[1]
	if a.isCompactLayout() {
		weekW, rateW = cw, cw
	}

	peak := 0
	for _, n := range an.WeeklyBar {
		peak = max(peak, n)
	}
	weeks := min((daysIn+6)/7, model.WeeksInBucket)
	labelW := len(cli.FormatWeek(model.WeeksInBucket - 1))
	barW := max(components.CardInnerWidth(weekW)-labelW-5, 5)
	var wk strings.Builder
	for i := 0; i < weeks; i++ {
		if i > 0 {
			wk.WriteString("\n")
		}
		wk.WriteString(components.HBar(cli.FormatWeek(i), an.WeeklyBar[i], peak, labelW, barW, t.Accent))
	}
	weekCard := components.ContentCard("Weekly completions", wk.String(), weekW)

	var rt strings.Builder
	if len(ds.Habits) == 0 {
		rt.WriteString("No habits yet.")
	}
	nameW := min(max(components.CardInnerWidth(rateW)/3, 10), 20)
	for i, h := range ds.Habits {
		if i > 0 {
			rt.WriteString("\n")
		}
		rt.WriteString(components.GoalBar(h.Name, len(h.CompletedDays), model.DaysInBucket, nameW,
			max(components.CardInnerWidth(rateW)-nameW-8, 5)))
	}
	rateCard := components.ContentCard("Success rate (days done of 31)", rt.String(), rateW)

	if a.isCompactLayout() {
		b.WriteString(weekCard)
		b.WriteString("\n")
		b.WriteString(rateCard)
	} else {
		b.WriteString(components.CardRow([]string{weekCard, rateCard}))
	}
	return b.String()
}
