package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/tui/theme"
)

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders counts as a one-line block sparkline.
func Sparkline(values []int, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := 1
	for _, v := range values {
		peak = max(peak, v)
	}

	var buf strings.Builder
	for _, v := range values {
		idx := 1 + v*(len(blocks)-2)/peak
		buf.WriteRune(blocks[min(max(idx, 1), len(blocks)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// BarChart renders a vertical bar chart of counts with a y-axis and
// x-axis labels. It degrades to a sparkline when there is no room.
func BarChart(values []int, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	axis := bg.Foreground(t.TextDim)
	bar := bg.Foreground(color)

	peak := 1
	for _, v := range values {
		peak = max(peak, v)
	}

	yLabelW := max(len(strconv.Itoa(peak))+1, 3)
	n := len(values)
	chartW := max(width-yLabelW-1, n)
	gap := 1
	if chartW < 2*n-1 {
		gap = 0
	}
	barW := min(max((chartW-(n-1)*gap)/n, 1), 4)
	axisLen := n*barW + (n-1)*gap

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := float64(peak) * float64(row) / float64(height)
		bottom := float64(peak) * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = strconv.Itoa(peak)
		} else if row == (height+1)/2 && peak > 1 {
			label = strconv.Itoa(int(top + 0.5))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(bg.Render(" "))
			}
			cell := ' '
			switch fv := float64(v); {
			case fv >= top:
				cell = '█'
			case fv > bottom:
				idx := int((fv - bottom) / (top - bottom) * 8)
				cell = blocks[min(max(idx, 1), 8)]
			}
			b.WriteString(bar.Render(strings.Repeat(string(cell), barW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└", yLabelW, "0")))
	b.WriteString(axis.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n {
		row := []rune(strings.Repeat(" ", axisLen))
		next := 0
		for i, lbl := range labels {
			pos := i * (barW + gap)
			end := pos + len(lbl)
			if pos < next || end > axisLen {
				continue
			}
			copy(row[pos:end], []rune(lbl))
			next = end + 1
		}
		b.WriteString("\n")
		b.WriteString(axis.Render(strings.Repeat(" ", yLabelW+1) + strings.TrimRight(string(row), " ")))
	}
	return b.String()
}

// HBar renders one labelled horizontal bar: "label ████████ 12".
func HBar(label string, value, peak, labelW, barWidth int, color lipgloss.Color) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)

	filled := 0
	if peak > 0 {
		filled = min(value*barWidth/peak, barWidth)
	}
	return bg.Foreground(t.TextMuted).Render(fmt.Sprintf("%-*s ", labelW, truncate(label, labelW))) +
		bg.Foreground(color).Render(strings.Repeat("█", filled)) +
		bg.Foreground(t.TextDim).Render(strings.Repeat("·", barWidth-filled)) +
		bg.Foreground(t.TextPrimary).Bold(true).Render(fmt.Sprintf(" %d", value))
}
