package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/tui/theme"
)

// Tab is one entry of the tab bar. The shortcut is the first letter of Name.
type Tab struct {
	Name string
	Key  string
}

// Tabs defines all tabs in display order.
var Tabs = []Tab{
	{Name: "Dashboard", Key: "d"},
	{Name: "Tracker", Key: "t"},
	{Name: "Analytics", Key: "a"},
	{Name: "Profile", Key: "p"},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	bg := lipgloss.NewStyle().Background(t.Surface)
	dim := bg.Foreground(t.TextDim)
	key := bg.Foreground(t.Accent).Bold(true)
	rest := bg.Foreground(t.TextMuted)
	return bg.Render(" ") +
		dim.Render("[") + key.Render(tab.Name[:1]) + dim.Render("]") +
		rest.Render(tab.Name[1:]) +
		bg.Render(" ")
}

// TabVisualWidth is the rendered column width of tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders one row of tabs separated by single spaces.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	row := strings.Join(parts, sep)

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a shortcut key, or -1.
func TabIdxByKey(key string) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
