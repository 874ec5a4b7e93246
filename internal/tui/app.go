// Package tui provides the interactive Bubble Tea dashboard for hbt.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/tui/components"
	"github.com/theirongolddev/hbt/internal/tui/theme"
)

// Tracker is the subset of the tracker service the TUI drives.
type Tracker interface {
	Today() time.Time
	DashboardFor(ctx context.Context, p model.Period) (model.DashboardStats, error)
	SetPeriod(ctx context.Context, p model.Period) error
	Toggle(ctx context.Context, habitID int64, day time.Time) (bool, error)
	AddHabit(ctx context.Context, name string, goal int) (model.Habit, error)
	DeleteHabit(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, p model.Profile) error
}

// dashboardMsg carries a freshly built dashboard for period.
type dashboardMsg struct {
	period model.Period
	stats  model.DashboardStats
	err    error
}

// mutationMsg reports the outcome of a write. A successful write triggers a reload.
type mutationMsg struct {
	status string
	err    error
}

const (
	tabDashboard = iota
	tabTracker
	tabAnalytics
	tabProfile
)

const (
	minTerminalWidth = 60
	compactWidth     = 100
	maxContentWidth  = 140
	minContentHeight = 5

	opTimeout = 5 * time.Second
)

// App is the root Bubble Tea model.
type App struct {
	tracker     Tracker
	period      model.Period
	defaultGoal int

	// Data
	dash    model.DashboardStats
	loaded  bool
	loading bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model
	status    string
	statusErr bool

	// Tracker tab selection: habit row and day of month.
	cursor int
	day    int

	// Open modal form, if any.
	form     *huh.Form
	formKind formKind
	formVals *formValues
}

// NewApp creates the TUI model viewing period.
func NewApp(t Tracker, period model.Period, defaultGoal int) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if defaultGoal < 1 {
		defaultGoal = model.DefaultGoal
	}

	a := App{
		tracker:     t,
		period:      period,
		defaultGoal: defaultGoal,
		spinner:     sp,
		loading:     true,
	}
	a.day = a.defaultDay()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, loadCmd(a.tracker, a.period))
}

// defaultDay picks today when viewing the current month, else the 1st.
func (a App) defaultDay() int {
	today := a.tracker.Today()
	if a.period.Contains(today) {
		return today.Day()
	}
	return 1
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 60))
		}
		return a, nil

	case dashboardMsg:
		// A load for a month we have since navigated away from.
		if msg.period != a.period {
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			a.setStatus(msg.err.Error(), true)
			return a, nil
		}
		a.dash = msg.stats
		a.loaded = true
		a.clampCursor()
		return a, nil

	case mutationMsg:
		if msg.err != nil {
			a.setStatus(msg.err.Error(), true)
			return a, nil
		}
		a.setStatus(msg.status, false)
		a.loading = true
		return a, loadCmd(a.tracker, a.period)

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// An open form receives every other message.
	if a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return a.updateMouse(msg)
	case tea.KeyMsg:
		return a.updateKey(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "?":
		a.showHelp = true
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "[":
		return a.changePeriod(a.period.Prev())
	case "]":
		return a.changePeriod(a.period.Next())
	case "T":
		return a.changePeriod(model.PeriodOf(a.tracker.Today()))
	case "r":
		a.loading = true
		return a, loadCmd(a.tracker, a.period)
	case "n":
		return a.openForm(formNewHabit)
	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil
	}

	if idx := components.TabIdxByKey(key); idx >= 0 {
		a.activeTab = idx
		return a, nil
	}

	switch a.activeTab {
	case tabDashboard:
		switch key {
		case "x", " ", "enter":
			return a, a.toggleSelected(a.tracker.Today())
		case "D":
			return a.openForm(formDeleteHabit)
		}
	case tabTracker:
		switch key {
		case "h", ",":
			a.day = max(a.day-1, 1)
		case "l", ".":
			a.day = min(a.day+1, a.period.DaysIn())
		case "H":
			a.day = max(a.day-7, 1)
		case "L":
			a.day = min(a.day+7, a.period.DaysIn())
		case " ", "enter":
			return a, a.toggleSelected(a.selectedDate())
		case "x":
			return a, a.toggleSelected(a.tracker.Today())
		case "D":
			return a.openForm(formDeleteHabit)
		}
	case tabProfile:
		switch key {
		case "e":
			return a.openForm(formProfile)
		case "c":
			return a, a.cycleTheme()
		}
	}
	return a, nil
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
}

func (a *App) clampCursor() {
	a.cursor = min(a.cursor, len(a.dash.Habits)-1)
	a.cursor = max(a.cursor, 0)
	a.day = min(max(a.day, 1), a.period.DaysIn())
}

func (a App) selectedHabit() (model.HabitStats, bool) {
	if a.cursor < 0 || a.cursor >= len(a.dash.Habits) {
		return model.HabitStats{}, false
	}
	return a.dash.Habits[a.cursor], true
}

func (a App) selectedDate() time.Time {
	return a.period.Start().AddDate(0, 0, a.day-1)
}

func (a App) changePeriod(p model.Period) (tea.Model, tea.Cmd) {
	a.period = p
	a.day = a.defaultDay()
	a.loading = true
	return a, tea.Batch(savePeriodCmd(a.tracker, p), loadCmd(a.tracker, p))
}

// toggleSelected flips the selected habit on day.
func (a App) toggleSelected(day time.Time) tea.Cmd {
	h, ok := a.selectedHabit()
	if !ok {
		return nil
	}
	t := a.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		done, err := t.Toggle(ctx, h.ID, day)
		if err != nil {
			return mutationMsg{err: err}
		}
		mark := "not done"
		if done {
			mark = "done"
		}
		return mutationMsg{status: fmt.Sprintf("%s %s on %s", h.Name, mark, day.Format("Jan 2"))}
	}
}

func loadCmd(t Tracker, p model.Period) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		ds, err := t.DashboardFor(ctx, p)
		return dashboardMsg{period: p, stats: ds, err: err}
	}
}

// savePeriodCmd stores the viewed period so the CLI and server follow it.
func savePeriodCmd(t Tracker, p model.Period) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if err := t.SetPeriod(ctx, p); err != nil {
			return mutationMsg{err: err}
		}
		return nil
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  hbt needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ hbt") + sub.Render(" · habit tracker") + "\n\n"
	if a.statusErr {
		body += lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(a.status)
	} else {
		body += a.spinner.View() + sub.Render(" Loading "+a.period.String()+"...")
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	title := bg.Foreground(t.AccentBright).Bold(true)
	section := bg.Foreground(t.Accent).Bold(true)
	keyStyle := bg.Foreground(t.Cyan).Bold(true)
	desc := bg.Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")

	groups := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d t a p", "Jump to tab"},
			{"← → tab", "Previous / next tab"},
			{"[ ] T", "Previous / next / current month"},
			{"j k", "Select habit"},
			{"h l H L", "Select day (Tracker)"},
		}},
		{"Actions", [][2]string{
			{"space", "Toggle selected habit on selected day"},
			{"x", "Toggle selected habit today"},
			{"n", "New habit"},
			{"D", "Delete selected habit"},
			{"e", "Edit profile (Profile)"},
			{"c", "Cycle color theme (Profile)"},
			{"r", "Reload"},
			{"q", "Quit"},
		}},
	}
	for _, g := range groups {
		b.WriteString("\n")
		b.WriteString(section.Render(g.name))
		b.WriteString("\n")
		for _, kv := range g.bindings {
			b.WriteString(keyStyle.Render(fmt.Sprintf("  %-10s", kv[0])))
			b.WriteString(desc.Render(kv[1]))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(bg.Foreground(t.TextDim).Render("Press any key to close"))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3).
		Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	status := a.status
	if a.loading {
		status = "loading..."
	}
	statusBar := components.RenderStatusBar(w, a.period.String(), status, a.statusErr)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabTracker:
		content = a.renderTrackerTab(cw)
	case tabAnalytics:
		content = a.renderAnalyticsTab(cw)
	case tabProfile:
		content = a.renderProfileTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	out := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, out,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabAtX returns the tab index at column x of the tab bar, or -1.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	n := strings.Count(s, "\n") + 1
	if n >= h {
		return s
	}
	return s + strings.Repeat("\n", h-n)
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
