package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/hbt/internal/model"
)

var testToday = time.Date(2026, time.October, 15, 9, 0, 0, 0, time.Local)

type toggleCall struct {
	habitID int64
	day     time.Time
}

type fakeTracker struct {
	habits  []model.HabitStats
	periods []model.Period
	saved   []model.Period
	toggles []toggleCall
	added   []string
	deleted []int64
	loadErr error
}

func (f *fakeTracker) Today() time.Time { return testToday }

func (f *fakeTracker) DashboardFor(_ context.Context, p model.Period) (model.DashboardStats, error) {
	f.periods = append(f.periods, p)
	if f.loadErr != nil {
		return model.DashboardStats{}, f.loadErr
	}
	return model.DashboardStats{Settings: p, Habits: f.habits}, nil
}

func (f *fakeTracker) SetPeriod(_ context.Context, p model.Period) error {
	f.saved = append(f.saved, p)
	return nil
}

func (f *fakeTracker) Toggle(_ context.Context, id int64, day time.Time) (bool, error) {
	f.toggles = append(f.toggles, toggleCall{id, day})
	return true, nil
}

func (f *fakeTracker) AddHabit(_ context.Context, name string, goal int) (model.Habit, error) {
	f.added = append(f.added, name)
	return model.Habit{ID: 9, Name: name, Goal: goal}, nil
}

func (f *fakeTracker) DeleteHabit(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTracker) UpdateProfile(context.Context, model.Profile) error { return nil }

func newTestApp(t *testing.T) (App, *fakeTracker) {
	t.Helper()
	ft := &fakeTracker{habits: []model.HabitStats{
		{ID: 1, Name: "Reading", Goal: 30, CompletedDays: []int{1, 2}},
		{ID: 2, Name: "Exercise", Goal: 20},
	}}
	a := NewApp(ft, model.PeriodOf(testToday), 30)
	a = step(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})
	a = step(t, a, loadCmd(ft, a.period)())
	if !a.loaded {
		t.Fatal("app not loaded after dashboard message")
	}
	return a, ft
}

func step(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	return m.(App)
}

func stepCmd(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewAppSelectsToday(t *testing.T) {
	a, _ := newTestApp(t)
	if a.day != 15 {
		t.Errorf("day = %d, want 15", a.day)
	}
	if a.activeTab != tabDashboard {
		t.Errorf("activeTab = %d, want dashboard", a.activeTab)
	}
}

func TestTabKeys(t *testing.T) {
	a, _ := newTestApp(t)
	for _, tc := range []struct {
		key  string
		want int
	}{
		{"t", tabTracker},
		{"a", tabAnalytics},
		{"p", tabProfile},
		{"d", tabDashboard},
	} {
		a = step(t, a, keys(tc.key))
		if a.activeTab != tc.want {
			t.Errorf("key %q -> tab %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}

	a = step(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	if a.activeTab != tabProfile {
		t.Errorf("left from dashboard -> %d, want profile", a.activeTab)
	}
}

func TestCursorClampsToHabits(t *testing.T) {
	a, _ := newTestApp(t)
	for range 5 {
		a = step(t, a, keys("j"))
	}
	if a.cursor != 1 {
		t.Errorf("cursor = %d, want 1", a.cursor)
	}
	for range 5 {
		a = step(t, a, keys("k"))
	}
	if a.cursor != 0 {
		t.Errorf("cursor = %d, want 0", a.cursor)
	}
}

func TestTrackerToggleSelectedDay(t *testing.T) {
	a, ft := newTestApp(t)
	a = step(t, a, keys("t"))
	a = step(t, a, keys("j"))
	a = step(t, a, keys("h"))
	a = step(t, a, keys("h"))

	a, cmd := stepCmd(t, a, keys(" "))
	if cmd == nil {
		t.Fatal("toggle returned no command")
	}
	msg := cmd()
	mm, ok := msg.(mutationMsg)
	if !ok || mm.err != nil {
		t.Fatalf("toggle message = %#v", msg)
	}
	if len(ft.toggles) != 1 {
		t.Fatalf("toggles = %v", ft.toggles)
	}
	got := ft.toggles[0]
	if got.habitID != 2 || got.day.Day() != 13 || got.day.Month() != time.October {
		t.Errorf("toggled %d on %s, want habit 2 on Oct 13", got.habitID, got.day.Format(time.DateOnly))
	}

	// A successful write reloads the dashboard.
	a, cmd = stepCmd(t, a, mm)
	if cmd == nil || !a.loading {
		t.Fatal("mutation did not trigger a reload")
	}
	if a.status == "" || a.statusErr {
		t.Errorf("status = %q (err=%v)", a.status, a.statusErr)
	}
}

func TestDayStaysInMonth(t *testing.T) {
	a, _ := newTestApp(t)
	a = step(t, a, keys("t"))
	for range 40 {
		a = step(t, a, keys("L"))
	}
	if a.day != 31 {
		t.Errorf("day = %d, want 31", a.day)
	}
	for range 40 {
		a = step(t, a, keys("h"))
	}
	if a.day != 1 {
		t.Errorf("day = %d, want 1", a.day)
	}
}

func TestMonthNavigation(t *testing.T) {
	a, ft := newTestApp(t)

	a, cmd := stepCmd(t, a, keys("]"))
	want := model.Period{Year: 2026, Month: time.November}
	if a.period != want {
		t.Fatalf("period = %v, want %v", a.period, want)
	}
	if a.day != 1 {
		t.Errorf("day in a future month = %d, want 1", a.day)
	}
	if cmd == nil {
		t.Fatal("no command after changing month")
	}
	// Run both halves of the batch.
	for _, c := range cmd().(tea.BatchMsg) {
		if c != nil {
			c()
		}
	}
	if len(ft.saved) != 1 || ft.saved[0] != want {
		t.Errorf("saved periods = %v", ft.saved)
	}
	if last := ft.periods[len(ft.periods)-1]; last != want {
		t.Errorf("loaded %v, want %v", last, want)
	}

	a = step(t, a, keys("["))
	a = step(t, a, keys("["))
	if a.period != (model.Period{Year: 2026, Month: time.September}) {
		t.Errorf("period = %v, want September 2026", a.period)
	}

	a = step(t, a, keys("T"))
	if a.period != model.PeriodOf(testToday) || a.day != 15 {
		t.Errorf("T -> %v day %d", a.period, a.day)
	}
}

func TestStaleLoadIgnored(t *testing.T) {
	a, ft := newTestApp(t)
	a = step(t, a, keys("t"))
	a = step(t, a, keys("]"))
	a = step(t, a, keys("]"))
	december := model.Period{Year: 2026, Month: time.December}
	if a.period != december {
		t.Fatalf("period = %v, want %v", a.period, december)
	}

	// The December load lands first, then the slower November one.
	a = step(t, a, loadCmd(ft, december)())
	a = step(t, a, loadCmd(ft, december.Prev())())
	if a.dash.Settings != december {
		t.Fatalf("dashboard shows %v while viewing %v", a.dash.Settings, a.period)
	}
	if a.loading {
		t.Error("still loading after the current month arrived")
	}

	_, cmd := stepCmd(t, a, keys(" "))
	if cmd == nil {
		t.Fatal("toggle returned no command")
	}
	cmd()
	if len(ft.toggles) != 1 || ft.toggles[0].day.Month() != time.December {
		t.Errorf("toggles = %v, want one in December", ft.toggles)
	}
}

func TestStaleLoadErrorIgnored(t *testing.T) {
	a, ft := newTestApp(t)
	a = step(t, a, keys("]"))
	a = step(t, a, dashboardMsg{period: model.PeriodOf(testToday), err: errors.New("old failure")})
	if a.statusErr {
		t.Errorf("stale error surfaced: %q", a.status)
	}
	a = step(t, a, loadCmd(ft, a.period)())
	if a.loading || a.dash.Settings != a.period {
		t.Errorf("loading = %v, dashboard %v for %v", a.loading, a.dash.Settings, a.period)
	}
}

func TestLoadErrorShownInStatus(t *testing.T) {
	ft := &fakeTracker{loadErr: errors.New("disk gone")}
	a := NewApp(ft, model.PeriodOf(testToday), 30)
	a = step(t, a, loadCmd(ft, a.period)())
	if a.loaded {
		t.Error("app marked loaded after a failed load")
	}
	if !a.statusErr || a.status != "disk gone" {
		t.Errorf("status = %q (err=%v)", a.status, a.statusErr)
	}
}

func TestSubmitNewHabitForm(t *testing.T) {
	a, ft := newTestApp(t)
	a = step(t, a, keys("n"))
	if a.form == nil || a.formKind != formNewHabit {
		t.Fatal("n did not open the new habit form")
	}
	if a.formVals.goal != "30" {
		t.Errorf("default goal = %q, want 30", a.formVals.goal)
	}

	a.formVals.name = "Drink water"
	a.formVals.goal = "25"
	msg := a.submitForm()()
	if mm := msg.(mutationMsg); mm.err != nil || mm.status != "Added Drink water" {
		t.Errorf("submit = %#v", mm)
	}
	if len(ft.added) != 1 || ft.added[0] != "Drink water" {
		t.Errorf("added = %v", ft.added)
	}
}

func TestDeleteFormNeedsConfirmation(t *testing.T) {
	a, ft := newTestApp(t)
	a = step(t, a, keys("D"))
	if a.formKind != formDeleteHabit || a.formVals.habit.ID != 1 {
		t.Fatalf("delete form for %+v", a.formVals)
	}
	if cmd := a.submitForm(); cmd != nil {
		t.Error("unconfirmed delete produced a command")
	}

	a.formVals.confirm = true
	a.submitForm()()
	if len(ft.deleted) != 1 || ft.deleted[0] != 1 {
		t.Errorf("deleted = %v", ft.deleted)
	}
}

func TestEscClosesForm(t *testing.T) {
	a, _ := newTestApp(t)
	a = step(t, a, keys("n"))
	a = step(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.form != nil || a.formVals != nil {
		t.Error("esc did not close the form")
	}
}

func TestDayWindow(t *testing.T) {
	tests := []struct {
		selected, daysIn, n, first, last int
	}{
		{15, 31, 40, 1, 31},
		{1, 31, 10, 1, 10},
		{15, 31, 10, 10, 19},
		{31, 31, 10, 22, 31},
	}
	for _, tt := range tests {
		first, last := dayWindow(tt.selected, tt.daysIn, tt.n)
		if first != tt.first || last != tt.last {
			t.Errorf("dayWindow(%d, %d, %d) = %d-%d, want %d-%d",
				tt.selected, tt.daysIn, tt.n, first, last, tt.first, tt.last)
		}
	}
}

func TestViewsRender(t *testing.T) {
	a, _ := newTestApp(t)
	for _, key := range []string{"d", "t", "a", "p"} {
		a = step(t, a, keys(key))
		if v := a.View(); v == "" {
			t.Errorf("tab %q rendered empty", key)
		}
	}
	a = step(t, a, keys("?"))
	if !a.showHelp || a.View() == "" {
		t.Error("help overlay not shown")
	}
}
