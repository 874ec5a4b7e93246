package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/store"
)

var fixedNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.Local)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return New(st,
		WithClock(func() time.Time { return fixedNow }),
		WithPicker(func(int) int { return 0 }),
	)
}

func TestToggleFlipsState(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	h, err := svc.AddHabit(ctx, "Reading", 20)
	if err != nil {
		t.Fatal(err)
	}

	for i, want := range []bool{true, false, true} {
		got, err := svc.Toggle(ctx, h.ID, fixedNow)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("toggle %d = %v, want %v", i, got, want)
		}
	}
}

func TestDashboardUsesStoredPeriod(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if err := svc.Init(ctx); err != nil {
		t.Fatal(err)
	}
	h, err := svc.AddHabit(ctx, "Reading", 20)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []int{2, 4, 6, 8} {
		if err := svc.Check(ctx, h.ID, time.Date(2026, time.September, d, 0, 0, 0, 0, time.Local), true); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.Check(ctx, h.ID, fixedNow, true); err != nil {
		t.Fatal(err)
	}

	ds, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Settings != model.PeriodOf(fixedNow) {
		t.Fatalf("period = %v, want current month", ds.Settings)
	}
	if got := ds.Habits[0].CompletedDays; len(got) != 1 || got[0] != 15 {
		t.Fatalf("october days = %v", got)
	}

	sep := model.Period{Year: 2026, Month: time.September}
	if err := svc.SetPeriod(ctx, sep); err != nil {
		t.Fatal(err)
	}
	ds, err = svc.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Habits[0].CompletedDays) != 4 {
		t.Fatalf("september days = %v", ds.Habits[0].CompletedDays)
	}
	if ds.TodayStats.TotalChecks != 1 || ds.TodayStats.MaxStreak != 1 {
		t.Fatalf("today = %+v", ds.TodayStats)
	}
	if ds.Profile != model.DefaultProfile() {
		t.Fatalf("profile = %+v", ds.Profile)
	}
	if ds.TodayStats.Quote.Author != "Mike Murdock" {
		t.Fatalf("quote = %+v", ds.TodayStats.Quote)
	}
}

func TestResolveHabit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	h, err := svc.AddHabit(ctx, "Daily Exercise", 0)
	if err != nil {
		t.Fatal(err)
	}

	byID, err := svc.ResolveHabit(ctx, "1")
	if err != nil || byID.ID != h.ID {
		t.Fatalf("by id = %+v, %v", byID, err)
	}
	byName, err := svc.ResolveHabit(ctx, "daily exercise")
	if err != nil || byName.ID != h.ID {
		t.Fatalf("by name = %+v, %v", byName, err)
	}
	if _, err := svc.ResolveHabit(ctx, "Juggling"); !model.IsNotFound(err) {
		t.Fatalf("unknown err = %v, want NotFoundError", err)
	}
}

func TestPending(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	a, _ := svc.AddHabit(ctx, "A", 10)
	b, _ := svc.AddHabit(ctx, "B", 10)
	if err := svc.Check(ctx, a.ID, fixedNow, true); err != nil {
		t.Fatal(err)
	}

	pending, err := svc.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Fatalf("pending = %+v, want only B", pending)
	}
}

func TestSeedThenTotals(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if ok, err := svc.Seed(ctx); err != nil || !ok {
		t.Fatalf("Seed = %v, %v", ok, err)
	}
	totals, err := svc.Totals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Days 1-14 divisible by 2 or 3: 2,3,4,6,8,9,10,12,14.
	if len(totals) != 5 || totals[0].Completions != 9 {
		t.Fatalf("totals = %+v", totals)
	}
}

func TestReportIncludesDashboard(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, err := svc.AddHabit(ctx, "Reading", 20); err != nil {
		t.Fatal(err)
	}

	r, err := svc.Report(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if !r.GeneratedAt.Equal(fixedNow) || len(r.Totals) != 1 || r.Dashboard == nil {
		t.Fatalf("report = %+v", r)
	}
	if r.Dashboard.Habits[0].Name != "Reading" {
		t.Fatalf("dashboard habits = %+v", r.Dashboard.Habits)
	}

	r, err = svc.Report(ctx, false)
	if err != nil || r.Dashboard != nil {
		t.Fatalf("report without dashboard = %+v, %v", r.Dashboard, err)
	}
}
