package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustCreate(t *testing.T, s *Store, name string, goal int) model.Habit {
	t.Helper()
	h, err := s.CreateHabit(context.Background(), name, goal)
	if err != nil {
		t.Fatalf("CreateHabit(%q): %v", name, err)
	}
	return h
}

func TestUpsertCompletionLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	h := mustCreate(t, s, "Reading", 20)

	key := model.Completion{HabitID: h.ID, Year: 2026, Month: 10, Day: 5}
	key.Completed = true
	if err := s.UpsertCompletion(ctx, key); err != nil {
		t.Fatal(err)
	}
	key.Completed = false
	if err := s.UpsertCompletion(ctx, key); err != nil {
		t.Fatal(err)
	}

	var rows int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM completions WHERE habit_id = ?", h.ID).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}
	done, err := s.IsCompletedOn(ctx, h.ID, time.Date(2026, time.October, 5, 12, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Fatal("completed = true after overwrite with false")
	}
}

func TestUpsertCompletionValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	h := mustCreate(t, s, "Reading", 20)

	tests := []struct {
		name string
		c    model.Completion
	}{
		{"day zero", model.Completion{HabitID: h.ID, Year: 2026, Month: 10, Day: 0}},
		{"day 32", model.Completion{HabitID: h.ID, Year: 2026, Month: 10, Day: 32}},
		{"feb 30", model.Completion{HabitID: h.ID, Year: 2026, Month: 2, Day: 30}},
		{"month 13", model.Completion{HabitID: h.ID, Year: 2026, Month: 13, Day: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.UpsertCompletion(ctx, tt.c); !model.IsValidation(err) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}

	err := s.UpsertCompletion(ctx, model.Completion{HabitID: 999, Year: 2026, Month: 10, Day: 1, Completed: true})
	if !model.IsNotFound(err) {
		t.Fatalf("unknown habit err = %v, want NotFoundError", err)
	}
}

func TestCompletedDaysSortedAndFiltered(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	h := mustCreate(t, s, "Reading", 20)
	other := mustCreate(t, s, "Running", 20)

	for _, d := range []int{31, 2, 8, 4, 6} {
		if err := s.UpsertCompletion(ctx, model.Completion{HabitID: h.ID, Year: 2026, Month: 10, Day: d, Completed: true}); err != nil {
			t.Fatal(err)
		}
	}
	// Unchecked days, other months and other habits are excluded.
	for _, c := range []model.Completion{
		{HabitID: h.ID, Year: 2026, Month: 10, Day: 10, Completed: false},
		{HabitID: h.ID, Year: 2026, Month: 9, Day: 3, Completed: true},
		{HabitID: other.ID, Year: 2026, Month: 10, Day: 3, Completed: true},
	} {
		if err := s.UpsertCompletion(ctx, c); err != nil {
			t.Fatalf("upsert %+v: %v", c, err)
		}
	}

	got, err := s.CompletedDays(ctx, h.ID, 2026, time.October)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{2, 4, 6, 8, 31}; !reflect.DeepEqual(got, want) {
		t.Fatalf("days = %v, want %v", got, want)
	}

	empty, err := s.CompletedDays(ctx, h.ID, 2026, time.November)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("november days = %v, want none", empty)
	}
}

func TestCreateHabit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	h := mustCreate(t, s, "  Reading  ", 0)
	if h.Name != "Reading" || h.Goal != model.DefaultGoal {
		t.Fatalf("habit = %+v", h)
	}
	if _, err := s.CreateHabit(ctx, "Reading", 10); !model.IsValidation(err) {
		t.Fatalf("duplicate err = %v, want ValidationError", err)
	}
	if _, err := s.CreateHabit(ctx, "   ", 10); !model.IsValidation(err) {
		t.Fatalf("empty name err = %v, want ValidationError", err)
	}
	if _, err := s.CreateHabit(ctx, "Running", -1); !model.IsValidation(err) {
		t.Fatalf("negative goal err = %v, want ValidationError", err)
	}

	mustCreate(t, s, "Running", 12)
	habits, err := s.ListHabits(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 2 || habits[0].Name != "Reading" || habits[1].Name != "Running" {
		t.Fatalf("habits = %+v", habits)
	}

	byName, err := s.HabitByName(ctx, "running")
	if err != nil || byName.Goal != 12 {
		t.Fatalf("HabitByName = %+v, %v", byName, err)
	}
}

func TestDeleteHabitRemovesCompletions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	h := mustCreate(t, s, "Reading", 20)
	if err := s.UpsertCompletion(ctx, model.Completion{HabitID: h.ID, Year: 2026, Month: 10, Day: 1, Completed: true}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM completions").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("completions left = %d, want 0", n)
	}
	if err := s.DeleteHabit(ctx, h.ID); !model.IsNotFound(err) {
		t.Fatalf("second delete err = %v, want NotFoundError", err)
	}
	if _, err := s.Habit(ctx, h.ID); !model.IsNotFound(err) {
		t.Fatalf("Habit after delete err = %v, want NotFoundError", err)
	}
}

func TestPeriodSettings(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, ok, err := s.Period(ctx); err != nil || ok {
		t.Fatalf("empty Period ok=%v err=%v", ok, err)
	}

	now := time.Date(2026, time.October, 15, 8, 0, 0, 0, time.Local)
	if err := s.Init(ctx, now); err != nil {
		t.Fatal(err)
	}
	p, ok, err := s.Period(ctx)
	if err != nil || !ok || p != (model.Period{Year: 2026, Month: time.October}) {
		t.Fatalf("Period after Init = %v, %v, %v", p, ok, err)
	}

	var stored string
	if err := s.db.QueryRow("SELECT value FROM settings WHERE key = 'month'").Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored != "October" {
		t.Fatalf("stored month = %q, want name", stored)
	}

	feb := model.Period{Year: 2027, Month: time.February}
	if err := s.SetPeriod(ctx, feb); err != nil {
		t.Fatal(err)
	}
	// Init must not clobber an existing choice.
	if err := s.Init(ctx, now); err != nil {
		t.Fatal(err)
	}
	if p, _, _ := s.Period(ctx); p != feb {
		t.Fatalf("Period = %v, want %v", p, feb)
	}
	if err := s.SetPeriod(ctx, model.Period{Year: 2027, Month: 0}); !model.IsValidation(err) {
		t.Fatalf("invalid period err = %v", err)
	}
}

func TestProfileDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p, err := s.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p != model.DefaultProfile() {
		t.Fatalf("default profile = %+v", p)
	}

	want := model.Profile{Name: "Ada", Bio: "Early riser", Location: "London"}
	if err := s.UpdateProfile(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("profile = %+v, want %+v", got, want)
	}
}

func TestSeedAndTotals(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	now := time.Date(2026, time.October, 10, 9, 0, 0, 0, time.Local)

	seeded, err := s.Seed(ctx, now)
	if err != nil || !seeded {
		t.Fatalf("Seed = %v, %v", seeded, err)
	}
	again, err := s.Seed(ctx, now)
	if err != nil || again {
		t.Fatalf("second Seed = %v, %v", again, err)
	}

	totals, err := s.HabitTotals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != len(SampleHabits) {
		t.Fatalf("totals = %d habits, want %d", len(totals), len(SampleHabits))
	}
	// Days 1-9 divisible by 2 or 3: 2,3,4,6,8,9.
	for _, tot := range totals {
		if tot.Completions != 6 {
			t.Errorf("%s completions = %d, want 6", tot.Habit.Name, tot.Completions)
		}
	}
	done, err := s.IsCompletedOn(ctx, totals[0].Habit.ID, now)
	if err != nil || done {
		t.Fatalf("today seeded = %v, %v; want false", done, err)
	}
}
