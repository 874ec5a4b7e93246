package stats

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
)

var october = model.Period{Year: 2026, Month: time.October}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func TestAggregateReadingExample(t *testing.T) {
	r := newFakeReader()
	r.markDays(1, 2026, time.October, 31, 8, 2, 6, 4)
	habits := []model.Habit{{ID: 1, Name: "Reading", Goal: 20}}

	agg, err := NewEngine(r).Aggregate(context.Background(), habits, october, date(2026, 10, 31))
	if err != nil {
		t.Fatal(err)
	}

	var wantDaily [31]int
	for _, d := range []int{2, 4, 6, 8, 31} {
		wantDaily[d-1] = 1
	}
	if agg.Analytics.DailyLine != wantDaily {
		t.Errorf("daily = %v, want %v", agg.Analytics.DailyLine, wantDaily)
	}
	// Days 2, 4 and 6 fall in week 0; day 8 starts week 1.
	if want := [5]int{3, 1, 0, 0, 1}; agg.Analytics.WeeklyBar != want {
		t.Errorf("weekly = %v, want %v", agg.Analytics.WeeklyBar, want)
	}

	h := agg.Habits[0]
	if want := []int{2, 4, 6, 8, 31}; !reflect.DeepEqual(h.CompletedDays, want) {
		t.Errorf("completed days = %v, want %v", h.CompletedDays, want)
	}
	if math.Abs(h.SuccessRate-16.129) > 0.01 {
		t.Errorf("success rate = %.3f, want ~16.13", h.SuccessRate)
	}
	if !h.CompletedToday || h.Streak != 1 {
		t.Errorf("today = %v streak = %d, want true/1", h.CompletedToday, h.Streak)
	}
}

func TestAggregateReadsTodayOnce(t *testing.T) {
	r := newFakeReader()
	r.markDays(1, 2026, time.October, 2, 31)
	habits := []model.Habit{{ID: 1, Name: "Reading", Goal: 20}}

	agg, err := NewEngine(r).Aggregate(context.Background(), habits, october, date(2026, 10, 31))
	if err != nil {
		t.Fatal(err)
	}
	if h := agg.Habits[0]; !h.CompletedToday || h.Streak != 1 {
		t.Fatalf("today = %v streak = %d, want true/1", h.CompletedToday, h.Streak)
	}
	// CompletedDays, then Oct 31 and Oct 30 for the streak walk.
	if r.calls != 3 {
		t.Errorf("store reads = %d, want 3", r.calls)
	}
}

func TestAggregateLateDaysShareLastWeek(t *testing.T) {
	r := newFakeReader()
	r.markDays(1, 2026, time.October, 29, 30, 31)
	r.markDays(2, 2026, time.October, 1, 7, 8, 28, 29)
	habits := []model.Habit{{ID: 1, Name: "A", Goal: 10}, {ID: 2, Name: "B", Goal: 10}}

	agg, err := NewEngine(r).Aggregate(context.Background(), habits, october, date(2026, 11, 3))
	if err != nil {
		t.Fatal(err)
	}
	if want := [5]int{2, 1, 0, 1, 4}; agg.Analytics.WeeklyBar != want {
		t.Errorf("weekly = %v, want %v", agg.Analytics.WeeklyBar, want)
	}
	if d, w := sum(agg.Analytics.DailyLine[:]), sum(agg.Analytics.WeeklyBar[:]); d != w {
		t.Errorf("sum daily %d != sum weekly %d", d, w)
	}
}

func TestAggregateTodayIsIndependentOfPeriod(t *testing.T) {
	r := newFakeReader()
	today := date(2026, 10, 15)
	r.mark(1, today, date(2026, 10, 14))
	r.markDays(1, 2026, time.March, 3)
	habits := []model.Habit{{ID: 1, Name: "Reading", Goal: 20}}

	agg, err := NewEngine(r).Aggregate(context.Background(), habits, model.Period{Year: 2026, Month: time.March}, today)
	if err != nil {
		t.Fatal(err)
	}
	h := agg.Habits[0]
	if !reflect.DeepEqual(h.CompletedDays, []int{3}) {
		t.Errorf("march days = %v", h.CompletedDays)
	}
	if h.Streak != 2 || !h.CompletedToday {
		t.Errorf("streak = %d today = %v, want 2/true", h.Streak, h.CompletedToday)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	r := newFakeReader()
	r.markDays(1, 2026, time.October, 1, 2, 3, 15)
	r.markDays(2, 2026, time.October, 3, 4)
	habits := []model.Habit{{ID: 1, Name: "A", Goal: 5}, {ID: 2, Name: "B", Goal: 5}}
	e := NewEngine(r)

	first, err := e.Aggregate(context.Background(), habits, october, date(2026, 10, 4))
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Aggregate(context.Background(), habits, october, date(2026, 10, 4))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate changed between runs:\n%+v\n%+v", first, second)
	}
}

func TestAggregateNoHabits(t *testing.T) {
	agg, err := NewEngine(newFakeReader()).Aggregate(context.Background(), nil, october, date(2026, 10, 4))
	if err != nil {
		t.Fatal(err)
	}
	if len(agg.Habits) != 0 || agg.Analytics != (model.Analytics{}) {
		t.Fatalf("agg = %+v, want empty", agg)
	}
}

func TestAggregateValidation(t *testing.T) {
	r := newFakeReader()
	e := NewEngine(r)
	ctx := context.Background()

	if _, err := e.Aggregate(ctx, []model.Habit{{ID: 1}}, model.Period{Year: 2026, Month: 13}, date(2026, 10, 4)); !model.IsValidation(err) {
		t.Errorf("bad month err = %v", err)
	}
	if _, err := e.Aggregate(ctx, []model.Habit{{ID: 1}, {ID: -2}}, october, date(2026, 10, 4)); !model.IsValidation(err) {
		t.Errorf("bad id err = %v", err)
	}
	if _, err := e.Aggregate(ctx, []model.Habit{{ID: 1}}, october, time.Time{}); !model.IsValidation(err) {
		t.Errorf("zero today err = %v", err)
	}
	if r.calls != 0 {
		t.Errorf("reader calls = %d, want 0", r.calls)
	}
}

func TestAggregateStorageError(t *testing.T) {
	r := newFakeReader()
	r.err = errDiskGone
	_, err := NewEngine(r).Aggregate(context.Background(), []model.Habit{{ID: 1}}, october, date(2026, 10, 4))
	if !model.IsStorage(err) {
		t.Fatalf("err = %v, want StorageError", err)
	}
}

func TestProgress(t *testing.T) {
	today := date(2026, 10, 25)
	tests := []struct {
		name       string
		done, goal int
		wantPct    int
		wantRemain int
		wantAdvice string
	}{
		{"met", 22, 20, 100, 0, "Well done! Keep it up."},
		{"behind", 5, 20, 25, 15, "Do it daily to lower the gap!"},
		{"on track", 15, 20, 75, 5, "Do this daily to keep up with the target."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := model.HabitStats{Goal: tt.goal, CompletedDays: make([]int, tt.done)}
			gp := Progress(h, october, today)
			if gp.Percent != tt.wantPct || gp.Remaining != tt.wantRemain || gp.Advice != tt.wantAdvice {
				t.Fatalf("progress = %+v", gp)
			}
			if gp.DaysLeft != 7 {
				t.Fatalf("days left = %d, want 7", gp.DaysLeft)
			}
		})
	}
}
