package stats

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
)

// Aggregate computes per-habit figures for period and the combined daily
// and weekly completion counts. Streaks and completedToday are evaluated
// against today, not the period.
func (e *Engine) Aggregate(ctx context.Context, habits []model.Habit, period model.Period, today time.Time) (model.Aggregate, error) {
	if err := period.Validate(); err != nil {
		return model.Aggregate{}, err
	}
	if err := validateDate("today", today); err != nil {
		return model.Aggregate{}, err
	}
	for _, h := range habits {
		if err := validateHabitID(h.ID); err != nil {
			return model.Aggregate{}, err
		}
	}

	agg := model.Aggregate{Habits: make([]model.HabitStats, 0, len(habits))}
	today = midnight(today)

	for _, h := range habits {
		raw, err := e.src.CompletedDays(ctx, h.ID, period.Year, period.Month)
		if err != nil {
			return model.Aggregate{}, readErr("completed days", err)
		}
		days := slices.Clone(raw)
		slices.Sort(days)
		if days == nil {
			days = []int{}
		}

		for _, d := range days {
			if d < 1 || d > model.DaysInBucket {
				continue
			}
			agg.Analytics.DailyLine[d-1]++
			if w := (d - 1) / 7; w < model.WeeksInBucket {
				agg.Analytics.WeeklyBar[w]++
			}
		}

		streak, doneToday, err := e.streakAt(ctx, h.ID, today)
		if err != nil {
			return model.Aggregate{}, err
		}

		agg.Habits = append(agg.Habits, model.HabitStats{
			ID:             h.ID,
			Name:           h.Name,
			Goal:           h.Goal,
			CompletedDays:  days,
			Streak:         streak,
			SuccessRate:    SuccessRate(len(days)),
			CompletedToday: doneToday,
		})
	}

	return agg, nil
}

// SuccessRate is completed days over a fixed 31-day month, as a percentage.
func SuccessRate(completed int) float64 {
	return float64(completed) / model.DaysInBucket * 100
}

// Progress reports a habit's standing against its monthly goal.
func Progress(h model.HabitStats, period model.Period, today time.Time) model.GoalProgress {
	done := len(h.CompletedDays)
	gp := model.GoalProgress{
		Remaining: max(h.Goal-done, 0),
		DaysLeft:  period.DaysRemaining(today),
	}
	if h.Goal > 0 {
		gp.Percent = min(100, int(math.Round(float64(done)/float64(h.Goal)*100)))
	}

	switch {
	case gp.Remaining == 0:
		gp.Advice = "Well done! Keep it up."
	case gp.Remaining > gp.DaysLeft:
		gp.Advice = "Do it daily to lower the gap!"
	default:
		gp.Advice = "Do this daily to keep up with the target."
	}
	return gp
}
