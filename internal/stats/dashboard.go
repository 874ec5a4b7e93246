package stats

import (
	"context"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
)

// BuildDashboard aggregates period and adds today's totals, the best
// current streak and a quote. Profile is left for the caller to fill.
func (e *Engine) BuildDashboard(ctx context.Context, habits []model.Habit, period model.Period, today time.Time) (model.DashboardStats, error) {
	agg, err := e.Aggregate(ctx, habits, period, today)
	if err != nil {
		return model.DashboardStats{}, err
	}

	ts := model.TodayStats{
		Quote:         e.Quote(),
		ServerDate:    model.NewServerDate(today),
		DaysRemaining: period.DaysRemaining(today),
	}
	for _, h := range agg.Habits {
		if h.CompletedToday {
			ts.TotalChecks++
		}
		ts.MaxStreak = max(ts.MaxStreak, h.Streak)
	}

	return model.DashboardStats{
		Settings:   period,
		Habits:     agg.Habits,
		TodayStats: ts,
		Analytics:  agg.Analytics,
	}, nil
}

// Quote picks one quote from the table. An empty table yields a zero Quote.
func (e *Engine) Quote() model.Quote {
	if len(e.quotes) == 0 {
		return model.Quote{}
	}
	i := e.pick(len(e.quotes))
	if i < 0 || i >= len(e.quotes) {
		i = 0
	}
	return e.quotes[i]
}
