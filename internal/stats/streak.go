package stats

import (
	"context"
	"time"
)

// ComputeStreak counts consecutive completed days ending at ref. An
// incomplete ref does not break the streak: counting then starts the day
// before, so a habit done yesterday but not yet today keeps its streak.
// The walk crosses month and year boundaries and stops at the first
// incomplete day.
func (e *Engine) ComputeStreak(ctx context.Context, habitID int64, ref time.Time) (int, error) {
	if err := validateHabitID(habitID); err != nil {
		return 0, err
	}
	if err := validateDate("reference date", ref); err != nil {
		return 0, err
	}
	streak, _, err := e.streakAt(ctx, habitID, ref)
	return streak, err
}

// streakAt walks back from ref and also reports whether ref itself was
// completed, so callers needing both read ref once.
func (e *Engine) streakAt(ctx context.Context, habitID int64, ref time.Time) (streak int, refDone bool, err error) {
	day := midnight(ref)

	refDone, err = e.src.IsCompletedOn(ctx, habitID, day)
	if err != nil {
		return 0, false, readErr("streak", err)
	}
	if refDone {
		streak = 1
	}
	day = day.AddDate(0, 0, -1)

	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		done, err := e.src.IsCompletedOn(ctx, habitID, day)
		if err != nil {
			return 0, false, readErr("streak", err)
		}
		if !done {
			return streak, refDone, nil
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
