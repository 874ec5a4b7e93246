package store

import (
	"context"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
)

// SampleHabits are created by Seed.
var SampleHabits = []model.Habit{
	{Name: "Morning Meditation", Goal: 25},
	{Name: "Reading Books", Goal: 20},
	{Name: "Daily Exercise", Goal: 28},
	{Name: "Healthy Eating", Goal: 30},
	{Name: "Code Review", Goal: 22},
}

// Seed fills an empty database with the sample habits and marks them done
// on every earlier day of now's month divisible by 2 or 3. Today is left
// open. It does nothing and returns false if any habit exists.
func (s *Store) Seed(ctx context.Context, now time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, storageErr("seed", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		return false, storageErr("seed", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, h := range SampleHabits {
		res, err := tx.ExecContext(ctx, "INSERT INTO habits (name, goal) VALUES (?, ?)", h.Name, h.Goal)
		if err != nil {
			return false, storageErr("seed", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return false, storageErr("seed", err)
		}
		for day := 1; day < now.Day(); day++ {
			if day%2 != 0 && day%3 != 0 {
				continue
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO completions (habit_id, year, month, day, completed) VALUES (?, ?, ?, ?, 1)",
				id, now.Year(), int(now.Month()), day)
			if err != nil {
				return false, storageErr("seed", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, storageErr("seed", err)
	}
	return true, nil
}
