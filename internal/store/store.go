// Package store provides SQLite-backed persistence for habits and completions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/hbt/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is the habit database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening habit db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func storageErr(op string, err error) error {
	return &model.StorageError{Op: op, Err: err}
}

// Init writes the default settings and profile rows when they are absent.
// The stored period defaults to the month containing now.
func (s *Store) Init(ctx context.Context, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("init", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []struct {
		q    string
		args []any
	}{
		{"INSERT OR IGNORE INTO settings (key, value) VALUES ('year', ?)", []any{strconv.Itoa(now.Year())}},
		{"INSERT OR IGNORE INTO settings (key, value) VALUES ('month', ?)", []any{now.Month().String()}},
		{"INSERT OR IGNORE INTO profile (id) VALUES (1)", nil},
	}
	for _, st := range stmts {
		if _, err := tx.ExecContext(ctx, st.q, st.args...); err != nil {
			return storageErr("init", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("init", err)
	}
	return nil
}

// ListHabits returns every habit ordered by id.
func (s *Store) ListHabits(ctx context.Context) ([]model.Habit, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, goal FROM habits ORDER BY id")
	if err != nil {
		return nil, storageErr("list habits", err)
	}
	defer func() { _ = rows.Close() }()

	var habits []model.Habit
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Goal); err != nil {
			return nil, storageErr("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list habits", err)
	}
	return habits, nil
}

// Habit returns the habit with the given id.
func (s *Store) Habit(ctx context.Context, id int64) (model.Habit, error) {
	h := model.Habit{ID: id}
	err := s.db.QueryRowContext(ctx, "SELECT name, goal FROM habits WHERE id = ?", id).Scan(&h.Name, &h.Goal)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Habit{}, &model.NotFoundError{Kind: "habit", ID: id}
	}
	if err != nil {
		return model.Habit{}, storageErr("get habit", err)
	}
	return h, nil
}

// HabitByName returns the habit with the given name, ignoring case.
func (s *Store) HabitByName(ctx context.Context, name string) (model.Habit, error) {
	var h model.Habit
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, goal FROM habits WHERE name = ? COLLATE NOCASE ORDER BY id LIMIT 1",
		strings.TrimSpace(name)).Scan(&h.ID, &h.Name, &h.Goal)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Habit{}, &model.NotFoundError{Kind: "habit", ID: name}
	}
	if err != nil {
		return model.Habit{}, storageErr("get habit", err)
	}
	return h, nil
}

// CreateHabit inserts a habit. A goal of zero means model.DefaultGoal.
func (s *Store) CreateHabit(ctx context.Context, name string, goal int) (model.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Habit{}, &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if goal == 0 {
		goal = model.DefaultGoal
	}
	if goal < 0 {
		return model.Habit{}, &model.ValidationError{Field: "goal", Value: goal, Reason: "must be positive"}
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO habits (name, goal) VALUES (?, ?)", name, goal)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.Habit{}, &model.ValidationError{Field: "name", Value: name, Reason: "already exists"}
		}
		return model.Habit{}, storageErr("create habit", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Habit{}, storageErr("create habit", err)
	}
	return model.Habit{ID: id, Name: name, Goal: goal}, nil
}

// DeleteHabit removes a habit together with all of its completions.
func (s *Store) DeleteHabit(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("delete habit", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM completions WHERE habit_id = ?", id); err != nil {
		return storageErr("delete habit", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return storageErr("delete habit", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete habit", err)
	}
	if n == 0 {
		return &model.NotFoundError{Kind: "habit", ID: id}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("delete habit", err)
	}
	return nil
}

// CompletedDays returns the sorted days of the month on which the habit
// was completed.
func (s *Store) CompletedDays(ctx context.Context, habitID int64, year int, month time.Month) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT day FROM completions WHERE habit_id = ? AND year = ? AND month = ? AND completed = 1 ORDER BY day",
		habitID, year, int(month))
	if err != nil {
		return nil, storageErr("completed days", err)
	}
	defer func() { _ = rows.Close() }()

	days := []int{}
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, storageErr("completed days", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("completed days", err)
	}
	return days, nil
}

// IsCompletedOn reports whether the habit was completed on the calendar
// date of day. A missing row counts as not completed.
func (s *Store) IsCompletedOn(ctx context.Context, habitID int64, day time.Time) (bool, error) {
	var completed bool
	err := s.db.QueryRowContext(ctx,
		"SELECT completed FROM completions WHERE habit_id = ? AND year = ? AND month = ? AND day = ?",
		habitID, day.Year(), int(day.Month()), day.Day()).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("completion lookup", err)
	}
	return completed, nil
}

// UpsertCompletion records a completion flag. Repeated writes to the same
// (habit, date) overwrite; the last write wins.
func (s *Store) UpsertCompletion(ctx context.Context, c model.Completion) error {
	if err := ValidateDate(c.Year, c.Month, c.Day); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("upsert completion", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM habits WHERE id = ?", c.HabitID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.NotFoundError{Kind: "habit", ID: c.HabitID}
	}
	if err != nil {
		return storageErr("upsert completion", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO completions (habit_id, year, month, day, completed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, year, month, day) DO UPDATE SET completed = excluded.completed`,
		c.HabitID, c.Year, c.Month, c.Day, c.Completed)
	if err != nil {
		return storageErr("upsert completion", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("upsert completion", err)
	}
	return nil
}

// ValidateDate checks that year/month/day name a real calendar date.
func ValidateDate(year, month, day int) error {
	p, err := model.NewPeriod(year, time.Month(month))
	if err != nil {
		return err
	}
	if day < 1 || day > 31 {
		return &model.ValidationError{Field: "day", Value: day, Reason: "must be between 1 and 31"}
	}
	if day > p.DaysIn() {
		return &model.ValidationError{Field: "day", Value: day, Reason: fmt.Sprintf("%s has %d days", p, p.DaysIn())}
	}
	return nil
}

// HabitTotals returns every habit with its all-time completion count.
func (s *Store) HabitTotals(ctx context.Context) ([]model.HabitTotal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT h.id, h.name, h.goal,
		COALESCE(SUM(CASE WHEN c.completed = 1 THEN 1 ELSE 0 END), 0)
		FROM habits h
		LEFT JOIN completions c ON c.habit_id = h.id
		GROUP BY h.id
		ORDER BY h.id`)
	if err != nil {
		return nil, storageErr("habit totals", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []model.HabitTotal
	for rows.Next() {
		var t model.HabitTotal
		if err := rows.Scan(&t.Habit.ID, &t.Habit.Name, &t.Habit.Goal, &t.Completions); err != nil {
			return nil, storageErr("habit totals", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("habit totals", err)
	}
	return totals, nil
}
