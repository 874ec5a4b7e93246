// Package stats computes streaks, monthly aggregates and dashboard figures
// from habit completion records.
package stats

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
)

// CompletionReader is the read side of the completion store.
type CompletionReader interface {
	// CompletedDays returns the days of the month on which the habit was completed.
	CompletedDays(ctx context.Context, habitID int64, year int, month time.Month) ([]int, error)
	// IsCompletedOn reports whether the habit was completed on day's calendar date.
	IsCompletedOn(ctx context.Context, habitID int64, day time.Time) (bool, error)
}

// Engine computes habit statistics. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	src    CompletionReader
	quotes []model.Quote
	pick   func(n int) int
}

// Option configures an Engine.
type Option func(*Engine)

// WithQuotes replaces the quote table. The slice is copied.
func WithQuotes(q []model.Quote) Option {
	return func(e *Engine) {
		e.quotes = append([]model.Quote(nil), q...)
	}
}

// WithPicker sets the function that picks a quote index in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) {
		if pick != nil {
			e.pick = pick
		}
	}
}

// NewEngine returns an engine reading completions from src.
func NewEngine(src CompletionReader, opts ...Option) *Engine {
	e := &Engine{
		src:    src,
		quotes: DefaultQuotes(),
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func readErr(op string, err error) error {
	if model.IsStorage(err) {
		return err
	}
	return &model.StorageError{Op: op, Err: err}
}

func validateHabitID(id int64) error {
	if id <= 0 {
		return &model.ValidationError{Field: "habit id", Value: id, Reason: "must be positive"}
	}
	return nil
}

func validateDate(field string, t time.Time) error {
	if t.IsZero() {
		return &model.ValidationError{Field: field, Reason: "date is required"}
	}
	return nil
}

// midnight truncates t to the start of its calendar day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
