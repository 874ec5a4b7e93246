// Package tracker ties the habit store to the stats engine and exposes the
// operations used by the CLI, the TUI and the HTTP server.
package tracker

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/report"
	"github.com/theirongolddev/hbt/internal/stats"
	"github.com/theirongolddev/hbt/internal/store"
)

// Service is the habit tracker use-case layer.
type Service struct {
	store  *store.Store
	engine *stats.Engine
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	log    *zap.Logger
	now    func() time.Time
	engine []stats.Option
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(o *serviceOptions) { o.log = l }
}

// WithClock overrides the wall clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

// WithQuotes replaces the dashboard quote table.
func WithQuotes(q []model.Quote) Option {
	return func(o *serviceOptions) { o.engine = append(o.engine, stats.WithQuotes(q)) }
}

// WithPicker sets the quote picker.
func WithPicker(pick func(n int) int) Option {
	return func(o *serviceOptions) { o.engine = append(o.engine, stats.WithPicker(pick)) }
}

// New returns a service over st.
func New(st *store.Store, opts ...Option) *Service {
	o := serviceOptions{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		store:  st,
		engine: stats.NewEngine(st, o.engine...),
		log:    o.log,
		now:    o.now,
	}
}

// Today returns the current local time.
func (s *Service) Today() time.Time {
	return s.now()
}

// Init writes default settings rows.
func (s *Service) Init(ctx context.Context) error {
	return s.store.Init(ctx, s.now())
}

// Seed adds the sample habits to an empty database.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	seeded, err := s.store.Seed(ctx, s.now())
	if err != nil {
		return false, err
	}
	if seeded {
		s.log.Info("seeded sample habits", zap.Int("count", len(store.SampleHabits)))
	}
	return seeded, nil
}

// Period returns the stored viewed period, or the current month if none is stored.
func (s *Service) Period(ctx context.Context) (model.Period, error) {
	p, ok, err := s.store.Period(ctx)
	if err != nil {
		return model.Period{}, err
	}
	if !ok {
		return model.PeriodOf(s.now()), nil
	}
	return p, nil
}

// SetPeriod stores the viewed period.
func (s *Service) SetPeriod(ctx context.Context, p model.Period) error {
	if err := s.store.SetPeriod(ctx, p); err != nil {
		return err
	}
	s.log.Debug("period changed", zap.Stringer("period", p))
	return nil
}

// Dashboard builds the dashboard for the stored period.
func (s *Service) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	p, err := s.Period(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return s.DashboardFor(ctx, p)
}

// DashboardFor builds the dashboard for p.
func (s *Service) DashboardFor(ctx context.Context, p model.Period) (model.DashboardStats, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	ds, err := s.engine.BuildDashboard(ctx, habits, p, s.now())
	if err != nil {
		return model.DashboardStats{}, err
	}
	ds.Profile, err = s.store.Profile(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return ds, nil
}

// Habits lists all habits ordered by id.
func (s *Service) Habits(ctx context.Context) ([]model.Habit, error) {
	return s.store.ListHabits(ctx)
}

// ResolveHabit finds a habit by numeric id or by name.
func (s *Service) ResolveHabit(ctx context.Context, ref string) (model.Habit, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.store.Habit(ctx, id)
	}
	return s.store.HabitByName(ctx, ref)
}

// AddHabit creates a habit. A zero goal means the default goal.
func (s *Service) AddHabit(ctx context.Context, name string, goal int) (model.Habit, error) {
	h, err := s.store.CreateHabit(ctx, name, goal)
	if err != nil {
		return model.Habit{}, err
	}
	s.log.Info("habit added", zap.Int64("habit_id", h.ID), zap.String("name", h.Name), zap.Int("goal", h.Goal))
	return h, nil
}

// DeleteHabit removes a habit and its completions.
func (s *Service) DeleteHabit(ctx context.Context, id int64) error {
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		return err
	}
	s.log.Info("habit deleted", zap.Int64("habit_id", id))
	return nil
}

// SetCompletion records c, overwriting any previous value for its date.
func (s *Service) SetCompletion(ctx context.Context, c model.Completion) error {
	if err := s.store.UpsertCompletion(ctx, c); err != nil {
		return err
	}
	s.log.Debug("completion recorded",
		zap.Int64("habit_id", c.HabitID),
		zap.String("date", time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, time.Local).Format(time.DateOnly)),
		zap.Bool("completed", c.Completed),
	)
	return nil
}

// Check marks the habit done or not done on day.
func (s *Service) Check(ctx context.Context, habitID int64, day time.Time, completed bool) error {
	return s.SetCompletion(ctx, model.Completion{
		HabitID:   habitID,
		Year:      day.Year(),
		Month:     int(day.Month()),
		Day:       day.Day(),
		Completed: completed,
	})
}

// Toggle flips the habit's completion on day and returns the new state.
func (s *Service) Toggle(ctx context.Context, habitID int64, day time.Time) (bool, error) {
	done, err := s.store.IsCompletedOn(ctx, habitID, day)
	if err != nil {
		return false, err
	}
	if err := s.Check(ctx, habitID, day, !done); err != nil {
		return false, err
	}
	return !done, nil
}

// Streak returns the habit's streak ending at ref.
func (s *Service) Streak(ctx context.Context, habitID int64, ref time.Time) (int, error) {
	return s.engine.ComputeStreak(ctx, habitID, ref)
}

// Pending lists the habits not yet completed today.
func (s *Service) Pending(ctx context.Context) ([]model.Habit, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	today := s.now()
	var pending []model.Habit
	for _, h := range habits {
		done, err := s.store.IsCompletedOn(ctx, h.ID, today)
		if err != nil {
			return nil, err
		}
		if !done {
			pending = append(pending, h)
		}
	}
	return pending, nil
}

// Profile returns the user profile.
func (s *Service) Profile(ctx context.Context) (model.Profile, error) {
	return s.store.Profile(ctx)
}

// UpdateProfile replaces the user profile.
func (s *Service) UpdateProfile(ctx context.Context, p model.Profile) error {
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return err
	}
	s.log.Debug("profile updated", zap.String("name", p.Name))
	return nil
}

// Totals returns every habit with its all-time completion count.
func (s *Service) Totals(ctx context.Context) ([]model.HabitTotal, error) {
	return s.store.HabitTotals(ctx)
}

// Report collects the export contents. The dashboard for the stored period
// is included when withDashboard is set.
func (s *Service) Report(ctx context.Context, withDashboard bool) (report.Report, error) {
	totals, err := s.store.HabitTotals(ctx)
	if err != nil {
		return report.Report{}, err
	}
	profile, err := s.store.Profile(ctx)
	if err != nil {
		return report.Report{}, err
	}
	r := report.Report{GeneratedAt: s.now(), Profile: profile, Totals: totals}
	if withDashboard {
		ds, err := s.Dashboard(ctx)
		if err != nil {
			return report.Report{}, err
		}
		r.Dashboard = &ds
	}
	return r, nil
}
