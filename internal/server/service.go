// Package server provides the local HTTP API, event stream and reminder
// scheduler behind `hbt serve`.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/report"
)

// Tracker is the habit use-case layer the server drives.
type Tracker interface {
	Dashboard(ctx context.Context) (model.DashboardStats, error)
	SetCompletion(ctx context.Context, c model.Completion) error
	Period(ctx context.Context) (model.Period, error)
	SetPeriod(ctx context.Context, p model.Period) error
	Profile(ctx context.Context) (model.Profile, error)
	UpdateProfile(ctx context.Context, p model.Profile) error
	AddHabit(ctx context.Context, name string, goal int) (model.Habit, error)
	DeleteHabit(ctx context.Context, id int64) error
	Report(ctx context.Context, withDashboard bool) (report.Report, error)
	Pending(ctx context.Context) ([]model.Habit, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	// ReminderCron is a five-field cron spec. Empty disables reminders.
	ReminderCron string
	DefaultGoal  int
}

// Snapshot is a compact progress state for status and event payloads.
type Snapshot struct {
	At          time.Time    `json:"at"`
	Period      model.Period `json:"period"`
	Habits      int          `json:"habits"`
	TotalChecks int          `json:"total_checks"`
	MaxStreak   int          `json:"max_streak"`
	Completions int          `json:"completions"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Habits      int `json:"habits"`
	TotalChecks int `json:"total_checks"`
	MaxStreak   int `json:"max_streak"`
	Completions int `json:"completions"`
}

func (d Delta) isZero() bool {
	return d.Habits == 0 &&
		d.TotalChecks == 0 &&
		d.MaxStreak == 0 &&
		d.Completions == 0
}

// Event types.
const (
	EventSnapshot       = "snapshot"
	EventProgress       = "progress_delta"
	EventCompletion     = "completion"
	EventHabitAdded     = "habit_added"
	EventHabitDeleted   = "habit_deleted"
	EventPeriodChanged  = "period_changed"
	EventProfileUpdated = "profile_updated"
	EventReminder       = "reminder"
)

// Event is published on every mutation, progress change and reminder.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
	Delta     *Delta    `json:"delta,omitempty"`
	HabitID   int64     `json:"habit_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	Pending   []string  `json:"pending,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	ReminderCron    string    `json:"reminder_cron,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the server runtime and HTTP API.
type Service struct {
	cfg     Config
	tracker Tracker
	log     *zap.Logger

	// pollMu serialises pollOnce so snapshots commit in the order they were read.
	pollMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a server over t with defaults filled into cfg.
func New(cfg Config, t Tracker, log *zap.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:5000"
	}
	if cfg.DefaultGoal < 1 {
		cfg.DefaultGoal = model.DefaultGoal
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		tracker:   t,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP, polls progress and fires reminders until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// Streams end when ctx does; Shutdown alone would wait on them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	sched, err := s.scheduler()
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("server listening", zap.String("addr", s.cfg.Addr), zap.String("reminder_cron", s.cfg.ReminderCron))

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

func (s *Service) scheduler() (*cron.Cron, error) {
	if s.cfg.ReminderCron == "" {
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(s.cfg.ReminderCron, s.remind); err != nil {
		return nil, fmt.Errorf("parsing reminder schedule %q: %w", s.cfg.ReminderCron, err)
	}
	return c, nil
}

// remind publishes the habits still open today.
func (s *Service) remind() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pending, err := s.tracker.Pending(ctx)
	if err != nil {
		s.log.Error("reminder failed", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}
	names := make([]string, len(pending))
	for i, h := range pending {
		names[i] = h.Name
	}
	s.publish(Event{
		Type:    EventReminder,
		Message: fmt.Sprintf("%d habit(s) still open today", len(pending)),
		Pending: names,
	})
	remindersSent.Inc()
	s.log.Info("reminder sent", zap.Strings("pending", names))
}

func (s *Service) pollOnce(ctx context.Context) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	ds, err := s.tracker.Dashboard(ctx)
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("poll failed", zap.Error(err))
		return
	}

	snap := snapshotFromDashboard(ds, now)
	recordSnapshot(snap)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		ev = Event{Type: EventSnapshot, Snapshot: &snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		ev = Event{Type: EventProgress, Snapshot: &snap, Delta: &delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publish(ev)
	}
}

func snapshotFromDashboard(ds model.DashboardStats, at time.Time) Snapshot {
	completions := 0
	for _, n := range ds.Analytics.DailyLine {
		completions += n
	}
	return Snapshot{
		At:          at,
		Period:      ds.Settings,
		Habits:      len(ds.Habits),
		TotalChecks: ds.TodayStats.TotalChecks,
		MaxStreak:   ds.TodayStats.MaxStreak,
		Completions: completions,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Habits:      curr.Habits - prev.Habits,
		TotalChecks: curr.TotalChecks - prev.TotalChecks,
		MaxStreak:   curr.MaxStreak - prev.MaxStreak,
		Completions: curr.Completions - prev.Completions,
	}
}

// publish stamps ev with the next id and fans it out to subscribers
// without blocking on slow ones.
func (s *Service) publish(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()

	eventsPublished.WithLabelValues(ev.Type).Inc()
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		ReminderCron:    s.cfg.ReminderCron,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
