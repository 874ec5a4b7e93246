package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/store"
	"github.com/theirongolddev/hbt/internal/tracker"
)

var testNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.Local)

func newTestServer(t *testing.T, cfg Config) (*Service, *httptest.Server) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	tr := tracker.New(st, tracker.WithClock(func() time.Time { return testNow }))
	if err := tr.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	s := New(cfg, tr, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Habits: 3, TotalChecks: 1, MaxStreak: 4, Completions: 20}
	curr := Snapshot{Habits: 4, TotalChecks: 3, MaxStreak: 5, Completions: 22}

	delta := diffSnapshots(prev, curr)
	if delta.Habits != 1 {
		t.Fatalf("Habits delta = %d, want 1", delta.Habits)
	}
	if delta.TotalChecks != 2 {
		t.Fatalf("TotalChecks delta = %d, want 2", delta.TotalChecks)
	}
	if delta.MaxStreak != 1 {
		t.Fatalf("MaxStreak delta = %d, want 1", delta.MaxStreak)
	}
	if delta.Completions != 2 {
		t.Fatalf("Completions delta = %d, want 2", delta.Completions)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots produced a delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, nil, nil)

	s.publish(Event{Type: EventCompletion})
	s.publish(Event{Type: EventCompletion})
	s.publish(Event{Type: EventCompletion})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestHabitAPI(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	code, body := do(t, http.MethodPost, ts.URL+"/api/habits", `{"name":"Reading","goal":20}`)
	if code != http.StatusOK || !strings.Contains(body, `"success"`) {
		t.Fatalf("add = %d %s", code, body)
	}
	code, body = do(t, http.MethodPost, ts.URL+"/api/habits", `{"name":"Reading"}`)
	if code != http.StatusBadRequest || !strings.Contains(body, "Already exists") {
		t.Fatalf("duplicate = %d %s", code, body)
	}
	code, _ = do(t, http.MethodPost, ts.URL+"/api/habits", `{"name":"Running","goal":0}`)
	if code != http.StatusBadRequest {
		t.Fatalf("zero goal = %d, want 400", code)
	}

	code, body = do(t, http.MethodPost, ts.URL+"/api/complete", `{"habit_id":1,"year":2026,"month":10,"day":15,"completed":1}`)
	if code != http.StatusOK {
		t.Fatalf("complete = %d %s", code, body)
	}
	code, _ = do(t, http.MethodPost, ts.URL+"/api/complete", `{"habit_id":1,"year":2026,"month":2,"day":30,"completed":true}`)
	if code != http.StatusBadRequest {
		t.Fatalf("feb 30 = %d, want 400", code)
	}
	code, _ = do(t, http.MethodPost, ts.URL+"/api/complete", `{"habit_id":99,"year":2026,"month":10,"day":1,"completed":true}`)
	if code != http.StatusNotFound {
		t.Fatalf("unknown habit = %d, want 404", code)
	}

	code, body = do(t, http.MethodGet, ts.URL+"/api/data", "")
	if code != http.StatusOK {
		t.Fatalf("data = %d %s", code, body)
	}
	var ds struct {
		Settings   map[string]any     `json:"settings"`
		Habits     []model.HabitStats `json:"habits"`
		Profile    model.Profile      `json:"profile"`
		TodayStats struct {
			TotalChecks int              `json:"total_checks"`
			ServerDate  model.ServerDate `json:"server_date"`
		} `json:"today_stats"`
		Analytics model.Analytics `json:"analytics"`
	}
	if err := json.Unmarshal([]byte(body), &ds); err != nil {
		t.Fatal(err)
	}
	if ds.Settings["month"] != "October" {
		t.Errorf("settings = %v", ds.Settings)
	}
	if len(ds.Habits) != 1 || !ds.Habits[0].CompletedToday || ds.TodayStats.TotalChecks != 1 {
		t.Errorf("habits = %+v today = %+v", ds.Habits, ds.TodayStats)
	}
	if ds.Analytics.DailyLine[14] != 1 || ds.Analytics.WeeklyBar[2] != 1 {
		t.Errorf("analytics = %+v", ds.Analytics)
	}
	if ds.Profile.Name != "User" {
		t.Errorf("profile = %+v", ds.Profile)
	}

	code, _ = do(t, http.MethodDelete, ts.URL+"/api/habits/42", "")
	if code != http.StatusOK {
		t.Fatalf("delete unknown = %d, want 200", code)
	}
	code, _ = do(t, http.MethodDelete, ts.URL+"/api/habits/1", "")
	if code != http.StatusOK {
		t.Fatalf("delete = %d", code)
	}
	_, body = do(t, http.MethodGet, ts.URL+"/api/data", "")
	if !strings.Contains(body, `"habits":[]`) {
		t.Fatalf("habits after delete: %s", body)
	}
}

func TestSettingsAndProfileAPI(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	code, body := do(t, http.MethodPost, ts.URL+"/api/settings", `{"month":"March","year":"2025"}`)
	if code != http.StatusOK {
		t.Fatalf("settings = %d %s", code, body)
	}
	_, body = do(t, http.MethodGet, ts.URL+"/api/data", "")
	if !strings.Contains(body, `"settings":{"year":2025,"month":"March"}`) {
		t.Fatalf("settings not stored: %s", body)
	}
	code, _ = do(t, http.MethodPost, ts.URL+"/api/settings", `{"month":"Smarch"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("bad month = %d, want 400", code)
	}

	code, _ = do(t, http.MethodPost, ts.URL+"/api/profile", `{"name":"Ada","location":"London"}`)
	if code != http.StatusOK {
		t.Fatalf("profile = %d", code)
	}
	_, body = do(t, http.MethodGet, ts.URL+"/api/data", "")
	if !strings.Contains(body, `"name":"Ada","bio":"Habit Enthusiast","location":"London"`) {
		t.Fatalf("profile not merged: %s", body)
	}
}

func TestExportAndEvents(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	do(t, http.MethodPost, ts.URL+"/api/habits", `{"name":"Reading"}`)

	resp, err := http.Get(ts.URL + "/export")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.Header.Get("Content-Type") != "application/pdf" {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "habit_report.pdf") {
		t.Errorf("disposition = %q", resp.Header.Get("Content-Disposition"))
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("body is not a PDF")
	}

	code, body := do(t, http.MethodGet, ts.URL+"/export?format=text", "")
	if code != http.StatusOK || !strings.Contains(body, "Habit: Reading | Monthly Goal: 30 | Total completions: 0") {
		t.Errorf("text export = %d %s", code, body)
	}

	_, body = do(t, http.MethodGet, ts.URL+"/v1/events", "")
	var events []Event
	if err := json.Unmarshal([]byte(body), &events); err != nil {
		t.Fatal(err)
	}
	types := make(map[string]bool)
	for _, ev := range events {
		types[ev.Type] = true
	}
	if !types[EventHabitAdded] || !types[EventSnapshot] {
		t.Fatalf("event types = %v", types)
	}
}

func TestRemindPublishesPendingHabits(t *testing.T) {
	s, ts := newTestServer(t, Config{})
	do(t, http.MethodPost, ts.URL+"/api/habits", `{"name":"Reading"}`)
	do(t, http.MethodPost, ts.URL+"/api/habits", `{"name":"Running"}`)
	do(t, http.MethodPost, ts.URL+"/api/complete", `{"habit_id":1,"year":2026,"month":10,"day":15,"completed":true}`)

	s.remind()

	s.mu.RLock()
	last := s.events[len(s.events)-1]
	s.mu.RUnlock()
	if last.Type != EventReminder {
		t.Fatalf("last event = %q, want reminder", last.Type)
	}
	if len(last.Pending) != 1 || last.Pending[0] != "Running" {
		t.Fatalf("pending = %v", last.Pending)
	}
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := New(Config{ReminderCron: "not a cron"}, nil, nil)
	if _, err := s.scheduler(); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	s = New(Config{}, nil, nil)
	if c, err := s.scheduler(); err != nil || c != nil {
		t.Fatalf("empty spec = %v, %v; want disabled", c, err)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	code, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if code != http.StatusOK || strings.TrimSpace(body) != "ok" {
		t.Fatalf("healthz = %d %q", code, body)
	}

	_, body = do(t, http.MethodGet, ts.URL+"/metrics", "")
	if !strings.Contains(body, "hbt_http_request_duration_seconds") {
		t.Error("request histogram missing from /metrics")
	}
	if !strings.Contains(body, `path="GET /healthz"`) {
		t.Error("request not labelled with its route pattern")
	}
}

// countingTracker returns a dashboard with one more habit on every call.
type countingTracker struct {
	Tracker
	calls    atomic.Int64
	inFlight atomic.Int64
	maxSeen  atomic.Int64
}

func (c *countingTracker) Dashboard(context.Context) (model.DashboardStats, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		m := c.maxSeen.Load()
		if n <= m || c.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	seq := c.calls.Add(1)
	time.Sleep(time.Millisecond)
	return model.DashboardStats{Habits: make([]model.HabitStats, seq)}, nil
}

func TestConcurrentPollsCommitInOrder(t *testing.T) {
	ct := &countingTracker{}
	s := New(Config{EventsBuffer: 100}, ct, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.pollOnce(context.Background())
		}()
	}
	wg.Wait()

	if got := ct.maxSeen.Load(); got != 1 {
		t.Errorf("concurrent dashboard reads = %d, want 1", got)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Habits != 8 {
		t.Errorf("final snapshot habits = %d, want 8", s.snapshot.Habits)
	}
	for _, ev := range s.events {
		if ev.Delta != nil && ev.Delta.Habits < 0 {
			t.Errorf("event %d went backwards: %+v", ev.ID, *ev.Delta)
		}
	}
}
