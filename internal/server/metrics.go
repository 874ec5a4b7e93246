package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hbt_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	completionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hbt_completions_recorded_total",
			Help: "Completion writes received over the API",
		},
		[]string{"completed"},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hbt_events_published_total",
			Help: "Events published to the stream",
		},
		[]string{"type"},
	)

	remindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hbt_reminders_sent_total",
		Help: "Reminder events fired by the scheduler",
	})

	habitsTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hbt_habits",
		Help: "Number of tracked habits",
	})

	checksToday = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hbt_checks_today",
		Help: "Habits completed today",
	})

	maxStreak = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hbt_max_streak_days",
		Help: "Longest current streak across habits",
	})
)

// recordHTTPRequest records one served request.
func recordHTTPRequest(method, path string, status int, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(d.Seconds())
}

// recordCompletion counts a completion write.
func recordCompletion(completed bool) {
	completionsRecorded.WithLabelValues(strconv.FormatBool(completed)).Inc()
}

// recordSnapshot updates the progress gauges.
func recordSnapshot(s Snapshot) {
	habitsTracked.Set(float64(s.Habits))
	checksToday.Set(float64(s.TotalChecks))
	maxStreak.Set(float64(s.MaxStreak))
}
