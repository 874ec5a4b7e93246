package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/theirongolddev/hbt/internal/model"
	"github.com/theirongolddev/hbt/internal/report"
)

// Handler returns the HTTP API with request logging applied.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/data", s.handleData)
	mux.HandleFunc("POST /api/complete", s.handleComplete)
	mux.HandleFunc("POST /api/settings", s.handleSettings)
	mux.HandleFunc("POST /api/profile", s.handleProfile)
	mux.HandleFunc("POST /api/habits", s.handleAddHabit)
	mux.HandleFunc("DELETE /api/habits/{id}", s.handleDeleteHabit)
	mux.HandleFunc("GET /export", s.handleExport)

	return s.withRequestLog(mux)
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

var success = apiResponse{Status: "success"}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *model.ValidationError
		nf *model.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		msg := err.Error()
		if ve.Reason == "already exists" {
			msg = "Already exists"
		}
		writeJSON(w, http.StatusBadRequest, apiResponse{Status: "error", Message: msg})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, apiResponse{Status: "error", Message: err.Error()})
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, apiResponse{Status: "error", Message: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			return err
		}
		return &model.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return &model.ValidationError{Field: "number", Value: string(data), Reason: "not an integer"}
	}
	*f = flexInt(n)
	return nil
}

// flexBool accepts true/false, 1/0 or their string forms.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return &model.ValidationError{Field: "completed", Value: string(data), Reason: "want a boolean"}
	}
	*f = flexBool(b)
	return nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleData(w http.ResponseWriter, r *http.Request) {
	ds, err := s.tracker.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

type completeRequest struct {
	HabitID   flexInt  `json:"habit_id"`
	Year      flexInt  `json:"year"`
	Month     flexInt  `json:"month"`
	Day       flexInt  `json:"day"`
	Completed flexBool `json:"completed"`
}

func (s *Service) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.HabitID <= 0 {
		s.writeError(w, r, &model.ValidationError{Field: "habit_id", Value: int(req.HabitID), Reason: "must be positive"})
		return
	}
	c := model.Completion{
		HabitID:   int64(req.HabitID),
		Year:      int(req.Year),
		Month:     int(req.Month),
		Day:       int(req.Day),
		Completed: bool(req.Completed),
	}
	if err := s.tracker.SetCompletion(r.Context(), c); err != nil {
		s.writeError(w, r, err)
		return
	}
	recordCompletion(c.Completed)
	s.publish(Event{
		Type:    EventCompletion,
		HabitID: c.HabitID,
		Message: fmt.Sprintf("%04d-%02d-%02d completed=%t", c.Year, c.Month, c.Day, c.Completed),
	})
	s.pollOnce(r.Context())
	writeJSON(w, http.StatusOK, success)
}

type settingsRequest struct {
	Year  *flexInt        `json:"year"`
	Month json.RawMessage `json:"month"`
}

func (s *Service) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.tracker.Period(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Year != nil {
		p.Year = int(*req.Year)
	}
	if len(req.Month) > 0 {
		var name string
		if err := json.Unmarshal(req.Month, &name); err != nil {
			name = string(req.Month)
		}
		m, err := model.ParseMonth(name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		p.Month = m
	}
	if err := s.tracker.SetPeriod(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(Event{Type: EventPeriodChanged, Message: p.String()})
	s.pollOnce(r.Context())
	writeJSON(w, http.StatusOK, success)
}

type profileRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	AvatarURL *string `json:"avatar_url"`
}

func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.tracker.Profile(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.AvatarURL != nil {
		p.AvatarURL = *req.AvatarURL
	}
	if err := s.tracker.UpdateProfile(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(Event{Type: EventProfileUpdated, Message: p.Name})
	writeJSON(w, http.StatusOK, success)
}

type habitRequest struct {
	Name string   `json:"name"`
	Goal *flexInt `json:"goal"`
}

func (s *Service) handleAddHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	goal := s.cfg.DefaultGoal
	if req.Goal != nil {
		goal = int(*req.Goal)
		if goal <= 0 {
			s.writeError(w, r, &model.ValidationError{Field: "goal", Value: goal, Reason: "must be positive"})
			return
		}
	}
	h, err := s.tracker.AddHabit(r.Context(), req.Name, goal)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(Event{Type: EventHabitAdded, HabitID: h.ID, Message: h.Name})
	s.pollOnce(r.Context())
	writeJSON(w, http.StatusOK, success)
}

// handleDeleteHabit always reports success; deleting an unknown habit is a no-op.
func (s *Service) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, r, &model.ValidationError{Field: "id", Value: r.PathValue("id"), Reason: "not an integer"})
		return
	}
	err = s.tracker.DeleteHabit(r.Context(), id)
	switch {
	case model.IsNotFound(err):
		s.log.Debug("delete of unknown habit ignored", zap.Int64("habit_id", id))
	case err != nil:
		s.writeError(w, r, err)
		return
	default:
		s.publish(Event{Type: EventHabitDeleted, HabitID: id})
		s.pollOnce(r.Context())
	}
	writeJSON(w, http.StatusOK, success)
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	format := report.FormatPDF
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := report.ParseFormat(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}

	rep, err := s.tracker.Report(r.Context(), format != report.FormatPDF)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, format, rep); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := s.status().Summary
	writeSSE(w, Event{Type: EventSnapshot, Timestamp: time.Now(), Snapshot: &current})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
