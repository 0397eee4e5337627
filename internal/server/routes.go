package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lazypower/neverforget/internal/engine"
	"github.com/lazypower/neverforget/internal/metrics"
	"github.com/lazypower/neverforget/internal/store"
)

// writeError maps the store's error taxonomy onto HTTP statuses:
// validation 400, not-found 404, invalid-state 409, anything else 500.
func (s *Server) writeError(w http.ResponseWriter, action string, err error) {
	status := http.StatusInternalServerError
	outcome := "error"

	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		status, outcome = http.StatusBadRequest, "validation_error"
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, store.ErrStepNotFound):
		status, outcome = http.StatusNotFound, "not_found"
	case errors.Is(err, store.ErrAlreadyCompleted):
		status, outcome = http.StatusConflict, "invalid_state"
	}

	metrics.RecordCommand(action, outcome)
	s.logger.Warn("command rejected",
		zap.String("action", action),
		zap.String("outcome", outcome),
		zap.Error(err),
	)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var in store.AddInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	task, err := s.store.Add(in)
	if err != nil {
		s.writeError(w, "add", err)
		return
	}
	metrics.RecordCommand("add", "ok")
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Discriminated read options: stats wins over alerts wins over list.
	if q.Get("stats_only") == "true" {
		s.handleStats(w, r)
		return
	}
	if q.Get("alerts_only") == "true" {
		s.handleAlerts(w, r)
		return
	}

	opts := store.ListOptions{
		IncludeCompleted: q.Get("include_completed") == "true",
	}
	if stage := q.Get("stage"); stage != "" {
		st := engine.Stage(stage)
		if !st.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown escalation stage: " + stage})
			return
		}
		opts.Stage = st
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		opts.Limit = n
	}

	tasks := s.store.List(opts)
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (s *Server) handleTopTasks(w http.ResponseWriter, r *http.Request) {
	count := s.topCount
	if c := r.URL.Query().Get("count"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "count must be a positive integer"})
			return
		}
		count = n
	}

	tasks := s.store.TopPriority(count)
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.store.UrgentAlerts()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.store.Stats()
	metrics.SetTaskCounts(st.Active, st.Completed, st.Overdue, st.Snoozed)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.Get(chi.URLParam(r, "taskID"))
	if err != nil {
		s.writeError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.Complete(chi.URLParam(r, "taskID"))
	if err != nil {
		s.writeError(w, "complete", err)
		return
	}
	metrics.RecordCommand("complete", "ok")
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleSnoozeTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Until  string `json:"until"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	task, err := s.store.Snooze(chi.URLParam(r, "taskID"), req.Until, req.Reason)
	if err != nil {
		s.writeError(w, "snooze", err)
		return
	}
	metrics.RecordCommand("snooze", "ok")
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	task, err := s.store.AddNote(chi.URLParam(r, "taskID"), req.Text)
	if err != nil {
		s.writeError(w, "note", err)
		return
	}
	metrics.RecordCommand("note", "ok")
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	task, err := s.store.SetStepDone(chi.URLParam(r, "taskID"), chi.URLParam(r, "stepID"), req.Completed)
	if err != nil {
		s.writeError(w, "step", err)
		return
	}
	metrics.RecordCommand("step", "ok")
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "taskID")); err != nil {
		s.writeError(w, "delete", err)
		return
	}
	metrics.RecordCommand("delete", "ok")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	removed := s.store.ClearCompleted()
	metrics.RecordCommand("clear_completed", "ok")
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}
