package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lazypower/neverforget/internal/metrics"
	"github.com/lazypower/neverforget/internal/store"
)

// Server is the neverforget HTTP API server. It owns no state of its own;
// every request is served against the injected store.
type Server struct {
	store    *store.Store
	router   chi.Router
	logger   *zap.Logger
	version  string
	started  time.Time
	topCount int
}

// New creates a new Server around the given store. topCount sets the
// default size of the top-priority view; non-positive falls back to 3.
func New(st *store.Store, logger *zap.Logger, version string, topCount int) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if topCount <= 0 {
		topCount = 3
	}
	s := &Server{
		store:    st,
		logger:   logger,
		version:  version,
		started:  time.Now(),
		topCount: topCount,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.handleAddTask)
			r.Get("/", s.handleListTasks)
			r.Get("/top", s.handleTopTasks)
			r.Delete("/completed", s.handleClearCompleted)

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Delete("/", s.handleDeleteTask)
				r.Post("/complete", s.handleCompleteTask)
				r.Post("/snooze", s.handleSnoozeTask)
				r.Post("/notes", s.handleAddNote)
				r.Post("/steps/{stepID}", s.handleUpdateStep)
			})
		})

		r.Get("/alerts", s.handleAlerts)
		r.Get("/stats", s.handleStats)
	})

	r.Handle("/metrics", promhttp.Handler())

	s.router = r
}

// observe records request latency and an access log line per request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = r.URL.Path
		}
		latency := time.Since(start)
		metrics.RecordHTTPRequest(r.Method, pattern, strconv.Itoa(ww.Status()), latency)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", latency),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.store.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"tasks":   st.Total,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
