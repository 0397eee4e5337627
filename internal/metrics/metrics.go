package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store command outcomes (outcome: ok, validation_error, not_found,
	// invalid_state, error).
	CommandTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neverforget_commands_total",
			Help: "Total number of store commands processed",
		},
		[]string{"action", "outcome"},
	)

	// HTTP request latency (seconds).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neverforget_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Collection state, refreshed on every stats pass.
	TasksTracked = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neverforget_tasks",
			Help: "Current task counts by state",
		},
		[]string{"state"}, // state: active, completed, overdue, snoozed
	)
)

// RecordCommand increments the command counter.
func RecordCommand(action, outcome string) {
	CommandTotal.WithLabelValues(action, outcome).Inc()
}

// RecordHTTPRequest observes a request duration.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// SetTaskCounts refreshes the collection gauges.
func SetTaskCounts(active, completed, overdue, snoozed int) {
	TasksTracked.WithLabelValues("active").Set(float64(active))
	TasksTracked.WithLabelValues("completed").Set(float64(completed))
	TasksTracked.WithLabelValues("overdue").Set(float64(overdue))
	TasksTracked.WithLabelValues("snoozed").Set(float64(snoozed))
}
