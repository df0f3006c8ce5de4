package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentwatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agentwatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "agentwatch",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Detection metrics
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentwatch",
			Subsystem: "detection",
			Name:      "evaluations_total",
			Help:      "Total number of evaluation cycles",
		},
		[]string{"status", "trigger"},
	)

	evaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "agentwatch",
			Subsystem: "detection",
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of one evaluation cycle in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5, 10},
		},
	)

	activeAlerts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "agentwatch",
			Subsystem: "detection",
			Name:      "active_alerts",
			Help:      "Number of active (non-dismissed) alerts",
		},
		[]string{"severity"},
	)

	skippedEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "agentwatch",
			Subsystem: "detection",
			Name:      "skipped_entries_total",
			Help:      "Audit entries skipped as malformed during evaluation",
		},
	)

	dismissalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentwatch",
			Subsystem: "detection",
			Name:      "dismissals_total",
			Help:      "Dismiss and restore operations",
		},
		[]string{"op"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agentwatch",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordEvaluation records the outcome and duration of an evaluation cycle
func RecordEvaluation(status, trigger string, duration time.Duration) {
	evaluationsTotal.WithLabelValues(status, trigger).Inc()
	evaluationDuration.Observe(duration.Seconds())
}

// SetActiveAlerts sets the gauge for active alerts by severity
func SetActiveAlerts(severity string, count float64) {
	activeAlerts.WithLabelValues(severity).Set(count)
}

// RecordSkippedEntry counts one malformed audit entry skipped
func RecordSkippedEntry() {
	skippedEntriesTotal.Inc()
}

// RecordDismissal counts a dismiss or restore operation
func RecordDismissal(op string) {
	dismissalsTotal.WithLabelValues(op).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
