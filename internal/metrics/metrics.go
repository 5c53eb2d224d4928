// Package metrics exposes Prometheus counters and histograms for the
// simulator: scheduler deadline misses, telemetry drops, engine faults,
// and HTTP Inspection API (component K) request timing.
//
// Grounded on ChrisB0-2-StarGo's internal/metrics/metrics.go (package-
// level CounterVec/HistogramVec registered in init, plus an HTTP
// middleware wrapper) — the HTTP metrics here are that file's pattern
// verbatim; the simulator-domain counters (deadline misses, telemetry
// drops, engine faults) are new label sets for the same CounterVec shape.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchsim_http_requests_total",
			Help: "Total number of Inspection API HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "launchsim_http_duration_seconds",
			Help:    "Inspection API HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	deadlineMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchsim_scheduler_deadline_misses_total",
			Help: "Total number of subsystem period deadline misses.",
		},
		[]string{"subsystem"},
	)

	telemetryDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "launchsim_telemetry_drops_total",
			Help: "Total number of telemetry records dropped by overwrite.",
		},
	)

	commandDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "launchsim_command_duration_seconds",
			Help:    "Command Service processing duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	engineFaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launchsim_engine_faults_total",
			Help: "Total number of engine faults raised, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		deadlineMissesTotal,
		telemetryDropsTotal,
		commandDurationSeconds,
		engineFaultsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler for GET /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncDeadlineMiss records one missed deadline for the named subsystem.
func IncDeadlineMiss(subsystem string) {
	deadlineMissesTotal.WithLabelValues(subsystem).Inc()
}

// IncTelemetryDrop records one dropped (overwritten) telemetry record.
func IncTelemetryDrop() {
	telemetryDropsTotal.Inc()
}

// ObserveCommandDuration records how long one command took to process.
func ObserveCommandDuration(d time.Duration) {
	commandDurationSeconds.Observe(d.Seconds())
}

// IncEngineFault records one fault of the given kind.
func IncEngineFault(kind string) {
	engineFaultsTotal.WithLabelValues(kind).Inc()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each Inspection API
// request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
