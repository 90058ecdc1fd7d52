package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Shared HTTP metrics.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	auditWriteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_write_failures_total",
		Help: "Audit log entries that could not be persisted.",
	})

	auditDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_dropped_total",
		Help: "Audit log entries dropped because the recorder buffer was full.",
	})
)

// Init registers metrics in the default registry.
func Init() {
	prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration,
		auditWriteFailures, auditDropped)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CountAuditWriteFailure increments the audit persistence failure counter.
func CountAuditWriteFailure() { auditWriteFailures.Inc() }

// CountAuditDropped increments the dropped-entry counter.
func CountAuditDropped() { auditDropped.Inc() }

// Instrument wraps a handler with RPS/latency/in-flight measurement.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// CanonicalPath collapses per-entity identifiers so metric label
// cardinality stays bounded.
func CanonicalPath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	// Static routes that would otherwise look like id segments.
	switch p {
	case "/user/login", "/user/me", "/user/password",
		"/company/jobs", "/company/check-permission",
		"/admin/alumni/years", "/admin/alumni/stats",
		"/admin/users/status":
		return p
	}
	// Longer prefixes first so /company/jobs/{id} is not caught by
	// /company/{id}.
	rules := []struct {
		prefix string
		idx    int
	}{
		{"/management/notices/", 3},
		{"/admin/students/", 3},
		{"/admin/alumni/", 3},
		{"/admin/roles/", 3},
		{"/admin/users/", 3},
		{"/company/jobs/", 3},
		{"/company/", 2},
		{"/user/", 2},
	}
	parts := strings.Split(p, "/")
	for _, rule := range rules {
		if strings.HasPrefix(p, rule.prefix) && len(parts) > rule.idx && parts[rule.idx] != "" {
			parts[rule.idx] = ":id"
			return strings.Join(parts, "/")
		}
	}
	return p
}

// statusWriter records the response code written downstream.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
