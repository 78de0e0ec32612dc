package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/motorbook/dealerledger/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP request metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware. m may be nil, in
// which case the middleware is a no-op.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metric recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses resource IDs so metric label cardinality stays
// bounded. /api/v1/vehicles/01ABC/settlements/01DEF ->
// /api/v1/vehicles/:id/settlements/:id
func normalizePath(path string) string {
	for _, prefix := range []string{"/api/v1/vehicles/", "/api/v1/users/"} {
		if !strings.HasPrefix(path, prefix) {
			continue
		}

		parts := strings.Split(path[len(prefix):], "/")
		for i := 0; i < len(parts); i += 2 {
			if parts[i] != "" {
				parts[i] = ":id"
			}
		}

		return prefix + strings.Join(parts, "/")
	}

	return path
}
