package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/motorbook/dealerledger/internal/infrastructure/metrics"
)

func newTestMetrics() *metrics.Metrics {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	return metrics.New()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	m := newTestMetrics()
	mw := NewMetricsMiddleware(m)

	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes vehicle path",
			method:     http.MethodGet,
			path:       "/api/v1/vehicles/ABC123",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m.HTTPRequests.Reset()
			m.HTTPDuration.Reset()

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			mw.Wrap(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			normalized := normalizePath(tc.path)
			counter := m.HTTPRequests.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestMetricsMiddlewareNilMetrics(t *testing.T) {
	mw := NewMetricsMiddleware(nil)

	called := false
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("next handler was not invoked")
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "vehicle path without suffix",
			input:    "/api/v1/vehicles/ABC123",
			expected: "/api/v1/vehicles/:id",
		},
		{
			name:     "vehicle path with suffix",
			input:    "/api/v1/vehicles/ABC123/settlements",
			expected: "/api/v1/vehicles/:id/settlements",
		},
		{
			name:     "nested settlement path",
			input:    "/api/v1/vehicles/ABC123/settlements/XYZ789/reverse",
			expected: "/api/v1/vehicles/:id/settlements/:id/reverse",
		},
		{
			name:     "user path",
			input:    "/api/v1/users/XYZ789",
			expected: "/api/v1/users/:id",
		},
		{
			name:     "non-matching path",
			input:    "/api/v1/health",
			expected: "/api/v1/health",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
