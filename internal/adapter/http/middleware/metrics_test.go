package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/bankcore/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes account path",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/BK01ABC",
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
			m := metrics.NewWithRegisterer(prometheus.NewRegistry())

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			Metrics(m)(next).ServeHTTP(rr, req)

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

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/v1/accounts/{number}/history", func(w http.ResponseWriter, r *http.Request) {})

	for _, number := range []string{"BK1", "BK2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+number+"/history", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	counter := m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/accounts/{number}/history", "200")
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Fatalf("expected both requests under one pattern, got %v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "account path without suffix",
			input:    "/api/v1/accounts/BK01ABC",
			expected: "/api/v1/accounts/:number",
		},
		{
			name:     "account path with suffix",
			input:    "/api/v1/accounts/BK01ABC/history",
			expected: "/api/v1/accounts/:number/history",
		},
		{
			name:     "client path",
			input:    "/api/v1/clients/01HZX/suspend",
			expected: "/api/v1/clients/:id/suspend",
		},
		{
			name:     "reconciliation path",
			input:    "/api/v1/ledger/reconciliation/BK9",
			expected: "/api/v1/ledger/reconciliation/:number",
		},
		{
			name:     "collection path",
			input:    "/api/v1/accounts",
			expected: "/api/v1/accounts",
		},
		{
			name:     "non-matching path",
			input:    "/health",
			expected: "/health",
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
