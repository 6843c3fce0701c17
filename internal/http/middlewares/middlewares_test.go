package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/exercisetracker/internal/metrics"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
	"github.com/dropDatabas3/exercisetracker/internal/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestChainOrder(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		trace = append(trace, "handler")
	}), mark("A"), mark("B"), mark("C"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"A", "B", "C", "handler"}, trace)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}), WithRequestID())

	t.Run("generates", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	})

	t.Run("propagates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
	})
}

func TestWithLoggingInjectsScopedLogger(t *testing.T) {
	var got bool
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.From(r.Context()) != logger.L()
		w.WriteHeader(http.StatusCreated)
	}), WithRequestID(), WithLogging())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/users", nil))

	assert.True(t, got)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestWithRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), WithRecover())

	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body["code"])
}

func TestWithCORS(t *testing.T) {
	h := Chain(okHandler(), WithCORS([]string{"https://app.example.com/"}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("no origins configured is a no-op", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Chain(okHandler(), WithCORS(nil)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Empty(t, rr.Header().Values("Vary"))
	})
}

func TestWithSecurityHeaders(t *testing.T) {
	h := Chain(okHandler(), WithSecurityHeaders())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (rate.Result, error) {
	return rate.Result{}, errors.New("redis down")
}

func TestWithRateLimit(t *testing.T) {
	lim := rate.NewMemoryLimiter(2, time.Minute)
	h := Chain(okHandler(), WithRateLimit(RateLimitConfig{
		Limiter:   lim,
		Whitelist: []string{"/readyz"},
	}))

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	before := testutil.ToFloat64(metrics.RateLimitedTotal)

	assert.Equal(t, http.StatusOK, do("/api/users").Code)
	assert.Equal(t, http.StatusOK, do("/api/users").Code)

	rr := do("/api/users")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitedTotal))

	// whitelist no consume cuota
	assert.Equal(t, http.StatusOK, do("/readyz").Code)

	t.Run("limiter error lets the request through", func(t *testing.T) {
		rr := httptest.NewRecorder()
		Chain(okHandler(), WithRateLimit(RateLimitConfig{Limiter: failingLimiter{}})).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestWithMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(WithMetrics())
	r.Get("/api/users/{id}/logs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/users/{id}/logs", "200")
	before := testutil.ToFloat64(counter)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/65a1f0c2e4b0a1b2c3d4e5f6/logs", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestNormalizePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "/", want: "/"},
		{in: "/api/users", want: "/api/users"},
		{in: "/api/users/65a1f0c2e4b0a1b2c3d4e5f6/logs", want: "/api/users/:param/logs"},
		{in: "/api/users/3f1c2d9e-8a7b-4c6d-9e0f-1a2b3c4d5e6f", want: "/api/users/:param"},
		{in: "/api/users/42/exercises", want: "/api/users/:param/exercises"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizePath(tc.in), tc.in)
	}
}

func TestWithNoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	Chain(okHandler(), WithNoStore()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "ok"))
}
