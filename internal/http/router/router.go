// Package router arma el árbol de rutas chi y la cadena de middlewares global.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/exercisetracker/internal/http/controllers"
	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
	mw "github.com/dropDatabas3/exercisetracker/internal/http/middlewares"
	"github.com/dropDatabas3/exercisetracker/internal/rate"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	Controllers *controllers.Controllers

	// Opcionales
	Limiter        rate.Limiter // nil = sin rate limit
	CORSOrigins    []string
	MetricsHandler http.Handler // nil = sin /metrics
}

// New construye el handler HTTP raíz.
//
// Orden de middlewares (de afuera hacia adentro):
// request id → logging → recover → metrics → rate limit → CORS → security headers
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithMetrics(),
		mw.WithRateLimit(mw.RateLimitConfig{
			Limiter:   d.Limiter,
			Whitelist: []string{"/readyz", "/metrics"},
		}),
		mw.WithCORS(d.CORSOrigins),
		mw.WithSecurityHeaders(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)
	registerUserRoutes(r, d.Controllers)

	return r
}
