package router

import "github.com/go-chi/chi/v5"

// registerHealthRoutes registra /readyz y, si hay handler, /metrics.
// Ambas quedan fuera del rate limit (ver whitelist en New).
func registerHealthRoutes(r chi.Router, d Deps) {
	r.Get("/readyz", d.Controllers.Health.Readyz)
	r.Head("/readyz", d.Controllers.Health.Readyz)

	if d.MetricsHandler != nil {
		r.Method("GET", "/metrics", d.MetricsHandler)
	}
}
