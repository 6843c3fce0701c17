// Package health contiene el controller para health checks.
package health

import (
	"net/http"

	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
	"github.com/dropDatabas3/exercisetracker/internal/http/helpers"
	svc "github.com/dropDatabas3/exercisetracker/internal/http/services/health"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
)

// HealthController maneja las rutas de health check.
type HealthController struct {
	service svc.Service
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(service svc.Service) *HealthController {
	return &HealthController{service: service}
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	response := c.service.Check(ctx)

	if response.Version != "" {
		w.Header().Set("X-Service-Version", response.Version)
	}

	// Status code según estado
	statusCode := http.StatusOK // "ready" o "degraded"
	if response.Status == svc.StatusUnavailable {
		statusCode = http.StatusServiceUnavailable
	}

	log.Debug("health check completed",
		logger.String("status", response.Status),
		logger.Int("components_count", len(response.Components)),
	)

	helpers.WriteJSON(w, statusCode, response)
}
