// Package exercises contiene el controller de POST /api/users/{id}/exercises.
package exercises

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/exercisetracker/internal/datefmt"
	"github.com/dropDatabas3/exercisetracker/internal/http/dto"
	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
	"github.com/dropDatabas3/exercisetracker/internal/http/helpers"
	svc "github.com/dropDatabas3/exercisetracker/internal/http/services/exercises"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
)

// ExercisesController registra ejercicios de un usuario.
type ExercisesController struct {
	service svc.Service
}

// NewExercisesController crea el controller.
func NewExercisesController(service svc.Service) *ExercisesController {
	return &ExercisesController{service: service}
}

// Log maneja POST /api/users/{id}/exercises
func (c *ExercisesController) Log(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ExercisesController.Log"), logger.UserID(userID))

	fields, err := helpers.ReadFields(w, r, "description", "duration", "date")
	if err != nil {
		httperrors.Respond(ctx, w, err)
		return
	}

	u, ex, err := c.service.Log(ctx, userID, dto.LogExerciseRequest{
		Description: fields["description"],
		Duration:    fields["duration"],
		Date:        fields["date"],
	})
	if err != nil {
		httperrors.Respond(ctx, w, err)
		return
	}

	log.Debug("exercise logged")
	helpers.WriteJSON(w, http.StatusCreated, dto.ExerciseResponse{
		ID:          u.ID,
		Username:    ex.Username,
		Description: ex.Description,
		Duration:    ex.Duration,
		Date:        datefmt.Format(ex.Date),
	})
}
