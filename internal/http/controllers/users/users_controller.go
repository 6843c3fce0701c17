// Package users contiene el controller de /api/users.
package users

import (
	"net/http"

	"github.com/dropDatabas3/exercisetracker/internal/http/dto"
	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
	"github.com/dropDatabas3/exercisetracker/internal/http/helpers"
	svc "github.com/dropDatabas3/exercisetracker/internal/http/services/users"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
)

// UsersController maneja alta y listado de usuarios.
type UsersController struct {
	service svc.Service
}

// NewUsersController crea el controller.
func NewUsersController(service svc.Service) *UsersController {
	return &UsersController{service: service}
}

// Create maneja POST /api/users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Create"))

	fields, err := helpers.ReadFields(w, r, "username")
	if err != nil {
		httperrors.Respond(ctx, w, err)
		return
	}

	u, err := c.service.Create(ctx, fields["username"])
	if err != nil {
		httperrors.Respond(ctx, w, err)
		return
	}

	log.Debug("user created", logger.UserID(u.ID))
	helpers.WriteJSON(w, http.StatusCreated, dto.UserResponse{ID: u.ID, Username: u.Username})
}

// List maneja GET /api/users
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := c.service.List(ctx)
	if err != nil {
		httperrors.Respond(ctx, w, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UserResponse{ID: u.ID, Username: u.Username})
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
