// Package controllers agrupa todos los controllers HTTP.
// Este es el "composition root" de controllers:
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs)
//	handler := router.New(router.Deps{Controllers: ctrls, ...})
package controllers

import (
	"github.com/dropDatabas3/exercisetracker/internal/http/controllers/exercises"
	"github.com/dropDatabas3/exercisetracker/internal/http/controllers/health"
	"github.com/dropDatabas3/exercisetracker/internal/http/controllers/logs"
	"github.com/dropDatabas3/exercisetracker/internal/http/controllers/users"
	"github.com/dropDatabas3/exercisetracker/internal/http/services"
)

// Controllers agrupa todos los controllers.
type Controllers struct {
	Users     *users.UsersController
	Exercises *exercises.ExercisesController
	Logs      *logs.LogsController
	Health    *health.HealthController
}

// New crea el agregador de controllers con los services inyectados.
func New(s services.Services) *Controllers {
	return &Controllers{
		Users:     users.NewUsersController(s.Users),
		Exercises: exercises.NewExercisesController(s.Exercises),
		Logs:      logs.NewLogsController(s.Logs),
		Health:    health.NewHealthController(s.Health),
	}
}
