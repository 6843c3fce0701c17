package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/exercisetracker/internal/http/controllers"
	mw "github.com/dropDatabas3/exercisetracker/internal/http/middlewares"
)

// registerUserRoutes registra la API de usuarios, ejercicios y logs.
func registerUserRoutes(r chi.Router, c *controllers.Controllers) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.Post("/", c.Users.Create)
		r.Get("/", c.Users.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Post("/exercises", c.Exercises.Log)
			r.Get("/logs", c.Logs.Get)
		})
	})
}
