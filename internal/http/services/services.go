// Package services es el composition root de los services HTTP.
//
//	deps := services.Deps{...}      ← dependencias externas (store, cache, config)
//	svcs := services.New(deps)      ← todos los services
//	ctrls := controllers.New(svcs)  ← controllers con services inyectados
package services

import (
	"time"

	"github.com/dropDatabas3/exercisetracker/internal/cache"
	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
	"github.com/dropDatabas3/exercisetracker/internal/http/services/exercises"
	"github.com/dropDatabas3/exercisetracker/internal/http/services/health"
	"github.com/dropDatabas3/exercisetracker/internal/http/services/logs"
	"github.com/dropDatabas3/exercisetracker/internal/http/services/users"
)

// Deps contiene las dependencias para crear los services.
type Deps struct {
	Repo repository.UserRepository

	Cache    cache.Client // opcional
	CacheTTL time.Duration

	LogStrategy     string
	LogDefaultLimit int

	Health health.Deps
	Now    func() time.Time // opcional
}

// Services agrupa todos los services.
type Services struct {
	Users     users.Service
	Exercises exercises.Service
	Logs      logs.Service
	Health    health.Service
}

// New crea el agregador de services.
func New(d Deps) Services {
	return Services{
		Users:     users.NewService(users.Deps{Repo: d.Repo, Cache: d.Cache, CacheTTL: d.CacheTTL}),
		Exercises: exercises.NewService(exercises.Deps{Repo: d.Repo, Now: d.Now}),
		Logs: logs.NewService(logs.Deps{
			Repo:         d.Repo,
			Strategy:     d.LogStrategy,
			DefaultLimit: d.LogDefaultLimit,
			Now:          d.Now,
		}),
		Health: health.NewService(d.Health),
	}
}
