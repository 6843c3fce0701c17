// Package users contiene el service de usuarios.
package users

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/exercisetracker/internal/cache"
	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
)

// ListCacheKey es la key del listado cacheado.
const ListCacheKey = "users:list"

// listLoadTimeout acota la carga compartida del listado, que no depende del
// contexto de ningún caller en particular.
const listLoadTimeout = 10 * time.Second

// listGenKey guarda en el cache compartido un token que cambia en cada escritura.
// Un load sólo llena ListCacheKey si el token no cambió mientras leía el store,
// así una réplica no repuebla el cache con un listado previo a la escritura de otra.
const (
	listGenKey = "users:list:gen"
	listGenTTL = 24 * time.Hour
)

// Service define las operaciones de usuarios.
type Service interface {
	// Create crea un usuario. Username vacío → 400.
	Create(ctx context.Context, username string) (*repository.User, error)
	// List devuelve todos los usuarios como id + username.
	List(ctx context.Context) ([]repository.UserSummary, error)
}

// Deps dependencias del service.
type Deps struct {
	Repo     repository.UserRepository
	Cache    cache.Client // opcional
	CacheTTL time.Duration
}

type service struct {
	repo  repository.UserRepository
	cache cache.Client
	ttl   time.Duration

	group singleflight.Group
	// gen se incrementa en cada escritura; un load que arrancó antes no
	// puede pisar el cache con un listado viejo.
	gen atomic.Uint64
}

// NewService crea el service de usuarios.
func NewService(d Deps) Service {
	return &service{repo: d.Repo, cache: d.Cache, ttl: d.CacheTTL}
}

const component = "users"

func (s *service) Create(ctx context.Context, username string) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(component),
		logger.Op("Create"),
	)

	if username == "" {
		return nil, httperrors.ErrUsernameRequired
	}

	u, err := s.repo.Create(ctx, username)
	if err != nil {
		if repository.IsInvalidInput(err) {
			return nil, httperrors.ErrValidation.WithDetail(err.Error()).WithCause(err)
		}
		if httperrors.ClientGone(ctx, err) {
			log.Debug("create canceled by client", logger.Err(err))
			return nil, httperrors.ErrRequestCanceled.WithCause(err)
		}
		log.Error("failed to create user", logger.Err(err))
		return nil, httperrors.ErrStoreUnavailable.WithCause(err)
	}

	s.invalidate(ctx)
	log.Info("user created", logger.UserID(u.ID), logger.Username(u.Username))
	return u, nil
}

func (s *service) List(ctx context.Context) ([]repository.UserSummary, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(component),
		logger.Op("List"),
	)

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, ListCacheKey)
		switch {
		case err == nil:
			var users []repository.UserSummary
			if jerr := json.Unmarshal([]byte(raw), &users); jerr == nil {
				log.Debug("users listed from cache", logger.Count(len(users)))
				return users, nil
			}
			log.Warn("discarding corrupt cache entry")
		case !cache.IsNotFound(err):
			log.Warn("cache get failed, falling back to store", logger.Err(err))
		}
	}

	// La carga se comparte entre callers: corre sobre un contexto desacoplado del
	// primero, y cada caller espera sólo mientras su propio contexto siga vivo.
	ch := s.group.DoChan(ListCacheKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listLoadTimeout)
		defer cancel()

		gen := s.gen.Load()
		token, tokenOK := s.cacheGen(loadCtx)
		users, err := s.repo.List(loadCtx)
		if err != nil {
			return nil, err
		}
		if tokenOK {
			s.store(loadCtx, gen, token, users)
		}
		return users, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		log.Debug("list canceled by client", logger.Err(ctx.Err()))
		return nil, httperrors.ErrRequestCanceled.WithCause(ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		log.Error("failed to list users", logger.Err(res.Err))
		return nil, httperrors.ErrStoreUnavailable.WithCause(res.Err)
	}

	users := res.Val.([]repository.UserSummary)
	log.Debug("users listed", logger.Count(len(users)))
	return users, nil
}

// cacheGen lee el token de generación compartido. ok es false si no se pudo leer.
func (s *service) cacheGen(ctx context.Context) (token string, ok bool) {
	if s.cache == nil {
		return "", false
	}
	token, err := s.cache.Get(ctx, listGenKey)
	if err != nil && !cache.IsNotFound(err) {
		return "", false
	}
	return token, true
}

func (s *service) store(ctx context.Context, gen uint64, token string, users []repository.UserSummary) {
	if s.cache == nil || s.gen.Load() != gen {
		return
	}
	if current, ok := s.cacheGen(ctx); !ok || current != token {
		return
	}
	b, err := json.Marshal(users)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, ListCacheKey, string(b), s.ttl); err != nil {
		logger.From(ctx).Warn("cache set failed", logger.Component(component), logger.Err(err))
	}
}

func (s *service) invalidate(ctx context.Context) {
	s.gen.Add(1)
	s.group.Forget(ListCacheKey)
	if s.cache == nil {
		return
	}
	// primero el token, así un load en curso en otra réplica ya no puede escribir
	if err := s.cache.Set(ctx, listGenKey, uuid.NewString(), listGenTTL); err != nil {
		logger.From(ctx).Warn("cache generation bump failed", logger.Component(component), logger.Err(err))
	}
	if err := s.cache.Delete(ctx, ListCacheKey); err != nil {
		logger.From(ctx).Warn("cache invalidation failed", logger.Component(component), logger.Err(err))
	}
}
