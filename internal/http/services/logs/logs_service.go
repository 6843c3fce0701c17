// Package logs contiene el motor de consulta del log de ejercicios.
//
// Dos estrategias, elegidas por configuración:
//
//   - "pipeline": delega en UserRepository.QueryLog (una sola ida al store).
//     count es el total de ejercicios del usuario antes de filtrar.
//   - "filter": trae el usuario completo y filtra en memoria.
//     count es la cantidad de entradas devueltas.
//
// En ambas el orden es el de inserción y limit=1 devuelve el primer ejercicio que matchea.
package logs

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/exercisetracker/internal/datefmt"
	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
	"github.com/dropDatabas3/exercisetracker/internal/http/dto"
	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
)

// Estrategias soportadas.
const (
	StrategyPipeline = "pipeline"
	StrategyFilter   = "filter"
)

// DefaultLimit límite por defecto cuando no se pasa limit.
const DefaultLimit = 500

// Service define la consulta del log.
type Service interface {
	Get(ctx context.Context, userID string, req dto.LogQueryRequest) (*repository.LogResult, error)
}

// Deps dependencias del service.
type Deps struct {
	Repo         repository.UserRepository
	Strategy     string
	DefaultLimit int
	Now          func() time.Time // opcional, para tests
}

type service struct {
	repo     repository.UserRepository
	strategy string
	limit    int
	now      func() time.Time
}

// NewService crea el service de logs.
func NewService(d Deps) Service {
	s := &service{repo: d.Repo, strategy: d.Strategy, limit: d.DefaultLimit, now: d.Now}
	if s.strategy != StrategyFilter {
		s.strategy = StrategyPipeline
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Get(ctx context.Context, userID string, req dto.LogQueryRequest) (*repository.LogResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("logs"),
		logger.Op("Get"),
		logger.UserID(userID),
		logger.Strategy(s.strategy),
	)

	q, err := s.parseQuery(req)
	if err != nil {
		return nil, err
	}

	var res *repository.LogResult
	if s.strategy == StrategyFilter {
		res, err = s.filter(ctx, userID, q)
	} else {
		res, err = s.repo.QueryLog(ctx, userID, q)
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, httperrors.ErrUserNotFound.WithCause(err)
		}
		if httperrors.ClientGone(ctx, err) {
			log.Debug("log query canceled by client", logger.Err(err))
			return nil, httperrors.ErrRequestCanceled.WithCause(err)
		}
		log.Error("failed to query log", logger.Err(err))
		return nil, httperrors.ErrStoreUnavailable.WithCause(err)
	}

	log.Debug("log queried", logger.Count(res.Count), logger.Int("returned", len(res.Log)))
	return res, nil
}

func (s *service) filter(ctx context.Context, userID string, q repository.LogQuery) (*repository.LogResult, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]repository.Exercise, 0)
	for _, ex := range u.Exercises {
		if len(out) >= q.Limit {
			break
		}
		if q.Matches(ex.Date) {
			out = append(out, ex)
		}
	}
	return &repository.LogResult{ID: u.ID, Username: u.Username, Count: len(out), Log: out}, nil
}

func (s *service) parseQuery(req dto.LogQueryRequest) (repository.LogQuery, error) {
	q := repository.LogQuery{From: datefmt.Epoch, To: s.now().UTC(), Limit: s.limit}

	if strings.TrimSpace(req.From) != "" {
		t, err := datefmt.Parse(req.From)
		if err != nil {
			return q, httperrors.ErrInvalidDate.WithDetail("from: " + err.Error()).WithCause(err)
		}
		q.From = t
	}
	if strings.TrimSpace(req.To) != "" {
		t, err := datefmt.Parse(req.To)
		if err != nil {
			return q, httperrors.ErrInvalidDate.WithDetail("to: " + err.Error()).WithCause(err)
		}
		q.To = t
	}
	if raw := strings.TrimSpace(req.Limit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return q, httperrors.ErrInvalidParameter.WithDetail("limit must be a positive integer")
		}
		q.Limit = n
	}
	return q, nil
}
