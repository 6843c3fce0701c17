// Package exercises contiene el service que registra ejercicios.
package exercises

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/exercisetracker/internal/datefmt"
	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
	"github.com/dropDatabas3/exercisetracker/internal/http/dto"
	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
	"github.com/dropDatabas3/exercisetracker/internal/metrics"
	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
)

// Service define el registro de ejercicios.
type Service interface {
	// Log agrega un ejercicio al usuario. Fecha vacía → hoy; fecha inválida → 400;
	// usuario inexistente → 404. En error no hay escritura.
	Log(ctx context.Context, userID string, req dto.LogExerciseRequest) (*repository.User, *repository.Exercise, error)
}

// Deps dependencias del service.
type Deps struct {
	Repo repository.UserRepository
	Now  func() time.Time // opcional, para tests
}

type service struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewService crea el service de ejercicios.
func NewService(d Deps) Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: d.Repo, now: now}
}

func (s *service) Log(ctx context.Context, userID string, req dto.LogExerciseRequest) (*repository.User, *repository.Exercise, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("exercises"),
		logger.Op("Log"),
		logger.UserID(userID),
	)

	duration, err := parseDuration(req.Duration)
	if err != nil {
		return nil, nil, err
	}

	date := s.now().UTC()
	if strings.TrimSpace(req.Date) != "" {
		date, err = datefmt.Parse(req.Date)
		if err != nil {
			return nil, nil, httperrors.ErrInvalidDate.WithDetail(err.Error()).WithCause(err)
		}
	}

	user, ex, err := s.repo.AppendExercise(ctx, userID, repository.NewExercise{
		Description: req.Description,
		Duration:    duration,
		Date:        date,
	})
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, nil, httperrors.ErrUserNotFound.WithCause(err)
		case repository.IsInvalidInput(err):
			return nil, nil, httperrors.ErrValidation.WithDetail(err.Error()).WithCause(err)
		case httperrors.ClientGone(ctx, err):
			log.Debug("append canceled by client", logger.Err(err))
			return nil, nil, httperrors.ErrRequestCanceled.WithCause(err)
		}
		log.Error("failed to append exercise", logger.Err(err))
		return nil, nil, httperrors.ErrStoreUnavailable.WithCause(err)
	}

	metrics.ExercisesLoggedTotal.Inc()
	log.Info("exercise logged", logger.Float("duration", ex.Duration))
	return user, ex, nil
}

// parseDuration acepta vacío (0) o un número finito.
func parseDuration(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, httperrors.ErrValidation.WithDetail("duration must be a number")
	}
	return d, nil
}
