package store

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
	"github.com/dropDatabas3/exercisetracker/internal/metrics"
)

// Instrument envuelve la conexión para que su UserRepository registre
// store_operation_duration_seconds por driver, operación y resultado.
func Instrument(conn Connection) Connection {
	if conn == nil {
		return nil
	}
	if _, ok := conn.(*instrumented); ok {
		return conn
	}
	return &instrumented{Connection: conn}
}

// Unwrap retorna la conexión original si fue instrumentada.
func Unwrap(conn Connection) Connection {
	if i, ok := conn.(*instrumented); ok {
		return i.Connection
	}
	return conn
}

type instrumented struct {
	Connection
}

func (c *instrumented) Users() repository.UserRepository {
	return &instrumentedUsers{next: c.Connection.Users(), driver: c.Connection.Name()}
}

type instrumentedUsers struct {
	next   repository.UserRepository
	driver string
}

func (r *instrumentedUsers) observe(op string, start time.Time, err error) {
	metrics.ObserveStore(r.driver, op, resultLabel(err), time.Since(start))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

func (r *instrumentedUsers) Create(ctx context.Context, username string) (u *repository.User, err error) {
	defer func(start time.Time) { r.observe("create", start, err) }(time.Now())
	return r.next.Create(ctx, username)
}

func (r *instrumentedUsers) List(ctx context.Context) (out []repository.UserSummary, err error) {
	defer func(start time.Time) { r.observe("list", start, err) }(time.Now())
	return r.next.List(ctx)
}

func (r *instrumentedUsers) GetByID(ctx context.Context, userID string) (u *repository.User, err error) {
	defer func(start time.Time) { r.observe("get_by_id", start, err) }(time.Now())
	return r.next.GetByID(ctx, userID)
}

func (r *instrumentedUsers) AppendExercise(ctx context.Context, userID string, in repository.NewExercise) (u *repository.User, ex *repository.Exercise, err error) {
	defer func(start time.Time) { r.observe("append_exercise", start, err) }(time.Now())
	return r.next.AppendExercise(ctx, userID, in)
}

func (r *instrumentedUsers) QueryLog(ctx context.Context, userID string, q repository.LogQuery) (res *repository.LogResult, err error) {
	defer func(start time.Time) { r.observe("query_log", start, err) }(time.Now())
	return r.next.QueryLog(ctx, userID, q)
}
