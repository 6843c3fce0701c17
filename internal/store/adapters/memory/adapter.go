// Package memory implementa un store en memoria para desarrollo y tests.
// Mantiene la misma semántica que los adapters persistentes.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
)

// Connection es un store en memoria. El zero value no es usable; usar New.
type Connection struct {
	mu    sync.RWMutex
	users []*repository.User
	byID  map[string]*repository.User
	now   func() time.Time
}

// New crea un store vacío.
func New() *Connection {
	return &Connection{
		byID: make(map[string]*repository.User),
		now:  time.Now,
	}
}

func (c *Connection) Name() string                     { return "memory" }
func (c *Connection) Ping(context.Context) error       { return nil }
func (c *Connection) Close(context.Context) error      { return nil }
func (c *Connection) Users() repository.UserRepository { return &userRepo{c: c} }

type userRepo struct{ c *Connection }

func (r *userRepo) Create(ctx context.Context, username string) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if username == "" {
		return nil, fmt.Errorf("memory: create user: username is required: %w", repository.ErrInvalidInput)
	}

	u := &repository.User{
		ID:        uuid.NewString(),
		Username:  username,
		Exercises: []repository.Exercise{},
		CreatedAt: r.c.now().UTC(),
	}

	r.c.mu.Lock()
	r.c.users = append(r.c.users, u)
	r.c.byID[u.ID] = u
	r.c.mu.Unlock()

	return cloneUser(u, false), nil
}

func (r *userRepo) List(ctx context.Context) ([]repository.UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	out := make([]repository.UserSummary, 0, len(r.c.users))
	for _, u := range r.c.users {
		out = append(out, u.Summary())
	}
	return out, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	u, ok := r.c.byID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u, true), nil
}

func (r *userRepo) AppendExercise(ctx context.Context, userID string, in repository.NewExercise) (*repository.User, *repository.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	u, ok := r.c.byID[userID]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}

	ex := repository.Exercise{
		Username:    u.Username,
		Description: in.Description,
		Duration:    in.Duration,
		Date:        in.Date.UTC(),
	}
	u.Exercises = append(u.Exercises, ex)

	return cloneUser(u, false), &ex, nil
}

func (r *userRepo) QueryLog(ctx context.Context, userID string, q repository.LogQuery) (*repository.LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	u, ok := r.c.byID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	log := make([]repository.Exercise, 0)
	for _, ex := range u.Exercises {
		if q.Limit > 0 && len(log) >= q.Limit {
			break
		}
		if q.Matches(ex.Date) {
			log = append(log, ex)
		}
	}

	return &repository.LogResult{
		ID:       u.ID,
		Username: u.Username,
		Count:    len(u.Exercises),
		Log:      log,
	}, nil
}

func cloneUser(u *repository.User, withExercises bool) *repository.User {
	out := &repository.User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
	if withExercises {
		out.Exercises = append(make([]repository.Exercise, 0, len(u.Exercises)), u.Exercises...)
	}
	return out
}
