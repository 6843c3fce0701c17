// Package pg implementa el store sobre PostgreSQL usando pgxpool.
//
// Los ejercicios viven en su propia tabla con FK a users (ON DELETE CASCADE), así
// el usuario sigue siendo dueño exclusivo de su secuencia.
package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
)

// Options configuración de conexión.
type Options struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Connection representa una conexión activa a PostgreSQL.
type Connection struct {
	pool *pgxpool.Pool
}

// Connect crea el pool y verifica la conexión.
func Connect(ctx context.Context, opts Options) (*Connection, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, fmt.Errorf("pg: dsn is required: %w", repository.ErrInvalidInput)
	}
	poolCfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %v: %w", err, repository.ErrInvalidInput)
	}

	// Configurar pool
	if opts.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(opts.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if opts.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(opts.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &Connection{pool: pool}, nil
}

func (c *Connection) Name() string { return "postgres" }

func (c *Connection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Connection) Close(context.Context) error {
	c.pool.Close()
	return nil
}

// Stat expone las estadísticas del pool (para métricas).
func (c *Connection) Stat() *pgxpool.Stat { return c.pool.Stat() }

func (c *Connection) Users() repository.UserRepository { return &userRepo{pool: c.pool} }

// ─── UserRepository ───

type userRepo struct{ pool *pgxpool.Pool }

// validID descarta ids que Postgres rechazaría con un error de sintaxis de uuid.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *userRepo) Create(ctx context.Context, username string) (*repository.User, error) {
	if username == "" {
		return nil, fmt.Errorf("pg: create user: username is required: %w", repository.ErrInvalidInput)
	}
	const query = `INSERT INTO users (username) VALUES ($1) RETURNING id::text, username, created_at`

	var u repository.User
	if err := r.pool.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("pg: create user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]repository.UserSummary, error) {
	const query = `SELECT id::text, username FROM users ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pg: list users: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.UserSummary, error) {
		var s repository.UserSummary
		err := row.Scan(&s.ID, &s.Username)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("pg: list users: %w", err)
	}
	if out == nil {
		out = []repository.UserSummary{}
	}
	return out, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	if !validID(userID) {
		return nil, repository.ErrNotFound
	}

	var u repository.User
	err := r.pool.QueryRow(ctx, `SELECT id::text, username, created_at FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get user by id: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()

	rows, err := r.pool.Query(ctx, `
		SELECT username, description, duration, date
		FROM exercises WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("pg: get user exercises: %w", err)
	}
	u.Exercises, err = collectExercises(rows)
	if err != nil {
		return nil, fmt.Errorf("pg: get user exercises: %w", err)
	}
	return &u, nil
}

func (r *userRepo) AppendExercise(ctx context.Context, userID string, in repository.NewExercise) (*repository.User, *repository.Exercise, error) {
	if !validID(userID) {
		return nil, nil, repository.ErrNotFound
	}
	// El snapshot del username y el insert son un único statement.
	const query = `
		INSERT INTO exercises (user_id, username, description, duration, date)
		SELECT u.id, u.username, $2::text, $3::double precision, $4::timestamptz FROM users u WHERE u.id = $1
		RETURNING username, description, duration, date`

	var ex repository.Exercise
	err := r.pool.QueryRow(ctx, query, userID, in.Description, in.Duration, in.Date.UTC()).
		Scan(&ex.Username, &ex.Description, &ex.Duration, &ex.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("pg: append exercise: %w", err)
	}
	ex.Date = ex.Date.UTC()

	return &repository.User{ID: userID, Username: ex.Username}, &ex, nil
}

func (r *userRepo) QueryLog(ctx context.Context, userID string, q repository.LogQuery) (*repository.LogResult, error) {
	if !validID(userID) {
		return nil, repository.ErrNotFound
	}

	var res repository.LogResult
	// Snapshot consistente: el count y las filas se leen de la misma vista.
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT u.id::text, u.username, (SELECT COUNT(*) FROM exercises e WHERE e.user_id = u.id)
			FROM users u WHERE u.id = $1`, userID).Scan(&res.ID, &res.Username, &res.Count)
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}

		query := `
			SELECT username, description, duration, date
			FROM exercises
			WHERE user_id = $1 AND date >= $2 AND date <= $3
			ORDER BY id`
		args := []any{userID, q.From.UTC(), q.To.UTC()}
		if q.Limit > 0 {
			query += ` LIMIT $4`
			args = append(args, q.Limit)
		}

		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		res.Log, err = collectExercises(rows)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("pg: query log: %w", err)
	}
	return &res, nil
}

func collectExercises(rows pgx.Rows) ([]repository.Exercise, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Exercise, error) {
		var ex repository.Exercise
		var date time.Time
		err := row.Scan(&ex.Username, &ex.Description, &ex.Duration, &date)
		ex.Date = date.UTC()
		return ex, err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []repository.Exercise{}
	}
	return out, nil
}
