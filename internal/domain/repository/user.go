package repository

import (
	"context"
	"time"
)

// User es el aggregate root. Es dueño exclusivo de su secuencia de Exercises:
// borrar el usuario borra sus ejercicios.
type User struct {
	ID        string
	Username  string
	Exercises []Exercise
	CreatedAt time.Time
}

// Summary proyecta el usuario a id + username.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

// UserSummary es la proyección usada en listados (nunca incluye ejercicios).
type UserSummary struct {
	ID       string
	Username string
}

// Exercise es un registro de valor embebido en el User.
type Exercise struct {
	// Username es una copia del username del dueño al momento de crear el ejercicio.
	// No se sincroniza con cambios posteriores.
	Username    string
	Description string
	Duration    float64 // minutos
	Date        time.Time
}

// NewExercise contiene los datos para agregar un ejercicio a un usuario.
type NewExercise struct {
	Description string
	Duration    float64
	Date        time.Time
}

// LogQuery filtra el log de ejercicios de un usuario.
// El rango [From, To] es inclusivo en ambos extremos.
type LogQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}

// Matches indica si la fecha cae dentro del rango del query.
func (q LogQuery) Matches(d time.Time) bool {
	return !d.Before(q.From) && !d.After(q.To)
}

// LogResult es el resultado de consultar el log de un usuario.
type LogResult struct {
	ID       string
	Username string
	// Count depende de la estrategia: en QueryLog es el total de ejercicios del
	// usuario antes de filtrar por fecha (independiente de Limit).
	Count int
	Log   []Exercise
}

// UserRepository define operaciones sobre usuarios y sus ejercicios.
type UserRepository interface {
	// Create persiste un usuario nuevo con la secuencia de ejercicios vacía.
	// Retorna ErrInvalidInput si username está vacío.
	Create(ctx context.Context, username string) (*User, error)

	// List lista todos los usuarios proyectados a id + username, en orden de creación.
	List(ctx context.Context) ([]UserSummary, error)

	// GetByID busca un usuario con todos sus ejercicios.
	// Retorna ErrNotFound si no existe o si el id está malformado.
	GetByID(ctx context.Context, userID string) (*User, error)

	// AppendExercise agrega un ejercicio al final de la secuencia del usuario,
	// tomando un snapshot de su username actual. Es atómico por usuario.
	// Retorna el usuario (sin ejercicios) y el ejercicio creado.
	// Retorna ErrNotFound si el usuario no existe.
	AppendExercise(ctx context.Context, userID string, in NewExercise) (*User, *Exercise, error)

	// QueryLog devuelve los ejercicios del usuario dentro de [From, To], en orden
	// de inserción y recortados a Limit. Count es el total previo al filtrado.
	// Retorna ErrNotFound si el usuario no existe.
	QueryLog(ctx context.Context, userID string, q LogQuery) (*LogResult, error)
}
