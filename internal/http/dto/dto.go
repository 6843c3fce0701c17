// Package dto contiene los DTOs de request/response de la API.
// Los nombres de campo JSON (incluido "_id") son parte del contrato público.
package dto

import "time"

// UserResponse representa un usuario sin sus ejercicios.
type UserResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// ExerciseResponse es la respuesta de registrar un ejercicio: el usuario y el
// ejercicio creado, aplanados.
type ExerciseResponse struct {
	ID          string  `json:"_id"`
	Username    string  `json:"username"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"` // "Mon Jan 02 2006"
}

// LogEntry es un ejercicio dentro del log.
type LogEntry struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

// LogResponse es la respuesta de GET /api/users/{id}/logs.
type LogResponse struct {
	ID       string     `json:"_id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

// LogExerciseRequest son los campos crudos del formulario de ejercicio.
type LogExerciseRequest struct {
	Description string
	Duration    string
	Date        string
}

// LogQueryRequest son los parámetros crudos de query del log.
type LogQueryRequest struct {
	From  string
	To    string
	Limit string
}

// HealthStatus estado de un componente.
type HealthStatus struct {
	Status    string `json:"status"` // ok | error | disabled
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// HealthResponse respuesta de /readyz.
type HealthResponse struct {
	Status     string                  `json:"status"` // ready | degraded | unavailable
	Version    string                  `json:"version,omitempty"`
	Components map[string]HealthStatus `json:"components"`
	Timestamp  time.Time               `json:"timestamp"`
}
