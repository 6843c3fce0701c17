// Package datefmt centraliza el parseo permisivo de fechas de entrada y el
// formato fijo de salida ("Mon Jan 02 2006") usado en todas las respuestas.
package datefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/dropDatabas3/exercisetracker/internal/domain/repository"
)

// Layout es el formato de salida: día de semana, mes, día y año de 4 dígitos.
const Layout = "Mon Jan 02 2006"

// Epoch es el límite inferior por defecto del log.
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Parse interpreta una fecha de calendario en UTC.
// Acepta ISO (2024-01-01), RFC3339, "Jan 2, 2024", "Mon Jan 01 2024", fechas con
// barras y timestamps unix. Un valor vacío, ininterpretable o con año fuera de
// 1..9999 es ErrInvalidInput.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date: %w", repository.ErrInvalidInput)
	}
	// Nuestro propio formato de salida primero, así una fecha devuelta por la API
	// se puede volver a enviar tal cual.
	if t, err := time.Parse(Layout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, repository.ErrInvalidInput)
	}
	// dateparse completa con ceros lo que no encuentra; sin año real no hay fecha.
	if y := t.UTC().Year(); y < 1 || y > 9999 {
		return time.Time{}, fmt.Errorf("invalid date %q: year out of range: %w", s, repository.ErrInvalidInput)
	}
	return t.UTC(), nil
}

// Format renderiza la fecha en UTC con Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}
