// Package logs contiene el controller de GET /api/users/{id}/logs.
package logs

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/exercisetracker/internal/datefmt"
	"github.com/dropDatabas3/exercisetracker/internal/http/dto"
	httperrors "github.com/dropDatabas3/exercisetracker/internal/http/errors"
	"github.com/dropDatabas3/exercisetracker/internal/http/helpers"
	svc "github.com/dropDatabas3/exercisetracker/internal/http/services/logs"
)

type LogsController struct {
	service svc.Service
}

func NewLogsController(service svc.Service) *LogsController {
	return &LogsController{service: service}
}

// Get maneja GET /api/users/{id}/logs?from=&to=&limit=
func (c *LogsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	res, err := c.service.Get(ctx, chi.URLParam(r, "id"), dto.LogQueryRequest{
		From:  q.Get("from"),
		To:    q.Get("to"),
		Limit: q.Get("limit"),
	})
	if err != nil {
		httperrors.Respond(ctx, w, err)
		return
	}

	entries := make([]dto.LogEntry, 0, len(res.Log))
	for _, e := range res.Log {
		entries = append(entries, dto.LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        datefmt.Format(e.Date),
		})
	}
	helpers.WriteJSON(w, http.StatusOK, dto.LogResponse{
		ID:       res.ID,
		Username: res.Username,
		Count:    res.Count,
		Log:      entries,
	})
}
