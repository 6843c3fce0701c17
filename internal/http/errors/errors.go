package errors

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/exercisetracker/internal/observability/logger"
)

// errorResponse estructura interna para la serialización JSON.
// Esto nos permite controlar exactamente qué campos se envían al cliente.
type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Detail: appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}

// Respond es WriteError más el log de la causa: los 5xx como error, el resto en debug.
func Respond(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := FromError(err)
	log := logger.From(ctx)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed", logger.String("code", appErr.Code), logger.Err(appErr.Err))
	} else {
		log.Debug("request rejected", logger.String("code", appErr.Code), logger.String("detail", appErr.Detail))
	}
	WriteError(w, appErr)
}
