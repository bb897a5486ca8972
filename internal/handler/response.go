package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/security/audit"
)

// MessageResponse is the body of every successful mutation
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// writeError is the single translator from domain errors to HTTP responses
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("request failed",
			slog.String("request_id", audit.RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   http.StatusText(http.StatusInternalServerError),
			Message: "unexpected error",
		})
		return
	}

	var status int
	switch de.Kind {
	case domain.KindValidation:
		fields := de.Fields
		if fields == nil {
			fields = []domain.FieldError{}
		}
		writeJSON(w, http.StatusBadRequest, fields)
		return
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindUnauthenticated:
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
	}

	logger.Info("request rejected",
		slog.String("request_id", audit.RequestID(r.Context())),
		slog.String("kind", de.Kind.String()),
		slog.String("message", de.Message),
	)
	writeJSON(w, status, ErrorResponse{Error: http.StatusText(status), Message: de.Message})
}
