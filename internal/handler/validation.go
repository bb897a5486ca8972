package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/projectmatch/internal/service"
)

// ValidationHandler records professor feedback on projects
type ValidationHandler struct {
	validations *service.ValidationService
	logger      *slog.Logger
}

// NewValidationHandler creates a new validation handler
func NewValidationHandler(validations *service.ValidationService, logger *slog.Logger) *ValidationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationHandler{validations: validations, logger: logger}
}

// ValidationRequest is the body of POST and PUT /api/project/validation
type ValidationRequest struct {
	ProjectID         *int64 `json:"projectId" validate:"required" msg:"required=Project Id is required"`
	ProfessorID       *int64 `json:"professorId" validate:"required" msg:"required=Professor Id is required"`
	ProfessorFeedback string `json:"professorFeedback" validate:"notblank,max=10000" msg:"notblank=Professor feedback is required;max=Feedback must be under 10000 characters"`
}

// Register handles POST /api/project/validation
func (h *ValidationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req ValidationRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.validations.Register(r.Context(), *req.ProjectID, *req.ProfessorID, req.ProfessorFeedback); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Validation registered successfully")
}

// Edit handles PUT /api/project/validation
func (h *ValidationHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req ValidationRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.validations.Edit(r.Context(), *req.ProjectID, *req.ProfessorID, req.ProfessorFeedback); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Validation edited successfully")
}
