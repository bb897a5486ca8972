package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/projectmatch/internal/service"
)

// TagHandler attaches and detaches project tags
type TagHandler struct {
	tags   *service.TagService
	logger *slog.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags *service.TagService, logger *slog.Logger) *TagHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagHandler{tags: tags, logger: logger}
}

// TagRequest is the body of POST /api/project/tag
type TagRequest struct {
	ProjectID   *int64 `json:"projectId" validate:"required" msg:"required=Project Id is required"`
	TagValueID  *int64 `json:"tagValueId" validate:"required" msg:"required=Tag value Id is required"`
	ProfessorID *int64 `json:"professorId" validate:"required" msg:"required=Professor Id is required"`
}

// Register handles POST /api/project/tag
func (h *TagHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.tags.Register(r.Context(), *req.ProjectID, *req.TagValueID, *req.ProfessorID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Tag registered successfully")
}

// Delete handles DELETE /api/project/tag/{id}
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.tags.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Tag deleted successfully")
}
