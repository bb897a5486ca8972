package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/service"
)

// TagTypeHandler serves the tag type taxonomy
type TagTypeHandler struct {
	tagTypes *service.TagTypeService
	logger   *slog.Logger
}

// NewTagTypeHandler creates a new tag type handler
func NewTagTypeHandler(tagTypes *service.TagTypeService, logger *slog.Logger) *TagTypeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagTypeHandler{tagTypes: tagTypes, logger: logger}
}

// TagTypeRequest is the body of POST and PUT /api/tag_type
type TagTypeRequest struct {
	ID   *int64 `json:"id"`
	Name string `json:"name" validate:"notblank,min=1,max=50" msg:"notblank=Tag type is required;max=Tag type must be under 50 characters;min=Tag type must have at least 1 character"`
}

// Register handles POST /api/tag_type
func (h *TagTypeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req TagTypeRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.tagTypes.Register(r.Context(), req.Name); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Tag type registered successfully")
}

// Edit handles PUT /api/tag_type
func (h *TagTypeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req TagTypeRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.ID == nil {
		writeError(w, r, h.logger, domain.NewInvalid(domain.FieldError{Field: "id", Message: "Tag type Id is required"}))
		return
	}
	if _, err := h.tagTypes.Edit(r.Context(), *req.ID, req.Name); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Tag type edited successfully")
}
