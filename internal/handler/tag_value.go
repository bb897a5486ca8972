package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/service"
)

// TagValueHandler serves tag values
type TagValueHandler struct {
	tagValues *service.TagValueService
	logger    *slog.Logger
}

// NewTagValueHandler creates a new tag value handler
func NewTagValueHandler(tagValues *service.TagValueService, logger *slog.Logger) *TagValueHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagValueHandler{tagValues: tagValues, logger: logger}
}

// TagValueRequest is the body of POST and PUT /api/tag_value
type TagValueRequest struct {
	ID        *int64 `json:"id"`
	TagTypeID *int64 `json:"tagTypeId" validate:"required" msg:"required=Tag type Id is required"`
	Value     string `json:"value" validate:"notblank,min=1,max=100" msg:"notblank=Tag value is required;max=Tag value must be under 100 characters;min=Tag value must have at least 1 character"`
}

// TagValueItem is one entry of the tag value list
type TagValueItem struct {
	ID       int64  `json:"id"`
	TagValue string `json:"tagValue"`
	TagType  string `json:"tagType"`
}

// Register handles POST /api/tag_value
func (h *TagValueHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req TagValueRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.tagValues.Register(r.Context(), *req.TagTypeID, req.Value); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Tag value registered successfully")
}

// Edit handles PUT /api/tag_value
func (h *TagValueHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req TagValueRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.ID == nil {
		writeError(w, r, h.logger, domain.NewInvalid(domain.FieldError{Field: "id", Message: "Tag value Id is required"}))
		return
	}
	if _, err := h.tagValues.Edit(r.Context(), *req.ID, *req.TagTypeID, req.Value); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Tag Value edited successfully")
}

// List handles GET /api/tag_value
func (h *TagValueHandler) List(w http.ResponseWriter, r *http.Request) {
	values, err := h.tagValues.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	items := make([]TagValueItem, 0, len(values))
	for _, v := range values {
		items = append(items, TagValueItem{ID: v.ID, TagValue: v.Value, TagType: v.TagTypeName})
	}
	writeJSON(w, http.StatusOK, items)
}
