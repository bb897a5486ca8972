package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/service"
)

// ProjectHandler serves project registration, edits and listings
type ProjectHandler struct {
	projects *service.ProjectService
	logger   *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectHandler{projects: projects, logger: logger}
}

// projectFieldsRequest holds the editable fields shared by registration and edit
type projectFieldsRequest struct {
	ProjectName            string  `json:"projectName" validate:"notblank" msg:"notblank=Project name is required"`
	Description            string  `json:"description" validate:"notblank" msg:"notblank=Project description is required"`
	AvailableTime          *int    `json:"availableTime" validate:"required" msg:"required=Project available time is required"`
	PurchasingRequirements *string `json:"purchasingRequirements"`
	NDARequired            *bool   `json:"ndaRequired" validate:"required" msg:"required=Project purchasing requirements is required"`
	ShowcaseAllowed        *bool   `json:"showcaseAllowed" validate:"required" msg:"required=Project showcase allowed is required"`
	Semester               string  `json:"semester" validate:"required,semester" msg:"required=Semester is required;semester=Semester is invalid"`
}

func (p projectFieldsRequest) fields() domain.ProjectFields {
	return domain.ProjectFields{
		ProjectName:            p.ProjectName,
		Description:            p.Description,
		AvailableTime:          *p.AvailableTime,
		PurchasingRequirements: p.PurchasingRequirements,
		NDARequired:            *p.NDARequired,
		ShowcaseAllowed:        *p.ShowcaseAllowed,
		Semester:               domain.Semester(p.Semester),
	}
}

// ProjectRegistrationRequest is the body of POST /api/project
type ProjectRegistrationRequest struct {
	projectFieldsRequest
	OrganizationID *int64 `json:"organizationId" validate:"required" msg:"required=Organization ID is required"`
}

// ProjectEditRequest is the body of PUT /api/project
type ProjectEditRequest struct {
	ID *int64 `json:"id" validate:"required" msg:"required=Project Id is required"`
	projectFieldsRequest
}

// TagResponse is the tag projection embedded in project views
type TagResponse struct {
	ID      int64  `json:"id"`
	Value   string `json:"value"`
	TagType string `json:"tagType"`
}

// ProjectListItem is the listing projection of a project
type ProjectListItem struct {
	ID              int64         `json:"id"`
	ProjectName     string        `json:"projectName"`
	Description     string        `json:"description"`
	Semester        string        `json:"semester"`
	NDARequired     bool          `json:"ndaRequired"`
	ShowcaseAllowed bool          `json:"showcaseAllowed"`
	CreatedAt       time.Time     `json:"createdAt"`
	Tags            []TagResponse `json:"tags"`
}

// ProjectPageResponse wraps a page of listing projections
type ProjectPageResponse struct {
	Projects      []ProjectListItem `json:"projects"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

// ProjectViewResponse is the single-project view
type ProjectViewResponse struct {
	ID                     int64         `json:"id"`
	ProjectName            string        `json:"projectName"`
	Description            string        `json:"description"`
	AvailableTime          int           `json:"availableTime"`
	PurchasingRequirements *string       `json:"purchasingRequirements"`
	NDARequired            bool          `json:"ndaRequired"`
	ShowcaseAllowed        bool          `json:"showcaseAllowed"`
	Semester               string        `json:"semester"`
	CreatedAt              time.Time     `json:"createdAt"`
	UpdatedAt              *time.Time    `json:"updatedAt"`
	ProfessorFeedback      *string       `json:"professorFeedback"`
	Tags                   []TagResponse `json:"tags"`
}

func tagResponses(tags []domain.ProjectTag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagResponse{ID: t.ID, Value: t.Value, TagType: t.TagType})
	}
	return out
}

func pageResponse(page *service.ProjectPage) ProjectPageResponse {
	items := make([]ProjectListItem, 0, len(page.Projects))
	for _, p := range page.Projects {
		items = append(items, ProjectListItem{
			ID:              p.ID,
			ProjectName:     p.ProjectName,
			Description:     p.Description,
			Semester:        string(p.Semester),
			NDARequired:     p.NDARequired,
			ShowcaseAllowed: p.ShowcaseAllowed,
			CreatedAt:       p.CreatedAt,
			Tags:            tagResponses(p.Tags),
		})
	}
	return ProjectPageResponse{
		Projects:      items,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

// Register handles POST /api/project
func (h *ProjectHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req ProjectRegistrationRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.projects.Register(r.Context(), *req.OrganizationID, req.fields()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Project registered successfully")
}

// Edit handles PUT /api/project
func (h *ProjectHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req ProjectEditRequest
	if err := bind(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if _, err := h.projects.Edit(r.Context(), *req.ID, req.fields()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, "Project updated successfully")
}

// ListAll handles GET /api/project
func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, err := h.projects.ListAll(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse(page))
}

// ListByOrganization handles GET /api/project/organization/{organizationId}
func (h *ProjectHandler) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "organizationId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	q, err := parseProjectQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	q.OrganizationID = orgID

	page, err := h.projects.ListByOrganization(r.Context(), q)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse(page))
}

// Get handles GET /api/project/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	detail, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ProjectViewResponse{
		ID:                     detail.ID,
		ProjectName:            detail.ProjectName,
		Description:            detail.Description,
		AvailableTime:          detail.AvailableTime,
		PurchasingRequirements: detail.PurchasingRequirements,
		NDARequired:            detail.NDARequired,
		ShowcaseAllowed:        detail.ShowcaseAllowed,
		Semester:               string(detail.Semester),
		CreatedAt:              detail.CreatedAt,
		UpdatedAt:              detail.UpdatedAt,
		ProfessorFeedback:      detail.ProfessorFeedback,
		Tags:                   tagResponses(detail.Tags),
	})
}

// parseProjectQuery reads page, size, sortBy, sortDirection and semesterFilter.
// Only absent parameters take the listing defaults; a present but empty or
// zero value is passed on and rejected by the service's range checks.
func parseProjectQuery(values url.Values) (domain.ProjectQuery, error) {
	var (
		q      = service.NewProjectQuery(0)
		fields []domain.FieldError
		err    error
	)

	if values.Has("page") {
		if q.Page, err = strconv.Atoi(values.Get("page")); err != nil {
			fields = append(fields, domain.FieldError{Field: "page", Message: "must be a number"})
		}
	}
	if values.Has("size") {
		if q.Size, err = strconv.Atoi(values.Get("size")); err != nil {
			fields = append(fields, domain.FieldError{Field: "size", Message: "must be a number"})
		}
	}
	if values.Has("sortBy") {
		q.SortBy = values.Get("sortBy")
	}
	if values.Has("sortDirection") {
		q.Direction = domain.SortDirection(strings.ToUpper(values.Get("sortDirection")))
	}
	if raw := values.Get("semesterFilter"); raw != "" {
		semester, ok := domain.ParseSemester(raw)
		if !ok {
			fields = append(fields, domain.FieldError{Field: "semesterFilter", Message: "unknown semester"})
		}
		q.Semester = &semester
	}

	if len(fields) > 0 {
		return q, domain.NewInvalid(fields...)
	}
	return q, nil
}
