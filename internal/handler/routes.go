package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every HTTP handler the API serves
type Handlers struct {
	Auth        *AuthHandler
	Projects    *ProjectHandler
	Tags        *TagHandler
	TagTypes    *TagTypeHandler
	TagValues   *TagValueHandler
	Validations *ValidationHandler
	Health      *HealthHandler
}

// Routes registers the API on a new mux
func (h Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/signup", h.Auth.Signup)
	mux.HandleFunc("POST /api/login", h.Auth.Login)

	mux.HandleFunc("POST /api/project", h.Projects.Register)
	mux.HandleFunc("PUT /api/project", h.Projects.Edit)
	mux.HandleFunc("GET /api/project", h.Projects.ListAll)
	mux.HandleFunc("GET /api/project/{id}", h.Projects.Get)
	mux.HandleFunc("GET /api/project/organization/{organizationId}", h.Projects.ListByOrganization)

	mux.HandleFunc("POST /api/project/tag", h.Tags.Register)
	mux.HandleFunc("DELETE /api/project/tag/{id}", h.Tags.Delete)

	mux.HandleFunc("POST /api/project/validation", h.Validations.Register)
	mux.HandleFunc("PUT /api/project/validation", h.Validations.Edit)

	mux.HandleFunc("POST /api/tag_type", h.TagTypes.Register)
	mux.HandleFunc("PUT /api/tag_type", h.TagTypes.Edit)

	mux.HandleFunc("POST /api/tag_value", h.TagValues.Register)
	mux.HandleFunc("PUT /api/tag_value", h.TagValues.Edit)
	mux.HandleFunc("GET /api/tag_value", h.TagValues.List)

	mux.HandleFunc("GET /healthz", h.Health.Health)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
