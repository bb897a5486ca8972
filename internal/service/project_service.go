package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/metrics"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/tracing"
)

// Listing defaults applied when the caller omits a parameter
const (
	DefaultPage      = 0
	DefaultPageSize  = 10
	DefaultSortField = "createdAt"
)

// NewProjectQuery returns the listing query used when the caller sets no parameters
func NewProjectQuery(organizationID int64) domain.ProjectQuery {
	return domain.ProjectQuery{
		OrganizationID: organizationID,
		Page:           DefaultPage,
		Size:           DefaultPageSize,
		SortBy:         DefaultSortField,
		Direction:      domain.SortDesc,
	}
}

// ProjectService manages project registration, edits and reads
type ProjectService struct {
	store  domain.Store
	logger *slog.Logger
	now    Clock
}

// NewProjectService creates a new project service
func NewProjectService(store domain.Store, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{store: store, logger: logger, now: time.Now}
}

// ProjectPage is one page of a project listing
type ProjectPage struct {
	Projects      []*domain.Project
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// ProjectDetail is the single-project view
type ProjectDetail struct {
	*domain.Project
	ProfessorFeedback *string
}

// Register creates a project owned by organizationID
func (s *ProjectService) Register(ctx context.Context, organizationID int64, fields domain.ProjectFields) (_ *domain.Project, err error) {
	ctx, span := tracing.Start(ctx, "ProjectService.Register", attribute.Int64("organization.id", organizationID))
	defer func() {
		metrics.ObserveOperation("project", "register", err)
		tracing.End(span, err)
	}()

	users := s.store.Users()
	if err := requireRole(ctx, users, organizationID, domain.RoleOrganization, "Invalid organization ID"); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, users, organizationID, "Organization not found"); err != nil {
		return nil, err
	}

	project := domain.NewProject(fields, organizationID, s.now())
	if err := s.store.Projects().Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project registered",
		slog.Int64("project_id", project.ID),
		slog.Int64("organization_id", organizationID),
	)
	return project, nil
}

// Edit replaces every editable field of an existing project
func (s *ProjectService) Edit(ctx context.Context, id int64, fields domain.ProjectFields) (_ *domain.Project, err error) {
	ctx, span := tracing.Start(ctx, "ProjectService.Edit", attribute.Int64("project.id", id))
	defer func() {
		metrics.ObserveOperation("project", "edit", err)
		tracing.End(span, err)
	}()

	var project *domain.Project
	err = s.store.WithinTx(ctx, func(tx domain.Store) error {
		p, err := tx.Projects().GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Project not found")
		}
		p.UpdateFrom(fields, s.now())
		if err := tx.Projects().Update(ctx, p); err != nil {
			return notFound(err, "Project not found")
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated", slog.Int64("project_id", id))
	return project, nil
}

// ListAll returns every project as a single page
func (s *ProjectService) ListAll(ctx context.Context) (_ *ProjectPage, err error) {
	ctx, span := tracing.Start(ctx, "ProjectService.ListAll")
	defer func() { tracing.End(span, err) }()

	projects, err := s.store.Projects().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, projects); err != nil {
		return nil, err
	}

	return &ProjectPage{
		Projects:      projects,
		Page:          0,
		Size:          len(projects),
		TotalElements: int64(len(projects)),
		TotalPages:    1,
	}, nil
}

// ListByOrganization returns one page of an organization's projects.
// Start from NewProjectQuery; q is validated as given, so a zero Size is rejected.
func (s *ProjectService) ListByOrganization(ctx context.Context, q domain.ProjectQuery) (_ *ProjectPage, err error) {
	ctx, span := tracing.Start(ctx, "ProjectService.ListByOrganization", attribute.Int64("organization.id", q.OrganizationID))
	defer func() { tracing.End(span, err) }()

	if err = checkQuery(q); err != nil {
		return nil, err
	}

	ok, err := s.store.Users().ExistsByIDAndRole(ctx, q.OrganizationID, domain.RoleOrganization)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound("Organization not found")
	}

	projects, total, err := s.store.Projects().ListByOrganization(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, projects); err != nil {
		return nil, err
	}

	return &ProjectPage{
		Projects:      projects,
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: total,
		TotalPages:    int((total + int64(q.Size) - 1) / int64(q.Size)),
	}, nil
}

// Get returns the detail view of a project with its newest feedback
func (s *ProjectService) Get(ctx context.Context, id int64) (_ *ProjectDetail, err error) {
	ctx, span := tracing.Start(ctx, "ProjectService.Get", attribute.Int64("project.id", id))
	defer func() { tracing.End(span, err) }()

	project, err := s.store.Projects().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Project not found")
	}
	if err := s.attachTags(ctx, []*domain.Project{project}); err != nil {
		return nil, err
	}

	detail := &ProjectDetail{Project: project}
	validation, err := s.store.Validations().FindByProject(ctx, id)
	switch {
	case err == nil:
		detail.ProfessorFeedback = &validation.Feedback
	case !errors.Is(err, domain.ErrRecordNotFound):
		return nil, err
	}
	return detail, nil
}

func (s *ProjectService) attachTags(ctx context.Context, projects []*domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	tags, err := s.store.Tags().ListByProjects(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range projects {
		p.Tags = tags[p.ID]
		if p.Tags == nil {
			p.Tags = []domain.ProjectTag{}
		}
	}
	return nil
}

func checkQuery(q domain.ProjectQuery) error {
	var fields []domain.FieldError
	switch {
	case q.Page < 0:
		fields = append(fields, domain.FieldError{Field: "page", Message: "must be greater than or equal to 0"})
	case q.Size > 0 && q.Page > math.MaxInt/q.Size:
		fields = append(fields, domain.FieldError{Field: "page", Message: "is too large"})
	}
	if q.Size < 1 {
		fields = append(fields, domain.FieldError{Field: "size", Message: "must be greater than or equal to 1"})
	}
	if _, ok := domain.ProjectSortFields[q.SortBy]; !ok {
		fields = append(fields, domain.FieldError{Field: "sortBy", Message: "unsupported sort field"})
	}
	if q.Direction != domain.SortAsc && q.Direction != domain.SortDesc {
		fields = append(fields, domain.FieldError{Field: "sortDirection", Message: "must be ASC or DESC"})
	}
	if q.Semester != nil && !q.Semester.Valid() {
		fields = append(fields, domain.FieldError{Field: "semesterFilter", Message: "unknown semester"})
	}
	if len(fields) > 0 {
		return domain.NewInvalid(fields...)
	}
	return nil
}
