package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/metrics"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/tracing"
)

// TagService attaches tag values to projects
type TagService struct {
	store  domain.Store
	logger *slog.Logger
	now    Clock
}

// NewTagService creates a new tag association service
func NewTagService(store domain.Store, logger *slog.Logger) *TagService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagService{store: store, logger: logger, now: time.Now}
}

// Register links a tag value to a project on behalf of a professor.
// The checks run in a fixed order: professor role, duplicate pair,
// then project, tag value and professor existence.
func (s *TagService) Register(ctx context.Context, projectID, tagValueID, professorID int64) (_ *domain.Tag, err error) {
	ctx, span := tracing.Start(ctx, "TagService.Register",
		attribute.Int64("project.id", projectID),
		attribute.Int64("tag_value.id", tagValueID),
	)
	defer func() {
		metrics.ObserveOperation("tag", "register", err)
		tracing.End(span, err)
	}()

	users := s.store.Users()
	if err := requireRole(ctx, users, professorID, domain.RoleProfessor, "Invalid professor ID"); err != nil {
		return nil, err
	}

	dup, err := s.store.Tags().ExistsByProjectAndValue(ctx, projectID, tagValueID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, domain.NewConflict("Tag already registered")
	}

	if _, err := s.store.Projects().GetByID(ctx, projectID); err != nil {
		return nil, notFound(err, "Project not found")
	}
	if _, err := s.store.TagValues().GetByID(ctx, tagValueID); err != nil {
		return nil, notFound(err, "Tag value not found")
	}
	if err := requireUser(ctx, users, professorID, "Professor not found"); err != nil {
		return nil, err
	}

	tag := domain.NewTag(projectID, tagValueID, professorID, s.now())
	if err := s.store.Tags().Create(ctx, tag); err != nil {
		return nil, err
	}
	s.logger.Info("tag registered",
		slog.Int64("tag_id", tag.ID),
		slog.Int64("project_id", projectID),
		slog.Int64("professor_id", professorID),
	)
	return tag, nil
}

// Delete removes a tag association
func (s *TagService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.Start(ctx, "TagService.Delete", attribute.Int64("tag.id", id))
	defer func() {
		metrics.ObserveOperation("tag", "delete", err)
		tracing.End(span, err)
	}()

	exists, err := s.store.Tags().ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewNotFound("Tag not found")
	}
	if err := s.store.Tags().Delete(ctx, id); err != nil {
		return notFound(err, "Tag not found")
	}
	s.logger.Info("tag deleted", slog.Int64("tag_id", id))
	return nil
}
