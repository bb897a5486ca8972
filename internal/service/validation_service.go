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

// ValidationService records professor feedback on projects
type ValidationService struct {
	store  domain.Store
	logger *slog.Logger
	now    Clock
}

// NewValidationService creates a new validation service
func NewValidationService(store domain.Store, logger *slog.Logger) *ValidationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationService{store: store, logger: logger, now: time.Now}
}

func checkValidationRefs(ctx context.Context, tx domain.Store, projectID, professorID int64) error {
	if _, err := tx.Projects().GetByID(ctx, projectID); err != nil {
		return notFound(err, "Project not found")
	}
	if err := requireRole(ctx, tx.Users(), professorID, domain.RoleProfessor, "Invalid professor ID"); err != nil {
		return err
	}
	return requireUser(ctx, tx.Users(), professorID, "Professor not found")
}

// Register stores a new validation record. Earlier records of the project are kept.
func (s *ValidationService) Register(ctx context.Context, projectID, professorID int64, feedback string) (_ *domain.Validation, err error) {
	ctx, span := tracing.Start(ctx, "ValidationService.Register", attribute.Int64("project.id", projectID))
	defer func() {
		metrics.ObserveOperation("validation", "register", err)
		tracing.End(span, err)
	}()

	if err := checkValidationRefs(ctx, s.store, projectID, professorID); err != nil {
		return nil, err
	}

	validation := domain.NewValidation(projectID, professorID, feedback, s.now())
	if err := s.store.Validations().Create(ctx, validation); err != nil {
		return nil, err
	}
	s.logger.Info("validation registered",
		slog.Int64("validation_id", validation.ID),
		slog.Int64("project_id", projectID),
	)
	return validation, nil
}

// Edit overwrites the feedback of the project's newest validation record
func (s *ValidationService) Edit(ctx context.Context, projectID, professorID int64, feedback string) (_ *domain.Validation, err error) {
	ctx, span := tracing.Start(ctx, "ValidationService.Edit", attribute.Int64("project.id", projectID))
	defer func() {
		metrics.ObserveOperation("validation", "edit", err)
		tracing.End(span, err)
	}()

	var validation *domain.Validation
	err = s.store.WithinTx(ctx, func(tx domain.Store) error {
		if err := checkValidationRefs(ctx, tx, projectID, professorID); err != nil {
			return err
		}
		v, err := tx.Validations().FindByProjectForUpdate(ctx, projectID)
		if err != nil {
			return notFound(err, "Validation not found")
		}
		v.UpdateFrom(feedback)
		if err := tx.Validations().Update(ctx, v); err != nil {
			return notFound(err, "Validation not found")
		}
		validation = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("validation edited",
		slog.Int64("validation_id", validation.ID),
		slog.Int64("project_id", projectID),
	)
	return validation, nil
}
