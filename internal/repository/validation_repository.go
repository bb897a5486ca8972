package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// PostgresValidationRepository implements domain.ValidationRepository using PostgreSQL
type PostgresValidationRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewPostgresValidationRepository creates a new validation repository
func NewPostgresValidationRepository(db DBTX, logger *slog.Logger) *PostgresValidationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresValidationRepository{db: db, logger: logger}
}

const newestValidation = `
	SELECT id, project_id, professor_id, professor_feedback, created_at
	FROM project_validation
	WHERE project_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT 1
`

// Create inserts a validation record
func (r *PostgresValidationRepository) Create(ctx context.Context, v *domain.Validation) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO project_validation (project_id, professor_id, professor_feedback, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		v.ProjectID, v.ProfessorID, v.Feedback, v.CreatedAt,
	).Scan(&v.ID)
	if err != nil {
		if translated := translateWriteError(err, "Validation already registered", "Project not found"); translated != err {
			return translated
		}
		r.logger.Error("failed to create validation",
			slog.Int64("project_id", v.ProjectID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create validation: %w", err)
	}
	return nil
}

// FindByProject returns the newest validation of a project
func (r *PostgresValidationRepository) FindByProject(ctx context.Context, projectID int64) (*domain.Validation, error) {
	return r.find(ctx, newestValidation, projectID)
}

// FindByProjectForUpdate returns the newest validation and locks it
func (r *PostgresValidationRepository) FindByProjectForUpdate(ctx context.Context, projectID int64) (*domain.Validation, error) {
	return r.find(ctx, newestValidation+` FOR UPDATE`, projectID)
}

func (r *PostgresValidationRepository) find(ctx context.Context, query string, projectID int64) (*domain.Validation, error) {
	v := &domain.Validation{}
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(&v.ID, &v.ProjectID, &v.ProfessorID, &v.Feedback, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("validation for project %d: %w", projectID, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get validation: %w", err)
	}
	return v, nil
}

// Update rewrites the feedback of a validation record
func (r *PostgresValidationRepository) Update(ctx context.Context, v *domain.Validation) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE project_validation SET professor_feedback = $1 WHERE id = $2`,
		v.Feedback, v.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update validation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("validation %d: %w", v.ID, domain.ErrRecordNotFound)
	}
	return nil
}
