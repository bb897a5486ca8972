package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// PostgresTagRepository implements domain.TagRepository using PostgreSQL
type PostgresTagRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewPostgresTagRepository creates a new tag repository
func NewPostgresTagRepository(db DBTX, logger *slog.Logger) *PostgresTagRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagRepository{db: db, logger: logger}
}

// Create inserts a project tag association
func (r *PostgresTagRepository) Create(ctx context.Context, t *domain.Tag) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO project_tag (project_id, tag_value_id, professor_id, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		t.ProjectID, t.TagValueID, t.ProfessorID, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		if translated := translateWriteError(err, "Tag already registered", "Project not found"); translated != err {
			return translated
		}
		r.logger.Error("failed to create tag",
			slog.Int64("project_id", t.ProjectID),
			slog.Int64("tag_value_id", t.TagValueID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// ExistsByID reports whether the association exists
func (r *PostgresTagRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM project_tag WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tag: %w", err)
	}
	return exists, nil
}

// ExistsByProjectAndValue reports whether the project already carries the tag value
func (r *PostgresTagRepository) ExistsByProjectAndValue(ctx context.Context, projectID, tagValueID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM project_tag WHERE project_id = $1 AND tag_value_id = $2)`,
		projectID, tagValueID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check tag: %w", err)
	}
	return exists, nil
}

// Delete removes the association
func (r *PostgresTagRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM project_tag WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tag %d: %w", id, domain.ErrRecordNotFound)
	}
	return nil
}

// ListByProjects loads the tag projections for a batch of projects in one query
func (r *PostgresTagRepository) ListByProjects(ctx context.Context, projectIDs []int64) (map[int64][]domain.ProjectTag, error) {
	result := make(map[int64][]domain.ProjectTag, len(projectIDs))
	if len(projectIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT pt.id, pt.project_id, tv.value, tt.name
		FROM project_tag pt
		JOIN tag_value tv ON tv.id = pt.tag_value_id
		JOIN tag_type tt ON tt.id = tv.tag_type_id
		WHERE pt.project_id = ANY($1)
		ORDER BY pt.project_id, pt.id
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(projectIDs))
	if err != nil {
		r.logger.Error("failed to list project tags",
			slog.Int("projects", len(projectIDs)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list project tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.ProjectTag
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Value, &t.TagType); err != nil {
			return nil, fmt.Errorf("failed to scan project tag: %w", err)
		}
		result[t.ProjectID] = append(result[t.ProjectID], t)
	}
	return result, rows.Err()
}
