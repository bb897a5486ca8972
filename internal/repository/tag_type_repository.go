package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// PostgresTagTypeRepository implements domain.TagTypeRepository using PostgreSQL
type PostgresTagTypeRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewPostgresTagTypeRepository creates a new tag type repository
func NewPostgresTagTypeRepository(db DBTX, logger *slog.Logger) *PostgresTagTypeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagTypeRepository{db: db, logger: logger}
}

// Create inserts a tag type
func (r *PostgresTagTypeRepository) Create(ctx context.Context, t *domain.TagType) error {
	err := r.db.QueryRowContext(ctx, `INSERT INTO tag_type (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
	if err != nil {
		if translated := translateWriteError(err, "Tag type already registered", "Tag type not found"); translated != err {
			return translated
		}
		r.logger.Error("failed to create tag type",
			slog.String("name", t.Name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create tag type: %w", err)
	}
	return nil
}

// GetForUpdate retrieves a tag type and locks its row
func (r *PostgresTagTypeRepository) GetForUpdate(ctx context.Context, id int64) (*domain.TagType, error) {
	t := &domain.TagType{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM tag_type WHERE id = $1 FOR UPDATE`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag type %d: %w", id, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get tag type: %w", err)
	}
	return t, nil
}

// Update renames a tag type
func (r *PostgresTagTypeRepository) Update(ctx context.Context, t *domain.TagType) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tag_type SET name = $1 WHERE id = $2`, t.Name, t.ID)
	if err != nil {
		if translated := translateWriteError(err, "Tag type already registered", "Tag type not found"); translated != err {
			return translated
		}
		return fmt.Errorf("failed to update tag type: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tag type %d: %w", t.ID, domain.ErrRecordNotFound)
	}
	return nil
}

// ExistsByID reports whether a tag type with id exists
func (r *PostgresTagTypeRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tag_type WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tag type: %w", err)
	}
	return exists, nil
}

// ExistsByName reports whether the name is taken
func (r *PostgresTagTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tag_type WHERE name = $1)`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tag type name: %w", err)
	}
	return exists, nil
}
