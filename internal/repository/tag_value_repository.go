package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// PostgresTagValueRepository implements domain.TagValueRepository using PostgreSQL
type PostgresTagValueRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewPostgresTagValueRepository creates a new tag value repository
func NewPostgresTagValueRepository(db DBTX, logger *slog.Logger) *PostgresTagValueRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagValueRepository{db: db, logger: logger}
}

const tagValueSelect = `
	SELECT tv.id, tv.tag_type_id, tt.name, tv.value
	FROM tag_value tv
	JOIN tag_type tt ON tt.id = tv.tag_type_id
`

// Create inserts a tag value
func (r *PostgresTagValueRepository) Create(ctx context.Context, v *domain.TagValue) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tag_value (tag_type_id, value) VALUES ($1, $2) RETURNING id`,
		v.TagTypeID, v.Value,
	).Scan(&v.ID)
	if err != nil {
		if translated := translateWriteError(err, "Tag value already registered", "Tag type is invalid"); translated != err {
			return translated
		}
		r.logger.Error("failed to create tag value",
			slog.Int64("tag_type_id", v.TagTypeID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create tag value: %w", err)
	}
	return nil
}

// GetByID retrieves a tag value with its type name
func (r *PostgresTagValueRepository) GetByID(ctx context.Context, id int64) (*domain.TagValue, error) {
	return r.get(ctx, tagValueSelect+` WHERE tv.id = $1`, id)
}

// GetForUpdate retrieves a tag value and locks its row
func (r *PostgresTagValueRepository) GetForUpdate(ctx context.Context, id int64) (*domain.TagValue, error) {
	return r.get(ctx, tagValueSelect+` WHERE tv.id = $1 FOR UPDATE OF tv`, id)
}

func (r *PostgresTagValueRepository) get(ctx context.Context, query string, id int64) (*domain.TagValue, error) {
	v := &domain.TagValue{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.TagTypeID, &v.TagTypeName, &v.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag value %d: %w", id, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get tag value: %w", err)
	}
	return v, nil
}

// Update rewrites the value and type of a tag value
func (r *PostgresTagValueRepository) Update(ctx context.Context, v *domain.TagValue) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tag_value SET tag_type_id = $1, value = $2 WHERE id = $3`,
		v.TagTypeID, v.Value, v.ID,
	)
	if err != nil {
		if translated := translateWriteError(err, "Tag value already registered", "Tag type is invalid"); translated != err {
			return translated
		}
		return fmt.Errorf("failed to update tag value: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tag value %d: %w", v.ID, domain.ErrRecordNotFound)
	}
	return nil
}

// ExistsByValueAndType reports whether value is already registered under the type
func (r *PostgresTagValueRepository) ExistsByValueAndType(ctx context.Context, value string, tagTypeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tag_value WHERE value = $1 AND tag_type_id = $2)`,
		value, tagTypeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check tag value: %w", err)
	}
	return exists, nil
}

// ListOrderedByType returns every tag value sorted by type name
func (r *PostgresTagValueRepository) ListOrderedByType(ctx context.Context) ([]*domain.TagValue, error) {
	rows, err := r.db.QueryContext(ctx, tagValueSelect+` ORDER BY tt.name ASC, tv.id ASC`)
	if err != nil {
		r.logger.Error("failed to list tag values", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list tag values: %w", err)
	}
	defer rows.Close()

	values := make([]*domain.TagValue, 0, 32)
	for rows.Next() {
		v := &domain.TagValue{}
		if err := rows.Scan(&v.ID, &v.TagTypeID, &v.TagTypeName, &v.Value); err != nil {
			return nil, fmt.Errorf("failed to scan tag value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
