package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/pkg/database"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore implements domain.Store on top of a connection pool
type PostgresStore struct {
	pool   *database.ConnectionPool
	db     DBTX
	logger *slog.Logger
}

// NewPostgresStore creates a store whose repositories share the pool
func NewPostgresStore(pool *database.ConnectionPool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, db: pool.GetDB(), logger: logger}
}

func (s *PostgresStore) Users() domain.UserRepository {
	return NewPostgresUserRepository(s.db, s.logger)
}

func (s *PostgresStore) Projects() domain.ProjectRepository {
	return NewPostgresProjectRepository(s.db, s.logger)
}

func (s *PostgresStore) TagTypes() domain.TagTypeRepository {
	return NewPostgresTagTypeRepository(s.db, s.logger)
}

func (s *PostgresStore) TagValues() domain.TagValueRepository {
	return NewPostgresTagValueRepository(s.db, s.logger)
}

func (s *PostgresStore) Tags() domain.TagRepository {
	return NewPostgresTagRepository(s.db, s.logger)
}

func (s *PostgresStore) Validations() domain.ValidationRepository {
	return NewPostgresValidationRepository(s.db, s.logger)
}

// WithinTx binds every repository to a single transaction. Nested calls reuse the outer one.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx domain.Store) error) error {
	if _, nested := s.db.(*sql.Tx); nested {
		return fn(s)
	}
	return s.pool.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(&PostgresStore{pool: s.pool, db: tx, logger: s.logger})
	})
}

// Postgres error codes the store translates into domain errors
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// missingRefMessages names the referenced row behind each foreign key of schema.sql
// that a table with several references can violate
var missingRefMessages = map[string]string{
	"fk_project_tag_project":          "Project not found",
	"fk_project_tag_tag_value":        "Tag value not found",
	"fk_project_tag_professor":        "Professor not found",
	"fk_project_validation_project":   "Project not found",
	"fk_project_validation_professor": "Professor not found",
}

// translateWriteError turns constraint violations raised by concurrent writers into domain errors.
// A foreign key listed in missingRefMessages overrides missingRefMsg.
func translateWriteError(err error, conflictMsg, missingRefMsg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return &domain.Error{Kind: domain.KindConflict, Message: conflictMsg, Err: err}
		case pqForeignKeyViolation:
			if msg, ok := missingRefMessages[pqErr.Constraint]; ok {
				missingRefMsg = msg
			}
			return &domain.Error{Kind: domain.KindNotFound, Message: missingRefMsg, Err: err}
		}
	}
	return err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
