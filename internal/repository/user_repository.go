package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db DBTX, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, email, first_name, last_name, organization_name, phone, type, password_hash, status, updated_at`

// Create inserts a new user and assigns its id
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, organization_name, phone, type, password_hash, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx,
		query,
		user.Email,
		user.FirstName,
		user.LastName,
		nullString(user.OrganizationName),
		user.Phone,
		string(user.Role),
		user.PasswordHash,
		string(user.Status),
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		r.logger.Error("failed to create user",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		if translated := translateWriteError(err, "User already registered", "User not found"); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrRecordNotFound)
		}
		r.logger.Error("failed to get user by id",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", email, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail reports whether the email is already registered
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// ExistsByIDAndRole reports whether id belongs to a user with the given role
func (r *PostgresUserRepository) ExistsByIDAndRole(ctx context.Context, id int64, role domain.Role) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND type = $2)`,
		id, string(role),
	).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check user role",
			slog.Int64("id", id),
			slog.String("role", string(role)),
			slog.String("error", err.Error()),
		)
		return false, fmt.Errorf("failed to check user role: %w", err)
	}
	return exists, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		user    domain.User
		orgName sql.NullString
		role    string
		status  string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&orgName,
		&user.Phone,
		&role,
		&user.PasswordHash,
		&status,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.OrganizationName = stringPtr(orgName)
	user.Role = domain.Role(role)
	user.Status = domain.UserStatus(status)
	return &user, nil
}
