package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// PostgresProjectRepository implements domain.ProjectRepository using PostgreSQL
type PostgresProjectRepository struct {
	db     DBTX
	logger *slog.Logger
}

// NewPostgresProjectRepository creates a new project repository
func NewPostgresProjectRepository(db DBTX, logger *slog.Logger) *PostgresProjectRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProjectRepository{db: db, logger: logger}
}

const projectColumns = `id, project_name, description, available_time, purchasing_requirements,
	nda_required, showcase_allowed, semester, organization_id, professor_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a project and assigns its id
func (r *PostgresProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	query := `
		INSERT INTO project (project_name, description, available_time, purchasing_requirements,
			nda_required, showcase_allowed, semester, organization_id, professor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		p.ProjectName,
		p.Description,
		p.AvailableTime,
		nullString(p.PurchasingRequirements),
		p.NDARequired,
		p.ShowcaseAllowed,
		string(p.Semester),
		p.OrganizationID,
		nullInt64(p.ProfessorID),
		p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Error("failed to create project",
			slog.Int64("organization_id", p.OrganizationID),
			slog.String("error", err.Error()),
		)
		if translated := translateWriteError(err, "Project already registered", "Organization not found"); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM project WHERE id = $1`, id)
}

// GetForUpdate retrieves a project and locks its row
func (r *PostgresProjectRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM project WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresProjectRepository) get(ctx context.Context, query string, id int64) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, domain.ErrRecordNotFound)
		}
		r.logger.Error("failed to get project",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// Update overwrites the editable columns of an existing project
func (r *PostgresProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	query := `
		UPDATE project
		SET project_name = $1, description = $2, available_time = $3, purchasing_requirements = $4,
			nda_required = $5, showcase_allowed = $6, semester = $7, professor_id = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		p.ProjectName,
		p.Description,
		p.AvailableTime,
		nullString(p.PurchasingRequirements),
		p.NDARequired,
		p.ShowcaseAllowed,
		string(p.Semester),
		nullInt64(p.ProfessorID),
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project %d: %w", p.ID, domain.ErrRecordNotFound)
	}
	return nil
}

// ListAll returns every project ordered by id
func (r *PostgresProjectRepository) ListAll(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM project ORDER BY id`)
	if err != nil {
		r.logger.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// ListByOrganization returns one page of an organization's projects and the total match count
func (r *PostgresProjectRepository) ListByOrganization(ctx context.Context, q domain.ProjectQuery) ([]*domain.Project, int64, error) {
	column, ok := domain.ProjectSortFields[q.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported sort field %q", q.SortBy)
	}
	direction := "DESC"
	if q.Direction == domain.SortAsc {
		direction = "ASC"
	}

	where := []string{"organization_id = $1"}
	args := []any{q.OrganizationID}
	if q.Semester != nil {
		args = append(args, string(*q.Semester))
		where = append(where, fmt.Sprintf("semester = $%d", len(args)))
	}
	filter := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project WHERE `+filter, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count projects",
			slog.Int64("organization_id", q.OrganizationID),
			slog.String("error", err.Error()),
		)
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	pageArgs := append(args, q.Size, q.Page*q.Size)
	query := fmt.Sprintf(
		`SELECT %s FROM project WHERE %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		projectColumns, filter, column, direction, direction, len(args)+1, len(args)+2,
	)

	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		r.logger.Error("failed to list projects by organization",
			slog.Int64("organization_id", q.OrganizationID),
			slog.String("error", err.Error()),
		)
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects, err := collectProjects(rows)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func collectProjects(rows *sql.Rows) ([]*domain.Project, error) {
	projects := make([]*domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p               domain.Project
		name            sql.NullString
		availableTime   sql.NullInt64
		purchasing      sql.NullString
		ndaRequired     sql.NullBool
		showcaseAllowed sql.NullBool
		semester        string
		organizationID  sql.NullInt64
		professorID     sql.NullInt64
		updatedAt       sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&name,
		&p.Description,
		&availableTime,
		&purchasing,
		&ndaRequired,
		&showcaseAllowed,
		&semester,
		&organizationID,
		&professorID,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ProjectName = name.String
	p.AvailableTime = int(availableTime.Int64)
	p.PurchasingRequirements = stringPtr(purchasing)
	p.NDARequired = ndaRequired.Bool
	p.ShowcaseAllowed = showcaseAllowed.Bool
	p.Semester = domain.Semester(semester)
	p.OrganizationID = organizationID.Int64
	if professorID.Valid {
		id := professorID.Int64
		p.ProfessorID = &id
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return &p, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
