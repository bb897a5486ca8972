package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Semester is an academic term of the form SEASON_YEAR
type Semester string

var semesters = buildSemesters(2025, 2030)

func buildSemesters(from, to int) []Semester {
	var out []Semester
	for year := from; year <= to; year++ {
		for _, season := range []string{"FALL", "WINTER", "SPRING"} {
			out = append(out, Semester(season+"_"+strconv.Itoa(year)))
		}
	}
	return out
}

// Semesters returns every known semester in declaration order
func Semesters() []Semester {
	out := make([]Semester, len(semesters))
	copy(out, semesters)
	return out
}

// Valid reports whether s is a known semester
func (s Semester) Valid() bool {
	for _, known := range semesters {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSemester accepts a semester name in any case
func ParseSemester(raw string) (Semester, bool) {
	s := Semester(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Project is a piece of work submitted by an organization
type Project struct {
	ID                     int64
	ProjectName            string
	Description            string
	AvailableTime          int // Hours
	PurchasingRequirements *string
	NDARequired            bool
	ShowcaseAllowed        bool
	Semester               Semester
	OrganizationID         int64
	ProfessorID            *int64
	CreatedAt              time.Time
	UpdatedAt              *time.Time

	Tags []ProjectTag // Read projection, filled by the service layer
}

// ProjectFields are the editable attributes shared by registration and edit
type ProjectFields struct {
	ProjectName            string
	Description            string
	AvailableTime          int
	PurchasingRequirements *string
	NDARequired            bool
	ShowcaseAllowed        bool
	Semester               Semester
}

// NewProject creates a project owned by organizationID
func NewProject(fields ProjectFields, organizationID int64, now time.Time) *Project {
	p := &Project{OrganizationID: organizationID, CreatedAt: now}
	p.apply(fields)
	return p
}

// UpdateFrom overwrites every editable field and stamps UpdatedAt
func (p *Project) UpdateFrom(fields ProjectFields, now time.Time) {
	p.apply(fields)
	p.UpdatedAt = &now
}

func (p *Project) apply(f ProjectFields) {
	p.ProjectName = f.ProjectName
	p.Description = f.Description
	p.AvailableTime = f.AvailableTime
	p.PurchasingRequirements = f.PurchasingRequirements
	p.NDARequired = f.NDARequired
	p.ShowcaseAllowed = f.ShowcaseAllowed
	p.Semester = f.Semester
}

// SortDirection orders a listing
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ProjectSortFields maps the public sort keys to their columns
var ProjectSortFields = map[string]string{
	"id":              "id",
	"projectName":     "project_name",
	"description":     "description",
	"availableTime":   "available_time",
	"semester":        "semester",
	"ndaRequired":     "nda_required",
	"showcaseAllowed": "showcase_allowed",
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
}

// ProjectQuery selects one page of an organization's projects
type ProjectQuery struct {
	OrganizationID int64
	Semester       *Semester
	Page           int
	Size           int
	SortBy         string // Key of ProjectSortFields
	Direction      SortDirection
}

// ProjectRepository defines data access for projects
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	// GetForUpdate locks the row until the surrounding transaction ends
	GetForUpdate(ctx context.Context, id int64) (*Project, error)
	Update(ctx context.Context, project *Project) error
	ListAll(ctx context.Context) ([]*Project, error)
	ListByOrganization(ctx context.Context, q ProjectQuery) ([]*Project, int64, error)
}
