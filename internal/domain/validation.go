package domain

import (
	"context"
	"time"
)

// Validation is a professor's feedback on a project
type Validation struct {
	ID          int64
	ProjectID   int64
	ProfessorID int64
	Feedback    string
	CreatedAt   time.Time
}

// NewValidation creates a validation record stamped at now
func NewValidation(projectID, professorID int64, feedback string, now time.Time) *Validation {
	return &Validation{
		ProjectID:   projectID,
		ProfessorID: professorID,
		Feedback:    feedback,
		CreatedAt:   now,
	}
}

// UpdateFrom replaces the feedback. ProfessorID stays the original author
// even when a different professor submits the edit.
func (v *Validation) UpdateFrom(feedback string) {
	v.Feedback = feedback
}

// ValidationRepository defines data access for validation records.
// Several records may exist for one project; lookups return the newest.
type ValidationRepository interface {
	Create(ctx context.Context, validation *Validation) error
	FindByProject(ctx context.Context, projectID int64) (*Validation, error)
	FindByProjectForUpdate(ctx context.Context, projectID int64) (*Validation, error)
	Update(ctx context.Context, validation *Validation) error
}
