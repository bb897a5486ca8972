package domain

import (
	"context"
	"time"
)

// TagType is a named category of tag values
type TagType struct {
	ID   int64
	Name string // Unique
}

// TagValue is a concrete term scoped to one TagType
type TagValue struct {
	ID          int64
	TagTypeID   int64
	TagTypeName string // Populated on reads
	Value       string // Unique per TagTypeID
}

// Tag links a project to a tag value, applied by a professor
type Tag struct {
	ID          int64
	ProjectID   int64
	TagValueID  int64
	ProfessorID int64
	CreatedAt   time.Time
}

// NewTag creates an association stamped at now
func NewTag(projectID, tagValueID, professorID int64, now time.Time) *Tag {
	return &Tag{
		ProjectID:   projectID,
		TagValueID:  tagValueID,
		ProfessorID: professorID,
		CreatedAt:   now,
	}
}

// ProjectTag is the read projection of a Tag shown inside project views
type ProjectTag struct {
	ID        int64
	ProjectID int64
	Value     string
	TagType   string
}

// TagTypeRepository defines data access for tag types
type TagTypeRepository interface {
	Create(ctx context.Context, tagType *TagType) error
	GetForUpdate(ctx context.Context, id int64) (*TagType, error)
	Update(ctx context.Context, tagType *TagType) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// TagValueRepository defines data access for tag values
type TagValueRepository interface {
	Create(ctx context.Context, tagValue *TagValue) error
	GetByID(ctx context.Context, id int64) (*TagValue, error)
	GetForUpdate(ctx context.Context, id int64) (*TagValue, error)
	Update(ctx context.Context, tagValue *TagValue) error
	ExistsByValueAndType(ctx context.Context, value string, tagTypeID int64) (bool, error)
	// ListOrderedByType returns every value ordered by its type name
	ListOrderedByType(ctx context.Context) ([]*TagValue, error)
}

// TagRepository defines data access for project tag associations
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByProjectAndValue(ctx context.Context, projectID, tagValueID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	// ListByProjects returns the tag projections of every given project, keyed by project id
	ListByProjects(ctx context.Context, projectIDs []int64) (map[int64][]ProjectTag, error)
}
