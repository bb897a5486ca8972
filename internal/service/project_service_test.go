package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

func projectFields(name string) domain.ProjectFields {
	return domain.ProjectFields{
		ProjectName:     name,
		Description:     "Build a thing",
		AvailableTime:   40,
		NDARequired:     true,
		ShowcaseAllowed: false,
		Semester:        "FALL_2025",
	}
}

// steppingClock returns start, start+1s, start+2s, ...
func steppingClock(start time.Time) Clock {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

func TestRegisterProjectRoleGating(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	profID := store.seedUser("prof@uni.edu", domain.RoleProfessor)
	s := NewProjectService(store, nil)

	_, err := s.Register(ctx, profID, projectFields("X"))
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, "Invalid organization ID", err.Error())

	_, err = s.Register(ctx, 9999, projectFields("X"))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestRegisterThenDetailRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	orgID := store.seedUser("org@acme.com", domain.RoleOrganization)
	s := NewProjectService(store, nil)

	created, err := s.Register(ctx, orgID, projectFields("Robot arm"))
	require.NoError(t, err)

	detail, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robot arm", detail.ProjectName)
	assert.Equal(t, "Build a thing", detail.Description)
	assert.Equal(t, domain.Semester("FALL_2025"), detail.Semester)
	assert.True(t, detail.NDARequired)
	assert.False(t, detail.ShowcaseAllowed)
	assert.Nil(t, detail.ProfessorFeedback)
	assert.Nil(t, detail.UpdatedAt)
	assert.Empty(t, detail.Tags)
}

func TestGetMissingProject(t *testing.T) {
	s := NewProjectService(newMemStore(), nil)
	_, err := s.Get(context.Background(), 42)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "Project not found", err.Error())
}

func TestEditProject(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	orgID := store.seedUser("org@acme.com", domain.RoleOrganization)
	s := NewProjectService(store, nil)
	edited := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

	p, err := s.Register(ctx, orgID, projectFields("Old"))
	require.NoError(t, err)

	s.now = func() time.Time { return edited }
	fields := projectFields("New")
	fields.Semester = "WINTER_2026"
	updated, err := s.Edit(ctx, p.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.ProjectName)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, edited, *updated.UpdatedAt)
	assert.Equal(t, orgID, updated.OrganizationID)
	assert.Equal(t, 1, store.txCount)

	_, err = s.Edit(ctx, 9999, fields)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestListByOrganizationDefaults(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	orgID := store.seedUser("org@acme.com", domain.RoleOrganization)
	otherOrg := store.seedUser("other@acme.com", domain.RoleOrganization)
	s := NewProjectService(store, nil)
	s.now = steppingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	var newest int64
	for i := 0; i < 12; i++ {
		p, err := s.Register(ctx, orgID, projectFields("P"))
		require.NoError(t, err)
		newest = p.ID
	}
	_, err := s.Register(ctx, otherOrg, projectFields("Not mine"))
	require.NoError(t, err)

	page, err := s.ListByOrganization(ctx, NewProjectQuery(orgID))
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Projects, 10)
	assert.Equal(t, newest, page.Projects[0].ID, "newest first")
	for i := 1; i < len(page.Projects); i++ {
		assert.True(t, page.Projects[i-1].CreatedAt.After(page.Projects[i].CreatedAt))
	}
}

func TestListByOrganizationSemesterFilterAndPaging(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	orgID := store.seedUser("org@acme.com", domain.RoleOrganization)
	s := NewProjectService(store, nil)

	for i := 0; i < 3; i++ {
		_, err := s.Register(ctx, orgID, projectFields("Fall"))
		require.NoError(t, err)
	}
	spring := projectFields("Spring")
	spring.Semester = "SPRING_2026"
	_, err := s.Register(ctx, orgID, spring)
	require.NoError(t, err)

	sem := domain.Semester("FALL_2025")
	page, err := s.ListByOrganization(ctx, domain.ProjectQuery{
		OrganizationID: orgID, Semester: &sem, Page: 1, Size: 2, SortBy: "id", Direction: domain.SortAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Projects, 1)
	assert.Equal(t, sem, page.Projects[0].Semester)
}

func TestListByOrganizationErrors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	orgID := store.seedUser("org@acme.com", domain.RoleOrganization)
	profID := store.seedUser("prof@uni.edu", domain.RoleProfessor)
	s := NewProjectService(store, nil)

	_, err := s.ListByOrganization(ctx, NewProjectQuery(profID))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "Organization not found", err.Error())

	bad := domain.Semester("SUMMER_2025")
	query := func(edit func(q *domain.ProjectQuery)) domain.ProjectQuery {
		q := NewProjectQuery(orgID)
		edit(&q)
		return q
	}
	tests := []struct {
		name  string
		q     domain.ProjectQuery
		field string
	}{
		{"unknown sort", query(func(q *domain.ProjectQuery) { q.SortBy = "budget" }), "sortBy"},
		{"empty sort", query(func(q *domain.ProjectQuery) { q.SortBy = "" }), "sortBy"},
		{"bad direction", query(func(q *domain.ProjectQuery) { q.Direction = "UP" }), "sortDirection"},
		{"negative page", query(func(q *domain.ProjectQuery) { q.Page = -1 }), "page"},
		{"page offset overflows", query(func(q *domain.ProjectQuery) { q.Page = 1 << 62 }), "page"},
		{"zero size", query(func(q *domain.ProjectQuery) { q.Size = 0 }), "size"},
		{"negative size", query(func(q *domain.ProjectQuery) { q.Size = -5 }), "size"},
		{"unknown semester", query(func(q *domain.ProjectQuery) { q.Semester = &bad }), "semesterFilter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ListByOrganization(ctx, tt.q)
			var de *domain.Error
			require.ErrorAs(t, err, &de)
			require.Equal(t, domain.KindValidation, de.Kind)
			require.Len(t, de.Fields, 1)
			assert.Equal(t, tt.field, de.Fields[0].Field)
		})
	}
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	orgA := store.seedUser("a@acme.com", domain.RoleOrganization)
	orgB := store.seedUser("b@acme.com", domain.RoleOrganization)
	s := NewProjectService(store, nil)

	_, err := s.Register(ctx, orgA, projectFields("A"))
	require.NoError(t, err)
	_, err = s.Register(ctx, orgB, projectFields("B"))
	require.NoError(t, err)

	page, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, "A", page.Projects[0].ProjectName)
}

func TestDetailIncludesTags(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	orgID := store.seedUser("org@acme.com", domain.RoleOrganization)
	profID := store.seedUser("prof@uni.edu", domain.RoleProfessor)

	projects := NewProjectService(store, nil)
	p, err := projects.Register(ctx, orgID, projectFields("Tagged"))
	require.NoError(t, err)

	tagType, err := NewTagTypeService(store, nil).Register(ctx, "Language")
	require.NoError(t, err)
	value, err := NewTagValueService(store, nil).Register(ctx, tagType.ID, "Go")
	require.NoError(t, err)
	tag, err := NewTagService(store, nil).Register(ctx, p.ID, value.ID, profID)
	require.NoError(t, err)

	detail, err := projects.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tags, 1)
	assert.Equal(t, domain.ProjectTag{ID: tag.ID, ProjectID: p.ID, Value: "Go", TagType: "Language"}, detail.Tags[0])
}
