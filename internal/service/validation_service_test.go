package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

func TestValidationEditShowsInDetail(t *testing.T) {
	ctx := context.Background()
	f := newTagFixture(t)
	s := NewValidationService(f.store, nil)

	_, err := s.Register(ctx, f.projectID, f.profID, "F1")
	require.NoError(t, err)

	_, err = s.Edit(ctx, f.projectID, f.profID, "F2")
	require.NoError(t, err)

	detail, err := NewProjectService(f.store, nil).Get(ctx, f.projectID)
	require.NoError(t, err)
	require.NotNil(t, detail.ProfessorFeedback)
	assert.Equal(t, "F2", *detail.ProfessorFeedback)
}

func TestValidationEditKeepsOriginalProfessor(t *testing.T) {
	ctx := context.Background()
	f := newTagFixture(t)
	other := f.store.seedUser("other@uni.edu", domain.RoleProfessor)
	s := NewValidationService(f.store, nil)

	_, err := s.Register(ctx, f.projectID, f.profID, "first")
	require.NoError(t, err)

	edited, err := s.Edit(ctx, f.projectID, other, "second")
	require.NoError(t, err)
	assert.Equal(t, f.profID, edited.ProfessorID)
	assert.Equal(t, "second", edited.Feedback)
}

func TestValidationNewestWins(t *testing.T) {
	ctx := context.Background()
	f := newTagFixture(t)
	s := NewValidationService(f.store, nil)
	s.now = steppingClock(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))

	_, err := s.Register(ctx, f.projectID, f.profID, "older")
	require.NoError(t, err)
	_, err = s.Register(ctx, f.projectID, f.profID, "newer")
	require.NoError(t, err)

	detail, err := NewProjectService(f.store, nil).Get(ctx, f.projectID)
	require.NoError(t, err)
	assert.Equal(t, "newer", *detail.ProfessorFeedback)
}

func TestValidationChecks(t *testing.T) {
	ctx := context.Background()
	f := newTagFixture(t)
	s := NewValidationService(f.store, nil)

	_, err := s.Register(ctx, 9999, f.profID, "x")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "Project not found", err.Error())

	_, err = s.Register(ctx, f.projectID, f.orgID, "x")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, "Invalid professor ID", err.Error())

	_, err = s.Edit(ctx, f.projectID, f.profID, "no record yet")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "Validation not found", err.Error())
}
