package handler

import (
	"context"
	"errors"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// fakeStore backs handler tests. Each repository embeds its interface so
// only the methods a test exercises need an implementation.
type fakeStore struct {
	users       *fakeUsers
	projects    *fakeProjects
	tagTypes    *fakeTagTypes
	tagValues   *fakeTagValues
	tags        *fakeTags
	validations *fakeValidations
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       &fakeUsers{byEmail: map[string]*domain.User{}},
		projects:    &fakeProjects{byID: map[int64]*domain.Project{}},
		tagTypes:    &fakeTagTypes{names: map[string]bool{}},
		tagValues:   &fakeTagValues{},
		tags:        &fakeTags{ids: map[int64]bool{}},
		validations: &fakeValidations{},
	}
}

func (s *fakeStore) Users() domain.UserRepository             { return s.users }
func (s *fakeStore) Projects() domain.ProjectRepository       { return s.projects }
func (s *fakeStore) TagTypes() domain.TagTypeRepository       { return s.tagTypes }
func (s *fakeStore) TagValues() domain.TagValueRepository     { return s.tagValues }
func (s *fakeStore) Tags() domain.TagRepository               { return s.tags }
func (s *fakeStore) Validations() domain.ValidationRepository { return s.validations }

func (s *fakeStore) WithinTx(_ context.Context, fn func(tx domain.Store) error) error {
	return fn(s)
}

type fakeUsers struct {
	domain.UserRepository
	byEmail map[string]*domain.User
	nextID  int64
}

func (u *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := u.byEmail[email]
	return ok, nil
}

func (u *fakeUsers) Create(_ context.Context, user *domain.User) error {
	u.nextID++
	user.ID = u.nextID
	u.byEmail[user.Email] = user
	return nil
}

func (u *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := u.byEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (u *fakeUsers) ExistsByIDAndRole(_ context.Context, id int64, role domain.Role) (bool, error) {
	for _, user := range u.byEmail {
		if user.ID == id && user.Role == role {
			return true, nil
		}
	}
	return false, nil
}

type fakeProjects struct {
	domain.ProjectRepository
	byID map[int64]*domain.Project
}

func (p *fakeProjects) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	if project, ok := p.byID[id]; ok {
		return project, nil
	}
	return nil, domain.ErrRecordNotFound
}

type fakeTagTypes struct {
	domain.TagTypeRepository
	names  map[string]bool
	nextID int64
}

func (t *fakeTagTypes) ExistsByName(_ context.Context, name string) (bool, error) {
	return t.names[name], nil
}

func (t *fakeTagTypes) Create(_ context.Context, tagType *domain.TagType) error {
	t.nextID++
	tagType.ID = t.nextID
	t.names[tagType.Name] = true
	return nil
}

type fakeTagValues struct {
	domain.TagValueRepository
	list    []*domain.TagValue
	listErr error
}

func (v *fakeTagValues) ListOrderedByType(context.Context) ([]*domain.TagValue, error) {
	return v.list, v.listErr
}

type fakeTags struct {
	domain.TagRepository
	ids map[int64]bool
}

func (t *fakeTags) ExistsByID(_ context.Context, id int64) (bool, error) {
	return t.ids[id], nil
}

func (t *fakeTags) Delete(_ context.Context, id int64) error {
	if !t.ids[id] {
		return domain.ErrRecordNotFound
	}
	delete(t.ids, id)
	return nil
}

func (t *fakeTags) ListByProjects(_ context.Context, ids []int64) (map[int64][]domain.ProjectTag, error) {
	return map[int64][]domain.ProjectTag{}, nil
}

type fakeValidations struct {
	domain.ValidationRepository
}

func (fakeValidations) FindByProject(context.Context, int64) (*domain.Validation, error) {
	return nil, domain.ErrRecordNotFound
}

var errBackend = errors.New("connection reset by peer")
