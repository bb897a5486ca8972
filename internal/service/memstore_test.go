package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// memStore is an in-memory domain.Store for service tests
type memStore struct {
	mu          sync.Mutex
	seq         int64
	users       map[int64]*domain.User
	projects    map[int64]*domain.Project
	tagTypes    map[int64]*domain.TagType
	tagValues   map[int64]*domain.TagValue
	tags        map[int64]*domain.Tag
	validations map[int64]*domain.Validation
	txCount     int
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*domain.User{},
		projects:    map[int64]*domain.Project{},
		tagTypes:    map[int64]*domain.TagType{},
		tagValues:   map[int64]*domain.TagValue{},
		tags:        map[int64]*domain.Tag{},
		validations: map[int64]*domain.Validation{},
	}
}

func (m *memStore) next() int64 { m.seq++; return m.seq }

func missing(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, domain.ErrRecordNotFound)
}

func (m *memStore) Users() domain.UserRepository             { return memUsers{m} }
func (m *memStore) Projects() domain.ProjectRepository       { return memProjects{m} }
func (m *memStore) TagTypes() domain.TagTypeRepository       { return memTagTypes{m} }
func (m *memStore) TagValues() domain.TagValueRepository     { return memTagValues{m} }
func (m *memStore) Tags() domain.TagRepository               { return memTags{m} }
func (m *memStore) Validations() domain.ValidationRepository { return memValidations{m} }

func (m *memStore) WithinTx(ctx context.Context, fn func(tx domain.Store) error) error {
	m.txCount++
	return fn(m)
}

// seedUser inserts a user directly and returns its id
func (m *memStore) seedUser(email string, role domain.Role) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := domain.NewUser(email, "First", "Last", nil, "555-0100", role, "x", time.Now())
	u.ID = m.next()
	m.users[u.ID] = u
	return u.ID
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return domain.NewConflict("User already registered")
		}
	}
	u.ID = r.m.next()
	r.m.users[u.ID] = u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		return u, nil
	}
	return nil, missing("user", id)
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, missing("user", email)
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r memUsers) ExistsByIDAndRole(_ context.Context, id int64, role domain.Role) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	return ok && u.Role == role, nil
}

type memProjects struct{ m *memStore }

func (r memProjects) Create(_ context.Context, p *domain.Project) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p.ID = r.m.next()
	cp := *p
	r.m.projects[p.ID] = &cp
	return nil
}

func (r memProjects) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p, ok := r.m.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, missing("project", id)
}

func (r memProjects) GetForUpdate(ctx context.Context, id int64) (*domain.Project, error) {
	return r.GetByID(ctx, id)
}

func (r memProjects) Update(_ context.Context, p *domain.Project) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.projects[p.ID]; !ok {
		return missing("project", p.ID)
	}
	cp := *p
	r.m.projects[p.ID] = &cp
	return nil
}

func (r memProjects) ListAll(_ context.Context) ([]*domain.Project, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*domain.Project, 0, len(r.m.projects))
	for _, p := range r.m.projects {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListByOrganization supports the id and createdAt sort keys used by the tests
func (r memProjects) ListByOrganization(ctx context.Context, q domain.ProjectQuery) ([]*domain.Project, int64, error) {
	all, _ := r.ListAll(ctx)
	var matched []*domain.Project
	for _, p := range all {
		if p.OrganizationID != q.OrganizationID {
			continue
		}
		if q.Semester != nil && p.Semester != *q.Semester {
			continue
		}
		matched = append(matched, p)
	}
	less := func(a, b *domain.Project) bool {
		if q.SortBy == "createdAt" && !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	}
	sort.Slice(matched, func(i, j int) bool {
		if q.Direction == domain.SortAsc {
			return less(matched[i], matched[j])
		}
		return less(matched[j], matched[i])
	})

	total := int64(len(matched))
	start := q.Page * q.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type memTagTypes struct{ m *memStore }

func (r memTagTypes) Create(_ context.Context, t *domain.TagType) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t.ID = r.m.next()
	cp := *t
	r.m.tagTypes[t.ID] = &cp
	return nil
}

func (r memTagTypes) GetForUpdate(_ context.Context, id int64) (*domain.TagType, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if t, ok := r.m.tagTypes[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, missing("tag type", id)
}

func (r memTagTypes) Update(_ context.Context, t *domain.TagType) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.tagTypes[t.ID]; !ok {
		return missing("tag type", t.ID)
	}
	cp := *t
	r.m.tagTypes[t.ID] = &cp
	return nil
}

func (r memTagTypes) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.tagTypes[id]
	return ok, nil
}

func (r memTagTypes) ExistsByName(_ context.Context, name string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.tagTypes {
		if t.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type memTagValues struct{ m *memStore }

func (r memTagValues) Create(_ context.Context, v *domain.TagValue) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	v.ID = r.m.next()
	cp := *v
	r.m.tagValues[v.ID] = &cp
	return nil
}

func (r memTagValues) GetByID(_ context.Context, id int64) (*domain.TagValue, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	v, ok := r.m.tagValues[id]
	if !ok {
		return nil, missing("tag value", id)
	}
	cp := *v
	if t, ok := r.m.tagTypes[v.TagTypeID]; ok {
		cp.TagTypeName = t.Name
	}
	return &cp, nil
}

func (r memTagValues) GetForUpdate(ctx context.Context, id int64) (*domain.TagValue, error) {
	return r.GetByID(ctx, id)
}

func (r memTagValues) Update(_ context.Context, v *domain.TagValue) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.tagValues[v.ID]; !ok {
		return missing("tag value", v.ID)
	}
	cp := *v
	r.m.tagValues[v.ID] = &cp
	return nil
}

func (r memTagValues) ExistsByValueAndType(_ context.Context, value string, tagTypeID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, v := range r.m.tagValues {
		if v.Value == value && v.TagTypeID == tagTypeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memTagValues) ListOrderedByType(ctx context.Context) ([]*domain.TagValue, error) {
	r.m.mu.Lock()
	ids := make([]int64, 0, len(r.m.tagValues))
	for id := range r.m.tagValues {
		ids = append(ids, id)
	}
	r.m.mu.Unlock()

	out := make([]*domain.TagValue, 0, len(ids))
	for _, id := range ids {
		v, _ := r.GetByID(ctx, id)
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TagTypeName != out[j].TagTypeName {
			return out[i].TagTypeName < out[j].TagTypeName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type memTags struct{ m *memStore }

func (r memTags) Create(_ context.Context, t *domain.Tag) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	t.ID = r.m.next()
	cp := *t
	r.m.tags[t.ID] = &cp
	return nil
}

func (r memTags) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.tags[id]
	return ok, nil
}

func (r memTags) ExistsByProjectAndValue(_ context.Context, projectID, tagValueID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.tags {
		if t.ProjectID == projectID && t.TagValueID == tagValueID {
			return true, nil
		}
	}
	return false, nil
}

func (r memTags) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.tags[id]; !ok {
		return missing("tag", id)
	}
	delete(r.m.tags, id)
	return nil
}

func (r memTags) ListByProjects(_ context.Context, projectIDs []int64) (map[int64][]domain.ProjectTag, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range projectIDs {
		wanted[id] = true
	}
	out := map[int64][]domain.ProjectTag{}
	ids := make([]int64, 0, len(r.m.tags))
	for id := range r.m.tags {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		t := r.m.tags[id]
		if !wanted[t.ProjectID] {
			continue
		}
		pt := domain.ProjectTag{ID: t.ID, ProjectID: t.ProjectID}
		if v, ok := r.m.tagValues[t.TagValueID]; ok {
			pt.Value = v.Value
			if tt, ok := r.m.tagTypes[v.TagTypeID]; ok {
				pt.TagType = tt.Name
			}
		}
		out[t.ProjectID] = append(out[t.ProjectID], pt)
	}
	return out, nil
}

type memValidations struct{ m *memStore }

func (r memValidations) Create(_ context.Context, v *domain.Validation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	v.ID = r.m.next()
	cp := *v
	r.m.validations[v.ID] = &cp
	return nil
}

func (r memValidations) FindByProject(_ context.Context, projectID int64) (*domain.Validation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var newest *domain.Validation
	for _, v := range r.m.validations {
		if v.ProjectID != projectID {
			continue
		}
		if newest == nil || v.CreatedAt.After(newest.CreatedAt) ||
			(v.CreatedAt.Equal(newest.CreatedAt) && v.ID > newest.ID) {
			newest = v
		}
	}
	if newest == nil {
		return nil, missing("validation for project", projectID)
	}
	cp := *newest
	return &cp, nil
}

func (r memValidations) FindByProjectForUpdate(ctx context.Context, projectID int64) (*domain.Validation, error) {
	return r.FindByProject(ctx, projectID)
}

func (r memValidations) Update(_ context.Context, v *domain.Validation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.validations[v.ID]; !ok {
		return missing("validation", v.ID)
	}
	cp := *v
	r.m.validations[v.ID] = &cp
	return nil
}
