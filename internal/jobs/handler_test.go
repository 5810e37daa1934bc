package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/careerforge/backend/internal/companies"
	"github.com/careerforge/backend/internal/event"
	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/pkg/apperr"
)

type mockJobStore struct {
	jobs map[uuid.UUID]*models.Job

	lastFilter *Filter
	countTotal int
	created    []*models.Job
	updated    []UpdateFields
	deleted    []uuid.UUID
}

func newMockJobStore() *mockJobStore {
	return &mockJobStore{jobs: make(map[uuid.UUID]*models.Job)}
}

func (s *mockJobStore) Create(_ context.Context, j *models.Job) error {
	j.ID = uuid.New()
	s.created = append(s.created, j)
	s.jobs[j.ID] = j
	return nil
}

func (s *mockJobStore) GetByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return j, nil
}

func (s *mockJobStore) List(_ context.Context, f Filter) ([]models.Job, error) {
	s.lastFilter = &f
	if s.countTotal > 0 {
		// Paginated fixture: synthesize the slice the window asks for.
		n := s.countTotal - f.Offset
		if f.Limit > 0 && n > f.Limit {
			n = f.Limit
		}
		if n < 0 {
			n = 0
		}
		out := make([]models.Job, n)
		for i := range out {
			out[i] = models.Job{Title: fmt.Sprintf("Job %d", f.Offset+i+1), CompanyID: f.CompanyID}
		}
		return out, nil
	}
	var out []models.Job
	for _, j := range s.jobs {
		if j.CompanyID != f.CompanyID {
			continue
		}
		if f.ActiveOnly && !j.IsActive {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

func (s *mockJobStore) Count(_ context.Context, f Filter) (int, error) {
	if s.countTotal > 0 {
		return s.countTotal, nil
	}
	list, _ := s.List(context.Background(), f)
	return len(list), nil
}

func (s *mockJobStore) Update(_ context.Context, id uuid.UUID, f UpdateFields) (*models.Job, error) {
	s.updated = append(s.updated, f)
	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if f.Title != nil {
		j.Title = *f.Title
	}
	if f.IsActive != nil {
		j.IsActive = *f.IsActive
	}
	return j, nil
}

func (s *mockJobStore) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.jobs, id)
	return nil
}

type mockResolver struct {
	bySlug map[string]*models.Company
}

func (r *mockResolver) GetBySlug(_ context.Context, slug string) (*models.Company, error) {
	c, ok := r.bySlug[slug]
	if !ok {
		return nil, companies.ErrNotFound
	}
	return c, nil
}

func (r *mockResolver) GetByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	for _, c := range r.bySlug {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, companies.ErrNotFound
}

// guardStore adapts mockResolver to the companies.Store surface the guard
// needs; only lookups are exercised.
type guardStore struct{ *mockResolver }

func (guardStore) Create(context.Context, *models.Company) error          { return errors.New("not implemented") }
func (guardStore) SlugExists(context.Context, string) (bool, error)       { return false, nil }
func (guardStore) Delete(context.Context, uuid.UUID) error                { return errors.New("not implemented") }
func (guardStore) ListByOwner(context.Context, []string) ([]models.Company, error) {
	return nil, errors.New("not implemented")
}
func (guardStore) Update(context.Context, uuid.UUID, companies.UpdateFields) (*models.Company, error) {
	return nil, errors.New("not implemented")
}

var owner = &models.Identity{ID: "user-1", Email: "owner@example.com"}

func fixture() (*Handler, *mockJobStore, *models.Company) {
	company := &models.Company{ID: uuid.New(), Name: "Acme", Slug: "acme", CreatedBy: "user-1"}
	resolver := &mockResolver{bySlug: map[string]*models.Company{"acme": company}}
	store := newMockJobStore()
	h := NewHandler(store, resolver, companies.NewGuard(guardStore{resolver}), nil)
	return h, store, company
}

func request(t *testing.T, identity *models.Identity, payload any) *event.Request {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &event.Request{Payload: raw, Identity: identity}
}

func wantCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	var e *apperr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *apperr.Error with code %s, got %v", code, err)
	}
	if e.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, e.Code, e.Message)
	}
}

func TestList_PublicFiltersActiveOnly(t *testing.T) {
	h, store, company := fixture()
	store.jobs[uuid.New()] = &models.Job{CompanyID: company.ID, Title: "Open", IsActive: true}
	store.jobs[uuid.New()] = &models.Job{CompanyID: company.ID, Title: "Closed", IsActive: false}

	out, err := h.List(context.Background(), request(t, nil, map[string]any{"slug": "acme"}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	list := out.([]models.Job)
	if len(list) != 1 || list[0].Title != "Open" {
		t.Fatalf("expected only the active job, got %+v", list)
	}
	if !store.lastFilter.ActiveOnly {
		t.Fatal("public listing must set ActiveOnly")
	}
}

func TestList_UnknownCompany(t *testing.T) {
	h, _, _ := fixture()
	_, err := h.List(context.Background(), request(t, nil, map[string]any{"slug": "ghost"}))
	wantCode(t, err, apperr.CodeNotFound)
}

func TestList_EmptyResultIsEmptySlice(t *testing.T) {
	h, _, _ := fixture()
	out, err := h.List(context.Background(), request(t, nil, map[string]any{"slug": "acme"}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list := out.([]models.Job); list == nil || len(list) != 0 {
		t.Fatalf("expected empty slice, got %#v", list)
	}
}

func TestListPaginated_Windows(t *testing.T) {
	cases := []struct {
		page, limit int
		wantItems   int
		wantPage    int
		wantPages   int
		wantHasNext bool
	}{
		{page: 1, limit: 10, wantItems: 10, wantPage: 1, wantPages: 3, wantHasNext: true},
		{page: 3, limit: 10, wantItems: 5, wantPage: 3, wantPages: 3, wantHasNext: false},
		{page: 0, limit: 0, wantItems: 10, wantPage: 1, wantPages: 3, wantHasNext: true}, // defaults
		{page: 9, limit: 10, wantItems: 0, wantPage: 9, wantPages: 3, wantHasNext: false},
	}
	for _, tc := range cases {
		h, store, _ := fixture()
		store.countTotal = 25

		out, err := h.ListPaginated(context.Background(), request(t, nil, map[string]any{
			"slug": "acme", "page": tc.page, "limit": tc.limit,
		}))
		if err != nil {
			t.Fatalf("page %d: %v", tc.page, err)
		}
		res := out.(PaginatedJobs)
		if len(res.Jobs) != tc.wantItems {
			t.Fatalf("page %d: expected %d items, got %d", tc.page, tc.wantItems, len(res.Jobs))
		}
		p := res.Pagination
		if p.CurrentPage != tc.wantPage || p.TotalItems != 25 || p.TotalPages != tc.wantPages || p.HasNext != tc.wantHasNext {
			t.Fatalf("page %d: unexpected pagination %+v", tc.page, p)
		}
	}
}

func TestListPaginated_LimitCapped(t *testing.T) {
	h, store, _ := fixture()
	store.countTotal = 500

	_, err := h.ListPaginated(context.Background(), request(t, nil, map[string]any{
		"slug": "acme", "limit": 1000,
	}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lastFilter.Limit != 100 {
		t.Fatalf("expected limit capped at 100, got %d", store.lastFilter.Limit)
	}
}

func TestListForOwner_IncludesInactiveAndGuards(t *testing.T) {
	h, store, company := fixture()
	store.jobs[uuid.New()] = &models.Job{CompanyID: company.ID, Title: "Open", IsActive: true}
	store.jobs[uuid.New()] = &models.Job{CompanyID: company.ID, Title: "Closed", IsActive: false}

	out, err := h.ListForOwner(context.Background(), request(t, owner, map[string]any{"slug": "acme"}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list := out.([]models.Job); len(list) != 2 {
		t.Fatalf("owner listing should include inactive jobs, got %d", len(list))
	}

	_, err = h.ListForOwner(context.Background(), request(t, &models.Identity{ID: "user-2"}, map[string]any{"slug": "acme"}))
	wantCode(t, err, apperr.CodeForbidden)
}

func TestCreate_AppliesDefaults(t *testing.T) {
	h, store, company := fixture()

	out, err := h.Create(context.Background(), request(t, owner, map[string]any{
		"slug": "acme", "title": "Backend Engineer",
	}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	j := out.(*models.Job)
	if j.CompanyID != company.ID {
		t.Fatal("job not bound to company")
	}
	if j.Location != models.LocationRemote || j.Type != models.TypeFullTime {
		t.Fatalf("expected Remote/Full-time defaults, got %q/%q", j.Location, j.Type)
	}
	if j.ExperienceLevel != "Mid" || j.Currency != "USD" {
		t.Fatalf("expected Mid/USD defaults, got %q/%q", j.ExperienceLevel, j.Currency)
	}
	if !j.IsActive || j.IsFeatured {
		t.Fatalf("expected active, not featured; got active=%v featured=%v", j.IsActive, j.IsFeatured)
	}
	if j.Requirements == nil || j.Skills == nil || j.Benefits == nil {
		t.Fatal("list fields default to empty slices, not nil")
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(store.created))
	}
}

func TestCreate_RequiresTitleAndOwnership(t *testing.T) {
	h, store, _ := fixture()

	_, err := h.Create(context.Background(), request(t, owner, map[string]any{"slug": "acme"}))
	wantCode(t, err, apperr.CodeValidation)

	_, err = h.Create(context.Background(), request(t, &models.Identity{ID: "user-2"}, map[string]any{
		"slug": "acme", "title": "Backend Engineer",
	}))
	wantCode(t, err, apperr.CodeForbidden)
	if len(store.created) != 0 {
		t.Fatal("rejected creates must not reach the store")
	}
}

func TestUpdate_OwnershipCascadesThroughCompany(t *testing.T) {
	h, store, company := fixture()
	jobID := uuid.New()
	store.jobs[jobID] = &models.Job{ID: jobID, CompanyID: company.ID, Title: "Old", IsActive: true}

	out, err := h.Update(context.Background(), request(t, owner, map[string]any{
		"id": jobID.String(), "title": "New",
	}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.(*models.Job).Title != "New" {
		t.Fatal("title not updated")
	}
	f := store.updated[0]
	if f.Department != nil || f.IsActive != nil {
		t.Fatal("omitted fields must stay nil")
	}

	_, err = h.Update(context.Background(), request(t, &models.Identity{ID: "user-2"}, map[string]any{
		"id": jobID.String(), "title": "Hijacked",
	}))
	wantCode(t, err, apperr.CodeForbidden)
}

func TestDelete_OwnerOnly(t *testing.T) {
	h, store, company := fixture()
	jobID := uuid.New()
	store.jobs[jobID] = &models.Job{ID: jobID, CompanyID: company.ID, Title: "Gone"}

	_, err := h.Delete(context.Background(), request(t, &models.Identity{ID: "user-2"}, map[string]any{
		"id": jobID.String(),
	}))
	wantCode(t, err, apperr.CodeForbidden)
	if len(store.deleted) != 0 {
		t.Fatal("forbidden delete must not reach the store")
	}

	_, err = h.Delete(context.Background(), request(t, owner, map[string]any{"id": jobID.String()}))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != jobID {
		t.Fatalf("expected delete of %s, got %v", jobID, store.deleted)
	}
}

func TestDelete_InvalidAndMissingID(t *testing.T) {
	h, _, _ := fixture()

	_, err := h.Delete(context.Background(), request(t, owner, map[string]any{}))
	wantCode(t, err, apperr.CodeValidation)

	_, err = h.Delete(context.Background(), request(t, owner, map[string]any{"id": "not-a-uuid"}))
	wantCode(t, err, apperr.CodeValidation)

	_, err = h.Delete(context.Background(), request(t, owner, map[string]any{"id": uuid.NewString()}))
	wantCode(t, err, apperr.CodeNotFound)
}
