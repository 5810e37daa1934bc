package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerforge/backend/internal/companies"
	"github.com/careerforge/backend/internal/event"
	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/pkg/apperr"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// CompanyResolver looks up the parent company a job belongs to.
type CompanyResolver interface {
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// Pagination describes one page of a paginated job listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
}

// PaginatedJobs is the GET_JOBS_PAGINATED response.
type PaginatedJobs struct {
	Jobs       []models.Job `json:"jobs"`
	Pagination Pagination   `json:"pagination"`
}

// Handler implements the job steps. Every mutation cascades the ownership
// check through the parent company.
type Handler struct {
	store     Store
	companies CompanyResolver
	guard     *companies.Guard
	logger    *zap.Logger
}

// NewHandler creates a job handler.
func NewHandler(store Store, resolver CompanyResolver, guard *companies.Guard, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, companies: resolver, guard: guard, logger: logger}
}

type companyRef struct {
	CompanyID string `json:"companyId"`
	Slug      string `json:"slug"`
}

// resolveCompany finds the target company from a direct id (verified to
// exist) or a slug lookup.
func (h *Handler) resolveCompany(ctx context.Context, ref companyRef) (*models.Company, error) {
	switch {
	case ref.CompanyID != "":
		id, err := uuid.Parse(ref.CompanyID)
		if err != nil {
			return nil, apperr.Validation("invalid company id")
		}
		company, err := h.companies.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, companies.ErrNotFound) {
				return nil, apperr.NotFound("company not found")
			}
			return nil, apperr.Upstream("failed to look up company", err)
		}
		return company, nil
	case ref.Slug != "":
		company, err := h.companies.GetBySlug(ctx, ref.Slug)
		if err != nil {
			if errors.Is(err, companies.ErrNotFound) {
				return nil, apperr.NotFound("company not found")
			}
			return nil, apperr.Upstream("failed to look up company", err)
		}
		return company, nil
	default:
		return nil, apperr.Validation("companyId or slug is required")
	}
}

type listFilters struct {
	Location    string `json:"location"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type listPayload struct {
	companyRef
	Filters listFilters `json:"filters"`
}

// List implements GET_JOBS: the public "open positions" listing, always
// restricted to active jobs.
func (h *Handler) List(ctx context.Context, req *event.Request) (any, error) {
	var p listPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	company, err := h.resolveCompany(ctx, p.companyRef)
	if err != nil {
		return nil, err
	}
	list, err := h.store.List(ctx, Filter{
		CompanyID:   company.ID,
		Location:    p.Filters.Location,
		Title:       p.Filters.Title,
		Description: p.Filters.Description,
		Type:        p.Filters.Type,
		ActiveOnly:  true,
	})
	if err != nil {
		return nil, apperr.Upstream("failed to list jobs", err)
	}
	if list == nil {
		list = []models.Job{}
	}
	return list, nil
}

type paginatedPayload struct {
	listPayload
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ListPaginated implements GET_JOBS_PAGINATED. Pages are 1-indexed; defaults
// page=1, limit=10.
func (h *Handler) ListPaginated(ctx context.Context, req *event.Request) (any, error) {
	var p paginatedPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	company, err := h.resolveCompany(ctx, p.companyRef)
	if err != nil {
		return nil, err
	}

	page := p.Page
	if page < 1 {
		page = defaultPage
	}
	limit := p.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	f := Filter{
		CompanyID:   company.ID,
		Location:    p.Filters.Location,
		Title:       p.Filters.Title,
		Description: p.Filters.Description,
		Type:        p.Filters.Type,
		ActiveOnly:  true,
	}
	total, err := h.store.Count(ctx, f)
	if err != nil {
		return nil, apperr.Upstream("failed to count jobs", err)
	}

	f.Limit = limit
	f.Offset = (page - 1) * limit
	list, err := h.store.List(ctx, f)
	if err != nil {
		return nil, apperr.Upstream("failed to list jobs", err)
	}
	if list == nil {
		list = []models.Job{}
	}

	totalPages := (total + limit - 1) / limit
	return PaginatedJobs{
		Jobs: list,
		Pagination: Pagination{
			CurrentPage: page,
			TotalItems:  total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
		},
	}, nil
}

// ListForOwner implements GET_COMPANY_JOBS: the admin view, with inactive
// jobs included.
func (h *Handler) ListForOwner(ctx context.Context, req *event.Request) (any, error) {
	var p listPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	company, err := h.resolveCompany(ctx, p.companyRef)
	if err != nil {
		return nil, err
	}
	if err := h.guard.CheckCompany(company, req.Identity); err != nil {
		return nil, err
	}
	list, err := h.store.List(ctx, Filter{
		CompanyID:   company.ID,
		Location:    p.Filters.Location,
		Title:       p.Filters.Title,
		Description: p.Filters.Description,
		Type:        p.Filters.Type,
	})
	if err != nil {
		return nil, apperr.Upstream("failed to list jobs", err)
	}
	if list == nil {
		list = []models.Job{}
	}
	return list, nil
}

type createPayload struct {
	companyRef
	Title            string     `json:"title"`
	Department       string     `json:"department"`
	Location         string     `json:"location"`
	LocationType     string     `json:"locationType"`
	Type             string     `json:"type"`
	ExperienceLevel  string     `json:"experienceLevel"`
	Description      string     `json:"description"`
	Salary           string     `json:"salary"`
	SalaryMin        *int       `json:"salaryMin"`
	SalaryMax        *int       `json:"salaryMax"`
	Currency         string     `json:"currency"`
	Requirements     []string   `json:"requirements"`
	Responsibilities []string   `json:"responsibilities"`
	Skills           []string   `json:"skills"`
	Benefits         []string   `json:"benefits"`
	Perks            []string   `json:"perks"`
	ApplicationURL   string     `json:"applicationUrl"`
	Deadline         *time.Time `json:"deadline"`
	IsActive         *bool      `json:"isActive"`
	IsFeatured       *bool      `json:"isFeatured"`
}

// Create implements CREATE_JOB with the documented field defaults.
func (h *Handler) Create(ctx context.Context, req *event.Request) (any, error) {
	var p createPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	company, err := h.resolveCompany(ctx, p.companyRef)
	if err != nil {
		return nil, err
	}
	if err := h.guard.CheckCompany(company, req.Identity); err != nil {
		return nil, err
	}

	job := &models.Job{
		CompanyID:        company.ID,
		Title:            p.Title,
		Department:       p.Department,
		Location:         defaultString(p.Location, models.LocationRemote),
		LocationType:     defaultString(p.LocationType, models.LocationRemote),
		Type:             defaultString(p.Type, models.TypeFullTime),
		ExperienceLevel:  defaultString(p.ExperienceLevel, "Mid"),
		Description:      p.Description,
		Salary:           p.Salary,
		SalaryMin:        p.SalaryMin,
		SalaryMax:        p.SalaryMax,
		Currency:         defaultString(p.Currency, "USD"),
		Requirements:     emptyIfNil(p.Requirements),
		Responsibilities: emptyIfNil(p.Responsibilities),
		Skills:           emptyIfNil(p.Skills),
		Benefits:         emptyIfNil(p.Benefits),
		Perks:            emptyIfNil(p.Perks),
		ApplicationURL:   p.ApplicationURL,
		Deadline:         p.Deadline,
		IsActive:         true,
		IsFeatured:       false,
	}
	if p.IsActive != nil {
		job.IsActive = *p.IsActive
	}
	if p.IsFeatured != nil {
		job.IsFeatured = *p.IsFeatured
	}

	if err := h.store.Create(ctx, job); err != nil {
		return nil, apperr.Upstream("failed to create job", err)
	}
	h.logger.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("company", company.Slug),
	)
	return job, nil
}

type updatePayload struct {
	ID               string     `json:"id"`
	Title            *string    `json:"title"`
	Department       *string    `json:"department"`
	Location         *string    `json:"location"`
	LocationType     *string    `json:"locationType"`
	Type             *string    `json:"type"`
	ExperienceLevel  *string    `json:"experienceLevel"`
	Description      *string    `json:"description"`
	Salary           *string    `json:"salary"`
	SalaryMin        *int       `json:"salaryMin"`
	SalaryMax        *int       `json:"salaryMax"`
	Currency         *string    `json:"currency"`
	Requirements     *[]string  `json:"requirements"`
	Responsibilities *[]string  `json:"responsibilities"`
	Skills           *[]string  `json:"skills"`
	Benefits         *[]string  `json:"benefits"`
	Perks            *[]string  `json:"perks"`
	ApplicationURL   *string    `json:"applicationUrl"`
	Deadline         *time.Time `json:"deadline"`
	IsActive         *bool      `json:"isActive"`
	IsFeatured       *bool      `json:"isFeatured"`
}

// Update implements UPDATE_JOB: partial merge with the ownership check
// cascaded through the parent company.
func (h *Handler) Update(ctx context.Context, req *event.Request) (any, error) {
	var p updatePayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	job, err := h.loadOwnedJob(ctx, p.ID, req.Identity)
	if err != nil {
		return nil, err
	}

	updated, err := h.store.Update(ctx, job.ID, UpdateFields{
		Title:            p.Title,
		Department:       p.Department,
		Location:         p.Location,
		LocationType:     p.LocationType,
		Type:             p.Type,
		ExperienceLevel:  p.ExperienceLevel,
		Description:      p.Description,
		Salary:           p.Salary,
		SalaryMin:        p.SalaryMin,
		SalaryMax:        p.SalaryMax,
		Currency:         p.Currency,
		Requirements:     p.Requirements,
		Responsibilities: p.Responsibilities,
		Skills:           p.Skills,
		Benefits:         p.Benefits,
		Perks:            p.Perks,
		ApplicationURL:   p.ApplicationURL,
		Deadline:         p.Deadline,
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
	})
	if err != nil {
		return nil, apperr.Upstream("failed to update job", err)
	}
	return updated, nil
}

type deletePayload struct {
	ID string `json:"id"`
}

// Delete implements DELETE_JOB, owner-only.
func (h *Handler) Delete(ctx context.Context, req *event.Request) (any, error) {
	var p deletePayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	job, err := h.loadOwnedJob(ctx, p.ID, req.Identity)
	if err != nil {
		return nil, err
	}
	if err := h.store.Delete(ctx, job.ID); err != nil {
		return nil, apperr.Upstream("failed to delete job", err)
	}
	h.logger.Info("job deleted", zap.String("job_id", job.ID.String()))
	return map[string]any{"deleted": true}, nil
}

// loadOwnedJob fetches a job and verifies the caller owns its company.
func (h *Handler) loadOwnedJob(ctx context.Context, idStr string, identity *models.Identity) (*models.Job, error) {
	if idStr == "" {
		return nil, apperr.Validation("id is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apperr.Validation("invalid job id")
	}
	job, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("job not found")
		}
		return nil, apperr.Upstream("failed to look up job", err)
	}
	company, err := h.companies.GetByID(ctx, job.CompanyID)
	if err != nil {
		if errors.Is(err, companies.ErrNotFound) {
			return nil, apperr.NotFound("company not found")
		}
		return nil, apperr.Upstream("failed to look up company", err)
	}
	if err := h.guard.CheckCompany(company, identity); err != nil {
		return nil, err
	}
	return job, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func emptyIfNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
