package companies

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerforge/backend/internal/event"
	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/pkg/apperr"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Handler implements the company steps.
type Handler struct {
	store  Store
	guard  *Guard
	logger *zap.Logger
}

// NewHandler creates a company handler.
func NewHandler(store Store, guard *Guard, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, guard: guard, logger: logger}
}

type createPayload struct {
	Name     string               `json:"name"`
	Slug     string               `json:"slug"`
	Branding json.RawMessage      `json:"branding"`
	Sections []models.Section     `json:"sections"`
	Team     []models.TeamMember  `json:"team"`
}

// Create implements CREATE_COMPANY. The duplicate-slug check runs before any
// write; omitted branding and sections get the starter templates.
func (h *Handler) Create(ctx context.Context, req *event.Request) (any, error) {
	var p createPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if p.Slug == "" {
		return nil, apperr.Validation("slug is required")
	}
	if !slugPattern.MatchString(p.Slug) {
		return nil, apperr.Validation("slug must contain only lowercase letters, numbers and hyphens")
	}

	taken, err := h.store.SlugExists(ctx, p.Slug)
	if err != nil {
		return nil, apperr.Upstream("failed to check slug", err)
	}
	if taken {
		return nil, apperr.Conflict("slug already taken: " + p.Slug)
	}

	company := &models.Company{
		Name:      p.Name,
		Slug:      p.Slug,
		CreatedBy: req.Identity.OwnerKey(),
		Branding:  p.Branding,
		Sections:  p.Sections,
		Team:      p.Team,
	}
	if len(company.Branding) == 0 {
		company.Branding = DefaultBranding()
	}
	if company.Sections == nil {
		company.Sections = DefaultSections(p.Name)
	}
	if company.Team == nil {
		company.Team = []models.TeamMember{}
	}

	if err := h.store.Create(ctx, company); err != nil {
		return nil, apperr.Upstream("failed to create company", err)
	}
	h.logger.Info("company created",
		zap.String("slug", company.Slug),
		zap.String("created_by", company.CreatedBy),
	)
	return company, nil
}

type getPayload struct {
	Slug string `json:"slug"`
}

// Get implements GET_COMPANY. Public: this backs the visitor-facing page.
func (h *Handler) Get(ctx context.Context, req *event.Request) (any, error) {
	var p getPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		return nil, apperr.Validation("slug is required")
	}
	company, err := h.store.GetBySlug(ctx, p.Slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("company not found")
		}
		return nil, apperr.Upstream("failed to look up company", err)
	}
	return company, nil
}

type updatePayload struct {
	Slug        string                `json:"slug"`
	Name        *string               `json:"name"`
	Branding    json.RawMessage       `json:"branding"`
	Sections    *[]models.Section     `json:"sections"`
	Team        *[]models.TeamMember  `json:"team"`
	Published   *bool                 `json:"published"`
	PublishedAt *time.Time            `json:"publishedAt"`
}

// Update implements UPDATE_COMPANY. Only fields present in the payload are
// written; an omitted field is never nulled out.
func (h *Handler) Update(ctx context.Context, req *event.Request) (any, error) {
	var p updatePayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		return nil, apperr.Validation("slug is required")
	}

	company, err := h.guard.CheckSlug(ctx, p.Slug, req.Identity)
	if err != nil {
		return nil, err
	}

	fields := UpdateFields{
		Name:        p.Name,
		Branding:    p.Branding,
		Sections:    p.Sections,
		Team:        p.Team,
		Published:   p.Published,
		PublishedAt: p.PublishedAt,
	}
	// Publishing without an explicit timestamp stamps now.
	if p.Published != nil && *p.Published && p.PublishedAt == nil {
		now := time.Now()
		fields.PublishedAt = &now
	}

	updated, err := h.store.Update(ctx, company.ID, fields)
	if err != nil {
		return nil, apperr.Upstream("failed to update company", err)
	}
	return updated, nil
}

// ListByUser implements GET_USER_COMPANIES: every company whose created_by
// matches the caller's id or email, via a filtered query.
func (h *Handler) ListByUser(ctx context.Context, req *event.Request) (any, error) {
	keys := make([]string, 0, 2)
	if req.Identity.ID != "" {
		keys = append(keys, req.Identity.ID)
	}
	if req.Identity.Email != "" {
		keys = append(keys, req.Identity.Email)
	}
	if len(keys) == 0 {
		return nil, apperr.Unauthorized("no identity")
	}
	list, err := h.store.ListByOwner(ctx, keys)
	if err != nil {
		return nil, apperr.Upstream("failed to list companies", err)
	}
	if list == nil {
		list = []models.Company{}
	}
	return list, nil
}

type deletePayload struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// Delete implements DELETE_COMPANY. The company resolves by id or slug and the
// caller must own it; unauthenticated deletes are gone.
func (h *Handler) Delete(ctx context.Context, req *event.Request) (any, error) {
	var p deletePayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}

	var company *models.Company
	switch {
	case p.ID != "":
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, apperr.Validation("invalid company id")
		}
		company, err = h.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, apperr.NotFound("company not found")
			}
			return nil, apperr.Upstream("failed to look up company", err)
		}
	case p.Slug != "":
		var err error
		company, err = h.store.GetBySlug(ctx, p.Slug)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, apperr.NotFound("company not found")
			}
			return nil, apperr.Upstream("failed to look up company", err)
		}
	default:
		return nil, apperr.Validation("id or slug is required")
	}

	if err := h.guard.CheckCompany(company, req.Identity); err != nil {
		return nil, err
	}
	if err := h.store.Delete(ctx, company.ID); err != nil {
		return nil, apperr.Upstream("failed to delete company", err)
	}
	h.logger.Info("company deleted", zap.String("slug", company.Slug))
	return map[string]any{"deleted": true}, nil
}

// CheckAccess implements CHECK_COMPANY_ACCESS, returning {hasAccess} rather
// than a 403 so the admin UI can branch on it.
func (h *Handler) CheckAccess(ctx context.Context, req *event.Request) (any, error) {
	var p getPayload
	if err := req.Bind(&p); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		return nil, apperr.Validation("slug is required")
	}
	hasAccess, err := h.guard.HasAccess(ctx, p.Slug, req.Identity)
	if err != nil {
		return nil, err
	}
	return map[string]any{"hasAccess": hasAccess}, nil
}
