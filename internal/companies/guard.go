package companies

import (
	"context"
	"errors"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/pkg/apperr"
)

// Guard is the ownership check binding a mutating request to the company's
// recorded creator. Every mutating company and job step goes through it.
type Guard struct {
	store Store
}

// NewGuard creates an ownership guard.
func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

// CheckSlug fetches the company by slug and verifies the identity owns it.
// Returns the company so callers avoid a second lookup. A missing company is
// NotFound; a failed lookup is UpstreamError; a non-owner is Forbidden.
func (g *Guard) CheckSlug(ctx context.Context, slug string, identity *models.Identity) (*models.Company, error) {
	company, err := g.store.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("company not found")
		}
		return nil, apperr.Upstream("failed to look up company", err)
	}
	return g.check(company, identity)
}

// CheckCompany verifies the identity owns an already-loaded company.
func (g *Guard) CheckCompany(company *models.Company, identity *models.Identity) error {
	_, err := g.check(company, identity)
	return err
}

// HasAccess reports ownership without turning a mismatch into an error. Used
// by the access-check step, which answers rather than denies.
func (g *Guard) HasAccess(ctx context.Context, slug string, identity *models.Identity) (bool, error) {
	company, err := g.store.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, apperr.NotFound("company not found")
		}
		return false, apperr.Upstream("failed to look up company", err)
	}
	return identity.MatchesOwner(company.CreatedBy), nil
}

func (g *Guard) check(company *models.Company, identity *models.Identity) (*models.Company, error) {
	if !identity.MatchesOwner(company.CreatedBy) {
		return nil, apperr.Forbidden("you do not own this company")
	}
	return company, nil
}
