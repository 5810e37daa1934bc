package companies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerforge/backend/internal/models"
)

// ErrNotFound is returned when no company matches the lookup.
var ErrNotFound = errors.New("company not found")

// Store is the persistence surface company handlers and the ownership guard
// depend on.
type Store interface {
	Create(ctx context.Context, c *models.Company) error
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, f UpdateFields) (*models.Company, error)
	ListByOwner(ctx context.Context, ownerKeys []string) ([]models.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdateFields carries a partial update. Nil pointers mean "leave unchanged";
// only present fields reach the SET clause, so concurrent writers touching
// disjoint fields cannot clobber each other.
type UpdateFields struct {
	Name        *string
	Branding    json.RawMessage
	Sections    *[]models.Section
	Team        *[]models.TeamMember
	Published   *bool
	PublishedAt *time.Time
}

// Repository handles company persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a company repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const companyColumns = `id, name, slug, created_by, branding, sections, team, published, published_at, created_at, updated_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	var branding, sections, team []byte
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedBy, &branding, &sections, &team,
		&c.Published, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Branding = json.RawMessage(branding)
	if err := json.Unmarshal(sections, &c.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	if err := json.Unmarshal(team, &c.Team); err != nil {
		return nil, fmt.Errorf("decode team: %w", err)
	}
	return &c, nil
}

// Create inserts a new company and fills in generated fields.
func (r *Repository) Create(ctx context.Context, c *models.Company) error {
	sections, err := json.Marshal(c.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	team, err := json.Marshal(c.Team)
	if err != nil {
		return fmt.Errorf("encode team: %w", err)
	}
	branding := c.Branding
	if len(branding) == 0 {
		branding = json.RawMessage(`{}`)
	}
	const q = `INSERT INTO companies (name, slug, created_by, branding, sections, team, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, c.Name, c.Slug, c.CreatedBy, []byte(branding), sections, team, c.Published, c.PublishedAt).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetBySlug returns a company by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM companies WHERE slug = $1`
	c, err := scanCompany(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByID returns a company by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// SlugExists reports whether a slug is already taken.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM companies WHERE slug = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, slug).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Update writes only the provided fields and bumps updated_at, returning the
// merged row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, f UpdateFields) (*models.Company, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Name != nil {
		sets = append(sets, "name = "+arg(*f.Name))
	}
	if f.Branding != nil {
		sets = append(sets, "branding = "+arg([]byte(f.Branding)))
	}
	if f.Sections != nil {
		b, err := json.Marshal(*f.Sections)
		if err != nil {
			return nil, fmt.Errorf("encode sections: %w", err)
		}
		sets = append(sets, "sections = "+arg(b))
	}
	if f.Team != nil {
		b, err := json.Marshal(*f.Team)
		if err != nil {
			return nil, fmt.Errorf("encode team: %w", err)
		}
		sets = append(sets, "team = "+arg(b))
	}
	if f.Published != nil {
		sets = append(sets, "published = "+arg(*f.Published))
	}
	if f.PublishedAt != nil {
		sets = append(sets, "published_at = "+arg(*f.PublishedAt))
	}

	q := "UPDATE companies SET "
	for i, s := range sets {
		if i > 0 {
			q += ", "
		}
		q += s
	}
	q += " WHERE id = " + arg(id) + " RETURNING " + companyColumns

	c, err := scanCompany(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByOwner returns all companies whose created_by matches any of the given
// owner keys (user id, legacy email).
func (r *Repository) ListByOwner(ctx context.Context, ownerKeys []string) ([]models.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM companies WHERE created_by = ANY($1) ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, ownerKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// Delete removes a company by ID. Jobs cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM companies WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
