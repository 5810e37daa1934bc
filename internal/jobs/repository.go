package jobs

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

// ErrNotFound is returned when no job matches the lookup.
var ErrNotFound = errors.New("job not found")

// Filter narrows a job listing. Location, Title and Description are substring
// matches; Type is exact. ActiveOnly restricts to is_active rows (the public
// listing always sets it).
type Filter struct {
	CompanyID   uuid.UUID
	Location    string
	Title       string
	Description string
	Type        string
	ActiveOnly  bool
	Limit       int
	Offset      int
}

// Store is the persistence surface job handlers depend on.
type Store interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, f Filter) ([]models.Job, error)
	Count(ctx context.Context, f Filter) (int, error)
	Update(ctx context.Context, id uuid.UUID, f UpdateFields) (*models.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdateFields carries a partial job update; nil pointers are left unchanged.
type UpdateFields struct {
	Title            *string
	Department       *string
	Location         *string
	LocationType     *string
	Type             *string
	ExperienceLevel  *string
	Description      *string
	Salary           *string
	SalaryMin        *int
	SalaryMax        *int
	Currency         *string
	Requirements     *[]string
	Responsibilities *[]string
	Skills           *[]string
	Benefits         *[]string
	Perks            *[]string
	ApplicationURL   *string
	Deadline         *time.Time
	IsActive         *bool
	IsFeatured       *bool
}

// Repository handles job persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a job repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const jobColumns = `id, company_id, title, department, location, location_type, type, experience_level,
	description, salary, salary_min, salary_max, currency,
	requirements, responsibilities, skills, benefits, perks,
	application_url, deadline, is_active, is_featured, created_at, updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	var requirements, responsibilities, skills, benefits, perks []byte
	err := row.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Department, &j.Location, &j.LocationType,
		&j.Type, &j.ExperienceLevel, &j.Description, &j.Salary, &j.SalaryMin, &j.SalaryMax, &j.Currency,
		&requirements, &responsibilities, &skills, &benefits, &perks,
		&j.ApplicationURL, &j.Deadline, &j.IsActive, &j.IsFeatured, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{requirements, &j.Requirements},
		{responsibilities, &j.Responsibilities},
		{skills, &j.Skills},
		{benefits, &j.Benefits},
		{perks, &j.Perks},
	} {
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("decode list field: %w", err)
		}
	}
	return &j, nil
}

func marshalList(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

// Create inserts a new job and fills in generated fields.
func (r *Repository) Create(ctx context.Context, j *models.Job) error {
	lists := make([][]byte, 5)
	for i, v := range [][]string{j.Requirements, j.Responsibilities, j.Skills, j.Benefits, j.Perks} {
		b, err := marshalList(v)
		if err != nil {
			return fmt.Errorf("encode list field: %w", err)
		}
		lists[i] = b
	}
	const q = `INSERT INTO jobs (company_id, title, department, location, location_type, type, experience_level,
			description, salary, salary_min, salary_max, currency,
			requirements, responsibilities, skills, benefits, perks,
			application_url, deadline, is_active, is_featured)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, j.CompanyID, j.Title, j.Department, j.Location, j.LocationType,
		j.Type, j.ExperienceLevel, j.Description, j.Salary, j.SalaryMin, j.SalaryMax, j.Currency,
		lists[0], lists[1], lists[2], lists[3], lists[4],
		j.ApplicationURL, j.Deadline, j.IsActive, j.IsFeatured).
		Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
}

// GetByID returns a job by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	j, err := scanJob(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return j, nil
}

func filterClause(f Filter, args *[]any) string {
	arg := func(v any) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
	}
	where := " WHERE company_id = " + arg(f.CompanyID)
	if f.ActiveOnly {
		where += " AND is_active = TRUE"
	}
	if f.Location != "" {
		where += " AND location ILIKE " + arg("%"+f.Location+"%")
	}
	if f.Title != "" {
		where += " AND title ILIKE " + arg("%"+f.Title+"%")
	}
	if f.Description != "" {
		where += " AND description ILIKE " + arg("%"+f.Description+"%")
	}
	if f.Type != "" {
		where += " AND type = " + arg(f.Type)
	}
	return where
}

// List returns jobs matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Job, error) {
	var args []any
	q := `SELECT ` + jobColumns + ` FROM jobs` + filterClause(f, &args) + ` ORDER BY is_featured DESC, created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *j)
	}
	return list, rows.Err()
}

// Count returns the number of jobs matching the filter, ignoring pagination.
func (r *Repository) Count(ctx context.Context, f Filter) (int, error) {
	var args []any
	q := `SELECT COUNT(*) FROM jobs` + filterClause(f, &args)
	var n int
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update writes only the provided fields and bumps updated_at, returning the
// merged row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, f UpdateFields) (*models.Job, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	set := func(col string, v any) { sets = append(sets, col+" = "+arg(v)) }

	if f.Title != nil {
		set("title", *f.Title)
	}
	if f.Department != nil {
		set("department", *f.Department)
	}
	if f.Location != nil {
		set("location", *f.Location)
	}
	if f.LocationType != nil {
		set("location_type", *f.LocationType)
	}
	if f.Type != nil {
		set("type", *f.Type)
	}
	if f.ExperienceLevel != nil {
		set("experience_level", *f.ExperienceLevel)
	}
	if f.Description != nil {
		set("description", *f.Description)
	}
	if f.Salary != nil {
		set("salary", *f.Salary)
	}
	if f.SalaryMin != nil {
		set("salary_min", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		set("salary_max", *f.SalaryMax)
	}
	if f.Currency != nil {
		set("currency", *f.Currency)
	}
	for _, pair := range []struct {
		col string
		val *[]string
	}{
		{"requirements", f.Requirements},
		{"responsibilities", f.Responsibilities},
		{"skills", f.Skills},
		{"benefits", f.Benefits},
		{"perks", f.Perks},
	} {
		if pair.val == nil {
			continue
		}
		b, err := marshalList(*pair.val)
		if err != nil {
			return nil, fmt.Errorf("encode list field: %w", err)
		}
		set(pair.col, b)
	}
	if f.ApplicationURL != nil {
		set("application_url", *f.ApplicationURL)
	}
	if f.Deadline != nil {
		set("deadline", *f.Deadline)
	}
	if f.IsActive != nil {
		set("is_active", *f.IsActive)
	}
	if f.IsFeatured != nil {
		set("is_featured", *f.IsFeatured)
	}

	q := "UPDATE jobs SET "
	for i, s := range sets {
		if i > 0 {
			q += ", "
		}
		q += s
	}
	q += " WHERE id = " + arg(id) + " RETURNING " + jobColumns

	j, err := scanJob(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return j, nil
}

// Delete removes a job by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM jobs WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
