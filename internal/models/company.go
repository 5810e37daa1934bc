package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Section is one block of the public careers page. Sections are stored as an
// ordered array; Order is the explicit sort key the admin UI drags around.
type Section struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"` // "hero", "about", "jobs", "values", "team", ...
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content,omitempty"`
	Visible bool            `json:"visible"`
	Order   int             `json:"order"`
}

// TeamMember is one entry on the team section.
type TeamMember struct {
	Name       string            `json:"name"`
	Title      string            `json:"title"`
	Department string            `json:"department,omitempty"`
	Bio        string            `json:"bio,omitempty"`
	Image      string            `json:"image,omitempty"`
	Links      map[string]string `json:"links,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Order      int               `json:"order"`
}

// Company is a tenant's careers page configuration. Branding is deliberately
// schemaless JSON; only the "logo" and "banner" keys are touched server-side.
type Company struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	CreatedBy   string          `json:"createdBy"`
	Branding    json.RawMessage `json:"branding"`
	Sections    []Section       `json:"sections"`
	Team        []TeamMember    `json:"team"`
	Published   bool            `json:"published"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
