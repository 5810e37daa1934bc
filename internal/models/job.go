package models

import (
	"time"

	"github.com/google/uuid"
)

// Job location types.
const (
	LocationRemote = "Remote"
	LocationOnSite = "On-site"
	LocationHybrid = "Hybrid"
)

// Job employment types.
const (
	TypeFullTime   = "Full-time"
	TypePartTime   = "Part-time"
	TypeContract   = "Contract"
	TypeInternship = "Internship"
)

// Job is a posting on a company's careers page. Public listings only ever
// include rows with IsActive set.
type Job struct {
	ID               uuid.UUID  `json:"id"`
	CompanyID        uuid.UUID  `json:"companyId"`
	Title            string     `json:"title"`
	Department       string     `json:"department,omitempty"`
	Location         string     `json:"location"`
	LocationType     string     `json:"locationType"`
	Type             string     `json:"type"`
	ExperienceLevel  string     `json:"experienceLevel"`
	Description      string     `json:"description,omitempty"`
	Salary           string     `json:"salary,omitempty"`
	SalaryMin        *int       `json:"salaryMin,omitempty"`
	SalaryMax        *int       `json:"salaryMax,omitempty"`
	Currency         string     `json:"currency"`
	Requirements     []string   `json:"requirements"`
	Responsibilities []string   `json:"responsibilities"`
	Skills           []string   `json:"skills"`
	Benefits         []string   `json:"benefits"`
	Perks            []string   `json:"perks"`
	ApplicationURL   string     `json:"applicationUrl,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	IsActive         bool       `json:"isActive"`
	IsFeatured       bool       `json:"isFeatured"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
