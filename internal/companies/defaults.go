package companies

import (
	"encoding/json"
	"fmt"

	"github.com/careerforge/backend/internal/models"
)

// DefaultBranding returns the starter theme for a new careers page.
func DefaultBranding() json.RawMessage {
	return json.RawMessage(`{
		"primaryColor": "#2563eb",
		"secondaryColor": "#1e40af",
		"backgroundColor": "#ffffff",
		"textColor": "#111827",
		"fontFamily": "Inter",
		"logo": null,
		"banner": null,
		"layout": "standard"
	}`)
}

// DefaultSections returns the starter section list for a new careers page:
// a hero welcoming visitors by company name, an about block, and the open
// positions list.
func DefaultSections(companyName string) []models.Section {
	heroContent, _ := json.Marshal(map[string]string{
		"subtitle": "Join our team and help us build something great.",
	})
	aboutContent, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("Tell candidates what makes %s a great place to work.", companyName),
	})
	return []models.Section{
		{
			ID:      "hero",
			Type:    "hero",
			Title:   fmt.Sprintf("Welcome to %s", companyName),
			Content: heroContent,
			Visible: true,
			Order:   0,
		},
		{
			ID:      "about",
			Type:    "about",
			Title:   fmt.Sprintf("About %s", companyName),
			Content: aboutContent,
			Visible: true,
			Order:   1,
		},
		{
			ID:      "jobs",
			Type:    "jobs",
			Title:   "Open Positions",
			Visible: true,
			Order:   2,
		},
	}
}
