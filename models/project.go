package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of project categories used across the site.
type Category string

const (
	CategoryEmbedded     Category = "embedded"
	CategoryMechatronics Category = "mechatronics"
	CategoryInteractive  Category = "interactive"
	CategoryAutomation   Category = "automation"
	CategoryIOT          Category = "iot"
	CategoryWeb          Category = "web"
	CategorySoftware     Category = "software"
	CategoryOther        Category = "other"
)

var knownCategories = map[Category]bool{
	CategoryEmbedded:     true,
	CategoryMechatronics: true,
	CategoryInteractive:  true,
	CategoryAutomation:   true,
	CategoryIOT:          true,
	CategoryWeb:          true,
	CategorySoftware:     true,
	CategoryOther:        true,
}

// NormalizeCategory maps an arbitrary source value onto the closed category
// set. Unknown or empty values fall back to "other".
func NormalizeCategory(value string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if knownCategories[c] {
		return c
	}
	return CategoryOther
}

// ProjectID derives the stable project identifier from a Notion page id.
// The derivation is pure: re-syncing the same page always yields the same id.
func ProjectID(notionID string) string {
	return "project-" + strings.ReplaceAll(notionID, "-", "")
}

// LocalImagePaths computes the deterministic local paths for a project's
// images. The paths are derived from the id only; nothing checks that the
// files exist.
func LocalImagePaths(id string, galleryCount int) LocalImages {
	local := LocalImages{
		Primary: fmt.Sprintf("/images/projects/%s/primary.jpg", id),
		Gallery: []string{},
	}
	for i := 0; i < galleryCount; i++ {
		local.Gallery = append(local.Gallery, fmt.Sprintf("/images/projects/%s/gallery-%d.jpg", id, i+1))
	}
	return local
}

// ProjectImages holds the remote image URLs plus the computed local paths.
type ProjectImages struct {
	Primary string      `json:"primary"`
	Gallery []string    `json:"gallery"`
	Local   LocalImages `json:"local"`
}

type LocalImages struct {
	Primary string   `json:"primary"`
	Gallery []string `json:"gallery"`
}

// ProjectLinks are resolved by probing several possible source property
// names in priority order; each link is optional.
type ProjectLinks struct {
	Github        string `json:"github,omitempty"`
	Demo          string `json:"demo,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

type ProjectMetadata struct {
	NotionID    string    `json:"notionId"`
	LastUpdated time.Time `json:"lastUpdated"`
	SyncedAt    time.Time `json:"syncedAt"`
	Version     string    `json:"version"`
}

// ProjectRecord is the canonical synchronized representation of one
// portfolio project.
type ProjectRecord struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	FullDescription string          `json:"fullDescription"`
	Category        Category        `json:"category"`
	Technologies    []string        `json:"technologies"`
	Date            string          `json:"date"`
	Status          string          `json:"status"`
	Images          ProjectImages   `json:"images"`
	Links           ProjectLinks    `json:"links"`
	Metadata        ProjectMetadata `json:"metadata"`
}

// ProjectSummary is the lite shape served by GET /api/projects.
type ProjectSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Technologies []string `json:"technologies"`
	Date         string   `json:"date"`
	Image        string   `json:"image"`
}

// Summary projects the record down to the listing shape.
func (p ProjectRecord) Summary() ProjectSummary {
	return ProjectSummary{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		Technologies: p.Technologies,
		Date:         p.Date,
		Image:        p.Images.Primary,
	}
}
