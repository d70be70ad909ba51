package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectID(t *testing.T) {
	tests := []struct {
		name     string
		notionID string
		want     string
	}{
		{
			name:     "hyphenated id",
			notionID: "abc-123-def",
			want:     "project-abc123def",
		},
		{
			name:     "uuid form",
			notionID: "59833787-2cf9-4fdf-8782-e53db20768a5",
			want:     "project-598337872cf94fdf8782e53db20768a5",
		},
		{
			name:     "no hyphens",
			notionID: "abc123",
			want:     "project-abc123",
		},
		{
			name:     "empty",
			notionID: "",
			want:     "project-",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectID(tt.notionID))
		})
	}
}

func TestProjectIDIsStable(t *testing.T) {
	first := ProjectID("abc-123-def")
	second := ProjectID("abc-123-def")
	assert.Equal(t, first, second)
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Category
	}{
		{"known category", "embedded", CategoryEmbedded},
		{"uppercase", "Mechatronics", CategoryMechatronics},
		{"surrounding whitespace", "  web  ", CategoryWeb},
		{"unknown", "quantum", CategoryOther},
		{"empty", "", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.value))
		})
	}
}

func TestLocalImagePaths(t *testing.T) {
	local := LocalImagePaths("project-abc123", 2)

	assert.Equal(t, "/images/projects/project-abc123/primary.jpg", local.Primary)
	assert.Equal(t, []string{
		"/images/projects/project-abc123/gallery-1.jpg",
		"/images/projects/project-abc123/gallery-2.jpg",
	}, local.Gallery)
}

func TestLocalImagePathsEmptyGallery(t *testing.T) {
	local := LocalImagePaths("project-abc123", 0)

	assert.NotNil(t, local.Gallery)
	assert.Empty(t, local.Gallery)
}

func TestSummary(t *testing.T) {
	record := ProjectRecord{
		ID:           "project-abc",
		Title:        "Robot Arm",
		Description:  "A 6-DOF arm",
		Category:     CategoryMechatronics,
		Technologies: []string{"Go", "ROS"},
		Date:         "2024-06-01",
		Images: ProjectImages{
			Primary: "https://example.com/arm.jpg",
		},
	}

	summary := record.Summary()

	assert.Equal(t, record.ID, summary.ID)
	assert.Equal(t, record.Title, summary.Title)
	assert.Equal(t, record.Technologies, summary.Technologies)
	assert.Equal(t, record.Images.Primary, summary.Image)
}
