package notion

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"

	"github.com/rpupo63/portfolio-sync-backend/models"
)

func paragraph(text string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeParagraph},
		Paragraph:  notionapi.Paragraph{RichText: richText(text)},
	}
}

func heading1(text string) notionapi.Block {
	return &notionapi.Heading1Block{
		BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeHeading1},
		Heading1:   notionapi.Heading{RichText: richText(text)},
	}
}

func heading2(text string) notionapi.Block {
	return &notionapi.Heading2Block{
		BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeHeading2},
		Heading2:   notionapi.Heading{RichText: richText(text)},
	}
}

func bullet(text string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock:       notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeBulletedListItem},
		BulletedListItem: notionapi.ListItem{RichText: richText(text)},
	}
}

func numbered(text string) notionapi.Block {
	return &notionapi.NumberedListItemBlock{
		BasicBlock:       notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeNumberedListItem},
		NumberedListItem: notionapi.ListItem{RichText: richText(text)},
	}
}

func TestConvertBlocksToText(t *testing.T) {
	tests := []struct {
		name   string
		blocks notionapi.Blocks
		want   string
	}{
		{
			name:   "empty block list",
			blocks: notionapi.Blocks{},
			want:   "",
		},
		{
			name:   "single heading",
			blocks: notionapi.Blocks{heading1("X")},
			want:   "# X",
		},
		{
			name: "mixed content",
			blocks: notionapi.Blocks{
				heading1("Overview"),
				paragraph("First paragraph."),
				heading2("Details"),
				bullet("one"),
				numbered("step"),
			},
			want: "# Overview\n\nFirst paragraph.\n\n## Details\n\n• one\n\n1. step",
		},
		{
			name: "empty blocks filtered out",
			blocks: notionapi.Blocks{
				paragraph(""),
				heading1(""),
				paragraph("kept"),
			},
			want: "kept",
		},
		{
			name: "unrecognized type renders empty",
			blocks: notionapi.Blocks{
				&notionapi.CodeBlock{
					BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeCode},
				},
				paragraph("after"),
			},
			want: "after",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertBlocksToText(tt.blocks))
		})
	}
}

func TestGetImageURL(t *testing.T) {
	t.Run("placeholder when nothing resolves", func(t *testing.T) {
		url := GetImageURL(nil, notionapi.Properties{})
		assert.Equal(t, PlaceholderImageURL, url)
	})

	t.Run("hosted file url wins", func(t *testing.T) {
		files := []notionapi.File{
			{File: &notionapi.FileObject{URL: "https://files.notion.so/a.png"}},
		}
		url := GetImageURL(files, notionapi.Properties{})
		assert.Equal(t, "https://files.notion.so/a.png", url)
	})

	t.Run("external file url", func(t *testing.T) {
		files := []notionapi.File{
			{External: &notionapi.FileObject{URL: "https://example.com/b.png"}},
		}
		url := GetImageURL(files, notionapi.Properties{})
		assert.Equal(t, "https://example.com/b.png", url)
	})

	t.Run("falls back to alternate url property", func(t *testing.T) {
		props := notionapi.Properties{
			"Image": &notionapi.URLProperty{URL: "https://example.com/cover.png"},
		}
		url := GetImageURL(nil, props)
		assert.Equal(t, "https://example.com/cover.png", url)
	})

	t.Run("alternate rich text must be an absolute url", func(t *testing.T) {
		props := notionapi.Properties{
			"Cover": &notionapi.RichTextProperty{RichText: richText("not a url")},
		}
		url := GetImageURL(nil, props)
		assert.Equal(t, PlaceholderImageURL, url)
	})
}

func TestResolveImages(t *testing.T) {
	props := notionapi.Properties{
		"Images": &notionapi.FilesProperty{Files: []notionapi.File{
			{File: &notionapi.FileObject{URL: "https://files.notion.so/1.png"}},
			{External: &notionapi.FileObject{URL: "https://example.com/2.png"}},
		}},
	}

	t.Run("with gallery", func(t *testing.T) {
		images := ResolveImages("project-abc", props, true)

		assert.Equal(t, "https://files.notion.so/1.png", images.Primary)
		assert.Len(t, images.Gallery, 2)
		assert.Equal(t, "/images/projects/project-abc/primary.jpg", images.Local.Primary)
		assert.Len(t, images.Local.Gallery, 2)
	})

	t.Run("without gallery", func(t *testing.T) {
		images := ResolveImages("project-abc", props, false)

		assert.Equal(t, "https://files.notion.so/1.png", images.Primary)
		assert.Empty(t, images.Gallery)
		assert.Empty(t, images.Local.Gallery)
	})
}

func TestResolveLinks(t *testing.T) {
	props := notionapi.Properties{
		"Repository": &notionapi.URLProperty{URL: "https://github.com/me/thing"},
		"Live Demo":  &notionapi.RichTextProperty{RichText: richText("https://thing.example.com")},
		"Docs":       &notionapi.RichTextProperty{RichText: richText("see wiki")},
	}

	links := ResolveLinks(props)

	assert.Equal(t, "https://github.com/me/thing", links.Github)
	assert.Equal(t, "https://thing.example.com", links.Demo)
	assert.Empty(t, links.Documentation)
}

func TestConvertPageDefaults(t *testing.T) {
	syncedAt := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	page := notionapi.Page{
		ID:         notionapi.ObjectID("abc-123-def"),
		Properties: notionapi.Properties{},
	}

	record := ConvertPage(page, ConvertOptions{
		SyncedAt:         syncedAt,
		DefaultDateToNow: true,
		Version:          "1.0.0",
	})

	assert.Equal(t, "project-abc123def", record.ID)
	assert.Equal(t, "Untitled", record.Title)
	assert.Equal(t, models.CategoryOther, record.Category)
	assert.Empty(t, record.Technologies)
	assert.Equal(t, "2024-06-15", record.Date)
	assert.Equal(t, PlaceholderImageURL, record.Images.Primary)
	assert.Equal(t, "abc-123-def", record.Metadata.NotionID)
	assert.Equal(t, "1.0.0", record.Metadata.Version)
}

func TestConvertPageNoDateDefault(t *testing.T) {
	page := notionapi.Page{
		ID:         notionapi.ObjectID("abc"),
		Properties: notionapi.Properties{},
	}

	record := ConvertPage(page, ConvertOptions{SyncedAt: time.Now()})

	assert.Empty(t, record.Date)
}

func TestConvertPageFullProperties(t *testing.T) {
	start := notionapi.Date(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	page := notionapi.Page{
		ID:             notionapi.ObjectID("59833787-2cf9"),
		LastEditedTime: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		Properties: notionapi.Properties{
			"Title":        &notionapi.TitleProperty{Title: richText("LED Matrix")},
			"Description":  &notionapi.RichTextProperty{RichText: richText("A scrolling display")},
			"Category":     &notionapi.SelectProperty{Select: notionapi.Option{Name: "Embedded"}},
			"Technologies": &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{{Name: "C"}, {Name: "KiCad"}}},
			"Date":         &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start}},
			"Status":       &notionapi.SelectProperty{Select: notionapi.Option{Name: "Published"}},
			"GitHub":       &notionapi.URLProperty{URL: "https://github.com/me/led"},
		},
	}

	record := ConvertPage(page, ConvertOptions{
		SyncedAt: time.Now().UTC(),
		Version:  "1.0.0",
	})

	assert.Equal(t, "project-598337872cf9", record.ID)
	assert.Equal(t, "LED Matrix", record.Title)
	assert.Equal(t, "A scrolling display", record.Description)
	assert.Equal(t, models.CategoryEmbedded, record.Category)
	assert.Equal(t, []string{"C", "KiCad"}, record.Technologies)
	assert.Equal(t, "2024-03-10", record.Date)
	assert.Equal(t, "Published", record.Status)
	assert.Equal(t, "https://github.com/me/led", record.Links.Github)
	assert.Equal(t, page.LastEditedTime, record.Metadata.LastUpdated)
}

func TestTextToBlocksRoundTrip(t *testing.T) {
	text := "# Overview\n\nFirst paragraph.\n\n• a bullet"

	blocks := textToBlocks(text)

	assert.Equal(t, text, ConvertBlocksToText(notionapi.Blocks(blocks)))
}
