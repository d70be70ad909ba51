package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/rpupo63/portfolio-sync-backend/models"
)

// PlaceholderImageURL is returned when no image source resolves for a project.
const PlaceholderImageURL = "https://via.placeholder.com/800x600?text=Project+Image"

// titleNames and the alternate property lists below encode the probing order
// against the source schema. The source database is hand-maintained, so the
// same logical field shows up under different names over time.
var (
	titleNames  = []string{"Title", "Name"}
	imageNames  = []string{"Images", "Files", "Media", "Files & media"}
	altImage    = []string{"Image", "Cover", "Thumbnail", "image", "cover", "thumbnail"}
	githubNames = []string{"GitHub", "Repository"}
	demoNames   = []string{"Demo", "Live Demo", "Website"}
	docsNames   = []string{"Documentation", "Docs"}
)

// ConvertOptions parameterizes page conversion. DefaultDateToNow preserves
// the source behavior of fabricating today's date for date-less projects.
type ConvertOptions struct {
	SyncedAt         time.Time
	IncludeGallery   bool
	DefaultDateToNow bool
	Version          string
}

// ConvertPage maps one database row into a ProjectRecord. Every missing
// property yields a documented default: title "Untitled", category "other",
// empty technologies, date per DefaultDateToNow.
func ConvertPage(page notionapi.Page, opts ConvertOptions) models.ProjectRecord {
	props := page.Properties
	id := models.ProjectID(string(page.ID))

	title := titleOf(props)
	if title == "" {
		title = "Untitled"
	}

	date := dateOf(props, "Date")
	if date == "" && opts.DefaultDateToNow {
		date = opts.SyncedAt.Format("2006-01-02")
	}

	return models.ProjectRecord{
		ID:           id,
		Title:        title,
		Description:  richTextOf(props, "Description"),
		Category:     models.NormalizeCategory(selectOf(props, "Category")),
		Technologies: multiSelectOf(props, "Technologies"),
		Date:         date,
		Status:       selectOf(props, "Status"),
		Images:       ResolveImages(id, props, opts.IncludeGallery),
		Links:        ResolveLinks(props),
		Metadata: models.ProjectMetadata{
			NotionID:    string(page.ID),
			LastUpdated: page.LastEditedTime,
			SyncedAt:    opts.SyncedAt,
			Version:     opts.Version,
		},
	}
}

// ConvertBlocksToText flattens content blocks into a linear text document
// with markdown-like markers. Flattening is shallow: children of list items
// and toggles are not walked. Unrecognized block types render empty and are
// filtered out; surviving lines are joined with a double newline.
func ConvertBlocksToText(blocks notionapi.Blocks) string {
	var lines []string
	for _, block := range blocks {
		if line := renderBlock(block); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n\n")
}

func renderBlock(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return plainText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return marked("# ", plainText(b.Heading1.RichText))
	case *notionapi.Heading2Block:
		return marked("## ", plainText(b.Heading2.RichText))
	case *notionapi.Heading3Block:
		return marked("### ", plainText(b.Heading3.RichText))
	case *notionapi.BulletedListItemBlock:
		return marked("• ", plainText(b.BulletedListItem.RichText))
	case *notionapi.NumberedListItemBlock:
		return marked("1. ", plainText(b.NumberedListItem.RichText))
	default:
		return ""
	}
}

func marked(marker, text string) string {
	if text == "" {
		return ""
	}
	return marker + text
}

// textToBlocks is the rough inverse of ConvertBlocksToText, used when a
// backed-up record is restored into a fresh page.
func textToBlocks(text string) []notionapi.Block {
	var blocks []notionapi.Block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, headingBlock(strings.TrimPrefix(line, "### "), 3))
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, headingBlock(strings.TrimPrefix(line, "## "), 2))
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, headingBlock(strings.TrimPrefix(line, "# "), 1))
		case strings.HasPrefix(line, "• "):
			blocks = append(blocks, &notionapi.BulletedListItemBlock{
				BasicBlock: notionapi.BasicBlock{
					Object: "block",
					Type:   notionapi.BlockTypeBulletedListItem,
				},
				BulletedListItem: notionapi.ListItem{RichText: richText(strings.TrimPrefix(line, "• "))},
			})
		default:
			blocks = append(blocks, &notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{
					Object: "block",
					Type:   notionapi.BlockTypeParagraph,
				},
				Paragraph: notionapi.Paragraph{RichText: richText(line)},
			})
		}
	}
	return blocks
}

func headingBlock(text string, level int) notionapi.Block {
	switch level {
	case 1:
		return &notionapi.Heading1Block{
			BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeHeading1},
			Heading1:   notionapi.Heading{RichText: richText(text)},
		}
	case 2:
		return &notionapi.Heading2Block{
			BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeHeading2},
			Heading2:   notionapi.Heading{RichText: richText(text)},
		}
	default:
		return &notionapi.Heading3Block{
			BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeHeading3},
			Heading3:   notionapi.Heading{RichText: richText(text)},
		}
	}
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{{Text: &notionapi.Text{Content: content}}}
}

// GetImageURL resolves a usable image URL from a files property value and
// the full property bag. Best effort: the resolved URL is never verified.
func GetImageURL(files []notionapi.File, props notionapi.Properties) string {
	if len(files) > 0 {
		if url := fileURL(files[0]); url != "" {
			return url
		}
	}

	for _, name := range altImage {
		prop, ok := props[name]
		if !ok {
			continue
		}
		switch p := prop.(type) {
		case *notionapi.FilesProperty:
			if len(p.Files) > 0 {
				if url := fileURL(p.Files[0]); url != "" {
					return url
				}
			}
		case *notionapi.URLProperty:
			if p.URL != "" {
				return p.URL
			}
		case *notionapi.RichTextProperty:
			if text := plainText(p.RichText); isAbsoluteURL(text) {
				return text
			}
		}
	}

	return PlaceholderImageURL
}

// ResolveImages builds the image set for a project: remote primary and
// gallery URLs plus deterministic local paths derived from the id.
func ResolveImages(id string, props notionapi.Properties, includeGallery bool) models.ProjectImages {
	files := filesOf(props, imageNames...)

	gallery := []string{}
	if includeGallery {
		for _, f := range files {
			if url := fileURL(f); url != "" {
				gallery = append(gallery, url)
			}
		}
	}

	return models.ProjectImages{
		Primary: GetImageURL(files, props),
		Gallery: gallery,
		Local:   models.LocalImagePaths(id, len(gallery)),
	}
}

// ResolveLinks probes the fixed priority lists of alternate property names
// for each outbound link.
func ResolveLinks(props notionapi.Properties) models.ProjectLinks {
	return models.ProjectLinks{
		Github:        linkOf(props, githubNames...),
		Demo:          linkOf(props, demoNames...),
		Documentation: linkOf(props, docsNames...),
	}
}

func linkOf(props notionapi.Properties, names ...string) string {
	for _, name := range names {
		prop, ok := props[name]
		if !ok {
			continue
		}
		switch p := prop.(type) {
		case *notionapi.URLProperty:
			if p.URL != "" {
				return p.URL
			}
		case *notionapi.RichTextProperty:
			if text := plainText(p.RichText); isAbsoluteURL(text) {
				return text
			}
		}
	}
	return ""
}

func titleOf(props notionapi.Properties) string {
	for _, name := range titleNames {
		if p, ok := props[name].(*notionapi.TitleProperty); ok {
			if text := plainText(p.Title); text != "" {
				return text
			}
		}
	}
	return ""
}

func richTextOf(props notionapi.Properties, name string) string {
	if p, ok := props[name].(*notionapi.RichTextProperty); ok {
		return plainText(p.RichText)
	}
	return ""
}

func selectOf(props notionapi.Properties, name string) string {
	switch p := props[name].(type) {
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.StatusProperty:
		return p.Status.Name
	}
	return ""
}

// multiSelectOf keeps the source's insertion order and does not deduplicate.
func multiSelectOf(props notionapi.Properties, name string) []string {
	values := []string{}
	if p, ok := props[name].(*notionapi.MultiSelectProperty); ok {
		for _, option := range p.MultiSelect {
			values = append(values, option.Name)
		}
	}
	return values
}

func dateOf(props notionapi.Properties, name string) string {
	if p, ok := props[name].(*notionapi.DateProperty); ok {
		if p.Date != nil && p.Date.Start != nil {
			return time.Time(*p.Date.Start).Format("2006-01-02")
		}
	}
	return ""
}

func filesOf(props notionapi.Properties, names ...string) []notionapi.File {
	for _, name := range names {
		if p, ok := props[name].(*notionapi.FilesProperty); ok && len(p.Files) > 0 {
			return p.Files
		}
	}
	return nil
}

func fileURL(f notionapi.File) string {
	if f.File != nil && f.File.URL != "" {
		return f.File.URL
	}
	if f.External != nil && f.External.URL != "" {
		return f.External.URL
	}
	return ""
}

func plainText(richText []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range richText {
		if rt.PlainText != "" {
			b.WriteString(rt.PlainText)
		} else if rt.Text != nil {
			b.WriteString(rt.Text.Content)
		}
	}
	return b.String()
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
