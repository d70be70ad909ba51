package notion

import (
	"context"
	"fmt"
	"sort"

	"github.com/jomei/notionapi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/models"
)

// Config carries the credential and source database for the adapter.
type Config struct {
	Token      string
	DatabaseID string
}

// Client wraps the Notion API client behind the service interfaces so tests
// can substitute fakes.
type Client struct {
	databases  notionapi.DatabaseService
	blocks     notionapi.BlockService
	pages      notionapi.PageService
	databaseID notionapi.DatabaseID
	logger     zerolog.Logger
}

// New creates a Notion client from a bearer credential and database id.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("notion token is not set")
	}
	if cfg.DatabaseID == "" {
		return nil, fmt.Errorf("notion database id is not set")
	}

	c := notionapi.NewClient(notionapi.Token(cfg.Token))
	return NewWithServices(c.Database, c.Block, c.Page, cfg.DatabaseID), nil
}

// NewWithServices wires the client from explicit service implementations.
func NewWithServices(databases notionapi.DatabaseService, blocks notionapi.BlockService, pages notionapi.PageService, databaseID string) *Client {
	return &Client{
		databases:  databases,
		blocks:     blocks,
		pages:      pages,
		databaseID: notionapi.DatabaseID(databaseID),
		logger:     log.With().Str("adapter", "notion").Logger(),
	}
}

// QueryOptions selects the filter and sort of a database query. The read
// path sorts by the Date property; sync runs sort by last edit time.
type QueryOptions struct {
	PublishedOnly    bool
	SortByLastEdited bool
}

// QueryAll returns every row of the source database, following pagination
// cursors until exhausted. No automatic retry on failure.
func (c *Client) QueryAll(ctx context.Context, opts QueryOptions) ([]notionapi.Page, error) {
	req := &notionapi.DatabaseQueryRequest{PageSize: 100}
	if opts.PublishedOnly {
		req.Filter = notionapi.PropertyFilter{
			Property: "Status",
			Select:   &notionapi.SelectFilterCondition{Equals: "Published"},
		}
	}
	if opts.SortByLastEdited {
		req.Sorts = []notionapi.SortObject{{
			Timestamp: notionapi.TimestampLastEdited,
			Direction: notionapi.SortOrderDESC,
		}}
	} else {
		req.Sorts = []notionapi.SortObject{{
			Property:  "Date",
			Direction: notionapi.SortOrderDESC,
		}}
	}

	var pages []notionapi.Page
	for {
		resp, err := c.databases.Query(ctx, c.databaseID, req)
		if err != nil {
			return nil, wrapNotionError(err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			break
		}
		req.StartCursor = notionapi.Cursor(resp.NextCursor)
	}
	return pages, nil
}

// GetPageBlocks fetches a page's content blocks, following pagination.
func (c *Client) GetPageBlocks(ctx context.Context, pageID string) (notionapi.Blocks, error) {
	var blocks notionapi.Blocks
	pagination := &notionapi.Pagination{PageSize: 100}
	for {
		resp, err := c.blocks.GetChildren(ctx, notionapi.BlockID(pageID), pagination)
		if err != nil {
			return nil, wrapNotionError(err)
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore {
			break
		}
		pagination.StartCursor = notionapi.Cursor(resp.NextCursor)
	}
	return blocks, nil
}

// PropertyKeys returns the raw property names of the first database row,
// used for schema discovery on the debug surface.
func (c *Client) PropertyKeys(ctx context.Context) ([]string, error) {
	resp, err := c.databases.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{PageSize: 1})
	if err != nil {
		return nil, wrapNotionError(err)
	}
	if len(resp.Results) == 0 {
		return []string{}, nil
	}

	keys := make([]string, 0, len(resp.Results[0].Properties))
	for key := range resp.Results[0].Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// CreateProjectPage re-creates a database row from a backed-up record.
func (c *Client) CreateProjectPage(ctx context.Context, record models.ProjectRecord) error {
	properties := notionapi.Properties{
		"Title": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: record.Title}}},
		},
		"Description": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: record.Description}}},
		},
		"Category": notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(record.Category)},
		},
	}
	if len(record.Technologies) > 0 {
		options := make([]notionapi.Option, 0, len(record.Technologies))
		for _, tech := range record.Technologies {
			options = append(options, notionapi.Option{Name: tech})
		}
		properties["Technologies"] = notionapi.MultiSelectProperty{MultiSelect: options}
	}
	if record.Status != "" {
		properties["Status"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: record.Status},
		}
	}

	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       "database_id",
			DatabaseID: c.databaseID,
		},
		Properties: properties,
	}
	if record.FullDescription != "" {
		req.Children = textToBlocks(record.FullDescription)
	}

	if _, err := c.pages.Create(ctx, req); err != nil {
		return wrapNotionError(err)
	}
	return nil
}

func wrapNotionError(err error) error {
	if notionErr, ok := err.(*notionapi.Error); ok {
		return errs.NewSourceAPIError("notion", notionErr.Status, notionErr.Message)
	}
	return fmt.Errorf("notion request failed: %w", err)
}
