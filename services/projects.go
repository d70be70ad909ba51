package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/models"
	"github.com/rpupo63/portfolio-sync-backend/notion"
)

// ProjectService serves the live read path: published rows proxied straight
// from the source database.
type ProjectService struct {
	notion *notion.Client
	opts   SyncOptions
	logger zerolog.Logger
}

func NewProjectService(notionClient *notion.Client, opts SyncOptions) *ProjectService {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	return &ProjectService{
		notion: notionClient,
		opts:   opts,
		logger: log.With().Str("service", "projects").Logger(),
	}
}

// List returns the published projects in Date-descending order, in the lite
// listing shape. Page content blocks are not fetched for listings.
func (s *ProjectService) List(ctx context.Context) ([]models.ProjectSummary, error) {
	pages, err := s.notion.QueryAll(ctx, notion.QueryOptions{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	summaries := make([]models.ProjectSummary, 0, len(pages))
	for _, page := range pages {
		record := notion.ConvertPage(page, notion.ConvertOptions{
			SyncedAt:         now,
			DefaultDateToNow: s.opts.DefaultDateToNow,
			Version:          s.opts.Version,
		})
		summaries = append(summaries, record.Summary())
	}
	return summaries, nil
}

// Get returns one project including its flattened full description.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.ProjectRecord, error) {
	pages, err := s.notion.QueryAll(ctx, notion.QueryOptions{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, page := range pages {
		if models.ProjectID(string(page.ID)) != id {
			continue
		}

		record := notion.ConvertPage(page, notion.ConvertOptions{
			SyncedAt:         now,
			IncludeGallery:   true,
			DefaultDateToNow: s.opts.DefaultDateToNow,
			Version:          s.opts.Version,
		})
		blocks, err := s.notion.GetPageBlocks(ctx, string(page.ID))
		if err != nil {
			return nil, err
		}
		record.FullDescription = notion.ConvertBlocksToText(blocks)
		return &record, nil
	}

	return nil, errs.NewNotFound("project")
}

// PropertyKeys exposes the source schema for the debug surface.
func (s *ProjectService) PropertyKeys(ctx context.Context) ([]string, error) {
	return s.notion.PropertyKeys(ctx)
}
