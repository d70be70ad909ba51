package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-sync-backend/database"
	"github.com/rpupo63/portfolio-sync-backend/github"
	"github.com/rpupo63/portfolio-sync-backend/models"
	"github.com/rpupo63/portfolio-sync-backend/notion"
)

const defaultFetchLimit = 4

// SyncOptions tunes the orchestrator.
type SyncOptions struct {
	// Version is stamped into every record's metadata.
	Version string
	// DefaultDateToNow preserves the source behavior of fabricating today's
	// date for projects without one.
	DefaultDateToNow bool
	// FetchLimit caps how many Notion content fetches and GitHub writes run
	// in flight at once.
	FetchLimit int
}

// SyncService drives the end-to-end pass: query Notion, convert each page,
// push to GitHub when configured, and append a run record to the history
// store. Per-project failures are isolated and reported, never fatal;
// only a failed source query aborts the run.
type SyncService struct {
	notion *notion.Client
	github *github.Client
	store  *database.Database
	opts   SyncOptions
	logger zerolog.Logger
}

func NewSyncService(notionClient *notion.Client, githubClient *github.Client, store *database.Database, opts SyncOptions) *SyncService {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = defaultFetchLimit
	}
	return &SyncService{
		notion: notionClient,
		github: githubClient,
		store:  store,
		opts:   opts,
		logger: log.With().Str("service", "sync").Logger(),
	}
}

// Sync runs one orchestration pass. force bypasses the unchanged-source
// check; includeImages controls gallery resolution.
func (s *SyncService) Sync(ctx context.Context, force, includeImages bool) (*models.SyncSummary, error) {
	pages, err := s.notion.QueryAll(ctx, notion.QueryOptions{
		PublishedOnly:    true,
		SortByLastEdited: true,
	})
	if err != nil {
		return nil, err
	}

	syncedAt := time.Now().UTC()

	if !force {
		if summary := s.unchangedSummary(ctx, pages); summary != nil {
			s.logger.Info().Msg("Source unchanged since last run, skipping")
			return summary, nil
		}
	}

	records, failures := s.buildRecords(ctx, pages, includeImages, syncedAt)

	briefs := make([]models.SyncProjectBrief, 0, len(records))
	for _, record := range records {
		briefs = append(briefs, models.SyncProjectBrief{
			ID:          record.ID,
			Title:       record.Title,
			LastUpdated: record.Metadata.LastUpdated,
		})
	}

	githubUpdated, failedWrites := s.pushToGithub(ctx, records, briefs, syncedAt)

	summary := &models.SyncSummary{
		ProjectCount:  len(records),
		SyncTimestamp: syncedAt,
		GithubUpdated: githubUpdated,
		Projects:      briefs,
		Failed:        failures,
		FailedWrites:  failedWrites,
	}

	s.recordRun(ctx, summary)
	return summary, nil
}

// unchangedSummary replays the last recorded run when no page has been
// edited since it completed. Returns nil when a fresh pass is needed.
func (s *SyncService) unchangedSummary(ctx context.Context, pages []notionapi.Page) *models.SyncSummary {
	if s.store == nil || len(pages) == 0 {
		return nil
	}
	latest, err := s.store.SyncRunRepo().Latest(ctx)
	if err != nil || latest == nil {
		return nil
	}

	var lastRun models.SyncRun
	if err := json.Unmarshal(latest.Payload, &lastRun); err != nil {
		return nil
	}
	// pages are sorted by last edit descending, so index 0 is the newest
	if pages[0].LastEditedTime.After(lastRun.Timestamp) || lastRun.ProjectCount != len(pages) {
		return nil
	}

	return &models.SyncSummary{
		ProjectCount:  lastRun.ProjectCount,
		SyncTimestamp: lastRun.Timestamp,
		GithubUpdated: false,
		Projects:      lastRun.Projects,
		Skipped:       true,
	}
}

// buildRecords converts pages with a bounded fan-out. A failed content
// fetch drops that project from the output and records the reason.
func (s *SyncService) buildRecords(ctx context.Context, pages []notionapi.Page, includeImages bool, syncedAt time.Time) ([]models.ProjectRecord, []models.SyncFailure) {
	results := make([]*models.ProjectRecord, len(pages))
	var (
		mu       sync.Mutex
		failures []models.SyncFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FetchLimit)
	for i, page := range pages {
		g.Go(func() error {
			record := notion.ConvertPage(page, notion.ConvertOptions{
				SyncedAt:         syncedAt,
				IncludeGallery:   includeImages,
				DefaultDateToNow: s.opts.DefaultDateToNow,
				Version:          s.opts.Version,
			})

			blocks, err := s.notion.GetPageBlocks(gctx, string(page.ID))
			if err != nil {
				s.logger.Error().Err(err).Str("project", record.ID).Msg("Failed to fetch page content")
				mu.Lock()
				failures = append(failures, models.SyncFailure{ID: record.ID, Reason: err.Error()})
				mu.Unlock()
				return nil
			}

			record.FullDescription = notion.ConvertBlocksToText(blocks)
			results[i] = &record
			return nil
		})
	}
	g.Wait()

	records := make([]models.ProjectRecord, 0, len(results))
	for _, record := range results {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, failures
}

// pushToGithub writes one file per record plus the aggregate metadata
// document. Writes settle individually: a failed file is reported, the rest
// still land, and the aggregate boolean is true only when everything wrote.
func (s *SyncService) pushToGithub(ctx context.Context, records []models.ProjectRecord, briefs []models.SyncProjectBrief, syncedAt time.Time) (bool, []models.SyncFailure) {
	if !s.github.Configured() {
		return false, nil
	}

	var (
		mu     sync.Mutex
		failed []models.SyncFailure
	)

	var g errgroup.Group
	g.SetLimit(s.opts.FetchLimit)
	for _, record := range records {
		g.Go(func() error {
			path := fmt.Sprintf("data/projects/%s.json", record.ID)
			content, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				mu.Lock()
				failed = append(failed, models.SyncFailure{ID: record.ID, Reason: err.Error()})
				mu.Unlock()
				return nil
			}
			message := fmt.Sprintf("sync: update %s", record.ID)
			if !s.github.UpdateFile(ctx, path, content, message) {
				mu.Lock()
				failed = append(failed, models.SyncFailure{ID: record.ID, Reason: "github write failed"})
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	metadata := models.SiteMetadata{
		ProjectCount: len(records),
		LastSync:     syncedAt,
		Version:      s.opts.Version,
		Projects:     briefs,
	}
	content, err := json.MarshalIndent(metadata, "", "  ")
	if err == nil {
		if !s.github.UpdateFile(ctx, "data/metadata.json", content, "sync: update metadata") {
			failed = append(failed, models.SyncFailure{ID: "metadata", Reason: "github write failed"})
		}
	} else {
		failed = append(failed, models.SyncFailure{ID: "metadata", Reason: err.Error()})
	}

	return len(failed) == 0, failed
}

// recordRun appends the pass to the history store. Best effort: a failed
// append is logged, not surfaced, since the sync itself already completed.
func (s *SyncService) recordRun(ctx context.Context, summary *models.SyncSummary) {
	if s.store == nil {
		return
	}

	run := models.SyncRun{
		Timestamp:     summary.SyncTimestamp,
		ProjectCount:  summary.ProjectCount,
		GithubUpdated: summary.GithubUpdated,
		Projects:      summary.Projects,
	}
	payload, err := json.Marshal(run)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal sync run")
		return
	}

	row := models.SyncRunRow{
		Key:     fmt.Sprintf("sync:%d", summary.SyncTimestamp.UnixMilli()),
		Payload: payload,
	}
	if err := s.store.SyncRunRepo().Add(ctx, &row); err != nil {
		s.logger.Error().Err(err).Msg("Failed to record sync run")
	}
}

// LastRun returns the most recent recorded pass, or nil without a store.
func (s *SyncService) LastRun(ctx context.Context) (*models.SyncRun, error) {
	if s.store == nil {
		return nil, nil
	}
	latest, err := s.store.SyncRunRepo().Latest(ctx)
	if err != nil || latest == nil {
		return nil, err
	}
	var run models.SyncRun
	if err := json.Unmarshal(latest.Payload, &run); err != nil {
		return nil, fmt.Errorf("failed to decode sync run: %w", err)
	}
	return &run, nil
}
