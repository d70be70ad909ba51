package services

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-sync-backend/models"
	"github.com/rpupo63/portfolio-sync-backend/notion"
)

// ImageDownload pairs one remote image URL with its deterministic local
// path and, after the run, the download outcome.
type ImageDownload struct {
	ProjectID string `json:"projectId"`
	RemoteURL string `json:"remoteUrl"`
	LocalPath string `json:"localPath"`
	Status    string `json:"status,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MigrationPlan lists every image that would move from remote hosting to
// the repository's local paths.
type MigrationPlan struct {
	Timestamp time.Time       `json:"timestamp"`
	Images    []ImageDownload `json:"images"`
	Skipped   []string        `json:"skipped,omitempty"`
}

// MigrateService plans and executes the one-time move of project images
// from expiring remote URLs to stable local paths.
type MigrateService struct {
	notion     *notion.Client
	opts       SyncOptions
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewMigrateService(notionClient *notion.Client, opts SyncOptions) *MigrateService {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = defaultFetchLimit
	}
	return &MigrateService{
		notion:     notionClient,
		opts:       opts,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.With().Str("service", "migrate").Logger(),
	}
}

// Plan pairs every remote image with its target local path. A non-empty
// projectIDs narrows the plan to those projects. Projects whose primary
// image is still the placeholder are skipped, there is nothing real to
// download for them.
func (s *MigrateService) Plan(ctx context.Context, projectIDs []string) (*MigrationPlan, error) {
	pages, err := s.notion.QueryAll(ctx, notion.QueryOptions{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = true
	}

	plan := &MigrationPlan{
		Timestamp: time.Now().UTC(),
		Images:    []ImageDownload{},
	}
	for _, page := range pages {
		record := notion.ConvertPage(page, notion.ConvertOptions{
			SyncedAt:       plan.Timestamp,
			IncludeGallery: true,
			Version:        s.opts.Version,
		})
		if len(wanted) > 0 && !wanted[record.ID] {
			continue
		}
		if record.Images.Primary == notion.PlaceholderImageURL {
			plan.Skipped = append(plan.Skipped, record.ID)
			continue
		}

		local := models.LocalImagePaths(record.ID, len(record.Images.Gallery))
		plan.Images = append(plan.Images, ImageDownload{
			ProjectID: record.ID,
			RemoteURL: record.Images.Primary,
			LocalPath: local.Primary,
		})
		for i, url := range record.Images.Gallery {
			plan.Images = append(plan.Images, ImageDownload{
				ProjectID: record.ID,
				RemoteURL: url,
				LocalPath: local.Gallery[i],
			})
		}
	}
	return plan, nil
}

// Run executes the plan: each remote URL is fetched with a bounded fan-out
// and the outcome recorded per image. Downloads are verification reads, the
// bytes themselves are committed by the deploy pipeline.
func (s *MigrateService) Run(ctx context.Context, projectIDs []string) (*MigrationPlan, error) {
	plan, err := s.Plan(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.FetchLimit)
	for i := range plan.Images {
		g.Go(func() error {
			status, size, err := s.download(gctx, plan.Images[i].RemoteURL)
			mu.Lock()
			plan.Images[i].Status = status
			plan.Images[i].Size = size
			if err != nil {
				plan.Images[i].Error = err.Error()
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return plan, nil
}

func (s *MigrateService) download(ctx context.Context, url string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "error", 0, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Str("url", url).Msg("Image download failed")
		return "error", 0, err
	}
	defer resp.Body.Close()

	size, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return "error", size, err
	}
	if resp.StatusCode != http.StatusOK {
		return "error", size, nil
	}
	return "ok", size, nil
}
