// Package dataservice is the read client used by the site frontend's
// server-side code: it prefers the static JSON committed to the deploy
// branch and falls back to the live API when the static copy is missing
// or stale.
package dataservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/models"
)

// Client reads project data static-first with an API fallback.
type Client struct {
	staticBaseURL string
	apiBaseURL    string
	httpClient    *http.Client
	logger        zerolog.Logger
}

func New(staticBaseURL, apiBaseURL string) *Client {
	return &Client{
		staticBaseURL: strings.TrimRight(staticBaseURL, "/"),
		apiBaseURL:    strings.TrimRight(apiBaseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        log.With().Str("service", "dataservice").Logger(),
	}
}

// GetProjects returns the project listing. Static data wins; the API is
// only consulted when the static copy is missing. When neither source can
// serve, the caller gets ErrDataUnavailable rather than an empty list, so
// "no projects exist" and "nothing could be read" stay distinguishable.
func (c *Client) GetProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	var static []models.ProjectSummary
	if err := c.fetchJSON(ctx, c.staticBaseURL+"/data/projects.json", &static); err == nil {
		return static, nil
	} else {
		c.logger.Debug().Err(err).Msg("Static projects unavailable, trying API")
	}

	// Static metadata saying zero projects means the empty listing is the
	// truth, not a gap worth an API round trip.
	if metadata, err := c.GetMetadata(ctx); err == nil && metadata.ProjectCount == 0 {
		return []models.ProjectSummary{}, nil
	}

	var live []models.ProjectSummary
	if err := c.fetchJSON(ctx, c.apiBaseURL+"/api/projects", &live); err == nil {
		return live, nil
	}
	return nil, errs.NewDataUnavailableError("projects")
}

// GetProject returns one full project record, static-first.
func (c *Client) GetProject(ctx context.Context, id string) (*models.ProjectRecord, error) {
	var static models.ProjectRecord
	url := fmt.Sprintf("%s/data/projects/%s.json", c.staticBaseURL, id)
	if err := c.fetchJSON(ctx, url, &static); err == nil {
		return &static, nil
	} else {
		c.logger.Debug().Err(err).Str("project", id).Msg("Static project unavailable, trying API")
	}

	var live models.ProjectRecord
	url = fmt.Sprintf("%s/api/projects/%s", c.apiBaseURL, id)
	if err := c.fetchJSON(ctx, url, &live); err == nil {
		return &live, nil
	}
	return nil, errs.NewDataUnavailableError("project " + id)
}

// GetMetadata returns the aggregate sync metadata document.
func (c *Client) GetMetadata(ctx context.Context) (*models.SiteMetadata, error) {
	var metadata models.SiteMetadata
	if err := c.fetchJSON(ctx, c.staticBaseURL+"/data/metadata.json", &metadata); err == nil {
		return &metadata, nil
	}
	return nil, errs.NewDataUnavailableError("metadata")
}

func (c *Client) fetchJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errs.NewSourceAPIError("data", resp.StatusCode, "")
	}
	return json.Unmarshal(body, out)
}
