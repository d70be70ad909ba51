package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/errs"
)

const defaultBaseURL = "https://api.github.com"

// Client writes JSON artifacts into a repository branch through the GitHub
// contents API. Each file is one independent commit.
type Client struct {
	owner      string
	repo       string
	branch     string
	token      string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Config carries the target repository coordinates and credential.
type Config struct {
	Owner  string
	Repo   string
	Branch string
	Token  string

	// BaseURL overrides the API host, used by tests.
	BaseURL string
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	return &Client{
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		branch:     branch,
		token:      cfg.Token,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.With().Str("adapter", "github").Logger(),
	}
}

// Configured reports whether the client has enough credentials to write.
func (c *Client) Configured() bool {
	return c != nil && c.token != "" && c.owner != "" && c.repo != ""
}

type contentPutRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type contentGetResponse struct {
	SHA string `json:"sha"`
}

// UpdateFile creates or updates one file at path on the configured branch.
// A prior GET resolves the current content SHA; 404 means "new file". The
// PUT carries the SHA only when one was found, which is how the remote API
// distinguishes overwrite from create. Returns true only on a 2xx response;
// every failure is swallowed to false at this layer and left to the caller.
func (c *Client) UpdateFile(ctx context.Context, path string, content []byte, message string) bool {
	sha, err := c.fileSHA(ctx, path)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Failed to read current file SHA")
		return false
	}

	payload := contentPutRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.branch,
		SHA:     sha,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Failed to marshal content payload")
		return false
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Failed to create contents request")
		return false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Failed to send contents request")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("body", string(respBody)).
			Msg("Contents API rejected file write")
		return false
	}

	return true
}

// fileSHA returns the current content SHA at path on the branch. A 404 means
// the file does not exist yet and yields an empty SHA, not an error.
func (c *Client) fileSHA(ctx context.Context, path string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", c.baseURL, c.owner, c.repo, path, c.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create contents request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to read file contents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read contents response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errs.NewSourceAPIError("github", resp.StatusCode, string(body))
	}

	var content contentGetResponse
	if err := json.Unmarshal(body, &content); err != nil {
		return "", fmt.Errorf("failed to parse contents response: %w", err)
	}
	return content.SHA, nil
}

// BranchStatus is the subset of the branches API used on the status surface.
type BranchStatus struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
		URL string `json:"url"`
	} `json:"commit"`
}

// GetBranch reads the configured branch's head, for status reporting.
func (c *Client) GetBranch(ctx context.Context) (*BranchStatus, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/branches/%s", c.baseURL, c.owner, c.repo, c.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create branch request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read branch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read branch response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.NewSourceAPIError("github", resp.StatusCode, string(body))
	}

	var status BranchStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse branch response: %w", err)
	}
	return &status, nil
}

// DirEntry is one item from a contents directory listing.
type DirEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// ListDir lists a directory on the branch. A 404 means the directory does
// not exist yet and yields an empty listing, matching how fileSHA treats a
// missing file.
func (c *Client) ListDir(ctx context.Context, path string) ([]DirEntry, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", c.baseURL, c.owner, c.repo, path, c.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create contents request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []DirEntry{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read contents response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.NewSourceAPIError("github", resp.StatusCode, string(body))
	}

	var entries []DirEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse contents response: %w", err)
	}
	return entries, nil
}

// Branch returns the branch the client writes to.
func (c *Client) Branch() string {
	return c.branch
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "portfolio-sync-backend")
}
