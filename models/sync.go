package models

import "time"

// SyncProjectBrief is the per-project line item recorded with each sync run.
type SyncProjectBrief struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// SyncFailure names an item that was dropped from a run, with the reason.
type SyncFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// SyncSummary is the result of one orchestration pass. Per-project failures
// and per-file write failures are reported explicitly instead of being
// silently dropped.
type SyncSummary struct {
	ProjectCount  int                `json:"projectCount"`
	SyncTimestamp time.Time          `json:"syncTimestamp"`
	GithubUpdated bool               `json:"githubUpdated"`
	Projects      []SyncProjectBrief `json:"projects"`
	Failed        []SyncFailure      `json:"failed,omitempty"`
	FailedWrites  []SyncFailure      `json:"failedWrites,omitempty"`
	Skipped       bool               `json:"skipped,omitempty"`
}

// SyncRun is the immutable record of one completed pass, appended to the
// history store and never mutated afterwards.
type SyncRun struct {
	Timestamp     time.Time          `json:"timestamp"`
	ProjectCount  int                `json:"projectCount"`
	GithubUpdated bool               `json:"githubUpdated"`
	Projects      []SyncProjectBrief `json:"projects"`
}

// SiteMetadata is the aggregate document written alongside the per-project
// files (data/metadata.json) and served to the client data service.
type SiteMetadata struct {
	ProjectCount int                `json:"projectCount"`
	LastSync     time.Time          `json:"lastSync"`
	Version      string             `json:"version"`
	Projects     []SyncProjectBrief `json:"projects"`
}
