package models

import "time"

// BackupProject is a ProjectRecord as stored inside a backup blob. Tags
// duplicates Technologies so the written shape matches what the restore
// validator checks.
type BackupProject struct {
	ProjectRecord
	Tags []string `json:"tags"`
}

type BackupMetadata struct {
	Version    string `json:"version"`
	Source     string `json:"source"`
	BackupType string `json:"backup_type"`
}

// BackupBlob is the on-demand backup artifact written to GitHub or Drive.
type BackupBlob struct {
	Projects  []BackupProject `json:"projects"`
	Timestamp time.Time       `json:"timestamp"`
	Count     int             `json:"count"`
	Metadata  BackupMetadata  `json:"metadata"`
}

// BackupResult summarizes one backup pass.
type BackupResult struct {
	Timestamp     time.Time `json:"timestamp"`
	Count         int       `json:"count"`
	Path          string    `json:"path,omitempty"`
	GithubUpdated bool      `json:"githubUpdated"`
}

// RestoreResult reports the per-project outcome of a restore pass.
type RestoreResult struct {
	Restored []string      `json:"restored"`
	Failed   []SyncFailure `json:"failed,omitempty"`
}
