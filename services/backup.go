package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/database"
	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/github"
	"github.com/rpupo63/portfolio-sync-backend/models"
	"github.com/rpupo63/portfolio-sync-backend/notion"
)

// BackupService builds full-content backup blobs from the source database,
// writes them to GitHub, and restores them back into Notion.
type BackupService struct {
	notion *notion.Client
	github *github.Client
	store  *database.Database
	opts   SyncOptions
	logger zerolog.Logger
}

func NewBackupService(notionClient *notion.Client, githubClient *github.Client, store *database.Database, opts SyncOptions) *BackupService {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	return &BackupService{
		notion: notionClient,
		github: githubClient,
		store:  store,
		opts:   opts,
		logger: log.With().Str("service", "backup").Logger(),
	}
}

// BuildBackup assembles the backup blob. includeProjects false yields an
// empty but still valid blob; includeImages controls gallery resolution.
func (s *BackupService) BuildBackup(ctx context.Context, includeProjects, includeImages bool) (*models.BackupBlob, error) {
	timestamp := time.Now().UTC()
	blob := &models.BackupBlob{
		Projects:  []models.BackupProject{},
		Timestamp: timestamp,
		Metadata: models.BackupMetadata{
			Version:    s.opts.Version,
			Source:     "notion",
			BackupType: "full",
		},
	}
	if !includeProjects {
		return blob, nil
	}

	pages, err := s.notion.QueryAll(ctx, notion.QueryOptions{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		record := notion.ConvertPage(page, notion.ConvertOptions{
			SyncedAt:         timestamp,
			IncludeGallery:   includeImages,
			DefaultDateToNow: s.opts.DefaultDateToNow,
			Version:          s.opts.Version,
		})
		blocks, err := s.notion.GetPageBlocks(ctx, string(page.ID))
		if err != nil {
			s.logger.Error().Err(err).Str("project", record.ID).Msg("Failed to fetch page content for backup")
			continue
		}
		record.FullDescription = notion.ConvertBlocksToText(blocks)

		blob.Projects = append(blob.Projects, models.BackupProject{
			ProjectRecord: record,
			Tags:          record.Technologies,
		})
	}
	blob.Count = len(blob.Projects)
	return blob, nil
}

// CreateBackup builds a full backup and writes it to the repository under
// data/backups/. The bookkeeping row is appended even when the write fails
// so the history shows the attempt.
func (s *BackupService) CreateBackup(ctx context.Context, includeImages bool) (*models.BackupResult, error) {
	blob, err := s.BuildBackup(ctx, true, includeImages)
	if err != nil {
		return nil, err
	}

	content, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to encode backup", err)
	}

	path := fmt.Sprintf("data/backups/full-backup-%d.json", blob.Timestamp.UnixMilli())
	updated := false
	if s.github.Configured() {
		updated = s.github.UpdateFile(ctx, path, content, fmt.Sprintf("backup: %d projects", blob.Count))
	}

	result := &models.BackupResult{
		Timestamp:     blob.Timestamp,
		Count:         blob.Count,
		Path:          path,
		GithubUpdated: updated,
	}
	s.recordBackup(ctx, "github", path, blob)
	return result, nil
}

// ValidateBackup checks a raw blob for the minimum restorable shape without
// decoding it into the typed struct, so malformed project entries are
// rejected rather than silently zeroed.
func (s *BackupService) ValidateBackup(raw []byte) bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}

	projectsRaw, ok := doc["projects"]
	if !ok {
		return false
	}
	var projects []map[string]json.RawMessage
	if err := json.Unmarshal(projectsRaw, &projects); err != nil {
		return false
	}

	timestampRaw, ok := doc["timestamp"]
	if !ok {
		return false
	}
	var timestamp string
	if err := json.Unmarshal(timestampRaw, &timestamp); err != nil || timestamp == "" {
		return false
	}

	metadataRaw, ok := doc["metadata"]
	if !ok {
		return false
	}
	var metadata map[string]json.RawMessage
	if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
		return false
	}

	for _, project := range projects {
		var id, title string
		if err := json.Unmarshal(project["id"], &id); err != nil || id == "" {
			return false
		}
		if err := json.Unmarshal(project["title"], &title); err != nil || title == "" {
			return false
		}
		var tags []string
		if err := json.Unmarshal(project["tags"], &tags); err != nil {
			return false
		}
	}
	return true
}

// Restore recreates each backed-up project as a new Notion page. Failures
// are per-project; one bad page does not stop the rest.
func (s *BackupService) Restore(ctx context.Context, raw []byte) (*models.RestoreResult, error) {
	if !s.ValidateBackup(raw) {
		return nil, errs.NewInvalidBackupError("backup blob failed validation")
	}

	var blob models.BackupBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, errs.NewInvalidBackupError(err.Error())
	}

	return s.RestoreBlob(ctx, &blob)
}

// RestoreBlob restores an already-decoded blob, used by the Drive path
// where download and decode happen in the adapter.
func (s *BackupService) RestoreBlob(ctx context.Context, blob *models.BackupBlob) (*models.RestoreResult, error) {
	result := &models.RestoreResult{Restored: []string{}}
	for _, project := range blob.Projects {
		if err := s.notion.CreateProjectPage(ctx, project.ProjectRecord); err != nil {
			s.logger.Error().Err(err).Str("project", project.ID).Msg("Failed to restore project")
			result.Failed = append(result.Failed, models.SyncFailure{ID: project.ID, Reason: err.Error()})
			continue
		}
		result.Restored = append(result.Restored, project.ID)
	}
	return result, nil
}

// History returns the recorded backup attempts, newest first.
func (s *BackupService) History(ctx context.Context, limit int) ([]models.BackupRecordRow, error) {
	if s.store == nil {
		return []models.BackupRecordRow{}, nil
	}
	return s.store.BackupRecordRepo().FindAll(ctx, limit)
}

// RecordDriveBackup appends a bookkeeping row for a backup stored on Drive.
func (s *BackupService) RecordDriveBackup(ctx context.Context, path string, blob *models.BackupBlob) {
	s.recordBackup(ctx, "drive", path, blob)
}

func (s *BackupService) recordBackup(ctx context.Context, location, path string, blob *models.BackupBlob) {
	if s.store == nil {
		return
	}

	payload, err := json.Marshal(blob.Metadata)
	if err != nil {
		payload = nil
	}
	row := models.BackupRecordRow{
		Key:      fmt.Sprintf("backup:%s:%d", location, blob.Timestamp.UnixMilli()),
		Location: location,
		Path:     path,
		Count:    blob.Count,
		Payload:  payload,
	}
	if err := s.store.BackupRecordRepo().Add(ctx, &row); err != nil {
		s.logger.Error().Err(err).Msg("Failed to record backup")
	}
}
