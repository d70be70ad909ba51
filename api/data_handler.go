package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/github"
	"github.com/rpupo63/portfolio-sync-backend/services"
)

type dataHandler struct {
	responder Responder
	logger    zerolog.Logger
	sync      *services.SyncService
	backup    *services.BackupService
	migrate   *services.MigrateService
	github    *github.Client
}

func newDataHandler(sync *services.SyncService, backup *services.BackupService, migrate *services.MigrateService, githubClient *github.Client) dataHandler {
	logger := log.With().Str("handlerName", "dataHandler").Logger()

	return dataHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sync:      sync,
		backup:    backup,
		migrate:   migrate,
		github:    githubClient,
	}
}

// decodeOptionalBody fills req from the body when one is present. An empty
// body means "all defaults", not a client error.
func decodeOptionalBody(r *http.Request, req any) error {
	err := json.NewDecoder(r.Body).Decode(req)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errs.NewBadRequestError("malformed request body")
}

// runSync triggers one orchestration pass.
func (h dataHandler) runSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req syncRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		summary, err := h.sync.Sync(r.Context(), req.Force, req.IncludeImages)
		if err != nil {
			h.logger.Error().Err(err).Msg("Sync failed")
			h.responder.WriteFailure(w, http.StatusBadGateway, "sync failed", err.Error())
			return
		}
		h.responder.WriteJSON(w, summary)
	}
}

// runBackup writes a full backup to the repository.
func (h dataHandler) runBackup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backupRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.backup.CreateBackup(r.Context(), req.IncludeImages)
		if err != nil {
			h.logger.Error().Err(err).Msg("Backup failed")
			h.responder.WriteFailure(w, http.StatusBadGateway, "backup failed", err.Error())
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// runMigrate plans the image migration, executing downloads when asked.
func (h dataHandler) runMigrate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req migrateRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var (
			plan *services.MigrationPlan
			err  error
		)
		if req.DownloadImages {
			plan, err = h.migrate.Run(r.Context(), req.ProjectIDs)
		} else {
			plan, err = h.migrate.Plan(r.Context(), req.ProjectIDs)
		}
		if err != nil {
			h.logger.Error().Err(err).Msg("Image migration failed")
			h.responder.WriteFailure(w, http.StatusBadGateway, "migration failed", err.Error())
			return
		}
		h.responder.WriteJSON(w, plan)
	}
}

// getStatus reports the write-side state: repository head, backup artifacts
// and the last recorded run.
func (h dataHandler) getStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"githubConfigured": h.github.Configured(),
		}

		if h.github.Configured() {
			if branch, err := h.github.GetBranch(r.Context()); err == nil {
				status["branch"] = branch.Name
				status["headSha"] = branch.Commit.SHA
			} else {
				h.logger.Warn().Err(err).Msg("Failed to read branch status")
			}
			if entries, err := h.github.ListDir(r.Context(), "data/backups"); err == nil {
				status["backupCount"] = len(entries)
			}
		}

		if lastRun, err := h.sync.LastRun(r.Context()); err == nil && lastRun != nil {
			status["lastSync"] = lastRun.Timestamp
			status["projectCount"] = lastRun.ProjectCount
		}

		h.responder.WriteJSON(w, status)
	}
}
