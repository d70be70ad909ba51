package api

import (
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/services"
)

type notionHandler struct {
	responder Responder
	logger    zerolog.Logger
	sync      *services.SyncService
	backup    *services.BackupService
}

func newNotionHandler(sync *services.SyncService, backup *services.BackupService) notionHandler {
	logger := log.With().Str("handlerName", "notionHandler").Logger()

	return notionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sync:      sync,
		backup:    backup,
	}
}

// runSync mirrors the data sync trigger under the source-centric route.
func (h notionHandler) runSync() http.HandlerFunc {
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

// runBackup creates a full backup of the source database.
func (h notionHandler) runBackup() http.HandlerFunc {
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

// getBackupHistory lists recorded backup attempts, newest first.
func (h notionHandler) getBackupHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.backup.History(r.Context(), 50)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to read backup history", err))
			return
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"backups": rows,
			"total":   len(rows),
		})
	}
}

// runRestore validates the posted blob and re-creates its projects as new
// source pages.
func (h notionHandler) runRestore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		result, err := h.backup.Restore(r.Context(), raw)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}
