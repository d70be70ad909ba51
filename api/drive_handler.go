package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/drive"
	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/services"
)

type driveHandler struct {
	responder Responder
	logger    zerolog.Logger
	drive     *drive.Adapter
	backup    *services.BackupService
}

func newDriveHandler(driveAdapter *drive.Adapter, backup *services.BackupService) driveHandler {
	logger := log.With().Str("handlerName", "driveHandler").Logger()

	return driveHandler{
		responder: NewResponder(logger),
		logger:    logger,
		drive:     driveAdapter,
		backup:    backup,
	}
}

func (h driveHandler) requireConfigured(w http.ResponseWriter) bool {
	if h.drive.Configured() {
		return true
	}
	h.responder.WriteError(w, errs.NewBadRequestError("drive is not configured"))
	return false
}

// getAuthURL starts the authorization flow.
func (h driveHandler) getAuthURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireConfigured(w) {
			return
		}
		state := uuid.NewString()
		h.responder.WriteJSON(w, map[string]string{
			"url":   h.drive.AuthURL(state),
			"state": state,
		})
	}
}

// exchangeCode trades the authorization code for a stored token.
func (h driveHandler) exchangeCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireConfigured(w) {
			return
		}

		var req driveExchangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing authorization code"))
			return
		}

		if !h.drive.Exchange(r.Context(), req.Code) {
			h.responder.WriteError(w, errs.NewAuthError("exchange", nil))
			return
		}
		h.responder.WriteJSON(w, map[string]bool{"authenticated": true})
	}
}

// runBackup uploads a fresh full backup to the backup folder.
func (h driveHandler) runBackup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireConfigured(w) {
			return
		}

		var req backupRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blob, err := h.backup.BuildBackup(r.Context(), true, req.IncludeImages)
		if err != nil {
			h.logger.Error().Err(err).Msg("Backup build failed")
			h.responder.WriteFailure(w, http.StatusBadGateway, "backup failed", err.Error())
			return
		}

		content, err := json.MarshalIndent(blob, "", "  ")
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to encode backup", err))
			return
		}

		file, err := h.drive.SaveBackup(r.Context(), content, blob.Timestamp)
		if err != nil {
			h.logger.Error().Err(err).Msg("Drive upload failed")
			h.responder.WriteFailure(w, http.StatusBadGateway, "drive upload failed", err.Error())
			return
		}

		h.backup.RecordDriveBackup(r.Context(), file.Name, blob)
		h.responder.WriteJSON(w, map[string]interface{}{
			"file":  file,
			"count": blob.Count,
		})
	}
}

// listBackups lists the backup artifacts in the backup folder.
func (h driveHandler) listBackups() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireConfigured(w) {
			return
		}

		files, err := h.drive.ListBackups(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"backups": files,
			"total":   len(files),
		})
	}
}

// runRestore downloads one backup file and re-creates its projects.
func (h driveHandler) runRestore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireConfigured(w) {
			return
		}

		var req driveRestoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing fileId"))
			return
		}

		blob, err := h.drive.RestoreBackup(r.Context(), req.FileID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.backup.RestoreBlob(r.Context(), blob)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}
