package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/config"
	"github.com/rpupo63/portfolio-sync-backend/services"
)

type debugHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
	config    map[string]string
}

func newDebugHandler(projects *services.ProjectService, cfg map[string]string) debugHandler {
	logger := log.With().Str("handlerName", "debugHandler").Logger()

	return debugHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		config:    cfg,
	}
}

func (h debugHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "portfolio-sync-backend",
		})
	}
}

// debug reports credential presence without exposing the credentials.
func (h debugHandler) debug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := config.GetString(h.config, "NOTION_TOKEN", "")
		databaseID := config.GetString(h.config, "NOTION_DATABASE_ID", "")

		tokenPrefix := ""
		if len(token) >= 4 {
			tokenPrefix = token[:4]
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"hasToken":    token != "",
			"hasDatabase": databaseID != "",
			"tokenLength": len(token),
			"tokenPrefix": tokenPrefix,
			"databaseId":  databaseID,
		})
	}
}

// debugProperties lists the raw property names of the source database, for
// diagnosing mapping problems without reading the source manually.
func (h debugHandler) debugProperties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := h.projects.PropertyKeys(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"properties": keys,
			"total":      len(keys),
		})
	}
}
