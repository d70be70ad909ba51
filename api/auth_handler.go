package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/config"
	"github.com/rpupo63/portfolio-sync-backend/errs"
)

const adminTokenTTL = time.Hour

type authHandler struct {
	responder  Responder
	logger     zerolog.Logger
	adminToken string
	jwtSecret  string
}

func newAuthHandler(cfg map[string]string) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		adminToken: config.GetString(cfg, "ADMIN_TOKEN", ""),
		jwtSecret:  config.GetString(cfg, "ADMIN_JWT_SECRET", ""),
	}
}

// mintToken trades the static admin credential for a short-lived signed
// token, so the static secret stays out of day-to-day requests.
func (h authHandler) mintToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.jwtSecret == "" {
			h.responder.WriteError(w, errs.NewNotFoundError("token minting is not enabled"))
			return
		}

		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing token"))
			return
		}

		if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(req.Token), []byte(h.adminToken)) != 1 {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		now := time.Now()
		claims := jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to sign token", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"token":     signed,
			"expiresIn": int(adminTokenTTL.Seconds()),
		})
	}
}
