package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/services"
)

type emailHandler struct {
	responder Responder
	logger    zerolog.Logger
	email     *services.EmailService
}

func newEmailHandler(email *services.EmailService) emailHandler {
	logger := log.With().Str("handlerName", "emailHandler").Logger()

	return emailHandler{
		responder: NewResponder(logger),
		logger:    logger,
		email:     email,
	}
}

// sendEmail forwards a contact-form submission.
func (h emailHandler) sendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg services.ContactMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if strings.TrimSpace(msg.Email) == "" || !strings.Contains(msg.Email, "@") {
			badEmail := errs.NewBadRequestError("a valid email address is required")
			badEmail.Field = "email"
			h.responder.WriteError(w, badEmail)
			return
		}
		if strings.TrimSpace(msg.Message) == "" {
			badMessage := errs.NewBadRequestError("message is required")
			badMessage.Field = "message"
			h.responder.WriteError(w, badMessage)
			return
		}

		if err := h.email.SendContactMessage(r.Context(), msg); err != nil {
			h.logger.Error().Err(err).Msg("Failed to forward contact message")
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "message sent",
		})
	}
}
