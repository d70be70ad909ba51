package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-sync-backend/errs"
)

const resendEndpoint = "https://api.resend.com/emails"

// ContactMessage is a contact-form submission forwarded by email.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ResendEmailRequest is the request payload for the Resend API.
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type ResendEmailResponse struct {
	ID string `json:"id"`
}

type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailConfig carries the Resend credentials and addressing.
type EmailConfig struct {
	APIKey    string
	FromEmail string
	ToEmail   string
	// BaseURL overrides the Resend endpoint, used by tests.
	BaseURL string
}

// EmailService forwards contact-form submissions through the Resend API.
type EmailService struct {
	cfg        EmailConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewEmailService(cfg EmailConfig) *EmailService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = resendEndpoint
	}
	return &EmailService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.With().Str("service", "email").Logger(),
	}
}

func (s *EmailService) Configured() bool {
	return s.cfg.APIKey != "" && s.cfg.FromEmail != "" && s.cfg.ToEmail != ""
}

// SendContactMessage forwards one submission. The visitor's address goes in
// reply_to so replies reach them without us sending from an unverified domain.
func (s *EmailService) SendContactMessage(ctx context.Context, msg ContactMessage) error {
	if !s.Configured() {
		return errs.NewInternalError("email service is not configured")
	}

	subject := msg.Subject
	if subject == "" {
		subject = "Contact form submission"
	}
	payload := ResendEmailRequest{
		From:    s.cfg.FromEmail,
		To:      []string{s.cfg.ToEmail},
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("[Portfolio] %s", subject),
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message),
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewSourceAPIError("resend", resp.StatusCode, errorResp.Message)
		}
		return errs.NewSourceAPIError("resend", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		s.logger.Info().Str("emailId", emailResponse.ID).Msg("Forwarded contact message")
	}
	return nil
}
