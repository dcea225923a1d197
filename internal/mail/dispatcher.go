// Package mail sends transactional email for the application.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"vendora/internal/config"
	"vendora/internal/models"
	"vendora/internal/observability"
)

// Dispatcher delivers invitation email. Delivery is best effort: callers
// never roll back invitation creation when dispatch fails.
type Dispatcher interface {
	SendInvitation(ctx context.Context, inv *models.TeamInvitation, storeName, inviterName string) error
}

// HTTPDispatcher posts messages to a Mailjet-compatible send API.
type HTTPDispatcher struct {
	apiURL     string
	apiKey     string
	fromEmail  string
	fromName   string
	appBaseURL string
	client     *http.Client
	logger     *slog.Logger
}

// NewHTTPDispatcher creates a dispatcher from config.
func NewHTTPDispatcher(cfg *config.Config, logger *slog.Logger) *HTTPDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPDispatcher{
		apiURL:     cfg.MailAPIURL,
		apiKey:     cfg.MailAPIKey,
		fromEmail:  cfg.MailFromEmail,
		fromName:   cfg.MailFromName,
		appBaseURL: cfg.AppBaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type sendRequest struct {
	Messages []message `json:"Messages"`
}

type message struct {
	From     party   `json:"From"`
	To       []party `json:"To"`
	Subject  string  `json:"Subject"`
	TextPart string  `json:"TextPart"`
}

type party struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

// SendInvitation posts a single invitation message. A non-2xx response is
// an error; the caller decides whether that matters.
func (d *HTTPDispatcher) SendInvitation(ctx context.Context, inv *models.TeamInvitation, storeName, inviterName string) error {
	body := sendRequest{
		Messages: []message{{
			From:    party{Email: d.fromEmail, Name: d.fromName},
			To:      []party{{Email: inv.Email}},
			Subject: fmt.Sprintf("You've been invited to join %s", storeName),
			TextPart: fmt.Sprintf(
				"%s invited you to join %s as %s.\n\nAccept the invitation here: %s/invitations/%s\n\nThis invitation expires on %s.",
				inviterName, storeName, inv.Role, d.appBaseURL, inv.ID,
				inv.ExpiresAt.Format("Jan 2, 2006"),
			),
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		observability.InvitationEmails.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.InvitationEmails.WithLabelValues("error").Inc()
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}

	observability.InvitationEmails.WithLabelValues("sent").Inc()
	d.logger.Info("Invitation email sent",
		slog.String("invitation_id", inv.ID),
		slog.String("store_id", inv.StoreID),
	)
	return nil
}

// LogDispatcher writes invitations to the log instead of sending them.
// Used in development and tests.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a log-only dispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) SendInvitation(_ context.Context, inv *models.TeamInvitation, storeName, inviterName string) error {
	observability.InvitationEmails.WithLabelValues("logged").Inc()
	d.logger.Info("Invitation email (log only)",
		slog.String("invitation_id", inv.ID),
		slog.String("email", inv.Email),
		slog.String("store", storeName),
		slog.String("inviter", inviterName),
		slog.String("role", string(inv.Role)),
	)
	return nil
}

// NewDispatcher picks the HTTP dispatcher when a mail API is configured and
// falls back to log-only delivery otherwise.
func NewDispatcher(cfg *config.Config, logger *slog.Logger) Dispatcher {
	if cfg.MailAPIURL != "" && cfg.MailAPIKey != "" {
		return NewHTTPDispatcher(cfg, logger)
	}
	return NewLogDispatcher(logger)
}
