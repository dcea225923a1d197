package mail

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vendora/internal/config"
	"vendora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvitation() *models.TeamInvitation {
	return &models.TeamInvitation{
		ID:        "inv-1",
		StoreID:   "store-1",
		Email:     "new.hire@example.com",
		Role:      models.RoleEditor,
		InvitedBy: "user-1",
		ExpiresAt: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestHTTPDispatcher_SendInvitation(t *testing.T) {
	var captured sendRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(&config.Config{
		MailAPIURL:    srv.URL,
		MailAPIKey:    "key-123",
		MailFromEmail: "no-reply@vendora.local",
		MailFromName:  "Vendora",
		AppBaseURL:    "https://app.vendora.local",
	}, slog.Default())

	err := d.SendInvitation(context.Background(), testInvitation(), "Acme Outfitters", "Jordan")
	require.NoError(t, err)

	assert.Equal(t, "Bearer key-123", gotAuth)
	require.Len(t, captured.Messages, 1)
	msg := captured.Messages[0]
	assert.Equal(t, "no-reply@vendora.local", msg.From.Email)
	assert.Equal(t, "new.hire@example.com", msg.To[0].Email)
	assert.Contains(t, msg.Subject, "Acme Outfitters")
	assert.Contains(t, msg.TextPart, "Jordan invited you")
	assert.Contains(t, msg.TextPart, "https://app.vendora.local/invitations/inv-1")
}

func TestHTTPDispatcher_SendInvitation_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewHTTPDispatcher(&config.Config{MailAPIURL: srv.URL, MailAPIKey: "k"}, slog.Default())
	err := d.SendInvitation(context.Background(), testInvitation(), "Acme", "Jordan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestLogDispatcher_NeverFails(t *testing.T) {
	d := NewLogDispatcher(slog.Default())
	assert.NoError(t, d.SendInvitation(context.Background(), testInvitation(), "Acme", "Jordan"))
}

func TestNewDispatcher_PicksByConfig(t *testing.T) {
	logger := slog.Default()

	d := NewDispatcher(&config.Config{MailAPIURL: "https://mail.example.com", MailAPIKey: "k"}, logger)
	_, isHTTP := d.(*HTTPDispatcher)
	assert.True(t, isHTTP)

	d = NewDispatcher(&config.Config{}, logger)
	_, isLog := d.(*LogDispatcher)
	assert.True(t, isLog)
}
