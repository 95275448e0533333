// Package resend delivers email through the Resend HTTP API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/arvelin/storefront/internal/sender"
	apperrors "github.com/arvelin/storefront/pkg/errors"
	"github.com/arvelin/storefront/pkg/httpclient"
)

const defaultBaseURL = "https://api.resend.com"

// Config holds Resend API settings.
type Config struct {
	APIKey  string
	BaseURL string
}

// Sender implements sender.Sender against the Resend API. Outbound calls go
// through a circuit breaker so a degraded email API cannot pile up requests.
type Sender struct {
	client  *httpclient.CircuitBreakerClient
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// New creates a Resend-backed sender.
func New(cfg Config, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *Sender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Sender{
		client:  client,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Name returns the name of this sender.
func (s *Sender) Name() string { return "resend" }

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts the email to the Resend API. Any delivery failure is wrapped as
// a notification error so callers can map it to the right response code.
func (s *Sender) Send(ctx context.Context, email *sender.Email) error {
	body, err := json.Marshal(sendRequest{
		From:    email.From,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return apperrors.NotificationFailed(fmt.Errorf("resend: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperrors.NotificationFailed(fmt.Errorf("resend: status %d: %s", resp.StatusCode, detail))
	}

	s.logger.DebugContext(ctx, "receipt email delivered",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
	)

	return nil
}
