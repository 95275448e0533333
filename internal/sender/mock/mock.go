// Package mock is a sender that logs instead of delivering, for local
// development and tests.
package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/arvelin/storefront/internal/sender"
)

// Sender records every email it is asked to deliver and always succeeds.
type Sender struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []sender.Email
}

// New creates a new mock sender.
func New(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

// Name returns the name of this sender.
func (s *Sender) Name() string { return "mock" }

// Send logs the email and records it for inspection.
func (s *Sender) Send(ctx context.Context, email *sender.Email) error {
	s.mu.Lock()
	s.sent = append(s.sent, *email)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "mock sender: email sent",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
	)
	return nil
}

// Sent returns a copy of every email sent so far.
func (s *Sender) Sent() []sender.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sender.Email(nil), s.sent...)
}
