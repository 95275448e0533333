// Package mock is an in-process payment provider for local development and
// tests. Sessions are fabricated, and webhook signatures are a hex-encoded
// HMAC-SHA256 of the raw payload.
package mock

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/arvelin/storefront/internal/provider"
	apperrors "github.com/arvelin/storefront/pkg/errors"
)

// Provider implements provider.Provider without any external calls.
type Provider struct {
	secret []byte
}

// New creates a mock provider signing webhook payloads with secret.
func New(secret string) *Provider {
	return &Provider{secret: []byte(secret)}
}

// Name identifies the provider.
func (p *Provider) Name() string { return "mock" }

// CreateCheckoutSession fabricates a session with a local checkout URL.
func (p *Provider) CreateCheckoutSession(_ context.Context, input *provider.CheckoutInput) (*provider.CheckoutSession, error) {
	if len(input.LineItems) == 0 {
		return nil, fmt.Errorf("mock provider: no line items")
	}
	id := "mock_cs_" + uuid.New().String()
	return &provider.CheckoutSession{
		ID:  id,
		URL: "http://localhost:8080/mock-checkout/" + id,
	}, nil
}

// Sign computes the signature header value for a payload, for use by tests
// and local webhook replays.
func (p *Provider) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// ConstructEvent verifies the HMAC signature and decodes the payload as the
// event itself.
func (p *Provider) ConstructEvent(payload []byte, sigHeader string) (*provider.Event, error) {
	expected, err := hex.DecodeString(sigHeader)
	if err != nil {
		return nil, apperrors.InvalidSignature(fmt.Errorf("malformed signature header"))
	}

	mac := hmac.New(sha256.New, p.secret)
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), expected) {
		return nil, apperrors.InvalidSignature(fmt.Errorf("signature mismatch"))
	}

	var event provider.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode event payload: %w", err)
	}
	return &event, nil
}
