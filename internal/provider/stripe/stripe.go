// Package stripe implements the payment provider against the Stripe
// hosted-checkout API.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	stripego "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"

	"github.com/arvelin/storefront/internal/provider"
	apperrors "github.com/arvelin/storefront/pkg/errors"
)

// Config holds Stripe credentials.
type Config struct {
	SecretKey     string
	WebhookSecret string
}

// Provider implements provider.Provider using the Stripe SDK.
type Provider struct {
	webhookSecret string
}

// New configures the Stripe SDK and returns the provider.
func New(cfg Config) *Provider {
	stripego.Key = cfg.SecretKey
	return &Provider{webhookSecret: cfg.WebhookSecret}
}

// Name identifies the provider.
func (p *Provider) Name() string { return "stripe" }

// CreateCheckoutSession opens a hosted Stripe Checkout session in payment mode.
func (p *Provider) CreateCheckoutSession(ctx context.Context, input *provider.CheckoutInput) (*provider.CheckoutSession, error) {
	items := make([]*stripego.CheckoutSessionLineItemParams, 0, len(input.LineItems))
	for _, li := range input.LineItems {
		item := &stripego.CheckoutSessionLineItemParams{
			Price:    stripego.String(li.PriceID),
			Quantity: stripego.Int64(li.Quantity),
		}
		if li.LockQuantity {
			item.AdjustableQuantity = &stripego.CheckoutSessionLineItemAdjustableQuantityParams{
				Enabled: stripego.Bool(false),
			}
		}
		items = append(items, item)
	}

	params := &stripego.CheckoutSessionParams{
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		SuccessURL:         stripego.String(input.SuccessURL),
		CancelURL:          stripego.String(input.CancelURL),
		LineItems:          items,
	}
	params.Context = ctx
	for k, v := range input.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}

	return &provider.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ConstructEvent verifies the Stripe-Signature header over the raw payload
// and decodes the session metadata out of the event object.
func (p *Provider) ConstructEvent(payload []byte, sigHeader string) (*provider.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return nil, apperrors.InvalidSignature(err)
	}

	var object struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	if len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
			return nil, fmt.Errorf("decode event object: %w", err)
		}
	}

	return &provider.Event{
		ID:        event.ID,
		Type:      string(event.Type),
		SessionID: object.ID,
		Metadata:  object.Metadata,
	}, nil
}
