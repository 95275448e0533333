// Package provider abstracts the hosted-checkout payment provider so the
// service layer stays independent of any one vendor SDK.
package provider

import "context"

// EventCheckoutCompleted is the only event type the reconciler acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// LineItem is a single entry on a checkout session. LockQuantity prevents
// the customer from adjusting the quantity on the hosted page, used for
// the flat service fee.
type LineItem struct {
	PriceID      string
	Quantity     int64
	LockQuantity bool
}

// CheckoutInput describes the session to create.
type CheckoutInput struct {
	SuccessURL string
	CancelURL  string
	LineItems  []LineItem
	Metadata   map[string]string
}

// CheckoutSession is the provider's handle on a created session.
type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified webhook event. Metadata carries back whatever was
// attached to the session at creation time.
type Event struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Metadata  map[string]string `json:"metadata"`
}

// Provider creates checkout sessions and verifies webhook deliveries.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// CreateCheckoutSession opens a hosted checkout session.
	CreateCheckoutSession(ctx context.Context, input *CheckoutInput) (*CheckoutSession, error)

	// ConstructEvent verifies the signature header against the raw payload
	// and returns the decoded event. Verification failures return
	// errors.ErrInvalidSignature.
	ConstructEvent(payload []byte, sigHeader string) (*Event, error)
}
