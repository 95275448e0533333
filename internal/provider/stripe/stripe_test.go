package stripe

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80/webhook"

	"github.com/arvelin/storefront/internal/provider"
	apperrors "github.com/arvelin/storefront/pkg/errors"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

func completedEventPayload() []byte {
	return []byte(`{
		"id": "evt_001",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_001",
				"metadata": {"userId": "user-001", "orderId": "order-001"}
			}
		}
	}`)
}

func TestConstructEvent_ValidSignature(t *testing.T) {
	p := New(Config{SecretKey: "sk_test", WebhookSecret: testWebhookSecret})

	payload := completedEventPayload()
	header := signPayload(t, payload, testWebhookSecret)

	event, err := p.ConstructEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, provider.EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_001", event.SessionID)
	assert.Equal(t, "user-001", event.Metadata["userId"])
	assert.Equal(t, "order-001", event.Metadata["orderId"])
}

func TestConstructEvent_WrongSecret(t *testing.T) {
	p := New(Config{SecretKey: "sk_test", WebhookSecret: testWebhookSecret})

	payload := completedEventPayload()
	header := signPayload(t, payload, "whsec_wrong")

	_, err := p.ConstructEvent(payload, header)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}

func TestConstructEvent_TamperedPayload(t *testing.T) {
	p := New(Config{SecretKey: "sk_test", WebhookSecret: testWebhookSecret})

	payload := completedEventPayload()
	header := signPayload(t, payload, testWebhookSecret)
	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-2] = ' '

	_, err := p.ConstructEvent(tampered, header)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}

func TestConstructEvent_MissingHeader(t *testing.T) {
	p := New(Config{SecretKey: "sk_test", WebhookSecret: testWebhookSecret})

	_, err := p.ConstructEvent(completedEventPayload(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}
