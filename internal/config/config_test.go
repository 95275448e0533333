package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "mock", cfg.PaymentProvider)
	assert.Equal(t, "mock", cfg.EmailSender)
	assert.False(t, cfg.ReceiptDedupEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoadStripeRequiresSecrets(t *testing.T) {
	t.Setenv("PAYMENT_PROVIDER", "stripe")
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadStripeConfigured(t *testing.T) {
	t.Setenv("PAYMENT_PROVIDER", "stripe")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "stripe", cfg.PaymentProvider)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("PAYMENT_PROVIDER", "paypal")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadResendRequiresKey(t *testing.T) {
	t.Setenv("EMAIL_SENDER", "resend")

	_, err := Load()
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg, err := Load()
	require.NoError(t, err)

	pg := cfg.Postgres()
	assert.Contains(t, pg.DSN(), "db.internal:5433")
	assert.Contains(t, pg.DSN(), "sslmode=disable")
}
