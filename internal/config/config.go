package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/arvelin/storefront/pkg/config"
	"github.com/arvelin/storefront/pkg/database"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Frontend
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storefront_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"storefront_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Payment provider: "stripe" or "mock".
	PaymentProvider     string `env:"PAYMENT_PROVIDER" envDefault:"mock"`
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	MockProviderSecret  string `env:"MOCK_PROVIDER_SECRET" envDefault:"dev-webhook-secret"`
	CheckoutFeePriceID  string `env:"CHECKOUT_FEE_PRICE_ID" envDefault:"price_fee_flat"`

	// Email: "resend" or "mock".
	EmailSender  string `env:"EMAIL_SENDER" envDefault:"mock"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	ReceiptFrom  string `env:"RECEIPT_FROM" envDefault:"receipts@storefront.dev"`

	// Receipt dedup (opt-in).
	ReceiptDedupEnabled bool          `env:"RECEIPT_DEDUP_ENABLED" envDefault:"false"`
	ReceiptDedupTTL     time.Duration `env:"RECEIPT_DEDUP_TTL" envDefault:"720h"`
	RedisHost           string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort           int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	RedisDB             int           `env:"REDIS_DB" envDefault:"0"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.PaymentProvider {
	case "stripe":
		if c.StripeSecretKey == "" || c.StripeWebhookSecret == "" {
			return fmt.Errorf("stripe provider requires STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown payment provider: %q", c.PaymentProvider)
	}
	switch c.EmailSender {
	case "resend":
		if c.ResendAPIKey == "" {
			return fmt.Errorf("resend sender requires RESEND_API_KEY")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown email sender: %q", c.EmailSender)
	}
	return nil
}

// Postgres returns the database pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPass,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSL,
	}
}

// Redis returns the redis client configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
