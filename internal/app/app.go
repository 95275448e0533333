package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/arvelin/storefront/internal/config"
	"github.com/arvelin/storefront/internal/event"
	handler "github.com/arvelin/storefront/internal/handler/http"
	"github.com/arvelin/storefront/internal/provider"
	providermock "github.com/arvelin/storefront/internal/provider/mock"
	providerstripe "github.com/arvelin/storefront/internal/provider/stripe"
	"github.com/arvelin/storefront/internal/receiptlog"
	"github.com/arvelin/storefront/internal/repository/postgres"
	"github.com/arvelin/storefront/internal/sender"
	sendermock "github.com/arvelin/storefront/internal/sender/mock"
	senderresend "github.com/arvelin/storefront/internal/sender/resend"
	"github.com/arvelin/storefront/internal/service"
	"github.com/arvelin/storefront/migrations"
	"github.com/arvelin/storefront/pkg/database"
	"github.com/arvelin/storefront/pkg/health"
	"github.com/arvelin/storefront/pkg/httpclient"
	pkgkafka "github.com/arvelin/storefront/pkg/kafka"
	"github.com/arvelin/storefront/pkg/middleware"
	"github.com/arvelin/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	redis           *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	shutdownTracing func(context.Context) error
}

// NewApp creates the application, initializing every dependency.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pgCfg := cfg.Postgres()
	pgCfg.MaxConns = 25
	pgCfg.MinConns = 5
	pgCfg.MaxConnLifetime = time.Hour
	pgCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Receipt dedup is opt-in; without redis, duplicate webhook deliveries
	// may re-send the receipt.
	var receipts receiptlog.Log = receiptlog.NoopLog{}
	var redisClient *redis.Client
	if cfg.ReceiptDedupEnabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		receipts = receiptlog.NewRedisLog(redisClient, cfg.ReceiptDedupTTL)
		logger.Info("receipt dedup enabled", slog.String("redis", cfg.Redis().Addr()))
	}

	prov := buildProvider(cfg)
	snd := buildSender(cfg, logger)
	logger.Info("payment provider selected", slog.String("provider", prov.Name()))
	logger.Info("email sender selected", slog.String("sender", snd.Name()))

	orderRepo := postgres.NewOrderRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	eventProducer := event.NewProducer(kafkaProducer, logger)

	checkoutService := service.NewCheckoutService(
		orderRepo, productRepo, prov, eventProducer,
		service.CheckoutConfig{FrontendURL: cfg.FrontendURL, FeePriceID: cfg.CheckoutFeePriceID},
		logger,
	)
	webhookService := service.NewWebhookService(
		orderRepo, userRepo, prov, snd, receipts, eventProducer,
		service.WebhookConfig{ReceiptFrom: cfg.ReceiptFrom},
		logger,
	)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return kafkaProducer.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(checkoutService, webhookService, healthHandler, corsCfg, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redis:           redisClient,
		producer:        kafkaProducer,
		httpServer:      httpServer,
		shutdownTracing: shutdownTracing,
	}, nil
}

func buildProvider(cfg *config.Config) provider.Provider {
	if cfg.PaymentProvider == "stripe" {
		return providerstripe.New(providerstripe.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
		})
	}
	return providermock.New(cfg.MockProviderSecret)
}

func buildSender(cfg *config.Config, logger *slog.Logger) sender.Sender {
	if cfg.EmailSender == "resend" {
		client := httpclient.New(httpclient.DefaultConfig())
		cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("resend"), logger)
		return senderresend.New(senderresend.Config{APIKey: cfg.ResendAPIKey}, cb, logger)
	}
	return sendermock.New(logger)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	if err := a.shutdownTracing(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
