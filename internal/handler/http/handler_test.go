package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arvelin/storefront/internal/domain"
	"github.com/arvelin/storefront/internal/event"
	"github.com/arvelin/storefront/internal/provider"
	providermock "github.com/arvelin/storefront/internal/provider/mock"
	"github.com/arvelin/storefront/internal/receiptlog"
	sendermock "github.com/arvelin/storefront/internal/sender/mock"
	"github.com/arvelin/storefront/internal/service"
	"github.com/arvelin/storefront/pkg/httputil"
	pkgkafka "github.com/arvelin/storefront/pkg/kafka"
)

// --- Mock Repositories ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) MarkPaid(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockCheckoutProvider struct {
	mock.Mock
}

func (m *mockCheckoutProvider) Name() string { return "test" }

func (m *mockCheckoutProvider) CreateCheckoutSession(ctx context.Context, input *provider.CheckoutInput) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

func (m *mockCheckoutProvider) ConstructEvent(payload []byte, sigHeader string) (*provider.Event, error) {
	args := m.Called(payload, sigHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Event), args.Error(1)
}

// stubPublisher drops every event, standing in for a Kafka broker.
type stubPublisher struct{}

func (stubPublisher) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// --- Test Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	return event.NewProducer(stubPublisher{}, testLogger())
}

type checkoutFixture struct {
	orders   *mockOrderRepository
	products *mockProductRepository
	provider *mockCheckoutProvider
	router   *chi.Mux
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		orders:   new(mockOrderRepository),
		products: new(mockProductRepository),
		provider: new(mockCheckoutProvider),
	}
	svc := service.NewCheckoutService(
		f.orders, f.products, f.provider, testEventProducer(),
		service.CheckoutConfig{FrontendURL: "https://shop.example.com", FeePriceID: "price_fee"},
		testLogger(),
	)
	handler := NewCheckoutHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(ActorFromHeaders)
		r.Post("/checkout/session", handler.CreateSession)
		r.Get("/orders/{id}/status", handler.OrderStatus)
	})
	f.router = r
	return f
}

type webhookFixture struct {
	orders   *mockOrderRepository
	users    *mockUserRepository
	provider *providermock.Provider
	sender   *sendermock.Sender
	router   *chi.Mux
}

// newWebhookFixture wires the webhook route against the HMAC mock provider,
// so tests exercise real signature verification end to end.
func newWebhookFixture(secret string) *webhookFixture {
	f := &webhookFixture{
		orders:   new(mockOrderRepository),
		users:    new(mockUserRepository),
		provider: providermock.New(secret),
		sender:   sendermock.New(testLogger()),
	}
	svc := service.NewWebhookService(
		f.orders, f.users, f.provider, f.sender, receiptlog.NoopLog{}, testEventProducer(),
		service.WebhookConfig{ReceiptFrom: "receipts@storefront.dev"},
		testLogger(),
	)
	handler := NewWebhookHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Post("/api/v1/webhooks/payment", handler.HandlePaymentEvent)
	f.router = r
	return f
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}
