package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arvelin/storefront/internal/domain"
	"github.com/arvelin/storefront/internal/event"
	"github.com/arvelin/storefront/internal/policy"
	"github.com/arvelin/storefront/internal/provider"
	"github.com/arvelin/storefront/internal/repository"
	apperrors "github.com/arvelin/storefront/pkg/errors"
)

// Session creation outcomes. A session is either open at the provider or
// the provider was unreachable; in both cases the unpaid order exists.
const (
	SessionStatusCreated             = "created"
	SessionStatusProviderUnavailable = "provider_unavailable"
)

// CheckoutConfig holds checkout-specific settings.
type CheckoutConfig struct {
	// FrontendURL is the storefront base URL for success/cancel redirects.
	FrontendURL string

	// FeePriceID is the provider price for the flat transaction fee added
	// to every session.
	FeePriceID string
}

// CheckoutService opens checkout sessions and answers order status polls.
type CheckoutService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	provider provider.Provider
	producer *event.Producer
	cfg      CheckoutConfig
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	prov provider.Provider,
	producer *event.Producer,
	cfg CheckoutConfig,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		products: products,
		provider: prov,
		producer: producer,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateSessionInput holds the parameters for opening a checkout session.
type CreateSessionInput struct {
	UserID     string
	ProductIDs []string
}

// SessionResult is the outcome of CreateSession. URL is only set when
// Status is SessionStatusCreated.
type SessionResult struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	URL     string `json:"url,omitempty"`
}

// CreateSession resolves the cart, creates an unpaid order, and opens a
// hosted checkout session for it. The order is created before the provider
// call and survives provider failure: the caller gets an explicit
// provider_unavailable result instead of an error, and can retry checkout
// later without losing the order.
func (s *CheckoutService) CreateSession(ctx context.Context, input CreateSessionInput) (*SessionResult, error) {
	if input.UserID == "" {
		return nil, apperrors.Unauthorized("missing caller identity")
	}
	if len(input.ProductIDs) == 0 {
		return nil, apperrors.InvalidInput("product_ids must not be empty")
	}

	products, err := s.products.ListByIDs(ctx, input.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	priced := domain.FilterPriced(products)

	now := time.Now().UTC()
	order := &domain.Order{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		IsPaid:    false,
		Products:  priced,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Event publishing never fails the operation.
	}

	items := make([]provider.LineItem, 0, len(priced)+1)
	for _, p := range priced {
		items = append(items, provider.LineItem{PriceID: p.PriceID, Quantity: 1})
	}
	items = append(items, provider.LineItem{
		PriceID:      s.cfg.FeePriceID,
		Quantity:     1,
		LockQuantity: true,
	})

	sess, err := s.provider.CreateCheckoutSession(ctx, &provider.CheckoutInput{
		SuccessURL: fmt.Sprintf("%s/thank-you?orderId=%s", s.cfg.FrontendURL, order.ID),
		CancelURL:  s.cfg.FrontendURL + "/cart",
		LineItems:  items,
		Metadata: map[string]string{
			"userId":  input.UserID,
			"orderId": order.ID,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout session creation failed",
			slog.String("order_id", order.ID),
			slog.String("provider", s.provider.Name()),
			slog.String("error", err.Error()),
		)
		return &SessionResult{OrderID: order.ID, Status: SessionStatusProviderUnavailable}, nil
	}

	s.logger.InfoContext(ctx, "checkout session created",
		slog.String("order_id", order.ID),
		slog.String("session_id", sess.ID),
		slog.Int("products", len(priced)),
	)

	return &SessionResult{OrderID: order.ID, Status: SessionStatusCreated, URL: sess.URL}, nil
}

// OrderStatus is the poller's view of an order.
type OrderStatus struct {
	IsPaid bool `json:"is_paid"`
}

// PollOrderStatus returns whether the order has been paid. Orders the actor
// may not see read as not found, so existence is not leaked to other users.
func (s *CheckoutService) PollOrderStatus(ctx context.Context, actor policy.Actor, orderID string) (*OrderStatus, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if !policy.CanViewOrder(actor, order) {
		return nil, apperrors.NotFound("order", orderID)
	}

	return &OrderStatus{IsPaid: order.IsPaid}, nil
}
