package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/arvelin/storefront/pkg/kafka"

	"github.com/arvelin/storefront/internal/domain"
)

// Kafka topics for order lifecycle events.
const (
	TopicOrderCreated = "storefront.order.created"
	TopicOrderPaid    = "storefront.order.paid"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront-api"

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID    string   `json:"order_id"`
	UserID     string   `json:"user_id"`
	ProductIDs []string `json:"product_ids"`
	Total      int64    `json:"total"`
}

// OrderPaidData is the payload for an order.paid event.
type OrderPaidData struct {
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Provider  string `json:"provider"`
}

// Publisher abstracts the Kafka producer so services can be tested without
// a broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes order lifecycle events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// PublishOrderCreated publishes an order.created event when a checkout
// session opens a new unpaid order.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	productIDs := make([]string, len(order.Products))
	for i, prod := range order.Products {
		productIDs[i] = prod.ID
	}

	data := OrderCreatedData{
		OrderID:    order.ID,
		UserID:     order.UserID,
		ProductIDs: productIDs,
		Total:      order.Total(),
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
	)

	return nil
}

// PublishOrderPaid publishes an order.paid event after the reconciler marks
// the order paid.
func (p *Producer) PublishOrderPaid(ctx context.Context, order *domain.Order, sessionID, providerName string) error {
	data := OrderPaidData{
		OrderID:   order.ID,
		UserID:    order.UserID,
		SessionID: sessionID,
		Provider:  providerName,
	}

	event, err := pkgkafka.NewEvent(TopicOrderPaid, order.ID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.paid event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicOrderPaid, event); err != nil {
		return fmt.Errorf("publish order.paid event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.paid event",
		slog.String("order_id", order.ID),
		slog.String("session_id", sessionID),
	)

	return nil
}
