package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arvelin/storefront/internal/domain"
	"github.com/arvelin/storefront/internal/email"
	"github.com/arvelin/storefront/internal/event"
	"github.com/arvelin/storefront/internal/provider"
	"github.com/arvelin/storefront/internal/receiptlog"
	"github.com/arvelin/storefront/internal/repository"
	"github.com/arvelin/storefront/internal/sender"
	apperrors "github.com/arvelin/storefront/pkg/errors"
)

// WebhookConfig holds receipt delivery settings.
type WebhookConfig struct {
	ReceiptFrom string
}

// WebhookService reconciles provider payment events against orders.
type WebhookService struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	provider provider.Provider
	sender   sender.Sender
	receipts receiptlog.Log
	producer *event.Producer
	cfg      WebhookConfig
	logger   *slog.Logger
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	orders repository.OrderRepository,
	users repository.UserRepository,
	prov provider.Provider,
	snd sender.Sender,
	receipts receiptlog.Log,
	producer *event.Producer,
	cfg WebhookConfig,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		orders:   orders,
		users:    users,
		provider: prov,
		sender:   snd,
		receipts: receipts,
		producer: producer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Reconcile verifies a webhook delivery and applies the payment outcome.
//
// The payload must be the raw, unparsed request body: the signature is
// computed over exact bytes. Verified events of any type other than
// checkout.session.completed are acknowledged without effect. The paid
// transition is an unconditional idempotent write, so redelivered events
// converge on the same state. Receipt failure is reported to the caller
// (the provider will redeliver) but the transition is never rolled back.
func (s *WebhookService) Reconcile(ctx context.Context, payload []byte, sigHeader string) error {
	evt, err := s.provider.ConstructEvent(payload, sigHeader)
	if err != nil {
		return err
	}

	userID := evt.Metadata["userId"]
	orderID := evt.Metadata["orderId"]
	if userID == "" || orderID == "" {
		return apperrors.InvalidInput("payment event missing userId or orderId metadata")
	}

	if evt.Type != provider.EventCheckoutCompleted {
		s.logger.DebugContext(ctx, "ignoring payment event",
			slog.String("event_type", evt.Type),
			slog.String("event_id", evt.ID),
		)
		return nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user by id: %w", err)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order by id: %w", err)
	}

	if err := s.orders.MarkPaid(ctx, order.ID); err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	s.logger.InfoContext(ctx, "order reconciled as paid",
		slog.String("order_id", order.ID),
		slog.String("user_id", user.ID),
		slog.String("session_id", evt.SessionID),
	)

	if err := s.producer.PublishOrderPaid(ctx, order, evt.SessionID, s.provider.Name()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.paid event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Event publishing never affects the webhook response.
	}

	return s.sendReceipt(ctx, order, user)
}

func (s *WebhookService) sendReceipt(ctx context.Context, order *domain.Order, user *domain.User) error {
	first, err := s.receipts.FirstSend(ctx, order.ID)
	if err != nil {
		// Dedup is best-effort: a broken log means we risk a duplicate
		// receipt, not a missing one.
		s.logger.WarnContext(ctx, "receipt log unavailable, sending anyway",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		first = true
	}
	if !first {
		s.logger.InfoContext(ctx, "receipt already sent, skipping",
			slog.String("order_id", order.ID),
		)
		return nil
	}

	html, err := email.RenderReceipt(order, user)
	if err != nil {
		return apperrors.NotificationFailed(err)
	}

	if err := s.sender.Send(ctx, &sender.Email{
		To:      user.Email,
		From:    s.cfg.ReceiptFrom,
		Subject: email.ReceiptSubject,
		HTML:    html,
	}); err != nil {
		return fmt.Errorf("send receipt: %w", err)
	}

	return nil
}
