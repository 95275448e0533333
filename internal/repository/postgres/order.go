package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/arvelin/storefront/internal/domain"
	"github.com/arvelin/storefront/pkg/database"
	apperrors "github.com/arvelin/storefront/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order and its product references within a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, user_id, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.Exec(ctx, orderQuery, o.ID, o.UserID, o.IsPaid, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	refQuery := `
		INSERT INTO order_products (order_id, product_id)
		VALUES ($1, $2)`

	for _, p := range o.Products {
		if _, err := tx.Exec(ctx, refQuery, o.ID, p.ID); err != nil {
			return fmt.Errorf("insert order product: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order with its products in a single query using
// LEFT JOIN + JSONB_AGG to avoid a second round trip.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT
			o.id, o.user_id, o.is_paid, o.created_at, o.updated_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', p.id,
						'name', p.name,
						'price_id', p.price_id,
						'price', p.price,
						'currency', p.currency
					) ORDER BY p.name
				) FILTER (WHERE p.id IS NOT NULL),
				'[]'::jsonb
			) AS products
		FROM orders o
		LEFT JOIN order_products op ON o.id = op.order_id
		LEFT JOIN products p ON op.product_id = p.id
		WHERE o.id = $1
		GROUP BY o.id, o.user_id, o.is_paid, o.created_at, o.updated_at`

	var (
		o            domain.Order
		productsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.IsPaid,
		&o.CreatedAt,
		&o.UpdatedAt,
		&productsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if len(productsJSON) > 0 && string(productsJSON) != "null" {
		if err := json.Unmarshal(productsJSON, &o.Products); err != nil {
			return nil, fmt.Errorf("unmarshal order products: %w", err)
		}
	}
	if o.Products == nil {
		o.Products = []domain.Product{}
	}

	return &o, nil
}

// MarkPaid flips is_paid to true. Re-marking a paid order is a no-op that
// still reports success, which keeps webhook redelivery harmless.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string) error {
	query := `
		UPDATE orders
		SET is_paid = TRUE, updated_at = $1
		WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}
