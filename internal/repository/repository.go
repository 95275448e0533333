package repository

import (
	"context"

	"github.com/arvelin/storefront/internal/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// Create inserts a new order and its product references atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its identifier, including its products.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// MarkPaid sets is_paid on the order. The write is idempotent: marking
	// an already-paid order succeeds without effect.
	MarkPaid(ctx context.Context, id string) error
}

// ProductRepository defines read operations over the catalog.
type ProductRepository interface {
	// ListByIDs returns the products matching the given IDs. Unknown IDs
	// are omitted from the result, not errors.
	ListByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// UserRepository defines read operations over storefront accounts.
type UserRepository interface {
	// GetByID retrieves a user by their identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
