package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvelin/storefront/internal/domain"
	"github.com/arvelin/storefront/pkg/database"
	apperrors "github.com/arvelin/storefront/pkg/errors"
)

func newOrderRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewOrderRepository(mock), mock
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:     "order-001",
		UserID: "user-001",
		IsPaid: false,
		Products: []domain.Product{
			{ID: "prod-001", Name: "Icon Set", PriceID: "price_001", Price: 1200, Currency: "usd"},
			{ID: "prod-002", Name: "Sticker Pack", PriceID: "price_002", Price: 500, Currency: "usd"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newOrderRepo(t)
	defer mock.ExpectationsWereMet()

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.IsPaid, o.CreatedAt, o.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, p := range o.Products {
		mock.ExpectExec("INSERT INTO order_products").
			WithArgs(o.ID, p.ID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)
}

func TestOrderRepository_Create_InsertFails(t *testing.T) {
	repo, mock := newOrderRepo(t)
	defer mock.ExpectationsWereMet()

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(o.ID, o.UserID, o.IsPaid, o.CreatedAt, o.UpdatedAt).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	assert.Error(t, err)
}

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newOrderRepo(t)
	defer mock.ExpectationsWereMet()

	o := sampleOrder()
	productsJSON, err := json.Marshal(o.Products)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT").
		WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "is_paid", "created_at", "updated_at", "products",
		}).AddRow(o.ID, o.UserID, o.IsPaid, o.CreatedAt, o.UpdatedAt, productsJSON))

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.UserID, got.UserID)
	assert.False(t, got.IsPaid)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "price_001", got.Products[0].PriceID)
}

func TestOrderRepository_GetByID_NoProducts(t *testing.T) {
	repo, mock := newOrderRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT").
		WithArgs("order-empty").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "is_paid", "created_at", "updated_at", "products",
		}).AddRow("order-empty", "user-001", false, now, now, []byte("[]")))

	got, err := repo.GetByID(context.Background(), "order-empty")
	require.NoError(t, err)
	assert.NotNil(t, got.Products)
	assert.Empty(t, got.Products)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newOrderRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderRepository_MarkPaid_Success(t *testing.T) {
	repo, mock := newOrderRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE orders").
		WithArgs(pgxmock.AnyArg(), "order-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.MarkPaid(context.Background(), "order-001")
	assert.NoError(t, err)
}

func TestOrderRepository_MarkPaid_NotFound(t *testing.T) {
	repo, mock := newOrderRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("UPDATE orders").
		WithArgs(pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkPaid(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
