package ports

import (
	"context"
	"errors"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrDuplicate = errors.New("order already exists")
)

// Repository persists orders with their line items, client and address.
// Implementations join the unit of work carried by ctx, if any.
type Repository interface {
	// Create inserts a new order and fails with ErrDuplicate when the id is taken.
	Create(ctx context.Context, order *domain.Order) error
	// Save updates the mutable order columns (state and dates).
	Save(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByStore(ctx context.Context, storeID int64) ([]*domain.Order, error)
}
