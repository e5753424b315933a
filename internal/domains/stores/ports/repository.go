package ports

import (
	"context"
	"errors"

	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
)

var (
	ErrNotFound         = errors.New("store not found")
	ErrDuplicate        = errors.New("store already registered")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product code already registered for store")
)

// Repository persists stores.
type Repository interface {
	Create(ctx context.Context, store *domain.Store) (*domain.Store, error)
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
	GetByEmail(ctx context.Context, email string) (*domain.Store, error)
	// Conflicts returns the names of the unique fields (cnpj, email, phone)
	// already taken by another store.
	Conflicts(ctx context.Context, cnpj, email, phone string) ([]string, error)
}

// ProductRepository persists products and their stock. Implementations join
// the unit of work carried by ctx, if any.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByStoreAndCode(ctx context.Context, storeID int64, code string) (*domain.Product, error)
	ListByStore(ctx context.Context, storeID int64) ([]*domain.Product, error)
}
