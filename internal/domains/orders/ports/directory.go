package ports

import (
	"context"

	storesdomain "github.com/Apurer/store-orders-api/internal/domains/stores/domain"
)

// StoreDirectory resolves the stores that own orders.
type StoreDirectory interface {
	GetStoreByID(ctx context.Context, id int64) (*storesdomain.Store, error)
	GetStoreByEmail(ctx context.Context, email string) (*storesdomain.Store, error)
}

// InventoryLedger reads and writes product stock keyed by (store, code).
type InventoryLedger interface {
	FindProductByStoreAndCode(ctx context.Context, storeID int64, code string) (*storesdomain.Product, error)
	SaveProduct(ctx context.Context, product *storesdomain.Product) error
}
