package ports

import (
	"context"

	"github.com/shopspring/decimal"

	storestypes "github.com/Apurer/store-orders-api/internal/domains/stores/application/types"
	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

// Service exposes the store and product directory use cases to adapters.
type Service interface {
	RegisterStore(ctx context.Context, input storestypes.RegisterStoreInput) (*domain.Store, error)
	GetStoreByID(ctx context.Context, id int64) (*domain.Store, error)
	GetStoreByEmail(ctx context.Context, email string) (*domain.Store, error)

	Login(ctx context.Context, email, password string) (Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (string, error)

	AddProduct(ctx context.Context, ownerEmail string, input storestypes.AddProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, ownerEmail string, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, ownerEmail string, page pagination.Request) (pagination.Page[*domain.Product], error)
	ListStoreProducts(ctx context.Context, storeID int64, page pagination.Request) (pagination.Page[*domain.Product], error)
	UpdateProduct(ctx context.Context, ownerEmail string, id int64, input storestypes.UpdateProductInput) (*domain.Product, error)
	ChangeProductPrice(ctx context.Context, ownerEmail string, id int64, price decimal.Decimal) (*domain.Product, error)
	DeleteProduct(ctx context.Context, ownerEmail string, id int64) error
	FindProductByStoreAndCode(ctx context.Context, storeID int64, code string) (*domain.Product, error)
	SaveProduct(ctx context.Context, product *domain.Product) error
}
