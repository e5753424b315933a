package ports

import (
	"context"

	orderstypes "github.com/Apurer/store-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

// Service exposes the order lifecycle use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	DispatchOrder(ctx context.Context, input orderstypes.DispatchOrderInput) error
	ListOrdersForStore(ctx context.Context, callerEmail string, page pagination.Request) (pagination.Page[*domain.Order], error)
	ApplyDeliveryUpdate(ctx context.Context, update domain.OrderDelivered) error
	GetOrder(ctx context.Context, id int64, callerEmail string) (*domain.Order, error)
}
