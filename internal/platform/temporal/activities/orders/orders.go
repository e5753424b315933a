package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

const (
	// CreateOrderActivityName places a new order against store inventory.
	CreateOrderActivityName = "orders.activities.CreateOrder"
	// ApplyDeliveryActivityName records a delivery report.
	ApplyDeliveryActivityName = "orders.activities.ApplyDelivery"
)

// Activities runs order events against the engine.
type Activities struct {
	service ordersports.Service
}

func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

func (a *Activities) CreateOrder(ctx context.Context, order *domain.Order) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return errors.New("order activities not initialized")
	}
	if order == nil {
		return temporal.NewNonRetryableApplicationError("order payload missing", apperrors.ErrInvalidInput.Error(), nil)
	}
	logger.Info("CreateOrder activity started", "orderId", order.ID)
	if err := a.service.CreateOrder(ctx, order); err != nil {
		logger.Error("CreateOrder activity failed", "orderId", order.ID, "error", err)
		return classify(err)
	}
	logger.Info("CreateOrder activity completed", "orderId", order.ID)
	return nil
}

func (a *Activities) ApplyDelivery(ctx context.Context, update domain.OrderDelivered) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return errors.New("order activities not initialized")
	}
	logger.Info("ApplyDelivery activity started", "orderId", update.OrderID, "state", string(update.State))
	if err := a.service.ApplyDeliveryUpdate(ctx, update); err != nil {
		logger.Error("ApplyDelivery activity failed", "orderId", update.OrderID, "error", err)
		return classify(err)
	}
	return nil
}

// classify stops Temporal from retrying business failures. The application
// error type carries the kind name so callers can restore it.
func classify(err error) error {
	if kind := apperrors.KindOf(err); kind != nil {
		return temporal.NewNonRetryableApplicationError(err.Error(), kind.Error(), err)
	}
	return err
}
