package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/store-orders-api/internal/platform/temporal/activities/orders"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

func activityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	}
}

// RunOrderCreatedSequence places the order carried by a created event.
func RunOrderCreatedSequence(ctx workflow.Context, order *domain.Order) error {
	if order == nil {
		return temporal.NewNonRetryableApplicationError("order payload missing", apperrors.ErrInvalidInput.Error(), nil)
	}
	logger := workflow.GetLogger(ctx)
	logger.Info("order created sequence started", "orderId", order.ID)
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, activityOptions()), orderactivities.CreateOrderActivityName, order).Get(ctx, nil)
	if err != nil {
		logger.Error("order created sequence failed", "orderId", order.ID, "error", err)
		return err
	}
	return nil
}

// RunOrderDeliveredSequence applies a delivery report.
func RunOrderDeliveredSequence(ctx workflow.Context, update domain.OrderDelivered) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("order delivered sequence started", "orderId", update.OrderID)
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, activityOptions()), orderactivities.ApplyDeliveryActivityName, update).Get(ctx, nil)
	if err != nil {
		logger.Error("order delivered sequence failed", "orderId", update.OrderID, "error", err)
		return err
	}
	return nil
}
