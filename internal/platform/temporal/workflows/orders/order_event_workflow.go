package orders

import (
	"fmt"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/platform/temporal/sequences"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

const (
	// OrderEventWorkflowName is the public identifier for registering the workflow.
	OrderEventWorkflowName = "orders.workflows.OrderEvent"
	// OrderEventTaskQueue is the queue consumed by the worker processing order events.
	OrderEventTaskQueue = "ORDER_EVENTS"
)

// OrderEventWorkflowInput carries exactly one of Created or Delivered.
type OrderEventWorkflowInput struct {
	Event     string
	Created   *domain.Order
	Delivered *domain.OrderDelivered
	TraceID   string
}

// OrderEventWorkflow applies one inbound order event.
func OrderEventWorkflow(ctx workflow.Context, input OrderEventWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderEventWorkflow started", withTraceID(input.TraceID, "event", input.Event)...)
	var err error
	switch {
	case input.Created != nil:
		err = sequences.RunOrderCreatedSequence(ctx, input.Created)
	case input.Delivered != nil:
		err = sequences.RunOrderDeliveredSequence(ctx, *input.Delivered)
	default:
		return temporal.NewNonRetryableApplicationError(fmt.Sprintf("unsupported order event %q", input.Event), apperrors.ErrInvalidInput.Error(), nil)
	}
	if err != nil {
		logger.Error("OrderEventWorkflow failed", withTraceID(input.TraceID, "event", input.Event, "error", err)...)
		return err
	}
	logger.Info("OrderEventWorkflow completed", withTraceID(input.TraceID, "event", input.Event)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
