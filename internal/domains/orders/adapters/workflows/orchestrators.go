package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/store-orders-api/internal/platform/temporal/workflows/orders"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

var (
	_ ports.EventOrchestrator = (*TemporalOrderEvents)(nil)
	_ ports.EventOrchestrator = (*InlineOrderEvents)(nil)
)

// TemporalOrderEvents runs each inbound event as a Temporal workflow and
// waits for its outcome.
type TemporalOrderEvents struct {
	client    client.Client
	taskQueue string
}

func NewTemporalOrderEvents(c client.Client) *TemporalOrderEvents {
	return &TemporalOrderEvents{client: c, taskQueue: orderworkflows.OrderEventTaskQueue}
}

func (o *TemporalOrderEvents) Handle(ctx context.Context, event domain.Event) error {
	if o == nil || o.client == nil {
		return errors.New("temporal order workflows not configured")
	}
	input, workflowID, err := workflowInput(event)
	if err != nil {
		return err
	}
	input.TraceID = workflowTraceID(ctx)

	options := client.StartWorkflowOptions{ID: workflowID, TaskQueue: o.taskQueue}
	run, err := o.client.ExecuteWorkflow(ctx, options, orderworkflows.OrderEventWorkflowName, input)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return err
		}
		// A redelivered event joins the run already in flight.
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	return restoreKind(run.Get(ctx, nil))
}

// WorkflowID names the workflow that handles event: order-created-{id} or order-delivered-{id}.
func WorkflowID(event domain.Event) string {
	switch event.(type) {
	case domain.OrderCreated:
		return fmt.Sprintf("order-created-%d", event.AggregateID())
	case domain.OrderDelivered:
		return fmt.Sprintf("order-delivered-%d", event.AggregateID())
	default:
		return ""
	}
}

func workflowInput(event domain.Event) (orderworkflows.OrderEventWorkflowInput, string, error) {
	input := orderworkflows.OrderEventWorkflowInput{}
	switch e := event.(type) {
	case domain.OrderCreated:
		input.Event = e.EventName()
		input.Created = e.Order
	case domain.OrderDelivered:
		input.Event = e.EventName()
		input.Delivered = &e
	default:
		return input, "", apperrors.New(apperrors.ErrInvalidInput, "unsupported order event %T", event)
	}
	return input, WorkflowID(event), nil
}

// restoreKind maps a non-retryable activity failure back to its apperrors
// kind so callers classify it the same way as an inline failure.
func restoreKind(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	for cur := err; errors.As(cur, &appErr); cur = appErr.Unwrap() {
		if kind := apperrors.KindByName(appErr.Type()); kind != nil {
			return apperrors.Wrap(kind, err, "%s", appErr.Message())
		}
	}
	return err
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// InlineOrderEvents calls the engine directly. Used when Temporal is not configured.
type InlineOrderEvents struct {
	service ports.Service
}

func NewInlineOrderEvents(service ports.Service) *InlineOrderEvents {
	return &InlineOrderEvents{service: service}
}

func (o *InlineOrderEvents) Handle(ctx context.Context, event domain.Event) error {
	if o == nil || o.service == nil {
		return errors.New("inline order workflows not configured")
	}
	switch e := event.(type) {
	case domain.OrderCreated:
		return o.service.CreateOrder(ctx, e.Order)
	case domain.OrderDelivered:
		return o.service.ApplyDeliveryUpdate(ctx, e)
	default:
		return apperrors.New(apperrors.ErrInvalidInput, "unsupported order event %T", event)
	}
}
