package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderstypes "github.com/Apurer/store-orders-api/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order engine with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	meter   metric.Meter
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.meter = m
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, order *ordersdomain.Order) error {
	var id, storeID int64
	if order != nil {
		id, storeID = order.ID, order.Store.ID
	}
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.Int64("store.id", storeID)))
	defer span.End()
	s.logInfo(ctx, "creating order", slog.Int64("order.id", id), slog.Int64("store.id", storeID))
	if err := s.inner.CreateOrder(ctx, order); err != nil {
		return s.handleError(ctx, span, err, "failed to create order", slog.Int64("order.id", id))
	}
	s.metrics.recordCreated(ctx, len(order.Items))
	s.logInfo(ctx, "order created", slog.Int64("order.id", id), slog.Int("order.items", len(order.Items)))
	return nil
}

func (s *Service) DispatchOrder(ctx context.Context, input orderstypes.DispatchOrderInput) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DispatchOrder",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.String("order.requested_state", string(input.RequestedState))))
	defer span.End()
	s.logInfo(ctx, "dispatching order", slog.Int64("order.id", input.OrderID), slog.String("store.email", input.CallerEmail))
	if err := s.inner.DispatchOrder(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to dispatch order", slog.Int64("order.id", input.OrderID))
	}
	s.metrics.recordDispatched(ctx)
	return nil
}

func (s *Service) ListOrdersForStore(ctx context.Context, callerEmail string, page pagination.Request) (pagination.Page[*ordersdomain.Order], error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrdersForStore",
		trace.WithAttributes(attribute.String("store.email", callerEmail), attribute.Int("page.number", page.Page), attribute.Int("page.size", page.Size)))
	defer span.End()
	result, err := s.inner.ListOrdersForStore(ctx, callerEmail, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list orders", slog.String("store.email", callerEmail))
	}
	span.SetAttributes(attribute.Int("page.items", len(result.Items)), attribute.Int("page.total_items", result.TotalItems))
	return result, nil
}

func (s *Service) ApplyDeliveryUpdate(ctx context.Context, update ordersdomain.OrderDelivered) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.ApplyDeliveryUpdate",
		trace.WithAttributes(attribute.Int64("order.id", update.OrderID), attribute.String("order.state", string(update.State))))
	defer span.End()
	s.logInfo(ctx, "applying delivery update", slog.Int64("order.id", update.OrderID),
		slog.String("order.delivered_on", ordersdomain.FormatDate(update.DeliveredOn)))
	if err := s.inner.ApplyDeliveryUpdate(ctx, update); err != nil {
		return s.handleError(ctx, span, err, "failed to apply delivery update", slog.Int64("order.id", update.OrderID))
	}
	s.metrics.recordDelivered(ctx)
	return nil
}

func (s *Service) GetOrder(ctx context.Context, id int64, callerEmail string) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()
	result, err := s.inner.GetOrder(ctx, id, callerEmail)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	created    metric.Int64Counter
	lineItems  metric.Int64Counter
	dispatched metric.Int64Counter
	delivered  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders created"))
	items, _ := m.Int64Counter("orders.service.line_items", metric.WithDescription("Number of line items withdrawn from stock"))
	dispatched, _ := m.Int64Counter("orders.service.dispatched", metric.WithDescription("Number of orders dispatched"))
	delivered, _ := m.Int64Counter("orders.service.delivered", metric.WithDescription("Number of delivery updates applied"))
	return serviceMetrics{created: created, lineItems: items, dispatched: dispatched, delivered: delivered}
}

func (m serviceMetrics) recordCreated(ctx context.Context, items int) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
	if m.lineItems != nil {
		m.lineItems.Add(ctx, int64(items))
	}
}

func (m serviceMetrics) recordDispatched(ctx context.Context) {
	if m.dispatched != nil {
		m.dispatched.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDelivered(ctx context.Context) {
	if m.delivered != nil {
		m.delivered.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ ordersports.Service = (*Service)(nil)
