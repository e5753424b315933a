package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersports "github.com/Apurer/store-orders-api/internal/domains/orders/ports"
)

// Publisher decorates a notification publisher with a producer span and failure accounting.
type Publisher struct {
	inner    ordersports.Publisher
	tracer   trace.Tracer
	logger   *slog.Logger
	failures metric.Int64Counter
	sent     metric.Int64Counter
}

// NewPublisher reuses the service options; WithMeter enables the publish counters.
func NewPublisher(inner ordersports.Publisher, opts ...Option) ordersports.Publisher {
	cfg := &Service{tracer: nooptrace.NewTracerProvider().Tracer(tracerName), logger: defaultLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	p := &Publisher{inner: inner, tracer: cfg.tracer, logger: cfg.logger}
	if p.tracer == nil {
		p.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if p.logger == nil {
		p.logger = defaultLogger()
	}
	if meter := cfg.meter; meter != nil {
		p.sent, _ = meter.Int64Counter("orders.publisher.sent", metric.WithDescription("Number of notifications published"))
		p.failures, _ = meter.Int64Counter("orders.publisher.failures", metric.WithDescription("Number of notifications that failed to publish"))
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, destination, routingKey string, payload any) error {
	ctx, span := p.tracer.Start(ctx, "OrderPublisher.Publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", destination),
			attribute.String("messaging.routing_key", routingKey),
		))
	defer span.End()
	if err := p.inner.Publish(ctx, destination, routingKey, payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if p.failures != nil {
			p.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("routing_key", routingKey)))
		}
		p.logger.LogAttrs(ctx, slog.LevelError, "publish failed",
			slog.String("destination", destination), slog.String("routing_key", routingKey), slog.String("error", err.Error()))
		return err
	}
	if p.sent != nil {
		p.sent.Add(ctx, 1, metric.WithAttributes(attribute.String("routing_key", routingKey)))
	}
	return nil
}

var _ ordersports.Publisher = (*Publisher)(nil)
