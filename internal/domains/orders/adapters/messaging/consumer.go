package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

const (
	consumerTracerName = "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/messaging/consumer"
	maxRetryDelay      = 30 * time.Second
)

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer feeds inbound order events to an orchestrator. Messages whose
// handling fails permanently are committed and logged; other failures leave
// the offset uncommitted so the broker redelivers.
type Consumer struct {
	readers      []MessageReader
	decoder      *Decoder
	orchestrator ports.EventOrchestrator
	logger       *slog.Logger
	tracer       trace.Tracer
	propagator   propagation.TextMapPropagator
	retryDelay   time.Duration
}

type ConsumerOption func(*Consumer)

func WithConsumerLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) { c.logger = logger }
}

func WithConsumerTracer(tr trace.Tracer) ConsumerOption {
	return func(c *Consumer) { c.tracer = tr }
}

// WithRetryDelay sets the first pause before a transiently failed message is retried.
func WithRetryDelay(d time.Duration) ConsumerOption {
	return func(c *Consumer) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

func NewConsumer(orchestrator ports.EventOrchestrator, readers []MessageReader, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		readers:      readers,
		decoder:      NewDecoder(),
		orchestrator: orchestrator,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:       nooptrace.NewTracerProvider().Tracer(consumerTracerName),
		propagator:   otel.GetTextMapPropagator(),
		retryDelay:   time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Run polls every reader until ctx is cancelled or a reader fails.
func (c *Consumer) Run(ctx context.Context) error {
	if len(c.readers) == 0 {
		return errors.New("consumer has no readers")
	}
	errs := make(chan error, len(c.readers))
	for _, reader := range c.readers {
		go func(r MessageReader) { errs <- c.poll(ctx, r) }(reader)
	}
	var first error
	for range c.readers {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every reader.
func (c *Consumer) Close() error {
	var errs []error
	for _, r := range c.readers {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}

func (c *Consumer) poll(ctx context.Context, reader MessageReader) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}
		if err := c.handleUntilSettled(ctx, msg); err != nil {
			return nil
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

// handleUntilSettled redelivers msg to Handle until it settles. Offsets are
// committed in order, so a later message is never fetched past an unsettled one.
func (c *Consumer) handleUntilSettled(ctx context.Context, msg kafka.Message) error {
	delay := c.retryDelay
	for {
		err := c.Handle(ctx, msg)
		if err == nil {
			return nil
		}
		c.logger.LogAttrs(ctx, slog.LevelError, "order event left uncommitted",
			slog.String("topic", msg.Topic), slog.Int64("offset", msg.Offset),
			slog.Duration("retry_in", delay), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}

// Handle decodes and dispatches one message. It returns nil for messages
// that should be committed, including permanent failures.
func (c *Consumer) Handle(ctx context.Context, msg kafka.Message) error {
	ctx = c.propagator.Extract(ctx, carrierFromKafkaHeaders(msg.Headers))
	ctx, span := c.tracer.Start(ctx, "OrderConsumer.Handle",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.source.name", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		))
	defer span.End()

	event, err := c.decoder.Decode(msg.Topic, msg.Value)
	if err == nil {
		span.SetAttributes(attribute.String("order.event", event.EventName()), attribute.Int64("order.id", event.AggregateID()))
		err = c.orchestrator.Handle(ctx, event)
	}
	if err == nil {
		c.logger.LogAttrs(ctx, slog.LevelInfo, "order event handled",
			slog.String("topic", msg.Topic), slog.Int64("order.id", event.AggregateID()))
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if apperrors.IsPermanent(err) {
		attrs := []slog.Attr{
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		}
		for _, field := range apperrors.FieldsOf(err) {
			attrs = append(attrs, slog.String("field."+field.Field, field.Message))
		}
		c.logger.LogAttrs(ctx, slog.LevelWarn, "order event rejected", attrs...)
		return nil
	}
	return err
}
