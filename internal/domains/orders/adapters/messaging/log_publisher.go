package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Apurer/store-orders-api/internal/domains/orders/ports"
)

// LogPublisher writes notifications to the log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, destination, routingKey string, payload any) error {
	body, err := Encode(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", routingKey, err)
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "notification",
		slog.String("destination", destination),
		slog.String("routing_key", routingKey),
		slog.String("payload", string(body)))
	return nil
}

var _ ports.Publisher = (*LogPublisher)(nil)
