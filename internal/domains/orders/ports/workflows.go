package ports

import (
	"context"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
)

// EventOrchestrator runs inbound order events, durably or inline.
type EventOrchestrator interface {
	Handle(ctx context.Context, event domain.Event) error
}
