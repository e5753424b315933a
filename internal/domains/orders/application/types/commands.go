package types

import "github.com/Apurer/store-orders-api/internal/domains/orders/domain"

// DispatchOrderInput is a store's request to move one of its orders forward.
type DispatchOrderInput struct {
	OrderID        int64
	CallerEmail    string
	RequestedState domain.State
}
