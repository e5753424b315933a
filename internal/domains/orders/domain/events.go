package domain

import "time"

const (
	// DispatchedDestination receives notifications for store-dispatched orders.
	DispatchedDestination = "order-client"
	// DispatchedRoutingKey tags the notification emitted after a dispatch.
	DispatchedRoutingKey = "order.client.updated.dispatched"
)

// Event is one inbound order event. The concrete types form a closed set.
type Event interface {
	EventName() string
	AggregateID() int64
	isEvent()
}

// OrderCreated asks for a new order to be placed against store inventory.
type OrderCreated struct {
	Order *Order
}

func (OrderCreated) EventName() string { return "order.store.created" }

func (e OrderCreated) AggregateID() int64 {
	if e.Order == nil {
		return 0
	}
	return e.Order.ID
}

func (OrderCreated) isEvent() {}

// OrderDelivered reports that the end client received an order.
type OrderDelivered struct {
	OrderID     int64
	State       State
	DeliveredOn time.Time
}

func (OrderDelivered) EventName() string { return "order.store.updated.delivered" }

func (e OrderDelivered) AggregateID() int64 { return e.OrderID }

func (OrderDelivered) isEvent() {}
