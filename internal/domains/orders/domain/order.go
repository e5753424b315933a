package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the dd/MM/yyyy layout used for order dates on the wire and in messages.
const DateLayout = "02/01/2006"

var (
	ErrInvalidOrderID       = errors.New("order id must be greater than zero")
	ErrMissingStore         = errors.New("order store is required")
	ErrMissingClient        = errors.New("order client is required")
	ErrMissingAddress       = errors.New("order shipping address is required")
	ErrNoLineItems          = errors.New("order must have at least one line item")
	ErrEmptyItemCode        = errors.New("line item code is required")
	ErrInvalidItemAmount    = errors.New("line item quantity must be greater than zero")
	ErrMoneyPrecision       = errors.New("monetary values must have at most 2 decimal places")
	ErrAlreadyDelivered     = errors.New("order already delivered")
	ErrTransitionNotAllowed = errors.New("only transition allowed is to DISPATCHED")
)

// StoreRef identifies the store that owns an order.
type StoreRef struct {
	ID    int64
	Email string
}

// Client is the snapshot of the buyer taken when the order was placed.
type Client struct {
	ID       int64
	Name     string
	CPF      string
	Email    string
	Birthday time.Time
}

// AddressType classifies a shipping address (home, work, ...).
type AddressType struct {
	ID          int64
	Description string
}

// Address is the shipping address snapshot; Client is the back-reference set on creation.
type Address struct {
	ID       int64
	Street   string
	Number   string
	District string
	City     string
	CEP      string
	State    string
	Type     AddressType
	Client   *Client
}

// LineItem is one product code, quantity and unit price within an order.
type LineItem struct {
	Code     string
	Quantity int64
	Price    decimal.Decimal
	OrderID  int64
}

// Order models the store order aggregate.
type Order struct {
	ID           int64
	State        State
	CreatedOn    time.Time
	DispatchedOn time.Time
	DeliveredOn  time.Time
	TotalValue   decimal.Decimal
	Store        StoreRef
	Client       *Client
	Address      *Address
	Items        []LineItem
}

// Validate enforces the structural invariants of an incoming order.
func (o *Order) Validate() error {
	if o.ID <= 0 {
		return ErrInvalidOrderID
	}
	if o.Store.ID <= 0 {
		return ErrMissingStore
	}
	if o.Client == nil {
		return ErrMissingClient
	}
	if o.Address == nil {
		return ErrMissingAddress
	}
	if len(o.Items) == 0 {
		return ErrNoLineItems
	}
	if !Cents(o.TotalValue) {
		return ErrMoneyPrecision
	}
	for _, item := range o.Items {
		if strings.TrimSpace(item.Code) == "" {
			return ErrEmptyItemCode
		}
		if item.Quantity <= 0 {
			return ErrInvalidItemAmount
		}
		if !Cents(item.Price) {
			return ErrMoneyPrecision
		}
	}
	if o.State != "" && !o.State.Valid() {
		return ErrInvalidState
	}
	return nil
}

// Cents reports whether d fits two decimal places without rounding.
func Cents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// AttachStore replaces whatever store reference the order carried.
func (o *Order) AttachStore(store StoreRef) {
	o.Store = store
}

// LinkAssociations sets the address to client and line item to order back-references.
func (o *Order) LinkAssociations() {
	if o.Address != nil {
		o.Address.Client = o.Client
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
}

// MarkCreated puts a new order in its initial state.
func (o *Order) MarkCreated(now time.Time) {
	o.State = StateCreated
	o.CreatedOn = Day(now)
}

// EnsureNotDelivered fails once the order has reached DELIVERED.
func (o *Order) EnsureNotDelivered() error {
	if o.State == StateDelivered {
		return ErrAlreadyDelivered
	}
	return nil
}

// OwnedBy reports whether the order belongs to the store with the given email.
func (o *Order) OwnedBy(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return email != "" && strings.ToLower(o.Store.Email) == email
}

// Dispatch applies the CREATED to DISPATCHED transition requested by the store.
// Dispatching an already dispatched order succeeds and keeps the first dispatch date.
func (o *Order) Dispatch(requested State, now time.Time) error {
	if err := o.EnsureNotDelivered(); err != nil {
		return err
	}
	if requested != StateDispatched {
		return ErrTransitionNotAllowed
	}
	if o.State != StateDispatched || o.DispatchedOn.IsZero() {
		o.DispatchedOn = Day(now)
	}
	o.State = StateDispatched
	return nil
}

// ApplyDelivery overwrites state and delivery date without any transition guard.
func (o *Order) ApplyDelivery(state State, deliveredOn time.Time) error {
	if !state.Valid() {
		return ErrInvalidState
	}
	o.State = state
	o.DeliveredOn = Day(deliveredOn)
	return nil
}

// LineItemsTotal sums price times quantity. TotalValue is never replaced by it.
func (o *Order) LineItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.Client != nil {
		client := *o.Client
		clone.Client = &client
	}
	if o.Address != nil {
		address := *o.Address
		if o.Address.Client != nil {
			if o.Address.Client == o.Client {
				address.Client = clone.Client
			} else {
				client := *o.Address.Client
				address.Client = &client
			}
		}
		clone.Address = &address
	}
	clone.Items = append([]LineItem(nil), o.Items...)
	return &clone
}

// Day returns the calendar day of t as seen in t's own location, stored as
// midnight UTC of that date.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as dd/MM/yyyy, or an empty string for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate parses a dd/MM/yyyy date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}
