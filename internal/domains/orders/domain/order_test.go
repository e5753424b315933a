package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *Order {
	client := &Client{ID: 9, Name: "Maria", CPF: "12345678901", Email: "maria@example.com"}
	return &Order{
		ID:         1,
		Store:      StoreRef{ID: 3},
		Client:     client,
		Address:    &Address{Street: "Rua A", Number: "10", CEP: "12345678"},
		TotalValue: decimal.RequireFromString("39.80"),
		Items: []LineItem{
			{Code: "123", Quantity: 2, Price: decimal.RequireFromString("19.90")},
		},
	}
}

func TestParseState_AcceptsBothLabelSets(t *testing.T) {
	for input, want := range map[string]State{
		"CRIADO":     StateCreated,
		"enviado":    StateDispatched,
		"ENTREGUE":   StateDelivered,
		"DISPATCHED": StateDispatched,
	} {
		got, err := ParseState(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}
	_, err := ParseState("CANCELADO")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "ENVIADO", StateDispatched.Label())
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleOrder().Validate())

	noItems := sampleOrder()
	noItems.Items = nil
	assert.ErrorIs(t, noItems.Validate(), ErrNoLineItems)

	badQty := sampleOrder()
	badQty.Items[0].Quantity = 0
	assert.ErrorIs(t, badQty.Validate(), ErrInvalidItemAmount)

	fineTotal := sampleOrder()
	fineTotal.TotalValue = decimal.RequireFromString("39.805")
	assert.ErrorIs(t, fineTotal.Validate(), ErrMoneyPrecision)

	finePrice := sampleOrder()
	finePrice.Items[0].Price = decimal.RequireFromString("19.901")
	assert.ErrorIs(t, finePrice.Validate(), ErrMoneyPrecision)

	padded := sampleOrder()
	padded.TotalValue = decimal.RequireFromString("39.8000")
	assert.NoError(t, padded.Validate(), "trailing zeros lose nothing")

	noID := sampleOrder()
	noID.ID = 0
	assert.ErrorIs(t, noID.Validate(), ErrInvalidOrderID)
}

func TestLinkAssociations(t *testing.T) {
	order := sampleOrder()
	order.LinkAssociations()

	assert.Same(t, order.Client, order.Address.Client)
	for _, item := range order.Items {
		assert.Equal(t, order.ID, item.OrderID)
	}
}

func TestDispatch(t *testing.T) {
	now := time.Date(2024, 1, 12, 15, 30, 0, 0, time.UTC)

	order := sampleOrder()
	order.MarkCreated(now)
	require.NoError(t, order.Dispatch(StateDispatched, now))
	assert.Equal(t, StateDispatched, order.State)
	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), order.DispatchedOn)

	require.NoError(t, order.Dispatch(StateDispatched, now.AddDate(0, 0, 3)))
	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), order.DispatchedOn, "dispatch date is set once")

	wrong := sampleOrder()
	wrong.MarkCreated(now)
	assert.ErrorIs(t, wrong.Dispatch(StateDelivered, now), ErrTransitionNotAllowed)

	delivered := sampleOrder()
	require.NoError(t, delivered.ApplyDelivery(StateDelivered, now))
	assert.ErrorIs(t, delivered.Dispatch(StateDispatched, now), ErrAlreadyDelivered)
}

func TestDay_UsesTheClockLocation(t *testing.T) {
	saoPaulo := time.FixedZone("UTC-3", -3*60*60)
	late := time.Date(2024, 1, 10, 22, 0, 0, 0, saoPaulo)

	order := sampleOrder()
	order.MarkCreated(late)
	require.NoError(t, order.Dispatch(StateDispatched, late))

	assert.Equal(t, "10/01/2024", FormatDate(order.DispatchedOn))
	assert.Equal(t, "10/01/2024", FormatDate(order.CreatedOn))
	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), Day(late.UTC()))
}

func TestOwnedBy(t *testing.T) {
	order := sampleOrder()
	order.AttachStore(StoreRef{ID: 3, Email: "a@a"})

	assert.True(t, order.OwnedBy("A@A "))
	assert.False(t, order.OwnedBy("b@b"))
	assert.False(t, order.OwnedBy(""))
}

func TestLineItemsTotal_DoesNotTouchTotalValue(t *testing.T) {
	order := sampleOrder()
	order.TotalValue = decimal.RequireFromString("1.00")

	assert.True(t, decimal.RequireFromString("39.80").Equal(order.LineItemsTotal()))
	assert.True(t, decimal.RequireFromString("1.00").Equal(order.TotalValue))
}

func TestClone_IsDeep(t *testing.T) {
	order := sampleOrder()
	order.LinkAssociations()
	clone := order.Clone()

	clone.Items[0].Quantity = 99
	clone.Client.Name = "Other"
	assert.Equal(t, int64(2), order.Items[0].Quantity)
	assert.Equal(t, "Maria", order.Client.Name)
	assert.Same(t, clone.Client, clone.Address.Client)
}

func TestFormatAndParseDate(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "10/01/2024", FormatDate(day))
	parsed, err := ParseDate("10/01/2024")
	require.NoError(t, err)
	assert.Equal(t, day, parsed)
	assert.Equal(t, "", FormatDate(time.Time{}))
}
