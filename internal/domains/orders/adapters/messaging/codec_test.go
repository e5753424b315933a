package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

const createdJSON = `{
  "id": 10,
  "totalValue": 3980.00,
  "address": {"street": "Rua A", "number": "10", "district": "Boa Vista", "city": "Recife", "cep": "50000000", "state": "PE"},
  "client": {"id": 9, "name": "Ana", "cpf": "12345678909"},
  "store": {"id": 3},
  "products": [{"code": "123", "quantity": 398, "price": 10.00}]
}`

func TestDecode_RoutesByTopic(t *testing.T) {
	d := NewDecoder()

	event, err := d.Decode(TopicOrderCreated, []byte(createdJSON))
	require.NoError(t, err)
	created, ok := event.(domain.OrderCreated)
	require.True(t, ok)
	assert.Equal(t, int64(10), created.Order.ID)
	assert.Equal(t, int64(3), created.Order.Store.ID)

	event, err = d.Decode(TopicOrderDelivered, []byte(`{"id": 10, "state": "ENTREGUE", "orderDelivered": "10/01/2024"}`))
	require.NoError(t, err)
	delivered, ok := event.(domain.OrderDelivered)
	require.True(t, ok)
	assert.Equal(t, domain.StateDelivered, delivered.State)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), delivered.DeliveredOn)
}

func TestDecode_DeliveredWithoutStateLeavesItUnset(t *testing.T) {
	event, err := NewDecoder().Decode(TopicOrderDelivered, []byte(`{"id": 10, "orderDelivered": "10/01/2024"}`))
	require.NoError(t, err)

	delivered, ok := event.(domain.OrderDelivered)
	require.True(t, ok)
	assert.Equal(t, int64(10), delivered.OrderID)
	assert.Empty(t, delivered.State)
}

func TestDecode_FailuresArePermanent(t *testing.T) {
	d := NewDecoder()

	_, err := d.Decode(TopicOrderCreated, []byte(`{not json`))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.True(t, apperrors.IsPermanent(err))

	_, err = d.Decode(TopicOrderCreated, []byte(`{"id": 10, "store": {"id": 3}}`))
	require.ErrorIs(t, err, apperrors.ErrValidation)
	fields := map[string]string{}
	for _, f := range apperrors.FieldsOf(err) {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "is required", fields["client"])
	assert.Equal(t, "is required", fields["products"])

	_, err = d.Decode(TopicOrderDelivered, []byte(`{"id": 10, "state": "LOST"}`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = d.Decode("unknown-topic", []byte(`{}`))
	assert.True(t, apperrors.IsPermanent(err))
}

func TestEncode_OrderUsesWireDocument(t *testing.T) {
	raw, err := Encode(&domain.Order{
		ID:           1,
		State:        domain.StateDispatched,
		DispatchedOn: time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
		TotalValue:   decimal.RequireFromString("10"),
	})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "ENVIADO", doc["state"])
	assert.Equal(t, "12/01/2024", doc["orderDispatched"])
}
