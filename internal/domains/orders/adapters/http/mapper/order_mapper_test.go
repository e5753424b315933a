package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
	"github.com/Apurer/store-orders-api/internal/shared/validation"
)

const createdPayload = `{
  "id": 10,
  "orderCreated": "10/01/2024",
  "totalValue": 3980.00,
  "address": {"id": 4, "street": "Rua A", "number": "10", "district": "Boa Vista", "city": "Recife", "cep": "50000000", "state": "PE", "type": {"id": 1, "description": "home"}},
  "client": {"id": 9, "name": "Ana", "cpf": "12345678909", "email": "ana@mail.com", "birthday": "03/05/1990"},
  "store": {"id": 3},
  "products": [{"code": "123", "quantity": 398, "price": 10.00}]
}`

func TestToDomainOrder_DecodesWireDates(t *testing.T) {
	var dto Order
	require.NoError(t, json.Unmarshal([]byte(createdPayload), &dto))
	require.NoError(t, validation.Struct(validation.New(), dto))

	order := ToDomainOrder(dto)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), order.CreatedOn)
	assert.Equal(t, time.Date(1990, time.May, 3, 0, 0, 0, 0, time.UTC), order.Client.Birthday)
	assert.Equal(t, int64(3), order.Store.ID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(398), order.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("3980").Equal(order.TotalValue))
}

func TestFromDomainOrder_UsesWireLabelsAndNullDates(t *testing.T) {
	order := &domain.Order{
		ID:           1,
		State:        domain.StateDispatched,
		CreatedOn:    time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		DispatchedOn: time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
		Store:        domain.StoreRef{ID: 3, Email: "loja@azul.com"},
		Items:        []domain.LineItem{{Code: "123", Quantity: 1, Price: decimal.RequireFromString("10.00")}},
	}

	raw, err := json.Marshal(FromDomainOrder(order))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "ENVIADO", decoded["state"])
	assert.Equal(t, "10/01/2024", decoded["orderCreated"])
	assert.Equal(t, "12/01/2024", decoded["orderDispatched"])
	assert.Nil(t, decoded["orderDelivered"])
}

func TestOrderValidation_ReportsFieldPaths(t *testing.T) {
	dto := Order{
		ID:       0,
		Address:  &Address{Street: "Rua A", Number: "10", District: "X", City: "Y", CEP: "123", State: "PE"},
		Client:   &Client{Name: "Ana", CPF: "12345678909"},
		Store:    Store{ID: 3},
		Products: []LineItem{{Code: "", Quantity: 0}},
	}

	err := validation.Struct(validation.New(), dto)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	fields := validation.Fields(apperrors.FieldsOf(err))
	assert.Equal(t, "must be greater than 0", fields["id"])
	assert.Equal(t, "must have exactly 8 characters", fields["address.cep"])
	assert.Equal(t, "is required", fields["products[0].code"])
	assert.Equal(t, "must be greater than 0", fields["products[0].quantity"])
}

func TestDate_RejectsOtherLayouts(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"2024-01-10"`), &d))
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}
