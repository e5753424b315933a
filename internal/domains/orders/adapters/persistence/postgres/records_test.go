package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
)

func TestRecordRoundTrip_KeepsSnapshotsAndNullDates(t *testing.T) {
	client := &domain.Client{ID: 9, Name: "Ana", CPF: "12345678909", Email: "ana@mail.com"}
	order := &domain.Order{
		ID:         5,
		State:      domain.StateCreated,
		CreatedOn:  time.Date(2024, time.January, 10, 13, 0, 0, 0, time.UTC),
		TotalValue: decimal.RequireFromString("19.90"),
		Store:      domain.StoreRef{ID: 3, Email: "loja@azul.com"},
		Client:     client,
		Address: &domain.Address{
			ID: 4, Street: "Rua A", City: "Recife", CEP: "50000000",
			Type:   domain.AddressType{ID: 1, Description: "home"},
			Client: client,
		},
		Items: []domain.LineItem{{Code: "123", Quantity: 2, Price: decimal.RequireFromString("9.95"), OrderID: 5}},
	}

	record := toRecord(order)
	assert.Nil(t, record.DispatchedOn)
	assert.Nil(t, record.DeliveredOn)
	require.Len(t, record.Items, 1)
	assert.Equal(t, 0, record.Items[0].Position)

	back := record.toDomain()
	assert.Equal(t, domain.Day(order.CreatedOn), back.CreatedOn)
	assert.True(t, back.DispatchedOn.IsZero())
	assert.Same(t, back.Client, back.Address.Client)
	assert.Equal(t, "home", back.Address.Type.Description)
	assert.Equal(t, order.Items, back.Items)
}

func TestRepository_RequiresDB(t *testing.T) {
	var repo *Repository
	_, err := repo.GetByID(context.Background(), 1)
	assert.Error(t, err)
}
