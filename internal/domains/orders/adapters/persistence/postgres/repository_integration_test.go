//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	orderspostgres "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/store-orders-api/internal/domains/orders/application"
	orderstypes "github.com/Apurer/store-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	storespostgres "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/persistence/postgres"
	storesapp "github.com/Apurer/store-orders-api/internal/domains/stores/application"
	storestypes "github.com/Apurer/store-orders-api/internal/domains/stores/application/types"
	"github.com/Apurer/store-orders-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/store-orders-api/internal/platform/postgres"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("store_orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

type discardPublisher struct{ sent int }

func (p *discardPublisher) Publish(context.Context, string, string, any) error {
	p.sent++
	return nil
}

func sampleOrder(id, storeID int64, items ...domain.LineItem) *domain.Order {
	client := &domain.Client{ID: 9, Name: "Ana", CPF: "12345678909", Email: "ana@mail.com",
		Birthday: time.Date(1990, time.May, 3, 0, 0, 0, 0, time.UTC)}
	return &domain.Order{
		ID:         id,
		TotalValue: decimal.RequireFromString("3980.00"),
		Store:      domain.StoreRef{ID: storeID},
		Client:     client,
		Address: &domain.Address{ID: 4, Street: "Rua A", Number: "10", District: "Boa Vista",
			City: "Recife", CEP: "50000000", State: "PE", Type: domain.AddressType{ID: 1, Description: "home"}},
		Items: items,
	}
}

func TestOrderLifecycle_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	products := storespostgres.NewProductRepository(db)
	stores := storesapp.NewService(storespostgres.NewStoreRepository(db), products, storespostgres.NewSessionStore(db))
	store, err := stores.RegisterStore(ctx, storestypes.RegisterStoreInput{
		CNPJ: "12345678000199", CorporateName: "Loja Azul", Email: "loja@azul.com", Phone: "11987654321", Password: "secret",
	})
	require.NoError(t, err)
	_, err = stores.AddProduct(ctx, store.Email, storestypes.AddProductInput{
		Code: "123", Name: "Caneca", Price: decimal.RequireFromString("10.00"), Quantity: 500,
	})
	require.NoError(t, err)

	repo := orderspostgres.NewRepository(db)
	publisher := &discardPublisher{}
	svc := ordersapp.NewService(repo, stores, stores, publisher, platformpostgres.NewUnitOfWork(db))

	require.NoError(t, svc.CreateOrder(ctx, sampleOrder(1, store.ID,
		domain.LineItem{Code: "123", Quantity: 398, Price: decimal.RequireFromString("10.00")})))
	product, err := stores.FindProductByStoreAndCode(ctx, store.ID, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(102), product.Quantity)

	err = svc.CreateOrder(ctx, sampleOrder(2, store.ID,
		domain.LineItem{Code: "123", Quantity: 1},
		domain.LineItem{Code: "missing", Quantity: 1}))
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	product, err = stores.FindProductByStoreAndCode(ctx, store.ID, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(102), product.Quantity)
	_, err = repo.GetByID(ctx, 2)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	err = svc.CreateOrder(ctx, sampleOrder(1, store.ID, domain.LineItem{Code: "123", Quantity: 1}))
	require.ErrorIs(t, err, apperrors.ErrDuplicateKey)

	require.NoError(t, svc.DispatchOrder(ctx, orderstypes.DispatchOrderInput{
		OrderID: 1, CallerEmail: store.Email, RequestedState: domain.StateDispatched,
	}))
	assert.Equal(t, 1, publisher.sent)

	stored, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateDispatched, stored.State)
	assert.False(t, stored.DispatchedOn.IsZero())
	assert.Equal(t, "loja@azul.com", stored.Store.Email)
	assert.Same(t, stored.Client, stored.Address.Client)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, int64(1), stored.Items[0].OrderID)

	delivered := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.ApplyDeliveryUpdate(ctx, domain.OrderDelivered{OrderID: 1, State: domain.StateDelivered, DeliveredOn: delivered}))
	err = svc.DispatchOrder(ctx, orderstypes.DispatchOrderInput{OrderID: 1, CallerEmail: store.Email, RequestedState: domain.StateDispatched})
	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, "order already delivered on: 10/01/2024", err.Error())

	list, err := repo.ListByStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
