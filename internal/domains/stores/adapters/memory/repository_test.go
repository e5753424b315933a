package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	"github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/platform/memtx"
)

func TestStoreRepositoryConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository()
	created, err := repo.Create(ctx, &domain.Store{CNPJ: "12345678000199", Email: "a@b.com", Phone: "11987654321"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	fields, err := repo.Conflicts(ctx, "12345678000199", "other@b.com", "11987654321")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cnpj", "phone"}, fields)

	_, err = repo.Create(ctx, &domain.Store{CNPJ: "12345678000199", Email: "x@y.com", Phone: "1"})
	assert.ErrorIs(t, err, ports.ErrDuplicate)

	found, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestProductRepositoryStockRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	created, err := repo.Create(ctx, &domain.Product{StoreID: 1, Code: "123", Name: "Caneca", Price: decimal.NewFromInt(10), Quantity: 5})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Product{StoreID: 1, Code: "123", Name: "Outra"})
	assert.ErrorIs(t, err, ports.ErrDuplicateProduct)
	_, err = repo.Create(ctx, &domain.Product{StoreID: 2, Code: "123", Name: "Outra loja"})
	assert.NoError(t, err, "codes are unique per store only")

	found, err := repo.FindByStoreAndCode(ctx, 1, "123")
	require.NoError(t, err)
	found.Quantity = -3
	assert.Equal(t, int64(5), created.Quantity, "reads return copies")
	require.NoError(t, repo.Save(ctx, found))

	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), again.Quantity)

	list, err := repo.ListByStore(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, repo.Save(ctx, &domain.Product{ID: 42}), ports.ErrProductNotFound)
}

func TestProductRepositoryUndoesFailedUnitOfWork(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	created, err := repo.Create(ctx, &domain.Product{StoreID: 1, Code: "123", Name: "Caneca", Quantity: 5})
	require.NoError(t, err)
	doomed, err := repo.Create(ctx, &domain.Product{StoreID: 1, Code: "999", Name: "Copo", Quantity: 1})
	require.NoError(t, err)

	failure := errors.New("boom")
	err = memtx.New().WithinTx(ctx, func(ctx context.Context) error {
		changed := *created
		changed.Quantity = 0
		changed.Code = "321"
		if err := repo.Save(ctx, &changed); err != nil {
			return err
		}
		if _, err := repo.Create(ctx, &domain.Product{StoreID: 1, Code: "456", Name: "Prato"}); err != nil {
			return err
		}
		if err := repo.Delete(ctx, doomed.ID); err != nil {
			return err
		}
		_, err := repo.Create(context.Background(), &domain.Product{StoreID: 1, Code: "777", Name: "Jarra"})
		require.NoError(t, err)
		return failure
	})
	require.ErrorIs(t, err, failure)

	found, err := repo.FindByStoreAndCode(ctx, 1, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(5), found.Quantity)
	_, err = repo.FindByStoreAndCode(ctx, 1, "321")
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
	_, err = repo.FindByStoreAndCode(ctx, 1, "456")
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
	_, err = repo.GetByID(ctx, doomed.ID)
	assert.NoError(t, err)
	_, err = repo.FindByStoreAndCode(ctx, 1, "777")
	assert.NoError(t, err, "writes made outside the unit of work survive its rollback")
}

func TestProductRepositorySaveRejectsTakenCode(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()
	_, err := repo.Create(ctx, &domain.Product{StoreID: 1, Code: "123", Name: "Caneca"})
	require.NoError(t, err)
	other, err := repo.Create(ctx, &domain.Product{StoreID: 1, Code: "456", Name: "Prato"})
	require.NoError(t, err)

	other.Code = "123"
	assert.ErrorIs(t, repo.Save(ctx, other), ports.ErrDuplicateProduct)
	assert.ErrorIs(t, repo.Delete(ctx, 42), ports.ErrProductNotFound)
}

func TestStoreRepositoryUndoesFailedUnitOfWork(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository()
	failure := errors.New("boom")

	err := memtx.New().WithinTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, &domain.Store{CNPJ: "1", Email: "a@b.com", Phone: "1"}); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	_, err = repo.GetByEmail(ctx, "a@b.com")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStorePurgeExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	require.NoError(t, store.Save(ctx, ports.Session{Token: "old", ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, store.Save(ctx, ports.Session{Token: "live", ExpiresAt: now.Add(time.Hour)}))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	_, err = store.Get(ctx, "live")
	assert.NoError(t, err)
}
