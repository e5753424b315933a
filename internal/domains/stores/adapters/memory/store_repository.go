package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	"github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/platform/memtx"
)

var _ ports.Repository = (*StoreRepository)(nil)

// StoreRepository is an in-memory store persistence adapter.
type StoreRepository struct {
	mu     sync.RWMutex
	stores map[int64]*domain.Store
	nextID int64
}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{stores: map[int64]*domain.Store{}}
}

func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.conflicts(store.CNPJ, store.Email, store.Phone)) > 0 {
		return nil, ports.ErrDuplicate
	}
	clone := *store
	r.nextID++
	clone.ID = r.nextID
	r.stores[clone.ID] = &clone
	memtx.Record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.stores, clone.ID)
	})
	result := clone
	return &result, nil
}

func (r *StoreRepository) GetByID(_ context.Context, id int64) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *store
	return &clone, nil
}

func (r *StoreRepository) GetByEmail(_ context.Context, email string) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, store := range r.stores {
		if store.Email == email {
			clone := *store
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *StoreRepository) Conflicts(_ context.Context, cnpj, email, phone string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conflicts(cnpj, email, phone), nil
}

func (r *StoreRepository) conflicts(cnpj, email, phone string) []string {
	var fields []string
	seen := map[string]bool{}
	for _, store := range r.stores {
		if store.CNPJ == cnpj && !seen["cnpj"] {
			seen["cnpj"] = true
			fields = append(fields, "cnpj")
		}
		if store.Email == email && !seen["email"] {
			seen["email"] = true
			fields = append(fields, "email")
		}
		if store.Phone == phone && !seen["phone"] {
			seen["phone"] = true
			fields = append(fields, "phone")
		}
	}
	return fields
}
