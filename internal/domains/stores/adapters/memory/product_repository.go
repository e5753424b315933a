package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	"github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/platform/memtx"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

type productKey struct {
	storeID int64
	code    string
}

// ProductRepository is an in-memory product and stock adapter.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	byCode   map[productKey]int64
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: map[int64]domain.Product{},
		byCode:   map[productKey]int64{},
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := productKey{storeID: product.StoreID, code: product.Code}
	if _, exists := r.byCode[key]; exists {
		return nil, ports.ErrDuplicateProduct
	}
	r.nextID++
	clone := *product
	clone.ID = r.nextID
	r.products[clone.ID] = clone
	r.byCode[key] = clone.ID
	memtx.Record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.products, clone.ID)
		delete(r.byCode, key)
	})
	return &clone, nil
}

// Save overwrites an existing product, typically after a stock change.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[product.ID]
	if !ok {
		return ports.ErrProductNotFound
	}
	key := productKey{storeID: product.StoreID, code: product.Code}
	if id, taken := r.byCode[key]; taken && id != product.ID {
		return ports.ErrDuplicateProduct
	}
	r.put(existing, *product)
	memtx.Record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.put(r.products[existing.ID], existing)
	})
	return nil
}

// put replaces old with next and moves the code index along. Callers hold mu.
func (r *ProductRepository) put(old, next domain.Product) {
	delete(r.byCode, productKey{storeID: old.StoreID, code: old.Code})
	r.products[next.ID] = next
	r.byCode[productKey{storeID: next.StoreID, code: next.Code}] = next.ID
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[id]
	if !ok {
		return ports.ErrProductNotFound
	}
	key := productKey{storeID: existing.StoreID, code: existing.Code}
	delete(r.products, id)
	delete(r.byCode, key)
	memtx.Record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.products[id] = existing
		r.byCode[key] = id
	})
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	return &product, nil
}

func (r *ProductRepository) FindByStoreAndCode(_ context.Context, storeID int64, code string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[productKey{storeID: storeID, code: code}]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	product := r.products[id]
	return &product, nil
}

func (r *ProductRepository) ListByStore(_ context.Context, storeID int64) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0)
	for _, product := range r.products {
		if product.StoreID == storeID {
			clone := product
			list = append(list, &clone)
		}
	}
	return list, nil
}
