package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/store-orders-api/internal/platform/memtx"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders in memory. Stored orders are deep copies.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return ports.ErrDuplicate
	}
	id := order.ID
	r.orders[id] = order.Clone()
	memtx.Record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.orders, id)
	})
	return nil
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	previous, exists := r.orders[order.ID]
	if !exists {
		return ports.ErrNotFound
	}
	r.orders[order.ID] = order.Clone()
	memtx.Record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.orders[previous.ID] = previous
	})
	return nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) ListByStore(_ context.Context, storeID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if order.Store.ID == storeID {
			list = append(list, order.Clone())
		}
	}
	return list, nil
}
