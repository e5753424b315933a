package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	orderstypes "github.com/Apurer/store-orders-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

// Service is the order lifecycle engine. It holds no state of its own; every
// operation runs inside one unit of work over the repositories.
type Service struct {
	orders    ports.Repository
	directory ports.StoreDirectory
	inventory ports.InventoryLedger
	publisher ports.Publisher
	uow       ports.UnitOfWork
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Service)

// WithClock replaces the wall clock used for order dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for failures the engine absorbs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(
	orders ports.Repository,
	directory ports.StoreDirectory,
	inventory ports.InventoryLedger,
	publisher ports.Publisher,
	uow ports.UnitOfWork,
	opts ...Option,
) *Service {
	s := &Service{
		orders:    orders,
		directory: directory,
		inventory: inventory,
		publisher: publisher,
		uow:       uow,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if s.uow == nil {
		s.uow = directUnitOfWork{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder attaches the canonical store, links the order associations,
// withdraws every line item from store inventory and persists the order. A
// failure at any step rolls back the stock already withdrawn.
func (s *Service) CreateOrder(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return mapError(err)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context) error {
		store, err := s.directory.GetStoreByID(ctx, order.Store.ID)
		if err != nil {
			return lookupError(err, fmt.Sprintf("no store found with id: %d", order.Store.ID))
		}
		order.AttachStore(domain.StoreRef{ID: store.ID, Email: store.Email})
		order.LinkAssociations()

		for _, item := range order.Items {
			product, err := s.inventory.FindProductByStoreAndCode(ctx, store.ID, item.Code)
			if err != nil {
				return lookupError(err, fmt.Sprintf("no product found with code %s for store %d", item.Code, store.ID))
			}
			product.Withdraw(item.Quantity)
			if err := s.inventory.SaveProduct(ctx, product); err != nil {
				return err
			}
		}

		order.MarkCreated(s.now())
		if err := s.orders.Create(ctx, order); err != nil {
			return duplicateOrder(err, order.ID)
		}
		return nil
	})
}

// DispatchOrder moves an order owned by the caller to DISPATCHED and, once
// the change is committed, publishes the dispatched notification.
func (s *Service) DispatchOrder(ctx context.Context, input orderstypes.DispatchOrderInput) error {
	var dispatched *domain.Order
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return orderNotFound(input.OrderID)
			}
			return err
		}
		if err := order.EnsureNotDelivered(); err != nil {
			return alreadyDelivered(order)
		}
		// Non-owners get the same answer as a missing order.
		if !order.OwnedBy(input.CallerEmail) {
			return orderNotFound(input.OrderID)
		}
		if err := order.Dispatch(input.RequestedState, s.now()); err != nil {
			return mapError(err)
		}
		if err := s.orders.Save(ctx, order); err != nil {
			return err
		}
		dispatched = order
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, domain.DispatchedDestination, domain.DispatchedRoutingKey, dispatched.Clone()); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "dispatch notification not published",
			slog.Int64("order.id", dispatched.ID),
			slog.String("destination", domain.DispatchedDestination),
			slog.String("routing_key", domain.DispatchedRoutingKey),
			slog.String("error", err.Error()))
	}
	return nil
}

// ListOrdersForStore returns one page of the caller's orders, sorted by id.
func (s *Service) ListOrdersForStore(ctx context.Context, callerEmail string, page pagination.Request) (pagination.Page[*domain.Order], error) {
	store, err := s.directory.GetStoreByEmail(ctx, callerEmail)
	if err != nil {
		return pagination.Page[*domain.Order]{}, lookupError(err, "no store found with email: "+callerEmail)
	}
	orders, err := s.orders.ListByStore(ctx, store.ID)
	if err != nil {
		return pagination.Page[*domain.Order]{}, err
	}
	pagination.SortByID(orders, func(o *domain.Order) int64 { return o.ID })
	result := pagination.Slice(orders, page)
	if result.Empty() {
		return pagination.Page[*domain.Order]{}, apperrors.NotFound("no orders found")
	}
	return result, nil
}

// ApplyDeliveryUpdate records an external delivery report. It overwrites
// state and delivery date without the guards DispatchOrder applies.
func (s *Service) ApplyDeliveryUpdate(ctx context.Context, update domain.OrderDelivered) error {
	state := update.State
	if state == "" {
		state = domain.StateDelivered
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, update.OrderID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return orderNotFound(update.OrderID)
			}
			return err
		}
		previous := order.State
		if err := order.ApplyDelivery(state, update.DeliveredOn); err != nil {
			return mapError(err)
		}
		if previous != domain.StateDispatched {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "delivery update applied outside the dispatch flow",
				slog.Int64("order.id", order.ID),
				slog.String("previous_state", string(previous)),
				slog.String("state", string(order.State)))
		}
		return s.orders.Save(ctx, order)
	})
}

// GetOrder returns an order owned by the caller.
func (s *Service) GetOrder(ctx context.Context, id int64, callerEmail string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, orderNotFound(id)
		}
		return nil, err
	}
	if !order.OwnedBy(callerEmail) {
		return nil, orderNotFound(id)
	}
	return order, nil
}

// directUnitOfWork runs fn without a transaction. Used when no unit of work is wired.
type directUnitOfWork struct{}

func (directUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ ports.Service = (*Service)(nil)
