package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	storestypes "github.com/Apurer/store-orders-api/internal/domains/stores/application/types"
	"github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	"github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

// DefaultSessionTTL applies when no TTL option is supplied.
const DefaultSessionTTL = 24 * time.Hour

// Service implements the store and product directory.
type Service struct {
	stores     ports.Repository
	products   ports.ProductRepository
	sessions   ports.SessionStore
	sessionTTL time.Duration
	now        func() time.Time
	newToken   func() string
}

type Option func(*Service)

// WithSessionTTL overrides how long issued sessions stay valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(stores ports.Repository, products ports.ProductRepository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		stores:     stores,
		products:   products,
		sessions:   sessions,
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
		newToken:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) RegisterStore(ctx context.Context, input storestypes.RegisterStoreInput) (*domain.Store, error) {
	store, err := domain.NewStore(input.CNPJ, input.CorporateName, input.Email, input.Phone, input.Password)
	if err != nil {
		return nil, mapError(err)
	}
	conflicts, err := s.stores.Conflicts(ctx, store.CNPJ, store.Email, store.Phone)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, duplicateStoreError(conflicts)
	}
	created, err := s.stores.Create(ctx, store)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (s *Service) GetStoreByID(ctx context.Context, id int64) (*domain.Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, storeNotFound(err, "no store found with id: %d", id)
	}
	return store, nil
}

func (s *Service) GetStoreByEmail(ctx context.Context, email string) (*domain.Store, error) {
	email = normalizeEmail(email)
	store, err := s.stores.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeNotFound(err, "no store found with email: %s", email)
	}
	return store, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return ports.Session{}, mapError(ports.ErrInvalidCredentials)
	}
	store, err := s.stores.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.Session{}, mapError(ports.ErrInvalidCredentials)
		}
		return ports.Session{}, err
	}
	if !store.CheckPassword(password) {
		return ports.Session{}, mapError(ports.ErrInvalidCredentials)
	}
	session := ports.Session{
		Token:     s.newToken(),
		Email:     store.Email,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return ports.Session{}, err
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token to the email of the store that owns it.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", mapError(ports.ErrSessionNotFound)
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return "", mapError(err)
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return "", mapError(ports.ErrSessionNotFound)
	}
	return session.Email, nil
}

func (s *Service) AddProduct(ctx context.Context, ownerEmail string, input storestypes.AddProductInput) (*domain.Product, error) {
	store, err := s.GetStoreByEmail(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(store.ID, input.Code, input.Name, input.Description, input.Price, input.Quantity)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.products.FindByStoreAndCode(ctx, store.ID, product.Code); err == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, ports.ErrDuplicateProduct, "product with code %s already registered", product.Code)
	} else if !errors.Is(err, ports.ErrProductNotFound) {
		return nil, err
	}
	created, err := s.products.Create(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

// GetProduct returns a product owned by the caller's store. Products of other
// stores are reported as missing.
func (s *Service) GetProduct(ctx context.Context, ownerEmail string, id int64) (*domain.Product, error) {
	store, err := s.GetStoreByEmail(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, productNotFound(err, "no product found with id: %d", id)
	}
	if product.StoreID != store.ID {
		return nil, apperrors.NotFound("no product found with id: %d", id)
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, ownerEmail string, page pagination.Request) (pagination.Page[*domain.Product], error) {
	store, err := s.GetStoreByEmail(ctx, ownerEmail)
	if err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	return s.pageProducts(ctx, store.ID, page)
}

// ListStoreProducts is the public catalog of a store, addressed by id.
func (s *Service) ListStoreProducts(ctx context.Context, storeID int64, page pagination.Request) (pagination.Page[*domain.Product], error) {
	store, err := s.GetStoreByID(ctx, storeID)
	if err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	return s.pageProducts(ctx, store.ID, page)
}

func (s *Service) pageProducts(ctx context.Context, storeID int64, page pagination.Request) (pagination.Page[*domain.Product], error) {
	products, err := s.products.ListByStore(ctx, storeID)
	if err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	pagination.SortByID(products, func(p *domain.Product) int64 { return p.ID })
	result := pagination.Slice(products, page)
	if result.Empty() {
		return pagination.Page[*domain.Product]{}, apperrors.NotFound("no products found")
	}
	return result, nil
}

// UpdateProduct replaces the catalog fields and stock of one of the caller's
// products. The new code must not collide with another product of the store.
func (s *Service) UpdateProduct(ctx context.Context, ownerEmail string, id int64, input storestypes.UpdateProductInput) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, ownerEmail, id)
	if err != nil {
		return nil, err
	}
	if err := product.Revise(input.Code, input.Name, input.Description, input.Price, input.Quantity); err != nil {
		return nil, mapError(err)
	}
	if other, err := s.products.FindByStoreAndCode(ctx, product.StoreID, product.Code); err == nil && other.ID != product.ID {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, ports.ErrDuplicateProduct, "product with code %s already registered", product.Code)
	} else if err != nil && !errors.Is(err, ports.ErrProductNotFound) {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) ChangeProductPrice(ctx context.Context, ownerEmail string, id int64, price decimal.Decimal) (*domain.Product, error) {
	if price.IsNegative() {
		return nil, mapError(domain.ErrNegativePrice)
	}
	product, err := s.GetProduct(ctx, ownerEmail, id)
	if err != nil {
		return nil, err
	}
	if err := product.ChangePrice(price); err != nil {
		return nil, mapError(err)
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// DeleteProduct removes one of the caller's products. Orders already placed
// keep their line items, which reference products by code only.
func (s *Service) DeleteProduct(ctx context.Context, ownerEmail string, id int64) error {
	product, err := s.GetProduct(ctx, ownerEmail, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		return productNotFound(err, "no product found with id: %d", id)
	}
	return nil
}

func (s *Service) FindProductByStoreAndCode(ctx context.Context, storeID int64, code string) (*domain.Product, error) {
	product, err := s.products.FindByStoreAndCode(ctx, storeID, code)
	if err != nil {
		return nil, productNotFound(err, "no product found with code %s for store %d", code, storeID)
	}
	return product, nil
}

func (s *Service) SaveProduct(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return mapError(err)
	}
	return s.products.Save(ctx, product)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ ports.Service = (*Service)(nil)
