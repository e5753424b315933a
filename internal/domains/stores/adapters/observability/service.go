package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/shopspring/decimal"

	storestypes "github.com/Apurer/store-orders-api/internal/domains/stores/application/types"
	storesdomain "github.com/Apurer/store-orders-api/internal/domains/stores/domain"
	storesports "github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	"github.com/Apurer/store-orders-api/internal/shared/pagination"
)

const tracerName = "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/observability/service"

// Service decorates the store directory with tracing, logging, and metrics.
type Service struct {
	inner   storesports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core store directory service.
func New(inner storesports.Service, opts ...Option) storesports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) RegisterStore(ctx context.Context, input storestypes.RegisterStoreInput) (*storesdomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.RegisterStore", trace.WithAttributes(attribute.String("store.email", input.Email)))
	defer span.End()
	s.logInfo(ctx, "registering store", slog.String("store.email", input.Email))
	result, err := s.inner.RegisterStore(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register store", slog.String("store.email", input.Email))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "store registered", slog.Int64("store.id", result.ID))
	return result, nil
}

func (s *Service) GetStoreByID(ctx context.Context, id int64) (*storesdomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.GetStoreByID", trace.WithAttributes(attribute.Int64("store.id", id)))
	defer span.End()
	result, err := s.inner.GetStoreByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load store", slog.Int64("store.id", id))
	}
	return result, nil
}

func (s *Service) GetStoreByEmail(ctx context.Context, email string) (*storesdomain.Store, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.GetStoreByEmail", trace.WithAttributes(attribute.String("store.email", email)))
	defer span.End()
	result, err := s.inner.GetStoreByEmail(ctx, email)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load store", slog.String("store.email", email))
	}
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (storesports.Session, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.Login", trace.WithAttributes(attribute.String("store.email", email)))
	defer span.End()
	session, err := s.inner.Login(ctx, email, password)
	if err != nil {
		return storesports.Session{}, s.handleError(ctx, span, err, "login failed", slog.String("store.email", email))
	}
	s.metrics.recordLogin(ctx)
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.Authenticate")
	defer span.End()
	email, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("store.email", email))
	return email, nil
}

func (s *Service) AddProduct(ctx context.Context, ownerEmail string, input storestypes.AddProductInput) (*storesdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.AddProduct",
		trace.WithAttributes(attribute.String("store.email", ownerEmail), attribute.String("product.code", input.Code)))
	defer span.End()
	s.logInfo(ctx, "adding product", slog.String("store.email", ownerEmail), slog.String("product.code", input.Code))
	result, err := s.inner.AddProduct(ctx, ownerEmail, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add product", slog.String("product.code", input.Code))
	}
	s.metrics.recordProductAdded(ctx)
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, ownerEmail string, id int64) (*storesdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	result, err := s.inner.GetProduct(ctx, ownerEmail, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) ListProducts(ctx context.Context, ownerEmail string, page pagination.Request) (pagination.Page[*storesdomain.Product], error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ListProducts",
		trace.WithAttributes(attribute.String("store.email", ownerEmail), attribute.Int("page.number", page.Page)))
	defer span.End()
	result, err := s.inner.ListProducts(ctx, ownerEmail, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list products", slog.String("store.email", ownerEmail))
	}
	span.SetAttributes(attribute.Int("page.items", len(result.Items)))
	return result, nil
}

func (s *Service) ListStoreProducts(ctx context.Context, storeID int64, page pagination.Request) (pagination.Page[*storesdomain.Product], error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ListStoreProducts",
		trace.WithAttributes(attribute.Int64("store.id", storeID), attribute.Int("page.number", page.Page)))
	defer span.End()
	result, err := s.inner.ListStoreProducts(ctx, storeID, page)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list store catalog", slog.Int64("store.id", storeID))
	}
	span.SetAttributes(attribute.Int("page.items", len(result.Items)))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, ownerEmail string, id int64, input storestypes.UpdateProductInput) (*storesdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.UpdateProduct",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.String("product.code", input.Code)))
	defer span.End()
	result, err := s.inner.UpdateProduct(ctx, ownerEmail, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.Int64("product.id", id), slog.String("store.email", ownerEmail))
	return result, nil
}

func (s *Service) ChangeProductPrice(ctx context.Context, ownerEmail string, id int64, price decimal.Decimal) (*storesdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.ChangeProductPrice",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.String("product.price", price.String())))
	defer span.End()
	result, err := s.inner.ChangeProductPrice(ctx, ownerEmail, id, price)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change product price", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product price changed", slog.Int64("product.id", id), slog.String("product.price", price.String()))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, ownerEmail string, id int64) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	if err := s.inner.DeleteProduct(ctx, ownerEmail, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.metrics.recordProductDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id), slog.String("store.email", ownerEmail))
	return nil
}

func (s *Service) FindProductByStoreAndCode(ctx context.Context, storeID int64, code string) (*storesdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "StoreService.FindProductByStoreAndCode",
		trace.WithAttributes(attribute.Int64("store.id", storeID), attribute.String("product.code", code)))
	defer span.End()
	result, err := s.inner.FindProductByStoreAndCode(ctx, storeID, code)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to find product", slog.Int64("store.id", storeID), slog.String("product.code", code))
	}
	return result, nil
}

func (s *Service) SaveProduct(ctx context.Context, product *storesdomain.Product) error {
	ctx, span := s.tracer.Start(ctx, "StoreService.SaveProduct",
		trace.WithAttributes(attribute.Int64("product.id", product.ID), attribute.Int64("product.quantity", product.Quantity)))
	defer span.End()
	if err := s.inner.SaveProduct(ctx, product); err != nil {
		return s.handleError(ctx, span, err, "failed to save product", slog.Int64("product.id", product.ID))
	}
	if product.Quantity < 0 {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "product stock below zero",
			slog.Int64("product.id", product.ID), slog.String("product.code", product.Code), slog.Int64("product.quantity", product.Quantity))
	}
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	storesRegistered metric.Int64Counter
	productsAdded    metric.Int64Counter
	productsDeleted  metric.Int64Counter
	logins           metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("stores.service.registered", metric.WithDescription("Number of stores registered"))
	products, _ := m.Int64Counter("stores.service.products_added", metric.WithDescription("Number of products added"))
	deleted, _ := m.Int64Counter("stores.service.products_deleted", metric.WithDescription("Number of products deleted"))
	logins, _ := m.Int64Counter("stores.service.logins", metric.WithDescription("Number of successful logins"))
	return serviceMetrics{storesRegistered: registered, productsAdded: products, productsDeleted: deleted, logins: logins}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.storesRegistered != nil {
		m.storesRegistered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordProductAdded(ctx context.Context) {
	if m.productsAdded != nil {
		m.productsAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordProductDeleted(ctx context.Context) {
	if m.productsDeleted != nil {
		m.productsDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ storesports.Service = (*Service)(nil)
