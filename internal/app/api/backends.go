package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	ordersmemory "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/memory"
	ordersmessaging "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/messaging"
	ordersobs "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/store-orders-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	storesmemory "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/memory"
	storesobs "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/observability"
	storespostgres "github.com/Apurer/store-orders-api/internal/domains/stores/adapters/persistence/postgres"
	storesapp "github.com/Apurer/store-orders-api/internal/domains/stores/application"
	storesports "github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	platformkafka "github.com/Apurer/store-orders-api/internal/platform/kafka"
	"github.com/Apurer/store-orders-api/internal/platform/memtx"
	"github.com/Apurer/store-orders-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/store-orders-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/store-orders-api/internal/platform/postgres"
	platformsqs "github.com/Apurer/store-orders-api/internal/platform/sqs"
)

// Backends holds the decorated application services of one process.
type Backends struct {
	Stores   storesports.Service
	Orders   ordersports.Service
	Sessions storesports.SessionStore
	// Durable reports whether the services run on postgres.
	Durable bool

	closers []func()
}

// Close releases every resource acquired while building the backends, newest first.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// NewBackends wires repositories, the unit of work and the decorated services.
// Without a reachable POSTGRES_DSN the process runs on in-memory repositories.
func NewBackends(ctx context.Context, cfg Config, instruments *platformobservability.Instruments, publisher ordersports.Publisher) (*Backends, error) {
	logger := effectiveLogger(instruments)
	b := &Backends{}

	var (
		storeRepo   storesports.Repository
		productRepo storesports.ProductRepository
		sessions    storesports.SessionStore
		orderRepo   ordersports.Repository
		uow         ordersports.UnitOfWork
	)
	db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	b.closers = append(b.closers, cleanup)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			b.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
		storeRepo = storespostgres.NewStoreRepository(db)
		productRepo = storespostgres.NewProductRepository(db)
		sessions = storespostgres.NewSessionStore(db)
		orderRepo = orderspostgres.NewRepository(db)
		uow = platformpostgres.NewUnitOfWork(db)
		b.Durable = true
		logger.Info("repositories configured with postgres")
	} else {
		memStores := storesmemory.NewStoreRepository()
		memProducts := storesmemory.NewProductRepository()
		memOrders := ordersmemory.NewRepository()
		storeRepo, productRepo, orderRepo = memStores, memProducts, memOrders
		sessions = storesmemory.NewSessionStore()
		uow = memtx.New()
	}
	b.Sessions = sessions

	b.Stores = storesobs.New(
		storesapp.NewService(storeRepo, productRepo, sessions, storesapp.WithSessionTTL(cfg.SessionTTL)),
		storesobs.WithLogger(logger),
		storesobs.WithTracer(instruments.Tracer("internal.stores.application")),
		storesobs.WithMeter(instruments.Meter("internal.stores.application")),
	)
	if publisher == nil {
		publisher = ordersmessaging.NewLogPublisher(logger)
	}
	b.Orders = ordersobs.New(
		ordersapp.NewService(orderRepo, b.Stores, b.Stores, publisher, uow, ordersapp.WithLogger(logger)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return b, nil
}

// NewPublisher builds the notification publisher selected by cfg.Publisher.
// The returned func closes the underlying client.
func NewPublisher(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (ordersports.Publisher, func(), error) {
	logger := effectiveLogger(instruments)
	var (
		inner   ordersports.Publisher
		closeFn = func() {}
	)
	switch cfg.Publisher {
	case PublisherKafka:
		producer, err := platformkafka.NewProducer(cfg.KafkaBrokers, "store-orders-api")
		if err != nil {
			return nil, nil, err
		}
		inner = ordersmessaging.NewKafkaPublisher(producer)
		closeFn = producer.Close
	case PublisherSQS:
		sqsClient, err := platformsqs.NewClient(ctx, cfg.SQSRegion, cfg.SQSEndpoint)
		if err != nil {
			return nil, nil, err
		}
		inner = ordersmessaging.NewSQSPublisher(sqsClient, cfg.SQSQueueURL)
	default:
		inner = ordersmessaging.NewLogPublisher(logger)
	}
	logger.Info("order notifications configured", slog.String("publisher", cfg.Publisher))
	return ordersobs.NewPublisher(inner,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.publisher")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.publisher")),
	), closeFn, nil
}

// DialTemporal connects a traced Temporal client.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, fmt.Errorf("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// NewOrchestrator picks how consumed order events reach the order service.
// Temporal is used only over durable repositories: a worker process started
// on in-memory repositories would apply events to state the API never reads.
// The returned close func is never nil.
func NewOrchestrator(b *Backends, dial func() (client.Client, error), logger *slog.Logger) (ordersports.EventOrchestrator, func()) {
	inline := ordersworkflows.NewInlineOrderEvents(b.Orders)
	if logger == nil {
		logger = effectiveLogger(nil)
	}
	if !b.Durable {
		logger.Warn("in-memory repositories, handling order events inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, handling order events inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return ordersworkflows.NewTemporalOrderEvents(temporalClient), temporalClient.Close
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
