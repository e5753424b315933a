package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"

	storeserver "github.com/Apurer/store-orders-api/go"
	ordersmessaging "github.com/Apurer/store-orders-api/internal/domains/orders/adapters/messaging"
	ordersports "github.com/Apurer/store-orders-api/internal/domains/orders/ports"
	storesports "github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	platformkafka "github.com/Apurer/store-orders-api/internal/platform/kafka"
	platformobservability "github.com/Apurer/store-orders-api/internal/platform/observability"
)

const serviceName = "store-orders-api"

// Run boots the store orders HTTP API and, when enabled, the order event
// consumer. It returns when ctx is cancelled, on SIGINT/SIGTERM, or when a
// component fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	publisher, closePublisher, err := NewPublisher(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to configure publisher: %w", err)
	}
	defer closePublisher()

	backends, err := NewBackends(ctx, cfg, instruments, publisher)
	if err != nil {
		return err
	}
	defer backends.Close()

	orchestrator, closeOrchestrator := NewOrchestrator(backends, func() (client.Client, error) {
		return DialTemporal(cfg, instruments)
	}, logger.With(slog.String("namespace", cfg.TemporalNamespace)))
	defer closeOrchestrator()

	storeAPI := storeserver.NewStoreAPI(backends.Stores)
	sessionAPI := storeserver.NewSessionAPI(backends.Stores)
	orderAPI := storeserver.NewOrderAPI(backends.Orders)
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := storeserver.NewRouterWithGinEngine(engine, storeserver.ApiHandleFunctions{
		StoreAPI:      storeAPI,
		SessionAPI:    sessionAPI,
		OrderAPI:      orderAPI,
		Authenticator: backends.Stores,
	})
	server := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("store orders API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.ConsumerEnabled {
		consumer, err := newConsumer(cfg, orchestrator, instruments)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			defer consumer.Close()
			logger.Info("order event consumer started", slog.Any("topics", ordersmessaging.Topics()))
			return consumer.Run(gctx)
		})
	}
	if cfg.SessionPurgeInterval > 0 {
		g.Go(func() error {
			purgeSessions(gctx, backends.Sessions, cfg.SessionPurgeInterval, logger)
			return nil
		})
	}
	return g.Wait()
}

// newConsumer opens one group reader per inbound topic so a stuck topic does
// not hold back the other.
func newConsumer(cfg Config, orchestrator ordersports.EventOrchestrator, instruments *platformobservability.Instruments) (*ordersmessaging.Consumer, error) {
	readers := make([]ordersmessaging.MessageReader, 0, len(ordersmessaging.Topics()))
	for _, topic := range ordersmessaging.Topics() {
		reader, err := platformkafka.NewReader(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{topic})
		if err != nil {
			for _, r := range readers {
				_ = r.Close()
			}
			return nil, fmt.Errorf("kafka reader for %s: %w", topic, err)
		}
		readers = append(readers, reader)
	}
	return ordersmessaging.NewConsumer(orchestrator, readers,
		ordersmessaging.WithConsumerLogger(instruments.Logger),
		ordersmessaging.WithConsumerTracer(instruments.Tracer("internal.orders.consumer")),
	), nil
}

func purgeSessions(ctx context.Context, sessions storesports.SessionStore, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := sessions.PurgeExpired(ctx, now)
			if err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("expired sessions purged", slog.Int64("removed", removed))
		}
	}
}
