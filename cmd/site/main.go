package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"golang.org/x/sync/errgroup"

	"github.com/samims/ecowatt/internal/config"
	"github.com/samims/ecowatt/internal/handler"
	"github.com/samims/ecowatt/internal/kafka"
	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/logger"
	"github.com/samims/ecowatt/internal/metrics"
	"github.com/samims/ecowatt/internal/router"
	"github.com/samims/ecowatt/internal/service"
	"github.com/samims/ecowatt/internal/storage"
	"github.com/samims/ecowatt/internal/webhook"
	"github.com/samims/ecowatt/pkg/tracing"
)

const (
	serviceName = "ecowatt-site"
	// cartTTL is how long an untouched cart survives in redis.
	cartTTL = 30 * 24 * time.Hour
)

func main() {
	cfg, err := config.Load(serviceName, "8080")
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	l := logger.NewLogger(cfg.AppCfg.LogLevel)
	slog.SetDefault(l)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerShutdown, err := tracing.Setup(ctx, tracing.NewConfig(serviceName, cfg.OTLPEndpoint), l)
	if err != nil {
		l.Error("Failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			l.Warn("Tracer shutdown failed", slog.Any("error", err))
		}
	}()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.DBConfig)
	if err != nil {
		l.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient := kv.NewRedisClient(cfg.RedisConfig.URL)
	defer redisClient.Close()
	carts := kv.NewRedisStorage(redisClient, cartTTL)

	publisher, closePublisher, err := newPublisher(ctx, cfg, l)
	if err != nil {
		l.Error("Failed to create event producer", slog.Any("error", err))
		os.Exit(1)
	}
	defer closePublisher()

	notifier := webhook.NewNotifier(cfg.WebhookURL, nil, l)
	defer notifier.Wait()

	catalogStore := storage.NewCatalogStorage(dbPool)
	leadStore := storage.NewLeadStorage(dbPool)

	catalogSvc := service.NewCatalogService(catalogStore, l)
	contentSvc := service.NewContentService(storage.NewContentStorage(dbPool), l)
	leadSvc := service.NewLeadService(leadStore, publisher, l)
	cartSvc := service.NewCartService(service.CartDeps{
		Carts:     kv.Scoped(carts, "site"),
		Catalog:   catalogStore,
		Orders:    storage.NewOrderStorage(dbPool),
		Leads:     leadSvc,
		Notifier:  notifier,
		Publisher: publisher,
		StoreHook: metrics.StoreHook("cart"),
	}, l)
	healthSvc := service.NewHealthService(map[string]service.Pinger{
		"postgres": leadStore,
		"redis":    carts,
	}, l)

	siteHandler := handler.NewSiteHandler(catalogSvc, contentSvc, leadSvc, cartSvc, l)
	healthHandler := handler.NewHealthHandler(healthSvc, l)

	server := &http.Server{
		Addr:              ":" + cfg.AppCfg.Port,
		Handler:           router.NewSiteRouter(siteHandler, healthHandler, cfg.AppCfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("Server started", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AppCfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Error("Server stopped with error", slog.Any("error", err))
		return
	}
	l.Info("Server exited cleanly")
}

// newPublisher returns a sarama-backed publisher, or a logging no-op when
// no brokers are configured.
func newPublisher(ctx context.Context, cfg *config.Config, l *slog.Logger) (kafka.EventPublisher, func(), error) {
	if len(cfg.KafkaConfig.Brokers) == 0 {
		l.Warn("KAFKA_BROKERS not set, events will be dropped")
		return kafka.NopPublisher{Log: l}, func() {}, nil
	}

	asyncProducer, err := sarama.NewAsyncProducer(cfg.KafkaConfig.Brokers, kafka.NewSaramaConfig(serviceName+"-producer"))
	if err != nil {
		return nil, nil, err
	}
	producer, err := kafka.NewProducer(asyncProducer, cfg.KafkaConfig.EventsTopic, l)
	if err != nil {
		return nil, nil, err
	}
	producer.Start(ctx)
	return producer, producer.Close, nil
}
