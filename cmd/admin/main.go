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

	"github.com/samims/ecowatt/internal/auth"
	"github.com/samims/ecowatt/internal/config"
	"github.com/samims/ecowatt/internal/handler"
	"github.com/samims/ecowatt/internal/kafka"
	"github.com/samims/ecowatt/internal/kv"
	"github.com/samims/ecowatt/internal/logger"
	"github.com/samims/ecowatt/internal/metrics"
	"github.com/samims/ecowatt/internal/notification"
	"github.com/samims/ecowatt/internal/router"
	"github.com/samims/ecowatt/internal/service"
	"github.com/samims/ecowatt/internal/storage"
	"github.com/samims/ecowatt/pkg/tracing"
)

const serviceName = "ecowatt-admin"

func main() {
	cfg, err := config.Load(serviceName, "8081")
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	l := logger.NewLogger(cfg.AppCfg.LogLevel)
	slog.SetDefault(l)
	metrics.Init()

	if cfg.AuthConfig.Secret == "" {
		l.Error("SECRET_KEY must be set for the admin API")
		os.Exit(1)
	}
	admins, err := auth.ParseStaticAdmins(cfg.AuthConfig.Admins)
	if err != nil {
		l.Error("Invalid ADMIN_USERS", slog.Any("error", err))
		os.Exit(1)
	}
	if admins.Len() == 0 {
		l.Warn("ADMIN_USERS is empty, nobody can log in")
	}
	tokenSvc := auth.NewJWTService(cfg.AuthConfig.Secret, cfg.AuthConfig.Expiry)

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
	redisStore := kv.NewRedisStorage(redisClient, 0)

	feed := notification.NewStore(ctx, kv.Scoped(redisStore, "admin"), notification.StorageKey, l,
		metrics.StoreHook("notifications"))
	notificationSvc := service.NewNotificationService(feed, l)

	leadStore := storage.NewLeadStorage(dbPool)
	adminHandler := handler.NewAdminHandler(handler.AdminServices{
		Leads:         service.NewLeadService(leadStore, kafka.NopPublisher{Log: l}, l),
		Catalog:       service.NewCatalogService(storage.NewCatalogStorage(dbPool), l),
		Content:       service.NewContentService(storage.NewContentStorage(dbPool), l),
		Notifications: notificationSvc,
		Users:         service.NewUserService(storage.NewUnavailableUserStorage(), storage.NewUnavailableVisitorStorage(), l),
	}, l)
	authHandler := handler.NewAuthHandler(service.NewAuthService(admins, tokenSvc, l), l)
	healthHandler := handler.NewHealthHandler(service.NewHealthService(map[string]service.Pinger{
		"postgres": leadStore,
		"redis":    redisStore,
	}, l), l)

	server := &http.Server{
		Addr:              ":" + cfg.AppCfg.Port,
		Handler:           router.NewAdminRouter(adminHandler, authHandler, healthHandler, tokenSvc, cfg.AppCfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if len(cfg.KafkaConfig.Brokers) > 0 {
		consumerGroup, err := sarama.NewConsumerGroup(
			cfg.KafkaConfig.Brokers,
			cfg.KafkaConfig.ConsumerGroup,
			kafka.NewConsumerConfig(serviceName+"-consumer"),
		)
		if err != nil {
			l.Error("Failed to create Kafka consumer group", slog.Any("error", err))
			os.Exit(1)
		}
		consumer := kafka.NewConsumer(cfg.KafkaConfig.EventsTopic, consumerGroup, notificationSvc, l)
		g.Go(func() error {
			if err := consumer.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		l.Warn("KAFKA_BROKERS not set, the notification feed will only show local changes")
	}

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
		l.Error("Admin stopped with error", slog.Any("error", err))
		return
	}
	l.Info("Admin exited cleanly")
}
