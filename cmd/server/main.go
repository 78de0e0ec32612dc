package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/motorbook/dealerledger/internal/adapter/http"
	"github.com/motorbook/dealerledger/internal/adapter/http/handler"
	"github.com/motorbook/dealerledger/internal/adapter/http/middleware"
	postgresRepo "github.com/motorbook/dealerledger/internal/adapter/repository/postgres"
	redisRepo "github.com/motorbook/dealerledger/internal/adapter/repository/redis"
	"github.com/motorbook/dealerledger/internal/infrastructure/auth"
	"github.com/motorbook/dealerledger/internal/infrastructure/config"
	"github.com/motorbook/dealerledger/internal/infrastructure/eventpublisher"
	"github.com/motorbook/dealerledger/internal/infrastructure/logger"
	"github.com/motorbook/dealerledger/internal/infrastructure/metrics"
	"github.com/motorbook/dealerledger/internal/infrastructure/postgres"
	"github.com/motorbook/dealerledger/internal/infrastructure/redis"
	"github.com/motorbook/dealerledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	vehicleRepo := postgresRepo.NewVehicleRepository(pool)
	settlementRepo := postgresRepo.NewSettlementRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	reportCache := redisRepo.NewCache(redisClient)

	// Use cases
	vehicleUC := usecase.NewVehicleUseCase(txManager, vehicleRepo, outboxRepo, auditRepo, idGen, m)
	ledgerUC := usecase.NewLedgerUseCase(txManager, vehicleRepo, settlementRepo, outboxRepo, auditRepo, idGen, m).
		WithRetrier(postgresRepo.NewRetrier())
	reportUC := usecase.NewReportUseCase(vehicleRepo, reportCache, appLogger)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	// Outbox publisher drains committed events in the background.
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(nil),
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	rateLimiter := middleware.NewRateLimiter(100, 200)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-publisherCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.Cleanup(30 * time.Minute)
			}
		}
	}()

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		log.Warn().Msg("authentication disabled")
	}

	// Handlers
	vehicleHandler := handler.NewVehicleHandler(vehicleUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	reportHandler := handler.NewReportHandler(reportUC)
	userHandler := handler.NewUserHandler(userUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var authHandler *handler.AuthHandler
	if jwtManager != nil {
		authHandler = handler.NewAuthHandler(userUC, jwtManager)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		VehicleHandler:   vehicleHandler,
		LedgerHandler:    ledgerHandler,
		ReportHandler:    reportHandler,
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		JWTManager:       jwtManager,
		Metrics:          m,
		Logger:           appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
