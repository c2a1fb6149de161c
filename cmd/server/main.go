package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/obiano/walletpay/internal/adapter/gateway/paystack"
	httpAdapter "github.com/obiano/walletpay/internal/adapter/http"
	"github.com/obiano/walletpay/internal/adapter/http/handler"
	"github.com/obiano/walletpay/internal/adapter/http/middleware"
	postgresRepo "github.com/obiano/walletpay/internal/adapter/repository/postgres"
	redisRepo "github.com/obiano/walletpay/internal/adapter/repository/redis"
	"github.com/obiano/walletpay/internal/infrastructure/auth"
	"github.com/obiano/walletpay/internal/infrastructure/config"
	"github.com/obiano/walletpay/internal/infrastructure/logger"
	"github.com/obiano/walletpay/internal/infrastructure/metrics"
	"github.com/obiano/walletpay/internal/infrastructure/postgres"
	"github.com/obiano/walletpay/internal/infrastructure/redis"
	"github.com/obiano/walletpay/internal/infrastructure/sweeper"
	"github.com/obiano/walletpay/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog

	minTopUp, err := decimal.NewFromString(cfg.MinTopUpAmount)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.MinTopUpAmount).Msg("invalid minimum top-up amount")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath()); err != nil {
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

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Payment gateway
	gateway := paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL, cfg.GatewayTimeout)
	verifier := paystack.NewSignatureVerifier(cfg.PaystackSecretKey)

	// Initialize use cases
	topUpUC := usecase.NewTopUpUseCase(walletRepo, ledgerRepo, gateway, idGen, minTopUp, cfg.DefaultCurrency, m)
	walletUC := usecase.NewWalletUseCase(walletRepo, ledgerRepo, cfg.DefaultCurrency)
	reconcileUC := usecase.NewReconcileUseCase(txManager, ledgerRepo, walletRepo, retrier, m)

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	sweepUC := usecase.NewSweepUseCase(txManager, ledgerRepo, gateway, reconcileUC, cfg.TopUpAbandonAfter, cfg.SweepBatchSize, slogger)

	// Initialize handlers
	paymentHandler := handler.NewPaymentHandler(topUpUC, walletUC)
	webhookHandler := handler.NewWebhookHandler(verifier, reconcileUC, zlog, m)
	adminHandler := handler.NewAdminHandler(sweepUC, walletUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PaymentHandler:   paymentHandler,
		WebhookHandler:   webhookHandler,
		AdminHandler:     adminHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		JWTManager:       jwtManager,
		AuthEnabled:      cfg.AuthEnabled,
		Logger:           zlog,
	})

	// Background sweeper for stale PENDING entries
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()

	sw := sweeper.New(sweeper.Config{
		Sweep:    sweepUC,
		Logger:   slogger,
		Metrics:  m,
		Interval: cfg.SweepInterval,
	})
	go func() {
		if err := sw.Start(sweepCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("sweeper stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopSweeper()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func migrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}
	return "migrations"
}
