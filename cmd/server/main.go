package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/splitledger/internal/adapter/http"
	"github.com/iho/splitledger/internal/adapter/http/handler"
	"github.com/iho/splitledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/splitledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/splitledger/internal/adapter/repository/redis"
	"github.com/iho/splitledger/internal/infrastructure/auth"
	"github.com/iho/splitledger/internal/infrastructure/config"
	"github.com/iho/splitledger/internal/infrastructure/logger"
	"github.com/iho/splitledger/internal/infrastructure/postgres"
	"github.com/iho/splitledger/internal/infrastructure/redis"
	"github.com/iho/splitledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
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

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	groupRepo := postgresRepo.NewGroupRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	expenseUC := usecase.NewExpenseUseCase(txManager, expenseRepo, transferRepo, groupRepo, userRepo, idGen, cache)
	settlementUC := usecase.NewSettlementUseCase(txManager, expenseRepo, transferRepo, retrier, cache)
	balanceUC := usecase.NewBalanceUseCase(transferRepo, cache)
	groupUC := usecase.NewGroupUseCase(groupRepo, userRepo, idGen)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	// JWT manager, only when a secret is configured
	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Initialize handlers
	expenseHandler := handler.NewExpenseHandler(expenseUC, settlementUC)
	groupHandler := handler.NewGroupHandler(groupUC)
	userHandler := handler.NewUserHandler(userUC, balanceUC, jwtManager)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ExpenseHandler:   expenseHandler,
		GroupHandler:     groupHandler,
		UserHandler:      userHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		JWTManager:       jwtManager,
		AuthEnabled:      cfg.AuthEnabled,
		Logger:           appLogger,
	})

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

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
