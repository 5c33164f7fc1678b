package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custodial-wallet/config"
	chainAdapter "custodial-wallet/internal/adapter/chain"
	httpHandler "custodial-wallet/internal/adapter/http/handler"
	memStorage "custodial-wallet/internal/adapter/storage/memory"
	pgStorage "custodial-wallet/internal/adapter/storage/postgres"
	redisStorage "custodial-wallet/internal/adapter/storage/redis"
	"custodial-wallet/internal/core/ports"
	"custodial-wallet/internal/service"
	"custodial-wallet/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure via environment.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("store", cfg.Store.Backend).
		Int("port", cfg.Server.Port).
		Msg("Starting Custodial Wallet")

	ctx := context.Background()

	// Initialize store backend
	var (
		userRepo       ports.UserRepository
		txRepo         ports.TransactionRepository
		cryptoRepo     ports.CryptoTransactionRepository
		recipientRepo  ports.RecipientRepository
		transactor     ports.DBTransactor
		healthCheckers []ports.HealthChecker
	)

	switch cfg.Store.Backend {
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		userRepo = pgStorage.NewUserRepo(pool)
		txRepo = pgStorage.NewTransactionRepo(pool)
		cryptoRepo = pgStorage.NewCryptoRepo(pool)
		recipientRepo = pgStorage.NewRecipientRepo(pool)
		transactor = pgStorage.NewTransactor(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))

	case "memory":
		store := memStorage.NewStore()
		userRepo = memStorage.NewUserRepo(store)
		txRepo = memStorage.NewTransactionRepo(store)
		cryptoRepo = memStorage.NewCryptoRepo(store)
		recipientRepo = memStorage.NewRecipientRepo(store)
		transactor = memStorage.NewTransactor(store)
		log.Info().Msg("In-memory store initialized")

	default:
		log.Fatal().Str("backend", cfg.Store.Backend).Msg("Unknown store backend")
	}

	// Redis is optional: it backs rate limiting and the recipient cache.
	var (
		rateLimitStore *redisStorage.RateLimitStore
		recipientCache ports.RecipientCache
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		recipientCache = redisStorage.NewRecipientCache(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	// Chain submission is optional: without it sends settle with a locally
	// generated hash.
	var submitter ports.ChainSubmitter
	if cfg.Chain.Enabled {
		submitter = chainAdapter.NewClient(cfg.Chain, nil, log)
		log.Info().Str("network", cfg.Chain.Network).Str("rpc_url", cfg.Chain.RPCURL).Msg("Chain submission enabled")
	}

	// The identity gate is optional: without it the demo trusts the email
	// each request names.
	var tokenSvc ports.TokenService
	if cfg.Auth.Enabled {
		tokenSvc = service.NewJWTTokenService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Expiry, cfg.Auth.JWT.Issuer)
	}

	// Initialize business services
	registrationSvc := service.NewRegistrationService(
		userRepo, txRepo, cryptoRepo, transactor,
		cfg.Chain.Network, cfg.Ledger.DefaultBalanceCents, log,
	)
	ledgerSvc := service.NewLedgerService(userRepo, txRepo, transactor, log)
	cryptoSvc := service.NewCryptoService(userRepo, cryptoRepo, transactor, submitter, cfg.Chain.Network, log)
	recipientSvc := service.NewRecipientService(recipientRepo, recipientCache, log)
	statementSvc := service.NewStatementService(ledgerSvc)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		RegistrationSvc: registrationSvc,
		LedgerSvc:       ledgerSvc,
		CryptoSvc:       cryptoSvc,
		RecipientSvc:    recipientSvc,
		StatementSvc:    statementSvc,
		TokenSvc:        tokenSvc,
		RateLimitStore:  rateLimitStore,
		HealthCheckers:  healthCheckers,
		Logger:          log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
