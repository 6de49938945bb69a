package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/bankcore/internal/adapter/http"
	"github.com/iho/bankcore/internal/adapter/http/handler"
	"github.com/iho/bankcore/internal/adapter/http/middleware"
	"github.com/iho/bankcore/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/bankcore/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankcore/internal/adapter/repository/redis"
	"github.com/iho/bankcore/internal/infrastructure/config"
	"github.com/iho/bankcore/internal/infrastructure/eventpublisher"
	"github.com/iho/bankcore/internal/infrastructure/metrics"
	"github.com/iho/bankcore/internal/infrastructure/postgres"
	"github.com/iho/bankcore/internal/infrastructure/redis"
	"github.com/iho/bankcore/internal/usecase"
)

const rateLimiterCleanupInterval = 10 * time.Minute

// storage is one complete set of repositories sharing a transaction manager.
type storage struct {
	txManager usecase.TransactionManager
	clients   usecase.ClientRepository
	accounts  usecase.AccountRepository
	ledger    usecase.TransactionRepository
	totals    usecase.LedgerRepository
	outbox    usecase.OutboxRepository
	retrier   usecase.Retrier
	checks    map[string]handler.HealthCheck
	closers   []func()
}

func newMemoryStorage() *storage {
	store := memory.NewStore()

	return &storage{
		txManager: memory.NewTxManager(store),
		clients:   memory.NewClientRepository(store),
		accounts:  memory.NewAccountRepository(store),
		ledger:    memory.NewTransactionRepository(store),
		totals:    memory.NewLedgerRepository(store),
		outbox:    memory.NewOutboxRepository(store),
		checks:    map[string]handler.HealthCheck{},
	}
}

func newPostgresStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*storage, error) {
	if cfg.AutoMigrate {
		if err := postgres.NewMigrator(cfg.DatabaseURL, log).Up(); err != nil {
			return nil, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &storage{
		txManager: postgresRepo.NewTxManager(pool),
		clients:   postgresRepo.NewClientRepository(pool),
		accounts:  postgresRepo.NewAccountRepository(pool),
		ledger:    postgresRepo.NewTransactionRepository(pool),
		totals:    postgresRepo.NewLedgerRepository(pool),
		outbox:    postgresRepo.NewOutboxRepository(pool),
		retrier:   postgresRepo.NewRetrier(log, m),
		checks: map[string]handler.HealthCheck{
			"postgres": pool.Ping,
		},
		closers: []func(){pool.Close},
	}, nil
}

// app is the wired service.
type app struct {
	router      http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	m := metrics.NewWithRegisterer(reg)

	var (
		store *storage
		err   error
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		store = newMemoryStorage()
		log.Warn().Msg("using in-memory storage; data is lost on restart")
	default:
		store, err = newPostgresStorage(ctx, cfg, log, m)
		if err != nil {
			return nil, err
		}
	}

	a := &app{closers: store.closers}

	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Msg("connected to redis")

		a.closers = append(a.closers, func() { redisClient.Close() })
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		store.checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		a.closers = append(a.closers, func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close kafka publisher")
			}
		})
		publisher = kafkaPublisher
	}

	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.outbox,
		Publisher:  publisher,
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})

	// Initialize use cases
	idGen := postgresRepo.NewULIDGenerator()
	clientUC := usecase.NewClientUseCase(store.txManager, store.clients, store.accounts, store.ledger, idGen, m)
	accountUC := usecase.NewAccountUseCase(store.txManager, store.accounts, store.clients, idGen,
		postgresRepo.NewAccountNumberGenerator(), cfg.AccountNumberAttempts, m)
	transactionUC := usecase.NewTransactionUseCase(store.txManager, store.accounts, store.clients, store.ledger,
		store.outbox, idGen, store.retrier, m)
	statementUC := usecase.NewStatementUseCase(store.accounts, store.clients, transactionUC)
	reconciliationUC := usecase.NewReconciliationUseCase(store.txManager, store.accounts, store.ledger, store.totals, m)
	gate := usecase.NewClientStatusGate(store.accounts, store.clients)

	a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	a.router = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ClientHandler:      handler.NewClientHandler(clientUC),
		AccountHandler:     handler.NewAccountHandler(accountUC, gate),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, statementUC),
		LedgerHandler:      handler.NewLedgerHandler(reconciliationUC),
		HealthHandler:      handler.NewHealthHandler(store.checks),
		Logger:             log,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		RateLimiter:        a.rateLimiter,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
	})

	return a, nil
}
