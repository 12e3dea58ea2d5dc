package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	catalogmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
	ordersevents "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/events"
	ordersmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/application"
	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
	usersmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/adapters/memory"
	usersobs "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/adapters/observability"
	userspostgres "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/adapters/persistence/postgres"
	usersredis "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/adapters/redis"
	usersapp "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/application"
	userports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/ports"
	"github.com/Shreejal-khatri/ElectronicStore/internal/httpapi"
	"github.com/Shreejal-khatri/ElectronicStore/internal/platform/migrations"
	platformobservability "github.com/Shreejal-khatri/ElectronicStore/internal/platform/observability"
	platformpostgres "github.com/Shreejal-khatri/ElectronicStore/internal/platform/postgres"
)

// Run boots the store HTTP API with observability, repositories, events, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "electronic-store-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
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

	db, cleanupDB := connectPostgres(ctx, cfg, logger)
	defer cleanupDB()

	productRepo, ledger := buildCatalog(db, logger)
	orderRepo, idempotencyStore := buildOrderStorage(db, logger)

	publisher, cleanupPublisher := buildEventPublisher(cfg, logger)
	defer cleanupPublisher()

	coreOrderService := ordersapp.NewService(orderRepo, productRepo, ledger,
		ordersapp.WithIdempotencyStore(idempotencyStore),
		ordersapp.WithEventPublisher(publisher),
	)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows orderports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	userService := buildUserService(cfg, db, logger, instruments)
	stopPurger := startSessionPurger(ctx, cfg, db, logger)
	defer stopPurger()

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Orders:    orderService,
		Workflows: orderWorkflows,
		Users:     userService,
	})
	router.Use(otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("store API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("store API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }
}

func buildCatalog(db *gorm.DB, logger *slog.Logger) (catalogports.Repository, catalogports.Ledger) {
	if db == nil {
		repo := catalogmemory.NewRepository()
		return repo, repo
	}
	logger.Info("catalog configured with postgres")
	repo := catalogpostgres.NewRepository(db)
	return repo, repo
}

func buildOrderStorage(db *gorm.DB, logger *slog.Logger) (orderports.Repository, orderports.IdempotencyStore) {
	if db == nil {
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore()
	}
	logger.Info("orders configured with postgres")
	return orderspostgres.NewRepository(db), orderspostgres.NewIdempotencyStore(db)
}

func buildEventPublisher(cfg Config, logger *slog.Logger) (orderports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
		return orderports.NoopPublisher, func() {}
	}
	publisher := ordersevents.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	logger.Info("order events configured with kafka", slog.String("topic", cfg.KafkaTopic))
	return publisher, func() { _ = publisher.Close() }
}

func buildUserService(cfg Config, db *gorm.DB, logger *slog.Logger, instruments *platformobservability.Instruments) userports.Service {
	var repo userports.Repository
	var sessions userports.SessionStore
	switch {
	case db != nil:
		repo = userspostgres.NewRepository(db)
		sessions = userspostgres.NewSessionStore(db, cfg.SessionTTL)
	default:
		repo = usersmemory.NewRepository()
		sessions = usersmemory.NewSessionStore()
	}
	if cfg.RedisAddr != "" {
		client := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
		sessions = usersredis.NewSessionStore(client, cfg.SessionTTL)
		logger.Info("sessions configured with redis", slog.String("addr", cfg.RedisAddr))
	}
	return usersobs.New(
		usersapp.NewService(repo, sessions),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)
}

// startSessionPurger periodically removes expired sessions when postgres
// sessions are in use. The standalone cmd/session-purger binary covers
// deployments that prefer an external scheduler.
func startSessionPurger(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) func() {
	if db == nil || cfg.SessionPurgeIntervalMinute <= 0 {
		return func() {}
	}
	store := userspostgres.NewSessionStore(db, cfg.SessionTTL)
	interval := time.Duration(cfg.SessionPurgeIntervalMinute) * time.Minute
	purgeCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-purgeCtx.Done():
				return
			case <-ticker.C:
				if err := store.PurgeExpired(purgeCtx); err != nil {
					logger.Warn("session purge failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
	logger.Info("session purger running", slog.String("interval", interval.String()))
	return cancel
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
