package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	catalogmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
	ordersmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/application"
	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
	"github.com/Shreejal-khatri/ElectronicStore/internal/platform/migrations"
	platformobservability "github.com/Shreejal-khatri/ElectronicStore/internal/platform/observability"
	platformpostgres "github.com/Shreejal-khatri/ElectronicStore/internal/platform/postgres"
	orderactivities "github.com/Shreejal-khatri/ElectronicStore/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Shreejal-khatri/ElectronicStore/internal/platform/temporal/workflows/orders"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	const serviceName = "electronic-store-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectPostgres(ctx, logger)
	defer cleanupDB()

	productRepo, ledger := buildCatalog(db)
	orderRepo, idempotencyStore := buildOrderStorage(db)
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo, productRepo, ledger,
			ordersapp.WithIdempotencyStore(idempotencyStore),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderCreationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func connectPostgres(ctx context.Context, logger *slog.Logger) (*gorm.DB, func()) {
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		logger.Warn("POSTGRES_DSN not set, worker falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres (falling back to memory)", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to run migrations (falling back to memory)", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection (falling back to memory)", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("worker repositories configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildCatalog(db *gorm.DB) (catalogports.Repository, catalogports.Ledger) {
	if db == nil {
		repo := catalogmemory.NewRepository()
		return repo, repo
	}
	repo := catalogpostgres.NewRepository(db)
	return repo, repo
}

func buildOrderStorage(db *gorm.DB) (orderports.Repository, orderports.IdempotencyStore) {
	if db == nil {
		return ordersmemory.NewRepository(), ordersmemory.NewIdempotencyStore()
	}
	return orderspostgres.NewRepository(db), orderspostgres.NewIdempotencyStore(db)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
