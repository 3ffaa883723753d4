package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sdrt-erp/budget-ledger/internal/config"
	"github.com/sdrt-erp/budget-ledger/internal/data/mongo"
	"github.com/sdrt-erp/budget-ledger/internal/data/postgres"
	"github.com/sdrt-erp/budget-ledger/internal/gateway"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/service"
	"github.com/sdrt-erp/budget-ledger/internal/logger"
	"github.com/sdrt-erp/budget-ledger/internal/outbox_poller"
	"github.com/sdrt-erp/budget-ledger/internal/platform/cache"
	"github.com/sdrt-erp/budget-ledger/internal/platform/messaging/producers"
	"github.com/sdrt-erp/budget-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("budget_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for the commitment event stream
	kafkaProducer, err := producers.NewCommitmentEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize commitment event producer", "error", err)
		os.Exit(1)
	}

	// Optional catalog existence cache; a missing address disables it
	catalogCache := cache.NewCatalogCache(appCtx, log, &cfg.Redis)

	// Initialize repositories
	budgetRepo := postgres.NewBudgetRepository(log, postgresDB)
	catalogRepo := postgres.NewCatalogRepository(log, postgresDB)
	orderRepo := postgres.NewOrderRepository(log, postgresDB)
	requisitionRepo := postgres.NewRequisitionRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	commitmentRepo := mongo.NewCommitmentRepository(log, mongoDB.Database())

	// Initialize services
	catalogService := service.NewCatalogService(log, catalogRepo, budgetRepo, orderRepo, catalogCache, &cfg.Catalog)
	ledgerService := service.NewLedgerService(log, budgetRepo, catalogService)
	commitmentService := service.NewCommitmentService(
		log, postgresDB, budgetRepo, orderRepo, requisitionRepo, outboxRepo, commitmentRepo,
		cfg.Catalog.DefaultUnitOfMeasure,
	)

	// Initialize the outbox poller that moves commitment entries to the query
	// store and the event stream
	publisher := outbox_poller.NewCommitmentPublisher(outboxRepo, commitmentRepo, kafkaProducer, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, publisher, log)
	go poller.Start(appCtx)
	log.Info("Outbox poller started")

	// Initialize REST server
	server := gateway.NewServer(log, cfg, ledgerService, commitmentService, catalogService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context; this also stops the poller
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new work arrives
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	postgresDB.Close()

	if err = kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if err = catalogCache.Close(); err != nil {
		log.Error("Error closing catalog cache", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
