package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sdrt-erp/budget-ledger/internal/config"
	"github.com/sdrt-erp/budget-ledger/internal/data/postgres"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/service"
	"github.com/sdrt-erp/budget-ledger/internal/logger"
	"github.com/sdrt-erp/budget-ledger/internal/platform/cache"
	"github.com/sdrt-erp/budget-ledger/internal/platform/persistence"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigName string
}

// NewRootCommand creates the root command for the budgetctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "budgetctl",
		Short: "Bulk maintenance for the budget catalog",
		Long:  "Administrative jobs that keep budgets and their catalog entries aligned: bulk provisioning, consistency checks, and counters.",
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigName, "config", "budgetctl", "configuration file name (without extension)")

	cmd.AddCommand(NewProvisionCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// bulkEnv bundles everything a maintenance command needs, plus the teardown
// for the connections it opened.
type bulkEnv struct {
	logger  *slog.Logger
	bulkSvc service.BulkService
	close   func()
}

// newBulkEnv loads configuration and wires the bulk service against live
// PostgreSQL and Redis connections.
func newBulkEnv(ctx context.Context, opts *RootOptions) (*bulkEnv, error) {
	cfg, err := config.LoadConfig(opts.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg)

	postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	catalogCache := cache.NewCatalogCache(ctx, log, &cfg.Redis)

	budgetRepo := postgres.NewBudgetRepository(log, postgresDB)
	catalogRepo := postgres.NewCatalogRepository(log, postgresDB)
	orderRepo := postgres.NewOrderRepository(log, postgresDB)

	catalogSvc := service.NewCatalogService(log, catalogRepo, budgetRepo, orderRepo, catalogCache, &cfg.Catalog)
	bulkSvc, err := service.NewBulkService(log, budgetRepo, catalogRepo, catalogSvc, cfg.WorkerPool.Size, cfg.WorkerPool.BatchSize)
	if err != nil {
		postgresDB.Close()
		return nil, fmt.Errorf("failed to initialize worker pool: %w", err)
	}

	return &bulkEnv{
		logger:  log,
		bulkSvc: bulkSvc,
		close: func() {
			bulkSvc.Shutdown()
			if err := catalogCache.Close(); err != nil {
				log.Error("Error closing catalog cache", "error", err)
			}
			postgresDB.Close()
		},
	}, nil
}
