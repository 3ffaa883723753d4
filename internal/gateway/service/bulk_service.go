package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
)

// BulkServiceImpl implements the BulkService interface. Budgets are paged out
// of the store in batches and each batch is fanned out over the worker pool.
type BulkServiceImpl struct {
	budgetRepo  budget.Repository
	catalogRepo catalog.Repository
	catalogSvc  CatalogService
	pool        *ants.Pool
	batchSize   int
	logger      *slog.Logger
}

// NewBulkService creates a new bulk catalog maintenance service
func NewBulkService(
	logger *slog.Logger,
	budgetRepo budget.Repository,
	catalogRepo catalog.Repository,
	catalogSvc CatalogService,
	poolSize, batchSize int,
) (*BulkServiceImpl, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &BulkServiceImpl{
		budgetRepo:  budgetRepo,
		catalogRepo: catalogRepo,
		catalogSvc:  catalogSvc,
		pool:        pool,
		batchSize:   batchSize,
		logger:      logger,
	}, nil
}

// ProvisionMissing creates catalog entries for budgets lacking one. Each
// budget is checked and provisioned on a pool worker; counters are aggregated
// under a mutex. A non-positive limit processes every budget.
func (s *BulkServiceImpl) ProvisionMissing(ctx context.Context, limit int) (*BulkReport, error) {
	report := &BulkReport{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	err := s.forEachBudget(ctx, limit, func(b *budget.Budget) error {
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()

			exists, err := s.catalogRepo.Exists(ctx, b.AnalyticCode)
			if err != nil {
				mu.Lock()
				defer mu.Unlock()
				report.Processed++
				report.Failed++
				report.Warnings = append(report.Warnings, catalog.Warning{Code: b.AnalyticCode, Reason: err.Error()})
				return
			}
			if exists {
				mu.Lock()
				defer mu.Unlock()
				report.Processed++
				report.Skipped++
				return
			}

			entry, warnings, err := s.catalogSvc.EnsureEntry(ctx, b.AnalyticCode, b.Description)

			mu.Lock()
			defer mu.Unlock()
			report.Processed++
			if err != nil {
				report.Failed++
				report.Warnings = append(report.Warnings, catalog.Warning{Code: b.AnalyticCode, Reason: err.Error()})
				return
			}
			if len(warnings) > 0 || entry == nil {
				report.Failed++
				report.Warnings = append(report.Warnings, warnings...)
				return
			}
			report.Created++
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
		return nil
	})

	wg.Wait()
	if err != nil {
		return report, err
	}

	s.logger.Info("Bulk provisioning finished",
		"processed", report.Processed,
		"created", report.Created,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// VerifyConsistency reports budgets without catalog entries and display name
// drift between a budget and its entry.
func (s *BulkServiceImpl) VerifyConsistency(ctx context.Context) (*BulkReport, error) {
	report := &BulkReport{}

	err := s.forEachBudget(ctx, 0, func(b *budget.Budget) error {
		report.Processed++

		entry, err := s.catalogRepo.GetByCode(ctx, b.AnalyticCode)
		if err != nil {
			if errors.Is(err, catalog.ErrEntryNotFound{}) {
				report.Failed++
				report.Issues = append(report.Issues, fmt.Sprintf("budget %s has no catalog entry", b.AnalyticCode))
				return nil
			}
			return err
		}

		if b.Description != "" && entry.DisplayName != b.Description && entry.DisplayName != b.AnalyticCode {
			report.Issues = append(report.Issues, fmt.Sprintf("budget %s description differs from entry display name", b.AnalyticCode))
		}
		report.Skipped++
		return nil
	})
	if err != nil {
		return report, err
	}

	return report, nil
}

// Stats counts budgets, catalog entries, and budgets with a linked entry
func (s *BulkServiceImpl) Stats(ctx context.Context) (*CatalogStats, error) {
	stats := &CatalogStats{}

	budgets, err := s.budgetRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Budgets = budgets

	entries, err := s.catalogRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Entries = entries

	err = s.forEachBudget(ctx, 0, func(b *budget.Budget) error {
		exists, err := s.catalogRepo.Exists(ctx, b.AnalyticCode)
		if err != nil {
			return err
		}
		if exists {
			stats.Linked++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Shutdown releases the worker pool
func (s *BulkServiceImpl) Shutdown() {
	s.logger.Info("Shutting down bulk worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// forEachBudget pages through the budget store in batches, invoking fn for
// every budget until the store or the limit is exhausted.
func (s *BulkServiceImpl) forEachBudget(ctx context.Context, limit int, fn func(b *budget.Budget) error) error {
	offset := 0
	remaining := limit

	for {
		pageSize := s.batchSize
		if limit > 0 && remaining < pageSize {
			pageSize = remaining
		}
		if pageSize <= 0 {
			return nil
		}

		budgets, err := s.budgetRepo.List(ctx, pageSize, offset)
		if err != nil {
			return err
		}
		if len(budgets) == 0 {
			return nil
		}

		for _, b := range budgets {
			if err := fn(b); err != nil {
				return err
			}
		}

		offset += len(budgets)
		if limit > 0 {
			remaining -= len(budgets)
			if remaining <= 0 {
				return nil
			}
		}
		if len(budgets) < pageSize {
			return nil
		}
	}
}
