package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	budgetRepo budget.Repository
	catalogSvc CatalogService
	logger     *slog.Logger
}

// NewLedgerService creates a new budget ledger service
func NewLedgerService(logger *slog.Logger, budgetRepo budget.Repository, catalogSvc CatalogService) LedgerService {
	return &LedgerServiceImpl{
		budgetRepo: budgetRepo,
		catalogSvc: catalogSvc,
		logger:     logger,
	}
}

// CreateBudget synthesizes the analytic code, persists the budget, and
// provisions the matching catalog entry. Entry provisioning failures are
// reported as warnings so a budget never fails to exist because the catalog
// write did.
func (s *LedgerServiceImpl) CreateBudget(ctx context.Context, segments budget.Segments, total decimal.Decimal, description, directionLabel string) (*budget.Budget, []catalog.Warning, error) {
	b, err := budget.NewBudget(segments, total, description)
	if err != nil {
		return nil, nil, err
	}
	b.DirectionLabel = directionLabel

	if err := s.budgetRepo.Create(ctx, b); err != nil {
		return nil, nil, err
	}

	_, warnings, err := s.catalogSvc.EnsureEntry(ctx, b.AnalyticCode, b.Description)
	if err != nil {
		// Entry lookup failure is reported the same way creation failure is.
		s.logger.Warn("Catalog provisioning failed after budget creation",
			"analytic_code", b.AnalyticCode,
			"error", err,
		)
		warnings = append(warnings, catalog.Warning{Code: b.AnalyticCode, Reason: err.Error()})
	}

	s.logger.Info("Budget created",
		"analytic_code", b.AnalyticCode,
		"total", b.Total.String(),
	)

	return b, warnings, nil
}

// GetBudget retrieves a budget by its analytic code
func (s *LedgerServiceImpl) GetBudget(ctx context.Context, code string) (*budget.Budget, error) {
	return s.budgetRepo.GetByCode(ctx, code)
}

// ListBudgets retrieves a paginated budget listing ordered by code
func (s *LedgerServiceImpl) ListBudgets(ctx context.Context, page, perPage int) ([]*budget.Budget, int64, error) {
	offset := (page - 1) * perPage

	budgets, err := s.budgetRepo.List(ctx, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.budgetRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return budgets, total, nil
}
