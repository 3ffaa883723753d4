package service

import (
	"context"
	"errors"
	"log/slog"
	"unicode"

	"github.com/sdrt-erp/budget-ledger/internal/config"
	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
	"github.com/sdrt-erp/budget-ledger/internal/platform/cache"
)

// CatalogServiceImpl implements the CatalogService interface
type CatalogServiceImpl struct {
	catalogRepo catalog.Repository
	budgetRepo  budget.Repository
	orderRepo   procurement.OrderRepository
	cache       *cache.CatalogCache
	cfg         *config.CatalogConfig
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog reconciliation service
func NewCatalogService(
	logger *slog.Logger,
	catalogRepo catalog.Repository,
	budgetRepo budget.Repository,
	orderRepo procurement.OrderRepository,
	catalogCache *cache.CatalogCache,
	cfg *config.CatalogConfig,
) CatalogService {
	return &CatalogServiceImpl{
		catalogRepo: catalogRepo,
		budgetRepo:  budgetRepo,
		orderRepo:   orderRepo,
		cache:       catalogCache,
		cfg:         cfg,
		logger:      logger,
	}
}

// EnsureEntry gets or creates the catalog entry for a code. Existing entries
// win unconditionally; creation applies the configured defaults. Any failure
// on the create path degrades to a warning so document flows that merely
// reference the catalog never abort on it.
func (s *CatalogServiceImpl) EnsureEntry(ctx context.Context, code, description string) (*catalog.Entry, []catalog.Warning, error) {
	if code == "" {
		return nil, nil, catalog.ErrEmptyCode
	}

	// The entry itself is needed either way, so the existence cache cannot
	// save this read; it is only refreshed here.
	entry, err := s.catalogRepo.GetByCode(ctx, code)
	if err == nil {
		s.cache.MarkEntryExists(ctx, code)
		return entry, nil, nil
	}
	if !errors.Is(err, catalog.ErrEntryNotFound{}) {
		return nil, nil, err
	}

	entry, buildErr := catalog.NewEntry(code, description, s.cfg.DefaultUnitOfMeasure, s.cfg.DefaultCategory)
	if buildErr != nil {
		return nil, []catalog.Warning{{Code: code, Reason: buildErr.Error()}}, nil
	}
	entry.ExpenseAccount = s.cfg.DefaultExpenseAccount

	if createErr := s.catalogRepo.Create(ctx, entry); createErr != nil {
		if errors.Is(createErr, catalog.ErrDuplicateEntry{}) {
			// Lost a create race; the winner's entry is the one we wanted.
			existing, getErr := s.catalogRepo.GetByCode(ctx, code)
			if getErr == nil {
				s.cache.MarkEntryExists(ctx, code)
				return existing, nil, nil
			}
			createErr = getErr
		}
		s.logger.Warn("Failed to provision catalog entry", "code", code, "error", createErr)
		return nil, []catalog.Warning{{Code: code, Reason: createErr.Error()}}, nil
	}

	s.cache.MarkEntryExists(ctx, code)
	s.logger.Info("Catalog entry provisioned", "code", code)
	return entry, nil, nil
}

// RepairOrderLines rewrites broken item references on an order. A line is
// broken when its item code is empty, numeric-only (an upstream row id leaked
// into the reference), or names no catalog entry. Repaired lines point at the
// line's analytic code when one exists, at the placeholder otherwise.
func (s *CatalogServiceImpl) RepairOrderLines(ctx context.Context, orderID string) ([]procurement.OrderLine, []catalog.Warning, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	var repaired []procurement.OrderLine
	var warnings []catalog.Warning

	for _, line := range order.Lines {
		broken, err := s.lineNeedsRepair(ctx, &line)
		if err != nil {
			return repaired, warnings, err
		}
		if !broken {
			continue
		}

		target := line.AnalyticCode
		description := line.Description
		if target != "" {
			_, ensureWarnings, err := s.EnsureEntry(ctx, target, description)
			if err != nil {
				return repaired, warnings, err
			}
			if len(ensureWarnings) > 0 {
				warnings = append(warnings, ensureWarnings...)
				target = ""
			}
		}
		if target == "" {
			_, placeholderWarnings, err := s.PlaceholderEntry(ctx)
			if err != nil {
				return repaired, warnings, err
			}
			warnings = append(warnings, placeholderWarnings...)
			target = s.cfg.PlaceholderCode
		}

		line.ItemCode = target
		if line.UnitOfMeasure == "" {
			line.UnitOfMeasure = s.cfg.DefaultUnitOfMeasure
		}
		if err := s.orderRepo.UpdateLineReference(ctx, &line); err != nil {
			return repaired, warnings, err
		}

		s.logger.Info("Repaired order line reference",
			"order_id", orderID,
			"line_id", line.ID,
			"item_code", line.ItemCode,
		)
		repaired = append(repaired, line)
	}

	return repaired, warnings, nil
}

// BackfillDirectionLabel updates the entry's direction label when it differs
// from the desired value. Returns whether a write happened.
func (s *CatalogServiceImpl) BackfillDirectionLabel(ctx context.Context, code, label string) (bool, error) {
	entry, err := s.catalogRepo.GetByCode(ctx, code)
	if err != nil {
		return false, err
	}

	if entry.DirectionLabel == label {
		return false, nil
	}

	if err := s.catalogRepo.UpdateDirectionLabel(ctx, code, label); err != nil {
		return false, err
	}

	s.logger.Info("Backfilled direction label", "code", code, "label", label)
	return true, nil
}

// PlaceholderEntry gets or creates the shared placeholder entry
func (s *CatalogServiceImpl) PlaceholderEntry(ctx context.Context) (*catalog.Entry, []catalog.Warning, error) {
	return s.EnsureEntry(ctx, s.cfg.PlaceholderCode, "Budget line")
}

// lineNeedsRepair reports whether the line's item reference must be rewritten
func (s *CatalogServiceImpl) lineNeedsRepair(ctx context.Context, line *procurement.OrderLine) (bool, error) {
	if line.ItemCode == "" || isNumericOnly(line.ItemCode) {
		return true, nil
	}

	if s.cache.EntryExists(ctx, line.ItemCode) {
		return false, nil
	}

	exists, err := s.catalogRepo.Exists(ctx, line.ItemCode)
	if err != nil {
		return false, err
	}
	if exists {
		s.cache.MarkEntryExists(ctx, line.ItemCode)
		return false, nil
	}
	return true, nil
}

func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
