package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
	"github.com/sdrt-erp/budget-ledger/internal/platform/persistence"
)

// CatalogRepository implements the catalog.Repository interface for PostgreSQL
type CatalogRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewCatalogRepository creates a new PostgreSQL catalog repository
func NewCatalogRepository(logger *slog.Logger, db *persistence.PostgresDB) catalog.Repository {
	return &CatalogRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *CatalogRepository) WithTx(tx pgx.Tx) catalog.Repository {
	return &CatalogRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new catalog entry. A unique constraint violation on the
// entry code maps to ErrDuplicateEntry so callers can treat concurrent
// get-or-create races as success.
func (r *CatalogRepository) Create(ctx context.Context, entry *catalog.Entry) error {
	query := `
		INSERT INTO catalog_entries (code, display_name, unit_of_measure, category,
			purchasable, stockable, expense_account, direction_label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.Code,
		entry.DisplayName,
		entry.UnitOfMeasure,
		entry.Category,
		entry.Purchasable,
		entry.Stockable,
		entry.ExpenseAccount,
		entry.DirectionLabel,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return catalog.ErrDuplicateEntry{Code: entry.Code}
		}
		r.logger.Error("Failed to create catalog entry", "code", entry.Code, "error", err)
		return fmt.Errorf("failed to create catalog entry: %w", err)
	}

	return nil
}

// GetByCode retrieves a catalog entry by code
func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*catalog.Entry, error) {
	query := `
		SELECT code, display_name, unit_of_measure, category, purchasable, stockable,
			expense_account, direction_label, created_at, updated_at
		FROM catalog_entries
		WHERE code = $1
	`

	var entry catalog.Entry
	err := r.querier.QueryRow(ctx, query, code).Scan(
		&entry.Code,
		&entry.DisplayName,
		&entry.UnitOfMeasure,
		&entry.Category,
		&entry.Purchasable,
		&entry.Stockable,
		&entry.ExpenseAccount,
		&entry.DirectionLabel,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrEntryNotFound{Code: code}
		}
		r.logger.Error("Failed to get catalog entry", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}

	return &entry, nil
}

// Exists reports whether a catalog entry with the given code exists
func (r *CatalogRepository) Exists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM catalog_entries WHERE code = $1)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		r.logger.Error("Failed to check catalog entry existence", "code", code, "error", err)
		return false, fmt.Errorf("failed to check catalog entry existence: %w", err)
	}

	return exists, nil
}

// UpdateDirectionLabel sets the direction label on an existing entry
func (r *CatalogRepository) UpdateDirectionLabel(ctx context.Context, code, label string) error {
	query := `
		UPDATE catalog_entries
		SET direction_label = $1, updated_at = $2
		WHERE code = $3
	`

	result, err := r.querier.Exec(ctx, query, label, time.Now(), code)
	if err != nil {
		r.logger.Error("Failed to update direction label", "code", code, "error", err)
		return fmt.Errorf("failed to update direction label: %w", err)
	}

	if result.RowsAffected() == 0 {
		return catalog.ErrEntryNotFound{Code: code}
	}

	return nil
}

// Count returns the total number of catalog entries
func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM catalog_entries`).Scan(&count); err != nil {
		r.logger.Error("Failed to count catalog entries", "error", err)
		return 0, fmt.Errorf("failed to count catalog entries: %w", err)
	}
	return count, nil
}
