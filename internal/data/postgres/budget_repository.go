// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all document-store operations while maintaining
// transaction safety and proper error handling for the budget ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/platform/persistence"
)

const budgetColumns = `analytic_code, direction, program, project, agreement, org_unit, action, account,
		free_1, free_2, free_3, total, committed, available, description, direction_label, created_at, updated_at`

// BudgetRepository implements the budget.Repository interface for PostgreSQL
type BudgetRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewBudgetRepository creates a new PostgreSQL budget repository
func NewBudgetRepository(logger *slog.Logger, db *persistence.PostgresDB) budget.Repository {
	return &BudgetRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so budget updates are atomic
// with the outbox writes and order transitions that accompany them.
func (r *BudgetRepository) WithTx(tx pgx.Tx) budget.Repository {
	return &BudgetRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new budget. The unique constraint on analytic_code is the
// authoritative duplicate guard; a violation maps to ErrDuplicateCode.
func (r *BudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.querier.Exec(ctx, query,
		b.AnalyticCode,
		b.Segments.Direction,
		b.Segments.Program,
		b.Segments.Project,
		b.Segments.Agreement,
		b.Segments.OrgUnit,
		b.Segments.Action,
		b.Segments.Account,
		b.Segments.Free1,
		b.Segments.Free2,
		b.Segments.Free3,
		b.Total,
		b.Committed,
		b.Available,
		b.Description,
		b.DirectionLabel,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return budget.ErrDuplicateCode{Code: b.AnalyticCode}
		}
		r.logger.Error("Failed to create budget", "analytic_code", b.AnalyticCode, "error", err)
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

// GetByCode retrieves a budget by its analytic code
func (r *BudgetRepository) GetByCode(ctx context.Context, code string) (*budget.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE analytic_code = $1
	`

	return r.scanBudget(r.querier.QueryRow(ctx, query, code), code)
}

// LockByCode retrieves a budget under a row lock so concurrent commitment
// deltas against the same analytic code serialize. Only meaningful inside a
// transaction obtained via WithTx.
func (r *BudgetRepository) LockByCode(ctx context.Context, code string) (*budget.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE analytic_code = $1
		FOR UPDATE
	`

	return r.scanBudget(r.querier.QueryRow(ctx, query, code), code)
}

// Exists reports whether a budget with the given analytic code exists
func (r *BudgetRepository) Exists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM budgets WHERE analytic_code = $1)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		r.logger.Error("Failed to check budget existence", "analytic_code", code, "error", err)
		return false, fmt.Errorf("failed to check budget existence: %w", err)
	}

	return exists, nil
}

// UpdateAmounts persists the committed and available amounts. Total and the
// segment fields are immutable after creation; only the direction label may
// change alongside the amounts.
func (r *BudgetRepository) UpdateAmounts(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET committed = $1, available = $2, direction_label = $3, updated_at = $4
		WHERE analytic_code = $5
	`

	result, err := r.querier.Exec(ctx, query,
		b.Committed,
		b.Available,
		b.DirectionLabel,
		b.UpdatedAt,
		b.AnalyticCode,
	)
	if err != nil {
		r.logger.Error("Failed to update budget amounts", "analytic_code", b.AnalyticCode, "error", err)
		return fmt.Errorf("failed to update budget amounts: %w", err)
	}

	if result.RowsAffected() == 0 {
		return budget.ErrBudgetNotFound{Code: b.AnalyticCode}
	}

	return nil
}

// List retrieves budgets ordered by analytic code, for bulk catalog jobs
func (r *BudgetRepository) List(ctx context.Context, limit, offset int) ([]*budget.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		ORDER BY analytic_code ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list budgets", "error", err)
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		var b budget.Budget
		if err := scanBudgetRow(rows, &b); err != nil {
			r.logger.Error("Failed to scan budget", "error", err)
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over budgets: %w", err)
	}

	return budgets, nil
}

// Count returns the total number of budgets
func (r *BudgetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM budgets`).Scan(&count); err != nil {
		r.logger.Error("Failed to count budgets", "error", err)
		return 0, fmt.Errorf("failed to count budgets: %w", err)
	}
	return count, nil
}

func (r *BudgetRepository) scanBudget(row pgx.Row, code string) (*budget.Budget, error) {
	var b budget.Budget
	if err := scanBudgetRow(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, budget.ErrBudgetNotFound{Code: code}
		}
		r.logger.Error("Failed to get budget", "analytic_code", code, "error", err)
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	// Re-establish the amount invariant on every read; a committed amount
	// above total means corrupted data and must not flow onward.
	if err := b.Normalize(); err != nil {
		r.logger.Error("Budget amounts are inconsistent", "analytic_code", b.AnalyticCode, "error", err)
		return nil, err
	}
	return &b, nil
}

func scanBudgetRow(row pgx.Row, b *budget.Budget) error {
	return row.Scan(
		&b.AnalyticCode,
		&b.Segments.Direction,
		&b.Segments.Program,
		&b.Segments.Project,
		&b.Segments.Agreement,
		&b.Segments.OrgUnit,
		&b.Segments.Action,
		&b.Segments.Account,
		&b.Segments.Free1,
		&b.Segments.Free2,
		&b.Segments.Free3,
		&b.Total,
		&b.Committed,
		&b.Available,
		&b.Description,
		&b.DirectionLabel,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}
