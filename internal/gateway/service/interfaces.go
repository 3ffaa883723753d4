package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
	"github.com/sdrt-erp/budget-ledger/internal/domain/commitment"
	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
)

// LedgerService defines the interface for budget ledger operations
type LedgerService interface {
	// CreateBudget synthesizes the analytic code from segments and persists a
	// new budget. Catalog provisioning runs alongside; its warnings never
	// abort the creation.
	// Returns ErrDuplicateCode if a budget with the same code exists.
	CreateBudget(ctx context.Context, segments budget.Segments, total decimal.Decimal, description, directionLabel string) (*budget.Budget, []catalog.Warning, error)

	// GetBudget retrieves a budget by its analytic code
	// Returns ErrBudgetNotFound if the budget doesn't exist
	GetBudget(ctx context.Context, code string) (*budget.Budget, error)

	// ListBudgets retrieves a paginated budget listing ordered by code
	// Returns budgets, total count, and any error
	ListBudgets(ctx context.Context, page, perPage int) ([]*budget.Budget, int64, error)
}

// CommitmentService defines the interface for budget commitment operations
type CommitmentService interface {
	// PreviewLines expands requisition lines into order line projections:
	// unit rate derived from the stored estimate when absent, unit of measure
	// defaulted, schedule date from the requisition schedule or its
	// transaction date.
	PreviewLines(ctx context.Context, requisitionIDs []string) ([]LineProjection, error)

	// ValidateCommitment aggregates the projected amounts per analytic code,
	// adds the persisted draft amounts of orderID when given, and compares
	// against available budget. All violations are collected into a single
	// ErrBudgetExceeded; missing budgets count as violations.
	ValidateCommitment(ctx context.Context, orderID string, lines []LineProjection) error

	// SubmitOrder transitions a draft order to submitted and engages the
	// budget of every line carrying an analytic code and a non-zero amount.
	SubmitOrder(ctx context.Context, orderID, correlationID string) error

	// CancelOrder transitions a submitted order to cancelled and releases the
	// amounts engaged at submission.
	CancelOrder(ctx context.Context, orderID, correlationID string) error

	// GetCommitmentsByCode retrieves the paginated audit trail for a budget
	// Returns entries, total count, and any error
	GetCommitmentsByCode(ctx context.Context, code string, page, perPage int) ([]*commitment.Entry, int64, error)
}

// CatalogService defines the interface for catalog reconciliation operations
type CatalogService interface {
	// EnsureEntry is an idempotent get-or-create for the catalog entry backing
	// an analytic code. Provisioning failures come back as warnings, not
	// errors; callers must be able to proceed regardless.
	EnsureEntry(ctx context.Context, code, description string) (*catalog.Entry, []catalog.Warning, error)

	// RepairOrderLines rewrites every order line whose item code is empty,
	// numeric-only, or unresolvable to the line's analytic code or to the
	// configured placeholder, filling missing unit of measure fields.
	RepairOrderLines(ctx context.Context, orderID string) ([]procurement.OrderLine, []catalog.Warning, error)

	// BackfillDirectionLabel updates an entry's direction label only when the
	// desired value differs from the stored one.
	BackfillDirectionLabel(ctx context.Context, code, label string) (bool, error)

	// PlaceholderEntry gets or creates the shared placeholder entry used for
	// lines without an analytic code.
	PlaceholderEntry(ctx context.Context) (*catalog.Entry, []catalog.Warning, error)
}

// BulkService defines the interface for bulk catalog maintenance jobs
type BulkService interface {
	// ProvisionMissing creates catalog entries for every budget lacking one,
	// fanning the work out over a worker pool. A non-positive limit processes
	// all budgets.
	ProvisionMissing(ctx context.Context, limit int) (*BulkReport, error)

	// VerifyConsistency reports budgets without entries and description drift
	// between budgets and their entries.
	VerifyConsistency(ctx context.Context) (*BulkReport, error)

	// Stats counts budgets, catalog entries, and budgets with a linked entry.
	Stats(ctx context.Context) (*CatalogStats, error)

	// Shutdown releases the worker pool.
	Shutdown()
}

// LineProjection is a budget-bearing order line candidate, either projected
// from a requisition or taken from a draft order for validation.
type LineProjection struct {
	AnalyticCode  string          `json:"analytic_code"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	ScheduleDate  time.Time       `json:"schedule_date"`
}

// Amount returns the projected line amount (quantity x rate).
func (p LineProjection) Amount() decimal.Decimal {
	return p.Quantity.Mul(p.UnitRate)
}

// Violation is one analytic code whose required amount exceeds its available
// budget. A missing budget reports zero available.
type Violation struct {
	Code      string          `json:"code"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}

// ErrBudgetExceeded aggregates every budget violation found during
// validation so the caller sees all problems at once.
type ErrBudgetExceeded struct {
	Violations []Violation
}

func (e ErrBudgetExceeded) Error() string {
	codes := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		codes[i] = v.Code
	}
	return "insufficient budget for: " + strings.Join(codes, ", ")
}

// BulkReport aggregates the outcome of a bulk catalog job
type BulkReport struct {
	Processed int               `json:"processed"`
	Created   int               `json:"created"`
	Skipped   int               `json:"skipped"`
	Failed    int               `json:"failed"`
	Warnings  []catalog.Warning `json:"warnings,omitempty"`
	Issues    []string          `json:"issues,omitempty"`
}

// CatalogStats summarizes budget and catalog counts
type CatalogStats struct {
	Budgets int64 `json:"budgets"`
	Entries int64 `json:"entries"`
	Linked  int64 `json:"linked"`
}
