package budget

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines budget persistence operations
type Repository interface {
	Create(ctx context.Context, b *Budget) error
	GetByCode(ctx context.Context, code string) (*Budget, error)
	Exists(ctx context.Context, code string) (bool, error)
	UpdateAmounts(ctx context.Context, b *Budget) error
	List(ctx context.Context, limit, offset int) ([]*Budget, error)
	Count(ctx context.Context) (int64, error)

	// LockByCode acquires a row lock on the budget so that concurrent
	// commitment deltas against the same analytic code serialize. Only
	// meaningful inside a transaction obtained via WithTx.
	LockByCode(ctx context.Context, code string) (*Budget, error)
	WithTx(tx pgx.Tx) Repository
}
