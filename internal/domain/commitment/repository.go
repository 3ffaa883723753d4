package commitment

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages the commitment audit trail in the query store.
// Writes come exclusively from the outbox publisher; reads serve the
// per-budget history endpoint.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	GetByAnalyticCode(ctx context.Context, analyticCode string, limit, offset int) ([]*Entry, error)
	CountByAnalyticCode(ctx context.Context, analyticCode string) (int64, error)
}
