package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines catalog entry persistence operations. Entries are never
// overwritten once created; the only mutable attribute is the direction label.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByCode(ctx context.Context, code string) (*Entry, error)
	Exists(ctx context.Context, code string) (bool, error)
	UpdateDirectionLabel(ctx context.Context, code, label string) error
	Count(ctx context.Context) (int64, error)
	WithTx(tx pgx.Tx) Repository
}
