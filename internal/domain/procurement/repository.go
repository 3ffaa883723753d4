package procurement

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// RequisitionRepository reads purchase requisitions and their lines.
// Requisition lifecycle is owned by the host platform; this service never
// creates or deletes them.
type RequisitionRepository interface {
	GetByID(ctx context.Context, id string) (*Requisition, error)
}

// OrderRepository manages purchase order state transitions and the specific
// line fields this service is allowed to patch (item code, unit of measure).
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
	UpdateLineReference(ctx context.Context, line *OrderLine) error
	WithTx(tx pgx.Tx) OrderRepository
}
