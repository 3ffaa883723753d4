package outbox

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages transactional outbox message persistence
type Repository interface {
	Create(ctx context.Context, message *Message) error
	GetPending(ctx context.Context, limit int) ([]*Message, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	IncrementAttempts(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	GetByEntryID(ctx context.Context, entryID uuid.UUID) (*Message, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrMessageNotFound indicates missing outbox message
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return "outbox message not found: " + strconv.FormatInt(e.ID, 10)
}

// ErrDuplicateMessage indicates an entry id uniqueness violation
type ErrDuplicateMessage struct {
	EntryID uuid.UUID
}

func (e ErrDuplicateMessage) Error() string {
	return "duplicate outbox message: " + e.EntryID.String()
}
