package commitment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind distinguishes commitments from their reversals.
type Kind string

const (
	KindEngage    Kind = "ENGAGE"
	KindDisengage Kind = "DISENGAGE"
)

// Entry is one audit record of a budget commitment movement. Amounts are
// carried as decimal strings so the record serializes identically to JSON
// (Kafka payload) and BSON (query store) without driver-specific codecs.
type Entry struct {
	ID             uuid.UUID `json:"id" bson:"id"`
	AnalyticCode   string    `json:"analytic_code" bson:"analytic_code"`
	OrderID        string    `json:"order_id" bson:"order_id"`
	Kind           Kind      `json:"kind" bson:"kind"`
	Amount         string    `json:"amount" bson:"amount"`
	CommittedAfter string    `json:"committed_after" bson:"committed_after"`
	AvailableAfter string    `json:"available_after" bson:"available_after"`
	CorrelationID  string    `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// NewEntry records a commitment movement against a budget.
func NewEntry(analyticCode, orderID string, kind Kind, amount, committedAfter, availableAfter decimal.Decimal, correlationID string) *Entry {
	return &Entry{
		ID:             uuid.New(),
		AnalyticCode:   analyticCode,
		OrderID:        orderID,
		Kind:           kind,
		Amount:         amount.String(),
		CommittedAfter: committedAfter.String(),
		AvailableAfter: availableAfter.String(),
		CorrelationID:  correlationID,
		CreatedAt:      time.Now().UTC(),
	}
}

// ErrEntryNotFound indicates a missing commitment entry.
type ErrEntryNotFound struct {
	ID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "commitment entry not found: " + e.ID.String()
}

// Is implements errors.Is matching; a target with a nil ID matches any
// ErrEntryNotFound.
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || t.ID == e.ID
}

// ErrDuplicateEntry indicates an entry id uniqueness violation.
type ErrDuplicateEntry struct {
	ID uuid.UUID
}

func (e ErrDuplicateEntry) Error() string {
	return "duplicate commitment entry: " + e.ID.String()
}

// Is implements errors.Is matching; a target with a nil ID matches any
// ErrDuplicateEntry.
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || t.ID == e.ID
}
