package procurement

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	StatusDraft     OrderStatus = "DRAFT"
	StatusSubmitted OrderStatus = "SUBMITTED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderLine is one line of a purchase order. The analytic code links the line
// to a budget; the item code references a catalog entry and may need repair
// when the order was derived from another document.
type OrderLine struct {
	ID            int64           `json:"id"`
	OrderID       string          `json:"order_id"`
	ItemCode      string          `json:"item_code"`
	AnalyticCode  string          `json:"analytic_code"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	Amount        decimal.Decimal `json:"amount"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	ScheduleDate  *time.Time      `json:"schedule_date,omitempty"`
}

// Order is a purchase order document. Budget commitments engage when it is
// submitted and disengage when it is cancelled; there is no way out of
// CANCELLED.
type Order struct {
	ID        string      `json:"id"`
	Supplier  string      `json:"supplier"`
	Status    OrderStatus `json:"status"`
	Lines     []OrderLine `json:"lines"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Submit transitions the order from draft to submitted. Submitting a
// non-draft order is rejected, which also guards against double-committing
// budgets on a repeated submission.
func (o *Order) Submit() error {
	if o.Status != StatusDraft {
		return ErrInvalidTransition{From: o.Status, To: StatusSubmitted}
	}
	o.Status = StatusSubmitted
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel transitions the order from submitted to cancelled.
func (o *Order) Cancel() error {
	if o.Status != StatusSubmitted {
		return ErrInvalidTransition{From: o.Status, To: StatusCancelled}
	}
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// ErrInvalidTransition indicates a disallowed order lifecycle transition.
type ErrInvalidTransition struct {
	From OrderStatus
	To   OrderStatus
}

func (e ErrInvalidTransition) Error() string {
	return "invalid order transition from " + string(e.From) + " to " + string(e.To)
}

// ErrOrderNotFound indicates a missing purchase order.
type ErrOrderNotFound struct {
	ID string
}

func (e ErrOrderNotFound) Error() string {
	return "purchase order not found: " + e.ID
}

// Is implements errors.Is matching; a target with an empty ID matches any
// ErrOrderNotFound.
func (e ErrOrderNotFound) Is(target error) bool {
	t, ok := target.(ErrOrderNotFound)
	if !ok {
		return false
	}
	return t.ID == "" || t.ID == e.ID
}
