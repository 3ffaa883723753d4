package procurement

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNegativeEstimate = errors.New("line estimate cannot be negative")
)

// RequisitionLine is one line of a purchase requisition. The estimate is the
// stored quantity x rate product; when the rate was never entered explicitly,
// it can be derived back from the estimate.
type RequisitionLine struct {
	AnalyticCode  string          `json:"analytic_code"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	Estimate      decimal.Decimal `json:"estimate"`
	UnitOfMeasure string          `json:"unit_of_measure"`
}

// EffectiveRate returns the unit rate, deriving it from the stored estimate
// divided by quantity when no explicit rate is present.
func (l *RequisitionLine) EffectiveRate() decimal.Decimal {
	if !l.UnitRate.IsZero() {
		return l.UnitRate
	}
	if l.Estimate.IsZero() || l.Quantity.IsZero() {
		return decimal.Zero
	}
	return l.Estimate.Div(l.Quantity)
}

// RecomputeEstimate resets the estimate to quantity x rate. A negative result
// means a bad quantity or rate and is rejected.
func (l *RequisitionLine) RecomputeEstimate() error {
	estimate := l.Quantity.Mul(l.UnitRate)
	if estimate.IsNegative() {
		return ErrNegativeEstimate
	}
	l.Estimate = estimate
	return nil
}

// Requisition is a purchase requisition document. Its lifecycle is owned by
// the host platform; this service only reads it to project order lines.
type Requisition struct {
	ID              string            `json:"id"`
	ScheduleDate    *time.Time        `json:"schedule_date,omitempty"`
	TransactionDate time.Time         `json:"transaction_date"`
	Lines           []RequisitionLine `json:"lines"`
}

// EffectiveScheduleDate returns the schedule date, falling back to the
// transaction date when no schedule was set.
func (r *Requisition) EffectiveScheduleDate() time.Time {
	if r.ScheduleDate != nil {
		return *r.ScheduleDate
	}
	return r.TransactionDate
}

// ErrRequisitionNotFound indicates a missing requisition.
type ErrRequisitionNotFound struct {
	ID string
}

func (e ErrRequisitionNotFound) Error() string {
	return "requisition not found: " + e.ID
}

// Is implements errors.Is matching; a target with an empty ID matches any
// ErrRequisitionNotFound.
func (e ErrRequisitionNotFound) Is(target error) bool {
	t, ok := target.(ErrRequisitionNotFound)
	if !ok {
		return false
	}
	return t.ID == "" || t.ID == e.ID
}
