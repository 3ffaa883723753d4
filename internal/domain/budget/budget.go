package budget

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used for boundary comparisons on currency amounts.
// Amounts are decimals, never floats, but derived values (e.g. rates computed
// from estimates) can carry rounding residue, so boundary checks are inclusive
// within this tolerance.
var Epsilon = decimal.New(1, -9) // 1e-9

// Common errors
var (
	ErrNegativeTotal = errors.New("total amount cannot be negative")
)

// Budget represents one analytic budget line. Its identity is the analytic
// code synthesized from the segments at creation time; the code is never
// regenerated for a persisted budget.
type Budget struct {
	AnalyticCode   string          `json:"analytic_code"`
	Segments       Segments        `json:"segments"`
	Total          decimal.Decimal `json:"total"`
	Committed      decimal.Decimal `json:"committed"`
	Available      decimal.Decimal `json:"available"`
	Description    string          `json:"description,omitempty"`
	DirectionLabel string          `json:"direction_label,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewBudget creates a budget with a freshly synthesized analytic code,
// zero committed amount and the full total available.
func NewBudget(segments Segments, total decimal.Decimal, description string) (*Budget, error) {
	code, err := SynthesizeCode(segments)
	if err != nil {
		return nil, err
	}
	if total.IsNegative() {
		return nil, ErrNegativeTotal
	}

	now := time.Now()
	return &Budget{
		AnalyticCode: code,
		Segments:     segments,
		Total:        total,
		Committed:    decimal.Zero,
		Available:    total,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Normalize re-establishes the amount invariant: available = total - committed
// and 0 <= committed <= total. A negative committed amount is a harmless
// reversal artifact and is silently clamped to zero. A committed amount above
// total means corrupted data upstream and is reported instead of clamped.
func (b *Budget) Normalize() error {
	if b.Committed.IsNegative() {
		b.Committed = decimal.Zero
	}
	if b.Committed.GreaterThan(b.Total.Add(Epsilon)) {
		return ErrOverCommitted{Code: b.AnalyticCode, Committed: b.Committed, Total: b.Total}
	}
	b.Available = b.Total.Sub(b.Committed)
	return nil
}

// ApplyDelta adds delta to the committed amount (negative for reversals),
// clamps committed at zero and recomputes available. A reversal can never
// drive committed negative; the excess is absorbed, which keeps duplicate
// disengage calls harmless at the cost of masking them.
func (b *Budget) ApplyDelta(delta decimal.Decimal) decimal.Decimal {
	b.Committed = b.Committed.Add(delta)
	if b.Committed.IsNegative() {
		b.Committed = decimal.Zero
	}
	b.Available = b.Total.Sub(b.Committed)
	b.UpdatedAt = time.Now()
	return b.Available
}

// ErrDuplicateCode indicates an identity collision at creation time.
type ErrDuplicateCode struct {
	Code string
}

func (e ErrDuplicateCode) Error() string {
	return "budget with analytic code already exists: " + e.Code
}

// Is implements errors.Is matching; a target with an empty code matches any
// ErrDuplicateCode.
func (e ErrDuplicateCode) Is(target error) bool {
	t, ok := target.(ErrDuplicateCode)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// ErrBudgetNotFound indicates a missing budget.
type ErrBudgetNotFound struct {
	Code string
}

func (e ErrBudgetNotFound) Error() string {
	return "budget not found: " + e.Code
}

// Is implements errors.Is matching; a target with an empty code matches any
// ErrBudgetNotFound.
func (e ErrBudgetNotFound) Is(target error) bool {
	t, ok := target.(ErrBudgetNotFound)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// ErrOverCommitted indicates a committed amount above the budget total,
// which can only come from corrupted data upstream.
type ErrOverCommitted struct {
	Code      string
	Committed decimal.Decimal
	Total     decimal.Decimal
}

func (e ErrOverCommitted) Error() string {
	return fmt.Sprintf("budget %s: committed amount %s exceeds total %s",
		e.Code, e.Committed.String(), e.Total.String())
}

// ErrCodeTooLong indicates the synthesized analytic code exceeds MaxCodeLength.
type ErrCodeTooLong struct {
	Length int
}

func (e ErrCodeTooLong) Error() string {
	return "analytic code too long (" + strconv.Itoa(e.Length) + " > " +
		strconv.Itoa(MaxCodeLength) + "), shorten the segment values"
}
