package catalog

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrEmptyCode = errors.New("catalog entry code cannot be empty")
)

// Entry represents a purchasable catalog item keyed by an analytic code
// (or the configured placeholder code for unresolved lines). Entries derived
// from budgets are purchase-only and never stocked.
type Entry struct {
	Code           string    `json:"code"`
	DisplayName    string    `json:"display_name"`
	UnitOfMeasure  string    `json:"unit_of_measure"`
	Category       string    `json:"category"`
	Purchasable    bool      `json:"purchasable"`
	Stockable      bool      `json:"stockable"`
	ExpenseAccount string    `json:"expense_account,omitempty"`
	DirectionLabel string    `json:"direction_label,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEntry creates a purchase-only, non-stock entry with the given defaults.
func NewEntry(code, displayName, unitOfMeasure, category string) (*Entry, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	if displayName == "" {
		displayName = code
	}

	now := time.Now()
	return &Entry{
		Code:          code,
		DisplayName:   displayName,
		UnitOfMeasure: unitOfMeasure,
		Category:      category,
		Purchasable:   true,
		Stockable:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Warning is the non-fatal error channel for catalog provisioning. A warning
// means the entry could not be created or completed, but the caller's
// transaction must proceed regardless.
type Warning struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return w.Code + ": " + w.Reason
}

// ErrEntryNotFound indicates a missing catalog entry.
type ErrEntryNotFound struct {
	Code string
}

func (e ErrEntryNotFound) Error() string {
	return "catalog entry not found: " + e.Code
}

// Is implements errors.Is matching; a target with an empty code matches any
// ErrEntryNotFound.
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// ErrDuplicateEntry indicates a code uniqueness violation on creation.
type ErrDuplicateEntry struct {
	Code string
}

func (e ErrDuplicateEntry) Error() string {
	return "catalog entry already exists: " + e.Code
}

// Is implements errors.Is matching; a target with an empty code matches any
// ErrDuplicateEntry.
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}
