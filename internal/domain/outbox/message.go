package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sdrt-erp/budget-ledger/internal/domain/commitment"
)

// Status tracks the publishing lifecycle of an outbox message.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a commitment entry for reliable publishing. Messages are
// written in the same transaction as the budget delta they describe, so the
// audit trail can never record a movement that was rolled back.
type Message struct {
	ID            int64           `json:"id"`
	EntryID       uuid.UUID       `json:"entry_id"`
	AnalyticCode  string          `json:"analytic_code"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps a commitment entry into a pending outbox message.
func NewMessage(entry *commitment.Entry) (*Message, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	return &Message{
		EntryID:      entry.ID,
		AnalyticCode: entry.AnalyticCode,
		Payload:      payload,
		Status:       StatusPending,
		Attempts:     0,
		CreatedAt:    time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = StatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = StatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetCommitmentEntry extracts the commitment entry from the payload
func (m *Message) GetCommitmentEntry() (*commitment.Entry, error) {
	var entry commitment.Entry
	if err := json.Unmarshal(m.Payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
