package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sdrt-erp/budget-ledger/internal/domain/commitment"
	"github.com/sdrt-erp/budget-ledger/internal/domain/outbox"
	"github.com/sdrt-erp/budget-ledger/internal/platform/messaging/producers"
)

// CommitmentPublisher publishes outbox messages to the commitment query store
// and the event stream
type CommitmentPublisher interface {
	PublishCommitment(ctx context.Context, message *outbox.Message) error
}

// CommitmentPublisherImpl implements CommitmentPublisher. The MongoDB write is
// idempotent on entry id, so a message that failed between the store write and
// the status update can be retried safely.
type CommitmentPublisherImpl struct {
	outboxRepo     outbox.Repository
	commitmentRepo commitment.Repository
	producer       producers.MessagePublisher
	logger         *slog.Logger
}

// NewCommitmentPublisher creates a new publisher
func NewCommitmentPublisher(
	outboxRepo outbox.Repository,
	commitmentRepo commitment.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) CommitmentPublisher {
	return &CommitmentPublisherImpl{
		outboxRepo:     outboxRepo,
		commitmentRepo: commitmentRepo,
		producer:       producer,
		logger:         logger,
	}
}

// PublishCommitment writes the entry to the query store, emits it on the
// event stream, and marks the outbox message processed
func (p *CommitmentPublisherImpl) PublishCommitment(ctx context.Context, message *outbox.Message) error {
	entry, err := message.GetCommitmentEntry()
	if err != nil {
		p.logger.Error("Failed to unmarshal commitment entry from outbox payload",
			"outbox_id", message.ID, "entry_id", message.EntryID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if entry.CorrelationID != "" {
		logger = p.logger.With("correlation_id", entry.CorrelationID)
	}

	logger.Info("Attempting to publish commitment entry", "outbox_id", message.ID, "entry_id", entry.ID)

	if err := p.commitmentRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, commitment.ErrDuplicateEntry{}) {
			logger.Info("Commitment entry already stored", "entry_id", entry.ID)
		} else {
			logger.Error("Failed to store commitment entry", "entry_id", entry.ID, "error", err)
			return fmt.Errorf("failed to store commitment entry %s: %w", entry.ID, err)
		}
	}

	if p.producer != nil {
		if err := p.producer.Publish(ctx, entry.AnalyticCode, entry); err != nil {
			logger.Error("Failed to publish commitment event", "entry_id", entry.ID, "error", err)
			return fmt.Errorf("failed to publish commitment event for %s: %w", entry.ID, err)
		}
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "entry_id", entry.ID, "error", err,
		)
		return fmt.Errorf("commitment write for %s OK, but failed to mark outbox %d as PROCESSED: %w", entry.ID, message.ID, err)
	}

	logger.Info("Outbox message successfully processed and marked as PROCESSED", "outbox_id", message.ID, "entry_id", entry.ID)
	return nil
}
