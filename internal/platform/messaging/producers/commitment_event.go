package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sdrt-erp/budget-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// CommitmentEventProducer publishes commitment audit entries to the
// budget-commitments topic for downstream consumers (reporting, alerting).
// Messages are keyed by analytic code so all movements of one budget land on
// the same partition in order.
type CommitmentEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewCommitmentEventProducer creates the producer and ensures the topic exists
func NewCommitmentEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*CommitmentEventProducer, error) {
	if cfg.CommitmentTopic == "" {
		return nil, fmt.Errorf("kafka commitment topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for commitment producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.CommitmentTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure topic %s exists for commitment producer: %w", cfg.CommitmentTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.CommitmentTopic,
		Balancer:     &kafka.Hash{}, // Keep one budget's movements on one partition
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &CommitmentEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.CommitmentTopic,
	}, nil
}

func (p *CommitmentEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal commitment event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish commitment event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish commitment event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published commitment event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *CommitmentEventProducer) Close() error {
	p.logger.Info("Closing commitment event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
