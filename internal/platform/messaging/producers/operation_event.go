package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/statement-ledger/internal/config"
)

// OperationEventProducer publishes committed operation records to the
// statement event stream consumed by the archiver.
type OperationEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewOperationEventProducer creates the event stream producer and ensures the topic exists
func NewOperationEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*OperationEventProducer, error) {
	if cfg.OperationTopic == "" {
		return nil, fmt.Errorf("kafka operation topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for operation event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.OperationTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure operation topic %s exists: %w", cfg.OperationTopic, err)
	}

	// Writes are synchronous: the outbox poller marks a message PROCESSED
	// only after Publish returns, so the ack must arrive first. The hash
	// balancer keeps all of one user's records in a single partition.
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.OperationTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &OperationEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.OperationTopic,
	}, nil
}

func (p *OperationEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal operation event value: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish operation event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish operation event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published operation event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *OperationEventProducer) Close() error {
	p.logger.Info("Closing operation event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
