package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/statement-ledger/internal/domain/outbox"
	"github.com/statement-ledger/internal/platform/messaging/producers"
)

// EventPublisher pushes a committed outbox message onto the operation event
// stream and marks it processed.
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// EventPublisherImpl implements EventPublisher on top of the Kafka producer
type EventPublisherImpl struct {
	outboxRepo outbox.Repository
	publisher  producers.MessagePublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	outboxRepo outbox.Repository,
	publisher producers.MessagePublisher,
	logger *slog.Logger,
) EventPublisher {
	return &EventPublisherImpl{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// PublishEvent publishes the message payload to the event stream keyed by the
// owning user, so records of one user stay ordered within a partition. The
// message is marked PROCESSED only after the publish succeeds.
func (p *EventPublisherImpl) PublishEvent(ctx context.Context, message *outbox.Message) error {
	op, err := message.GetOperation()
	if err != nil {
		p.logger.Error("Failed to unmarshal operation record from outbox payload",
			"outbox_id", message.ID, "statement_id", message.StatementID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	if err := p.publisher.Publish(ctx, op.UserID.String(), op); err != nil {
		return fmt.Errorf("failed to publish operation event for outbox %d: %w", message.ID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		p.logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "statement_id", message.StatementID, "error", err,
		)
		return fmt.Errorf("event for %s published, but failed to mark outbox %d as PROCESSED: %w", message.StatementID, message.ID, err)
	}

	p.logger.Info("Outbox message published and marked as PROCESSED", "outbox_id", message.ID, "statement_id", message.StatementID)
	return nil
}
