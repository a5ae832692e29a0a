package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/statement-ledger/internal/archiver/service"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/statement-ledger/internal/platform/messaging/producers"
)

// OperationEventHandler handles committed operation records arriving on the
// event stream and hands them to the archive service
type OperationEventHandler struct {
	archiveService service.ArchiveService
	producer       producers.DeadLetterPublisher
	logger         *slog.Logger
}

// NewOperationEventHandler creates a new handler
func NewOperationEventHandler(
	logger *slog.Logger,
	archiveService service.ArchiveService,
	producer producers.DeadLetterPublisher,
) *OperationEventHandler {
	return &OperationEventHandler{
		archiveService: archiveService,
		producer:       producer,
		logger:         logger,
	}
}

// HandleMessage processes Kafka messages
func (h *OperationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var op statement.Operation
	if err := json.Unmarshal(value, &op); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal operation record from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	h.logger.Info("Received operation record for archiving",
		"statement_id", op.ID.String(),
		"user_id", op.UserID.String(),
		"type", op.Type,
	)

	if err := h.archiveService.ArchiveOperation(ctx, &op); err != nil {
		h.logger.Error("Failed to archive operation record",
			"statement_id", op.ID.String(),
			"user_id", op.UserID.String(),
			"error", err,
		)
		return fmt.Errorf("archiving operation record %s failed: %w", op.ID.String(), err)
	}

	h.logger.Info("Successfully archived operation record", "statement_id", op.ID.String())
	return nil // Success, commit offset
}
