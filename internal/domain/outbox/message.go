// Package outbox implements the transactional outbox used to publish
// committed operation records without losing events: the message row commits
// in the same database transaction as the ledger append.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/statement-ledger/internal/domain/statement"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a committed operation record for reliable event publishing
type Message struct {
	ID            int64           `json:"id"`
	StatementID   uuid.UUID       `json:"statement_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

func NewMessage(op *statement.Operation) (*Message, error) {
	payload, err := json.Marshal(op)
	if err != nil {
		return nil, err
	}

	return &Message{
		StatementID: op.ID,
		UserID:      op.UserID,
		Payload:     payload,
		Status:      StatusPending,
		Attempts:    0,
		CreatedAt:   time.Now(),
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

// GetOperation extracts the operation record from the payload
func (m *Message) GetOperation() (*statement.Operation, error) {
	var op statement.Operation
	if err := json.Unmarshal(m.Payload, &op); err != nil {
		return nil, err
	}
	return &op, nil
}
