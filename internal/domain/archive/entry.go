// Package archive defines the statement archive read model: committed
// operation records projected into a query-friendly store, fed from the
// operation event stream.
package archive

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/statement-ledger/internal/domain/statement"
)

// Entry is an archived operation record. Amount is kept as the decimal's
// canonical string so the archive never loses precision.
type Entry struct {
	StatementID uuid.UUID               `json:"statement_id" bson:"statement_id"`
	UserID      uuid.UUID               `json:"user_id" bson:"user_id"`
	SenderID    *uuid.UUID              `json:"sender_id,omitempty" bson:"sender_id,omitempty"`
	Type        statement.OperationType `json:"type" bson:"type"`
	Direction   statement.Direction     `json:"direction" bson:"direction"`
	Amount      string                  `json:"amount" bson:"amount"`
	Description string                  `json:"description" bson:"description"`
	CreatedAt   time.Time               `json:"created_at" bson:"created_at"`
	ArchivedAt  time.Time               `json:"archived_at" bson:"archived_at"`
}

// NewEntry builds an archive entry from a committed operation record
func NewEntry(op *statement.Operation) *Entry {
	return &Entry{
		StatementID: op.ID,
		UserID:      op.UserID,
		SenderID:    op.SenderID,
		Type:        op.Type,
		Direction:   op.Direction,
		Amount:      op.Amount.String(),
		Description: op.Description,
		CreatedAt:   op.CreatedAt,
		ArchivedAt:  time.Now().UTC(),
	}
}

// AmountDecimal parses the archived amount back into a decimal
func (e *Entry) AmountDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(e.Amount)
}
