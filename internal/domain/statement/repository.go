package statement

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is the ledger store contract. The ledger is append-only:
// there is no update or delete.
type Repository interface {
	Create(ctx context.Context, op *Operation) error

	// ListByUser returns every record owned by the user in insertion order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Operation, error)

	// GetByIDAndUser is an ownership-scoped point lookup. A record owned by a
	// different user is reported as not found so that record ids never leak
	// across users.
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*Operation, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrStatementNotFound indicates the record does not exist under the given
// owner. It deliberately covers both "absent" and "owned by someone else".
type ErrStatementNotFound struct {
	StatementID uuid.UUID
}

func (e ErrStatementNotFound) Error() string {
	return "statement operation not found: " + e.StatementID.String()
}

// Is implements the errors.Is interface for ErrStatementNotFound
func (e ErrStatementNotFound) Is(target error) bool {
	t, ok := target.(ErrStatementNotFound)
	if !ok {
		return false
	}
	if t.StatementID == uuid.Nil {
		return true
	}
	return e.StatementID == t.StatementID
}
