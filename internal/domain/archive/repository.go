package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages archive entry persistence with pagination support
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByStatementID(ctx context.Context, statementID uuid.UUID) (*Entry, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Entry, error)
}

// ErrEntryNotFound indicates missing archive entry
type ErrEntryNotFound struct {
	StatementID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "archive entry not found: " + e.StatementID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.StatementID == uuid.Nil {
		return true
	}
	return e.StatementID == t.StatementID
}

// ErrDuplicateEntry indicates statement uniqueness violation
type ErrDuplicateEntry struct {
	StatementID uuid.UUID
}

func (e ErrDuplicateEntry) Error() string {
	return "duplicate archive entry: " + e.StatementID.String()
}

// Is implements the errors.Is interface for ErrDuplicateEntry
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	if t.StatementID == uuid.Nil {
		return true
	}
	return e.StatementID == t.StatementID
}
