package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/statement-ledger/internal/domain/archive"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/statement-ledger/internal/domain/user"
)

// UserService defines the interface for user operations
type UserService interface {
	// CreateUser creates a new user with the given details
	// Returns ErrDuplicateEmail if a user with the same email exists
	CreateUser(ctx context.Context, name string, email string) (*user.User, error)

	// GetUserByID retrieves a user by its ID
	// Returns ErrUserNotFound if the user doesn't exist
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// StatementService defines the interface for single-party ledger operations
type StatementService interface {
	// RecordDeposit appends a deposit record for the user
	// Returns ErrUserNotFound if the user doesn't exist
	RecordDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*statement.Operation, error)

	// RecordWithdrawal appends a withdrawal record after checking funds.
	// Returns ErrUserNotFound or ErrInsufficientFunds; a withdrawal of
	// exactly the current balance succeeds.
	RecordWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*statement.Operation, error)

	// GetBalance derives the user's balance from committed records,
	// optionally returning the contributing records
	GetBalance(ctx context.Context, userID uuid.UUID, includeStatement bool) (*statement.Balance, error)

	// GetOperation retrieves one record scoped to its owner.
	// Returns ErrStatementNotFound for absent or foreign-owned records.
	GetOperation(ctx context.Context, userID, statementID uuid.UUID) (*statement.Operation, error)
}

// TransferService defines the interface for two-party transfers
type TransferService interface {
	// Transfer moves funds between two users as a single atomic unit and
	// returns the receiver's credit leg
	Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (*statement.Operation, error)
}

// ArchiveService defines the interface for querying the statement archive
// read model. The archive is fed asynchronously from the operation event
// stream, so results trail the ledger by the pipeline's lag.
type ArchiveService interface {
	// GetUserArchive retrieves one page of a user's archived records, newest
	// first. Returns the page, the user's total entry count, and any error.
	GetUserArchive(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*archive.Entry, int64, error)

	// GetArchiveByTimeRange retrieves one page of archived records created
	// inside the window, newest first, across all users
	GetArchiveByTimeRange(ctx context.Context, from, to time.Time, page, perPage int) ([]*archive.Entry, error)
}
