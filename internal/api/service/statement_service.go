package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/statement-ledger/internal/domain/outbox"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/statement-ledger/internal/domain/user"
	"github.com/statement-ledger/internal/platform/persistence"
)

// StatementServiceImpl implements the StatementService interface. Debit
// operations lock the owner's user row for the duration of the transaction so
// that the balance check and the ledger append act as one unit even under
// concurrent requests against the same user.
type StatementServiceImpl struct {
	db            persistence.TxBeginner
	userRepo      user.Repository
	statementRepo statement.Repository
	outboxRepo    outbox.Repository
	logger        *slog.Logger
}

// NewStatementService creates a new statement service
func NewStatementService(
	db persistence.TxBeginner,
	userRepo user.Repository,
	statementRepo statement.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
) *StatementServiceImpl {
	return &StatementServiceImpl{
		db:            db,
		userRepo:      userRepo,
		statementRepo: statementRepo,
		outboxRepo:    outboxRepo,
		logger:        logger,
	}
}

// RecordDeposit appends a deposit record for the user
func (s *StatementServiceImpl) RecordDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*statement.Operation, error) {
	op, err := statement.NewDeposit(userID, amount, description)
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := s.userRepo.WithTx(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		if err := s.statementRepo.WithTx(tx).Create(ctx, op); err != nil {
			return fmt.Errorf("failed to append deposit record: %w", err)
		}
		return s.enqueueOutbox(ctx, tx, op)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit recorded",
		"user_id", userID,
		"statement_id", op.ID,
		"amount", amount.String(),
	)
	return op, nil
}

// RecordWithdrawal appends a withdrawal record after checking funds. The
// check and the append run under the owner's row lock; a withdrawal of
// exactly the current balance succeeds.
func (s *StatementServiceImpl) RecordWithdrawal(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*statement.Operation, error) {
	op, err := statement.NewWithdrawal(userID, amount, description)
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := s.userRepo.WithTx(tx).LockByID(ctx, userID); err != nil {
			return err
		}

		ops, err := s.statementRepo.WithTx(tx).ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load statement for balance check: %w", err)
		}
		if statement.ComputeBalance(ops).LessThan(amount) {
			return statement.ErrInsufficientFunds
		}

		if err := s.statementRepo.WithTx(tx).Create(ctx, op); err != nil {
			return fmt.Errorf("failed to append withdrawal record: %w", err)
		}
		return s.enqueueOutbox(ctx, tx, op)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal recorded",
		"user_id", userID,
		"statement_id", op.ID,
		"amount", amount.String(),
	)
	return op, nil
}

// GetBalance derives the user's balance from committed records
func (s *StatementServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID, includeStatement bool) (*statement.Balance, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	ops, err := s.statementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load statement: %w", err)
	}

	balance := &statement.Balance{Total: statement.ComputeBalance(ops)}
	if includeStatement {
		balance.Statement = ops
	}
	return balance, nil
}

// GetOperation retrieves one record scoped to its owner
func (s *StatementServiceImpl) GetOperation(ctx context.Context, userID, statementID uuid.UUID) (*statement.Operation, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.statementRepo.GetByIDAndUser(ctx, statementID, userID)
}

// enqueueOutbox stores the committed record for event publishing in the same
// transaction as the ledger append
func (s *StatementServiceImpl) enqueueOutbox(ctx context.Context, tx pgx.Tx, op *statement.Operation) error {
	msg, err := outbox.NewMessage(op)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to enqueue outbox message: %w", err)
	}
	return nil
}
