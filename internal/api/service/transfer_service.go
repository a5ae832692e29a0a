package service

import (
	"context"
	"errors"
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

// TransferServiceImpl implements the TransferService interface. A transfer
// commits both legs, or neither: the debit and credit records and their
// outbox messages share one database transaction, guarded by the sender's
// row lock.
type TransferServiceImpl struct {
	db            persistence.TxBeginner
	userRepo      user.Repository
	statementRepo statement.Repository
	outboxRepo    outbox.Repository
	logger        *slog.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(
	db persistence.TxBeginner,
	userRepo user.Repository,
	statementRepo statement.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		db:            db,
		userRepo:      userRepo,
		statementRepo: statementRepo,
		outboxRepo:    outboxRepo,
		logger:        logger,
	}
}

// Transfer moves funds between two users as a single atomic unit and returns
// the receiver's credit leg
func (s *TransferServiceImpl) Transfer(ctx context.Context, senderID, receiverID uuid.UUID, amount decimal.Decimal, description string) (*statement.Operation, error) {
	debit, credit, err := statement.NewTransferLegs(senderID, receiverID, amount, description)
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := s.userRepo.WithTx(tx).LockByID(ctx, senderID); err != nil {
			if errors.Is(err, user.ErrUserNotFound{}) {
				return statement.ErrSendingUserNotFound
			}
			return err
		}
		if _, err := s.userRepo.WithTx(tx).GetByID(ctx, receiverID); err != nil {
			if errors.Is(err, user.ErrUserNotFound{}) {
				return statement.ErrReceivingUserNotFound
			}
			return err
		}

		ops, err := s.statementRepo.WithTx(tx).ListByUser(ctx, senderID)
		if err != nil {
			return fmt.Errorf("failed to load sender statement for balance check: %w", err)
		}
		if statement.ComputeBalance(ops).LessThan(amount) {
			return statement.ErrInsufficientFunds
		}

		statementTx := s.statementRepo.WithTx(tx)
		if err := statementTx.Create(ctx, debit); err != nil {
			return fmt.Errorf("failed to append debit leg: %w", err)
		}
		if err := statementTx.Create(ctx, credit); err != nil {
			return fmt.Errorf("failed to append credit leg: %w", err)
		}

		if err := s.enqueueOutbox(ctx, tx, debit); err != nil {
			return err
		}
		return s.enqueueOutbox(ctx, tx, credit)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer recorded",
		"sender_id", senderID,
		"receiver_id", receiverID,
		"debit_statement_id", debit.ID,
		"credit_statement_id", credit.ID,
		"amount", amount.String(),
	)
	return credit, nil
}

func (s *TransferServiceImpl) enqueueOutbox(ctx context.Context, tx pgx.Tx, op *statement.Operation) error {
	msg, err := outbox.NewMessage(op)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to enqueue outbox message: %w", err)
	}
	return nil
}
