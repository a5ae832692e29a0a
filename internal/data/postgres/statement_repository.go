package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/statement-ledger/internal/platform/persistence"
)

// StatementRepository implements the statement.Repository interface for
// PostgreSQL. The statements table is append-only: this repository never
// issues UPDATE or DELETE against it.
type StatementRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewStatementRepository creates a new PostgreSQL statement repository
func NewStatementRepository(logger *slog.Logger, db *persistence.PostgresDB) statement.Repository {
	return &StatementRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so ledger appends commit
// atomically with the balance check and outbox write.
func (r *StatementRepository) WithTx(tx pgx.Tx) statement.Repository {
	return &StatementRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends a new operation record to the ledger. The amount travels as
// the decimal's canonical string and is cast to numeric server-side, so no
// binary float representation ever touches the value.
func (r *StatementRepository) Create(ctx context.Context, op *statement.Operation) error {
	query := `
		INSERT INTO statements (id, user_id, sender_id, type, direction, amount, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		op.ID,
		op.UserID,
		op.SenderID,
		op.Type,
		op.Direction,
		op.Amount.String(),
		op.Description,
		op.CreatedAt,
		op.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append statement operation", "id", op.ID.String(), "error", err)
		return fmt.Errorf("failed to append statement operation: %w", err)
	}

	return nil
}

// ListByUser returns every record owned by the user in insertion order
func (r *StatementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*statement.Operation, error) {
	query := `
		SELECT id, user_id, sender_id, type, direction, amount::text, description, created_at, updated_at
		FROM statements
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.querier.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list statement operations", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list statement operations: %w", err)
	}
	defer rows.Close()

	var ops []*statement.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			r.logger.Error("Failed to scan statement operation", "error", err)
			return nil, fmt.Errorf("failed to scan statement operation: %w", err)
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over statement operations", "error", err)
		return nil, fmt.Errorf("error iterating over statement operations: %w", err)
	}

	return ops, nil
}

// GetByIDAndUser retrieves a record scoped to its owner. A record owned by a
// different user yields ErrStatementNotFound, same as an absent one.
func (r *StatementRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*statement.Operation, error) {
	query := `
		SELECT id, user_id, sender_id, type, direction, amount::text, description, created_at, updated_at
		FROM statements
		WHERE id = $1 AND user_id = $2
	`

	op, err := scanOperation(r.querier.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, statement.ErrStatementNotFound{StatementID: id}
		}
		r.logger.Error("Failed to get statement operation", "id", id.String(), "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to get statement operation: %w", err)
	}

	return op, nil
}

// scanOperation reads one row into an Operation, parsing the textual numeric
// amount into an exact decimal
func scanOperation(row pgx.Row) (*statement.Operation, error) {
	var (
		op        statement.Operation
		amountStr string
	)
	err := row.Scan(
		&op.ID,
		&op.UserID,
		&op.SenderID,
		&op.Type,
		&op.Direction,
		&amountStr,
		&op.Description,
		&op.CreatedAt,
		&op.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q in statements row: %w", amountStr, err)
	}
	op.Amount = amount

	return &op, nil
}
