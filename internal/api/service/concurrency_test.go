package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/statement-ledger/internal/domain/outbox"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/statement-ledger/internal/domain/user"
	"github.com/statement-ledger/internal/platform/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedgerDB is an in-memory database for exercising debit operations under
// real goroutine concurrency. Begin hands out transactions that stage ledger
// writes and hold row locks until commit or rollback, the same lifetime the
// row lock has inside a pgx transaction.
type fakeLedgerDB struct {
	mu       sync.Mutex
	rowLocks map[uuid.UUID]*sync.Mutex
	users    map[uuid.UUID]*user.User
	ledger   map[uuid.UUID][]*statement.Operation
}

func newFakeLedgerDB(users ...*user.User) *fakeLedgerDB {
	db := &fakeLedgerDB{
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
		users:    make(map[uuid.UUID]*user.User),
		ledger:   make(map[uuid.UUID][]*statement.Operation),
	}
	for _, u := range users {
		db.users[u.ID] = u
	}
	return db
}

func (db *fakeLedgerDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeLedgerTx{db: db}, nil
}

func (db *fakeLedgerDB) rowLockFor(id uuid.UUID) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.rowLocks[id] == nil {
		db.rowLocks[id] = &sync.Mutex{}
	}
	return db.rowLocks[id]
}

func (db *fakeLedgerDB) committedOps(userID uuid.UUID) []*statement.Operation {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]*statement.Operation(nil), db.ledger[userID]...)
}

func (db *fakeLedgerDB) seed(t *testing.T, userID uuid.UUID, amount string) {
	t.Helper()
	op, err := statement.NewDeposit(userID, decimal.RequireFromString(amount), "opening balance")
	require.NoError(t, err)
	db.mu.Lock()
	db.ledger[userID] = append(db.ledger[userID], op)
	db.mu.Unlock()
}

// fakeLedgerTx stages writes until Commit. Committed writes become visible
// before the row locks are released, so the next holder of a lock always
// reads a consistent ledger.
type fakeLedgerTx struct {
	pgx.Tx
	db      *fakeLedgerDB
	held    []*sync.Mutex
	pending []*statement.Operation
	done    sync.Once
}

func (t *fakeLedgerTx) Commit(context.Context) error {
	t.finish(true)
	return nil
}

func (t *fakeLedgerTx) Rollback(context.Context) error {
	t.finish(false)
	return nil
}

func (t *fakeLedgerTx) finish(commit bool) {
	t.done.Do(func() {
		if commit {
			t.db.mu.Lock()
			for _, op := range t.pending {
				t.db.ledger[op.UserID] = append(t.db.ledger[op.UserID], op)
			}
			t.db.mu.Unlock()
		}
		for i := len(t.held) - 1; i >= 0; i-- {
			t.held[i].Unlock()
		}
	})
}

type fakeUserStore struct {
	db *fakeLedgerDB
	tx *fakeLedgerTx
}

func (r *fakeUserStore) Create(ctx context.Context, u *user.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users[u.ID] = u
	return nil
}

func (r *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound{UserID: id}
}

func (r *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrUserNotFound{}
}

func (r *fakeUserStore) LockByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mu := r.db.rowLockFor(id)
	mu.Lock()
	r.tx.held = append(r.tx.held, mu)
	return u, nil
}

func (r *fakeUserStore) WithTx(tx pgx.Tx) user.Repository {
	return &fakeUserStore{db: r.db, tx: tx.(*fakeLedgerTx)}
}

type fakeStatementStore struct {
	db *fakeLedgerDB
	tx *fakeLedgerTx
}

func (r *fakeStatementStore) Create(ctx context.Context, op *statement.Operation) error {
	r.tx.pending = append(r.tx.pending, op)
	return nil
}

func (r *fakeStatementStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*statement.Operation, error) {
	ops := r.db.committedOps(userID)
	if r.tx != nil {
		for _, op := range r.tx.pending {
			if op.UserID == userID {
				ops = append(ops, op)
			}
		}
	}
	return ops, nil
}

func (r *fakeStatementStore) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*statement.Operation, error) {
	for _, op := range r.db.committedOps(userID) {
		if op.ID == id {
			return op, nil
		}
	}
	return nil, statement.ErrStatementNotFound{StatementID: id}
}

func (r *fakeStatementStore) WithTx(tx pgx.Tx) statement.Repository {
	return &fakeStatementStore{db: r.db, tx: tx.(*fakeLedgerTx)}
}

type fakeOutboxStore struct{}

func (r *fakeOutboxStore) Create(ctx context.Context, message *outbox.Message) error { return nil }
func (r *fakeOutboxStore) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	return nil, nil
}
func (r *fakeOutboxStore) UpdateStatus(ctx context.Context, id int64, status outbox.Status) error {
	return nil
}
func (r *fakeOutboxStore) IncrementAttempts(ctx context.Context, id int64) error { return nil }

func (r *fakeOutboxStore) Delete(ctx context.Context, id int64) error { return nil }
func (r *fakeOutboxStore) GetByStatementID(ctx context.Context, statementID uuid.UUID) (*outbox.Message, error) {
	return nil, outbox.ErrMessageNotFound{}
}
func (r *fakeOutboxStore) WithTx(tx pgx.Tx) outbox.Repository { return r }

var (
	_ persistence.TxBeginner = (*fakeLedgerDB)(nil)
	_ user.Repository        = (*fakeUserStore)(nil)
	_ statement.Repository   = (*fakeStatementStore)(nil)
	_ outbox.Repository      = (*fakeOutboxStore)(nil)
)

func TestRecordWithdrawal_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	owner := &user.User{ID: uuid.New(), Name: "Dana", Email: "dana@example.com"}
	db := newFakeLedgerDB(owner)

	// Funds cover all but one of the withdrawals
	const attempts = 8
	amount := decimal.RequireFromString("10")
	db.seed(t, owner.ID, "70")

	svc := NewStatementService(db, &fakeUserStore{db: db}, &fakeStatementStore{db: db}, &fakeOutboxStore{}, newTestLogger())

	errCh := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordWithdrawal(ctx, owner.ID, amount, "concurrent spend")
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var failures []error
	for err := range errCh {
		if err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], statement.ErrInsufficientFunds)

	ops := db.committedOps(owner.ID)
	assert.Len(t, ops, attempts) // seed deposit plus the successful withdrawals
	assert.True(t, statement.ComputeBalance(ops).IsZero(),
		"balance after concurrent withdrawals: %s", statement.ComputeBalance(ops))
}

func TestTransfer_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	sender := &user.User{ID: uuid.New(), Name: "Dana", Email: "dana@example.com"}
	receiver := &user.User{ID: uuid.New(), Name: "Kim", Email: "kim@example.com"}
	db := newFakeLedgerDB(sender, receiver)

	// Funds cover exactly one of the two transfers
	amount := decimal.RequireFromString("50")
	db.seed(t, sender.ID, "50")

	svc := NewTransferService(db, &fakeUserStore{db: db}, &fakeStatementStore{db: db}, &fakeOutboxStore{}, newTestLogger())

	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, sender.ID, receiver.ID, amount, "split bill")
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var failures []error
	for err := range errCh {
		if err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1)
	assert.True(t, errors.Is(failures[0], statement.ErrInsufficientFunds))

	senderOps := db.committedOps(sender.ID)
	receiverOps := db.committedOps(receiver.ID)
	// Both legs of the winning transfer committed together
	require.Len(t, senderOps, 2)
	require.Len(t, receiverOps, 1)
	assert.True(t, statement.ComputeBalance(senderOps).IsZero())
	assert.True(t, statement.ComputeBalance(receiverOps).Equal(amount))
}
