package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockArchiveService for testing
type MockArchiveService struct {
	mock.Mock
}

func (m *MockArchiveService) ArchiveOperation(ctx context.Context, op *statement.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

// MockDLQPublisher for testing
type MockDLQPublisher struct {
	mock.Mock
}

func (m *MockDLQPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

func (m *MockDLQPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func encodedOperation(t *testing.T) (*statement.Operation, []byte) {
	t.Helper()
	op := &statement.Operation{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Type:      statement.OperationTypeDeposit,
		Direction: statement.DirectionCredit,
		Amount:    decimal.RequireFromString("50.00"),
		CreatedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(op)
	require.NoError(t, err)
	return op, value
}

func TestOperationEventHandler_HandleMessage(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockArchive := &MockArchiveService{}
		mockDLQ := &MockDLQPublisher{}
		handler := NewOperationEventHandler(logger, mockArchive, mockDLQ)

		op, value := encodedOperation(t)
		mockArchive.On("ArchiveOperation", mock.Anything, mock.MatchedBy(func(got *statement.Operation) bool {
			return got.ID == op.ID && got.Amount.Equal(op.Amount)
		})).Return(nil).Once()

		err := handler.HandleMessage(ctx, []byte(op.UserID.String()), value)

		assert.NoError(t, err)
		mockArchive.AssertExpectations(t)
		mockDLQ.AssertNotCalled(t, "PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnmarshalErrorGoesToDLQ", func(t *testing.T) {
		mockArchive := &MockArchiveService{}
		mockDLQ := &MockDLQPublisher{}
		handler := NewOperationEventHandler(logger, mockArchive, mockDLQ)

		value := []byte(`{not json`)
		mockDLQ.On("PublishToDLQ", mock.Anything, "key1", value, mock.AnythingOfType("string")).Return(nil).Once()

		// Message landed on the DLQ so the offset can be committed
		err := handler.HandleMessage(ctx, []byte("key1"), value)

		assert.NoError(t, err)
		mockDLQ.AssertExpectations(t)
		mockArchive.AssertNotCalled(t, "ArchiveOperation", mock.Anything, mock.Anything)
	})

	t.Run("UnmarshalErrorAndDLQFails", func(t *testing.T) {
		mockArchive := &MockArchiveService{}
		mockDLQ := &MockDLQPublisher{}
		handler := NewOperationEventHandler(logger, mockArchive, mockDLQ)

		value := []byte(`{not json`)
		mockDLQ.On("PublishToDLQ", mock.Anything, "key1", value, mock.AnythingOfType("string")).
			Return(errors.New("dlq unavailable")).Once()

		err := handler.HandleMessage(ctx, []byte("key1"), value)

		assert.Error(t, err, "Offset must not be committed so the message is redelivered")
	})

	t.Run("UnmarshalErrorWithoutDLQ", func(t *testing.T) {
		mockArchive := &MockArchiveService{}
		handler := NewOperationEventHandler(logger, mockArchive, nil)

		err := handler.HandleMessage(ctx, []byte("key1"), []byte(`{not json`))

		assert.Error(t, err)
	})

	t.Run("ArchiveError", func(t *testing.T) {
		mockArchive := &MockArchiveService{}
		mockDLQ := &MockDLQPublisher{}
		handler := NewOperationEventHandler(logger, mockArchive, mockDLQ)

		op, value := encodedOperation(t)
		archiveErr := errors.New("mongo down")
		mockArchive.On("ArchiveOperation", mock.Anything, mock.Anything).Return(archiveErr).Once()

		err := handler.HandleMessage(ctx, []byte(op.UserID.String()), value)

		assert.Error(t, err)
		assert.ErrorIs(t, err, archiveErr)
		mockDLQ.AssertNotCalled(t, "PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
