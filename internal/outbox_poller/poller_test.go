package outbox_poller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/statement-ledger/internal/config"
	"github.com/statement-ledger/internal/domain/outbox"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func TestPoller_ProcessPendingMessages(t *testing.T) {
	logger := slog.Default()

	cfg := &config.OutboxConfig{
		PollingInterval:  time.Second,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}

	op := &statement.Operation{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Type:      statement.OperationTypeDeposit,
		Direction: statement.DirectionCredit,
		Amount:    decimal.RequireFromString("10.00"),
	}
	payload, err := json.Marshal(op)
	assert.NoError(t, err)

	message1 := &outbox.Message{
		ID:          1,
		StatementID: op.ID,
		UserID:      op.UserID,
		Status:      outbox.StatusPending,
		Payload:     payload,
		Attempts:    0,
		CreatedAt:   time.Now(),
	}

	message2 := &outbox.Message{
		ID:          2,
		StatementID: uuid.New(),
		UserID:      uuid.New(),
		Status:      outbox.StatusPending,
		Payload:     payload,
		Attempts:    0,
		CreatedAt:   time.Now(),
	}

	tests := []struct {
		name          string
		setupMocks    func(repo *MockOutboxRepo, publisher *MockEventPublisher)
		expectedError string
	}{
		{
			name: "successful processing of pending messages",
			setupMocks: func(repo *MockOutboxRepo, publisher *MockEventPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()
				publisher.On("PublishEvent", mock.Anything, message1).Return(nil).Once()
				publisher.On("PublishEvent", mock.Anything, message2).Return(nil).Once()
			},
		},
		{
			name: "error getting pending messages",
			setupMocks: func(repo *MockOutboxRepo, publisher *MockEventPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return(nil, errors.New("db error")).Once()
			},
			expectedError: "failed to get pending outbox messages",
		},
		{
			name: "no pending messages",
			setupMocks: func(repo *MockOutboxRepo, publisher *MockEventPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Once()
			},
		},
		{
			name: "error publishing one message",
			setupMocks: func(repo *MockOutboxRepo, publisher *MockEventPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()
				publisher.On("PublishEvent", mock.Anything, message1).Return(errors.New("publish error")).Once()
				repo.On("IncrementAttempts", mock.Anything, int64(1)).Return(nil).Once()
				publisher.On("PublishEvent", mock.Anything, message2).Return(nil).Once()
			},
		},
		{
			name: "max retry attempts reached",
			setupMocks: func(repo *MockOutboxRepo, publisher *MockEventPublisher) {
				maxAttemptsMessage := &outbox.Message{
					ID:          3,
					StatementID: uuid.New(),
					UserID:      uuid.New(),
					Status:      outbox.StatusPending,
					Payload:     payload,
					Attempts:    2,
					CreatedAt:   time.Now(),
				}
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{maxAttemptsMessage}, nil).Once()
				publisher.On("PublishEvent", mock.Anything, maxAttemptsMessage).Return(errors.New("publish error")).Once()
				repo.On("IncrementAttempts", mock.Anything, int64(3)).Return(nil).Once()
				repo.On("UpdateStatus", mock.Anything, int64(3), outbox.StatusFailedToPublish).Return(nil).Once()
			},
		},
		{
			name: "increment attempts fails",
			setupMocks: func(repo *MockOutboxRepo, publisher *MockEventPublisher) {
				repo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1}, nil).Once()
				publisher.On("PublishEvent", mock.Anything, message1).Return(errors.New("publish error")).Once()
				repo.On("IncrementAttempts", mock.Anything, int64(1)).Return(errors.New("db error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockOutboxRepo{}
			mockPublisher := &MockEventPublisher{}
			tt.setupMocks(mockRepo, mockPublisher)

			poller := NewPoller(cfg, mockRepo, mockPublisher, logger)
			err := poller.processPendingMessages(context.Background())

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
			mockPublisher.AssertExpectations(t)
		})
	}
}

func TestPoller_StartStopsOnContextCancel(t *testing.T) {
	mockRepo := &MockOutboxRepo{}
	mockPublisher := &MockEventPublisher{}

	cfg := &config.OutboxConfig{
		PollingInterval:  10 * time.Millisecond,
		BatchSize:        5,
		MaxRetryAttempts: 3,
	}
	poller := NewPoller(cfg, mockRepo, mockPublisher, slog.Default())

	mockRepo.On("GetPending", mock.Anything, 5).Return([]*outbox.Message{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}
