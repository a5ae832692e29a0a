package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/statement-ledger/internal/domain/archive"
	"github.com/statement-ledger/internal/domain/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Create(ctx context.Context, entry *archive.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockArchiveRepository) GetByStatementID(ctx context.Context, statementID uuid.UUID) (*archive.Entry, error) {
	args := m.Called(ctx, statementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*archive.Entry), args.Error(1)
}

func (m *MockArchiveRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*archive.Entry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*archive.Entry), args.Error(1)
}

func (m *MockArchiveRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArchiveRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*archive.Entry, error) {
	args := m.Called(ctx, startTime, endTime, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*archive.Entry), args.Error(1)
}

func archivedEntry(userID uuid.UUID, amount string) *archive.Entry {
	return &archive.Entry{
		StatementID: uuid.New(),
		UserID:      userID,
		Type:        statement.OperationTypeDeposit,
		Direction:   statement.DirectionCredit,
		Amount:      amount,
		CreatedAt:   time.Now().UTC(),
		ArchivedAt:  time.Now().UTC(),
	}
}

func TestArchiveService_GetUserArchive(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		archiveRepo := new(MockArchiveRepository)
		svc := NewArchiveService(archiveRepo, newTestLogger())

		entries := []*archive.Entry{archivedEntry(userID, "100.5"), archivedEntry(userID, "20")}
		archiveRepo.On("GetByUserID", ctx, userID, 10, 0).Return(entries, nil).Once()
		archiveRepo.On("CountByUserID", ctx, userID).Return(int64(12), nil).Once()

		got, total, err := svc.GetUserArchive(ctx, userID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
		assert.Equal(t, int64(12), total)
		archiveRepo.AssertExpectations(t)
	})

	t.Run("SecondPageUsesOffset", func(t *testing.T) {
		archiveRepo := new(MockArchiveRepository)
		svc := NewArchiveService(archiveRepo, newTestLogger())

		archiveRepo.On("GetByUserID", ctx, userID, 5, 10).Return([]*archive.Entry{}, nil).Once()
		archiveRepo.On("CountByUserID", ctx, userID).Return(int64(11), nil).Once()

		_, total, err := svc.GetUserArchive(ctx, userID, 3, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(11), total)
		archiveRepo.AssertExpectations(t)
	})

	t.Run("PageQueryError", func(t *testing.T) {
		archiveRepo := new(MockArchiveRepository)
		svc := NewArchiveService(archiveRepo, newTestLogger())

		archiveRepo.On("GetByUserID", ctx, userID, 10, 0).Return(nil, assert.AnError).Once()

		_, _, err := svc.GetUserArchive(ctx, userID, 1, 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		archiveRepo.AssertNotCalled(t, "CountByUserID", mock.Anything, mock.Anything)
	})

	t.Run("CountError", func(t *testing.T) {
		archiveRepo := new(MockArchiveRepository)
		svc := NewArchiveService(archiveRepo, newTestLogger())

		archiveRepo.On("GetByUserID", ctx, userID, 10, 0).Return([]*archive.Entry{}, nil).Once()
		archiveRepo.On("CountByUserID", ctx, userID).Return(int64(0), assert.AnError).Once()

		_, _, err := svc.GetUserArchive(ctx, userID, 1, 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestArchiveService_GetArchiveByTimeRange(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		archiveRepo := new(MockArchiveRepository)
		svc := NewArchiveService(archiveRepo, newTestLogger())

		entries := []*archive.Entry{archivedEntry(uuid.New(), "0.3")}
		archiveRepo.On("GetByTimeRange", ctx, from, to, 10, 10).Return(entries, nil).Once()

		got, err := svc.GetArchiveByTimeRange(ctx, from, to, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
		archiveRepo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		archiveRepo := new(MockArchiveRepository)
		svc := NewArchiveService(archiveRepo, newTestLogger())

		archiveRepo.On("GetByTimeRange", ctx, from, to, 10, 0).Return(nil, assert.AnError).Once()

		_, err := svc.GetArchiveByTimeRange(ctx, from, to, 1, 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
