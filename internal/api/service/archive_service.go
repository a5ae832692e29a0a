package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/statement-ledger/internal/domain/archive"
)

// ArchiveServiceImpl implements the ArchiveService interface over the
// MongoDB-backed archive read model
type ArchiveServiceImpl struct {
	archiveRepo archive.Repository
	logger      *slog.Logger
}

// NewArchiveService creates a new archive query service
func NewArchiveService(archiveRepo archive.Repository, logger *slog.Logger) *ArchiveServiceImpl {
	return &ArchiveServiceImpl{
		archiveRepo: archiveRepo,
		logger:      logger,
	}
}

// GetUserArchive retrieves one page of a user's archived records together
// with the user's total entry count
func (s *ArchiveServiceImpl) GetUserArchive(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*archive.Entry, int64, error) {
	offset := (page - 1) * perPage

	entries, err := s.archiveRepo.GetByUserID(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load user archive page: %w", err)
	}

	total, err := s.archiveRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count user archive entries: %w", err)
	}

	return entries, total, nil
}

// GetArchiveByTimeRange retrieves one page of archived records created inside
// the window, across all users
func (s *ArchiveServiceImpl) GetArchiveByTimeRange(ctx context.Context, from, to time.Time, page, perPage int) ([]*archive.Entry, error) {
	offset := (page - 1) * perPage

	entries, err := s.archiveRepo.GetByTimeRange(ctx, from, to, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive page for time range: %w", err)
	}

	return entries, nil
}
