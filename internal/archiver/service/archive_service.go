package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/statement-ledger/internal/domain/archive"
	"github.com/statement-ledger/internal/domain/statement"
)

// ArchiveServiceImpl implements the ArchiveService interface
type ArchiveServiceImpl struct {
	archiveRepo archive.Repository
	logger      *slog.Logger
}

// NewArchiveService creates a new archive service
func NewArchiveService(archiveRepo archive.Repository, logger *slog.Logger) *ArchiveServiceImpl {
	return &ArchiveServiceImpl{
		archiveRepo: archiveRepo,
		logger:      logger,
	}
}

// ArchiveOperation stores one operation record in the archive. The event
// stream delivers at least once, so a duplicate entry means the record was
// already archived and counts as success.
func (s *ArchiveServiceImpl) ArchiveOperation(ctx context.Context, op *statement.Operation) error {
	entry := archive.NewEntry(op)

	if err := s.archiveRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, archive.ErrDuplicateEntry{}) {
			s.logger.Info("Operation record already archived, skipping",
				"statement_id", op.ID,
				"user_id", op.UserID,
			)
			return nil
		}
		return fmt.Errorf("failed to archive operation record %s: %w", op.ID, err)
	}

	s.logger.Info("Operation record archived",
		"statement_id", op.ID,
		"user_id", op.UserID,
		"type", op.Type,
	)
	return nil
}
