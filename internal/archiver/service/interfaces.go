package service

import (
	"context"

	"github.com/statement-ledger/internal/domain/statement"
)

// ArchiveService projects committed operation records into the archive store
type ArchiveService interface {
	// ArchiveOperation stores one operation record. Re-delivered records are
	// treated as already archived, not as errors.
	ArchiveOperation(ctx context.Context, op *statement.Operation) error
}
