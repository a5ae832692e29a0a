package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/statement-ledger/internal/domain/statement"
)

// WorkerPoolArchiveService implements the ArchiveService interface by
// fanning archive writes out to a bounded worker pool
type WorkerPoolArchiveService struct {
	baseService ArchiveService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolArchiveService(
	baseService ArchiveService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolArchiveService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolArchiveService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ArchiveOperation submits an operation record to the worker pool and waits
// for the outcome so the caller can decide whether to commit the offset.
func (s *WorkerPoolArchiveService) ArchiveOperation(ctx context.Context, op *statement.Operation) error {
	s.logger.Debug("Submitting operation record to worker pool",
		"statement_id", op.ID.String(),
		"user_id", op.UserID.String(),
	)

	resultChan := make(chan error, 1)

	statementID := op.ID.String()
	s.mu.Lock()
	s.results[statementID] = resultChan
	s.mu.Unlock()

	// Create a copy of the record to avoid data races
	opCopy := *op

	err := s.pool.Submit(func() {
		err := s.baseService.ArchiveOperation(ctx, &opCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, statementID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, statementID)
		close(resultChan)
		s.mu.Unlock()

		s.logger.Error("Failed to submit operation record to worker pool",
			"statement_id", op.ID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolArchiveService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolArchiveService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolArchiveService) Capacity() int {
	return s.pool.Cap()
}
