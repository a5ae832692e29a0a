package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/statement-ledger/internal/domain/archive"
)

const (
	// ArchiveCollectionName is the name of the archive collection in MongoDB
	ArchiveCollectionName = "statement_archive"
)

// ArchiveRepository implements the archive.Repository interface for MongoDB
type ArchiveRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewArchiveRepository creates a new MongoDB archive repository
func NewArchiveRepository(logger *slog.Logger, db *mongo.Database) archive.Repository {
	return &ArchiveRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new archive entry after checking for duplicates.
// Returns ErrDuplicateEntry if an entry with the same statement ID exists,
// which keeps re-delivered events idempotent.
func (r *ArchiveRepository) Create(ctx context.Context, entry *archive.Entry) error {
	collection := r.db.Collection(ArchiveCollectionName)

	existingEntry, err := r.GetByStatementID(ctx, entry.StatementID)
	if err != nil && !errors.Is(err, archive.ErrEntryNotFound{}) {
		r.logger.Error("Failed to check for existing archive entry",
			"statement_id", entry.StatementID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing archive entry: %w", err)
	}

	if existingEntry != nil {
		return archive.ErrDuplicateEntry{StatementID: entry.StatementID}
	}

	_, err = collection.InsertOne(ctx, entry)
	if err != nil {
		r.logger.Error("Failed to create archive entry",
			"statement_id", entry.StatementID.String(),
			"error", err)
		return fmt.Errorf("failed to create archive entry: %w", err)
	}

	return nil
}

// GetByStatementID retrieves an archive entry by its statement ID.
// Returns ErrEntryNotFound if no entry exists for the given record.
func (r *ArchiveRepository) GetByStatementID(ctx context.Context, statementID uuid.UUID) (*archive.Entry, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{"statement_id": statementID}
	var entry archive.Entry
	err := collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, archive.ErrEntryNotFound{StatementID: statementID}
		}
		r.logger.Error("Failed to get archive entry",
			"statement_id", statementID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get archive entry: %w", err)
	}

	return &entry, nil
}

// GetByUserID retrieves paginated archive entries for a user.
// Results are sorted by creation time in descending order (newest first).
func (r *ArchiveRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*archive.Entry, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}). // Sort by created_at in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get archive entries",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get archive entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*archive.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode archive entries",
			"user_id", userID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode archive entries: %w", err)
	}

	return entries, nil
}

// CountByUserID counts the total number of archive entries for a user
func (r *ArchiveRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{"user_id": userID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count archive entries",
			"user_id", userID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count archive entries: %w", err)
	}

	return count, nil
}

// GetByTimeRange retrieves paginated archive entries within the specified
// time window. Results are sorted by creation time in descending order.
func (r *ArchiveRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*archive.Entry, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{
		"created_at": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}). // Sort by created_at in descending order
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get archive entries by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get archive entries by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*archive.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode archive entries",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to decode archive entries: %w", err)
	}

	return entries, nil
}
