package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sdrt-erp/budget-ledger/internal/domain/commitment"
)

const (
	// CommitmentCollectionName is the name of the commitment audit collection in MongoDB
	CommitmentCollectionName = "commitment_entries"
)

// CommitmentRepository implements the commitment.Repository interface for MongoDB
type CommitmentRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewCommitmentRepository creates a new MongoDB commitment repository
func NewCommitmentRepository(logger *slog.Logger, db *mongo.Database) commitment.Repository {
	return &CommitmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new commitment entry after checking for duplicates.
// The outbox poller retries failed batches, so replays of the same entry ID
// must land exactly once.
func (r *CommitmentRepository) Create(ctx context.Context, entry *commitment.Entry) error {
	collection := r.db.Collection(CommitmentCollectionName)

	existingEntry, err := r.GetByID(ctx, entry.ID)
	if err != nil && !errors.Is(err, commitment.ErrEntryNotFound{}) {
		r.logger.Error("Failed to check for existing commitment entry",
			"entry_id", entry.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing commitment entry: %w", err)
	}

	if existingEntry != nil {
		return commitment.ErrDuplicateEntry{ID: entry.ID}
	}

	_, err = collection.InsertOne(ctx, entry)
	if err != nil {
		r.logger.Error("Failed to create commitment entry",
			"entry_id", entry.ID.String(),
			"error", err)
		return fmt.Errorf("failed to create commitment entry: %w", err)
	}

	return nil
}

// GetByID retrieves a commitment entry by its ID.
// Returns ErrEntryNotFound if no entry exists.
func (r *CommitmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*commitment.Entry, error) {
	collection := r.db.Collection(CommitmentCollectionName)

	filter := bson.M{"id": id}
	var entry commitment.Entry
	err := collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, commitment.ErrEntryNotFound{ID: id}
		}
		r.logger.Error("Failed to get commitment entry",
			"entry_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get commitment entry: %w", err)
	}

	return &entry, nil
}

// GetByAnalyticCode retrieves paginated commitment entries for a budget.
// Results are sorted by creation time in descending order (newest first).
func (r *CommitmentRepository) GetByAnalyticCode(ctx context.Context, analyticCode string, limit, offset int) ([]*commitment.Entry, error) {
	collection := r.db.Collection(CommitmentCollectionName)

	filter := bson.M{"analytic_code": analyticCode}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get commitment entries",
			"analytic_code", analyticCode,
			"error", err)
		return nil, fmt.Errorf("failed to get commitment entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*commitment.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode commitment entries",
			"analytic_code", analyticCode,
			"error", err)
		return nil, fmt.Errorf("failed to decode commitment entries: %w", err)
	}

	return entries, nil
}

// CountByAnalyticCode counts the total number of commitment entries for a budget
func (r *CommitmentRepository) CountByAnalyticCode(ctx context.Context, analyticCode string) (int64, error) {
	collection := r.db.Collection(CommitmentCollectionName)

	filter := bson.M{"analytic_code": analyticCode}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count commitment entries",
			"analytic_code", analyticCode,
			"error", err)
		return 0, fmt.Errorf("failed to count commitment entries: %w", err)
	}

	return count, nil
}
