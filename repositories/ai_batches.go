package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

type AIBatchRepository struct {
	col      *mongo.Collection
	counters *CounterRepository
}

func NewAIBatchRepository(db *mongo.Database, counters *CounterRepository) *AIBatchRepository {
	return &AIBatchRepository{col: db.Collection("ai_batches"), counters: counters}
}

// Create inserts a batch in processing state and returns its id.
func (r *AIBatchRepository) Create(ctx context.Context, b *models.AIBatch) (int64, error) {
	id, err := r.counters.Next(ctx, "ai_batches")
	if err != nil {
		return 0, err
	}
	now := time.Now()
	b.ID = id
	b.Status = models.BatchStatusProcessing
	b.CompletedChunks = 0
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AIBatchRepository) FindByID(ctx context.Context, id int64) (*models.AIBatch, error) {
	var b models.AIBatch
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// UpdateProgress advances completed_chunks. The filter keeps the counter
// monotonic and bounded by total_chunks.
func (r *AIBatchRepository) UpdateProgress(ctx context.Context, id int64, completedChunks int) error {
	filter := bson.M{
		"_id":              id,
		"status":           models.BatchStatusProcessing,
		"completed_chunks": bson.M{"$lte": completedChunks},
		"total_chunks":     bson.M{"$gte": completedChunks},
	}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"completed_chunks": completedChunks, "updated_at": time.Now()},
	})
	return err
}

// UpdateStatus moves a processing batch to a terminal status. Terminal batches are
// never reopened, so the update is a no-op for them.
func (r *AIBatchRepository) UpdateStatus(ctx context.Context, id int64, status models.BatchStatus) error {
	filter := bson.M{"_id": id, "status": models.BatchStatusProcessing}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	return err
}

// ListByPeriod returns the user's batches created within [start, end], newest first.
func (r *AIBatchRepository) ListByPeriod(ctx context.Context, userID string, start, end time.Time) ([]models.AIBatch, error) {
	filter := bson.M{
		"user_id": userID,
		"created_at": bson.M{
			"$gte": startOfDay(start),
			"$lt":  startOfDay(end).AddDate(0, 0, 1),
		},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.AIBatch](ctx, cur)
}
