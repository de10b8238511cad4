package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

type AIExecutionLogRepository struct {
	col      *mongo.Collection
	counters *CounterRepository
}

func NewAIExecutionLogRepository(db *mongo.Database, counters *CounterRepository) *AIExecutionLogRepository {
	return &AIExecutionLogRepository{col: db.Collection("ai_execution_logs"), counters: counters}
}

func (r *AIExecutionLogRepository) Insert(ctx context.Context, log *models.AIExecutionLog) (int64, error) {
	id, err := r.counters.Next(ctx, "ai_execution_logs")
	if err != nil {
		return 0, err
	}
	log.ID = id
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	if _, err := r.col.InsertOne(ctx, log); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AIExecutionLogRepository) ListByBatch(ctx context.Context, batchID int64) ([]models.AIExecutionLog, error) {
	cur, err := r.col.Find(ctx, bson.M{"batch_id": batchID},
		options.Find().SetSort(bson.D{{Key: "chunk_index", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.AIExecutionLog](ctx, cur)
}
