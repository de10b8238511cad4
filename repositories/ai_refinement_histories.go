package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

type AIRefinementHistoryRepository struct {
	col      *mongo.Collection
	counters *CounterRepository
}

func NewAIRefinementHistoryRepository(db *mongo.Database, counters *CounterRepository) *AIRefinementHistoryRepository {
	return &AIRefinementHistoryRepository{col: db.Collection("ai_refinement_histories"), counters: counters}
}

// InsertMany assigns ids to all rows and inserts them in one call.
func (r *AIRefinementHistoryRepository) InsertMany(ctx context.Context, rows []models.AIRefinementHistory) error {
	if len(rows) == 0 {
		return nil
	}
	first, err := r.counters.Reserve(ctx, "ai_refinement_histories", len(rows))
	if err != nil {
		return err
	}
	now := time.Now()
	docs := make([]any, 0, len(rows))
	for i := range rows {
		rows[i].ID = first + int64(i)
		if rows[i].CreatedAt.IsZero() {
			rows[i].CreatedAt = now
		}
		docs = append(docs, rows[i])
	}
	_, err = r.col.InsertMany(ctx, docs)
	return err
}

func (r *AIRefinementHistoryRepository) FindByBatchAndPost(ctx context.Context, batchID, postID int64) (*models.AIRefinementHistory, error) {
	var h models.AIRefinementHistory
	if err := r.col.FindOne(ctx, bson.M{"batch_id": batchID, "post_id": postID}).Decode(&h); err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

// MarkApplied records the content written back to the post.
func (r *AIRefinementHistoryRepository) MarkApplied(ctx context.Context, id int64, c models.AppliedContent, isEdited bool, at time.Time) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"applied":     true,
			"applied_at":  at,
			"fixed_title": c.Title,
			"fixed_text":  c.Text,
			"fixed_tags":  models.EncodeTags(c.Tags),
			"is_edited":   isEdited,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AIRefinementHistoryRepository) ListByBatch(ctx context.Context, batchID int64) ([]models.AIRefinementHistory, error) {
	cur, err := r.col.Find(ctx, bson.M{"batch_id": batchID},
		options.Find().SetSort(bson.D{{Key: "execution_log_id", Value: 1}, {Key: "order_index", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.AIRefinementHistory](ctx, cur)
}

// ListByPostIDs returns histories of the given posts, newest batch first.
func (r *AIRefinementHistoryRepository) ListByPostIDs(ctx context.Context, postIDs []int64) ([]models.AIRefinementHistory, error) {
	if len(postIDs) == 0 {
		return []models.AIRefinementHistory{}, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"post_id": bson.M{"$in": postIDs}},
		options.Find().SetSort(bson.D{{Key: "batch_id", Value: -1}, {Key: "order_index", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.AIRefinementHistory](ctx, cur)
}
