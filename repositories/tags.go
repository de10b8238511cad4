package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

type TagRepository struct {
	col      *mongo.Collection
	counters *CounterRepository
}

func NewTagRepository(db *mongo.Database, counters *CounterRepository) *TagRepository {
	return &TagRepository{col: db.Collection("tags"), counters: counters}
}

var tagOrderSort = bson.D{{Key: "display_order", Value: 1}, {Key: "_id", Value: 1}}

// ListByUser returns all tags of a user ordered by display_order.
func (r *TagRepository) ListByUser(ctx context.Context, userID string) ([]models.Tag, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(tagOrderSort))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Tag](ctx, cur)
}

// ListActiveSendable returns tags that are active and flagged for the AI context.
func (r *TagRepository) ListActiveSendable(ctx context.Context, userID string) ([]models.Tag, error) {
	filter := bson.M{"user_id": userID, "is_active": true, "is_send_ai": true}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(tagOrderSort))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Tag](ctx, cur)
}

func (r *TagRepository) FindByID(ctx context.Context, userID string, id int64) (*models.Tag, error) {
	var t models.Tag
	if err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TagRepository) Insert(ctx context.Context, t *models.Tag) (int64, error) {
	id, err := r.counters.Next(ctx, "tags")
	if err != nil {
		return 0, err
	}
	t.ID = id
	t.UpdatedAt = time.Now()
	if t.Aliases == nil {
		t.Aliases = []string{}
	}
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return 0, err
	}
	return id, nil
}

// Replace overwrites the editable fields of a tag.
func (r *TagRepository) Replace(ctx context.Context, t *models.Tag) error {
	if t.Aliases == nil {
		t.Aliases = []string{}
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": t.ID, "user_id": t.UserID}, bson.M{
		"$set": bson.M{
			"tag_name":      t.TagName,
			"name":          t.Name,
			"aliases":       t.Aliases,
			"description":   t.Description,
			"display_order": t.DisplayOrder,
			"is_active":     t.IsActive,
			"is_send_ai":    t.IsSendAI,
			"updated_at":    time.Now(),
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

func (r *TagRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder applies all display_order changes in one bulk write.
func (r *TagRepository) Reorder(ctx context.Context, userID string, orders []models.TagOrder) error {
	if len(orders) == 0 {
		return nil
	}
	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(orders))
	for _, o := range orders {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": o.ID, "user_id": userID}).
			SetUpdate(bson.M{"$set": bson.M{"display_order": o.DisplayOrder, "updated_at": now}}))
	}
	_, err := r.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return err
}
