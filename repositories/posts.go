package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

type PostRepository struct {
	col      *mongo.Collection
	counters *CounterRepository
}

func NewPostRepository(db *mongo.Database, counters *CounterRepository) *PostRepository {
	return &PostRepository{col: db.Collection("posts"), counters: counters}
}

// Insert assigns an id and inserts a new post document.
func (r *PostRepository) Insert(ctx context.Context, p *models.Post) (int64, error) {
	id, err := r.counters.Next(ctx, "posts")
	if err != nil {
		return 0, err
	}
	now := time.Now()
	p.ID = id
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID returns a post by its id
func (r *PostRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindByDateRange returns the user's non-deleted posts whose current_at day lies
// within [start, end], newest first.
func (r *PostRepository) FindByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Post, error) {
	filter := bson.M{
		"user_id":    userID,
		"delete_flg": false,
		"current_at": bson.M{
			"$gte": startOfDay(start),
			"$lt":  startOfDay(end).AddDate(0, 0, 1),
		},
	}
	findOpts := options.Find().SetSort(bson.D{
		{Key: "current_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Post](ctx, cur)
}

// UpdateFields sets only the fields present in the update plus updated_at.
func (r *PostRepository) UpdateFields(ctx context.Context, id int64, u models.PostUpdate) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range u.Fields() {
		set[k] = v
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the post document permanently.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
