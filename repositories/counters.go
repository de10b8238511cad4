package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterRepository hands out numeric ids per collection.
// Collection: counters
type CounterRepository struct {
	col *mongo.Collection
}

func NewCounterRepository(db *mongo.Database) *CounterRepository {
	return &CounterRepository{col: db.Collection("counters")}
}

// Next returns the next id of the named sequence.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	return r.Reserve(ctx, name, 1)
}

// Reserve allocates n consecutive ids and returns the first one.
func (r *CounterRepository) Reserve(ctx context.Context, name string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("reserve %s: n must be positive, got %d", name, n)
	}
	var out struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(n)}},
		opts,
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("reserve %s: %w", name, err)
	}
	return out.Seq - int64(n) + 1, nil
}
