package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

type PromptRepository struct {
	templates *mongo.Collection
	versions  *mongo.Collection
	counters  *CounterRepository
}

func NewPromptRepository(db *mongo.Database, counters *CounterRepository) *PromptRepository {
	return &PromptRepository{
		templates: db.Collection("prompt_templates"),
		versions:  db.Collection("prompt_versions"),
		counters:  counters,
	}
}

// FindActive returns the active version of a slug.
func (r *PromptRepository) FindActive(ctx context.Context, slug string) (*models.PromptVersion, error) {
	var v models.PromptVersion
	if err := r.versions.FindOne(ctx, bson.M{"slug": slug, "is_active": true}).Decode(&v); err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// History returns every version of a slug, newest first.
func (r *PromptRepository) History(ctx context.Context, slug string) ([]models.PromptVersion, error) {
	cur, err := r.versions.Find(ctx, bson.M{"slug": slug}, options.Find().SetSort(bson.D{{Key: "version", Value: -1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.PromptVersion](ctx, cur)
}

// SaveVersion stores v as the next active version of its slug, creating the
// template on first use and deactivating earlier versions.
func (r *PromptRepository) SaveVersion(ctx context.Context, v *models.PromptVersion) error {
	templateID, err := r.ensureTemplate(ctx, v.Slug)
	if err != nil {
		return err
	}

	var latest models.PromptVersion
	err = r.versions.FindOne(ctx, bson.M{"slug": v.Slug},
		options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})).Decode(&latest)
	if err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("find latest prompt version: %w", err)
	}

	if _, err := r.versions.UpdateMany(ctx, bson.M{"slug": v.Slug}, bson.M{"$set": bson.M{"is_active": false}}); err != nil {
		return fmt.Errorf("deactivate prompt versions: %w", err)
	}

	id, err := r.counters.Next(ctx, "prompt_versions")
	if err != nil {
		return err
	}
	v.ID = id
	v.TemplateID = templateID
	v.Version = latest.Version + 1
	v.IsActive = true
	v.CreatedAt = time.Now()
	if _, err := r.versions.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("insert prompt version: %w", err)
	}
	return nil
}

func (r *PromptRepository) ensureTemplate(ctx context.Context, slug string) (int64, error) {
	var t models.PromptTemplate
	err := r.templates.FindOne(ctx, bson.M{"slug": slug}).Decode(&t)
	if err == nil {
		return t.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, err
	}

	id, err := r.counters.Next(ctx, "prompt_templates")
	if err != nil {
		return 0, err
	}
	t = models.PromptTemplate{
		ID:          id,
		Slug:        slug,
		Name:        slug,
		Description: "Auto generated template",
		CreatedAt:   time.Now(),
	}
	if _, err := r.templates.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.ensureTemplate(ctx, slug)
		}
		return 0, err
	}
	return id, nil
}
