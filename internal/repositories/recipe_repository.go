package repositories

import (
	"context"
	"time"

	"github.com/tanvirhm/recipe-vault/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecipeRepository defines the interface for the shared recipe cache
type RecipeRepository interface {
	GetByAPIID(ctx context.Context, apiID string) (*models.Recipe, error)
	GetByAPIIDs(ctx context.Context, apiIDs []string) (map[string]models.Recipe, error)
	AcquireRef(ctx context.Context, apiID, title, image string) error
	ReleaseRef(ctx context.Context, apiID string) error
}

// MongoRecipeRepository implements RecipeRepository for MongoDB
type MongoRecipeRepository struct {
	collection *mongo.Collection
}

// NewMongoRecipeRepository creates a new MongoRecipeRepository
func NewMongoRecipeRepository(db *mongo.Database) *MongoRecipeRepository {
	return &MongoRecipeRepository{collection: db.Collection("recipes")}
}

// EnsureIndexes creates the unique apiId index; it is what resolves two
// concurrent first saves of the same recipe to a single cache entry.
func (r *MongoRecipeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "apiId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// GetByAPIID retrieves a cached recipe by its external id
func (r *MongoRecipeRepository) GetByAPIID(ctx context.Context, apiID string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.collection.FindOne(ctx, bson.M{"apiId": apiID}).Decode(&recipe)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// GetByAPIIDs batch-fetches cached recipes keyed by external id
func (r *MongoRecipeRepository) GetByAPIIDs(ctx context.Context, apiIDs []string) (map[string]models.Recipe, error) {
	result := make(map[string]models.Recipe)
	if len(apiIDs) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"apiId": bson.M{"$in": apiIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	for _, recipe := range recipes {
		result[recipe.APIID] = recipe
	}
	return result, nil
}

// AcquireRef creates the cache entry if absent and increments its reference
// count. Display fields are $setOnInsert so the first writer wins and an
// existing entry is never overwritten.
func (r *MongoRecipeRepository) AcquireRef(ctx context.Context, apiID, title, image string) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"title":     title,
			"image":     image,
			"createdAt": time.Now(),
		},
		"$inc": bson.M{"refs": 1},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"apiId": apiID}, update, options.Update().SetUpsert(true))
	if err != nil && mongo.IsDuplicateKeyError(err) {
		// Lost a concurrent upsert race on the unique index: the entry now
		// exists, so take a plain increment against it.
		_, err = r.collection.UpdateOne(ctx, bson.M{"apiId": apiID}, bson.M{"$inc": bson.M{"refs": 1}})
	}
	return err
}

// ReleaseRef decrements the reference count and garbage-collects the entry
// when no user references it anymore.
func (r *MongoRecipeRepository) ReleaseRef(ctx context.Context, apiID string) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var recipe models.Recipe
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"apiId": apiID}, bson.M{"$inc": bson.M{"refs": -1}}, opts).Decode(&recipe)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrRecipeNotFound
		}
		return err
	}

	if recipe.Refs <= 0 {
		// The refs guard keeps a concurrent save that re-acquired the entry
		// between the decrement and this delete from losing its cache entry.
		_, err = r.collection.DeleteOne(ctx, bson.M{"apiId": apiID, "refs": bson.M{"$lte": 0}})
	}
	return err
}
