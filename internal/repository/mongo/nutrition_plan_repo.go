package mongo

import (
	"context"
	"errors"
	"time"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const nutritionPlanCollectionName = "nutrition_plans"

// mongoNutritionPlanRepository keeps exactly one plan document per user.
type mongoNutritionPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoNutritionPlanRepository(db *mongo.Database) repository.NutritionPlanRepository {
	return &mongoNutritionPlanRepository{
		collection: db.Collection(nutritionPlanCollectionName),
	}
}

// Upsert replaces the user's plan, creating it on first use.
func (r *mongoNutritionPlanRepository) Upsert(ctx context.Context, plan *domain.NutritionPlan) error {
	if plan.UserID.IsZero() {
		return errors.New("nutrition plan requires userId")
	}
	if plan.LastUpdated.IsZero() {
		plan.LastUpdated = time.Now().UTC()
	}

	filter := bson.M{"userId": plan.UserID}
	update := bson.M{
		"$set": bson.M{
			"calories":      plan.Calories,
			"protein":       plan.ProteinG,
			"carbs":         plan.CarbsG,
			"fat":           plan.FatG,
			"weightKg":      plan.WeightKg,
			"algorithmData": plan.Breakdown,
			"lastUpdated":   plan.LastUpdated,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	opts := options.Update().SetUpsert(true)

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if id, ok := result.UpsertedID.(primitive.ObjectID); ok {
		plan.ID = id
	}
	return nil
}

// GetByUserID returns the cached plan or repository.ErrNotFound.
func (r *mongoNutritionPlanRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.NutritionPlan, error) {
	var plan domain.NutritionPlan
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// EnsureNutritionPlanIndexes makes userId unique so concurrent upserts cannot
// create a second plan.
func EnsureNutritionPlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
