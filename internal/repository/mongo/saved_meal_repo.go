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

const savedMealCollectionName = "saved_meals"

type mongoSavedMealRepository struct {
	collection *mongo.Collection
}

// NewMongoSavedMealRepository creates a new SavedMeal repository backed by MongoDB.
func NewMongoSavedMealRepository(db *mongo.Database) repository.SavedMealRepository {
	return &mongoSavedMealRepository{
		collection: db.Collection(savedMealCollectionName),
	}
}

// Create inserts a new saved meal.
func (r *mongoSavedMealRepository) Create(ctx context.Context, meal *domain.SavedMeal) (primitive.ObjectID, error) {
	if meal.UserID.IsZero() || meal.Name == "" {
		return primitive.NilObjectID, errors.New("saved meal requires userId and name")
	}

	meal.ID = primitive.NewObjectID()
	meal.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, meal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a saved meal by its ID.
func (r *mongoSavedMealRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SavedMeal, error) {
	var meal domain.SavedMeal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&meal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &meal, nil
}

// ListByUserID retrieves all meals of a user, newest first.
func (r *mongoSavedMealRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.SavedMeal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var meals []domain.SavedMeal
	if err = cursor.All(ctx, &meals); err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []domain.SavedMeal{}
	}
	return meals, nil
}

// Delete removes a meal only if userID owns it.
func (r *mongoSavedMealRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureSavedMealIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
