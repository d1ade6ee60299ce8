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

const dailyLogCollectionName = "daily_logs"

// mongoDailyLogRepository stores one document per (userId, date).
type mongoDailyLogRepository struct {
	collection *mongo.Collection
}

func NewMongoDailyLogRepository(db *mongo.Database) repository.DailyLogRepository {
	return &mongoDailyLogRepository{
		collection: db.Collection(dailyLogCollectionName),
	}
}

// Upsert overwrites the day's fields with the given snapshot. Repeating the
// call with the same snapshot leaves the document unchanged apart from syncedAt.
func (r *mongoDailyLogRepository) Upsert(ctx context.Context, log *domain.DailyLog) error {
	if log.UserID.IsZero() || log.Date == "" {
		return errors.New("daily log requires userId and date")
	}
	items := log.Items
	if items == nil {
		items = []domain.TrackedFoodEntry{}
	}
	log.SyncedAt = time.Now().UTC()

	filter := bson.M{"userId": log.UserID, "date": log.Date}
	update := bson.M{
		"$set": bson.M{
			"waterMl":        log.WaterMl,
			"burnedCalories": log.BurnedCalories,
			"items":          items,
			"syncedAt":       log.SyncedAt,
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// Two first-writes racing on the unique index; the loser retries on the next push.
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// Get returns the stored day or repository.ErrNotFound.
func (r *mongoDailyLogRepository) Get(ctx context.Context, userID primitive.ObjectID, day string) (*domain.DailyLog, error) {
	var log domain.DailyLog
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "date": day}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func EnsureDailyLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
