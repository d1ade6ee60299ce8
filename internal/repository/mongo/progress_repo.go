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

const (
	progressEventCollectionName = "progress_events"
	progressViewCollectionName  = "progress"
)

// mongoProgressRepository writes events to an append-only collection and keeps
// the folded view in a second one.
type mongoProgressRepository struct {
	events *mongo.Collection
	views  *mongo.Collection
}

func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		events: db.Collection(progressEventCollectionName),
		views:  db.Collection(progressViewCollectionName),
	}
}

// AppendEvent inserts an event. Events are never updated.
func (r *mongoProgressRepository) AppendEvent(ctx context.Context, event *domain.ProgressEvent) (primitive.ObjectID, error) {
	if event.UserID.IsZero() || !event.Kind.Valid() {
		return primitive.NilObjectID, errors.New("progress event requires userId and a known kind")
	}
	event.ID = primitive.NewObjectID()
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	result, err := r.events.InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// ListEvents returns the user's whole log in occurrence order.
func (r *mongoProgressRepository) ListEvents(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.events.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []domain.ProgressEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountEvents returns the length of the user's log.
func (r *mongoProgressRepository) CountEvents(ctx context.Context, userID primitive.ObjectID) (int, error) {
	n, err := r.events.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// SaveView replaces the materialized view.
func (r *mongoProgressRepository) SaveView(ctx context.Context, view *domain.Progress) error {
	if view.UserID.IsZero() {
		return errors.New("progress view requires userId")
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.views.ReplaceOne(ctx, bson.M{"userId": view.UserID}, view, opts)
	return err
}

// GetView returns the stored view or repository.ErrNotFound.
func (r *mongoProgressRepository) GetView(ctx context.Context, userID primitive.ObjectID) (*domain.Progress, error) {
	var view domain.Progress
	err := r.views.FindOne(ctx, bson.M{"userId": userID}).Decode(&view)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &view, nil
}

// EnsureProgressIndexes indexes both collections. It takes the database
// because the repository spans two collections.
func EnsureProgressIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(progressEventCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "occurredAt", Value: 1}},
			Options: options.Index(),
		},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(progressViewCollectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
