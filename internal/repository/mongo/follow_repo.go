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

const followCollectionName = "follows"

type mongoFollowRepository struct {
	collection *mongo.Collection
}

func NewMongoFollowRepository(db *mongo.Database) repository.FollowRepository {
	return &mongoFollowRepository{
		collection: db.Collection(followCollectionName),
	}
}

// Create inserts a follow. The unique (followerId, followeeId) index turns a
// concurrent second insert into ErrDuplicate.
func (r *mongoFollowRepository) Create(ctx context.Context, follow *domain.Follow) (primitive.ObjectID, error) {
	if follow.FollowerID.IsZero() || follow.FolloweeID.IsZero() {
		return primitive.NilObjectID, errors.New("follow requires followerId and followeeId")
	}
	follow.ID = primitive.NewObjectID()
	if follow.FollowedAt.IsZero() {
		follow.FollowedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, follow)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoFollowRepository) Delete(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, pairFilter(followerID, followeeID))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoFollowRepository) Exists(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, pairFilter(followerID, followeeID), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *mongoFollowRepository) CountFollowers(ctx context.Context, userID primitive.ObjectID) (int, error) {
	return r.count(ctx, bson.M{"followeeId": userID})
}

func (r *mongoFollowRepository) CountFollowing(ctx context.Context, userID primitive.ObjectID) (int, error) {
	return r.count(ctx, bson.M{"followerId": userID})
}

// ListFollowers returns who follows userID, most recent first.
func (r *mongoFollowRepository) ListFollowers(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.Follow, error) {
	return r.list(ctx, bson.M{"followeeId": userID}, limit)
}

// ListFollowing returns who userID follows, most recent first.
func (r *mongoFollowRepository) ListFollowing(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.Follow, error) {
	return r.list(ctx, bson.M{"followerId": userID}, limit)
}

func (r *mongoFollowRepository) count(ctx context.Context, filter bson.M) (int, error) {
	n, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *mongoFollowRepository) list(ctx context.Context, filter bson.M, limit int) ([]domain.Follow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "followedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var follows []domain.Follow
	if err = cursor.All(ctx, &follows); err != nil {
		return nil, err
	}
	if follows == nil {
		follows = []domain.Follow{}
	}
	return follows, nil
}

func pairFilter(followerID, followeeID primitive.ObjectID) bson.M {
	return bson.M{"followerId": followerID, "followeeId": followeeID}
}

func EnsureFollowIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "followerId", Value: 1}, {Key: "followeeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "followeeId", Value: 1}, {Key: "followedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
