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

const profilePictureCollectionName = "profile_pictures"

// mongoProfilePictureRepository implements repository.ProfilePictureRepository
type mongoProfilePictureRepository struct {
	collection *mongo.Collection
}

// NewMongoProfilePictureRepository creates a new repository backed by MongoDB.
func NewMongoProfilePictureRepository(db *mongo.Database) repository.ProfilePictureRepository {
	return &mongoProfilePictureRepository{
		collection: db.Collection(profilePictureCollectionName),
	}
}

// Create inserts new upload metadata into the database.
func (r *mongoProfilePictureRepository) Create(ctx context.Context, pic *domain.ProfilePicture) (primitive.ObjectID, error) {
	if pic.UserID.IsZero() || pic.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("profile picture requires userId and s3ObjectKey")
	}

	pic.ID = primitive.NewObjectID()
	pic.UploadedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, pic)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// LatestByUserID returns the most recent upload. Older ones are kept as history.
func (r *mongoProfilePictureRepository) LatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ProfilePicture, error) {
	var pic domain.ProfilePicture
	opts := options.FindOne().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&pic)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pic, nil
}

// EnsureProfilePictureIndexes creates necessary indexes for the collection.
func EnsureProfilePictureIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// S3 keys are unique within the bucket
			Keys:    bson.D{{Key: "s3ObjectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
