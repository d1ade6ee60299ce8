package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// The initial connect and ping are retried with exponential backoff, so the
// API can start before the database container is ready.
func ConnectDB(uri string, attempts int) (*mongo.Client, error) {
	if attempts < 1 {
		attempts = 1
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(time.Second),
		backoff.WithMaxInterval(30*time.Second),
		backoff.WithMaxElapsedTime(0),
	), uint64(attempts-1))

	attempt := 0
	client, err := backoff.RetryNotifyWithData(func() (*mongo.Client, error) {
		attempt++
		return connectOnce(uri)
	}, policy, func(err error, next time.Duration) {
		log.Printf("WARN: MongoDB connection attempt %d/%d failed: %v (retrying in %s)", attempt, attempts, err, next)
	})
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb after %d attempts: %w", attempts, err)
	}
	return client, nil
}

func connectOnce(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	// Use a separate context for the ping, as the initial connection might have succeeded
	// but the server might be unresponsive.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are logged
// and do not stop startup: queries still work, only slower or without the
// uniqueness guarantees.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	steps := []struct {
		name string
		fn   func() error
	}{
		{userCollectionName, func() error { return EnsureUserIndexes(ctx, db.Collection(userCollectionName)) }},
		{nutritionPlanCollectionName, func() error {
			return EnsureNutritionPlanIndexes(ctx, db.Collection(nutritionPlanCollectionName))
		}},
		{weightCollectionName, func() error { return EnsureWeightIndexes(ctx, db.Collection(weightCollectionName)) }},
		{dailyLogCollectionName, func() error { return EnsureDailyLogIndexes(ctx, db.Collection(dailyLogCollectionName)) }},
		{savedMealCollectionName, func() error { return EnsureSavedMealIndexes(ctx, db.Collection(savedMealCollectionName)) }},
		{progressEventCollectionName, func() error { return EnsureProgressIndexes(ctx, db) }},
		{followCollectionName, func() error { return EnsureFollowIndexes(ctx, db.Collection(followCollectionName)) }},
		{profilePictureCollectionName, func() error {
			return EnsureProfilePictureIndexes(ctx, db.Collection(profilePictureCollectionName))
		}},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			log.Printf("WARN: Failed to create indexes for collection %s: %v", s.name, err)
		}
	}
}
