package repository

import (
	"context"

	"glowupp/nutrition-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.BiometricProfile) error
	SetProfilePictureKey(ctx context.Context, id primitive.ObjectID, key string) error
}

// NutritionPlanRepository stores the single cached plan per user.
type NutritionPlanRepository interface {
	Upsert(ctx context.Context, plan *domain.NutritionPlan) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.NutritionPlan, error)
}

// WeightRepository stores body-weight measurements.
type WeightRepository interface {
	Create(ctx context.Context, entry *domain.WeightEntry) (primitive.ObjectID, error)
	Latest(ctx context.Context, userID primitive.ObjectID) (*domain.WeightEntry, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.WeightEntry, error)
}

// DailyLogRepository is the remote mirror of the per-day cache.
type DailyLogRepository interface {
	// Upsert merges the log into users' day document (idempotent).
	Upsert(ctx context.Context, log *domain.DailyLog) error
	Get(ctx context.Context, userID primitive.ObjectID, day string) (*domain.DailyLog, error)
}

// SavedMealRepository stores user-defined meals.
type SavedMealRepository interface {
	Create(ctx context.Context, meal *domain.SavedMeal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SavedMeal, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.SavedMeal, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error // Ensure user owns the meal
}

// ProgressRepository holds the append-only event log and its materialized view.
type ProgressRepository interface {
	AppendEvent(ctx context.Context, event *domain.ProgressEvent) (primitive.ObjectID, error)
	ListEvents(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEvent, error)
	CountEvents(ctx context.Context, userID primitive.ObjectID) (int, error)
	SaveView(ctx context.Context, view *domain.Progress) error
	GetView(ctx context.Context, userID primitive.ObjectID) (*domain.Progress, error)
}

// FollowRepository stores follow relationships.
type FollowRepository interface {
	// Create returns ErrDuplicate when the pair already exists.
	Create(ctx context.Context, follow *domain.Follow) (primitive.ObjectID, error)
	// Delete returns ErrNotFound when there is nothing to remove.
	Delete(ctx context.Context, followerID, followeeID primitive.ObjectID) error
	Exists(ctx context.Context, followerID, followeeID primitive.ObjectID) (bool, error)
	CountFollowers(ctx context.Context, userID primitive.ObjectID) (int, error)
	CountFollowing(ctx context.Context, userID primitive.ObjectID) (int, error)
	ListFollowers(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.Follow, error)
	ListFollowing(ctx context.Context, userID primitive.ObjectID, limit int) ([]domain.Follow, error)
}

// ProfilePictureRepository defines the interface for interacting with upload metadata.
type ProfilePictureRepository interface {
	Create(ctx context.Context, pic *domain.ProfilePicture) (primitive.ObjectID, error)
	LatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ProfilePicture, error)
}
