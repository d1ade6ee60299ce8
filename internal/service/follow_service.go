package service

import (
	"context"
	"errors"
	"fmt"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCannotFollowSelf = errors.New("users cannot follow themselves")
	ErrNotFollowing     = errors.New("not following this user")
)

// FollowStatus is what a viewer sees on another user's profile.
type FollowStatus struct {
	UserID      string `json:"userId"`
	IsFollowing bool   `json:"isFollowing"` // the viewer follows UserID
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

type FollowService interface {
	// Follow is idempotent; created is false when the follow already existed.
	Follow(ctx context.Context, followerID, followeeID string) (created bool, err error)
	Unfollow(ctx context.Context, followerID, followeeID string) error
	Status(ctx context.Context, viewerID, userID string) (*FollowStatus, error)
	Followers(ctx context.Context, userID string, limit int) ([]domain.Follow, error)
	Following(ctx context.Context, userID string, limit int) ([]domain.Follow, error)
}

type followService struct {
	follows     repository.FollowRepository
	users       repository.UserRepository
	progressSvc ProgressService
}

func NewFollowService(follows repository.FollowRepository, users repository.UserRepository, progressSvc ProgressService) FollowService {
	return &followService{follows: follows, users: users, progressSvc: progressSvc}
}

func (s *followService) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	follower, followee, err := s.pair(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}

	_, err = s.follows.Create(ctx, &domain.Follow{FollowerID: follower, FolloweeID: followee})
	if errors.Is(err, repository.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create follow: %w", err)
	}
	recordQuietly(ctx, s.progressSvc, followeeID, EventInput{Kind: domain.EventFollowerGained})
	return true, nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	follower, followee, err := s.pair(ctx, followerID, followeeID)
	if err != nil {
		return err
	}

	err = s.follows.Delete(ctx, follower, followee)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFollowing
	}
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	recordQuietly(ctx, s.progressSvc, followeeID, EventInput{Kind: domain.EventFollowerLost})
	return nil
}

func (s *followService) Status(ctx context.Context, viewerID, userID string) (*FollowStatus, error) {
	viewer, err := parseUserID(viewerID)
	if err != nil {
		return nil, err
	}
	user, err := s.existingUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &FollowStatus{UserID: userID}
	if viewer != user {
		if status.IsFollowing, err = s.follows.Exists(ctx, viewer, user); err != nil {
			return nil, fmt.Errorf("check follow: %w", err)
		}
	}
	if status.Followers, err = s.follows.CountFollowers(ctx, user); err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	if status.Following, err = s.follows.CountFollowing(ctx, user); err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	return status, nil
}

func (s *followService) Followers(ctx context.Context, userID string, limit int) ([]domain.Follow, error) {
	user, err := s.existingUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.follows.ListFollowers(ctx, user, limit)
}

func (s *followService) Following(ctx context.Context, userID string, limit int) ([]domain.Follow, error) {
	user, err := s.existingUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.follows.ListFollowing(ctx, user, limit)
}

// pair validates both ends of a follow. The follower comes from the token,
// the followee from the path.
func (s *followService) pair(ctx context.Context, followerID, followeeID string) (primitive.ObjectID, primitive.ObjectID, error) {
	follower, err := parseUserID(followerID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	if followerID == followeeID {
		return primitive.NilObjectID, primitive.NilObjectID, ErrCannotFollowSelf
	}
	followee, err := s.existingUser(ctx, followeeID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return follower, followee, nil
}

func (s *followService) existingUser(ctx context.Context, userID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, ErrUserNotFound
	}
	if _, err := s.users.GetByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrUserNotFound
		}
		return primitive.NilObjectID, fmt.Errorf("load user: %w", err)
	}
	return oid, nil
}
