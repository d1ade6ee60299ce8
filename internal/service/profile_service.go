package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/repository"
)

var (
	ErrInvalidSex     = errors.New("sex must be Male or Female")
	ErrInvalidBodyFat = errors.New("body fat must be between 0 and 70 percent")
)

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile stores the profile and returns the rebuilt plan, or a nil
	// plan when no weight has been logged yet.
	UpdateProfile(ctx context.Context, userID string, profile domain.BiometricProfile) (*domain.User, *domain.NutritionPlan, error)
}

type profileService struct {
	userRepo     repository.UserRepository
	nutritionSvc NutritionService
}

func NewProfileService(userRepo repository.UserRepository, nutritionSvc NutritionService) ProfileService {
	return &profileService{userRepo: userRepo, nutritionSvc: nutritionSvc}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, profile domain.BiometricProfile) (*domain.User, *domain.NutritionPlan, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	if err := validateProfile(profile); err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.UpdateProfile(ctx, oid, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("update profile: %w", err)
	}

	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	plan, err := s.nutritionSvc.Refresh(ctx, userID)
	switch {
	case errors.Is(err, ErrNoWeightLogged):
		return user, nil, nil
	case err != nil:
		log.Printf("ERROR: Profile updated but plan rebuild failed for user %s: %v", userID, err)
		return user, nil, nil
	}
	return user, plan, nil
}

// validateProfile is the plausibility check for the fields the profile owns;
// weight is checked when it is logged.
func validateProfile(p domain.BiometricProfile) error {
	if p.HeightCm <= 0 || p.HeightCm > 300 {
		return nutrition.ErrInvalidHeight
	}
	if p.Age <= 0 || p.Age > 150 {
		return nutrition.ErrInvalidAge
	}
	if p.Sex != nutrition.SexMale && p.Sex != nutrition.SexFemale {
		return ErrInvalidSex
	}
	if p.BodyFatPct != nil && (*p.BodyFatPct < 0 || *p.BodyFatPct > 70) {
		return ErrInvalidBodyFat
	}
	return nil
}
