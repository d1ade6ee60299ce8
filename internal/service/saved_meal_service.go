package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSavedMealNotFound = errors.New("saved meal not found")
	ErrInvalidSavedMeal  = errors.New("saved meal needs a name and at least one item")
)

// SavedMealItem is one food of a saved meal, nutrients already for Amount/Unit.
type SavedMealItem struct {
	Name      string
	Amount    float64
	Unit      string
	Nutrients nutrition.Nutrients
	Barcode   string
}

type SavedMealService interface {
	Create(ctx context.Context, userID, name string, items []SavedMealItem) (*domain.SavedMeal, error)
	List(ctx context.Context, userID string) ([]domain.SavedMeal, error)
	// Get returns ErrSavedMealNotFound for meals the user does not own.
	Get(ctx context.Context, userID, mealID string) (*domain.SavedMeal, error)
	Delete(ctx context.Context, userID, mealID string) error
}

type savedMealService struct {
	repo repository.SavedMealRepository
	now  func() time.Time
}

func NewSavedMealService(repo repository.SavedMealRepository) SavedMealService {
	return &savedMealService{repo: repo, now: time.Now}
}

func (s *savedMealService) Create(ctx context.Context, userID, name string, items []SavedMealItem) (*domain.SavedMeal, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || len(items) == 0 {
		return nil, ErrInvalidSavedMeal
	}

	now := s.now()
	entries := make([]domain.TrackedFoodEntry, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, ErrInvalidFoodName
		}
		if it.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
		if hasNegative(it.Nutrients) {
			return nil, ErrInvalidNutrients
		}
		// Slot is chosen when the meal is logged.
		entries = append(entries, domain.NewTrackedFood(it.Name, "", it.Amount, it.Unit, it.Nutrients, it.Barcode, now))
	}

	meal := &domain.SavedMeal{UserID: oid, Name: name, Items: entries}
	id, err := s.repo.Create(ctx, meal)
	if err != nil {
		return nil, err
	}
	meal.ID = id
	return meal, nil
}

func (s *savedMealService) List(ctx context.Context, userID string) ([]domain.SavedMeal, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUserID(ctx, oid)
}

func (s *savedMealService) Get(ctx context.Context, userID, mealID string) (*domain.SavedMeal, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	mid, err := primitive.ObjectIDFromHex(mealID)
	if err != nil {
		return nil, ErrSavedMealNotFound
	}

	meal, err := s.repo.GetByID(ctx, mid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSavedMealNotFound
	}
	if err != nil {
		return nil, err
	}
	if meal.UserID != oid {
		return nil, ErrSavedMealNotFound
	}
	return meal, nil
}

func (s *savedMealService) Delete(ctx context.Context, userID, mealID string) error {
	oid, err := parseUserID(userID)
	if err != nil {
		return err
	}
	mid, err := primitive.ObjectIDFromHex(mealID)
	if err != nil {
		return ErrSavedMealNotFound
	}
	if err := s.repo.Delete(ctx, mid, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSavedMealNotFound
		}
		return err
	}
	return nil
}
