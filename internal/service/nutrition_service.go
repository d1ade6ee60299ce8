package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProfileIncomplete = errors.New("biometric profile is incomplete")
	ErrNoWeightLogged    = errors.New("no weight entry logged yet")
	ErrUserNotFound      = errors.New("user not found")
)

// NutritionService owns the cached plan and the weight history it is built from.
type NutritionService interface {
	// GetPlan returns the cached plan, building it on first use.
	GetPlan(ctx context.Context, userID string) (*domain.NutritionPlan, error)
	// Recalculate rebuilds the plan from the profile and the latest weight on
	// the user's request. Each call counts as a created plan for progress.
	Recalculate(ctx context.Context, userID string) (*domain.NutritionPlan, error)
	// Refresh rebuilds the plan after its inputs changed. Only the very first
	// plan counts as created.
	Refresh(ctx context.Context, userID string) (*domain.NutritionPlan, error)
	// LogWeight stores a measurement and, when the profile is complete,
	// rebuilds the plan for the new weight. The plan is nil otherwise.
	LogWeight(ctx context.Context, userID string, weightKg float64, day string) (*domain.WeightEntry, *domain.NutritionPlan, error)
	ListWeights(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error)
}

type nutritionService struct {
	userRepo    repository.UserRepository
	planRepo    repository.NutritionPlanRepository
	weightRepo  repository.WeightRepository
	progressSvc ProgressService
	now         func() time.Time
}

func NewNutritionService(userRepo repository.UserRepository, planRepo repository.NutritionPlanRepository, weightRepo repository.WeightRepository, progressSvc ProgressService) NutritionService {
	return &nutritionService{
		userRepo:    userRepo,
		planRepo:    planRepo,
		weightRepo:  weightRepo,
		progressSvc: progressSvc,
		now:         time.Now,
	}
}

func (s *nutritionService) GetPlan(ctx context.Context, userID string) (*domain.NutritionPlan, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByUserID(ctx, oid)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load nutrition plan: %w", err)
	}

	plan, _, err = s.rebuild(ctx, oid)
	return plan, err
}

func (s *nutritionService) Recalculate(ctx context.Context, userID string) (*domain.NutritionPlan, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	plan, created, err := s.rebuild(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !created {
		recordQuietly(ctx, s.progressSvc, userID, EventInput{Kind: domain.EventPlanCreated})
	}
	return plan, nil
}

func (s *nutritionService) Refresh(ctx context.Context, userID string) (*domain.NutritionPlan, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	plan, _, err := s.rebuild(ctx, oid)
	return plan, err
}

func (s *nutritionService) LogWeight(ctx context.Context, userID string, weightKg float64, day string) (*domain.WeightEntry, *domain.NutritionPlan, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	if weightKg <= 0 || weightKg > 500 {
		return nil, nil, nutrition.ErrInvalidWeight
	}
	now := s.now()
	if day == "" {
		day = domain.DayOf(now)
	} else if day, err = domain.ParseDay(day); err != nil {
		return nil, nil, err
	}

	entry := &domain.WeightEntry{UserID: oid, WeightKg: weightKg, Date: day, CreatedAt: now.UTC()}
	if _, err := s.weightRepo.Create(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("store weight entry: %w", err)
	}
	recordQuietly(ctx, s.progressSvc, userID, EventInput{Kind: domain.EventWeightLogged, OccurredAt: now})

	// The new entry is not necessarily the latest (back-dated logs), so the
	// plan is rebuilt from whatever Latest returns.
	plan, _, err := s.rebuild(ctx, oid)
	if errors.Is(err, ErrProfileIncomplete) {
		return entry, nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Weight stored but plan rebuild failed for user %s: %v", userID, err)
		return entry, nil, nil
	}
	return entry, plan, nil
}

func (s *nutritionService) ListWeights(ctx context.Context, userID string, limit int) ([]domain.WeightEntry, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.weightRepo.ListByUserID(ctx, oid, limit)
}

// rebuild runs the pipeline and stores the result. created reports whether
// the user had no plan before, in which case a plan_created event is recorded.
func (s *nutritionService) rebuild(ctx context.Context, oid primitive.ObjectID) (plan *domain.NutritionPlan, created bool, err error) {
	user, err := s.userRepo.GetByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, ErrUserNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("load user: %w", err)
	}
	if !user.HasProfile() {
		return nil, false, ErrProfileIncomplete
	}

	latest, err := s.weightRepo.Latest(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, ErrNoWeightLogged
	}
	if err != nil {
		return nil, false, fmt.Errorf("load latest weight: %w", err)
	}

	profile := user.Profile
	if err := nutrition.ValidateProfile(profile.ToNutrition(), latest.WeightKg); err != nil {
		return nil, false, err
	}

	_, err = s.planRepo.GetByUserID(ctx, oid)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("load nutrition plan: %w", err)
	}

	computed := nutrition.BuildPlan(profile.ToNutrition(), latest.WeightKg)
	plan = domain.NewNutritionPlan(oid, computed, latest.WeightKg, s.now().UTC())
	if err := s.planRepo.Upsert(ctx, plan); err != nil {
		return nil, false, fmt.Errorf("store nutrition plan: %w", err)
	}
	log.Printf("INFO: Nutrition plan rebuilt for user %s: %d kcal (P %dg / C %dg / F %dg)",
		oid.Hex(), plan.Calories, plan.ProteinG, plan.CarbsG, plan.FatG)

	if created {
		recordQuietly(ctx, s.progressSvc, oid.Hex(), EventInput{Kind: domain.EventPlanCreated})
	}
	return plan, created, nil
}
