package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"glowupp/nutrition-api/internal/cache"
	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/nutrition"
	"glowupp/nutrition-api/internal/provider/openfoodfacts"
)

var (
	ErrFoodEntryNotFound = errors.New("food entry not found")
	ErrInvalidMealSlot   = errors.New("meal must be Breakfast, Lunch, Dinner or Snacks")
	ErrInvalidFoodName   = errors.New("food name is required")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidNutrients  = errors.New("nutrient values must not be negative")
	ErrInvalidWater      = errors.New("water must not be negative")
	ErrInvalidBurned     = errors.New("burned calories must not be negative")
)

// goalTolerance is how far consumed calories may land from the target for
// the day to count as a met nutrition goal.
const goalTolerance = 0.10

// DaySource returns a day from the local cache, reconciled with the remote
// copy on first read.
type DaySource interface {
	Subscribe(ctx context.Context, userID, day string) (cache.Day, error)
}

// DayWriter persists local mutations of a day.
type DayWriter interface {
	SaveFoods(ctx context.Context, userID, day string, foods []domain.TrackedFoodEntry) error
	SaveWater(ctx context.Context, userID, day string, ml int) error
	SaveBurned(ctx context.Context, userID, day string, kcal int) error
}

// SyncNotifier is nudged after every local write.
type SyncNotifier interface {
	Notify()
}

// ProductLookup resolves barcodes to per-100 g nutrients.
type ProductLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (*openfoodfacts.Product, error)
}

// ReferenceServing is the portion a nutrient payload was measured for.
type ReferenceServing struct {
	Amount    float64
	Unit      string
	Nutrients nutrition.Nutrients
}

// FoodInput is a manual food entry. When Reference is set, the nutrients are
// scaled from it to Amount/Unit; otherwise Nutrients already describe the
// logged amount.
type FoodInput struct {
	Name      string
	Meal      string
	Amount    float64
	Unit      string
	Nutrients nutrition.Nutrients
	Reference *ReferenceServing
	Barcode   string
}

// DayView is one day as the client sees it.
type DayView struct {
	Date           string                    `json:"date"`
	Items          []domain.TrackedFoodEntry `json:"items"`
	WaterMl        int                       `json:"waterMl"`
	BurnedCalories int                       `json:"burnedCalories"`
	Totals         nutrition.Nutrients       `json:"totals"`
	Synced         bool                      `json:"synced"`
}

// DaySummary compares a day against the nutrition plan. Target and Remaining
// are nil until a plan exists.
type DaySummary struct {
	Date           string              `json:"date"`
	Consumed       nutrition.Nutrients `json:"consumed"`
	WaterMl        int                 `json:"waterMl"`
	BurnedCalories int                 `json:"burnedCalories"`
	Target         *DayTarget          `json:"target,omitempty"`
	Remaining      *DayTarget          `json:"remaining,omitempty"`
	GoalMet        bool                `json:"goalMet"`
}

type DayTarget struct {
	Calories int `json:"calories"`
	ProteinG int `json:"proteinG"`
	CarbsG   int `json:"carbsG"`
	FatG     int `json:"fatG"`
}

type FoodLogService interface {
	Day(ctx context.Context, userID, day string) (*DayView, error)
	AddFood(ctx context.Context, userID, day string, in FoodInput) (*domain.TrackedFoodEntry, error)
	LookupBarcode(ctx context.Context, barcode string) (*openfoodfacts.Product, error)
	AddFromBarcode(ctx context.Context, userID, day, barcode, meal string, amount float64, unit string) (*domain.TrackedFoodEntry, error)
	AddSavedMeal(ctx context.Context, userID, day, mealID, meal string) ([]domain.TrackedFoodEntry, error)
	DeleteFood(ctx context.Context, userID, day, foodID string) error
	SetWater(ctx context.Context, userID, day string, ml int) (*DayView, error)
	AddWater(ctx context.Context, userID, day string, deltaMl int) (*DayView, error)
	SetBurned(ctx context.Context, userID, day string, kcal int) (*DayView, error)
	Summary(ctx context.Context, userID, day string) (*DaySummary, error)
}

type foodLogService struct {
	days         DaySource
	store        DayWriter
	notifier     SyncNotifier
	products     ProductLookup
	savedMeals   SavedMealService
	nutritionSvc NutritionService
	progressSvc  ProgressService
	now          func() time.Time

	// Read-modify-write of one (user, day) row is serialised per key. An entry
	// lives only while someone holds or waits for it.
	locksMu sync.Mutex
	locks   map[string]*dayLock
}

type dayLock struct {
	mu   sync.Mutex
	refs int
}

func NewFoodLogService(days DaySource, store DayWriter, notifier SyncNotifier, products ProductLookup,
	savedMeals SavedMealService, nutritionSvc NutritionService, progressSvc ProgressService) FoodLogService {
	return &foodLogService{
		days:         days,
		store:        store,
		notifier:     notifier,
		products:     products,
		savedMeals:   savedMeals,
		nutritionSvc: nutritionSvc,
		progressSvc:  progressSvc,
		now:          time.Now,
		locks:        make(map[string]*dayLock),
	}
}

func (s *foodLogService) Day(ctx context.Context, userID, day string) (*DayView, error) {
	day, err := s.checkKey(userID, day)
	if err != nil {
		return nil, err
	}
	d, err := s.days.Subscribe(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	return toDayView(d), nil
}

func (s *foodLogService) AddFood(ctx context.Context, userID, day string, in FoodInput) (*domain.TrackedFoodEntry, error) {
	slot, ok := domain.ParseMealSlot(in.Meal)
	if !ok {
		return nil, ErrInvalidMealSlot
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidFoodName
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	n := in.Nutrients
	if in.Reference != nil {
		var err error
		n, err = nutrition.ScaleNutrients(in.Reference.Nutrients, in.Reference.Amount, in.Reference.Unit, in.Amount, in.Unit)
		if err != nil {
			return nil, fmt.Errorf("scale nutrients: %w", err)
		}
	}
	if hasNegative(n) {
		return nil, ErrInvalidNutrients
	}

	entry := domain.NewTrackedFood(in.Name, slot, in.Amount, in.Unit, n, in.Barcode, s.now())
	if err := s.appendFoods(ctx, userID, day, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *foodLogService) LookupBarcode(ctx context.Context, barcode string) (*openfoodfacts.Product, error) {
	return s.products.LookupBarcode(ctx, barcode)
}

// AddFromBarcode looks the product up and logs amount/unit of it, scaled from
// its per-100 values. A volume unit reads them as per 100 ml.
func (s *foodLogService) AddFromBarcode(ctx context.Context, userID, day, barcode, meal string, amount float64, unit string) (*domain.TrackedFoodEntry, error) {
	if _, ok := domain.ParseMealSlot(meal); !ok {
		return nil, ErrInvalidMealSlot
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	product, err := s.products.LookupBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if product.Brand != "" {
		name = fmt.Sprintf("%s (%s)", product.Name, product.Brand)
	}
	if unit == "" {
		unit = openfoodfacts.ReferenceUnit
	}
	refUnit := openfoodfacts.ReferenceUnit
	if nutrition.IsVolumeUnit(unit) {
		refUnit = openfoodfacts.VolumeReferenceUnit
	}
	return s.AddFood(ctx, userID, day, FoodInput{
		Name:   name,
		Meal:   meal,
		Amount: amount,
		Unit:   unit,
		Reference: &ReferenceServing{
			Amount:    openfoodfacts.ReferenceAmount,
			Unit:      refUnit,
			Nutrients: product.Per100g,
		},
		Barcode: product.Barcode,
	})
}

// AddSavedMeal logs every item of a saved meal into one meal slot.
func (s *foodLogService) AddSavedMeal(ctx context.Context, userID, day, mealID, meal string) ([]domain.TrackedFoodEntry, error) {
	slot, ok := domain.ParseMealSlot(meal)
	if !ok {
		return nil, ErrInvalidMealSlot
	}
	saved, err := s.savedMeals.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]domain.TrackedFoodEntry, 0, len(saved.Items))
	for _, it := range saved.Items {
		entries = append(entries, domain.NewTrackedFood(it.Name, slot, it.Amount, it.Unit, it.Nutrients, it.Barcode, now))
	}
	if err := s.appendFoods(ctx, userID, day, entries...); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *foodLogService) DeleteFood(ctx context.Context, userID, day, foodID string) error {
	day, err := s.checkKey(userID, day)
	if err != nil {
		return err
	}
	unlock := s.lock(userID, day)
	defer unlock()

	d, err := s.days.Subscribe(ctx, userID, day)
	if err != nil {
		return fmt.Errorf("load day: %w", err)
	}
	kept := make([]domain.TrackedFoodEntry, 0, len(d.Foods))
	for _, f := range d.Foods {
		if f.ID != foodID {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(d.Foods) {
		return ErrFoodEntryNotFound
	}
	if err := s.store.SaveFoods(ctx, userID, day, kept); err != nil {
		return fmt.Errorf("save foods: %w", err)
	}
	s.notifier.Notify()
	return nil
}

func (s *foodLogService) SetWater(ctx context.Context, userID, day string, ml int) (*DayView, error) {
	if ml < 0 {
		return nil, ErrInvalidWater
	}
	return s.mutate(ctx, userID, day, func(d cache.Day) error {
		return s.store.SaveWater(ctx, userID, d.Day, ml)
	})
}

// AddWater adds deltaMl (which may be negative) and clamps the total at zero.
func (s *foodLogService) AddWater(ctx context.Context, userID, day string, deltaMl int) (*DayView, error) {
	return s.mutate(ctx, userID, day, func(d cache.Day) error {
		return s.store.SaveWater(ctx, userID, d.Day, max(d.WaterMl+deltaMl, 0))
	})
}

func (s *foodLogService) SetBurned(ctx context.Context, userID, day string, kcal int) (*DayView, error) {
	if kcal < 0 {
		return nil, ErrInvalidBurned
	}
	return s.mutate(ctx, userID, day, func(d cache.Day) error {
		return s.store.SaveBurned(ctx, userID, d.Day, kcal)
	})
}

// Summary totals the day against the plan. Landing within goalTolerance of
// the calorie target records the day's nutrition goal.
func (s *foodLogService) Summary(ctx context.Context, userID, day string) (*DaySummary, error) {
	view, err := s.Day(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	sum := &DaySummary{
		Date:           view.Date,
		Consumed:       view.Totals,
		WaterMl:        view.WaterMl,
		BurnedCalories: view.BurnedCalories,
	}

	plan, err := s.nutritionSvc.GetPlan(ctx, userID)
	switch {
	case errors.Is(err, ErrProfileIncomplete), errors.Is(err, ErrNoWeightLogged):
		return sum, nil
	case err != nil:
		return nil, err
	}

	sum.Target = &DayTarget{Calories: plan.Calories, ProteinG: plan.ProteinG, CarbsG: plan.CarbsG, FatG: plan.FatG}
	sum.Remaining = &DayTarget{
		Calories: plan.Calories - int(math.Round(view.Totals.Calories)),
		ProteinG: plan.ProteinG - int(math.Round(view.Totals.ProteinG)),
		CarbsG:   plan.CarbsG - int(math.Round(view.Totals.CarbsG)),
		FatG:     plan.FatG - int(math.Round(view.Totals.FatG)),
	}
	sum.GoalMet = goalMet(view.Totals.Calories, float64(plan.Calories))
	if sum.GoalMet {
		recordQuietly(ctx, s.progressSvc, userID, EventInput{
			Kind:       domain.EventNutritionGoalMet,
			Day:        view.Date,
			OccurredAt: s.now(),
		})
	}
	return sum, nil
}

func goalMet(consumed, target float64) bool {
	if target <= 0 || consumed <= 0 {
		return false
	}
	return math.Abs(consumed-target) <= target*goalTolerance
}

func (s *foodLogService) appendFoods(ctx context.Context, userID, day string, entries ...domain.TrackedFoodEntry) error {
	_, err := s.mutate(ctx, userID, day, func(d cache.Day) error {
		foods := append(append([]domain.TrackedFoodEntry{}, d.Foods...), entries...)
		return s.store.SaveFoods(ctx, userID, d.Day, foods)
	})
	return err
}

// mutate reconciles the day first, so a write never races the first remote
// read, then applies fn and nudges the sync worker.
func (s *foodLogService) mutate(ctx context.Context, userID, day string, fn func(cache.Day) error) (*DayView, error) {
	day, err := s.checkKey(userID, day)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(userID, day)
	defer unlock()

	d, err := s.days.Subscribe(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if err := fn(d); err != nil {
		return nil, fmt.Errorf("save day: %w", err)
	}
	s.notifier.Notify()

	d, err = s.days.Subscribe(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("reload day: %w", err)
	}
	return toDayView(d), nil
}

func (s *foodLogService) checkKey(userID, day string) (string, error) {
	if _, err := parseUserID(userID); err != nil {
		return "", err
	}
	return domain.ParseDay(day)
}

func (s *foodLogService) lock(userID, day string) func() {
	key := userID + "/" + day

	s.locksMu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &dayLock{}
		s.locks[key] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.locksMu.Unlock()
	}
}

func (s *foodLogService) lockCount() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}

func toDayView(d cache.Day) *DayView {
	items := d.Foods
	if items == nil {
		items = []domain.TrackedFoodEntry{}
	}
	return &DayView{
		Date:           d.Day,
		Items:          items,
		WaterMl:        d.WaterMl,
		BurnedCalories: d.BurnedKcal,
		Totals:         domain.SumNutrients(items),
		Synced:         d.Synced,
	}
}

func hasNegative(n nutrition.Nutrients) bool {
	if n.Calories < 0 || n.ProteinG < 0 || n.CarbsG < 0 || n.FatG < 0 {
		return true
	}
	for _, p := range []*float64{n.FiberG, n.SugarG, n.SaturatedFatG, n.SodiumMg, n.PotassiumMg, n.CholesterolMg} {
		if p != nil && *p < 0 {
			return true
		}
	}
	return false
}
