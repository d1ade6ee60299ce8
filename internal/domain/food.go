package domain

import (
	"strings"
	"time"

	"glowupp/nutrition-api/internal/nutrition"

	"github.com/google/uuid"
)

// MealSlot groups tracked foods within a day.
type MealSlot string

const (
	MealBreakfast MealSlot = "Breakfast"
	MealLunch     MealSlot = "Lunch"
	MealDinner    MealSlot = "Dinner"
	MealSnacks    MealSlot = "Snacks"
)

// ParseMealSlot accepts any casing and the singular "snack".
func ParseMealSlot(s string) (MealSlot, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return MealBreakfast, true
	case "lunch":
		return MealLunch, true
	case "dinner":
		return MealDinner, true
	case "snack", "snacks":
		return MealSnacks, true
	}
	return "", false
}

// TrackedFoodEntry is one consumption event. Entries are immutable once
// created; the only mutation a day log allows is removal by ID.
type TrackedFoodEntry struct {
	ID     string   `bson:"id" json:"id"`
	Name   string   `bson:"name" json:"name"`
	Meal   MealSlot `bson:"meal" json:"meal"`
	Amount float64  `bson:"amount" json:"amount"`
	Unit   string   `bson:"unit" json:"unit"`

	nutrition.Nutrients `bson:",inline"`

	Barcode   string    `bson:"barcode,omitempty" json:"barcode,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NewTrackedFood stamps a fresh entry with a random ID.
func NewTrackedFood(name string, meal MealSlot, amount float64, unit string, n nutrition.Nutrients, barcode string, now time.Time) TrackedFoodEntry {
	return TrackedFoodEntry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Meal:      meal,
		Amount:    amount,
		Unit:      unit,
		Nutrients: n,
		Barcode:   barcode,
		CreatedAt: now.UTC(),
	}
}

// SumNutrients totals the payload of items.
func SumNutrients(items []TrackedFoodEntry) nutrition.Nutrients {
	var total nutrition.Nutrients
	for _, it := range items {
		total = total.Add(it.Nutrients)
	}
	return total
}
