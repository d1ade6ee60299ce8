package domain

import (
	"time"

	"glowupp/nutrition-api/internal/nutrition"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NutritionPlan caches the pipeline output for a user. It is always
// recomputable from the profile plus the latest weight entry.
type NutritionPlan struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"userId" json:"userId"`
	Calories    int                 `bson:"calories" json:"calories"`
	ProteinG    int                 `bson:"protein" json:"protein"`
	CarbsG      int                 `bson:"carbs" json:"carbs"`
	FatG        int                 `bson:"fat" json:"fat"`
	WeightKg    float64             `bson:"weightKg" json:"weightKg"` // weight the plan was computed for
	Breakdown   nutrition.Breakdown `bson:"algorithmData" json:"algorithmData"`
	LastUpdated time.Time           `bson:"lastUpdated" json:"lastUpdated"`
}

// NewNutritionPlan wraps a computed plan for storage.
func NewNutritionPlan(userID primitive.ObjectID, plan nutrition.Plan, weightKg float64, now time.Time) *NutritionPlan {
	return &NutritionPlan{
		UserID:      userID,
		Calories:    plan.Calories(),
		ProteinG:    plan.Macros.ProteinG,
		CarbsG:      plan.Macros.CarbsG,
		FatG:        plan.Macros.FatG,
		WeightKg:    weightKg,
		Breakdown:   plan.Breakdown,
		LastUpdated: now,
	}
}

// Macros returns the gram targets.
func (p *NutritionPlan) Macros() nutrition.Macros {
	return nutrition.Macros{ProteinG: p.ProteinG, CarbsG: p.CarbsG, FatG: p.FatG}
}
