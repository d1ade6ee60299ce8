package domain

import (
	"time"

	"glowupp/nutrition-api/internal/nutrition"
)

// BiometricProfile is the long-lived input to the nutrition pipeline.
// Weight is deliberately absent: the latest WeightEntry supplies it.
type BiometricProfile struct {
	HeightCm    float64                 `bson:"heightCm" json:"heightCm"`
	Age         int                     `bson:"age" json:"age"`
	Sex         nutrition.Sex           `bson:"sex" json:"sex"`
	Activity    nutrition.ActivityLevel `bson:"activityLevel" json:"activityLevel"`
	Experience  nutrition.Experience    `bson:"experience" json:"experience"`
	BodyFatPct  *float64                `bson:"bodyFatPct,omitempty" json:"bodyFatPct,omitempty"`
	Sleep       nutrition.SleepBucket   `bson:"sleepHours" json:"sleepHours"`
	Diet        nutrition.DietaryStyle  `bson:"dietaryStyle" json:"dietaryStyle"`
	Limitations []nutrition.Limitation  `bson:"limitations" json:"limitations"`
	Goal        nutrition.Goal          `bson:"workoutGoal" json:"workoutGoal"`
	UpdatedAt   time.Time               `bson:"updatedAt" json:"updatedAt"`
}

// ToNutrition converts the stored profile into pipeline input.
func (p BiometricProfile) ToNutrition() nutrition.Profile {
	return nutrition.Profile{
		HeightCm:    p.HeightCm,
		Age:         p.Age,
		Sex:         p.Sex,
		Activity:    p.Activity,
		Experience:  p.Experience,
		BodyFatPct:  p.BodyFatPct,
		Sleep:       p.Sleep,
		Diet:        p.Diet,
		Limitations: nutrition.Limitations(p.Limitations),
		Goal:        p.Goal,
	}
}
