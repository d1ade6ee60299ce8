package nutrition

import (
	"errors"
	"fmt"
	"math"
)

// Plausibility errors returned by ValidateBiometrics.
var (
	ErrInvalidHeight = errors.New("invalid height: must be within 0-300 cm")
	ErrInvalidAge    = errors.New("invalid age: must be within 0-150 years")
	ErrInvalidWeight = errors.New("invalid weight: must be within 0-500 kg")
	// ErrImplausibleProfile covers in-range values that still combine into a
	// non-positive energy estimate, such as 150 years at 10 kg and 50 cm.
	ErrImplausibleProfile = errors.New("height, weight and age do not combine into a plausible body")
)

// ValidateBiometrics is the plausibility check callers run before BuildPlan.
// The pipeline itself never range-checks its inputs.
func ValidateBiometrics(heightCm float64, age int, weightKg float64) error {
	if heightCm <= 0 || heightCm > 300 {
		return ErrInvalidHeight
	}
	if age <= 0 || age > 150 {
		return ErrInvalidAge
	}
	if weightKg <= 0 || weightKg > 500 {
		return ErrInvalidWeight
	}
	return nil
}

// ValidateProfile runs ValidateBiometrics and then refuses profiles whose BMR,
// TDEE or target calories would not be strictly positive.
func ValidateProfile(p Profile, weightKg float64) error {
	if err := ValidateBiometrics(p.HeightCm, p.Age, weightKg); err != nil {
		return err
	}
	plan := BuildPlan(p, weightKg)
	if plan.Breakdown.BMR <= 0 || plan.Breakdown.TDEE <= 0 || plan.TargetCalories <= 0 {
		return ErrImplausibleProfile
	}
	return nil
}

// BMI returns body-mass index (kg/m²).
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

// BMICategory names the WHO band for bmi.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// Breakdown records the intermediate values a plan was derived from.
type Breakdown struct {
	BMI             float64  `json:"bmi" bson:"bmi"`
	BMR             float64  `json:"bmr" bson:"bmr"`
	TDEE            float64  `json:"tdee" bson:"tdee"`
	ProteinPerKg    float64  `json:"proteinPerKg" bson:"proteinPerKg"`
	CaloriesPerKg   float64  `json:"caloriesPerKg" bson:"caloriesPerKg"`
	CaloricStrategy string   `json:"caloricStrategy" bson:"caloricStrategy"`
	MacroBreakdown  string   `json:"macroBreakdown" bson:"macroBreakdown"`
	Tips            []string `json:"detailedTips" bson:"detailedTips"`
}

// Plan is the output of the full pipeline for one profile and weight.
type Plan struct {
	TargetCalories float64
	Macros         Macros
	Breakdown      Breakdown
}

// Calories is the target rounded to whole kcal.
func (p Plan) Calories() int {
	return int(math.Round(p.TargetCalories))
}

// BuildPlan runs BMR → TDEE → target calories → macros for profile at weightKg.
func BuildPlan(p Profile, weightKg float64) Plan {
	bmi := BMI(weightKg, p.HeightCm)
	bmr := BMR(weightKg, p.HeightCm, p.Age, p.Sex, p.BodyFatPct)
	tdee := TDEE(bmr, p.Activity, p.Experience, p.Age, p.Limitations, p.Sleep)
	target := TargetCalories(tdee, p.Goal, p.Experience, bmi, p.Age, p.Sex, p.BodyFatPct, p.Limitations)
	macros := AllocateMacros(target, weightKg, p.Goal, p.Experience, p.Age, p.Sex, p.BodyFatPct, p.Diet, p.Limitations)

	proteinPerKg := float64(macros.ProteinG) / weightKg
	caloriesPerKg := target / weightKg

	experience := string(p.Experience)
	if experience == "" {
		experience = "your"
	}
	activity := string(p.Activity)
	if activity == "" {
		activity = "sedentary"
	}

	return Plan{
		TargetCalories: target,
		Macros:         macros,
		Breakdown: Breakdown{
			BMI:             bmi,
			BMR:             bmr,
			TDEE:            tdee,
			ProteinPerKg:    proteinPerKg,
			CaloriesPerKg:   caloriesPerKg,
			CaloricStrategy: fmt.Sprintf("Calculated deficit/surplus: %.0f kcal", tdee-target),
			MacroBreakdown: fmt.Sprintf("Protein: %.1fg/kg (%dg total), Carbs: %dg, Fat: %dg, Calories: %.0f kcal/day",
				proteinPerKg, macros.ProteinG, macros.CarbsG, macros.FatG, target),
			Tips: []string{
				fmt.Sprintf("BMI: %.1f - %s", bmi, BMICategory(bmi)),
				fmt.Sprintf("BMR: %d kcal (basal metabolic rate)", int(bmr)),
				fmt.Sprintf("TDEE: %d kcal (total daily energy expenditure)", int(tdee)),
				fmt.Sprintf("Protein goal: %.1fg per kg body weight", proteinPerKg),
				fmt.Sprintf("Daily caloric need: %.0f kcal", target),
				fmt.Sprintf("Training frequency: %s optimal for %s level", activity, experience),
				"Sleep optimization: 8-9 hours recommended for recovery",
			},
		},
	}
}
