package nutrition

import "math"

// Energy density of each macronutrient in kcal per gram.
const (
	KcalPerGramProtein = 4
	KcalPerGramCarbs   = 4
	KcalPerGramFat     = 9
)

// Carbohydrate limits per dietary style.
const (
	KetoCarbCapG      = 50
	FastingCarbFloorG = 100
	DefaultCarbFloorG = 80
)

// Macros is a daily macronutrient allocation in whole grams.
type Macros struct {
	ProteinG int `json:"proteinG"`
	CarbsG   int `json:"carbsG"`
	FatG     int `json:"fatG"`
}

// Calories reconstructs the energy content of m.
func (m Macros) Calories() int {
	return m.ProteinG*KcalPerGramProtein + m.CarbsG*KcalPerGramCarbs + m.FatG*KcalPerGramFat
}

// AllocateMacros splits calories into protein, fat and carbohydrate grams.
// Protein and fat are sized per kilogram of body weight; carbohydrates fill
// the remaining calories subject to the dietary-style limit.
func AllocateMacros(calories, weightKg float64, goal Goal, experience Experience, age int, sex Sex, bodyFatPct *float64, diet DietaryStyle, limitations Limitations) Macros {
	proteinPerKg := baseProteinPerKg(goal, experience, sex, bodyFatPct)
	protein := nonNegative(math.Round(proteinPerKg * weightKg * proteinAgeFactor(age) * proteinSexFactor(sex) * proteinDietFactor(diet)))

	fat := nonNegative(math.Round(fatPerKg(goal, sex, age, bodyFatPct, diet, limitations) * weightKg))

	remaining := calories - float64(protein*KcalPerGramProtein) - float64(fat*KcalPerGramFat)
	fill := int(remaining / KcalPerGramCarbs)

	var carbs int
	switch diet {
	case DietKeto:
		// Cap, not floor: keto keeps carbohydrate at or below 50 g.
		carbs = max(min(KetoCarbCapG, fill), 0)
	case DietIntermittentFasting:
		carbs = max(FastingCarbFloorG, fill)
	default:
		carbs = max(DefaultCarbFloorG, fill)
	}

	return Macros{ProteinG: protein, CarbsG: carbs, FatG: fat}
}

func baseProteinPerKg(goal Goal, experience Experience, sex Sex, bodyFatPct *float64) float64 {
	switch goal {
	case GoalBuildMuscle:
		switch experience {
		case ExperienceBeginner:
			return 1.8
		case ExperienceIntermediate:
			return 2.0
		case ExperienceAdvanced:
			return 2.2
		default:
			return 1.9
		}
	case GoalLoseFat:
		threshold := 30.0
		if sex.IsMale() {
			threshold = 20
		}
		if bodyFatPct != nil && *bodyFatPct > threshold {
			return 2.4
		}
		return 2.0
	case GoalRecomposition:
		return 2.2
	case GoalImproveEndurance:
		return 1.4
	case GoalGeneralHealth:
		return 1.6
	default:
		return 1.7
	}
}

func proteinAgeFactor(age int) float64 {
	switch {
	case age < 25:
		return 1.0
	case age <= 40:
		return 1.05
	case age <= 55:
		return 1.15
	case age <= 70:
		return 1.25
	default:
		return 1.35
	}
}

func proteinSexFactor(sex Sex) float64 {
	if sex.IsMale() {
		return 1.0
	}
	return 0.95
}

func proteinDietFactor(diet DietaryStyle) float64 {
	switch diet {
	case DietVegetarian, DietVegan:
		return 1.15
	case DietKeto:
		return 1.1
	default:
		return 1.0
	}
}

func fatPerKg(goal Goal, sex Sex, age int, bodyFatPct *float64, diet DietaryStyle, limitations Limitations) float64 {
	switch {
	case diet == DietKeto:
		switch goal {
		case GoalBuildMuscle:
			return 1.8
		case GoalLoseFat:
			return 1.5
		default:
			return 1.6
		}
	case goal == GoalLoseFat && bodyFatPct != nil && *bodyFatPct > 25:
		return 0.7
	case limitations.Has(LimitationHighBloodPressure):
		return 0.8
	case sex.IsMale():
		switch {
		case age < 30:
			return 0.9
		case age < 50:
			return 1.0
		default:
			return 1.1
		}
	default:
		switch {
		case age < 30:
			return 1.1
		case age < 50:
			return 1.2
		default:
			return 1.3
		}
	}
}

func nonNegative(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}
