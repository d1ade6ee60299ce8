package nutrition

// Sex-specific calorie floors for the fat-loss branch.
const (
	MinCaloriesMale   = 1500.0
	MinCaloriesFemale = 1200.0
)

// BMR estimates basal metabolic rate in kcal/day.
// With a known, positive body-fat percentage the Katch-McArdle lean-mass formula
// is used; otherwise Mifflin-St Jeor followed by an age-band correction.
func BMR(weightKg, heightCm float64, age int, sex Sex, bodyFatPct *float64) float64 {
	if bodyFatPct != nil && *bodyFatPct > 0 {
		leanBodyMass := weightKg * (1 - *bodyFatPct/100)
		return 370 + 21.6*leanBodyMass
	}

	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex.IsMale() {
		base += 5
	} else {
		base -= 161
	}

	switch {
	case age < 18:
		return base * 1.12
	case age <= 25:
		return base * 1.05
	case age <= 35:
		return base * 1.0
	case age <= 45:
		return base * 0.97
	case age <= 55:
		return base * 0.94
	case age <= 65:
		return base * 0.91
	default:
		return base * 0.87
	}
}

// activityMultipliers maps the weekly training frequency to its TDEE multiplier.
// Missing keys (including the empty sedentary level) use 1.2.
var activityMultipliers = map[ActivityLevel]float64{
	Activity2x: 1.375,
	Activity3x: 1.55,
	Activity4x: 1.725,
	Activity5x: 1.9,
	Activity6x: 2.0,
}

func activityMultiplier(a ActivityLevel) float64 {
	if m, ok := activityMultipliers[a]; ok {
		return m
	}
	return 1.2
}

func experienceMultiplier(e Experience) float64 {
	switch e {
	case ExperienceBeginner:
		return 1.08
	case ExperienceAdvanced:
		return 0.96
	default:
		return 1.0
	}
}

func activityAgeMultiplier(age int) float64 {
	switch {
	case age < 25:
		return 1.02
	case age <= 35:
		return 1.0
	case age <= 50:
		return 0.98
	default:
		return 0.95
	}
}

func sleepMultiplier(s SleepBucket) float64 {
	switch s {
	case SleepUnder6:
		return 0.90
	case Sleep6To7:
		return 0.97
	case Sleep8To9:
		return 1.02
	case SleepOver9:
		return 1.01
	default:
		return 1.0
	}
}

// limitationMultiplier applies only the first matching penalty, in the order
// cardiovascular/diabetes, asthma, musculoskeletal.
func limitationMultiplier(l Limitations) float64 {
	switch {
	case l.HasAny(LimitationHighBloodPressure, LimitationDiabetes):
		return 0.94
	case l.Has(LimitationAsthma):
		return 0.92
	case l.HasAny(LimitationKneeInjury, LimitationShoulderInjury, LimitationBackPain):
		return 0.96
	default:
		return 1.0
	}
}

// TDEE scales bmr by independent activity, experience, age, sleep and
// limitation factors.
func TDEE(bmr float64, activity ActivityLevel, experience Experience, age int, limitations Limitations, sleep SleepBucket) float64 {
	return bmr *
		activityMultiplier(activity) *
		experienceMultiplier(experience) *
		activityAgeMultiplier(age) *
		sleepMultiplier(sleep) *
		limitationMultiplier(limitations)
}

// TargetCalories applies the goal-specific surplus or deficit to tdee, then the
// diabetes and hypertension penalties. Unlike limitationMultiplier the two
// penalties stack. A fat-loss target never drops below the sex floor, penalties
// included.
func TargetCalories(tdee float64, goal Goal, experience Experience, bmi float64, age int, sex Sex, bodyFatPct *float64, limitations Limitations) float64 {
	var calories float64
	floor := MinCaloriesFemale
	if sex.IsMale() {
		floor = MinCaloriesMale
	}

	switch goal {
	case GoalBuildMuscle:
		calories = tdee + muscleSurplus(experience)*muscleAgeFactor(age)*muscleBodyFatFactor(sex, bodyFatPct)

	case GoalLoseFat:
		deficit := fatLossDeficit(bmi)
		if !sex.IsMale() {
			deficit *= 0.85
		}
		switch {
		case age > 50:
			deficit *= 0.85
		case age < 25:
			deficit *= 1.1
		}
		calories = max(tdee-deficit, floor)

	case GoalRecomposition:
		switch {
		case experience == ExperienceBeginner && bmi < 25:
			calories = tdee + 150
		case bmi > 25:
			calories = tdee - 200
		case bodyFatPct != nil && *bodyFatPct > recompBodyFatThreshold(sex):
			calories = tdee - 150
		default:
			calories = tdee
		}

	case GoalImproveEndurance:
		switch experience {
		case ExperienceAdvanced:
			calories = tdee + 300
		case ExperienceIntermediate:
			calories = tdee + 250
		default:
			calories = tdee + 200
		}

	case GoalGeneralHealth:
		switch {
		case bmi > 25:
			calories = tdee - 250
		case bmi < 20:
			calories = tdee + 200
		default:
			calories = tdee
		}

	default:
		calories = tdee
	}

	if limitations.Has(LimitationDiabetes) {
		calories *= 0.98
	}
	if limitations.Has(LimitationHighBloodPressure) {
		calories *= 0.97
	}
	if goal == GoalLoseFat {
		calories = max(calories, floor)
	}
	return calories
}

func muscleSurplus(e Experience) float64 {
	switch e {
	case ExperienceBeginner:
		return 450
	case ExperienceAdvanced:
		return 250
	default:
		return 350
	}
}

func muscleAgeFactor(age int) float64 {
	switch {
	case age <= 35:
		return 1.0
	case age <= 45:
		return 0.85
	case age <= 55:
		return 0.75
	default:
		return 0.65
	}
}

// muscleBodyFatFactor favours lean users and shrinks the surplus above the
// sex-specific threshold. Unknown body fat is neutral.
func muscleBodyFatFactor(sex Sex, bodyFatPct *float64) float64 {
	if bodyFatPct == nil {
		return 1.0
	}
	bf := *bodyFatPct
	if sex.IsMale() {
		switch {
		case bf < 10:
			return 1.1
		case bf > 20:
			return 0.8
		}
		return 1.0
	}
	switch {
	case bf < 18:
		return 1.1
	case bf > 28:
		return 0.8
	}
	return 1.0
}

func fatLossDeficit(bmi float64) float64 {
	switch {
	case bmi > 35:
		return 750
	case bmi > 30:
		return 650
	case bmi > 27:
		return 550
	case bmi > 25:
		return 450
	default:
		return 350
	}
}

func recompBodyFatThreshold(sex Sex) float64 {
	if sex.IsMale() {
		return 15
	}
	return 25
}
