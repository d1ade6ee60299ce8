// Package nutrition computes daily calorie and macronutrient targets from a
// user's biometric profile. Every function here is pure: no I/O, no errors,
// and unknown enum values fall through to a default branch.
package nutrition

// Sex of the user. Anything other than SexMale is treated as female by the formulas.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// IsMale reports whether the male constants apply.
func (s Sex) IsMale() bool { return s == SexMale }

// ActivityLevel is the weekly training-frequency category.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = ""
	Activity2x        ActivityLevel = "2x"
	Activity3x        ActivityLevel = "3x"
	Activity4x        ActivityLevel = "4x"
	Activity5x        ActivityLevel = "5x"
	Activity6x        ActivityLevel = "6x"
)

// Experience is the training experience tier.
type Experience string

const (
	ExperienceBeginner     Experience = "Beginner"
	ExperienceIntermediate Experience = "Intermediate"
	ExperienceAdvanced     Experience = "Advanced"
)

// SleepBucket is the self-reported nightly sleep duration.
type SleepBucket string

const (
	SleepUnder6 SleepBucket = "Less than 6"
	Sleep6To7   SleepBucket = "6-7"
	Sleep7To8   SleepBucket = "7-8"
	Sleep8To9   SleepBucket = "8-9"
	SleepOver9  SleepBucket = "9+"
)

// DietaryStyle selects protein, fat and carbohydrate adjustments.
type DietaryStyle string

const (
	DietStandard            DietaryStyle = "Standard"
	DietVegetarian          DietaryStyle = "Vegetarian"
	DietVegan               DietaryStyle = "Vegan"
	DietKeto                DietaryStyle = "Keto/LCHF"
	DietIntermittentFasting DietaryStyle = "Intermittent fasting"
)

// Goal is the user's workout goal.
type Goal string

const (
	GoalBuildMuscle      Goal = "Build muscle"
	GoalLoseFat          Goal = "Lose fat"
	GoalRecomposition    Goal = "Recomposition"
	GoalImproveEndurance Goal = "Improve endurance"
	GoalGeneralHealth    Goal = "General health"
	GoalMaintenance      Goal = "Maintenance"
)

// Limitation is a physical or medical limitation tag.
type Limitation string

const (
	LimitationAsthma            Limitation = "Asthma"
	LimitationHighBloodPressure Limitation = "High blood pressure"
	LimitationDiabetes          Limitation = "Diabetes"
	LimitationKneeInjury        Limitation = "Knee injury"
	LimitationShoulderInjury    Limitation = "Shoulder injury"
	LimitationBackPain          Limitation = "Back pain"
)

// Limitations is the set of tags attached to a profile.
type Limitations []Limitation

// Has reports whether l contains tag.
func (l Limitations) Has(tag Limitation) bool {
	for _, x := range l {
		if x == tag {
			return true
		}
	}
	return false
}

// HasAny reports whether l contains at least one of tags.
func (l Limitations) HasAny(tags ...Limitation) bool {
	for _, t := range tags {
		if l.Has(t) {
			return true
		}
	}
	return false
}

// Profile is the biometric input of the pipeline. Weight is passed separately
// because plans are rebuilt from the latest weight entry.
type Profile struct {
	HeightCm    float64
	Age         int
	Sex         Sex
	Activity    ActivityLevel
	Experience  Experience
	BodyFatPct  *float64 // nil when unknown
	Sleep       SleepBucket
	Diet        DietaryStyle
	Limitations Limitations
	Goal        Goal
}
