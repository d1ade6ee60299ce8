package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestBMR_MifflinWithAgeBand(t *testing.T) {
	// 10*80 + 6.25*180 - 5*30 + 5 = 1780, age 30 → ×1.0
	assert.InDelta(t, 1780.0, BMR(80, 180, 30, SexMale, nil), 1e-9)

	// female constant is -161, age 20 → ×1.05
	want := (10*60 + 6.25*165 - 5*20 - 161) * 1.05
	assert.InDelta(t, want, BMR(60, 165, 20, SexFemale, nil), 1e-9)
}

func TestBMR_AgeBands(t *testing.T) {
	base := func(age int) float64 { return 10*70 + 6.25*175 - 5*float64(age) + 5 }
	cases := []struct {
		age    int
		factor float64
	}{
		{16, 1.12}, {18, 1.05}, {25, 1.05}, {26, 1.0}, {35, 1.0},
		{36, 0.97}, {45, 0.97}, {46, 0.94}, {55, 0.94}, {56, 0.91}, {65, 0.91}, {66, 0.87}, {90, 0.87},
	}
	for _, tc := range cases {
		assert.InDelta(t, base(tc.age)*tc.factor, BMR(70, 175, tc.age, SexMale, nil), 1e-9, "age %d", tc.age)
	}
}

func TestBMR_LeanMassPath(t *testing.T) {
	// LBM = 80 * 0.8 = 64 → 370 + 21.6*64
	assert.InDelta(t, 1752.4, BMR(80, 180, 30, SexMale, ptr(20)), 1e-9)
	// lean-mass path ignores age
	assert.InDelta(t, 1752.4, BMR(80, 180, 70, SexMale, ptr(20)), 1e-9)
	// zero body fat falls back to Mifflin-St Jeor
	assert.InDelta(t, 1780.0, BMR(80, 180, 30, SexMale, ptr(0)), 1e-9)
}

func TestTDEE_Multipliers(t *testing.T) {
	assert.InDelta(t, 1780*1.725, TDEE(1780, Activity4x, ExperienceIntermediate, 30, nil, Sleep7To8), 1e-9)
	assert.InDelta(t, 1000*1.2, TDEE(1000, ActivitySedentary, "", 30, nil, ""), 1e-9)
	assert.InDelta(t, 1000*2.0*1.08*1.02*0.90, TDEE(1000, Activity6x, ExperienceBeginner, 22, nil, SleepUnder6), 1e-9)
	assert.InDelta(t, 1000*1.375*0.96*0.95*1.02, TDEE(1000, Activity2x, ExperienceAdvanced, 60, nil, Sleep8To9), 1e-9)
}

func TestTDEE_LimitationPrecedence(t *testing.T) {
	cases := []struct {
		name string
		lim  Limitations
		want float64
	}{
		{"none", nil, 1.0},
		{"asthma", Limitations{LimitationAsthma}, 0.92},
		{"knee", Limitations{LimitationKneeInjury}, 0.96},
		{"diabetes", Limitations{LimitationDiabetes}, 0.94},
		{"asthma and diabetes", Limitations{LimitationAsthma, LimitationDiabetes}, 0.94},
		{"asthma and back pain", Limitations{LimitationBackPain, LimitationAsthma}, 0.92},
		{"all", Limitations{LimitationBackPain, LimitationAsthma, LimitationHighBloodPressure}, 0.94},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, 1000*1.2*tc.want, TDEE(1000, "", "", 30, tc.lim, ""), 1e-9)
		})
	}
}

func TestTargetCalories_BuildMuscle(t *testing.T) {
	assert.InDelta(t, 3000+350.0, TargetCalories(3000, GoalBuildMuscle, ExperienceIntermediate, 24, 30, SexMale, nil, nil), 1e-9)
	assert.InDelta(t, 3000+450*0.85, TargetCalories(3000, GoalBuildMuscle, ExperienceBeginner, 24, 40, SexMale, nil, nil), 1e-9)
	// lean male gets a larger surplus, high body-fat female a smaller one
	assert.InDelta(t, 3000+250*1.1, TargetCalories(3000, GoalBuildMuscle, ExperienceAdvanced, 24, 30, SexMale, ptr(8), nil), 1e-9)
	assert.InDelta(t, 2200+350*0.65*0.8, TargetCalories(2200, GoalBuildMuscle, "", 24, 60, SexFemale, ptr(30), nil), 1e-9)
}

func TestTargetCalories_LoseFatFloor(t *testing.T) {
	female := TargetCalories(1300, GoalLoseFat, ExperienceBeginner, 40, 30, SexFemale, nil, nil)
	assert.Equal(t, MinCaloriesFemale, female)

	male := TargetCalories(1600, GoalLoseFat, ExperienceBeginner, 40, 22, SexMale, nil, nil)
	assert.Equal(t, MinCaloriesMale, male)

	// the floor also holds after the medical penalties
	penalised := TargetCalories(1300, GoalLoseFat, "", 40, 30, SexFemale, nil, Limitations{LimitationDiabetes, LimitationHighBloodPressure})
	assert.Equal(t, MinCaloriesFemale, penalised)

	// regular deficit: bmi 28 → 550, female ×0.85, age 55 ×0.85
	assert.InDelta(t, 2500-550*0.85*0.85, TargetCalories(2500, GoalLoseFat, "", 28, 55, SexFemale, nil, nil), 1e-9)
}

func TestTargetCalories_OtherGoals(t *testing.T) {
	assert.InDelta(t, 2150.0, TargetCalories(2000, GoalRecomposition, ExperienceBeginner, 22, 30, SexMale, nil, nil), 1e-9)
	assert.InDelta(t, 1800.0, TargetCalories(2000, GoalRecomposition, ExperienceAdvanced, 27, 30, SexMale, nil, nil), 1e-9)
	assert.InDelta(t, 1850.0, TargetCalories(2000, GoalRecomposition, ExperienceAdvanced, 23, 30, SexMale, ptr(18), nil), 1e-9)
	assert.InDelta(t, 2000.0, TargetCalories(2000, GoalRecomposition, ExperienceAdvanced, 23, 30, SexFemale, ptr(18), nil), 1e-9)

	assert.InDelta(t, 2300.0, TargetCalories(2000, GoalImproveEndurance, ExperienceAdvanced, 23, 30, SexMale, nil, nil), 1e-9)
	assert.InDelta(t, 2200.0, TargetCalories(2000, GoalImproveEndurance, "", 23, 30, SexMale, nil, nil), 1e-9)

	assert.InDelta(t, 1750.0, TargetCalories(2000, GoalGeneralHealth, "", 26, 30, SexMale, nil, nil), 1e-9)
	assert.InDelta(t, 2200.0, TargetCalories(2000, GoalGeneralHealth, "", 19, 30, SexMale, nil, nil), 1e-9)
	assert.InDelta(t, 2000.0, TargetCalories(2000, GoalGeneralHealth, "", 22, 30, SexMale, nil, nil), 1e-9)

	assert.InDelta(t, 2000.0, TargetCalories(2000, "", "", 22, 30, SexMale, nil, nil), 1e-9)
	assert.InDelta(t, 2000.0, TargetCalories(2000, GoalMaintenance, "", 22, 30, SexMale, nil, nil), 1e-9)
}

func TestTargetCalories_PenaltiesStack(t *testing.T) {
	got := TargetCalories(2000, GoalMaintenance, "", 22, 30, SexMale, nil, Limitations{LimitationDiabetes, LimitationHighBloodPressure})
	assert.InDelta(t, 2000*0.98*0.97, got, 1e-9)
}

func TestAllocateMacros_CarbRules(t *testing.T) {
	// keto: large budget is capped at 50 g
	keto := AllocateMacros(4000, 80, GoalLoseFat, "", 30, SexMale, nil, DietKeto, nil)
	assert.Equal(t, KetoCarbCapG, keto.CarbsG)

	// keto: negative remainder never produces negative grams
	ketoLow := AllocateMacros(1500, 80, GoalLoseFat, "", 30, SexMale, nil, DietKeto, nil)
	assert.Equal(t, 0, ketoLow.CarbsG)

	fasting := AllocateMacros(1200, 80, GoalBuildMuscle, ExperienceAdvanced, 30, SexMale, nil, DietIntermittentFasting, nil)
	assert.Equal(t, FastingCarbFloorG, fasting.CarbsG)

	standard := AllocateMacros(1200, 80, GoalBuildMuscle, ExperienceAdvanced, 30, SexMale, nil, DietStandard, nil)
	assert.Equal(t, DefaultCarbFloorG, standard.CarbsG)
}

func TestAllocateMacros_ProteinAndFat(t *testing.T) {
	m := AllocateMacros(3000, 60, GoalLoseFat, "", 45, SexFemale, ptr(32), DietVegan, nil)
	// 2.4 g/kg (female >30% bf) × 60 × 1.15 (41-55) × 0.95 × 1.15 (vegan)
	assert.Equal(t, 181, m.ProteinG)
	// aggressive cut with bf > 25 → 0.7 g/kg
	assert.Equal(t, 42, m.FatG)

	hbp := AllocateMacros(3000, 90, GoalMaintenance, "", 30, SexMale, nil, DietStandard, Limitations{LimitationHighBloodPressure})
	assert.Equal(t, 72, hbp.FatG)
	assert.Equal(t, 161, hbp.ProteinG) // 1.7 × 90 × 1.05

	young := AllocateMacros(3000, 100, GoalMaintenance, "", 20, SexFemale, nil, DietStandard, nil)
	assert.Equal(t, 110, young.FatG)
}

func TestBuildPlan_WorkedExample(t *testing.T) {
	profile := Profile{
		HeightCm:   180,
		Age:        30,
		Sex:        SexMale,
		Activity:   Activity4x,
		Experience: ExperienceIntermediate,
		Sleep:      Sleep7To8,
		Diet:       DietStandard,
		Goal:       GoalBuildMuscle,
	}
	plan := BuildPlan(profile, 80)

	assert.InDelta(t, 1780.0, plan.Breakdown.BMR, 1e-9)
	assert.InDelta(t, 1780*1.725, plan.Breakdown.TDEE, 1e-6)
	assert.InDelta(t, 1780*1.725+350, plan.TargetCalories, 1e-6)
	assert.Equal(t, 168, plan.Macros.ProteinG)
	assert.Equal(t, 80, plan.Macros.FatG)
	assert.Equal(t, 507, plan.Macros.CarbsG)
	assert.InDelta(t, 24.69, plan.Breakdown.BMI, 0.01)
	assert.InDelta(t, 2.1, plan.Breakdown.ProteinPerKg, 1e-9)
	assert.Len(t, plan.Breakdown.Tips, 7)
	assert.Contains(t, plan.Breakdown.MacroBreakdown, "(168g total)")
}

func TestPipelineProperties(t *testing.T) {
	sexes := []Sex{SexMale, SexFemale}
	goals := []Goal{GoalBuildMuscle, GoalLoseFat, GoalRecomposition, GoalImproveEndurance, GoalGeneralHealth, GoalMaintenance, ""}
	diets := []DietaryStyle{DietStandard, DietVegetarian, DietVegan, DietKeto, DietIntermittentFasting}
	activities := []ActivityLevel{ActivitySedentary, Activity2x, Activity4x, Activity6x}
	limitations := []Limitations{nil, {LimitationAsthma}, {LimitationDiabetes, LimitationHighBloodPressure}, {LimitationBackPain}}
	weights := []float64{45, 70, 95, 140}
	ages := []int{16, 24, 33, 48, 67, 80}

	for _, sex := range sexes {
		for _, goal := range goals {
			for _, diet := range diets {
				for _, act := range activities {
					for _, lim := range limitations {
						for _, w := range weights {
							for _, age := range ages {
								p := Profile{HeightCm: 172, Age: age, Sex: sex, Activity: act, Experience: ExperienceBeginner, Diet: diet, Limitations: lim, Goal: goal}
								plan := BuildPlan(p, w)

								require.Greater(t, plan.Breakdown.BMR, 0.0)
								require.Greater(t, plan.Breakdown.TDEE, 0.0)
								require.Greater(t, plan.TargetCalories, 0.0)

								if goal == GoalLoseFat {
									floor := MinCaloriesFemale
									if sex.IsMale() {
										floor = MinCaloriesMale
									}
									require.GreaterOrEqual(t, plan.TargetCalories, floor)
								}

								m := plan.Macros
								require.GreaterOrEqual(t, m.ProteinG, 0)
								require.GreaterOrEqual(t, m.FatG, 0)
								require.GreaterOrEqual(t, m.CarbsG, 0)

								switch diet {
								case DietKeto:
									require.LessOrEqual(t, m.CarbsG, KetoCarbCapG)
								case DietIntermittentFasting:
									require.GreaterOrEqual(t, m.CarbsG, FastingCarbFloorG)
								default:
									require.GreaterOrEqual(t, m.CarbsG, DefaultCarbFloorG)
								}

								// When carbohydrate is the true residual the calorie identity
								// holds within integer rounding and never overshoots.
								residual := int((plan.TargetCalories - float64(m.ProteinG*4) - float64(m.FatG*9)) / 4)
								if residual == m.CarbsG {
									require.LessOrEqual(t, float64(m.Calories()), plan.TargetCalories)
									require.InDelta(t, plan.TargetCalories, float64(m.Calories()), 4)
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestValidateBiometrics(t *testing.T) {
	assert.NoError(t, ValidateBiometrics(180, 30, 80))
	assert.ErrorIs(t, ValidateBiometrics(0, 30, 80), ErrInvalidHeight)
	assert.ErrorIs(t, ValidateBiometrics(301, 30, 80), ErrInvalidHeight)
	assert.ErrorIs(t, ValidateBiometrics(180, 151, 80), ErrInvalidAge)
	assert.ErrorIs(t, ValidateBiometrics(180, 30, 500.5), ErrInvalidWeight)
}

func TestValidateProfile_RejectsNonPositiveEnergy(t *testing.T) {
	tiny := Profile{HeightCm: 50, Age: 150, Sex: SexFemale, Goal: GoalMaintenance}

	// each value is in range on its own, but Mifflin-St Jeor goes negative
	require.NoError(t, ValidateBiometrics(tiny.HeightCm, tiny.Age, 10))
	assert.Less(t, BMR(10, tiny.HeightCm, tiny.Age, tiny.Sex, nil), 0.0)
	assert.ErrorIs(t, ValidateProfile(tiny, 10), ErrImplausibleProfile)

	tiny.Sex = SexMale
	assert.ErrorIs(t, ValidateProfile(tiny, 10), ErrImplausibleProfile)

	// the lean-mass path stays positive for the same body
	bf := 20.0
	tiny.BodyFatPct = &bf
	assert.NoError(t, ValidateProfile(tiny, 10))

	assert.ErrorIs(t, ValidateProfile(Profile{HeightCm: 400, Age: 30}, 80), ErrInvalidHeight)
	assert.NoError(t, ValidateProfile(Profile{HeightCm: 180, Age: 30, Sex: SexMale}, 80))
}

func TestValidateProfile_AcceptedProfilesArePositive(t *testing.T) {
	goals := []Goal{GoalBuildMuscle, GoalLoseFat, GoalRecomposition, GoalGeneralHealth, GoalMaintenance}
	limitations := []Limitations{nil, {LimitationDiabetes, LimitationHighBloodPressure}}
	rejected := 0

	for _, sex := range []Sex{SexMale, SexFemale} {
		for _, goal := range goals {
			for _, lim := range limitations {
				for _, h := range []float64{30, 50, 120, 172, 300} {
					for _, age := range []int{1, 17, 40, 90, 150} {
						for _, w := range []float64{1, 10, 70, 500} {
							p := Profile{HeightCm: h, Age: age, Sex: sex, Goal: goal, Limitations: lim, Experience: ExperienceBeginner}
							if err := ValidateProfile(p, w); err != nil {
								require.ErrorIs(t, err, ErrImplausibleProfile)
								rejected++
								continue
							}
							plan := BuildPlan(p, w)
							require.Greater(t, plan.Breakdown.BMR, 0.0)
							require.Greater(t, plan.Breakdown.TDEE, 0.0)
							require.Greater(t, plan.TargetCalories, 0.0)
						}
					}
				}
			}
		}
	}
	assert.Positive(t, rejected, "the grid includes implausible corners")
}

func TestBMICategory(t *testing.T) {
	assert.Equal(t, "Underweight", BMICategory(17))
	assert.Equal(t, "Normal weight", BMICategory(22))
	assert.Equal(t, "Overweight", BMICategory(27))
	assert.Equal(t, "Obese", BMICategory(31))
}
