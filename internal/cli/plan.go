package cli

import (
	"encoding/json"
	"fmt"

	"glowupp/nutrition-api/internal/nutrition"

	"github.com/spf13/cobra"
)

type planOptions struct {
	heightCm    float64
	weightKg    float64
	age         int
	sex         string
	activity    string
	experience  string
	bodyFat     float64
	sleep       string
	diet        string
	limitations []string
	goal        string
	asJSON      bool
}

func (o planOptions) profile() nutrition.Profile {
	limitations := make(nutrition.Limitations, 0, len(o.limitations))
	for _, l := range o.limitations {
		limitations = append(limitations, nutrition.Limitation(l))
	}
	return nutrition.Profile{
		HeightCm:    o.heightCm,
		Age:         o.age,
		Sex:         nutrition.Sex(o.sex),
		Activity:    nutrition.ActivityLevel(o.activity),
		Experience:  nutrition.Experience(o.experience),
		BodyFatPct:  optionalBodyFat(o.bodyFat),
		Sleep:       nutrition.SleepBucket(o.sleep),
		Diet:        nutrition.DietaryStyle(o.diet),
		Limitations: limitations,
		Goal:        nutrition.Goal(o.goal),
	}
}

type planOutput struct {
	Calories  int                 `json:"calories"`
	ProteinG  int                 `json:"proteinG"`
	CarbsG    int                 `json:"carbsG"`
	FatG      int                 `json:"fatG"`
	Breakdown nutrition.Breakdown `json:"algorithmData"`
}

func newPlanCmd() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a nutrition plan from biometrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := nutrition.ValidateProfile(opts.profile(), opts.weightKg); err != nil {
				return err
			}
			plan := nutrition.BuildPlan(opts.profile(), opts.weightKg)
			out := cmd.OutOrStdout()

			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(planOutput{
					Calories:  plan.Calories(),
					ProteinG:  plan.Macros.ProteinG,
					CarbsG:    plan.Macros.CarbsG,
					FatG:      plan.Macros.FatG,
					Breakdown: plan.Breakdown,
				})
			}

			fmt.Fprintf(out, "Calories:\t%d kcal\n", plan.Calories())
			fmt.Fprintf(out, "Protein:\t%d g\n", plan.Macros.ProteinG)
			fmt.Fprintf(out, "Carbs:\t\t%d g\n", plan.Macros.CarbsG)
			fmt.Fprintf(out, "Fat:\t\t%d g\n", plan.Macros.FatG)
			for _, tip := range plan.Breakdown.Tips {
				fmt.Fprintf(out, "  - %s\n", tip)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.heightCm, "height", 0, "Height in cm")
	f.Float64Var(&opts.weightKg, "weight", 0, "Body weight in kg")
	f.IntVar(&opts.age, "age", 0, "Age in years")
	f.StringVar(&opts.sex, "sex", string(nutrition.SexMale), "Male or Female")
	f.StringVar(&opts.activity, "activity", "", "Weekly training frequency: 2x..6x (empty for sedentary)")
	f.StringVar(&opts.experience, "experience", string(nutrition.ExperienceIntermediate), "Beginner, Intermediate or Advanced")
	f.Float64Var(&opts.bodyFat, "body-fat", -1, "Body-fat percent (negative when unknown)")
	f.StringVar(&opts.sleep, "sleep", string(nutrition.Sleep7To8), "Nightly sleep bucket")
	f.StringVar(&opts.diet, "diet", string(nutrition.DietStandard), "Dietary style")
	f.StringSliceVar(&opts.limitations, "limitation", nil, "Physical or medical limitation (repeatable)")
	f.StringVar(&opts.goal, "goal", string(nutrition.GoalMaintenance), "Workout goal")
	f.BoolVar(&opts.asJSON, "json", false, "Print the plan as JSON")
	_ = cmd.MarkFlagRequired("height")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}

func optionalBodyFat(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return &v
}
