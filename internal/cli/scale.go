package cli

import (
	"fmt"
	"strconv"

	"glowupp/nutrition-api/internal/nutrition"

	"github.com/spf13/cobra"
)

type scaleOptions struct {
	refAmount float64
	refUnit   string
	calories  float64
	protein   float64
	carbs     float64
	fat       float64
}

func newScaleCmd() *cobra.Command {
	var opts scaleOptions

	cmd := &cobra.Command{
		Use:   "scale <amount> <unit>",
		Short: "Scale a reference nutrient payload to another portion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			base := nutrition.Nutrients{
				Calories: opts.calories,
				ProteinG: opts.protein,
				CarbsG:   opts.carbs,
				FatG:     opts.fat,
			}
			scaled, err := nutrition.ScaleNutrients(base, opts.refAmount, opts.refUnit, amount, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f kcal\tP %.2f g\tC %.2f g\tF %.2f g\n",
				scaled.Calories, scaled.ProteinG, scaled.CarbsG, scaled.FatG)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.refAmount, "ref-amount", 100, "Reference amount the nutrients describe")
	f.StringVar(&opts.refUnit, "ref-unit", "g", "Reference unit")
	f.Float64Var(&opts.calories, "kcal", 0, "Calories per reference amount")
	f.Float64Var(&opts.protein, "protein", 0, "Protein grams per reference amount")
	f.Float64Var(&opts.carbs, "carbs", 0, "Carbohydrate grams per reference amount")
	f.Float64Var(&opts.fat, "fat", 0, "Fat grams per reference amount")
	return cmd
}
