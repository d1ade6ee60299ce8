package cli

import (
	"fmt"

	"glowupp/nutrition-api/internal/config"
	"glowupp/nutrition-api/internal/provider/openfoodfacts"

	"github.com/spf13/cobra"
)

func newLookupCmd(configPath *string) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "lookup <barcode>",
		Short: "Look a barcode up in Open Food Facts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if baseURL != "" {
				cfg.OpenFoodFacts.BaseURL = baseURL
			}
			client := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.UserAgent, cfg.OpenFoodFacts.Timeout)

			p, err := client.LookupBarcode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%s\n", p.Barcode, p.Name)
			if p.Brand != "" {
				fmt.Fprintf(out, "Brand:\t%s\n", p.Brand)
			}
			if p.Country != "" {
				fmt.Fprintf(out, "Origin:\t%s\n", p.Country)
			}
			n := p.Per100g
			fmt.Fprintf(out, "Per 100 g:\t%.1f kcal\tP %.1f g\tC %.1f g\tF %.1f g\n", n.Calories, n.ProteinG, n.CarbsG, n.FatG)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Override the Open Food Facts base URL")
	return cmd
}
