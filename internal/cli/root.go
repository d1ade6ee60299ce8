// Package cli implements glowctl, the operator tool for the nutrition API:
// offline plan calculation, portion scaling, barcode lookups and manual
// cache-to-MongoDB sync passes.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds a fresh command tree. Each call returns independent flag
// state.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "glowctl",
		Short:         "glowctl inspects and operates the GlowUpp nutrition backend",
		Long:          "glowctl computes nutrition plans offline, scales food portions, looks up barcodes and flushes the local day cache to MongoDB.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "Directory containing config.yaml")

	root.AddCommand(
		newPlanCmd(),
		newScaleCmd(),
		newLookupCmd(&configPath),
		newSyncCmd(&configPath),
	)
	return root
}

// Execute runs glowctl with os.Args.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
