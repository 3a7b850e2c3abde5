package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JanCBrammer/NeuroKit/internal/app"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "Browse analysis runs saved to the results store",
	Long: `List analysis runs saved to the results store, or show one run.

Without arguments all stored runs are listed newest first. With a run ID
the full report is rebuilt from the store and rendered in the selected
output format.

Examples:
  # List stored runs
  neurokit runs

  # List stored runs as CSV
  neurokit runs -o csv

  # Show one run as YAML
  neurokit runs -o yaml 1b4e28ba-2fa1-4e5a-883f-0016d3cca427`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	appCtx := &app.Context{}

	runsApp, err := app.NewRunsApp(appCtx)
	if err != nil {
		return fmt.Errorf("failed to initialize run browser: %w", err)
	}

	runID := ""
	if len(args) == 1 {
		runID = args[0]
	}

	return runsApp.Run(context.Background(), runID)
}
