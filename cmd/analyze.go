package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JanCBrammer/NeuroKit/internal/app"
)

var (
	analyzeEventsFile    string
	analyzeOutputFile    string
	analyzeSeriesFile    string
	analyzeRate          float64
	analyzeColumn        string
	analyzeSignalIndex   int
	analyzeTolerance     float64
	analyzeConcurrent    bool
	analyzeMaxConcurrent int
	analyzeSave          bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [signal-file...]",
	Short: "Extract SCR features from EDA recordings",
	Long: `Extract skin conductance response features from phasic EDA signals.

For every signal file the command loads the matching SCR events (onsets,
peaks, peak heights), computes per-event amplitude, rise time and
half-recovery features, and renders a report.

Events come from --events for a single signal file, or from a sibling
<signal>.events.json for each file in a batch. Signal files may be CSV
(one column per signal) or EDF recordings.

Examples:
  # Analyze a CSV recording with events alongside
  neurokit analyze recording.csv

  # Analyze an EDF recording with explicit events and JSON output
  neurokit analyze --events scr.json -o json recording.edf

  # Batch analysis across recordings, four at a time
  neurokit analyze --concurrent --max-concurrent 4 session1.csv session2.csv

  # Persist the run to the results store
  neurokit analyze --save recording.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeEventsFile, "events", "e", "",
		"events file (JSON or CSV; single signal file only)")
	analyzeCmd.Flags().StringVar(&analyzeOutputFile, "output-file", "",
		"write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeSeriesFile, "series", "",
		"write signal-length feature traces to a CSV file")
	analyzeCmd.Flags().Float64VarP(&analyzeRate, "rate", "r", 1000,
		"sampling rate of the signal in Hz")
	analyzeCmd.Flags().StringVar(&analyzeColumn, "column", "EDA_Phasic",
		"signal column name for CSV input")
	analyzeCmd.Flags().IntVar(&analyzeSignalIndex, "signal-index", 0,
		"signal index for EDF input")
	analyzeCmd.Flags().Float64VarP(&analyzeTolerance, "tolerance", "t", 0.01,
		"relative tolerance for accepting half-recovery candidates")
	analyzeCmd.Flags().BoolVar(&analyzeConcurrent, "concurrent", false,
		"analyze signal files concurrently")
	analyzeCmd.Flags().IntVarP(&analyzeMaxConcurrent, "max-concurrent", "c", 4,
		"maximum number of concurrent analyses")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false,
		"save the run to the results store")

	viper.BindPFlag("analysis.sampling_rate", analyzeCmd.Flags().Lookup("rate"))
	viper.BindPFlag("analysis.signal_column", analyzeCmd.Flags().Lookup("column"))
	viper.BindPFlag("analysis.signal_index", analyzeCmd.Flags().Lookup("signal-index"))
	viper.BindPFlag("analysis.recovery_tolerance", analyzeCmd.Flags().Lookup("tolerance"))
	viper.BindPFlag("analysis.concurrent", analyzeCmd.Flags().Lookup("concurrent"))
	viper.BindPFlag("analysis.max_concurrency", analyzeCmd.Flags().Lookup("max-concurrent"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	appCtx := &app.Context{
		SignalFiles: args,
		EventsFile:  analyzeEventsFile,
		OutputFile:  analyzeOutputFile,
		SeriesFile:  analyzeSeriesFile,
		SaveRun:     analyzeSave,
	}

	analysisApp, err := app.NewAnalysisApp(appCtx)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	return analysisApp.Run(context.Background())
}
