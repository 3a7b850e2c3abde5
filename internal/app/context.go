package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JanCBrammer/NeuroKit/configs"
	"github.com/JanCBrammer/NeuroKit/internal/report"
	"github.com/JanCBrammer/NeuroKit/internal/store"
	"github.com/JanCBrammer/NeuroKit/pkg/logging"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	SignalFiles []string
	EventsFile  string
	OutputFile  string
	SeriesFile  string
	SignalOut   string
	EventsOut   string
	SaveRun     bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// AnalysisApp handles the feature extraction application lifecycle
type AnalysisApp struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
}

// NewAnalysisApp creates a new analysis application
func NewAnalysisApp(ctx *Context) (*AnalysisApp, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	logger := setupLogging(config)
	ctx.Logger = logger

	logger.Debug("Analysis application initialized", logging.Fields{
		"signal_files":       len(ctx.SignalFiles),
		"events_file":        ctx.EventsFile,
		"output_format":      config.OutputFormat,
		"sampling_rate":      config.Analysis.SamplingRate,
		"recovery_tolerance": config.Analysis.RecoveryTolerance,
	})

	return &AnalysisApp{
		ctx:    ctx,
		config: config,
		logger: logger,
	}, nil
}

// Run executes the feature extraction over all signal files
func (app *AnalysisApp) Run(ctx context.Context) error {
	if len(app.ctx.SignalFiles) == 0 {
		return fmt.Errorf("at least one signal file is required")
	}
	if len(app.ctx.SignalFiles) > 1 && app.ctx.EventsFile != "" {
		return fmt.Errorf("an explicit events file applies to a single signal file; batch inputs use sibling event files")
	}
	if len(app.ctx.SignalFiles) > 1 && app.ctx.SeriesFile != "" {
		return fmt.Errorf("a series file applies to a single signal file")
	}

	app.logger.Debug("Starting SCR feature extraction", logging.Fields{
		"signal_files": len(app.ctx.SignalFiles),
		"concurrent":   app.config.Analysis.Concurrent,
	})

	results := app.runAnalyses(ctx)

	runs := make([]*report.AnalysisReport, 0, len(results))
	var failures []report.BatchFailure
	for _, result := range results {
		if result.Err != nil {
			app.logger.Error(result.Err, "Analysis failed", logging.Fields{
				"source": result.Source,
			})
			failures = append(failures, report.BatchFailure{
				Source: result.Source,
				Error:  result.Err.Error(),
			})
			continue
		}
		runs = append(runs, result.Report)
	}

	if err := app.persistRuns(ctx, runs); err != nil {
		return fmt.Errorf("failed to persist results: %w", err)
	}

	if err := app.outputResults(runs, failures); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	// The run is an error only when nothing could be analyzed
	if len(failures) > 0 && len(runs) == 0 {
		return fmt.Errorf("all analyses failed")
	}

	return nil
}

// setupLogging configures logging from the resolved configuration
func setupLogging(config *configs.Config) logging.Logger {
	level := config.LogLevel
	if config.Verbose {
		level = "debug"
	}
	logger := logging.NewLogger(level)
	logging.SetDefault(logger)
	return logger
}

// loadConfig resolves and validates the application configuration
func loadConfig() (*configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load base configuration: %w", err)
	}

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// persistRuns saves successful runs to the results store when enabled
func (app *AnalysisApp) persistRuns(ctx context.Context, runs []*report.AnalysisReport) error {
	if !app.ctx.SaveRun && !app.config.Store.Enabled {
		return nil
	}
	if len(runs) == 0 {
		return nil
	}

	db, err := store.Open(app.config.Store.Path, app.logger)
	if err != nil {
		return fmt.Errorf("failed to open results store: %w", err)
	}
	defer db.Close()

	for _, rep := range runs {
		if err := db.SaveRun(ctx, rep); err != nil {
			return fmt.Errorf("failed to save run %s: %w", rep.ID, err)
		}
	}

	app.logger.Debug("Runs saved to store", logging.Fields{
		"store_path": app.config.Store.Path,
		"runs":       len(runs),
	})

	return nil
}

// outputResults formats and writes the analysis output. A single successful
// run yields a report document, anything else a batch document.
func (app *AnalysisApp) outputResults(runs []*report.AnalysisReport, failures []report.BatchFailure) error {
	var data any
	if len(runs) == 1 && len(failures) == 0 {
		data = runs[0]
	} else {
		data = report.NewBatch(runs, failures)
	}

	formatter, err := report.NewFormatter(app.config.OutputFormat)
	if err != nil {
		return err
	}

	formatted, err := formatter.Format(data, true)
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	if app.ctx.OutputFile != "" {
		return app.writeToFile(formatted)
	}

	_, err = os.Stdout.Write(formatted)
	return err
}

// writeToFile writes the rendered output to the configured file
func (app *AnalysisApp) writeToFile(data []byte) error {
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}
