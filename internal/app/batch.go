package app

import (
	"context"
	"sync"
	"time"

	"github.com/JanCBrammer/NeuroKit/internal/report"
	"github.com/JanCBrammer/NeuroKit/pkg/logging"
)

// AnalysisResult represents the outcome of analyzing a single signal file
type AnalysisResult struct {
	Source    string
	Report    *report.AnalysisReport
	Err       error
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// runAnalyses processes all signal files and returns one result per file,
// in input order. Files run in parallel when the analysis configuration
// enables it.
func (app *AnalysisApp) runAnalyses(ctx context.Context) []*AnalysisResult {
	files := app.ctx.SignalFiles

	if !app.config.Analysis.Concurrent || len(files) == 1 {
		return app.runSequential(ctx, files)
	}
	return app.runParallel(ctx, files)
}

// runParallel analyzes files concurrently, bounded by max_concurrency
func (app *AnalysisApp) runParallel(ctx context.Context, files []string) []*AnalysisResult {
	results := make([]*AnalysisResult, len(files))

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, app.config.Analysis.MaxConcurrency)

	globalStart := time.Now()

	app.logger.Debug("Starting parallel analysis", logging.Fields{
		"signal_files":    len(files),
		"max_concurrency": app.config.Analysis.MaxConcurrency,
	})

	for i, path := range files {
		wg.Add(1)
		go func(index int, signalPath string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			result := app.analyzeFile(ctx, signalPath, index)

			mu.Lock()
			results[index] = result
			mu.Unlock()
		}(i, path)
	}

	wg.Wait()

	app.logger.Debug("Parallel analysis completed", logging.Fields{
		"signal_files":      len(files),
		"total_duration_ms": time.Since(globalStart).Milliseconds(),
	})

	return results
}

// runSequential analyzes files one after another
func (app *AnalysisApp) runSequential(ctx context.Context, files []string) []*AnalysisResult {
	results := make([]*AnalysisResult, 0, len(files))

	for i, path := range files {
		results = append(results, app.analyzeFile(ctx, path, i))

		if ctx.Err() != nil {
			break
		}
	}

	return results
}

// analyzeFile runs the extraction pipeline for a single signal file
func (app *AnalysisApp) analyzeFile(ctx context.Context, signalPath string, index int) *AnalysisResult {
	startTime := time.Now()

	logger := app.logger.WithFields(logging.Fields{
		"signal_index": index,
		"signal_file":  signalPath,
	})

	result := &AnalysisResult{
		Source:    signalPath,
		StartTime: startTime,
	}

	rep, err := app.analyze(ctx, signalPath)
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	if err != nil {
		result.Err = err
		return result
	}

	result.Report = rep

	logger.Debug("Signal analysis completed", logging.Fields{
		"events":           rep.Summary.Events,
		"with_recovery":    rep.Summary.WithRecovery,
		"analysis_time_ms": result.Duration.Milliseconds(),
	})

	return result
}
