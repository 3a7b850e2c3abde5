package app

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/JanCBrammer/NeuroKit/internal/report"
	"github.com/JanCBrammer/NeuroKit/pkg/eda"
	"github.com/JanCBrammer/NeuroKit/pkg/logging"
	"github.com/JanCBrammer/NeuroKit/pkg/sigio"
	"github.com/JanCBrammer/NeuroKit/pkg/signal"
)

// analyze loads a signal and its events, extracts SCR features and
// assembles the report
func (app *AnalysisApp) analyze(ctx context.Context, signalPath string) (*report.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phasic, err := app.loadSignal(signalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load signal: %w", err)
	}

	events, err := app.loadEvents(signalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	extractor := eda.NewFeatureExtractor(&eda.ExtractorConfig{
		RecoveryTolerance: app.config.Analysis.RecoveryTolerance,
		Logger:            app.logger,
	})

	features, err := extractor.Extract(phasic, app.config.Analysis.SamplingRate, events)
	if err != nil {
		return nil, fmt.Errorf("feature extraction failed: %w", err)
	}

	rep := report.New(signalPath, app.config.Analysis.SamplingRate, len(phasic), events, features)

	if app.ctx.SeriesFile != "" {
		if err := writeSeries(app.ctx.SeriesFile, phasic, events, features); err != nil {
			return nil, fmt.Errorf("failed to write series file: %w", err)
		}
		app.logger.Debug("Series written", logging.Fields{
			"series_file": app.ctx.SeriesFile,
			"samples":     len(phasic),
		})
	}

	return rep, nil
}

// loadSignal reads the phasic signal, choosing the reader by file extension
func (app *AnalysisApp) loadSignal(path string) ([]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".edf":
		return sigio.ReadEDF(path, app.config.Analysis.SignalIndex)
	case ".csv", ".txt":
		return sigio.ReadSignalCSV(path, app.config.Analysis.SignalColumn)
	default:
		return nil, fmt.Errorf("unsupported signal file format: %s", filepath.Ext(path))
	}
}

// loadEvents reads the SCR events for a signal file. An explicit events
// file wins; otherwise the sibling <signal>.events.json is used.
func (app *AnalysisApp) loadEvents(signalPath string) (*eda.Events, error) {
	path := app.ctx.EventsFile
	if path == "" {
		path = defaultEventsPath(signalPath)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return sigio.ReadEvents(path)
	case ".csv":
		return sigio.ReadEventsCSV(path)
	default:
		return nil, fmt.Errorf("unsupported events file format: %s", filepath.Ext(path))
	}
}

// defaultEventsPath derives the sibling events file for a signal file
func defaultEventsPath(signalPath string) string {
	base := strings.TrimSuffix(signalPath, filepath.Ext(signalPath))
	return base + ".events.json"
}

// writeSeries projects events and features onto signal-length traces and
// writes them as CSV columns next to the phasic signal. Marker columns
// hold 1 at their indices, value columns hold the feature value at the
// peak sample. Missing features leave their samples at 0.
func writeSeries(path string, phasic []float64, events *eda.Events, features *eda.Features) error {
	length := len(phasic)

	onsetIdx := make([]int, 0, events.Len())
	for _, onset := range events.Onsets {
		if onset.Valid {
			onsetIdx = append(onsetIdx, int(onset.Float64))
		}
	}
	recoveryIdx := make([]int, 0, features.Len())
	for _, recovery := range features.Recovery {
		if recovery.Valid {
			recoveryIdx = append(recoveryIdx, int(recovery.Float64))
		}
	}

	onsets, err := signal.MarkPeaks(length, onsetIdx)
	if err != nil {
		return err
	}
	peaks, err := signal.MarkPeaks(length, events.Peaks)
	if err != nil {
		return err
	}
	recoveries, err := signal.MarkPeaks(length, recoveryIdx)
	if err != nil {
		return err
	}
	heights, err := signal.FormatPeaks(length, events.Peaks, events.Heights)
	if err != nil {
		return err
	}
	amplitudes, err := signal.FormatPeaks(length, events.Peaks, optionalValues(features.Amplitude))
	if err != nil {
		return err
	}
	riseTimes, err := signal.FormatPeaks(length, events.Peaks, optionalValues(features.RiseTime))
	if err != nil {
		return err
	}
	recoveryTimes, err := signal.FormatPeaks(length, events.Peaks, optionalValues(features.RecoveryTime))
	if err != nil {
		return err
	}

	header := []string{
		"phasic", "scr_onsets", "scr_peaks", "scr_height",
		"scr_amplitude", "scr_rise_time", "scr_recovery", "scr_recovery_time",
	}
	columns := [][]float64{
		phasic, onsets, peaks, heights,
		amplitudes, riseTimes, recoveries, recoveryTimes,
	}

	return sigio.WriteColumnsCSV(path, header, columns)
}

// optionalValues converts nullable features to a value slice with NaN
// standing in for missing entries
func optionalValues(values []eda.NullFloat64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.Or(math.NaN())
	}
	return out
}
