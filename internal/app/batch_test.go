package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanCBrammer/NeuroKit/internal/report"
	"github.com/JanCBrammer/NeuroKit/pkg/sigio"
)

func readReportFile(t *testing.T, path string) *report.AnalysisReport {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rep := &report.AnalysisReport{}
	require.NoError(t, json.Unmarshal(data, rep))
	return rep
}

func readBatchFile(t *testing.T, path string) *report.Batch {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	batch := &report.Batch{}
	require.NoError(t, json.Unmarshal(data, batch))
	return batch
}

func writeBatchFixtures(t *testing.T, dir string, n int) []string {
	t.Helper()

	files := make([]string, n)
	for i := range files {
		signalPath := filepath.Join(dir, "recording"+string(rune('a'+i))+".csv")
		files[i] = writeNamedFixture(t, signalPath)
	}
	return files
}

func writeNamedFixture(t *testing.T, signalPath string) string {
	t.Helper()

	require.NoError(t, sigio.WriteSignalCSV(signalPath, "EDA_Phasic",
		[]float64{0, 0, 10, 8, 6, 5, 2, 0}))
	require.NoError(t, sigio.WriteEvents(defaultEventsPath(signalPath),
		fixtureEvents()))
	return signalPath
}

func TestRunAnalysesParallelPreservesOrder(t *testing.T) {
	files := writeBatchFixtures(t, t.TempDir(), 3)

	app := newTestApp(&Context{SignalFiles: files})
	app.config.Analysis.Concurrent = true
	app.config.Analysis.MaxConcurrency = 2

	results := app.runAnalyses(context.Background())
	require.Len(t, results, 3)

	for i, result := range results {
		require.NotNil(t, result, "result %d", i)
		assert.Equal(t, files[i], result.Source)
		require.NoError(t, result.Err)
		require.NotNil(t, result.Report)
		assert.Equal(t, files[i], result.Report.Source)
	}
}

func TestRunAnalysesSequentialCollectsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeNamedFixture(t, filepath.Join(dir, "good.csv"))

	// A signal without a sibling events file fails to analyze.
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, sigio.WriteSignalCSV(bad, "EDA_Phasic", []float64{0, 1, 0}))

	app := newTestApp(&Context{SignalFiles: []string{bad, good}})

	results := app.runAnalyses(context.Background())
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Report)

	assert.NoError(t, results[1].Err)
	require.NotNil(t, results[1].Report)
	assert.Equal(t, good, results[1].Report.Source)
}

func TestRunAnalysesCancelledContext(t *testing.T) {
	files := writeBatchFixtures(t, t.TempDir(), 2)

	app := newTestApp(&Context{SignalFiles: files})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := app.runAnalyses(ctx)
	require.NotEmpty(t, results)
	assert.Error(t, results[0].Err)
}

func TestRunInputValidation(t *testing.T) {
	t.Run("requires a signal file", func(t *testing.T) {
		app := newTestApp(&Context{})
		err := app.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one signal file")
	})

	t.Run("explicit events file needs a single input", func(t *testing.T) {
		app := newTestApp(&Context{
			SignalFiles: []string{"a.csv", "b.csv"},
			EventsFile:  "events.json",
		})
		err := app.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single signal file")
	})

	t.Run("series file needs a single input", func(t *testing.T) {
		app := newTestApp(&Context{
			SignalFiles: []string{"a.csv", "b.csv"},
			SeriesFile:  "series.csv",
		})
		err := app.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "series file applies to a single signal file")
	})
}

func TestRunWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	signalPath := writeNamedFixture(t, filepath.Join(dir, "recording.csv"))
	outputPath := filepath.Join(dir, "out", "report.json")

	app := newTestApp(&Context{
		SignalFiles: []string{signalPath},
		OutputFile:  outputPath,
	})
	app.config.OutputFormat = "json"

	require.NoError(t, app.Run(context.Background()))

	rep := readReportFile(t, outputPath)
	assert.Equal(t, signalPath, rep.Source)
	require.Len(t, rep.Events, 1)
}

func TestRunBatchOutputFile(t *testing.T) {
	dir := t.TempDir()
	good := writeNamedFixture(t, filepath.Join(dir, "good.csv"))

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, sigio.WriteSignalCSV(bad, "EDA_Phasic", []float64{0, 1, 0}))

	outputPath := filepath.Join(dir, "report.json")
	app := newTestApp(&Context{
		SignalFiles: []string{good, bad},
		OutputFile:  outputPath,
	})
	app.config.OutputFormat = "json"

	// One run succeeded, so the batch as a whole is not an error.
	require.NoError(t, app.Run(context.Background()))

	batch := readBatchFile(t, outputPath)
	assert.Equal(t, 1, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Runs, 1)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, bad, batch.Failures[0].Source)
}

func TestRunAllFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, sigio.WriteSignalCSV(bad, "EDA_Phasic", []float64{0, 1, 0}))

	app := newTestApp(&Context{
		SignalFiles: []string{bad},
		OutputFile:  filepath.Join(dir, "report.json"),
	})
	app.config.OutputFormat = "json"

	err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all analyses failed")
}
