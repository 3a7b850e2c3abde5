package app

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanCBrammer/NeuroKit/configs"
	"github.com/JanCBrammer/NeuroKit/pkg/eda"
	"github.com/JanCBrammer/NeuroKit/pkg/logging"
	"github.com/JanCBrammer/NeuroKit/pkg/sigio"
)

// newTestApp builds an analysis app without touching the global
// configuration.
func newTestApp(ctx *Context) *AnalysisApp {
	config := configs.GetDefaultConfig()
	config.Analysis.SamplingRate = 4
	ctx.Config = config
	return &AnalysisApp{
		ctx:    ctx,
		config: config,
		logger: logging.NopLogger(),
	}
}

// fixtureEvents returns one fully recoverable event for the fixture trace
// [0, 0, 10, 8, 6, 5, 2, 0].
func fixtureEvents() *eda.Events {
	return &eda.Events{
		Onsets:  []eda.NullFloat64{eda.Float(0)},
		Peaks:   []int{2},
		Heights: []float64{10},
	}
}

// writeRecordingFixture writes a phasic trace with one fully recoverable
// event and its sibling events file, returning the signal path.
func writeRecordingFixture(t *testing.T, dir string) string {
	t.Helper()

	signalPath := filepath.Join(dir, "recording.csv")
	phasic := []float64{0, 0, 10, 8, 6, 5, 2, 0}
	require.NoError(t, sigio.WriteSignalCSV(signalPath, "EDA_Phasic", phasic))
	require.NoError(t, sigio.WriteEvents(defaultEventsPath(signalPath), fixtureEvents()))

	return signalPath
}

func TestDefaultEventsPath(t *testing.T) {
	assert.Equal(t, "recording.events.json", defaultEventsPath("recording.csv"))
	assert.Equal(t, filepath.Join("data", "run.events.json"),
		defaultEventsPath(filepath.Join("data", "run.edf")))
	assert.Equal(t, "trace.events.json", defaultEventsPath("trace"))
}

func TestOptionalValues(t *testing.T) {
	out := optionalValues([]eda.NullFloat64{eda.Float(1.5), eda.Null()})
	require.Len(t, out, 2)
	assert.Equal(t, 1.5, out[0])
	assert.True(t, math.IsNaN(out[1]))
}

func TestAnalyze(t *testing.T) {
	signalPath := writeRecordingFixture(t, t.TempDir())
	app := newTestApp(&Context{SignalFiles: []string{signalPath}})

	rep, err := app.analyze(context.Background(), signalPath)
	require.NoError(t, err)

	assert.Equal(t, signalPath, rep.Source)
	assert.Equal(t, 4.0, rep.SamplingRate)
	assert.Equal(t, 8, rep.Samples)
	require.Len(t, rep.Events, 1)

	ev := rep.Events[0]
	assert.Equal(t, eda.Float(10), ev.Amplitude)
	assert.Equal(t, eda.Float(0.5), ev.RiseTime)
	assert.Equal(t, eda.Float(5), ev.Recovery)
	assert.Equal(t, eda.Float(0.75), ev.RecoveryTime)

	require.NotNil(t, rep.Summary)
	assert.Equal(t, 1, rep.Summary.WithRecovery)
}

func TestAnalyzeExplicitEventsFile(t *testing.T) {
	dir := t.TempDir()
	signalPath := filepath.Join(dir, "trace.csv")
	require.NoError(t, sigio.WriteSignalCSV(signalPath, "EDA_Phasic",
		[]float64{0, 0, 10, 8, 6, 5, 2, 0}))

	// No sibling events file exists; the explicit CSV one is used instead.
	eventsPath := filepath.Join(dir, "detections.csv")
	events := &eda.Events{
		Onsets:  []eda.NullFloat64{eda.Float(0)},
		Peaks:   []int{2},
		Heights: []float64{10},
	}
	require.NoError(t, sigio.WriteEventsCSV(eventsPath, events))

	app := newTestApp(&Context{
		SignalFiles: []string{signalPath},
		EventsFile:  eventsPath,
	})

	rep, err := app.analyze(context.Background(), signalPath)
	require.NoError(t, err)
	require.Len(t, rep.Events, 1)
	assert.Equal(t, eda.Float(5), rep.Events[0].Recovery)
}

func TestAnalyzeMissingEvents(t *testing.T) {
	dir := t.TempDir()
	signalPath := filepath.Join(dir, "lonely.csv")
	require.NoError(t, sigio.WriteSignalCSV(signalPath, "EDA_Phasic", []float64{0, 1, 0}))

	app := newTestApp(&Context{SignalFiles: []string{signalPath}})

	_, err := app.analyze(context.Background(), signalPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load events")
}

func TestLoadSignalUnsupportedFormat(t *testing.T) {
	app := newTestApp(&Context{})

	_, err := app.loadSignal("recording.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported signal file format")
}

func TestAnalyzeWritesSeries(t *testing.T) {
	dir := t.TempDir()
	signalPath := writeRecordingFixture(t, dir)
	seriesPath := filepath.Join(dir, "series.csv")

	app := newTestApp(&Context{
		SignalFiles: []string{signalPath},
		SeriesFile:  seriesPath,
	})

	_, err := app.analyze(context.Background(), signalPath)
	require.NoError(t, err)

	phasic, err := sigio.ReadSignalCSV(seriesPath, "phasic")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 10, 8, 6, 5, 2, 0}, phasic)

	onsets, err := sigio.ReadSignalCSV(seriesPath, "scr_onsets")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 0, 0, 0, 0, 0}, onsets)

	peaks, err := sigio.ReadSignalCSV(seriesPath, "scr_peaks")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 0, 0, 0, 0, 0}, peaks)

	amplitudes, err := sigio.ReadSignalCSV(seriesPath, "scr_amplitude")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 10, 0, 0, 0, 0, 0}, amplitudes)

	recoveries, err := sigio.ReadSignalCSV(seriesPath, "scr_recovery")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 1, 0, 0}, recoveries)

	recoveryTimes, err := sigio.ReadSignalCSV(seriesPath, "scr_recovery_time")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0.75, 0, 0, 0, 0, 0}, recoveryTimes)
}
