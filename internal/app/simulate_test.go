package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanCBrammer/NeuroKit/configs"
	"github.com/JanCBrammer/NeuroKit/pkg/eda"
	"github.com/JanCBrammer/NeuroKit/pkg/logging"
	"github.com/JanCBrammer/NeuroKit/pkg/sigio"
)

func newTestSimulationApp(ctx *Context) *SimulationApp {
	config := configs.GetDefaultConfig()
	config.Simulation = configs.QuickSimulationConfig()
	ctx.Config = config
	return &SimulationApp{
		ctx:    ctx,
		config: config,
		logger: logging.NopLogger(),
	}
}

func TestSimulationRunWritesRecording(t *testing.T) {
	dir := t.TempDir()
	signalPath := filepath.Join(dir, "simulated.csv")

	app := newTestSimulationApp(&Context{SignalOut: signalPath})
	require.NoError(t, app.Run(context.Background()))

	phasic, err := sigio.ReadSignalCSV(signalPath, "EDA_Phasic")
	require.NoError(t, err)
	assert.Len(t, phasic, 1000)

	events, err := sigio.ReadEvents(defaultEventsPath(signalPath))
	require.NoError(t, err)
	assert.Equal(t, 2, events.Len())
	require.NoError(t, events.Validate(len(phasic)))

	// The recording analyzes cleanly with its own ground truth.
	extractor := eda.NewFeatureExtractor(&eda.ExtractorConfig{Logger: logging.NopLogger()})
	feats, err := extractor.Extract(phasic, 100, events)
	require.NoError(t, err)
	for i := 0; i < feats.Len(); i++ {
		assert.True(t, feats.Amplitude[i].Valid)
	}
}

func TestSimulationRunEventsCSVOut(t *testing.T) {
	dir := t.TempDir()
	signalPath := filepath.Join(dir, "simulated.csv")
	eventsPath := filepath.Join(dir, "truth.csv")

	app := newTestSimulationApp(&Context{
		SignalOut: signalPath,
		EventsOut: eventsPath,
	})
	require.NoError(t, app.Run(context.Background()))

	events, err := sigio.ReadEventsCSV(eventsPath)
	require.NoError(t, err)
	assert.Equal(t, 2, events.Len())
}

func TestSimulationRunEDFOut(t *testing.T) {
	dir := t.TempDir()
	signalPath := filepath.Join(dir, "simulated.edf")

	app := newTestSimulationApp(&Context{SignalOut: signalPath})
	require.NoError(t, app.Run(context.Background()))

	phasic, err := sigio.ReadEDF(signalPath, 0)
	require.NoError(t, err)
	assert.Len(t, phasic, 1000)
}

func TestWriteSignalRejectsFractionalRateForEDF(t *testing.T) {
	app := newTestSimulationApp(&Context{})
	recording := &eda.Recording{
		Phasic:       []float64{0, 1, 0},
		SamplingRate: 250.5,
	}

	err := app.writeSignal("out.edf", recording)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integer sampling rate")
}

func TestWriteSignalUnsupportedFormat(t *testing.T) {
	app := newTestSimulationApp(&Context{})
	recording := &eda.Recording{Phasic: []float64{0}, SamplingRate: 100}

	err := app.writeSignal("out.wav", recording)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported signal file format")
}

func TestSimulationRunCancelledContext(t *testing.T) {
	app := newTestSimulationApp(&Context{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, app.Run(ctx))
}
