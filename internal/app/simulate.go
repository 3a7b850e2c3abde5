package app

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/JanCBrammer/NeuroKit/configs"
	"github.com/JanCBrammer/NeuroKit/pkg/eda"
	"github.com/JanCBrammer/NeuroKit/pkg/logging"
	"github.com/JanCBrammer/NeuroKit/pkg/sigio"
)

// SimulationApp handles the synthetic recording application lifecycle
type SimulationApp struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
}

// NewSimulationApp creates a new simulation application
func NewSimulationApp(ctx *Context) (*SimulationApp, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	logger := setupLogging(config)
	ctx.Logger = logger

	logger.Debug("Simulation application initialized", logging.Fields{
		"duration":      config.Simulation.Duration.Seconds(),
		"sampling_rate": config.Simulation.SamplingRate,
		"scr_count":     config.Simulation.SCRCount,
		"seed":          config.Simulation.Seed,
	})

	return &SimulationApp{
		ctx:    ctx,
		config: config,
		logger: logger,
	}, nil
}

// Run generates a synthetic recording and writes the signal together with
// its ground-truth events
func (app *SimulationApp) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	simulator := eda.NewSimulator(&eda.SimulatorConfig{
		Duration:     app.config.Simulation.Duration,
		SamplingRate: app.config.Simulation.SamplingRate,
		SCRCount:     app.config.Simulation.SCRCount,
		Drift:        app.config.Simulation.Drift,
		Noise:        app.config.Simulation.Noise,
		Seed:         app.config.Simulation.Seed,
		Logger:       app.logger,
	})

	recording, err := simulator.Simulate()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	signalPath := app.ctx.SignalOut
	if signalPath == "" {
		signalPath = "eda_simulated.csv"
	}
	eventsPath := app.ctx.EventsOut
	if eventsPath == "" {
		eventsPath = defaultEventsPath(signalPath)
	}

	if err := app.writeSignal(signalPath, recording); err != nil {
		return fmt.Errorf("failed to write signal: %w", err)
	}
	if err := writeEvents(eventsPath, recording.Events); err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}

	app.logger.Info("Simulated recording written", logging.Fields{
		"signal_file":   signalPath,
		"events_file":   eventsPath,
		"samples":       len(recording.Phasic),
		"events":        recording.Events.Len(),
		"sampling_rate": recording.SamplingRate,
	})

	return nil
}

// writeSignal writes the phasic trace, choosing the writer by extension
func (app *SimulationApp) writeSignal(path string, recording *eda.Recording) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".edf":
		rate := recording.SamplingRate
		if rate != math.Trunc(rate) {
			return fmt.Errorf("EDF output requires an integer sampling rate, got %g", rate)
		}
		return sigio.WriteEDF(path, "EDA phasic", recording.Phasic, int(rate))
	case ".csv", ".txt":
		return sigio.WriteSignalCSV(path, app.config.Analysis.SignalColumn, recording.Phasic)
	default:
		return fmt.Errorf("unsupported signal file format: %s", filepath.Ext(path))
	}
}

// writeEvents writes ground-truth events, choosing the writer by extension
func writeEvents(path string, events *eda.Events) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return sigio.WriteEvents(path, events)
	case ".csv":
		return sigio.WriteEventsCSV(path, events)
	default:
		return fmt.Errorf("unsupported events file format: %s", filepath.Ext(path))
	}
}
