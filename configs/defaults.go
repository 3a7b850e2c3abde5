package configs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ApplyDefaults registers default configuration values for all components
func ApplyDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_format", "table")

	// Directory defaults
	home, _ := os.UserHomeDir()
	v.SetDefault("config_dir", filepath.Join(home, ".config", "neurokit"))
	v.SetDefault("data_dir", filepath.Join(home, ".local", "share", "neurokit"))

	// Analysis defaults
	v.SetDefault("analysis.sampling_rate", 1000.0)
	v.SetDefault("analysis.recovery_tolerance", 0.01)
	v.SetDefault("analysis.signal_column", "EDA_Phasic")
	v.SetDefault("analysis.signal_index", 0)
	v.SetDefault("analysis.concurrent", false)
	v.SetDefault("analysis.max_concurrency", 4)

	// Simulation defaults
	v.SetDefault("simulation.duration", "60s")
	v.SetDefault("simulation.sampling_rate", 1000.0)
	v.SetDefault("simulation.scr_count", 5)
	v.SetDefault("simulation.noise", 0.01)
	v.SetDefault("simulation.drift", -0.01)
	v.SetDefault("simulation.seed", 0)

	// Store defaults
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", filepath.Join(home, ".local", "share", "neurokit", "runs.db"))
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		// Application settings defaults
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		ConfigDir:    filepath.Join(home, ".config", "neurokit"),
		DataDir:      filepath.Join(home, ".local", "share", "neurokit"),

		// Feature extraction defaults
		Analysis: GetDefaultAnalysisConfig(),

		// Synthetic recording defaults
		Simulation: GetDefaultSimulationConfig(),

		// Results store defaults
		Store: GetDefaultStoreConfig(),
	}
}

// GetDefaultAnalysisConfig returns default feature extraction settings
func GetDefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		SamplingRate:      1000,
		RecoveryTolerance: 0.01,
		SignalColumn:      "EDA_Phasic",
		SignalIndex:       0,
		Concurrent:        false,
		MaxConcurrency:    4,
	}
}

// GetDefaultSimulationConfig returns default synthetic recording settings
func GetDefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Duration:     60 * time.Second,
		SamplingRate: 1000,
		SCRCount:     5,
		Noise:        0.01,
		Drift:        -0.01,
		Seed:         0,
	}
}

// GetDefaultStoreConfig returns default results store settings
func GetDefaultStoreConfig() StoreConfig {
	home, _ := os.UserHomeDir()
	return StoreConfig{
		Enabled: false,
		Path:    filepath.Join(home, ".local", "share", "neurokit", "runs.db"),
	}
}

// QuickSimulationConfig returns a short noise-free recording setup for
// development runs
func QuickSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Duration:     10 * time.Second,
		SamplingRate: 100,
		SCRCount:     2,
		Noise:        0,
		Drift:        0,
		Seed:         1,
	}
}

// StrictAnalysisConfig returns extraction settings with a tighter recovery
// tolerance
func StrictAnalysisConfig() AnalysisConfig {
	config := GetDefaultAnalysisConfig()
	config.RecoveryTolerance = 0.005
	return config
}
