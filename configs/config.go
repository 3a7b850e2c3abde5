package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`
	ConfigDir    string `mapstructure:"config_dir"`
	DataDir      string `mapstructure:"data_dir"`

	// Feature extraction configuration
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Synthetic recording configuration
	Simulation SimulationConfig `mapstructure:"simulation"`

	// Results store configuration
	Store StoreConfig `mapstructure:"store"`
}

// AnalysisConfig contains feature extraction settings
type AnalysisConfig struct {
	SamplingRate      float64 `mapstructure:"sampling_rate"`
	RecoveryTolerance float64 `mapstructure:"recovery_tolerance"`
	SignalColumn      string  `mapstructure:"signal_column"`
	SignalIndex       int     `mapstructure:"signal_index"`
	Concurrent        bool    `mapstructure:"concurrent"`
	MaxConcurrency    int     `mapstructure:"max_concurrency"`
}

// SimulationConfig contains synthetic recording settings
type SimulationConfig struct {
	Duration     time.Duration `mapstructure:"duration"`
	SamplingRate float64       `mapstructure:"sampling_rate"`
	SCRCount     int           `mapstructure:"scr_count"`
	Noise        float64       `mapstructure:"noise"`
	Drift        float64       `mapstructure:"drift"`
	Seed         uint64        `mapstructure:"seed"`
}

// StoreConfig contains results store settings
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	switch config.OutputFormat {
	case "json", "yaml", "csv", "table":
	default:
		return fmt.Errorf("output format must be one of json, yaml, csv, table")
	}

	if config.Analysis.SamplingRate <= 0 {
		return fmt.Errorf("analysis sampling rate must be positive")
	}

	if config.Analysis.RecoveryTolerance <= 0 || config.Analysis.RecoveryTolerance >= 1 {
		return fmt.Errorf("recovery tolerance must be between 0 and 1")
	}

	if config.Analysis.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive")
	}

	if config.Simulation.Duration <= 0 {
		return fmt.Errorf("simulation duration must be positive")
	}

	if config.Simulation.SamplingRate <= 0 {
		return fmt.Errorf("simulation sampling rate must be positive")
	}

	if config.Simulation.SCRCount < 0 {
		return fmt.Errorf("simulation scr count cannot be negative")
	}

	if config.Simulation.Noise < 0 {
		return fmt.Errorf("simulation noise cannot be negative")
	}

	if config.Store.Enabled && config.Store.Path == "" {
		return fmt.Errorf("store path is required when the store is enabled")
	}

	return nil
}
