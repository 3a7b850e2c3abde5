package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JanCBrammer/NeuroKit/configs"
)

var (
	rootConfigFile string
	rootConfigDir  string
	rootDataDir    string
	rootStorePath  string
	rootVerbose    bool
	rootLogLevel   string
	rootOutput     string
)

var rootCmd = &cobra.Command{
	Use:   "neurokit",
	Short: "Skin conductance response analysis toolkit",
	Long: `A toolkit for extracting skin conductance response (SCR) features from
electrodermal activity (EDA) recordings.

Given a phasic EDA signal and detected SCR events (onsets, peaks, peak
heights), it computes per-event amplitude, rise time and half-recovery
features, summarizes them, and renders reports in several formats.

Key features:
- SCR amplitude, rise time and half-recovery extraction
- EDF and CSV signal input, JSON and CSV event input
- Synthetic EDA recording generation with ground-truth events
- Batch analysis across multiple recordings
- SQLite-backed history of analysis runs`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return syncFlags(cmd, viper.GetViper())
	},
}

// Execute runs the root command and exits on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(setupViper)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootConfigFile, "config", "", "config file (default is $HOME/.config/neurokit/neurokit.yaml)")
	pf.StringVar(&rootConfigDir, "config-dir", "", "config directory (default is $HOME/.config/neurokit)")
	pf.StringVar(&rootDataDir, "data-dir", "", "data directory (default is $HOME/.local/share/neurokit)")
	pf.StringVar(&rootStorePath, "store-path", "", "results store database (default is $HOME/.local/share/neurokit/runs.db)")
	pf.BoolVarP(&rootVerbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&rootLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVarP(&rootOutput, "output", "o", "table", "output format (json, yaml, csv, table)")

	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.BindPFlag("output_format", pf.Lookup("output"))
	viper.BindPFlag("config_dir", pf.Lookup("config-dir"))
	viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	viper.BindPFlag("store.path", pf.Lookup("store-path"))
}

// setupViper wires the config file search path, environment variables and
// defaults before any command runs.
func setupViper() {
	if rootConfigFile != "" {
		viper.SetConfigFile(rootConfigFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".config", "neurokit"))
		viper.AddConfigPath("/etc/neurokit")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("neurokit")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("NEUROKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configs.ApplyDefaults(viper.GetViper())

	// Missing config files are fine, the defaults carry the run.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// syncFlags completes the flag/viper wiring once flags are parsed: config
// values fill flags the user did not set, and every flag is exposed through
// its dotted key and NEUROKIT_ environment variable.
func syncFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				lastErr = err
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}

		suffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if err := v.BindEnv(f.Name, "NEUROKIT_"+suffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}
