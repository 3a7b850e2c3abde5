package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/JanCBrammer/NeuroKit/configs"
	"github.com/JanCBrammer/NeuroKit/internal/report"
	"github.com/JanCBrammer/NeuroKit/internal/store"
	"github.com/JanCBrammer/NeuroKit/pkg/logging"
)

// RunsApp handles browsing the results store
type RunsApp struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
}

// NewRunsApp creates a new results store browser
func NewRunsApp(ctx *Context) (*RunsApp, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	logger := setupLogging(config)
	ctx.Logger = logger

	return &RunsApp{
		ctx:    ctx,
		config: config,
		logger: logger,
	}, nil
}

// Run lists stored runs, or shows the full report of a single run when a
// run ID is given
func (app *RunsApp) Run(ctx context.Context, runID string) error {
	db, err := store.Open(app.config.Store.Path, app.logger)
	if err != nil {
		return fmt.Errorf("failed to open results store: %w", err)
	}
	defer db.Close()

	if runID == "" {
		return app.listRuns(ctx, db)
	}
	return app.showRun(ctx, db, runID)
}

// listRuns renders the stored run index
func (app *RunsApp) listRuns(ctx context.Context, db *store.Store) error {
	summaries, err := db.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	data, err := renderRunList(summaries, app.config.OutputFormat)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(data)
	return err
}

// showRun rebuilds one stored report and renders it
func (app *RunsApp) showRun(ctx context.Context, db *store.Store, runID string) error {
	rep, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	formatter, err := report.NewFormatter(app.config.OutputFormat)
	if err != nil {
		return err
	}

	data, err := formatter.Format(rep, true)
	if err != nil {
		return fmt.Errorf("failed to format run: %w", err)
	}

	_, err = os.Stdout.Write(data)
	return err
}

// renderRunList formats the run index in the selected output format
func renderRunList(summaries []store.RunSummary, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode run list as JSON: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to encode run list as YAML: %w", err)
		}
		return data, nil
	case "csv":
		var buf bytes.Buffer
		writer := csv.NewWriter(&buf)
		header := []string{"id", "source", "sampling_rate", "samples", "events", "with_onset", "with_recovery", "created_at"}
		if err := writer.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, s := range summaries {
			record := []string{
				s.ID,
				s.Source,
				strconv.FormatFloat(s.SamplingRate, 'g', -1, 64),
				strconv.Itoa(s.Samples),
				strconv.Itoa(s.EventCount),
				strconv.Itoa(s.WithOnset),
				strconv.Itoa(s.WithRecovery),
				s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, fmt.Errorf("failed to flush CSV: %w", err)
		}
		return buf.Bytes(), nil
	case "table":
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSource\tRate\tSamples\tEvents\tWith Recovery\tCreated")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%d\t%d\t%s\n",
				s.ID,
				s.Source,
				s.SamplingRate,
				s.Samples,
				s.EventCount,
				s.WithRecovery,
				s.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		if err := w.Flush(); err != nil {
			return nil, fmt.Errorf("failed to render table: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
