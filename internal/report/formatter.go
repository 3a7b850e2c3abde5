package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/JanCBrammer/NeuroKit/pkg/eda"
)

// Formatter renders an analysis report or batch for output
type Formatter interface {
	Format(data any, pretty bool) ([]byte, error)
}

// NewFormatter returns the formatter for a format name (json, yaml, csv,
// table)
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		return &JSONFormatter{}, nil
	case "yaml":
		return &YAMLFormatter{}, nil
	case "csv":
		return &CSVFormatter{}, nil
	case "table":
		return &TableFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// JSONFormatter renders reports as JSON
type JSONFormatter struct{}

// Format implements Formatter
func (f *JSONFormatter) Format(data any, pretty bool) ([]byte, error) {
	if pretty {
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report as JSON: %w", err)
		}
		return append(encoded, '\n'), nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report as JSON: %w", err)
	}
	return append(encoded, '\n'), nil
}

// YAMLFormatter renders reports as YAML
type YAMLFormatter struct{}

// Format implements Formatter
func (f *YAMLFormatter) Format(data any, _ bool) ([]byte, error) {
	encoded, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report as YAML: %w", err)
	}
	return encoded, nil
}

// eventColumns is the per-event column order shared by the CSV and table
// renderings
var eventColumns = []string{
	"index", "onset", "peak", "height",
	"amplitude", "rise_time", "recovery", "recovery_time",
}

// CSVFormatter renders per-event records as CSV
type CSVFormatter struct{}

// Format implements Formatter. Missing feature values become empty cells.
// Batch output carries an extra leading source column.
func (f *CSVFormatter) Format(data any, _ bool) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch v := data.(type) {
	case *AnalysisReport:
		if err := writer.Write(eventColumns); err != nil {
			return nil, fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, ev := range v.Events {
			if err := writer.Write(eventRecord(ev, "")); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	case *Batch:
		header := append([]string{"source"}, eventColumns...)
		if err := writer.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, rep := range v.Runs {
			for _, ev := range rep.Events {
				if err := writer.Write(eventRecord(ev, rep.Source)); err != nil {
					return nil, fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
	default:
		return nil, fmt.Errorf("CSV formatter does not support %T", data)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func eventRecord(ev EventRecord, source string) []string {
	record := []string{
		strconv.Itoa(ev.Index),
		csvOptional(ev.Onset),
		strconv.Itoa(ev.Peak),
		strconv.FormatFloat(ev.Height, 'g', -1, 64),
		csvOptional(ev.Amplitude),
		csvOptional(ev.RiseTime),
		csvOptional(ev.Recovery),
		csvOptional(ev.RecoveryTime),
	}
	if source != "" {
		record = append([]string{source}, record...)
	}
	return record
}

// TableFormatter renders a human-readable plain-text report
type TableFormatter struct{}

// Format implements Formatter. Missing feature values render as "-".
func (f *TableFormatter) Format(data any, _ bool) ([]byte, error) {
	var buf bytes.Buffer
	titler := cases.Title(language.English)

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	switch v := data.(type) {
	case *AnalysisReport:
		writeReportTable(w, titler, v)
	case *Batch:
		fmt.Fprintln(w, "SCR Analysis Batch")
		fmt.Fprintf(w, "Created:\t%s\n", v.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "Succeeded:\t%d\n", v.Succeeded)
		fmt.Fprintf(w, "Failed:\t%d\n", v.Failed)
		for _, rep := range v.Runs {
			fmt.Fprintln(w, "")
			writeReportTable(w, titler, rep)
		}
		if len(v.Failures) > 0 {
			fmt.Fprintln(w, "")
			fmt.Fprintln(w, "Failures")
			for _, failure := range v.Failures {
				fmt.Fprintf(w, "%s\t%s\n", failure.Source, failure.Error)
			}
		}
	default:
		return nil, fmt.Errorf("table formatter does not support %T", data)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}
	return buf.Bytes(), nil
}

func writeReportTable(w *tabwriter.Writer, titler cases.Caser, rep *AnalysisReport) {
	fmt.Fprintln(w, "SCR Feature Extraction Report")
	fmt.Fprintf(w, "Run ID:\t%s\n", rep.ID)
	fmt.Fprintf(w, "Source:\t%s\n", rep.Source)
	fmt.Fprintf(w, "Sampling Rate:\t%g Hz\n", rep.SamplingRate)
	fmt.Fprintf(w, "Samples:\t%d\n", rep.Samples)
	fmt.Fprintf(w, "Created:\t%s\n", rep.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	if s := rep.Summary; s != nil {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Events:\t%d\n", s.Events)
		fmt.Fprintf(w, "With Onset:\t%d\n", s.WithOnset)
		fmt.Fprintf(w, "With Recovery:\t%d\n", s.WithRecovery)
		fmt.Fprintf(w, "Recovery Rate:\t%s\n", tableFloat(s.RecoveryRate))

		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Feature\tMean\tMedian\tStd Dev\tMin\tMax\tCount")
		writeStatsRow(w, titler, "amplitude", s.Amplitude)
		writeStatsRow(w, titler, "rise_time", s.RiseTime)
		writeStatsRow(w, titler, "recovery_time", s.RecoveryTime)
	}

	fmt.Fprintln(w, "")
	headers := make([]string, len(eventColumns))
	for i, col := range eventColumns {
		headers[i] = titler.String(strings.ReplaceAll(col, "_", " "))
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, ev := range rep.Events {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			ev.Index,
			tableOptional(ev.Onset),
			ev.Peak,
			tableFloat(ev.Height),
			tableOptional(ev.Amplitude),
			tableOptional(ev.RiseTime),
			tableOptional(ev.Recovery),
			tableOptional(ev.RecoveryTime),
		)
	}
}

func writeStatsRow(w *tabwriter.Writer, titler cases.Caser, name string, s *FeatureStats) {
	label := titler.String(strings.ReplaceAll(name, "_", " "))
	if s == nil {
		fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t0\n", label)
		return
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
		label,
		tableFloat(s.Mean),
		tableFloat(s.Median),
		tableFloat(s.StdDev),
		tableFloat(s.Min),
		tableFloat(s.Max),
		s.Count,
	)
}

func csvOptional(n eda.NullFloat64) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

func tableOptional(n eda.NullFloat64) string {
	if !n.Valid {
		return "-"
	}
	return tableFloat(n.Float64)
}

func tableFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
