package sigio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JanCBrammer/NeuroKit/pkg/eda"
)

// ReadEvents loads an SCR event set from a JSON file using the NeuroKit
// record keys. Missing onsets are encoded as null.
func ReadEvents(path string) (*eda.Events, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}
	events := &eda.Events{}
	if err := json.Unmarshal(data, events); err != nil {
		return nil, fmt.Errorf("failed to parse events JSON: %w", err)
	}
	return events, nil
}

// WriteEvents writes an SCR event set as indented JSON
func WriteEvents(path string, events *eda.Events) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write events file: %w", err)
	}
	return nil
}

// ReadEventsCSV loads an SCR event set from a CSV file with an
// onset,peak,height header. An empty onset cell marks a missing onset.
func ReadEventsCSV(path string) (*eda.Events, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read events header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{"onset", "peak", "height"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("events CSV is missing the %q column, header was %v", name, header)
		}
	}

	events := &eda.Events{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read events line %d: %w", line, err)
		}

		onsetCell := strings.TrimSpace(record[cols["onset"]])
		if onsetCell == "" {
			events.Onsets = append(events.Onsets, eda.Null())
		} else {
			v, err := strconv.ParseFloat(onsetCell, 64)
			if err != nil {
				return nil, fmt.Errorf("events line %d: invalid onset %q: %w", line, onsetCell, err)
			}
			events.Onsets = append(events.Onsets, eda.Float(v))
		}

		peakCell := strings.TrimSpace(record[cols["peak"]])
		peak, err := strconv.Atoi(peakCell)
		if err != nil {
			return nil, fmt.Errorf("events line %d: invalid peak %q: %w", line, peakCell, err)
		}
		events.Peaks = append(events.Peaks, peak)

		heightCell := strings.TrimSpace(record[cols["height"]])
		height, err := strconv.ParseFloat(heightCell, 64)
		if err != nil {
			return nil, fmt.Errorf("events line %d: invalid height %q: %w", line, heightCell, err)
		}
		events.Heights = append(events.Heights, height)
	}
	return events, nil
}

// WriteEventsCSV writes an SCR event set as CSV with an onset,peak,height
// header. Missing onsets become empty cells.
func WriteEventsCSV(path string, events *eda.Events) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create events file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"onset", "peak", "height"}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write events header: %w", err)
	}
	for i, peak := range events.Peaks {
		onset := ""
		if i < len(events.Onsets) && events.Onsets[i].Valid {
			onset = strconv.FormatFloat(events.Onsets[i].Float64, 'g', -1, 64)
		}
		height := ""
		if i < len(events.Heights) {
			height = strconv.FormatFloat(events.Heights[i], 'g', -1, 64)
		}
		if err := writer.Write([]string{onset, strconv.Itoa(peak), height}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write events row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush events CSV: %w", err)
	}
	return f.Close()
}
