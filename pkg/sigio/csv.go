package sigio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadSignalCSV loads one numeric column from a CSV file with a header row.
func ReadSignalCSV(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found in CSV header %v", column, header)
	}

	var samples []float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		if col >= len(record) {
			return nil, fmt.Errorf("CSV line %d has no column %q", line, column)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: invalid sample %q: %w", line, record[col], err)
		}
		samples = append(samples, v)
	}
	return samples, nil
}

// WriteSignalCSV writes samples as a single-column CSV file with a header
// row.
func WriteSignalCSV(path, column string, samples []float64) error {
	return WriteColumnsCSV(path, []string{column}, [][]float64{samples})
}

// WriteColumnsCSV writes equal-length columns as a CSV file with a header
// row.
func WriteColumnsCSV(path string, header []string, columns [][]float64) error {
	if len(header) != len(columns) {
		return fmt.Errorf("header (%d) and columns (%d) must have equal lengths", len(header), len(columns))
	}
	rows := 0
	for i, col := range columns {
		if i == 0 {
			rows = len(col)
		} else if len(col) != rows {
			return fmt.Errorf("column %q has %d rows, expected %d", header[i], len(col), rows)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(columns))
	for r := 0; r < rows; r++ {
		for c, col := range columns {
			record[c] = strconv.FormatFloat(col[r], 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return f.Close()
}
