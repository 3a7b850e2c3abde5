package sigio

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/OpenPSG/edf"
	"gonum.org/v1/gonum/floats"
)

// EDF 16-bit digital range
const (
	edfDigitalMin = -32768
	edfDigitalMax = 32767
)

// ReadEDF loads one signal channel from an EDF file. The final data record
// may carry padding samples appended by WriteEDF.
func ReadEDF(path string, signalIndex int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open EDF file: %w", err)
	}
	defer f.Close()

	reader, err := edf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EDF header: %w", err)
	}

	sig, err := reader.Signal(signalIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to select EDF signal %d: %w", signalIndex, err)
	}

	samples := make([]float64, 0, 4096)
	buf := make([]float64, 4096)
	for {
		n, err := sig.Read(buf)
		samples = append(samples, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read EDF samples: %w", err)
		}
	}
	return samples, nil
}

// WriteEDF writes samples as a one-channel EDF file with one-second data
// records. samplingRate is the integer number of samples per second. The
// final record is padded by repeating the last sample.
func WriteEDF(path, label string, samples []float64, samplingRate int) error {
	if samplingRate <= 0 {
		return fmt.Errorf("sampling rate must be positive, got %d", samplingRate)
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples to write")
	}

	pmin := floats.Min(samples)
	pmax := floats.Max(samples)
	if pmin == pmax {
		pmax = pmin + 1
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create EDF file: %w", err)
	}

	writer, err := edf.Create(f, edf.Header{
		Version:            edf.Version0,
		PatientID:          "X X X X",
		RecordingID:        "NeuroKit EDA recording",
		StartTime:          time.Now(),
		DataRecordDuration: time.Second,
		SignalCount:        1,
		Signals: []edf.Signal{{
			Label:             label,
			TransducerType:    "synthetic",
			PhysicalDimension: "uS",
			PhysicalMin:       pmin,
			PhysicalMax:       pmax,
			DigitalMin:        edfDigitalMin,
			DigitalMax:        edfDigitalMax,
			SamplesPerRecord:  samplingRate,
		}},
	})
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to write EDF header: %w", err)
	}

	for start := 0; start < len(samples); start += samplingRate {
		end := min(start+samplingRate, len(samples))
		record := samples[start:end]
		if len(record) < samplingRate {
			padded := make([]float64, samplingRate)
			copy(padded, record)
			for i := len(record); i < samplingRate; i++ {
				padded[i] = record[len(record)-1]
			}
			record = padded
		}
		if err := writer.WriteRecord([][]float64{record}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write EDF record: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize EDF header: %w", err)
	}
	return f.Close()
}
