package signal

import (
	"fmt"
	"math"
)

// MarkPeaks returns a series of length samples holding 1 at every peak
// index and 0 everywhere else.
func MarkPeaks(length int, peaks []int) ([]float64, error) {
	if length < 0 {
		return nil, fmt.Errorf("series length must be non-negative, got %d", length)
	}
	series := make([]float64, length)
	for i, p := range peaks {
		if p < 0 || p >= length {
			return nil, fmt.Errorf("peak %d at index %d is outside the series [0, %d)", p, i, length)
		}
		series[p] = 1
	}
	return series, nil
}

// FormatPeaks projects per-event values onto a series of length samples:
// values[i] lands at peaks[i], every other sample is 0. NaN values count
// as missing and leave their peak sample at 0.
func FormatPeaks(length int, peaks []int, values []float64) ([]float64, error) {
	if length < 0 {
		return nil, fmt.Errorf("series length must be non-negative, got %d", length)
	}
	if len(values) != len(peaks) {
		return nil, fmt.Errorf("peaks (%d) and values (%d) must have equal lengths", len(peaks), len(values))
	}
	series := make([]float64, length)
	for i, p := range peaks {
		if p < 0 || p >= length {
			return nil, fmt.Errorf("peak %d at index %d is outside the series [0, %d)", p, i, length)
		}
		if math.IsNaN(values[i]) {
			continue
		}
		series[p] = values[i]
	}
	return series, nil
}
