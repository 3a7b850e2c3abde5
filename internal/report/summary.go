package report

import (
	"github.com/montanaflynn/stats"

	"github.com/JanCBrammer/NeuroKit/pkg/eda"
)

// FeatureStats represents the distribution of one feature across the events
// that carry it
type FeatureStats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Count  int     `json:"count" yaml:"count"`
}

// Summary aggregates extraction results across all events of a run
type Summary struct {
	Events       int           `json:"events" yaml:"events"`
	WithOnset    int           `json:"with_onset" yaml:"with_onset"`
	WithRecovery int           `json:"with_recovery" yaml:"with_recovery"`
	RecoveryRate float64       `json:"recovery_rate" yaml:"recovery_rate"`
	Amplitude    *FeatureStats `json:"amplitude,omitempty" yaml:"amplitude,omitempty"`
	RiseTime     *FeatureStats `json:"rise_time,omitempty" yaml:"rise_time,omitempty"`
	RecoveryTime *FeatureStats `json:"recovery_time,omitempty" yaml:"recovery_time,omitempty"`
}

// Summarize computes descriptive statistics over the extracted features.
// Stats blocks are nil for features with no present values.
func Summarize(features *eda.Features) *Summary {
	summary := &Summary{
		Events: features.Len(),
	}
	for _, a := range features.Amplitude {
		if a.Valid {
			summary.WithOnset++
		}
	}
	for _, r := range features.Recovery {
		if r.Valid {
			summary.WithRecovery++
		}
	}
	if summary.WithOnset > 0 {
		summary.RecoveryRate = float64(summary.WithRecovery) / float64(summary.WithOnset)
	}

	summary.Amplitude = featureStats(features.Amplitude)
	summary.RiseTime = featureStats(features.RiseTime)
	summary.RecoveryTime = featureStats(features.RecoveryTime)
	return summary
}

// featureStats aggregates the present values of one feature, nil when there
// are none
func featureStats(values []eda.NullFloat64) *FeatureStats {
	data := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			data = append(data, v.Float64)
		}
	}
	if len(data) == 0 {
		return nil
	}

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stdDev, _ := stats.StandardDeviation(data)
	minVal, _ := stats.Min(data)
	maxVal, _ := stats.Max(data)

	return &FeatureStats{
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    minVal,
		Max:    maxVal,
		Count:  len(data),
	}
}
