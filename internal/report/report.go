package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/JanCBrammer/NeuroKit/pkg/eda"
)

// EventRecord is one SCR event joined with its extracted features
type EventRecord struct {
	Index        int             `json:"index" yaml:"index"`
	Onset        eda.NullFloat64 `json:"onset" yaml:"onset"`
	Peak         int             `json:"peak" yaml:"peak"`
	Height       float64         `json:"height" yaml:"height"`
	Amplitude    eda.NullFloat64 `json:"amplitude" yaml:"amplitude"`
	RiseTime     eda.NullFloat64 `json:"rise_time" yaml:"rise_time"`
	Recovery     eda.NullFloat64 `json:"recovery" yaml:"recovery"`
	RecoveryTime eda.NullFloat64 `json:"recovery_time" yaml:"recovery_time"`
}

// AnalysisReport is the complete result of one extraction run
type AnalysisReport struct {
	ID           string        `json:"id" yaml:"id"`
	Source       string        `json:"source" yaml:"source"`
	SamplingRate float64       `json:"sampling_rate" yaml:"sampling_rate"`
	Samples      int           `json:"samples" yaml:"samples"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
	Events       []EventRecord `json:"events" yaml:"events"`
	Summary      *Summary      `json:"summary" yaml:"summary"`
}

// New assembles a report from an event set and its extracted features.
// events and features must be aligned; Extract guarantees that.
func New(source string, samplingRate float64, samples int, events *eda.Events, features *eda.Features) *AnalysisReport {
	records := make([]EventRecord, events.Len())
	for i := range records {
		records[i] = EventRecord{
			Index:        i,
			Onset:        events.Onsets[i],
			Peak:         events.Peaks[i],
			Height:       events.Heights[i],
			Amplitude:    features.Amplitude[i],
			RiseTime:     features.RiseTime[i],
			Recovery:     features.Recovery[i],
			RecoveryTime: features.RecoveryTime[i],
		}
	}

	return &AnalysisReport{
		ID:           uuid.NewString(),
		Source:       source,
		SamplingRate: samplingRate,
		Samples:      samples,
		CreatedAt:    time.Now().UTC(),
		Events:       records,
		Summary:      Summarize(features),
	}
}
