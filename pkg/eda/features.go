package eda

import (
	"math"

	"github.com/JanCBrammer/NeuroKit/pkg/logging"
	"github.com/JanCBrammer/NeuroKit/pkg/signal"
)

// DefaultRecoveryTolerance is the relative error bound for accepting a
// half-recovery candidate: the candidate must lie within 1% of the target.
const DefaultRecoveryTolerance = 0.01

// Features holds the per-event SCR features, aligned with the events that
// produced them. An event with a missing onset is missing in all four
// sequences; an event whose half-recovery point was not found inside its
// search window is missing in Recovery and RecoveryTime only. JSON field
// names follow the NeuroKit record keys.
type Features struct {
	// Amplitude is the peak height above the phasic level at the onset.
	Amplitude []NullFloat64 `json:"SCR_Amplitude"`
	// RiseTime is the onset-to-peak duration in seconds.
	RiseTime []NullFloat64 `json:"SCR_RiseTime"`
	// Recovery is the sample index where the signal has returned to half
	// the amplitude after the peak.
	Recovery []NullFloat64 `json:"SCR_Recovery"`
	// RecoveryTime is the peak-to-recovery duration in seconds.
	RecoveryTime []NullFloat64 `json:"SCR_RecoveryTime"`
}

// Len returns the number of events the features describe
func (f *Features) Len() int {
	return len(f.Amplitude)
}

// ExtractorConfig contains configuration for the feature extractor
type ExtractorConfig struct {
	// RecoveryTolerance is the relative error bound for half-recovery
	// acceptance. Non-positive values fall back to
	// DefaultRecoveryTolerance.
	RecoveryTolerance float64
	Logger            logging.Logger
}

// FeatureExtractor computes amplitude, rise time and half-recovery features
// for detected SCR events over a phasic EDA signal.
type FeatureExtractor struct {
	tolerance float64
	logger    logging.Logger
}

// NewFeatureExtractor creates a new feature extractor
func NewFeatureExtractor(config *ExtractorConfig) *FeatureExtractor {
	if config == nil {
		config = &ExtractorConfig{}
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	tolerance := config.RecoveryTolerance
	if tolerance <= 0 || math.IsNaN(tolerance) {
		tolerance = DefaultRecoveryTolerance
	}
	return &FeatureExtractor{
		tolerance: tolerance,
		logger:    logger,
	}
}

// Extract computes the SCR features for events over phasic, sampled at
// samplingRate Hz. The result carries one entry per event. Structural
// problems (misaligned sequences, out-of-range indices, a non-positive
// sampling rate) abort with a *ValidationError; per-event gaps do not.
func (e *FeatureExtractor) Extract(phasic []float64, samplingRate float64, events *Events) (*Features, error) {
	if events == nil {
		events = &Events{}
	}
	if samplingRate <= 0 || math.IsNaN(samplingRate) || math.IsInf(samplingRate, 0) {
		return nil, validationErrorf(ErrCodeSamplingRate, "sampling_rate",
			"sampling rate must be positive, got %g", samplingRate)
	}
	if err := events.Validate(len(phasic)); err != nil {
		return nil, err
	}

	n := events.Len()
	feats := &Features{
		Amplitude:    make([]NullFloat64, n),
		RiseTime:     make([]NullFloat64, n),
		Recovery:     make([]NullFloat64, n),
		RecoveryTime: make([]NullFloat64, n),
	}

	e.logger.Debug("Starting SCR feature extraction", logging.Fields{
		"events":        n,
		"samples":       len(phasic),
		"sampling_rate": samplingRate,
	})

	missing := 0
	recovered := 0
	for i := 0; i < n; i++ {
		onset := events.Onsets[i]
		if !onset.Valid {
			missing++
			continue
		}
		peak := events.Peaks[i]

		// Amplitude reads the signal at the truncated onset index while
		// rise time keeps the raw, possibly fractional onset. The two
		// derivations stay separate.
		amplitude := events.Heights[i] - phasic[int(onset.Float64)]
		feats.Amplitude[i] = Float(amplitude)
		feats.RiseTime[i] = Float((float64(peak) - onset.Float64) / samplingRate)

		// The half-recovery search window runs from this peak up to the
		// next one, or to the end of the signal for the last event.
		end := len(phasic)
		if i+1 < n {
			end = events.Peaks[i+1]
		}
		segment := phasic[peak:end]

		target := amplitude / 2
		candidate, ok := signal.Closest(target, segment, signal.DirectionSmaller, false)
		if !ok || !withinTolerance(target, candidate, e.tolerance) {
			continue
		}

		offset := firstIndexOf(segment, candidate)
		if offset < 0 {
			continue
		}
		feats.Recovery[i] = Float(float64(peak + offset))
		feats.RecoveryTime[i] = Float(float64(offset) / samplingRate)
		recovered++
	}

	e.logger.Debug("SCR feature extraction completed", logging.Fields{
		"events":         n,
		"missing_onsets": missing,
		"recovered":      recovered,
	})

	return feats, nil
}

// withinTolerance reports whether candidate lies strictly inside the
// relative tolerance band around target. A zero target accepts only an
// exact zero candidate.
func withinTolerance(target, candidate, tolerance float64) bool {
	if target == 0 {
		return candidate == 0
	}
	return math.Abs(target-candidate) < math.Abs(target)*tolerance
}

// firstIndexOf returns the smallest index of v in values, or -1
func firstIndexOf(values []float64, v float64) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
