package eda

import "math"

// Events is a position-aligned record set of detected skin conductance
// responses: one onset, peak and height per event. Onsets may be missing
// for individual events and may carry fractional sample positions from
// interpolating detectors. JSON field names follow the NeuroKit record keys.
type Events struct {
	Onsets  []NullFloat64 `json:"SCR_Onsets"`
	Peaks   []int         `json:"SCR_Peaks"`
	Heights []float64     `json:"SCR_Height"`
}

// Len returns the number of events
func (ev *Events) Len() int {
	return len(ev.Peaks)
}

// Validate checks the structural invariants of the record set against a
// phasic signal of signalLen samples: aligned sequence lengths, strictly
// increasing in-range peaks, in-range onsets that do not follow their peak,
// and finite heights. A nil error means Extract can run without guessing.
func (ev *Events) Validate(signalLen int) error {
	if len(ev.Onsets) != len(ev.Peaks) || len(ev.Heights) != len(ev.Peaks) {
		return validationErrorf(ErrCodeLengthMismatch, "events",
			"onsets (%d), peaks (%d) and heights (%d) must have equal lengths",
			len(ev.Onsets), len(ev.Peaks), len(ev.Heights))
	}

	for i, peak := range ev.Peaks {
		if peak < 0 || peak >= signalLen {
			return validationErrorf(ErrCodeIndexRange, "peaks",
				"peak %d at index %d is outside the signal [0, %d)", peak, i, signalLen)
		}
		if i > 0 && peak <= ev.Peaks[i-1] {
			return validationErrorf(ErrCodePeakOrder, "peaks",
				"peak %d at index %d does not follow peak %d", peak, i, ev.Peaks[i-1])
		}
	}

	for i, onset := range ev.Onsets {
		if !onset.Valid {
			continue
		}
		v := onset.Float64
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validationErrorf(ErrCodeValue, "onsets",
				"onset at index %d is not finite", i)
		}
		if v < 0 || int(v) >= signalLen {
			return validationErrorf(ErrCodeIndexRange, "onsets",
				"onset %g at index %d is outside the signal [0, %d)", v, i, signalLen)
		}
		if v > float64(ev.Peaks[i]) {
			return validationErrorf(ErrCodeIndexRange, "onsets",
				"onset %g at index %d follows its peak %d", v, i, ev.Peaks[i])
		}
	}

	for i, h := range ev.Heights {
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return validationErrorf(ErrCodeValue, "heights",
				"height at index %d is not finite", i)
		}
	}

	return nil
}
