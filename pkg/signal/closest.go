package signal

import "math"

// Direction constrains which side of the target Closest may pick
// candidates from.
type Direction string

const (
	DirectionSmaller Direction = "smaller"
	DirectionGreater Direction = "greater"
	DirectionBoth    Direction = "both"
)

// Closest returns the value in values nearest to target, restricted by
// direction. With DirectionSmaller only values at or below target qualify
// (strictly below when strictly is set) and the largest of them wins;
// DirectionGreater is the mirror image. DirectionBoth picks the minimum
// absolute distance, first occurrence on ties. NaN entries never qualify.
// ok is false when no value satisfies the constraint.
func Closest(target float64, values []float64, direction Direction, strictly bool) (closest float64, ok bool) {
	switch direction {
	case DirectionSmaller:
		for _, v := range values {
			if math.IsNaN(v) {
				continue
			}
			if v > target || (strictly && v == target) {
				continue
			}
			if !ok || v > closest {
				closest, ok = v, true
			}
		}
	case DirectionGreater:
		for _, v := range values {
			if math.IsNaN(v) {
				continue
			}
			if v < target || (strictly && v == target) {
				continue
			}
			if !ok || v < closest {
				closest, ok = v, true
			}
		}
	default:
		best := math.Inf(1)
		for _, v := range values {
			if math.IsNaN(v) {
				continue
			}
			if strictly && v == target {
				continue
			}
			if d := math.Abs(v - target); d < best {
				best, closest, ok = d, v, true
			}
		}
	}
	return closest, ok
}
