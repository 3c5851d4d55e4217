// Package confidence maps corroboration counters to a coarse confidence
// tier and handles weight-boost arithmetic. Everything here is pure.
package confidence

// WeightCap is the upper bound on pattern weight. Boosts saturate here;
// out-of-range writes are clamped to it.
const WeightCap = 2.0

// Tier is a coarse confidence classification.
type Tier string

const (
	Low    Tier = "low"
	Medium Tier = "medium"
	High   Tier = "high"
)

// Compute derives the confidence tier from corroboration breadth. Evidence
// across 2+ projects is the strongest signal and wins regardless of session
// count.
func Compute(sessionCount, projectCount int) Tier {
	switch {
	case projectCount >= 2:
		return High
	case sessionCount >= 4:
		return High
	case sessionCount >= 2:
		return Medium
	default:
		return Low
	}
}

// Boost increases a weight by delta. The result never leaves
// [0, WeightCap]: it saturates at the cap and cannot drop below the
// floor. Weight only moves up through explicit boosts; time-based decay
// applies to pattern status, never to weight.
func Boost(weight, delta float64) float64 {
	return Clamp(weight + delta)
}

// Clamp forces a weight into [0, WeightCap].
func Clamp(weight float64) float64 {
	if weight < 0 {
		return 0
	}
	if weight > WeightCap {
		return WeightCap
	}
	return weight
}
