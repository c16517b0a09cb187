package triage

import "math"

// Scoring policy: severity dominates at half the scale, report density takes
// 30%, model confidence 20%. Tunable ratio, currently hardcoded.
const (
	severityScale   = 5.0
	densityScale    = 3.0
	confidenceScale = 2.0

	// Density stops boosting once this many reports already exist nearby
	densitySaturation = 5.0
)

// DensityWeight converts a nearby-report count into a [0,1] weight that
// saturates at densitySaturation reports.
func DensityWeight(nearbyCount int) float64 {
	if nearbyCount <= 0 {
		return 0
	}
	return math.Min(float64(nearbyCount)/densitySaturation, 1.0)
}

// PriorityScore blends severity, local report density, and classifier
// confidence into a single [0,10] ranking score, rounded to 2 decimals.
// Deterministic in all three inputs.
func PriorityScore(severity Severity, nearbyCount int, confidence float64) float64 {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	score := severityWeight(severity)*severityScale +
		DensityWeight(nearbyCount)*densityScale +
		confidence*confidenceScale

	return math.Round(score*100) / 100
}
