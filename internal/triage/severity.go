// Package triage holds the decision logic between classification and
// persistence: label arbitration, authority routing, severity derivation,
// and priority scoring.
package triage

// Severity buckets a report by how urgent the model believes it is.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// SeverityFor maps classifier confidence to a severity tier. Boundaries fall
// into the lower bucket: exactly 0.8 is Medium, exactly 0.5 is Low.
func SeverityFor(confidence float64) Severity {
	switch {
	case confidence > 0.8:
		return SeverityHigh
	case confidence > 0.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

var severityWeights = map[Severity]float64{
	SeverityHigh:   1.0,
	SeverityMedium: 0.6,
	SeverityLow:    0.3,
}

// severityWeight treats unknown severities as Low
func severityWeight(s Severity) float64 {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return severityWeights[SeverityLow]
}
