package insights

// Evidence is the normalized bundle behind one insight. A component that a
// rule could not measure stays at its zero value, so confidence degrades
// instead of erroring.
type Evidence struct {
	Completeness  float64
	Significance  float64
	MatchStrength float64
}

const (
	weightCompleteness  = 0.4
	weightSignificance  = 0.3
	weightMatchStrength = 0.3

	highThreshold   = 0.7
	mediumThreshold = 0.4
)

// ScoreConfidence maps an evidence bundle to a confidence tier.
func ScoreConfidence(ev Evidence) string {
	score := clamp01(ev.Completeness)*weightCompleteness +
		clamp01(ev.Significance)*weightSignificance +
		clamp01(ev.MatchStrength)*weightMatchStrength

	switch {
	case score >= highThreshold:
		return ConfidenceHigh
	case score >= mediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func clamp01(v float64) float64 {
	// NaN compares false everywhere and falls through to 0.
	if v >= 1 {
		return 1
	}
	if v > 0 {
		return v
	}
	return 0
}
