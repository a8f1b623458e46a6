package types

// AdvisoryOutcome classifies how the external advisory judgment related
// to the deterministic decision. The advisory never changes the decision
// label; the outcome only records whether it corroborated it.
type AdvisoryOutcome string

const (
	// AdvisoryAgreed means the advisory verdict matched the deterministic decision
	AdvisoryAgreed AdvisoryOutcome = "agreed"
	// AdvisoryDisagreed means the advisory verdict conflicted with the deterministic decision
	AdvisoryDisagreed AdvisoryOutcome = "disagreed"
	// AdvisoryUnavailable means the advisory call failed or returned an unparseable verdict
	AdvisoryUnavailable AdvisoryOutcome = "unavailable"
)

// IsValid checks if the advisory outcome is valid
func (o AdvisoryOutcome) IsValid() bool {
	switch o {
	case AdvisoryAgreed, AdvisoryDisagreed, AdvisoryUnavailable:
		return true
	default:
		return false
	}
}

// String returns the string representation of the advisory outcome
func (o AdvisoryOutcome) String() string {
	return string(o)
}
