package types

import "fmt"

// DecisionStatus represents the terminal outcome of a claim evaluation
type DecisionStatus string

const (
	DecisionApproved DecisionStatus = "Approved"
	DecisionRejected DecisionStatus = "Rejected"
)

// AllDecisionStatuses returns all valid decision statuses
func AllDecisionStatuses() []DecisionStatus {
	return []DecisionStatus{
		DecisionApproved,
		DecisionRejected,
	}
}

// IsValid checks if the decision status is valid
func (s DecisionStatus) IsValid() bool {
	switch s {
	case DecisionApproved, DecisionRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the decision status
func (s DecisionStatus) String() string {
	return string(s)
}

// ParseDecisionStatus parses a string into a DecisionStatus
func ParseDecisionStatus(s string) (DecisionStatus, error) {
	status := DecisionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid decision status: %s", s)
	}
	return status, nil
}
