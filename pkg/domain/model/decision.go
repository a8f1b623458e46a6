package model

import (
	"time"

	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/google/uuid"
)

// Decision is the terminal result of evaluating one claim query.
// Amount is zero unless the decision is Approved.
type Decision struct {
	Status        types.DecisionStatus `json:"decision"`
	Amount        int                  `json:"amount"`
	Justification string               `json:"justification"`
	Clauses       []string             `json:"clauses"`

	// Advisory records how the external advisory judgment related to the
	// deterministic decision. It is informational only.
	Advisory types.AdvisoryOutcome `json:"-"`
}

// NewRejection builds a Rejected decision with the given justification.
// Every failure path of query answering resolves to one of these.
func NewRejection(justification string, clauses []string) *Decision {
	if clauses == nil {
		clauses = []string{}
	}
	return &Decision{
		Status:        types.DecisionRejected,
		Amount:        0,
		Justification: justification,
		Clauses:       clauses,
	}
}

// AdvisoryVerdict is the structured verdict returned by the external
// advisory judgment service.
type AdvisoryVerdict struct {
	Decision      string   `json:"decision"`
	Amount        int      `json:"amount"`
	Justification string   `json:"justification"`
	Clauses       []string `json:"clauses"`
}

// Status parses the verdict's decision label. The second return value
// reports whether the label was a recognized decision status.
func (v *AdvisoryVerdict) Status() (types.DecisionStatus, bool) {
	status, err := types.ParseDecisionStatus(v.Decision)
	if err != nil {
		return "", false
	}
	return status, true
}

// ConflictID is a UUID-based identifier for ConflictEvent
type ConflictID string

// NewConflictID generates a new UUID v4 ConflictID
func NewConflictID() ConflictID {
	return ConflictID(uuid.New().String())
}

// ConflictEvent records a disagreement between the deterministic decision
// and the advisory verdict. The deterministic path stays authoritative;
// the event exists so disagreements are observable after the fact.
type ConflictEvent struct {
	ID                    ConflictID
	Query                 string `masq:"secret"` // raw queries may contain personal data
	Procedure             string
	LocalStatus           types.DecisionStatus
	AdvisoryStatus        types.DecisionStatus
	LocalJustification    string
	AdvisoryJustification string
	CreatedAt             time.Time
}
