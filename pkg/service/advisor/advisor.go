// Package advisor consults an external LLM for a confirmatory verdict
// on a claim decision. The advisory is never authoritative: callers
// compare its verdict with the deterministic decision and only adopt
// the advisory's wording when the two agree.
package advisor

import (
	"context"
	"time"

	"github.com/claims-lab/themis/pkg/domain/model"
)

// DefaultTimeout bounds one advisory call. The advisory is the only
// network call with unbounded latency risk inside decision evaluation.
const DefaultTimeout = 30 * time.Second

// Input carries everything the advisory needs to judge one claim
type Input struct {
	Procedure      string
	PolicyDuration string
	PreApproval    bool
	Clauses        []string
	Rules          *model.RuleTable
}

// Service produces one advisory verdict per claim
type Service interface {
	// Judge returns the advisory's structured verdict. An error means
	// the advisory was unreachable or its response was unusable; callers
	// absorb it and keep the deterministic decision.
	Judge(ctx context.Context, input Input) (*model.AdvisoryVerdict, error)
}
