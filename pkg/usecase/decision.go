package usecase

import (
	"context"
	"fmt"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/service/advisor"
	"github.com/claims-lab/themis/pkg/utils/async"
	"github.com/claims-lab/themis/pkg/utils/logging"
)

// evaluate is the deterministic decision path: topical filtering of the
// retrieved clauses followed by the waiting-period rule check.
func (uc *UseCases) evaluate(ctx context.Context, entities model.Entities, clauses []string) *model.Decision {
	if len(clauses) == 0 {
		return model.NewRejection("No relevant clauses found", nil)
	}

	// The retriever already applies the topical filter; re-applying it
	// here keeps the engine correct for callers that supply clauses
	// from elsewhere.
	var relevant []string
	for _, clause := range clauses {
		if model.IsTopical(clause) {
			relevant = append(relevant, clause)
		}
	}
	if len(relevant) == 0 {
		return model.NewRejection("No relevant clauses found", nil)
	}

	procedure := entities.Procedure()
	duration := entities.PolicyDuration()
	durationMonths := model.DurationMonths(duration)

	requiredMonths, known := uc.rules.RequiredMonths(procedure)
	if !known {
		return model.NewRejection(
			fmt.Sprintf("No waiting period defined for %s.", procedure), relevant)
	}

	if durationMonths < requiredMonths {
		return model.NewRejection(
			fmt.Sprintf("%s requires %d month waiting period.", procedure, requiredMonths),
			relevant)
	}

	justification := fmt.Sprintf("Policy duration (%s) meets %d month waiting period for %s.",
		duration, requiredMonths, procedure)
	if entities.PreApproval() {
		justification += " Pre-approval obtained."
	}

	return &model.Decision{
		Status:        types.DecisionApproved,
		Amount:        uc.rules.PayoutAmount(procedure),
		Justification: justification,
		Clauses:       relevant,
	}
}

// reconcile consults the advisory judgment and merges its verdict with
// the deterministic decision. Agreement adopts the advisory's wording
// and amount; disagreement keeps the local decision untouched and
// records a conflict event. Advisory failure leaves the decision as-is
// with the unavailable outcome.
func (uc *UseCases) reconcile(ctx context.Context, query string, entities model.Entities, local *model.Decision) *model.Decision {
	logger := logging.From(ctx)

	if uc.advisor == nil {
		local.Advisory = types.AdvisoryUnavailable
		return local
	}

	verdict, err := uc.advisor.Judge(ctx, advisor.Input{
		Procedure:      entities.Procedure(),
		PolicyDuration: entities.PolicyDuration(),
		PreApproval:    entities.PreApproval(),
		Clauses:        local.Clauses,
		Rules:          uc.rules,
	})
	if err != nil {
		logger.Warn("advisory judgment unavailable", "error", err)
		local.Advisory = types.AdvisoryUnavailable
		return local
	}

	advisoryStatus, ok := verdict.Status()
	if !ok {
		logger.Warn("advisory verdict unparseable", "decision", verdict.Decision)
		local.Advisory = types.AdvisoryUnavailable
		return local
	}

	if advisoryStatus == local.Status {
		local.Advisory = types.AdvisoryAgreed
		if verdict.Justification != "" {
			local.Justification = verdict.Justification
		}
		if local.Status == types.DecisionApproved {
			local.Amount = verdict.Amount
		} else {
			local.Amount = 0
		}
		return local
	}

	local.Advisory = types.AdvisoryDisagreed
	logger.Warn("advisory disagrees with deterministic decision",
		"local", local.Status, "advisory", advisoryStatus)

	event := &model.ConflictEvent{
		Query:                 query,
		Procedure:             entities.Procedure(),
		LocalStatus:           local.Status,
		AdvisoryStatus:        advisoryStatus,
		LocalJustification:    local.Justification,
		AdvisoryJustification: verdict.Justification,
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := uc.repo.Conflict().Record(ctx, event)
		return err
	})

	return local
}
