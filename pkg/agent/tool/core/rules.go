package core

import (
	"context"
	"fmt"

	"github.com/claims-lab/themis/pkg/agent/tool"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/m-mizutani/gollem"
)

// lookupWaitingPeriodTool answers rule-table questions for a procedure
type lookupWaitingPeriodTool struct {
	rules *model.RuleTable
}

func (t *lookupWaitingPeriodTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "core__lookup_waiting_period",
		Description: "Look up the waiting period in months and the fixed payout amount for a medical procedure",
		Parameters: map[string]*gollem.Parameter{
			"procedure": {
				Type:        gollem.TypeString,
				Description: "Procedure name, e.g. 'knee surgery' or 'appendectomy'",
				Required:    true,
			},
		},
	}
}

func (t *lookupWaitingPeriodTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	procedure, _ := args["procedure"].(string)
	if procedure == "" {
		return nil, fmt.Errorf("procedure is required")
	}

	tool.Update(ctx, fmt.Sprintf("Looking up waiting period: %s", procedure))

	months, known := t.rules.RequiredMonths(procedure)
	if !known {
		return map[string]any{
			"procedure": procedure,
			"defined":   false,
		}, nil
	}

	return map[string]any{
		"procedure":      procedure,
		"defined":        true,
		"waiting_months": months,
		"payout_amount":  t.rules.PayoutAmount(procedure),
	}, nil
}
