package advisor_test

import (
	"context"
	"os"
	"testing"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/service/advisor"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
)

func TestVerdictStatus(t *testing.T) {
	cases := []struct {
		name     string
		decision string
		want     types.DecisionStatus
		ok       bool
	}{
		{name: "approved", decision: "Approved", want: types.DecisionApproved, ok: true},
		{name: "rejected", decision: "Rejected", want: types.DecisionRejected, ok: true},
		{name: "unknown label", decision: "Maybe", ok: false},
		{name: "empty", decision: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := &model.AdvisoryVerdict{Decision: tc.decision}
			status, ok := verdict.Status()
			gt.Value(t, ok).Equal(tc.ok)
			if tc.ok {
				gt.Value(t, status).Equal(tc.want)
			}
		})
	}
}

func TestFakeRecordsCalls(t *testing.T) {
	fake := &advisor.Fake{
		Verdict: &model.AdvisoryVerdict{
			Decision:      "Approved",
			Amount:        50000,
			Justification: "waiting period satisfied",
		},
	}

	verdict, err := fake.Judge(context.Background(), advisor.Input{
		Procedure:      "appendectomy",
		PolicyDuration: "3 month",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, verdict.Amount).Equal(50000)

	calls := fake.Calls()
	gt.Array(t, calls).Length(1)
	gt.Value(t, calls[0].Procedure).Equal("appendectomy")
}

func TestJudge_WithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT not set")
	}

	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		t.Skip("TEST_GEMINI_LOCATION not set")
	}

	ctx := context.Background()

	llmClient, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	svc, err := advisor.NewGemini(llmClient)
	gt.NoError(t, err).Required()

	verdict, err := svc.Judge(ctx, advisor.Input{
		Procedure:      "appendectomy",
		PolicyDuration: "3 month",
		PreApproval:    true,
		Clauses: []string{
			"The waiting period for appendectomy is one month from policy inception.",
			"Hospitalization expenses for the insured are covered up to the sum insured.",
		},
		Rules: model.DefaultRuleTable(),
	})
	gt.NoError(t, err).Required()

	status, ok := verdict.Status()
	gt.Bool(t, ok).True()
	gt.Bool(t, status == types.DecisionApproved || status == types.DecisionRejected).True()
	gt.Value(t, verdict.Justification).NotEqual("")
}
