package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Gemini implements Service with a gollem LLM session constrained to a
// JSON response schema.
type Gemini struct {
	llm     gollem.LLMClient
	timeout time.Duration
}

var _ Service = &Gemini{}

type GeminiOption func(*Gemini)

// WithTimeout overrides the per-call timeout
func WithTimeout(timeout time.Duration) GeminiOption {
	return func(g *Gemini) {
		g.timeout = timeout
	}
}

// NewGemini creates an advisory judge backed by the given LLM client
func NewGemini(llm gollem.LLMClient, opts ...GeminiOption) (*Gemini, error) {
	if llm == nil {
		return nil, goerr.New("LLM client is required")
	}
	g := &Gemini{
		llm:     llm,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Gemini) Judge(ctx context.Context, input Input) (*model.AdvisoryVerdict, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	session, err := g.llm.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildVerdictSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create advisory session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(input)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate advisory verdict")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("empty advisory response")
	}

	var verdict model.AdvisoryVerdict
	if err := json.Unmarshal([]byte(resp.Texts[0]), &verdict); err != nil {
		return nil, goerr.Wrap(err, "failed to parse advisory verdict",
			goerr.V("response", resp.Texts[0]))
	}
	if _, ok := verdict.Status(); !ok {
		return nil, goerr.New("advisory verdict has unknown decision label",
			goerr.V("decision", verdict.Decision))
	}

	return &verdict, nil
}

const systemPrompt = "You are an insurance claim reviewer. Given a claimed procedure, " +
	"the policy duration, the relevant policy clauses, and the waiting-period rules, " +
	"confirm whether the claim is approved or rejected. If approved, suggest a payout " +
	"amount. Always provide a justification grounded in the clauses and rules."

func buildUserPrompt(input Input) string {
	var sb strings.Builder

	sb.WriteString("## Claim\n\n")
	fmt.Fprintf(&sb, "- Procedure: %s\n", input.Procedure)
	fmt.Fprintf(&sb, "- Policy duration: %s\n", input.PolicyDuration)
	fmt.Fprintf(&sb, "- Pre-approval: %t\n", input.PreApproval)

	sb.WriteString("\n## Relevant clauses\n\n")
	for _, clause := range input.Clauses {
		fmt.Fprintf(&sb, "- %s\n", clause)
	}

	if input.Rules != nil {
		sb.WriteString("\n## Waiting-period rules (months)\n\n")
		for proc, months := range input.Rules.WaitingPeriods {
			fmt.Fprintf(&sb, "- %s: %d\n", proc, months)
		}
	}

	sb.WriteString("\nConfirm if the claim is approved or rejected.\n")
	return sb.String()
}

func buildVerdictSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ClaimVerdict",
		Description: "Advisory verdict for one insurance claim",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"decision": {
				Type:        gollem.TypeString,
				Description: "Either Approved or Rejected",
				Required:    true,
			},
			"amount": {
				Type:        gollem.TypeInteger,
				Description: "Suggested payout amount, 0 when rejected",
				Required:    true,
			},
			"justification": {
				Type:        gollem.TypeString,
				Description: "Reasoning grounded in the clauses and rules",
				Required:    true,
			},
			"clauses": {
				Type:        gollem.TypeArray,
				Description: "Clauses the verdict relies on",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
			},
		},
	}
}
