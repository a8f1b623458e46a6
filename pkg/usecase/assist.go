package usecase

import (
	"context"
	"strings"

	"github.com/claims-lab/themis/pkg/agent/tool"
	"github.com/claims-lab/themis/pkg/agent/tool/core"
	"github.com/claims-lab/themis/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const assistSystemPrompt = `You are a claims assistant for an insurance policy knowledge base.
You answer questions about ingested policy documents, their clauses, and the
waiting-period rules. Use the tools to search and read clauses before
answering; never invent clause text. When a question concerns claim
eligibility, cite the clauses and the waiting-period rule you relied on.`

// Assist answers one free-form question with an agent that can search
// the clause base and the rule table. It requires an LLM client, so it
// is only available when one was configured.
func (uc *UseCases) Assist(ctx context.Context, llm gollem.LLMClient, question string) (string, error) {
	if llm == nil {
		return "", goerr.New("LLM client is required for assist")
	}
	if strings.TrimSpace(question) == "" {
		return "", goerr.Wrap(ErrEmptyQuery, "cannot assist")
	}

	agent := gollem.New(llm,
		gollem.WithSystemPrompt(assistSystemPrompt),
		gollem.WithTools(core.New(uc.repo, uc.embedder, uc.rules)...),
	)

	ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
		logging.From(ctx).Info("assist progress", "message", message)
	})

	resp, err := agent.Execute(ctx, gollem.Text(question))
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute assist agent")
	}

	return strings.Join(resp.Texts, "\n"), nil
}
