package usecase

import (
	"context"
	"fmt"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/utils/logging"
)

// AnswerQuery evaluates one natural-language claim query and always
// returns a Decision. Every failure path, including panics during
// evaluation, resolves to a Rejected decision with a justification;
// errors never cross this boundary.
func (uc *UseCases) AnswerQuery(ctx context.Context, query string, topK int) (decision *model.Decision) {
	logger := logging.From(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("query evaluation panicked", "recover", r)
			decision = model.NewRejection(fmt.Sprintf("Error evaluating claim: %v", r), nil)
		}
	}()

	if topK <= 0 {
		topK = uc.topK
	}

	entities, queryEmbedding, err := uc.extractor.Extract(ctx, query)
	if err != nil {
		logger.Warn("query extraction failed", "error", err)
		return model.NewRejection(fmt.Sprintf("Could not interpret query: %v", err), nil)
	}

	clauses, err := uc.retriever.Retrieve(ctx, queryEmbedding, topK)
	if err != nil {
		logger.Warn("clause retrieval failed", "error", err)
		return model.NewRejection(fmt.Sprintf("Could not retrieve clauses: %v", err), nil)
	}

	decision = uc.evaluate(ctx, entities, clauses)
	decision = uc.reconcile(ctx, query, entities, decision)

	logger.Info("query answered",
		"decision", decision.Status,
		"amount", decision.Amount,
		"advisory", decision.Advisory,
		"clauses", len(decision.Clauses))

	return decision
}
