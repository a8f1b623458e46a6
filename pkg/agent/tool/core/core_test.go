package core_test

import (
	"context"
	"testing"

	"github.com/claims-lab/themis/pkg/agent/tool/core"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/repository/memory"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

func findTool(t *testing.T, tools []gollem.Tool, name string) gollem.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Spec().Name == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

func TestTools(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	embedder := embedding.NewFixed(model.EmbeddingDimension)

	vec := make([]float32, model.EmbeddingDimension)
	vec[0] = 1
	embedder.Set("surgery waiting period", vec)

	gt.NoError(t, repo.Clause().PutBatch(ctx, []*model.Clause{{
		DocumentID: types.DocumentID("policy-a"),
		Seq:        0,
		Text:       "The waiting period for surgery is one month.",
		Embedding:  vec,
	}})).Required()
	_, err := repo.Document().Put(ctx, &model.Document{ID: "policy-a", ChunkCount: 1})
	gt.NoError(t, err).Required()

	tools := core.New(repo, embedder, model.DefaultRuleTable())
	gt.Array(t, tools).Length(4)

	t.Run("search_clauses finds stored clauses", func(t *testing.T) {
		tl := findTool(t, tools, "core__search_clauses")
		result, err := tl.Run(ctx, map[string]any{"query": "surgery waiting period"})
		gt.NoError(t, err).Required()
		gt.Value(t, result["count"]).Equal(1)
	})

	t.Run("search_clauses requires a query", func(t *testing.T) {
		tl := findTool(t, tools, "core__search_clauses")
		_, err := tl.Run(ctx, map[string]any{})
		gt.Value(t, err).NotNil()
	})

	t.Run("get_clause resolves identity", func(t *testing.T) {
		tl := findTool(t, tools, "core__get_clause")
		result, err := tl.Run(ctx, map[string]any{
			"document_id": "policy-a",
			"seq":         float64(0),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result["text"]).Equal("The waiting period for surgery is one month.")
	})

	t.Run("get_clause fails for missing clause", func(t *testing.T) {
		tl := findTool(t, tools, "core__get_clause")
		_, err := tl.Run(ctx, map[string]any{
			"document_id": "policy-a",
			"seq":         float64(99),
		})
		gt.Value(t, err).NotNil()
	})

	t.Run("lookup_waiting_period returns rule data", func(t *testing.T) {
		tl := findTool(t, tools, "core__lookup_waiting_period")
		result, err := tl.Run(ctx, map[string]any{"procedure": "appendectomy"})
		gt.NoError(t, err).Required()
		gt.Value(t, result["defined"]).Equal(true)
		gt.Value(t, result["waiting_months"]).Equal(1)
		gt.Value(t, result["payout_amount"]).Equal(50000)
	})

	t.Run("lookup_waiting_period reports unknown procedures", func(t *testing.T) {
		tl := findTool(t, tools, "core__lookup_waiting_period")
		result, err := tl.Run(ctx, map[string]any{"procedure": "rhinoplasty"})
		gt.NoError(t, err).Required()
		gt.Value(t, result["defined"]).Equal(false)
	})

	t.Run("list_documents enumerates the registry", func(t *testing.T) {
		tl := findTool(t, tools, "core__list_documents")
		result, err := tl.Run(ctx, map[string]any{})
		gt.NoError(t, err).Required()
		gt.Value(t, result["count"]).Equal(1)
	})
}
