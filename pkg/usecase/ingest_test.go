package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/repository/memory"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const policyText = "The waiting period for knee surgery is thirty six months. " +
	"Hospitalization expenses are covered for the insured. " +
	"All claims for surgery require pre-approval from the insurer."

func TestIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("empty document fails", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, embedding.NewFixed(model.EmbeddingDimension))

		_, err := uc.Ingest(ctx, "policy-1", "   \n  ")
		gt.Error(t, err).Is(usecase.ErrEmptyDocument)
	})

	t.Run("invalid document ID fails", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, embedding.NewFixed(model.EmbeddingDimension))

		_, err := uc.Ingest(ctx, "a/b", policyText)
		gt.Value(t, err).NotNil()
	})

	t.Run("stores densely sequenced clauses and registry entry", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, embedding.NewFixed(model.EmbeddingDimension),
			usecase.WithChunkSize(60))

		doc, err := uc.Ingest(ctx, "policy-2", policyText)
		gt.NoError(t, err).Required()
		gt.Number(t, doc.ChunkCount).Greater(1)

		clauses, err := repo.Clause().ListByDocument(ctx, "policy-2")
		gt.NoError(t, err).Required()
		gt.Number(t, len(clauses)).Equal(doc.ChunkCount)
		for i, clause := range clauses {
			gt.Value(t, clause.Seq).Equal(i)
			gt.Array(t, clause.Embedding).Length(model.EmbeddingDimension)
			gt.Bool(t, strings.TrimSpace(clause.Text) == "").False()
		}

		entry, err := repo.Document().Get(ctx, "policy-2")
		gt.NoError(t, err).Required()
		gt.Value(t, entry.ChunkCount).Equal(doc.ChunkCount)
	})

	t.Run("re-ingestion replaces previous clauses", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, embedding.NewFixed(model.EmbeddingDimension),
			usecase.WithChunkSize(60))

		first, err := uc.Ingest(ctx, "policy-3", policyText)
		gt.NoError(t, err).Required()
		gt.Number(t, first.ChunkCount).Greater(1)

		second, err := uc.Ingest(ctx, "policy-3", "Surgery is covered.")
		gt.NoError(t, err).Required()
		gt.Value(t, second.ChunkCount).Equal(1)

		clauses, err := repo.Clause().ListByDocument(ctx, "policy-3")
		gt.NoError(t, err).Required()
		gt.Array(t, clauses).Length(1)
		gt.Value(t, clauses[0].Text).Equal("Surgery is covered.")
		gt.Bool(t, second.CreatedAt.Equal(first.CreatedAt)).True()
	})

	t.Run("embedding dimension mismatch aborts ingestion", func(t *testing.T) {
		repo := memory.New()
		embedder := embedding.NewFixed(model.EmbeddingDimension)
		embedder.Set("Surgery is covered.", []float32{1, 2, 3})
		uc := usecase.New(repo, embedder)

		_, err := uc.Ingest(ctx, "policy-4", "Surgery is covered.")
		gt.Error(t, err).Is(usecase.ErrEmbeddingDimensionMismatch)
	})

	t.Run("personal data never reaches the clause store", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, embedding.NewFixed(model.EmbeddingDimension))

		text := "The insured Mr. John Smith may contact alice@example.com about surgery claims."
		_, err := uc.Ingest(ctx, "policy-5", text)
		gt.NoError(t, err).Required()

		clauses, err := repo.Clause().ListByDocument(ctx, "policy-5")
		gt.NoError(t, err).Required()
		for _, clause := range clauses {
			gt.Bool(t, strings.Contains(clause.Text, "John Smith")).False()
			gt.Bool(t, strings.Contains(clause.Text, "alice@example.com")).False()
		}
	})
}
