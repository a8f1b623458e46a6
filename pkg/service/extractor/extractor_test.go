package extractor_test

import (
	"context"
	"testing"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/service/extractor"
	"github.com/m-mizutani/gt"
)

func TestExtract(t *testing.T) {
	ctx := context.Background()
	x := extractor.New(embedding.NewFixed(model.EmbeddingDimension))

	t.Run("empty query fails", func(t *testing.T) {
		_, _, err := x.Extract(ctx, "   ")
		gt.Error(t, err).Is(extractor.ErrEmptyQuery)
	})

	t.Run("classic claim query", func(t *testing.T) {
		entities, emb, err := x.Extract(ctx, "46M, knee surgery, 3 month policy")
		gt.NoError(t, err).Required()

		gt.Value(t, entities.Age()).Equal("46M")
		gt.Value(t, entities.Procedure()).Equal("knee surgery")
		gt.Value(t, entities.PolicyDuration()).Equal("3 month")
		gt.Array(t, emb).Length(model.EmbeddingDimension)
	})

	t.Run("ectomy procedures are recognized", func(t *testing.T) {
		entities, _, err := x.Extract(ctx, "30F needs an appendectomy after 2 month policy")
		gt.NoError(t, err).Required()
		gt.Value(t, entities.Procedure()).Equal("appendectomy")
		gt.Value(t, entities.PolicyDuration()).Equal("2 month")
	})

	t.Run("year durations keep the unit", func(t *testing.T) {
		entities, _, err := x.Extract(ctx, "operation after 2 year policy")
		gt.NoError(t, err).Required()
		gt.Value(t, entities.PolicyDuration()).Equal("2 year")
	})

	t.Run("pre-approval flag", func(t *testing.T) {
		entities, _, err := x.Extract(ctx, "surgery with Pre-Approved claim, 4 month policy")
		gt.NoError(t, err).Required()
		gt.Bool(t, entities.PreApproval()).True()
	})

	t.Run("explicit key-value pairs overwrite pattern results", func(t *testing.T) {
		entities, _, err := x.Extract(ctx, "knee surgery, procedure: appendectomy, age: 52")
		gt.NoError(t, err).Required()
		gt.Value(t, entities.Procedure()).Equal("appendectomy")
		gt.Value(t, entities["age"]).Equal("52")
	})

	t.Run("fallback tokens map to themselves", func(t *testing.T) {
		entities, _, err := x.Extract(ctx, "hospitalization for the insured")
		gt.NoError(t, err).Required()
		gt.Value(t, entities["hospitalization"]).Equal("hospitalization")
		gt.Bool(t, entities.Has("the")).False()
		gt.Bool(t, entities.Has("for")).False()
	})
}
