// Package retriever selects clauses relevant to a query. The vector
// search gives a cheap shortlist; a recomputed cosine similarity plus a
// topical keyword check then guards against topic drift before a clause
// reaches the decision engine.
package retriever

import (
	"context"
	"math"

	"github.com/claims-lab/themis/pkg/domain/interfaces"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultThreshold is the minimum cosine similarity for acceptance
const DefaultThreshold = 0.6

// Retriever performs filtered nearest-neighbor clause retrieval
type Retriever struct {
	clauses   interfaces.ClauseRepository
	embedder  embedding.Client
	threshold float64
}

type Option func(*Retriever)

// WithThreshold overrides the cosine similarity acceptance threshold
func WithThreshold(threshold float64) Option {
	return func(r *Retriever) {
		r.threshold = threshold
	}
}

func New(clauses interfaces.ClauseRepository, embedder embedding.Client, opts ...Option) *Retriever {
	r := &Retriever{
		clauses:   clauses,
		embedder:  embedder,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns up to k clause texts relevant to the query
// embedding, most relevant first. A clause is accepted when the cosine
// similarity between the query embedding and the clause's own
// re-embedding meets the threshold and the text mentions a topical
// keyword. An empty store yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, queryEmbedding []float32, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}

	candidates, err := r.clauses.Search(ctx, queryEmbedding, k)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search clauses", goerr.V("k", k))
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}

	embeddings, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to re-embed candidate clauses",
			goerr.V("count", len(texts)))
	}
	if len(embeddings) != len(texts) {
		return nil, goerr.New("candidate embedding count mismatch",
			goerr.V("want", len(texts)), goerr.V("got", len(embeddings)))
	}

	logger := logging.From(ctx)
	var accepted []string
	for i, text := range texts {
		similarity := cosineSimilarity(queryEmbedding, embeddings[i])
		if similarity < r.threshold {
			logger.Debug("clause below similarity threshold",
				"documentID", candidates[i].DocumentID,
				"seq", candidates[i].Seq,
				"similarity", similarity)
			continue
		}
		if !model.IsTopical(text) {
			logger.Debug("clause not topical",
				"documentID", candidates[i].DocumentID,
				"seq", candidates[i].Seq)
			continue
		}
		accepted = append(accepted, text)
		if len(accepted) >= k {
			break
		}
	}

	return accepted, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
