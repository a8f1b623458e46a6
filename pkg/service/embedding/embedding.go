// Package embedding turns text into fixed-dimension vectors. One client
// instance is shared by ingestion and query answering so every vector
// in the system lives in the same embedding space.
package embedding

import (
	"context"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Client produces embeddings with a fixed dimension. Implementations
// must be safe for concurrent use.
type Client interface {
	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension returns the vector dimension every result has
	Dimension() int
}

// Gemini implements Client on top of a gollem LLM client.
type Gemini struct {
	llm gollem.LLMClient
}

var _ Client = &Gemini{}

// NewGemini creates an embedding client backed by the given LLM client
func NewGemini(llm gollem.LLMClient) *Gemini {
	return &Gemini{llm: llm}
}

func (g *Gemini) Dimension() int {
	return model.EmbeddingDimension
}

func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := g.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embeddings", goerr.V("count", len(texts)))
	}
	if len(embeddings) != len(texts) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("want", len(texts)), goerr.V("got", len(embeddings)))
	}

	results := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		vec := make([]float32, len(emb))
		for j, v := range emb {
			vec[j] = float32(v)
		}
		results[i] = vec
	}
	return results, nil
}
