package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// Fixed is a deterministic in-process Client used by tests and local
// development. A vector can be pinned per text with Set; texts without
// a pinned vector get a hash-derived unit vector, stable across calls.
type Fixed struct {
	dim     int
	mu      sync.RWMutex
	vectors map[string][]float32
}

var _ Client = &Fixed{}

// NewFixed creates a Fixed client producing vectors of the given dimension
func NewFixed(dim int) *Fixed {
	return &Fixed{
		dim:     dim,
		vectors: make(map[string][]float32),
	}
}

// Set pins the vector returned for an exact text
func (f *Fixed) Set(text string, vec []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pinned := make([]float32, len(vec))
	copy(pinned, vec)
	f.vectors[text] = pinned
}

func (f *Fixed) Dimension() int {
	return f.dim
}

func (f *Fixed) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	f.mu.RLock()
	defer f.mu.RUnlock()
	for i, text := range texts {
		if pinned, ok := f.vectors[text]; ok {
			vec := make([]float32, len(pinned))
			copy(vec, pinned)
			results[i] = vec
			continue
		}
		results[i] = f.derive(text)
	}
	return results, nil
}

// derive spreads the text's hash over a few vector components and
// scales the result, so distinct texts land at distinct stable vectors.
func (f *Fixed) derive(text string) []float32 {
	vec := make([]float32, f.dim)
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	var norm float64
	for i := 0; i < 4; i++ {
		idx := int((seed >> (i * 16)) % uint64(f.dim))
		v := float32(1 + (seed>>(i*8))%7)
		vec[idx] += v
		norm += float64(v) * float64(v)
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
