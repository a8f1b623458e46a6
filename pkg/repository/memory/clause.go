package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type clauseRepository struct {
	mu      sync.RWMutex
	entries map[types.DocumentID]map[int]*model.Clause
}

func newClauseRepository() *clauseRepository {
	return &clauseRepository{
		entries: make(map[types.DocumentID]map[int]*model.Clause),
	}
}

func copyClause(c *model.Clause) *model.Clause {
	copied := &model.Clause{
		DocumentID: c.DocumentID,
		Seq:        c.Seq,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return copied
}

func (r *clauseRepository) PutBatch(ctx context.Context, clauses []*model.Clause) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, c := range clauses {
		stored := copyClause(c)
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		bucket, exists := r.entries[stored.DocumentID]
		if !exists {
			bucket = make(map[int]*model.Clause)
			r.entries[stored.DocumentID] = bucket
		}
		bucket[stored.Seq] = stored
	}
	return nil
}

func (r *clauseRepository) Get(ctx context.Context, docID types.DocumentID, seq int) (*model.Clause, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.entries[docID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "clause not found",
			goerr.V("documentID", docID), goerr.V("seq", seq))
	}
	c, exists := bucket[seq]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "clause not found",
			goerr.V("documentID", docID), goerr.V("seq", seq))
	}
	return copyClause(c), nil
}

func (r *clauseRepository) ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Clause, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.entries[docID]
	if !exists {
		return []*model.Clause{}, nil
	}

	result := make([]*model.Clause, 0, len(bucket))
	for _, c := range bucket {
		result = append(result, copyClause(c))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

func (r *clauseRepository) DeleteByDocument(ctx context.Context, docID types.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, docID)
	return nil
}

func (r *clauseRepository) Search(ctx context.Context, embedding []float32, limit int) ([]*model.Clause, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		clause   *model.Clause
		distance float64
	}

	var candidates []scored
	for _, bucket := range r.entries {
		for _, c := range bucket {
			if len(c.Embedding) == 0 {
				continue
			}
			d := euclideanDistance(embedding, c.Embedding)
			candidates = append(candidates, scored{clause: copyClause(c), distance: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.Clause, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].clause
	}

	return result, nil
}

// euclideanDistance returns the squared Euclidean distance between two
// vectors. Ordering is all that matters for search, so the square root
// is skipped. Mismatched dimensions rank last.
func euclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
