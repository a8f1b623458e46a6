package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type documentRepository struct {
	mu      sync.RWMutex
	entries map[types.DocumentID]*model.Document
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		entries: make(map[types.DocumentID]*model.Document),
	}
}

func copyDocument(d *model.Document) *model.Document {
	copied := *d
	return &copied
}

func (r *documentRepository) Put(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyDocument(doc)
	if existing, exists := r.entries[stored.ID]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.entries[stored.ID] = stored
	return copyDocument(stored), nil
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.entries[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("documentID", id))
	}
	return copyDocument(doc), nil
}

func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Document, 0, len(r.entries))
	for _, d := range r.entries {
		result = append(result, copyDocument(d))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *documentRepository) Delete(ctx context.Context, id types.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; !exists {
		return goerr.Wrap(ErrNotFound, "document not found", goerr.V("documentID", id))
	}
	delete(r.entries, id)
	return nil
}
