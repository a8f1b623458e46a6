package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/claims-lab/themis/pkg/domain/model"
)

type conflictRepository struct {
	mu      sync.RWMutex
	entries []*model.ConflictEvent
}

func newConflictRepository() *conflictRepository {
	return &conflictRepository{}
}

func copyConflict(e *model.ConflictEvent) *model.ConflictEvent {
	copied := *e
	return &copied
}

func (r *conflictRepository) Record(ctx context.Context, event *model.ConflictEvent) (*model.ConflictEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyConflict(event)
	if stored.ID == "" {
		stored.ID = model.NewConflictID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.entries = append(r.entries, stored)
	return copyConflict(stored), nil
}

func (r *conflictRepository) List(ctx context.Context, limit int) ([]*model.ConflictEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.ConflictEvent, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, copyConflict(e))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}
