package interfaces

import (
	"context"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
)

// ClauseRepository defines the interface for Clause data persistence.
// It doubles as the vector index: each clause is stored together with
// its embedding, and Search performs nearest-neighbor retrieval over
// all clauses of all documents.
type ClauseRepository interface {
	// PutBatch stores a batch of clauses. Clause identity is the pair
	// (DocumentID, Seq); an existing clause with the same identity is
	// overwritten.
	PutBatch(ctx context.Context, clauses []*model.Clause) error

	// Get retrieves one clause by identity
	Get(ctx context.Context, docID types.DocumentID, seq int) (*model.Clause, error)

	// ListByDocument retrieves all clauses of a document ordered by Seq
	ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Clause, error)

	// DeleteByDocument removes every clause of a document
	DeleteByDocument(ctx context.Context, docID types.DocumentID) error

	// Search returns up to limit clauses nearest to the given embedding
	// by Euclidean distance, nearest first. An empty store yields an
	// empty slice, not an error.
	Search(ctx context.Context, embedding []float32, limit int) ([]*model.Clause, error)
}

// DocumentRepository defines the interface for the document registry
type DocumentRepository interface {
	// Put creates or replaces the registry entry for a document
	Put(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Get retrieves a registry entry by document ID
	Get(ctx context.Context, id types.DocumentID) (*model.Document, error)

	// List retrieves all registry entries ordered by CreatedAt descending
	List(ctx context.Context) ([]*model.Document, error)

	// Delete removes a registry entry
	Delete(ctx context.Context, id types.DocumentID) error
}

// ConflictRepository records disagreements between the deterministic
// decision engine and the advisory judgment
type ConflictRepository interface {
	// Record persists a conflict event
	Record(ctx context.Context, event *model.ConflictEvent) (*model.ConflictEvent, error)

	// List retrieves up to limit conflict events, newest first
	List(ctx context.Context, limit int) ([]*model.ConflictEvent, error)
}
