package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/claims-lab/themis/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Firestore is the durable implementation of interfaces.Repository.
// Clauses are stored as subcollection documents carrying their embedding
// as firestore.Vector32, which makes the clause store and the vector
// index one structure: FindNearest over the clauses collection group is
// the single, incrementally updated query index.
type Firestore struct {
	client   *firestore.Client
	document *documentRepository
	clause   *clauseRepository
	conflict *conflictRepository
}

var _ interfaces.Repository = &Firestore{}

// New creates a new Firestore repository. An empty databaseID selects
// the project's default database.
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	return &Firestore{
		client:   client,
		document: newDocumentRepository(client),
		clause:   newClauseRepository(client),
		conflict: newConflictRepository(client),
	}, nil
}

func (f *Firestore) Document() interfaces.DocumentRepository {
	return f.document
}

func (f *Firestore) Clause() interfaces.ClauseRepository {
	return f.clause
}

func (f *Firestore) Conflict() interfaces.ConflictRepository {
	return f.conflict
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
