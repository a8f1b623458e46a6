package firestore

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionDocuments = "documents"
	collectionClauses   = "clauses"
)

type clauseRepository struct {
	client *firestore.Client
}

func newClauseRepository(client *firestore.Client) *clauseRepository {
	return &clauseRepository{client: client}
}

// clauseDoc is the Firestore representation of model.Clause. The embedding
// field is stored as firestore.Vector32 so it participates in the vector
// index declared on the clauses collection group.
type clauseDoc struct {
	DocumentID string             `firestore:"DocumentID"`
	Seq        int                `firestore:"Seq"`
	Text       string             `firestore:"Text"`
	Embedding  firestore.Vector32 `firestore:"Embedding"`
	CreatedAt  time.Time          `firestore:"CreatedAt"`
}

func toClauseDoc(clause *model.Clause) *clauseDoc {
	return &clauseDoc{
		DocumentID: string(clause.DocumentID),
		Seq:        clause.Seq,
		Text:       clause.Text,
		Embedding:  firestore.Vector32(clause.Embedding),
		CreatedAt:  clause.CreatedAt,
	}
}

func (d *clauseDoc) toModel() *model.Clause {
	return &model.Clause{
		DocumentID: types.DocumentID(d.DocumentID),
		Seq:        d.Seq,
		Text:       d.Text,
		Embedding:  []float32(d.Embedding),
		CreatedAt:  d.CreatedAt,
	}
}

func (r *clauseRepository) clauseRef(docID types.DocumentID, seq int) *firestore.DocumentRef {
	return r.client.Collection(collectionDocuments).
		Doc(string(docID)).
		Collection(collectionClauses).
		Doc(strconv.Itoa(seq))
}

func (r *clauseRepository) PutBatch(ctx context.Context, clauses []*model.Clause) error {
	if len(clauses) == 0 {
		return nil
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(clauses))
	for _, clause := range clauses {
		job, err := bw.Set(r.clauseRef(clause.DocumentID, clause.Seq), toClauseDoc(clause))
		if err != nil {
			return goerr.Wrap(err, "failed to enqueue clause write",
				goerr.V("documentID", clause.DocumentID), goerr.V("seq", clause.Seq))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to write clauses", goerr.V("count", len(clauses)))
		}
	}
	return nil
}

func (r *clauseRepository) Get(ctx context.Context, docID types.DocumentID, seq int) (*model.Clause, error) {
	snap, err := r.clauseRef(docID, seq).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "clause not found",
				goerr.V("documentID", docID), goerr.V("seq", seq))
		}
		return nil, goerr.Wrap(err, "failed to get clause",
			goerr.V("documentID", docID), goerr.V("seq", seq))
	}

	var doc clauseDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal clause",
			goerr.V("documentID", docID), goerr.V("seq", seq))
	}
	return doc.toModel(), nil
}

func (r *clauseRepository) ListByDocument(ctx context.Context, docID types.DocumentID) ([]*model.Clause, error) {
	iter := r.client.Collection(collectionDocuments).
		Doc(string(docID)).
		Collection(collectionClauses).
		OrderBy("Seq", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var clauses []*model.Clause
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list clauses", goerr.V("documentID", docID))
		}

		var doc clauseDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal clause", goerr.V("documentID", docID))
		}
		clauses = append(clauses, doc.toModel())
	}
	return clauses, nil
}

func (r *clauseRepository) DeleteByDocument(ctx context.Context, docID types.DocumentID) error {
	iter := r.client.Collection(collectionDocuments).
		Doc(string(docID)).
		Collection(collectionClauses).
		Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate clauses for delete", goerr.V("documentID", docID))
		}

		job, err := bw.Delete(snap.Ref)
		if err != nil {
			return goerr.Wrap(err, "failed to enqueue clause delete", goerr.V("documentID", docID))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to delete clauses", goerr.V("documentID", docID))
		}
	}
	return nil
}

func (r *clauseRepository) Search(ctx context.Context, embedding []float32, limit int) ([]*model.Clause, error) {
	iter := r.client.CollectionGroup(collectionClauses).
		FindNearest("Embedding",
			firestore.Vector32(embedding),
			limit,
			firestore.DistanceMeasureEuclidean,
			nil).
		Documents(ctx)
	defer iter.Stop()

	var clauses []*model.Clause
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search clauses", goerr.V("limit", limit))
		}

		var doc clauseDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal clause")
		}
		clauses = append(clauses, doc.toModel())
	}
	return clauses, nil
}
