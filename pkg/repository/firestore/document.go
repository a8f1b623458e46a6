package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type documentRepository struct {
	client *firestore.Client
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{client: client}
}

type documentDoc struct {
	ID            string    `firestore:"ID"`
	ChunkCount    int       `firestore:"ChunkCount"`
	SkippedChunks int       `firestore:"SkippedChunks"`
	ArchiveURL    string    `firestore:"ArchiveURL"`
	CreatedAt     time.Time `firestore:"CreatedAt"`
	UpdatedAt     time.Time `firestore:"UpdatedAt"`
}

func toDocumentDoc(doc *model.Document) *documentDoc {
	return &documentDoc{
		ID:            string(doc.ID),
		ChunkCount:    doc.ChunkCount,
		SkippedChunks: doc.SkippedChunks,
		ArchiveURL:    doc.ArchiveURL,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func (d *documentDoc) toModel() *model.Document {
	return &model.Document{
		ID:            types.DocumentID(d.ID),
		ChunkCount:    d.ChunkCount,
		SkippedChunks: d.SkippedChunks,
		ArchiveURL:    d.ArchiveURL,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *documentRepository) docRef(id types.DocumentID) *firestore.DocumentRef {
	return r.client.Collection(collectionDocuments).Doc(string(id))
}

func (r *documentRepository) Put(ctx context.Context, doc *model.Document) (*model.Document, error) {
	now := time.Now().UTC()
	stored := *doc
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	// Re-ingestion replaces the entry but keeps the original CreatedAt
	snap, err := r.docRef(doc.ID).Get(ctx)
	if err == nil {
		var existing documentDoc
		if err := snap.DataTo(&existing); err == nil {
			stored.CreatedAt = existing.CreatedAt
		}
	} else if status.Code(err) != codes.NotFound {
		return nil, goerr.Wrap(err, "failed to check existing document", goerr.V("documentID", doc.ID))
	}

	if _, err := r.docRef(doc.ID).Set(ctx, toDocumentDoc(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to put document", goerr.V("documentID", doc.ID))
	}
	return &stored, nil
}

func (r *documentRepository) Get(ctx context.Context, id types.DocumentID) (*model.Document, error) {
	snap, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "document not found", goerr.V("documentID", id))
		}
		return nil, goerr.Wrap(err, "failed to get document", goerr.V("documentID", id))
	}

	var doc documentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("documentID", id))
	}
	return doc.toModel(), nil
}

func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	iter := r.client.Collection(collectionDocuments).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var docs []*model.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list documents")
		}

		var doc documentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document")
		}
		docs = append(docs, doc.toModel())
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id types.DocumentID) error {
	snap, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "document not found", goerr.V("documentID", id))
		}
		return goerr.Wrap(err, "failed to get document for delete", goerr.V("documentID", id))
	}

	if _, err := snap.Ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete document", goerr.V("documentID", id))
	}
	return nil
}
