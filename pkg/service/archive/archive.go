// Package archive persists raw document text to Cloud Storage before
// ingestion rewrites it into anonymized clauses. The archive is the
// only place the original wording survives, so ingestion can be
// re-run against it after a rule or chunking change.
package archive

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// Archive writes raw document text to a Cloud Storage bucket
type Archive struct {
	client *storage.Client
	bucket string
	prefix string
}

type Option func(*Archive)

// WithPrefix sets an object name prefix inside the bucket
func WithPrefix(prefix string) Option {
	return func(a *Archive) {
		a.prefix = prefix
	}
}

// New creates an Archive targeting the given bucket
func New(ctx context.Context, bucket string, opts ...Option) (*Archive, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	a := &Archive{
		client: client,
		bucket: bucket,
		prefix: "documents/",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// objectName builds the object path for a document
func (a *Archive) objectName(docID types.DocumentID) string {
	return a.prefix + string(docID) + ".txt"
}

// Store writes the raw text of a document and returns its gs:// URL.
// An existing object for the same document is overwritten, matching
// the upsert semantics of ingestion.
func (a *Archive) Store(ctx context.Context, docID types.DocumentID, text string) (string, error) {
	name := a.objectName(docID)
	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"

	if _, err := w.Write([]byte(text)); err != nil {
		safe.Close(ctx, w)
		return "", goerr.Wrap(err, "failed to write archive object",
			goerr.V("bucket", a.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize archive object",
			goerr.V("bucket", a.bucket), goerr.V("object", name))
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, name), nil
}

// Fetch reads back the archived raw text of a document
func (a *Archive) Fetch(ctx context.Context, docID types.DocumentID) (string, error) {
	name := a.objectName(docID)
	r, err := a.client.Bucket(a.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open archive object",
			goerr.V("bucket", a.bucket), goerr.V("object", name))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read archive object",
			goerr.V("bucket", a.bucket), goerr.V("object", name))
	}
	return string(data), nil
}

// Close releases the underlying storage client
func (a *Archive) Close() error {
	return a.client.Close()
}
