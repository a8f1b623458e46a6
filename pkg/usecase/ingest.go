package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/service/anonymizer"
	"github.com/claims-lab/themis/pkg/service/chunker"
	"github.com/claims-lab/themis/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// embedBatchSize is the number of chunk texts sent per embedding call
const embedBatchSize = 32

// embedConcurrency bounds parallel embedding calls during ingestion
const embedConcurrency = 4

// Ingest runs the full pipeline for one document: chunk, anonymize,
// embed, and store. Re-ingesting an existing document ID replaces its
// clauses and registry entry; stale clauses never survive.
func (uc *UseCases) Ingest(ctx context.Context, docID types.DocumentID, rawText string) (*model.Document, error) {
	logger := logging.From(ctx)

	if err := docID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid document ID", goerr.V("documentID", docID))
	}

	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, goerr.Wrap(ErrEmptyDocument, "cannot ingest", goerr.V("documentID", docID))
	}

	// Raw text archival is best-effort: a broken archive must not block
	// ingestion, only lose the replay copy.
	var archiveURL string
	if uc.archive != nil {
		url, err := uc.archive.Store(ctx, docID, rawText)
		if err != nil {
			logger.Warn("failed to archive raw document text",
				"documentID", docID, "error", err)
		} else {
			archiveURL = url
		}
	}

	chunks := chunker.Split(text, uc.chunkSize)

	// Accepted chunks are re-sequenced densely so (documentID, seq)
	// stays contiguous regardless of how many chunks were dropped.
	var accepted []string
	skipped := 0
	for i, chunk := range chunks {
		anonymized, applied := anonymizer.Anonymize(chunk)
		if !applied {
			logger.Warn("anonymization skipped, storing chunk as-is",
				"documentID", docID, "chunk", i)
		}
		if strings.TrimSpace(anonymized) == "" {
			logger.Info("chunk rejected by anonymization",
				"documentID", docID, "chunk", i)
			skipped++
			continue
		}
		accepted = append(accepted, anonymized)
	}

	if len(accepted) == 0 {
		return nil, goerr.Wrap(ErrNoValidChunks, "cannot ingest",
			goerr.V("documentID", docID), goerr.V("chunks", len(chunks)))
	}

	embeddings, err := uc.embedChunks(ctx, accepted)
	if err != nil {
		return nil, err
	}

	dim := uc.embedder.Dimension()
	for i, emb := range embeddings {
		if len(emb) != dim {
			return nil, goerr.Wrap(ErrEmbeddingDimensionMismatch, "cannot index document",
				goerr.V("documentID", docID), goerr.V("seq", i),
				goerr.V("want", dim), goerr.V("got", len(emb)))
		}
	}

	// Upsert-with-replace: clear previous clauses before writing the new
	// set so a shrinking document leaves no stale tail behind.
	if err := uc.repo.Clause().DeleteByDocument(ctx, docID); err != nil {
		return nil, goerr.Wrap(err, "failed to clear previous clauses", goerr.V("documentID", docID))
	}

	now := time.Now().UTC()
	clauses := make([]*model.Clause, len(accepted))
	for i, text := range accepted {
		clauses[i] = &model.Clause{
			DocumentID: docID,
			Seq:        i,
			Text:       text,
			Embedding:  embeddings[i],
			CreatedAt:  now,
		}
	}
	if err := uc.repo.Clause().PutBatch(ctx, clauses); err != nil {
		return nil, goerr.Wrap(err, "failed to store clauses", goerr.V("documentID", docID))
	}

	doc, err := uc.repo.Document().Put(ctx, &model.Document{
		ID:            docID,
		ChunkCount:    len(accepted),
		SkippedChunks: skipped,
		ArchiveURL:    archiveURL,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to register document", goerr.V("documentID", docID))
	}

	logger.Info("document ingested",
		"documentID", docID,
		"chunks", len(accepted),
		"skipped", skipped)

	return doc, nil
}

// embedChunks embeds texts in bounded-concurrency batches, preserving
// input order by writing each batch into its own result slot range.
func (uc *UseCases) embedChunks(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(embedConcurrency)

	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		eg.Go(func() error {
			batch, err := uc.embedder.Embed(ctx, texts[start:end])
			if err != nil {
				return goerr.Wrap(err, "failed to embed chunk batch",
					goerr.V("start", start), goerr.V("end", end))
			}
			if len(batch) != end-start {
				return goerr.New("embedding batch size mismatch",
					goerr.V("want", end-start), goerr.V("got", len(batch)))
			}
			copy(results[start:end], batch)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
