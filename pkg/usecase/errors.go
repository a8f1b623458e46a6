package usecase

import "github.com/m-mizutani/goerr/v2"

// Ingestion error sentinels. These cross the component boundary to the
// HTTP and CLI shells, which map them to client-facing failures.
var (
	// ErrEmptyDocument means the raw text was empty after trimming
	ErrEmptyDocument = goerr.New("document text is empty")

	// ErrNoValidChunks means anonymization rejected every chunk
	ErrNoValidChunks = goerr.New("no valid chunks after anonymization")

	// ErrEmbeddingDimensionMismatch means the embedding client returned
	// vectors of inconsistent dimension within one document
	ErrEmbeddingDimensionMismatch = goerr.New("embedding dimension mismatch")

	// ErrEmptyQuery means the query was blank
	ErrEmptyQuery = goerr.New("query is empty")
)
