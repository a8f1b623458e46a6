package model

import (
	"time"

	"github.com/claims-lab/themis/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions.
const EmbeddingDimension = 768

// Document is the registry entry for one ingested policy document.
// The raw text itself is not kept here; only the anonymized clauses
// survive ingestion (plus an optional archive copy of the original).
type Document struct {
	ID            types.DocumentID
	ChunkCount    int    // number of clauses stored for this document
	SkippedChunks int    // chunks dropped because anonymization emptied them
	ArchiveURL    string // gs:// URL of the archived raw text, if archival is enabled
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clause is one anonymized passage of a document together with its
// embedding. Identity is the pair (DocumentID, Seq); Seq is a dense
// 0-based sequence over the accepted chunks of the document.
type Clause struct {
	DocumentID types.DocumentID
	Seq        int
	Text       string
	Embedding  []float32
	CreatedAt  time.Time
}
