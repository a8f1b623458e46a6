package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/claims-lab/themis/pkg/utils/errutil"
	"github.com/claims-lab/themis/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type ingestRequest struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
}

type ingestResponse struct {
	Status        string `json:"status"`
	Chunks        int    `json:"chunks"`
	SkippedChunks int    `json:"skipped_chunks,omitempty"`
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// handleIngestDocument runs ingestion for one document. Input and
// processing failures are the client's problem (400); anything else is
// a storage failure (500).
func (s *Server) handleIngestDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	defer safe.Close(ctx, r.Body)

	docID := types.DocumentID(req.DocumentID)
	if err := docID.Validate(); err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	doc, err := s.uc.Ingest(ctx, docID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyDocument),
			errors.Is(err, usecase.ErrNoValidChunks),
			errors.Is(err, usecase.ErrEmbeddingDimensionMismatch):
			errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		default:
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		Status:        "ok",
		Chunks:        doc.ChunkCount,
		SkippedChunks: doc.SkippedChunks,
	})
}

// handleAnswerQuery evaluates one claim query. Evaluation is total, so
// only malformed requests produce a non-200 response.
func (s *Server) handleAnswerQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	defer safe.Close(ctx, r.Body)

	if strings.TrimSpace(req.Query) == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("query is required"), http.StatusBadRequest)
		return
	}

	decision := s.uc.AnswerQuery(ctx, req.Query, req.TopK)
	writeJSON(w, http.StatusOK, decision)
}
