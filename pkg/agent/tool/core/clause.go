package core

import (
	"context"
	"fmt"

	"github.com/claims-lab/themis/pkg/agent/tool"
	"github.com/claims-lab/themis/pkg/domain/interfaces"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// searchClausesTool performs semantic clause search over all documents
type searchClausesTool struct {
	repo     interfaces.Repository
	embedder embedding.Client
}

func (t *searchClausesTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "core__search_clauses",
		Description: "Search policy clauses across all ingested documents by semantic similarity",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Search query text",
				Required:    true,
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: "Maximum number of results to return (default: 5)",
				Required:    false,
			},
		},
	}
}

func (t *searchClausesTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	tool.Update(ctx, fmt.Sprintf("Searching clauses: %s", query))

	limit := 5
	if v, err := extractInt(args, "limit"); err == nil && v > 0 {
		limit = v
	}

	embeddings, err := t.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed search query", goerr.V("query", query))
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding generation returned empty result")
	}

	clauses, err := t.repo.Clause().Search(ctx, embeddings[0], limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search clauses", goerr.V("limit", limit))
	}

	items := make([]map[string]any, len(clauses))
	for i, c := range clauses {
		items[i] = map[string]any{
			"document_id": string(c.DocumentID),
			"seq":         c.Seq,
			"text":        c.Text,
		}
	}
	return map[string]any{
		"clauses": items,
		"count":   len(items),
	}, nil
}

// getClauseTool retrieves one clause by its (document, seq) identity
type getClauseTool struct {
	repo interfaces.Repository
}

func (t *getClauseTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "core__get_clause",
		Description: "Get one policy clause by document ID and sequence number",
		Parameters: map[string]*gollem.Parameter{
			"document_id": {
				Type:        gollem.TypeString,
				Description: "Document ID the clause belongs to",
				Required:    true,
			},
			"seq": {
				Type:        gollem.TypeInteger,
				Description: "Sequence number of the clause within the document",
				Required:    true,
			},
		},
	}
}

func (t *getClauseTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	docID, _ := args["document_id"].(string)
	if docID == "" {
		return nil, fmt.Errorf("document_id is required")
	}
	seq, err := extractInt(args, "seq")
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Fetching clause %s/%d", docID, seq))

	clause, err := t.repo.Clause().Get(ctx, types.DocumentID(docID), seq)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get clause",
			goerr.V("documentID", docID), goerr.V("seq", seq))
	}

	return map[string]any{
		"document_id": string(clause.DocumentID),
		"seq":         clause.Seq,
		"text":        clause.Text,
		"created_at":  clause.CreatedAt,
	}, nil
}
