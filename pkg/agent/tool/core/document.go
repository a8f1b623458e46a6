package core

import (
	"context"

	"github.com/claims-lab/themis/pkg/agent/tool"
	"github.com/claims-lab/themis/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// listDocumentsTool enumerates the ingested document registry
type listDocumentsTool struct {
	repo interfaces.Repository
}

func (t *listDocumentsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "core__list_documents",
		Description: "List all ingested policy documents with their clause counts",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *listDocumentsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	tool.Update(ctx, "Listing ingested documents")

	docs, err := t.repo.Document().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents")
	}

	items := make([]map[string]any, len(docs))
	for i, d := range docs {
		items[i] = map[string]any{
			"document_id":    string(d.ID),
			"chunk_count":    d.ChunkCount,
			"skipped_chunks": d.SkippedChunks,
			"updated_at":     d.UpdatedAt,
		}
	}
	return map[string]any{
		"documents": items,
		"count":     len(items),
	}, nil
}
