package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/claims-lab/themis/pkg/domain/types"
)

// ValidationIssue describes one inconsistency between the document
// registry and the indexed clauses.
type ValidationIssue struct {
	DocumentID types.DocumentID
	Detail     string
}

// ValidationResult collects issues found by ValidateDB
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasIssues reports whether any inconsistency was found
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// ValidateDB cross-checks the document registry against the clause
// index. For every registered document it verifies that the stored
// clause count matches the registry, that clause sequence numbers are
// dense from zero, and that every embedding has the expected dimension.
func (uc *UseCases) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	result := &ValidationResult{}

	docs, err := uc.repo.Document().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list documents")
	}

	dim := uc.embedder.Dimension()
	for _, doc := range docs {
		clauses, err := uc.repo.Clause().ListByDocument(ctx, doc.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list clauses", goerr.V("document_id", doc.ID))
		}

		if len(clauses) != doc.ChunkCount {
			result.Issues = append(result.Issues, ValidationIssue{
				DocumentID: doc.ID,
				Detail:     fmt.Sprintf("registry records %d clauses but %d are indexed", doc.ChunkCount, len(clauses)),
			})
		}

		for i, clause := range clauses {
			if clause.Seq != i {
				result.Issues = append(result.Issues, ValidationIssue{
					DocumentID: doc.ID,
					Detail:     fmt.Sprintf("clause sequence has a gap: expected %d, found %d", i, clause.Seq),
				})
				break
			}
			if len(clause.Embedding) != dim {
				result.Issues = append(result.Issues, ValidationIssue{
					DocumentID: doc.ID,
					Detail:     fmt.Sprintf("clause %d embedding has dimension %d, expected %d", clause.Seq, len(clause.Embedding), dim),
				})
			}
		}
	}

	return result, nil
}
