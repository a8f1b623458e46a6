// Package core provides the agent tools for exploring the clause base
// and the waiting-period rules interactively.
package core

import (
	"fmt"

	"github.com/claims-lab/themis/pkg/domain/interfaces"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/m-mizutani/gollem"
)

// New builds the clause exploration tool set
func New(repo interfaces.Repository, embedder embedding.Client, rules *model.RuleTable) []gollem.Tool {
	return []gollem.Tool{
		&searchClausesTool{repo: repo, embedder: embedder},
		&getClauseTool{repo: repo},
		&lookupWaitingPeriodTool{rules: rules},
		&listDocumentsTool{repo: repo},
	}
}

func extractInt(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
}
