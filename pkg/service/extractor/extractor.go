// Package extractor parses free-text claim queries into a structured
// entity map plus a query embedding. Extraction is best-effort: a
// query that defeats every pattern still produces an embedding, so
// retrieval always has something to work with.
package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/service/anonymizer"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ErrEmptyQuery is returned for blank query input
var ErrEmptyQuery = goerr.New("query must not be empty")

var (
	agePattern       = regexp.MustCompile(`(?i)(\d+)(M|F)`)
	procedurePattern = regexp.MustCompile(`(?i)\b(\w+ectomy|surgery|operation|[\w\s]+?\s*(surgery|operation))\b`)
	durationPattern  = regexp.MustCompile(`(?i)(\d+\s*(month|year)\s*(policy)?)`)
	keyValuePattern  = regexp.MustCompile(`(\w+):\s*([^,]+?)(,|$)`)
	tokenPattern     = regexp.MustCompile(`[A-Za-z]+`)
)

// stopwords excluded from the low-confidence fallback token pass
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"he": true, "her": true, "his": true, "i": true, "in": true, "is": true,
	"it": true, "its": true, "my": true, "of": true, "on": true, "or": true,
	"she": true, "that": true, "the": true, "this": true, "to": true, "was": true,
	"were": true, "will": true, "with": true,
}

// Extractor parses queries and embeds them with the shared embedding client
type Extractor struct {
	embedder embedding.Client
}

func New(embedder embedding.Client) *Extractor {
	return &Extractor{embedder: embedder}
}

// Extract returns the entity map and the query embedding. Blank input
// fails with ErrEmptyQuery. Pattern extraction never fails: if it
// panics internally, an empty entity map is returned together with a
// best-effort embedding of the raw query.
func (x *Extractor) Extract(ctx context.Context, query string) (model.Entities, []float32, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil, goerr.Wrap(ErrEmptyQuery, "cannot extract entities")
	}

	entities := x.parse(ctx, query)

	embeddings, err := x.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to embed query")
	}
	if len(embeddings) == 0 {
		return nil, nil, goerr.New("no query embedding returned")
	}

	return entities, embeddings[0], nil
}

// parse applies the extraction patterns in precedence order. Later
// steps overwrite earlier keys of the same name.
func (x *Extractor) parse(ctx context.Context, query string) (entities model.Entities) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Warn("entity extraction failed, continuing with empty entities",
				"recover", r)
			entities = model.Entities{}
		}
	}()

	entities = model.Entities{}

	for label, value := range anonymizer.DetectEntities(query) {
		entities[label] = value
	}

	if m := agePattern.FindStringSubmatch(query); m != nil {
		entities[model.EntityAge] = m[1] + strings.ToUpper(m[2])
	}

	if m := procedurePattern.FindString(query); m != "" {
		entities[model.EntityProcedure] = strings.ToLower(strings.TrimSpace(m))
	}

	if m := durationPattern.FindString(query); m != "" {
		duration := strings.ToLower(m)
		duration = strings.ReplaceAll(duration, " policy", "")
		entities[model.EntityPolicyDuration] = strings.TrimSpace(duration)
	}

	lower := strings.ToLower(query)
	if strings.Contains(lower, "pre-approval") || strings.Contains(lower, "pre-approved") {
		entities[model.EntityPreApproval] = "true"
	}

	for _, m := range keyValuePattern.FindAllStringSubmatch(query, -1) {
		entities[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}

	// Low-confidence fallback: remaining content words map to themselves
	for _, token := range tokenPattern.FindAllString(query, -1) {
		key := strings.ToLower(token)
		if stopwords[key] || entities.Has(key) {
			continue
		}
		entities[key] = token
	}

	return entities
}
