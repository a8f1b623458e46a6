package usecase

import (
	"github.com/claims-lab/themis/pkg/domain/interfaces"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/service/advisor"
	"github.com/claims-lab/themis/pkg/service/archive"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/service/extractor"
	"github.com/claims-lab/themis/pkg/service/retriever"
)

// Defaults applied when the caller does not configure the knobs
const (
	DefaultChunkSize = 500
	DefaultTopK      = 5
)

// UseCases wires the ingestion and query-answering pipelines over a
// repository and the shared embedding client.
type UseCases struct {
	repo      interfaces.Repository
	embedder  embedding.Client
	extractor *extractor.Extractor
	retriever *retriever.Retriever
	advisor   advisor.Service
	archive   *archive.Archive
	rules     *model.RuleTable
	chunkSize int
	topK      int
	threshold *float64
}

type Option func(*UseCases)

// WithAdvisor enables the advisory judgment consult
func WithAdvisor(svc advisor.Service) Option {
	return func(uc *UseCases) {
		uc.advisor = svc
	}
}

// WithArchive enables best-effort raw text archiving on ingestion
func WithArchive(a *archive.Archive) Option {
	return func(uc *UseCases) {
		uc.archive = a
	}
}

// WithRules overrides the built-in waiting-period rule table
func WithRules(rules *model.RuleTable) Option {
	return func(uc *UseCases) {
		uc.rules = rules
	}
}

// WithChunkSize overrides the maximum chunk character length
func WithChunkSize(size int) Option {
	return func(uc *UseCases) {
		uc.chunkSize = size
	}
}

// WithTopK overrides the default retrieval depth
func WithTopK(k int) Option {
	return func(uc *UseCases) {
		uc.topK = k
	}
}

// WithThreshold overrides the retriever's similarity threshold
func WithThreshold(threshold float64) Option {
	return func(uc *UseCases) {
		uc.threshold = &threshold
	}
}

func New(repo interfaces.Repository, embedder embedding.Client, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		embedder:  embedder,
		rules:     model.DefaultRuleTable(),
		chunkSize: DefaultChunkSize,
		topK:      DefaultTopK,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.extractor = extractor.New(embedder)

	var retrieverOpts []retriever.Option
	if uc.threshold != nil {
		retrieverOpts = append(retrieverOpts, retriever.WithThreshold(*uc.threshold))
	}
	uc.retriever = retriever.New(repo.Clause(), embedder, retrieverOpts...)

	return uc
}

// Repository exposes the backing repository for controllers and tools
func (uc *UseCases) Repository() interfaces.Repository {
	return uc.repo
}

// Rules exposes the active rule table
func (uc *UseCases) Rules() *model.RuleTable {
	return uc.rules
}
