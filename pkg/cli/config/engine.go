package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/service/advisor"
	"github.com/claims-lab/themis/pkg/service/retriever"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Engine holds CLI flags for the claim evaluation pipeline knobs
type Engine struct {
	chunkSize       int
	topK            int
	threshold       float64
	advisoryTimeout time.Duration
	rulePath        string
}

// RuleEntry is a single waiting-period rule in a TOML rule file
type RuleEntry struct {
	Procedure     string `toml:"procedure"`
	WaitingMonths int    `toml:"waiting_months"`
	Payout        int    `toml:"payout"`
}

// Validate checks if the RuleEntry is valid
func (r *RuleEntry) Validate() error {
	if strings.TrimSpace(r.Procedure) == "" {
		return ErrMissingProcedure
	}
	if r.WaitingMonths < 0 {
		return goerr.Wrap(ErrInvalidWaitingPeriod, "negative waiting period", goerr.V(ProcedureKey, r.Procedure))
	}
	if r.Payout < 0 {
		return goerr.Wrap(ErrInvalidPayout, "negative payout", goerr.V(ProcedureKey, r.Procedure))
	}
	return nil
}

// RuleFile is the top-level structure of a TOML rule file
type RuleFile struct {
	Rules []RuleEntry `toml:"rule"`
}

// Flags returns CLI flags for engine configuration
func (e *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "chunk-size",
			Usage:       "Maximum chunk length in characters for document ingestion",
			Value:       usecase.DefaultChunkSize,
			Sources:     cli.EnvVars("THEMIS_CHUNK_SIZE"),
			Destination: &e.chunkSize,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Number of clauses retrieved per query",
			Value:       usecase.DefaultTopK,
			Sources:     cli.EnvVars("THEMIS_TOP_K"),
			Destination: &e.topK,
		},
		&cli.FloatFlag{
			Name:        "similarity-threshold",
			Usage:       "Minimum cosine similarity for a clause to be considered relevant",
			Value:       retriever.DefaultThreshold,
			Sources:     cli.EnvVars("THEMIS_SIMILARITY_THRESHOLD"),
			Destination: &e.threshold,
		},
		&cli.DurationFlag{
			Name:        "advisory-timeout",
			Usage:       "Timeout for a single advisory LLM judgment",
			Value:       advisor.DefaultTimeout,
			Sources:     cli.EnvVars("THEMIS_ADVISORY_TIMEOUT"),
			Destination: &e.advisoryTimeout,
		},
		&cli.StringFlag{
			Name:        "rules",
			Aliases:     []string{"r"},
			Usage:       "Path to a TOML file overriding the built-in waiting-period rules",
			Sources:     cli.EnvVars("THEMIS_RULES"),
			Destination: &e.rulePath,
		},
	}
}

// LogAttrs returns log attributes for the engine configuration
func (e *Engine) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("chunk_size", e.chunkSize),
		slog.Int("top_k", e.topK),
		slog.Float64("similarity_threshold", e.threshold),
		slog.Duration("advisory_timeout", e.advisoryTimeout),
		slog.String("rules", e.rulePath),
	}
}

// AdvisoryTimeout returns the configured advisory judgment timeout
func (e *Engine) AdvisoryTimeout() time.Duration {
	return e.advisoryTimeout
}

// RulePath returns the configured rule file path, empty when unset
func (e *Engine) RulePath() string {
	return e.rulePath
}

// LoadRules reads and validates the configured rule file. It returns
// nil when no rule file is configured, in which case the built-in
// table applies.
func (e *Engine) LoadRules() (*model.RuleTable, error) {
	if e.rulePath == "" {
		return nil, nil
	}
	return LoadRuleFile(e.rulePath)
}

// LoadRuleFile reads a TOML rule file and builds a validated rule table.
// Procedure names are normalized to lower case to match extraction output.
func LoadRuleFile(path string) (*model.RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "rule file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read rule file", goerr.V(ConfigPathKey, path))
	}

	var file RuleFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse rule file", goerr.V(ConfigPathKey, path))
	}
	if len(file.Rules) == 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "rule file defines no rules", goerr.V(ConfigPathKey, path))
	}

	table := &model.RuleTable{
		WaitingPeriods: make(map[string]int, len(file.Rules)),
		Payouts:        make(map[string]int),
	}
	for i, entry := range file.Rules {
		if err := entry.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid rule entry", goerr.V(RuleIndexKey, i))
		}
		proc := strings.ToLower(strings.TrimSpace(entry.Procedure))
		if _, ok := table.WaitingPeriods[proc]; ok {
			return nil, goerr.Wrap(ErrDuplicateProcedure, "procedure defined twice", goerr.V(ProcedureKey, proc))
		}
		table.WaitingPeriods[proc] = entry.WaitingMonths
		if entry.Payout > 0 {
			table.Payouts[proc] = entry.Payout
		}
	}

	if err := table.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid rule table", goerr.V(ConfigPathKey, path))
	}

	return table, nil
}

// Options translates the engine configuration into use case options.
// The rule file is loaded here so misconfiguration fails at startup.
func (e *Engine) Options() ([]usecase.Option, error) {
	opts := []usecase.Option{
		usecase.WithChunkSize(e.chunkSize),
		usecase.WithTopK(e.topK),
		usecase.WithThreshold(e.threshold),
	}

	rules, err := e.LoadRules()
	if err != nil {
		return nil, err
	}
	if rules != nil {
		opts = append(opts, usecase.WithRules(rules))
	}

	return opts, nil
}
