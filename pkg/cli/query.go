package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/claims-lab/themis/pkg/cli/config"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/service/advisor"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/claims-lab/themis/pkg/utils/logging"
)

func cmdQuery() *cli.Command {
	var asJSON bool
	var enableAdvisory bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var engineCfg config.Engine

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the decision as JSON",
			Destination: &asJSON,
		},
		&cli.BoolFlag{
			Name:        "advisory",
			Usage:       "Consult the LLM advisory judgment",
			Value:       true,
			Sources:     cli.EnvVars("THEMIS_ADVISORY"),
			Destination: &enableAdvisory,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:      "query",
		Aliases:   []string{"q"},
		Usage:     "Evaluate a natural-language claim query",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("query text is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for query")
			}

			ucOpts, err := engineCfg.Options()
			if err != nil {
				return goerr.Wrap(err, "failed to configure evaluation engine")
			}

			if enableAdvisory {
				adv, err := advisor.NewGemini(llmClient, advisor.WithTimeout(engineCfg.AdvisoryTimeout()))
				if err != nil {
					return goerr.Wrap(err, "failed to initialize advisory service")
				}
				ucOpts = append(ucOpts, usecase.WithAdvisor(adv))
			}

			uc := usecase.New(repo, embedding.NewGemini(llmClient), ucOpts...)

			decision := uc.AnswerQuery(ctx, query, 0)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(decision)
			}

			switch decision.Status {
			case types.DecisionApproved:
				color.Green("Decision: %s", decision.Status)
			default:
				color.Red("Decision: %s", decision.Status)
			}
			fmt.Printf("Amount: %d\n", decision.Amount)
			fmt.Printf("Justification: %s\n", decision.Justification)
			if len(decision.Clauses) > 0 {
				fmt.Println("Clauses:")
				for _, clause := range decision.Clauses {
					fmt.Printf("  - %s\n", clause)
				}
			}
			if decision.Advisory != types.AdvisoryUnavailable {
				color.Cyan("Advisory: %s", decision.Advisory)
			}
			return nil
		},
	}
}
