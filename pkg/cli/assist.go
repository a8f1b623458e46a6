package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/claims-lab/themis/pkg/cli/config"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/claims-lab/themis/pkg/utils/logging"
)

func cmdAssist() *cli.Command {
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var engineCfg config.Engine

	var flags []cli.Flag
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:      "assist",
		Aliases:   []string{"a"},
		Usage:     "Ask the claims assistant agent a free-form question",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question text is required")
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

			// Initialize Gemini LLM client (required)
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for assist")
			}

			ucOpts, err := engineCfg.Options()
			if err != nil {
				return goerr.Wrap(err, "failed to configure evaluation engine")
			}

			uc := usecase.New(repo, embedding.NewGemini(llmClient), ucOpts...)

			answer, err := uc.Assist(ctx, llmClient, question)
			if err != nil {
				return goerr.Wrap(err, "assist agent failed")
			}

			fmt.Println(answer)
			return nil
		},
	}
}
