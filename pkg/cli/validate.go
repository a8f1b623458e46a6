package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/claims-lab/themis/pkg/cli/config"
	"github.com/claims-lab/themis/pkg/domain/model"
	"github.com/claims-lab/themis/pkg/repository/firestore"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/claims-lab/themis/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var engineCfg config.Engine
	var firestoreProjectID string
	var firestoreDatabaseID string

	var flags []cli.Flag
	flags = append(flags, engineCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-project-id",
		Usage:       "Firestore Project ID (if specified, DB consistency check is performed)",
		Sources:     cli.EnvVars("THEMIS_FIRESTORE_PROJECT_ID"),
		Destination: &firestoreProjectID,
	})
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-database-id",
		Usage:       "Firestore Database ID",
		Sources:     cli.EnvVars("THEMIS_FIRESTORE_DATABASE_ID"),
		Destination: &firestoreDatabaseID,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the rule table and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate the rule table
			rules, err := engineCfg.LoadRules()
			if err != nil {
				return goerr.Wrap(err, "rule table validation failed")
			}
			if rules == nil {
				rules = model.DefaultRuleTable()
				logger.Info("No rule file specified, validated built-in rule table")
			} else {
				logger.Info("Rule table validation passed", "path", engineCfg.RulePath())
			}
			logger.Info("Rule table loaded",
				"procedure_count", len(rules.WaitingPeriods),
				"payout_count", len(rules.Payouts),
			)

			// Step 2: If Firestore project ID is specified, run DB consistency check
			if firestoreProjectID == "" {
				logger.Info("No Firestore project ID specified, skipping DB consistency check")
				return nil
			}

			repo, err := firestore.New(ctx, firestoreProjectID, firestoreDatabaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Firestore repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			logger.Info("Using Firestore repository",
				"project_id", firestoreProjectID,
				"database_id", firestoreDatabaseID,
			)

			// The validator only reads stored embeddings, no LLM calls
			uc := usecase.New(repo, embedding.NewFixed(model.EmbeddingDimension), usecase.WithRules(rules))
			result, err := uc.ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("DB consistency issue found",
						"document_id", issue.DocumentID,
						"detail", issue.Detail,
					)
				}
				return goerr.New("DB consistency check found issues", goerr.V("issue_count", len(result.Issues)))
			}

			logger.Info("DB consistency check passed")
			return nil
		},
	}
}
