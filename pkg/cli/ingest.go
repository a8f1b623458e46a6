package cli

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/claims-lab/themis/pkg/cli/config"
	"github.com/claims-lab/themis/pkg/domain/types"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/claims-lab/themis/pkg/utils/logging"
)

func cmdIngest() *cli.Command {
	var input string
	var docID string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var engineCfg config.Engine
	var archiveCfg config.Archive

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to the policy document text file (- for stdin)",
			Required:    true,
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "document-id",
			Aliases:     []string{"d"},
			Usage:       "Document ID to register the policy under",
			Required:    true,
			Destination: &docID,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)

	return &cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Chunk, anonymize and index a policy document",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var text []byte
			var err error
			if input == "-" {
				text, err = io.ReadAll(os.Stdin)
			} else {
				text, err = os.ReadFile(input)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to read input", goerr.V("input", input))
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
				return goerr.New("gemini-project is required for ingest")
			}

			ucOpts, err := engineCfg.Options()
			if err != nil {
				return goerr.Wrap(err, "failed to configure evaluation engine")
			}

			archiveSvc, err := archiveCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize archive service")
			}
			if archiveSvc != nil {
				defer func() {
					if err := archiveSvc.Close(); err != nil {
						logging.Default().Error("failed to close archive service", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithArchive(archiveSvc))
			}

			uc := usecase.New(repo, embedding.NewGemini(llmClient), ucOpts...)

			doc, err := uc.Ingest(ctx, types.DocumentID(docID), string(text))
			if err != nil {
				return goerr.Wrap(err, "failed to ingest document", goerr.V("document_id", docID))
			}

			color.Green("Ingested %s: %d clauses indexed", doc.ID, doc.ChunkCount)
			if doc.SkippedChunks > 0 {
				color.Yellow("Skipped %d chunks emptied by anonymization", doc.SkippedChunks)
			}
			if doc.ArchiveURL != "" {
				color.Blue("Raw text archived at %s", doc.ArchiveURL)
			}
			return nil
		},
	}
}
