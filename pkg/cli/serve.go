package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/claims-lab/themis/pkg/cli/config"
	httpctrl "github.com/claims-lab/themis/pkg/controller/http"
	"github.com/claims-lab/themis/pkg/service/advisor"
	"github.com/claims-lab/themis/pkg/service/embedding"
	"github.com/claims-lab/themis/pkg/usecase"
	"github.com/claims-lab/themis/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var enableAdvisory bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var engineCfg config.Engine
	var archiveCfg config.Archive

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("THEMIS_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "advisory",
			Usage:       "Consult the LLM advisory judgment on each query",
			Value:       true,
			Sources:     cli.EnvVars("THEMIS_ADVISORY"),
			Destination: &enableAdvisory,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)
	flags = append(flags, archiveCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Initialize Gemini LLM client (required, embeddings depend on it)
			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for serve")
			}

			ucOpts, err := engineCfg.Options()
			if err != nil {
				return goerr.Wrap(err, "failed to configure evaluation engine")
			}

			// Initialize raw document archive if a bucket is configured
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
				logging.Default().Info("Document archiving enabled")
			} else {
				logging.Default().Info("Archive bucket not configured, raw documents will not be retained")
			}

			if enableAdvisory {
				adv, err := advisor.NewGemini(llmClient, advisor.WithTimeout(engineCfg.AdvisoryTimeout()))
				if err != nil {
					return goerr.Wrap(err, "failed to initialize advisory service")
				}
				ucOpts = append(ucOpts, usecase.WithAdvisor(adv))
				logging.Default().Info("Advisory judgment enabled", "timeout", engineCfg.AdvisoryTimeout())
			} else {
				logging.Default().Info("Advisory judgment disabled, decisions are rule-engine only")
			}

			uc := usecase.New(repo, embedding.NewGemini(llmClient), ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
