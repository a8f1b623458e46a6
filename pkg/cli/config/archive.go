package config

import (
	"context"
	"log/slog"

	"github.com/claims-lab/themis/pkg/service/archive"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Archive holds CLI flags for raw document archiving to Cloud Storage
type Archive struct {
	bucket string
	prefix string
}

// Flags returns CLI flags for archive configuration
func (a *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket for raw document archives (disabled when empty)",
			Sources:     cli.EnvVars("THEMIS_ARCHIVE_BUCKET"),
			Destination: &a.bucket,
		},
		&cli.StringFlag{
			Name:        "archive-prefix",
			Usage:       "Object name prefix within the archive bucket",
			Sources:     cli.EnvVars("THEMIS_ARCHIVE_PREFIX"),
			Destination: &a.prefix,
		},
	}
}

// LogAttrs returns log attributes for the archive configuration
func (a *Archive) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("bucket", a.bucket),
		slog.String("prefix", a.prefix),
	}
}

// Configure creates the archive service from the configured flags.
// Returns nil if no bucket is configured (archiving will be disabled,
// ingestion proceeds without retaining raw text).
func (a *Archive) Configure(ctx context.Context) (*archive.Archive, error) {
	if a.bucket == "" {
		return nil, nil
	}

	var opts []archive.Option
	if a.prefix != "" {
		opts = append(opts, archive.WithPrefix(a.prefix))
	}

	svc, err := archive.New(ctx, a.bucket, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize archive service")
	}

	return svc, nil
}
