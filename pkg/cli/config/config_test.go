package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/claims-lab/themis/pkg/cli/config"
)

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644)).Required()
	return path
}

func TestLoadRuleFile(t *testing.T) {
	t.Run("valid rule file", func(t *testing.T) {
		path := writeRuleFile(t, `
[[rule]]
procedure = "appendectomy"
waiting_months = 1
payout = 50000

[[rule]]
procedure = "Knee Surgery"
waiting_months = 36
`)
		table, err := config.LoadRuleFile(path)
		gt.NoError(t, err).Required()

		months, ok := table.RequiredMonths("appendectomy")
		gt.B(t, ok).True()
		gt.Number(t, months).Equal(1)
		gt.Number(t, table.PayoutAmount("appendectomy")).Equal(50000)

		// Procedure names are normalized to lower case
		months, ok = table.RequiredMonths("knee surgery")
		gt.B(t, ok).True()
		gt.Number(t, months).Equal(36)
		gt.Number(t, table.PayoutAmount("knee surgery")).Equal(0)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadRuleFile(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err)
		gt.B(t, errors.Is(err, config.ErrConfigNotFound)).True()
	})

	t.Run("empty rule file", func(t *testing.T) {
		path := writeRuleFile(t, "")
		_, err := config.LoadRuleFile(path)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeRuleFile(t, "[[rule]\nprocedure =")
		_, err := config.LoadRuleFile(path)
		gt.Error(t, err)
	})

	t.Run("duplicate procedure", func(t *testing.T) {
		path := writeRuleFile(t, `
[[rule]]
procedure = "surgery"
waiting_months = 1

[[rule]]
procedure = "Surgery"
waiting_months = 12
`)
		_, err := config.LoadRuleFile(path)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, config.ErrDuplicateProcedure)).True()
	})

	t.Run("missing procedure name", func(t *testing.T) {
		path := writeRuleFile(t, `
[[rule]]
waiting_months = 3
`)
		_, err := config.LoadRuleFile(path)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, config.ErrMissingProcedure)).True()
	})

	t.Run("negative waiting period", func(t *testing.T) {
		path := writeRuleFile(t, `
[[rule]]
procedure = "surgery"
waiting_months = -1
`)
		_, err := config.LoadRuleFile(path)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, config.ErrInvalidWaitingPeriod)).True()
	})

	t.Run("negative payout", func(t *testing.T) {
		path := writeRuleFile(t, `
[[rule]]
procedure = "surgery"
waiting_months = 1
payout = -5
`)
		_, err := config.LoadRuleFile(path)
		gt.Error(t, err)
		gt.B(t, errors.Is(err, config.ErrInvalidPayout)).True()
	})
}

func TestLoggerConfigure(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		cfg := config.NewLoggerForTest("loud", "console", "stdout")
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		cfg := config.NewLoggerForTest("info", "xml", "stdout")
		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}

func TestGeminiConfigure(t *testing.T) {
	t.Run("returns nil client when project ID is empty", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "us-central1")
		client, err := cfg.Configure(t.Context())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})
}

func TestEngineOptions(t *testing.T) {
	t.Run("without rule file", func(t *testing.T) {
		cfg := config.NewEngineForTest(500, 5, 0.6, "")
		opts, err := cfg.Options()
		gt.NoError(t, err).Required()
		gt.Array(t, opts).Length(3)
	})

	t.Run("with rule file", func(t *testing.T) {
		path := writeRuleFile(t, `
[[rule]]
procedure = "appendectomy"
waiting_months = 1
payout = 50000
`)
		cfg := config.NewEngineForTest(500, 5, 0.6, path)
		opts, err := cfg.Options()
		gt.NoError(t, err).Required()
		gt.Array(t, opts).Length(4)
	})

	t.Run("with broken rule file", func(t *testing.T) {
		path := writeRuleFile(t, "not toml at all [")
		cfg := config.NewEngineForTest(500, 5, 0.6, path)
		_, err := cfg.Options()
		gt.Error(t, err)
	})
}
