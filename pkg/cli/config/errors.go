package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound       = goerr.New("configuration file not found")
	ErrInvalidConfig        = goerr.New("invalid configuration")
	ErrDuplicateProcedure   = goerr.New("duplicate procedure in rule table")
	ErrMissingProcedure     = goerr.New("rule entry requires a procedure name")
	ErrInvalidWaitingPeriod = goerr.New("waiting period must not be negative")
	ErrInvalidPayout        = goerr.New("payout amount must not be negative")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	ProcedureKey  = "procedure"
	RuleIndexKey  = "rule_index"
)
