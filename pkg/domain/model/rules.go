package model

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RuleTable is the static waiting-period rule set applied by the
// decision engine. Keys are normalized (lower-cased) procedure names.
// The table is read-only at runtime.
type RuleTable struct {
	// WaitingPeriods maps procedure name to the minimum required policy
	// duration in months before the procedure is eligible.
	WaitingPeriods map[string]int
	// Payouts maps procedure name to the fixed payout amount on approval.
	// Procedures without an entry pay out zero.
	Payouts map[string]int
}

// DefaultRuleTable returns the built-in IRDAI-derived waiting periods.
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		WaitingPeriods: map[string]int{
			"appendectomy":              1, // 30 days
			"knee surgery":              36,
			"joint replacement surgery": 36,
			"surgery":                   1, // general surgery: 30 days
			"operation":                 1,
		},
		Payouts: map[string]int{
			"appendectomy": 50000,
		},
	}
}

// RequiredMonths returns the waiting period for a procedure. The second
// return value reports whether the procedure has a defined period.
func (t *RuleTable) RequiredMonths(procedure string) (int, bool) {
	months, ok := t.WaitingPeriods[strings.ToLower(procedure)]
	return months, ok
}

// PayoutAmount returns the fixed payout for a procedure, zero if undefined.
func (t *RuleTable) PayoutAmount(procedure string) int {
	return t.Payouts[strings.ToLower(procedure)]
}

// Validate checks the table for usable, non-negative entries.
func (t *RuleTable) Validate() error {
	for proc, months := range t.WaitingPeriods {
		if strings.TrimSpace(proc) == "" {
			return goerr.New("waiting period procedure name must not be empty")
		}
		if proc != strings.ToLower(proc) {
			return goerr.New("waiting period procedure name must be lower-case", goerr.V("procedure", proc))
		}
		if months < 0 {
			return goerr.New("waiting period must not be negative",
				goerr.V("procedure", proc), goerr.V("months", months))
		}
	}
	for proc, amount := range t.Payouts {
		if strings.TrimSpace(proc) == "" {
			return goerr.New("payout procedure name must not be empty")
		}
		if amount < 0 {
			return goerr.New("payout amount must not be negative",
				goerr.V("procedure", proc), goerr.V("amount", amount))
		}
	}
	return nil
}

// TopicalKeywords is the vocabulary that marks a clause as relevant to
// claim evaluation. The retriever and the decision engine apply the
// same set so a clause accepted by one is never discarded by the other
// for topicality.
var TopicalKeywords = []string{
	"hospitalization",
	"treatment",
	"surgery",
	"insured",
	"waiting period",
}

// IsTopical reports whether the text mentions at least one topical
// keyword. Matching is case-insensitive.
func IsTopical(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range TopicalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(month|year)`)

// DurationMonths parses a policy duration phrase like "10 months" or
// "2 year policy" into a month count. Unparseable input yields 0.
func DurationMonths(s string) int {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	if strings.EqualFold(m[2], "year") {
		return n * 12
	}
	return n
}
