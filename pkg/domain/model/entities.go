package model

import "strconv"

// Well-known entity keys produced by the query extractor. Any other key
// is either an explicit key:value pair from the query or a low-confidence
// fallback token.
const (
	EntityProcedure      = "procedure"
	EntityPolicyDuration = "policy_duration"
	EntityPreApproval    = "pre_approval"
	EntityAge            = "age"
)

// Entities is the structured attribute map extracted from one free-text
// query. It is produced per query and never persisted.
type Entities map[string]string

// Procedure returns the extracted procedure name, or ""
func (e Entities) Procedure() string {
	return e[EntityProcedure]
}

// PolicyDuration returns the extracted policy duration phrase, or ""
func (e Entities) PolicyDuration() string {
	return e[EntityPolicyDuration]
}

// Age returns the extracted age token (e.g. "45M"), or ""
func (e Entities) Age() string {
	return e[EntityAge]
}

// PreApproval reports whether the query mentioned pre-approval
func (e Entities) PreApproval() bool {
	v, err := strconv.ParseBool(e[EntityPreApproval])
	return err == nil && v
}

// Has reports whether the key has been extracted
func (e Entities) Has(key string) bool {
	_, ok := e[key]
	return ok
}
