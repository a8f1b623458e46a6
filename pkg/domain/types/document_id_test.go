package types_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/claims-lab/themis/pkg/domain/types"
)

func TestDocumentIDValidate(t *testing.T) {
	cases := []struct {
		name  string
		id    types.DocumentID
		valid bool
	}{
		{"simple", "policy-1", true},
		{"with dots", "policy.v2.final", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"path separator", "a/b", false},
		{"nul byte", types.DocumentID("a\x00b"), false},
		{"max length", types.DocumentID(strings.Repeat("x", 256)), true},
		{"too long", types.DocumentID(strings.Repeat("x", 257)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.id.Validate()
			if tc.valid {
				gt.NoError(t, err)
			} else {
				gt.Error(t, err)
			}
		})
	}
}
