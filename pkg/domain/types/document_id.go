package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DocumentID is the stable identifier of an ingested document.
// The value is used as a Firestore document path segment, so path
// separators are not allowed.
type DocumentID string

const maxDocumentIDLength = 256

// Validate checks if the document ID is usable as a storage key
func (d DocumentID) Validate() error {
	s := string(d)
	if strings.TrimSpace(s) == "" {
		return goerr.New("document ID must not be empty")
	}
	if len(s) > maxDocumentIDLength {
		return goerr.New("document ID is too long",
			goerr.V("id", s), goerr.V("length", len(s)), goerr.V("max", maxDocumentIDLength))
	}
	if strings.ContainsAny(s, "/\x00") {
		return goerr.New("document ID must not contain path separators", goerr.V("id", s))
	}
	return nil
}

// String returns the string representation of the document ID
func (d DocumentID) String() string {
	return string(d)
}
