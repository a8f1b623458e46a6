package memory

import (
	"errors"

	"github.com/claims-lab/themis/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Memory is an in-memory implementation of interfaces.Repository for
// development and testing. It mirrors the Firestore backend's behavior,
// including nearest-neighbor clause search.
type Memory struct {
	document *documentRepository
	clause   *clauseRepository
	conflict *conflictRepository
}

var _ interfaces.Repository = &Memory{}

// New creates a new in-memory repository
func New() *Memory {
	return &Memory{
		document: newDocumentRepository(),
		clause:   newClauseRepository(),
		conflict: newConflictRepository(),
	}
}

func (m *Memory) Document() interfaces.DocumentRepository {
	return m.document
}

func (m *Memory) Clause() interfaces.ClauseRepository {
	return m.clause
}

func (m *Memory) Conflict() interfaces.ConflictRepository {
	return m.conflict
}

func (m *Memory) Close() error {
	return nil
}
