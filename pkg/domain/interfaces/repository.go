package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Document() DocumentRepository
	Clause() ClauseRepository
	Conflict() ConflictRepository

	Close() error
}
